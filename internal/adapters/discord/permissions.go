package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/wardenbot/warden/internal/command"
)

// MemberPermissions resolves the invoker's permissions in the origin
// channel. Interactions carry the computed permission set on the
// member; prefix messages do not, so those fall back to state.
func MemberPermissions(ctx command.Context) int64 {
	if m := ctx.Member(); m != nil && m.Permissions != 0 {
		return m.Permissions
	}

	s := ctx.Session()
	if s == nil {
		return 0
	}
	perms, err := s.State.UserChannelPermissions(ctx.User().ID, ctx.ChannelID())
	if err != nil {
		return 0
	}
	return perms
}

// HasPermission reports whether the invoker holds perm in the origin
// channel. Commands use it as a silent gate.
func HasPermission(ctx command.Context, perm int64) bool {
	return MemberPermissions(ctx)&perm == perm
}

// canSendIn re-validates the bot's own ability to post in a channel.
// Unknown channels count as unwritable.
func canSendIn(s *discordgo.Session, channelID string) bool {
	if s.State == nil || s.State.User == nil {
		return true
	}
	perms, err := s.State.UserChannelPermissions(s.State.User.ID, channelID)
	if err != nil {
		return false
	}
	need := int64(discordgo.PermissionViewChannel | discordgo.PermissionSendMessages)
	return perms&need == need
}

// HighestRolePosition returns the position of the member's highest
// role, or 0 (the everyone role) when none resolve from state.
func HighestRolePosition(s *discordgo.Session, guildID string, member *discordgo.Member) int {
	guild, err := s.State.Guild(guildID)
	if err != nil {
		return 0
	}

	position := 0
	for _, roleID := range member.Roles {
		for _, role := range guild.Roles {
			if role.ID == roleID && role.Position > position {
				position = role.Position
			}
		}
	}
	return position
}
