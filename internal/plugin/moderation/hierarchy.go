package moderation

import (
	"github.com/bwmarrin/discordgo"

	"github.com/wardenbot/warden/internal/adapters/discord"
	"github.com/wardenbot/warden/internal/command"
)

const (
	actorHierarchyError = "Your highest role is not above target's highest role"
	botHierarchyError   = "Bot's highest role is not above target's highest role"
)

// checkHierarchy enforces the role ladder for an action against an
// in-guild target. It returns the failure reason, or "" when the
// action may proceed. Guild owners outrank every role.
func checkHierarchy(ctx command.Context, targetID string, target *discordgo.Member) string {
	s := ctx.Session()
	guild, err := s.State.Guild(ctx.GuildID())
	if err != nil {
		return ""
	}

	targetPos := discord.HighestRolePosition(s, ctx.GuildID(), target)

	if guild.OwnerID != ctx.User().ID {
		actorPos := discord.HighestRolePosition(s, ctx.GuildID(), ctx.Member())
		if guild.OwnerID == targetID || actorPos <= targetPos {
			return actorHierarchyError
		}
	}

	if guild.OwnerID != s.State.User.ID {
		botPos := 0
		if botMember, err := discord.BotMember(s, ctx.GuildID()); err == nil {
			botPos = discord.HighestRolePosition(s, ctx.GuildID(), botMember)
		}
		if guild.OwnerID == targetID || botPos <= targetPos {
			return botHierarchyError
		}
	}

	return ""
}

// sendDM best-effort delivers a direct message; failures (closed DMs,
// REST errors) only clear the dm-sent flag.
func sendDM(s *discordgo.Session, userID, content string) bool {
	channel, err := discord.DMChannel(s, userID)
	if err != nil {
		return false
	}
	_, err = s.ChannelMessageSend(channel.ID, content)
	return err == nil
}
