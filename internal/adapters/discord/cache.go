package discord

import (
	"github.com/bwmarrin/discordgo"
)

// State-first lookups with a REST fallback. Every helper here hits the
// network at most once per call.

func UserCached(s *discordgo.Session, userID string) (*discordgo.User, error) {
	if member := memberFromState(s, userID); member != nil {
		return member.User, nil
	}
	return s.User(userID)
}

func memberFromState(s *discordgo.Session, userID string) *discordgo.Member {
	if s.State == nil {
		return nil
	}
	for _, guild := range s.State.Guilds {
		if member, err := s.State.Member(guild.ID, userID); err == nil && member.User != nil {
			return member
		}
	}
	return nil
}

func MemberCached(s *discordgo.Session, guildID, userID string) (*discordgo.Member, error) {
	if s.State != nil {
		if member, err := s.State.Member(guildID, userID); err == nil {
			return member, nil
		}
	}
	return s.GuildMember(guildID, userID)
}

// BotMember resolves the bot's own membership in a guild.
func BotMember(s *discordgo.Session, guildID string) (*discordgo.Member, error) {
	return MemberCached(s, guildID, s.State.User.ID)
}

// DMChannel opens (or reuses) the DM channel with a user. discordgo
// caches the channel internally, so repeated calls are cheap.
func DMChannel(s *discordgo.Session, userID string) (*discordgo.Channel, error) {
	return s.UserChannelCreate(userID)
}
