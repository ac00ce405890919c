package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
)

// Filter gates gateway events before their listener runs: guild-scoped
// events from guilds outside the allow-list are dropped, and listener
// panics or errors are logged instead of taking down the session.
type Filter struct {
	allowed map[string]struct{}
	logger  *log.Logger
}

// NewFilter builds a filter from the configured guild allow-list. An
// empty list allows every guild.
func NewFilter(allowedGuilds []string, logger *log.Logger) *Filter {
	var allowed map[string]struct{}
	if len(allowedGuilds) > 0 {
		allowed = make(map[string]struct{}, len(allowedGuilds))
		for _, id := range allowedGuilds {
			allowed[id] = struct{}{}
		}
	}
	return &Filter{allowed: allowed, logger: logger}
}

func (f *Filter) allows(guildID string) bool {
	if f.allowed == nil {
		return true
	}
	_, ok := f.allowed[guildID]
	return ok
}

// Wrap adapts a fallible listener into a discordgo handler guarded by
// the filter. It is a package function because Go methods cannot carry
// their own type parameters.
func Wrap[E any](f *Filter, name string, fn func(s *discordgo.Session, e E) error) func(*discordgo.Session, E) {
	return func(s *discordgo.Session, e E) {
		if guildID := guildOf(e); guildID != "" && !f.allows(guildID) {
			return
		}

		defer func() {
			if r := recover(); r != nil {
				f.logger.Error("event handler panicked", "event", name, "panic", r)
			}
		}()

		if err := fn(s, e); err != nil {
			f.logger.Error("event handler failed", "event", name, "err", err)
		}
	}
}

// guildOf extracts the guild an event is scoped to. Event types
// without a case here count as global and are never filtered.
func guildOf(event any) string {
	switch e := event.(type) {
	case *discordgo.MessageCreate:
		return e.GuildID
	case *discordgo.MessageUpdate:
		return e.GuildID
	case *discordgo.MessageDelete:
		return e.GuildID
	case *discordgo.MessageDeleteBulk:
		return e.GuildID
	case *discordgo.MessageReactionAdd:
		return e.GuildID
	case *discordgo.MessageReactionRemove:
		return e.GuildID
	case *discordgo.MessageReactionRemoveAll:
		return e.GuildID
	case *discordgo.InteractionCreate:
		return e.GuildID
	case *discordgo.GuildCreate:
		return e.ID
	case *discordgo.GuildUpdate:
		return e.ID
	case *discordgo.GuildDelete:
		return e.ID
	case *discordgo.GuildBanAdd:
		return e.GuildID
	case *discordgo.GuildBanRemove:
		return e.GuildID
	case *discordgo.GuildMemberAdd:
		return e.GuildID
	case *discordgo.GuildMemberUpdate:
		return e.GuildID
	case *discordgo.GuildMemberRemove:
		return e.GuildID
	case *discordgo.GuildMembersChunk:
		return e.GuildID
	case *discordgo.GuildRoleCreate:
		return e.GuildID
	case *discordgo.GuildRoleUpdate:
		return e.GuildID
	case *discordgo.GuildRoleDelete:
		return e.GuildID
	case *discordgo.GuildEmojisUpdate:
		return e.GuildID
	case *discordgo.GuildIntegrationsUpdate:
		return e.GuildID
	case *discordgo.GuildScheduledEventCreate:
		return e.GuildID
	case *discordgo.GuildScheduledEventUpdate:
		return e.GuildID
	case *discordgo.GuildScheduledEventDelete:
		return e.GuildID
	case *discordgo.ChannelCreate:
		return e.GuildID
	case *discordgo.ChannelUpdate:
		return e.GuildID
	case *discordgo.ChannelDelete:
		return e.GuildID
	case *discordgo.ChannelPinsUpdate:
		return e.GuildID
	case *discordgo.ThreadCreate:
		return e.GuildID
	case *discordgo.ThreadUpdate:
		return e.GuildID
	case *discordgo.ThreadDelete:
		return e.GuildID
	case *discordgo.ThreadListSync:
		return e.GuildID
	case *discordgo.ThreadMemberUpdate:
		return e.GuildID
	case *discordgo.ThreadMembersUpdate:
		return e.GuildID
	case *discordgo.InviteCreate:
		return e.GuildID
	case *discordgo.InviteDelete:
		return e.GuildID
	case *discordgo.VoiceStateUpdate:
		return e.GuildID
	case *discordgo.PresenceUpdate:
		return e.GuildID
	case *discordgo.TypingStart:
		return e.GuildID
	case *discordgo.WebhooksUpdate:
		return e.GuildID
	case *discordgo.AutoModerationRuleCreate:
		return e.GuildID
	case *discordgo.AutoModerationRuleUpdate:
		return e.GuildID
	case *discordgo.AutoModerationRuleDelete:
		return e.GuildID
	case *discordgo.AutoModerationActionExecution:
		return e.GuildID
	case *discordgo.GuildAuditLogEntryCreate:
		return e.GuildID
	case *discordgo.StageInstanceEventCreate:
		return e.GuildID
	case *discordgo.StageInstanceEventUpdate:
		return e.GuildID
	case *discordgo.StageInstanceEventDelete:
		return e.GuildID
	default:
		return ""
	}
}
