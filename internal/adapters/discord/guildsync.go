package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"

	"github.com/wardenbot/warden/internal/app/service"
	"github.com/wardenbot/warden/internal/infra/storage"
)

// GuildSync mirrors guild metadata into storage so the HTTP API can
// answer ownership checks without a gateway round trip.
type GuildSync struct {
	guilds *service.GuildService
	logger *log.Logger
}

func NewGuildSync(guilds *service.GuildService, logger *log.Logger) *GuildSync {
	return &GuildSync{guilds: guilds, logger: logger}
}

// Install syncs every guild the session already knows and keeps the
// mirror current as guilds become available.
func (g *GuildSync) Install(s *discordgo.Session, f *Filter) {
	for _, guild := range s.State.Guilds {
		if err := g.update(guild); err != nil {
			g.logger.Error("guild sync failed", "guild", guild.ID, "err", err)
		}
	}

	s.AddHandler(Wrap(f, "guildCreate", func(s *discordgo.Session, e *discordgo.GuildCreate) error {
		return g.update(e.Guild)
	}))
}

func (g *GuildSync) update(guild *discordgo.Guild) error {
	var iconHash *string
	if guild.Icon != "" {
		icon := guild.Icon
		iconHash = &icon
	}

	return g.guilds.Sync(context.Background(), storage.GuildInfo{
		GuildID:  guild.ID,
		Name:     guild.Name,
		IconHash: iconHash,
		OwnerID:  guild.OwnerID,
	})
}
