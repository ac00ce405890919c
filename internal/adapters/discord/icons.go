package discord

import (
	"sync"

	"github.com/bwmarrin/discordgo"
)

var defaultIcons = map[string]string{
	"success": "✅",       // :white_check_mark:
	"error":   "❌",       // :x:
	"warning": "⚠️", // :warning:
	"info":    "ℹ️", // :information_source:
}

// IconCache serves the status markers used in command responses.
// Defaults are plain unicode; while the configured icon guild is
// available, its same-named custom emoji take over.
type IconCache struct {
	guildID string

	mu    sync.RWMutex
	icons map[string]string
}

func NewIconCache(guildID string) *IconCache {
	c := &IconCache{guildID: guildID, icons: make(map[string]string, len(defaultIcons))}
	c.reset()
	return c
}

func (c *IconCache) Success() string { return c.get("success") }
func (c *IconCache) Error() string   { return c.get("error") }
func (c *IconCache) Warning() string { return c.get("warning") }
func (c *IconCache) Info() string    { return c.get("info") }

func (c *IconCache) get(name string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.icons[name]
}

func (c *IconCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for name, icon := range defaultIcons {
		c.icons[name] = icon
	}
}

func (c *IconCache) load(guild *discordgo.Guild) {
	if guild.ID != c.guildID {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, emoji := range guild.Emojis {
		if _, ok := defaultIcons[emoji.Name]; !ok {
			continue
		}
		c.icons[emoji.Name] = emoji.MessageFormat()
	}
}

func (c *IconCache) unload(guildID string) {
	if guildID != c.guildID {
		return
	}
	c.reset()
}

// Install attaches the guild lifecycle listeners that keep the cache
// current.
func (c *IconCache) Install(s *discordgo.Session, f *Filter) {
	if c.guildID == "" {
		return
	}

	s.AddHandler(Wrap(f, "guildCreate", func(s *discordgo.Session, e *discordgo.GuildCreate) error {
		c.load(e.Guild)
		return nil
	}))
	s.AddHandler(Wrap(f, "guildDelete", func(s *discordgo.Session, e *discordgo.GuildDelete) error {
		c.unload(e.ID)
		return nil
	}))
	s.AddHandler(Wrap(f, "guildEmojisUpdate", func(s *discordgo.Session, e *discordgo.GuildEmojisUpdate) error {
		if guild, err := s.State.Guild(e.GuildID); err == nil {
			c.unload(e.GuildID)
			c.load(guild)
		}
		return nil
	}))
}
