package discord

import (
	"io"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestFilterGuildAllowList(t *testing.T) {
	filter := NewFilter([]string{"allowed"}, log.New(io.Discard))

	calls := 0
	handler := Wrap(filter, "messageCreate", func(s *discordgo.Session, m *discordgo.MessageCreate) error {
		calls++
		return nil
	})

	handler(nil, &discordgo.MessageCreate{Message: &discordgo.Message{GuildID: "allowed"}})
	assert.Equal(t, 1, calls)

	handler(nil, &discordgo.MessageCreate{Message: &discordgo.Message{GuildID: "other"}})
	assert.Equal(t, 1, calls)

	// direct messages have no guild and pass any list
	handler(nil, &discordgo.MessageCreate{Message: &discordgo.Message{}})
	assert.Equal(t, 2, calls)
}

func TestFilterEmptyListAllowsAll(t *testing.T) {
	filter := NewFilter(nil, log.New(io.Discard))

	calls := 0
	handler := Wrap(filter, "guildCreate", func(s *discordgo.Session, g *discordgo.GuildCreate) error {
		calls++
		return nil
	})

	handler(nil, &discordgo.GuildCreate{Guild: &discordgo.Guild{ID: "any"}})
	assert.Equal(t, 1, calls)
}

func TestWrapRecoversPanic(t *testing.T) {
	filter := NewFilter(nil, log.New(io.Discard))

	handler := Wrap(filter, "messageCreate", func(s *discordgo.Session, m *discordgo.MessageCreate) error {
		panic("boom")
	})

	assert.NotPanics(t, func() {
		handler(nil, &discordgo.MessageCreate{Message: &discordgo.Message{}})
	})
}

func TestGuildOfUnknownEventIsGlobal(t *testing.T) {
	assert.Empty(t, guildOf(&discordgo.Ready{}))
	assert.Equal(t, "g", guildOf(&discordgo.GuildBanAdd{GuildID: "g"}))
	assert.Equal(t, "g", guildOf(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{GuildID: "g"}}))
}
