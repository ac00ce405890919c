package discord

import (
	"fmt"
	"io"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenbot/warden/internal/command"
	"github.com/wardenbot/warden/internal/ttl"
)

type fakeRest struct {
	sends   []*discordgo.MessageSend
	edits   []*discordgo.MessageEdit
	deleted []string
}

func (f *fakeRest) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.sends = append(f.sends, data)
	return &discordgo.Message{
		ID:        fmt.Sprintf("response-%d", len(f.sends)),
		ChannelID: channelID,
	}, nil
}

func (f *fakeRest) ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.edits = append(f.edits, m)
	return &discordgo.Message{ID: m.ID, ChannelID: m.Channel}, nil
}

func (f *fakeRest) ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error {
	f.deleted = append(f.deleted, messageID)
	return nil
}

func newTestPrefixEngine(registry *command.Registry) (*PrefixEngine, *fakeRest) {
	fake := &fakeRest{}
	return &PrefixEngine{
		rest:     fake,
		registry: registry,
		prefix:   "?",
		logger:   log.New(io.Discard),
		tracked:  ttl.NewMap[string, *PrefixContext](trackedTTL),
	}, fake
}

func chatMessage(id, content string) *discordgo.Message {
	return &discordgo.Message{
		ID:        id,
		ChannelID: "channel",
		GuildID:   "guild",
		Content:   content,
		Author:    &discordgo.User{ID: "author"},
		Member:    &discordgo.Member{},
		Type:      discordgo.MessageTypeDefault,
	}
}

func TestPrefixDispatch(t *testing.T) {
	registry := command.NewRegistry()
	var got command.Args
	registry.Register(&command.Command{
		IDs: []string{"echo"},
		Options: []*command.Option{
			{Key: "text", IDs: []string{"text"}, Type: command.String, Required: true, Position: command.Pos(0)},
		},
		Run: func(ctx command.Context, args command.Args) error {
			got = args
			return ctx.Respond(command.Text(args.Str("text")))
		},
	})

	engine, fake := newTestPrefixEngine(registry)
	require.NoError(t, engine.handle(chatMessage("1", "?echo hello"), nil))

	require.NotNil(t, got)
	assert.Equal(t, "hello", got.Str("text"))
	require.Len(t, fake.sends, 1)
	assert.Equal(t, "hello", fake.sends[0].Content)
}

func TestPrefixIgnoresNonCommands(t *testing.T) {
	registry := command.NewRegistry()
	ran := false
	registry.Register(&command.Command{
		IDs: []string{"ping"},
		Run: func(ctx command.Context, args command.Args) error {
			ran = true
			return nil
		},
	})

	bot := chatMessage("1", "?ping")
	bot.Author.Bot = true

	webhook := chatMessage("2", "?ping")
	webhook.WebhookID = "hook"

	memberless := chatMessage("3", "?ping")
	memberless.Member = nil

	system := chatMessage("4", "?ping")
	system.Type = discordgo.MessageTypeGuildMemberJoin

	unprefixed := chatMessage("5", "ping")

	unknown := chatMessage("6", "?frobnicate")

	engine, fake := newTestPrefixEngine(registry)
	for _, m := range []*discordgo.Message{bot, webhook, memberless, system, unprefixed, unknown} {
		require.NoError(t, engine.handle(m, nil))
	}

	assert.False(t, ran)
	assert.Empty(t, fake.sends)
}

func TestPrefixAmbiguousAliasStaysSilent(t *testing.T) {
	registry := command.NewRegistry()
	ran := 0
	run := func(ctx command.Context, args command.Args) error {
		ran++
		return ctx.Respond(command.Text("ok"))
	}
	registry.Register(&command.Command{IDs: []string{"first", "x"}, Run: run})
	registry.Register(&command.Command{IDs: []string{"second", "x"}, Run: run})

	engine, fake := newTestPrefixEngine(registry)
	require.NoError(t, engine.handle(chatMessage("1", "?x"), nil))

	assert.Zero(t, ran)
	assert.Empty(t, fake.sends)

	// an unambiguous alias of the same command still dispatches
	require.NoError(t, engine.handle(chatMessage("2", "?first"), nil))
	assert.Equal(t, 1, ran)
}

func TestPrefixParseErrorRespondsAndTracks(t *testing.T) {
	registry := command.NewRegistry()
	registry.Register(&command.Command{
		IDs: []string{"warn"},
		Options: []*command.Option{
			{Key: "user", IDs: []string{"user"}, Type: command.User, Required: true, Position: command.Pos(0)},
		},
		TrackUpdates: true,
		Run: func(ctx command.Context, args command.Args) error {
			return ctx.Respond(command.Text("warned " + args.ID("user")))
		},
	})

	engine, fake := newTestPrefixEngine(registry)
	require.NoError(t, engine.handle(chatMessage("1", "?warn"), nil))

	require.Len(t, fake.sends, 1)
	assert.Equal(t, "Missing user", fake.sends[0].Content)

	// fixing the message edits the error response in place
	edited := chatMessage("1", "?warn <@123456789012345678>")
	require.NoError(t, engine.handleEdit(edited))

	assert.Len(t, fake.sends, 1)
	require.Len(t, fake.edits, 1)
	assert.Equal(t, "warned 123456789012345678", *fake.edits[0].Content)
}

func TestPrefixEditKeepsContextAcrossCommandChange(t *testing.T) {
	registry := command.NewRegistry()
	runs := map[string]int{}
	track := func(name string) *command.Command {
		return &command.Command{
			IDs:          []string{name},
			TrackUpdates: true,
			Run: func(ctx command.Context, args command.Args) error {
				runs[name]++
				return ctx.Respond(command.Text(name))
			},
		}
	}
	registry.Register(track("first"))
	registry.Register(track("second"))

	engine, fake := newTestPrefixEngine(registry)
	require.NoError(t, engine.handle(chatMessage("1", "?first"), nil))
	require.Len(t, fake.sends, 1)

	// editing to a different command is ignored, and the original
	// context stays tracked for later edits back
	require.NoError(t, engine.handleEdit(chatMessage("1", "?second")))
	assert.Zero(t, runs["second"])
	assert.Len(t, fake.sends, 1)
	assert.Empty(t, fake.edits)

	require.NoError(t, engine.handleEdit(chatMessage("1", "?first")))
	assert.Equal(t, 2, runs["first"])
	require.Len(t, fake.edits, 1)
	assert.Equal(t, "first", *fake.edits[0].Content)
}

func TestPrefixDeleteRemovesResponse(t *testing.T) {
	registry := command.NewRegistry()
	registry.Register(&command.Command{
		IDs:          []string{"ping"},
		TrackUpdates: true,
		Run: func(ctx command.Context, args command.Args) error {
			return ctx.Respond(command.Text("pong"))
		},
	})

	engine, fake := newTestPrefixEngine(registry)
	require.NoError(t, engine.handle(chatMessage("1", "?ping"), nil))
	require.Len(t, fake.sends, 1)

	require.NoError(t, engine.handleDelete(chatMessage("1", "")))
	assert.Equal(t, []string{"response-1"}, fake.deleted)

	// a second delete of the same message is a no-op
	require.NoError(t, engine.handleDelete(chatMessage("1", "")))
	assert.Len(t, fake.deleted, 1)
}

func TestPrefixRespondCreateThenEdit(t *testing.T) {
	engine, fake := newTestPrefixEngine(command.NewRegistry())
	ctx := &PrefixContext{
		engine:  engine,
		message: chatMessage("1", "?ping"),
	}
	ctx.message.Flags = discordgo.MessageFlagsSuppressNotifications

	require.NoError(t, ctx.Respond(command.Reply{
		Content: "working",
		Embeds:  []*discordgo.MessageEmbed{{Title: "progress"}},
	}))
	require.Len(t, fake.sends, 1)
	assert.Equal(t, discordgo.MessageFlagsSuppressNotifications, fake.sends[0].Flags)

	require.NoError(t, ctx.Respond(command.Text("done")))
	require.Len(t, fake.edits, 1)

	// later replies replace the previous one wholesale
	edit := fake.edits[0]
	assert.Equal(t, "done", *edit.Content)
	require.NotNil(t, edit.Embeds)
	assert.Empty(t, *edit.Embeds)
	require.NotNil(t, edit.Components)
	assert.Empty(t, *edit.Components)
}
