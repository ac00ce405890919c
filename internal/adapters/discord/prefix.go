package discord

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"

	"github.com/wardenbot/warden/internal/command"
	"github.com/wardenbot/warden/internal/ttl"
)

const (
	trackedTTL    = 30 * time.Minute
	trackedSweep  = time.Minute
	commandFailed = "💥 Failed to execute command"
)

// rest is the slice of the session the prefix engine writes through.
// *discordgo.Session satisfies it.
type rest interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
}

// PrefixEngine dispatches prefix commands from plain chat messages.
// Successful invocations of tracking commands are remembered for a
// bounded time so an edit of the triggering message re-runs the
// command against the same response.
type PrefixEngine struct {
	session  *discordgo.Session
	rest     rest
	registry *command.Registry
	prefix   string
	logger   *log.Logger

	tracked *ttl.Map[string, *PrefixContext]
}

func NewPrefixEngine(session *discordgo.Session, registry *command.Registry, prefix string, logger *log.Logger) *PrefixEngine {
	return &PrefixEngine{
		session:  session,
		rest:     session,
		registry: registry,
		prefix:   prefix,
		logger:   logger,
		tracked:  ttl.NewMap[string, *PrefixContext](trackedTTL),
	}
}

// Install attaches the message lifecycle listeners.
func (e *PrefixEngine) Install(f *Filter) {
	e.session.AddHandler(Wrap(f, "messageCreate", func(s *discordgo.Session, m *discordgo.MessageCreate) error {
		return e.handle(m.Message, nil)
	}))
	e.session.AddHandler(Wrap(f, "messageUpdate", func(s *discordgo.Session, m *discordgo.MessageUpdate) error {
		return e.handleEdit(m.Message)
	}))
	e.session.AddHandler(Wrap(f, "messageDelete", func(s *discordgo.Session, m *discordgo.MessageDelete) error {
		return e.handleDelete(m.Message)
	}))
}

// Run sweeps expired tracked contexts until ctx is cancelled.
func (e *PrefixEngine) Run(ctx context.Context) error {
	ticker := time.NewTicker(trackedSweep)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			e.tracked.Cleanup()
		}
	}
}

func (e *PrefixEngine) handle(m *discordgo.Message, prev *PrefixContext) error {
	if m.Author == nil || m.Author.Bot {
		return nil
	}

	// yes, non-bot webhook is/has been possible
	if m.WebhookID != "" {
		return nil
	}

	if m.GuildID != "" && m.Member == nil {
		return nil
	}

	if m.Type != discordgo.MessageTypeDefault && m.Type != discordgo.MessageTypeReply {
		return nil
	}

	if m.GuildID != "" && e.session != nil && !canSendIn(e.session, m.ChannelID) {
		return nil
	}

	if !strings.HasPrefix(m.Content, e.prefix) {
		return nil
	}

	unprefixed := m.Content[len(e.prefix):]
	name, input, hasInput := strings.Cut(unprefixed, " ")

	matches := supportingPrefix(e.registry.Lookup(name))
	if len(matches) != 1 {
		return nil
	}
	cmd := matches[0]

	if prev != nil && prev.command != cmd {
		e.tracked.Set(m.ID, prev)
		return nil
	}

	ctx := prev
	if ctx == nil {
		ctx = &PrefixContext{
			command: cmd,
			engine:  e,
			message: m,
		}
	}

	if !hasInput {
		input = ""
	}

	args, err := command.NewParser(input).Parse(cmd)
	if err != nil {
		if respondErr := ctx.Respond(command.Text(err.Error())); respondErr != nil {
			return respondErr
		}
		e.tracked.Set(m.ID, ctx)
		return nil
	}

	if err := cmd.Run(ctx, args); err != nil {
		if respondErr := ctx.Respond(command.Text(commandFailed)); respondErr != nil {
			e.logger.Error("failure notice not delivered", "command", cmd.Name(), "err", respondErr)
		}
		return err
	}

	if cmd.TrackUpdates {
		e.tracked.Set(m.ID, ctx)
	}
	return nil
}

func (e *PrefixEngine) handleEdit(m *discordgo.Message) error {
	prev, ok := e.tracked.Get(m.ID)
	if !ok {
		return nil
	}

	e.tracked.Delete(m.ID)
	return e.handle(m, prev)
}

func (e *PrefixEngine) handleDelete(m *discordgo.Message) error {
	ctx, ok := e.tracked.Get(m.ID)
	if !ok {
		return nil
	}

	e.tracked.Delete(m.ID)
	return ctx.deleteResponse()
}

func supportingPrefix(cmds []*command.Command) []*command.Command {
	matches := cmds[:0:0]
	for _, cmd := range cmds {
		if cmd.SupportsPrefix() {
			matches = append(matches, cmd)
		}
	}
	return matches
}

// PrefixContext binds one prefix invocation to its response message.
type PrefixContext struct {
	command *command.Command
	engine  *PrefixEngine
	message *discordgo.Message

	response *discordgo.Message
}

func (c *PrefixContext) Command() *command.Command   { return c.command }
func (c *PrefixContext) GuildID() string             { return c.message.GuildID }
func (c *PrefixContext) ChannelID() string           { return c.message.ChannelID }
func (c *PrefixContext) User() *discordgo.User       { return c.message.Author }
func (c *PrefixContext) Member() *discordgo.Member   { return c.message.Member }
func (c *PrefixContext) Session() *discordgo.Session { return c.engine.session }

// MessageID exposes the triggering message so commands that walk
// channel history can exclude it. Slash contexts have no counterpart.
func (c *PrefixContext) MessageID() string { return c.message.ID }

// Respond creates the response message on the first call and
// wholesale-replaces it on every later call.
func (c *PrefixContext) Respond(reply command.Reply) error {
	if c.message.GuildID != "" && c.engine.session != nil && !canSendIn(c.engine.session, c.message.ChannelID) {
		return nil
	}

	var flags discordgo.MessageFlags
	if c.message.Flags&discordgo.MessageFlagsSuppressNotifications != 0 {
		flags |= discordgo.MessageFlagsSuppressNotifications
	}

	if c.response == nil {
		response, err := c.engine.rest.ChannelMessageSendComplex(c.message.ChannelID, &discordgo.MessageSend{
			Content:    reply.Content,
			Embeds:     reply.Embeds,
			Components: reply.Components,
			Flags:      flags,
		})
		if err != nil {
			return err
		}
		c.response = response
		return nil
	}

	content := reply.Content
	embeds := reply.Embeds
	if embeds == nil {
		embeds = []*discordgo.MessageEmbed{}
	}
	components := reply.Components
	if components == nil {
		components = []discordgo.MessageComponent{}
	}

	_, err := c.engine.rest.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    c.response.ChannelID,
		ID:         c.response.ID,
		Content:    &content,
		Embeds:     &embeds,
		Components: &components,
	})
	return err
}

func (c *PrefixContext) deleteResponse() error {
	if c.response == nil {
		return nil
	}
	return c.engine.rest.ChannelMessageDelete(c.response.ChannelID, c.response.ID)
}
