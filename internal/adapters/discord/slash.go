package discord

import (
	"strconv"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"

	"github.com/wardenbot/warden/internal/command"
)

// Interactions expire after 3 s; the engine defers at 1 s so slow
// handlers keep their reply window.
const deferAfter = time.Second

// interactionResponder is the slice of the session the slash engine
// answers through. *discordgo.Session satisfies it.
type interactionResponder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// SlashEngine maps application-command interactions onto the same
// command definitions the prefix engine dispatches.
type SlashEngine struct {
	session   *discordgo.Session
	responder interactionResponder
	registry  *command.Registry
	logger    *log.Logger
}

func NewSlashEngine(session *discordgo.Session, registry *command.Registry, logger *log.Logger) *SlashEngine {
	return &SlashEngine{
		session:   session,
		responder: session,
		registry:  registry,
		logger:    logger,
	}
}

// SyncCommands replaces the entire remote application-command set with
// the current registry contents.
func (e *SlashEngine) SyncCommands(appID string) error {
	commands := make([]*discordgo.ApplicationCommand, 0, len(e.registry.All()))

	for _, cmd := range e.registry.All() {
		options := make([]*discordgo.ApplicationCommandOption, 0, len(cmd.Options))
		for _, opt := range cmd.Options {
			options = append(options, &discordgo.ApplicationCommandOption{
				Type:        slashOptionType(opt.Type),
				Name:        opt.ID(),
				Description: "option",
				Required:    opt.Required,
			})
		}

		commands = append(commands, &discordgo.ApplicationCommand{
			Type:        discordgo.ChatApplicationCommand,
			Name:        cmd.Name(),
			Description: "command",
			Options:     options,
		})
	}

	_, err := e.session.ApplicationCommandBulkOverwrite(appID, "", commands)
	return err
}

// The structured interaction format has no dedicated ID option type,
// so Snowflake rides on integer and Void on boolean.
func slashOptionType(t command.OptionType) discordgo.ApplicationCommandOptionType {
	switch t {
	case command.Void, command.Boolean:
		return discordgo.ApplicationCommandOptionBoolean
	case command.String:
		return discordgo.ApplicationCommandOptionString
	case command.Integer, command.Snowflake:
		return discordgo.ApplicationCommandOptionInteger
	case command.Number:
		return discordgo.ApplicationCommandOptionNumber
	case command.User:
		return discordgo.ApplicationCommandOptionUser
	case command.Role:
		return discordgo.ApplicationCommandOptionRole
	case command.Channel:
		return discordgo.ApplicationCommandOptionChannel
	}
	return discordgo.ApplicationCommandOptionString
}

// Install attaches the interaction listener.
func (e *SlashEngine) Install(f *Filter) {
	e.session.AddHandler(Wrap(f, "interactionCreate", func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		return e.handle(i.Interaction)
	}))
}

func (e *SlashEngine) handle(interaction *discordgo.Interaction) error {
	if interaction.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	data := interaction.ApplicationCommandData()

	matches := supportingSlash(e.registry.Lookup(data.Name))
	if len(matches) != 1 {
		return nil
	}
	cmd := matches[0]

	ctx := newSlashContext(cmd, e, interaction)
	defer ctx.cancelDefer()

	args := mapOptions(cmd, data.Options)

	if err := cmd.Run(ctx, args); err != nil {
		if respondErr := ctx.Respond(command.Text("💥 Failed to execute /" + cmd.Name())); respondErr != nil {
			e.logger.Error("failure notice not delivered", "command", cmd.Name(), "err", respondErr)
		}
		return err
	}
	return nil
}

// mapOptions converts structured interaction options into the shape
// the parser produces. Array schema entries wrap the single provided
// value: structured interactions have no multi-value options, so the
// prefix path remains the authoritative array contract.
func mapOptions(cmd *command.Command, opts []*discordgo.ApplicationCommandInteractionDataOption) command.Args {
	args := make(command.Args, len(cmd.Options))
	lookup := make(map[string]*command.Option, len(cmd.Options))

	for _, opt := range cmd.Options {
		if opt.Array {
			args[opt.Key] = emptySlice(opt.Type)
		} else {
			args[opt.Key] = nil
		}
		lookup[opt.ID()] = opt
	}

	for _, in := range opts {
		opt, ok := lookup[in.Name]
		if !ok {
			continue
		}
		value := optionValue(opt.Type, in)
		if opt.Array {
			value = wrapSingle(value)
		}
		args[opt.Key] = value
	}
	return args
}

func optionValue(t command.OptionType, in *discordgo.ApplicationCommandInteractionDataOption) any {
	switch t {
	case command.Void, command.Boolean:
		return in.BoolValue()
	case command.String:
		return in.StringValue()
	case command.Integer:
		return in.IntValue()
	case command.Number:
		return in.FloatValue()
	case command.User:
		return in.UserValue(nil).ID
	case command.Role:
		return in.RoleValue(nil, "").ID
	case command.Channel:
		return in.ChannelValue(nil).ID
	case command.Snowflake:
		return strconv.FormatInt(in.IntValue(), 10)
	}
	return nil
}

func emptySlice(t command.OptionType) any {
	switch t {
	case command.Void, command.Boolean:
		return []bool{}
	case command.String, command.User, command.Role, command.Channel, command.Snowflake:
		return []string{}
	case command.Integer:
		return []int64{}
	case command.Number:
		return []float64{}
	}
	return nil
}

func wrapSingle(value any) any {
	switch v := value.(type) {
	case bool:
		return []bool{v}
	case string:
		return []string{v}
	case int64:
		return []int64{v}
	case float64:
		return []float64{v}
	}
	return value
}

func supportingSlash(cmds []*command.Command) []*command.Command {
	matches := cmds[:0:0]
	for _, cmd := range cmds {
		if cmd.SupportsSlash() {
			matches = append(matches, cmd)
		}
	}
	return matches
}

// SlashContext binds one interaction to its (possibly deferred)
// response. A timer defers the acknowledgement if the handler has not
// responded within deferAfter; whichever side fires first wins and
// the other becomes a follow-up edit or a no-op.
type SlashContext struct {
	command     *command.Command
	engine      *SlashEngine
	interaction *discordgo.Interaction

	mu        sync.Mutex
	responded bool
	timer     *time.Timer
}

func newSlashContext(cmd *command.Command, engine *SlashEngine, interaction *discordgo.Interaction) *SlashContext {
	ctx := &SlashContext{
		command:     cmd,
		engine:      engine,
		interaction: interaction,
	}

	ctx.timer = time.AfterFunc(deferAfter, func() {
		ctx.mu.Lock()
		defer ctx.mu.Unlock()

		if ctx.responded {
			return
		}
		ctx.responded = true

		err := engine.responder.InteractionRespond(interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		})
		if err != nil {
			engine.logger.Error("deferred acknowledgement failed", "command", cmd.Name(), "err", err)
		}
	})

	return ctx
}

func (c *SlashContext) Command() *command.Command   { return c.command }
func (c *SlashContext) GuildID() string             { return c.interaction.GuildID }
func (c *SlashContext) ChannelID() string           { return c.interaction.ChannelID }
func (c *SlashContext) Session() *discordgo.Session { return c.engine.session }

func (c *SlashContext) User() *discordgo.User {
	if c.interaction.Member != nil {
		return c.interaction.Member.User
	}
	return c.interaction.User
}

func (c *SlashContext) Member() *discordgo.Member { return c.interaction.Member }

// Respond replies to the interaction on the first call and edits the
// initial (or deferred) response on every later call.
func (c *SlashContext) Respond(reply command.Reply) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.responded {
		content := reply.Content
		embeds := reply.Embeds
		if embeds == nil {
			embeds = []*discordgo.MessageEmbed{}
		}
		components := reply.Components
		if components == nil {
			components = []discordgo.MessageComponent{}
		}

		_, err := c.engine.responder.InteractionResponseEdit(c.interaction, &discordgo.WebhookEdit{
			Content:    &content,
			Embeds:     &embeds,
			Components: &components,
		})
		return err
	}

	c.stopTimerLocked()
	err := c.engine.responder.InteractionRespond(c.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    reply.Content,
			Embeds:     reply.Embeds,
			Components: reply.Components,
		},
	})
	if err != nil {
		return err
	}
	c.responded = true
	return nil
}

func (c *SlashContext) cancelDefer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimerLocked()
}

func (c *SlashContext) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
