// Package command holds the transport-agnostic command core: option
// schemas, the alias registry and the free-text argument parser. The
// Discord adapter maps both prefix messages and slash interactions
// onto these definitions.
package command

import (
	"github.com/bwmarrin/discordgo"
)

// OptionType enumerates the value kinds an option can carry.
type OptionType int

const (
	Void OptionType = iota
	Boolean
	String
	Integer
	Number
	User
	Role
	Channel
	Snowflake
)

// Option describes one accepted input of a command.
//
// Key is the Args map key. IDs holds the flag identifiers; the first
// one is canonical and the rest are aliases. An option with a
// non-nil Position may also be supplied positionally, before any
// named flag. StopAtError lets an array option keep already-parsed
// values when a later token fails to parse, so a trailing flag name
// is not swallowed as a bad value.
type Option struct {
	Key         string
	IDs         []string
	Type        OptionType
	Required    bool
	Array       bool
	Position    *int
	StopAtError bool
}

// ID returns the canonical identifier.
func (o *Option) ID() string { return o.IDs[0] }

// Pos is a literal-friendly helper for Option.Position.
func Pos(n int) *int { return &n }

// Command is an immutable command definition. The same definition is
// dispatched from both the prefix and the slash path unless NoPrefix
// or NoSlash opts it out of one of them.
type Command struct {
	IDs          []string
	Options      []*Option
	NoPrefix     bool
	NoSlash      bool
	TrackUpdates bool
	Run          func(ctx Context, args Args) error
}

// Name returns the canonical command name.
func (c *Command) Name() string { return c.IDs[0] }

func (c *Command) SupportsPrefix() bool { return !c.NoPrefix }
func (c *Command) SupportsSlash() bool  { return !c.NoSlash }

// Reply is the payload of a response. A later Respond on the same
// context replaces the previous reply wholesale, so callers must pass
// every field they want to keep.
type Reply struct {
	Content    string
	Embeds     []*discordgo.MessageEmbed
	Components []discordgo.MessageComponent
}

// Text builds a plain-text reply.
func Text(content string) Reply { return Reply{Content: content} }

// Context is the per-invocation environment handed to Run. The first
// Respond call creates the response; every subsequent call edits it.
type Context interface {
	Command() *Command
	// GuildID is empty when the command was invoked outside a guild.
	GuildID() string
	ChannelID() string
	User() *discordgo.User
	// Member is nil outside a guild.
	Member() *discordgo.Member
	Session() *discordgo.Session
	Respond(reply Reply) error
}

// Args maps option keys to parsed values. Value types per OptionType:
// Void/Boolean bool, String string, Integer int64, Number float64,
// User/Role/Channel/Snowflake string (the bare ID). Array options
// hold the corresponding slice and default to an empty one; optional
// scalars that were not supplied are absent.
type Args map[string]any

// Has reports whether a scalar option was supplied (arrays are always
// present, possibly empty).
func (a Args) Has(key string) bool {
	v, ok := a[key]
	return ok && v != nil
}

func (a Args) Str(key string) string {
	v, _ := a[key].(string)
	return v
}

func (a Args) Int(key string) int64 {
	v, _ := a[key].(int64)
	return v
}

func (a Args) Float(key string) float64 {
	v, _ := a[key].(float64)
	return v
}

func (a Args) Bool(key string) bool {
	v, _ := a[key].(bool)
	return v
}

// ID returns a reference-typed scalar (User/Role/Channel/Snowflake).
func (a Args) ID(key string) string { return a.Str(key) }

func (a Args) Strs(key string) []string {
	v, _ := a[key].([]string)
	return v
}

// IDs returns an array of reference-typed values.
func (a Args) IDs(key string) []string { return a.Strs(key) }

func (a Args) Ints(key string) []int64 {
	v, _ := a[key].([]int64)
	return v
}

func (a Args) Floats(key string) []float64 {
	v, _ := a[key].([]float64)
	return v
}
