package command

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/wardenbot/warden/internal/snowflake"
)

// ParseError is a user-input failure. Its message is echoed back to
// the invoker verbatim; anything else escaping the parser is a bug.
type ParseError struct {
	msg string
}

func (e *ParseError) Error() string { return e.msg }

func parseErrorf(format string, args ...any) *ParseError {
	return &ParseError{msg: fmt.Sprintf(format, args...)}
}

// Parser consumes one line of prefix-command input against a
// command's option schema. Input is indexed by rune so quoted text
// may contain any characters; all structural tokens are ASCII.
type Parser struct {
	input []rune
	next  int
}

func NewParser(input string) *Parser {
	return &Parser{input: []rune(input)}
}

// Parse reads positional values in schema position order, then named
// `--flag`/`-f` values, and fails with a single aggregated error if
// any required option remains unset. See Args for the value shapes.
func (p *Parser) Parse(cmd *Command) (Args, error) {
	p.skipSpaces()

	args := make(Args, len(cmd.Options))
	lookup := make(map[string]*Option)
	var positional []*Option

	for _, opt := range cmd.Options {
		if opt.Array {
			args[opt.Key] = emptyValues(opt.Type)
		} else {
			args[opt.Key] = nil
		}

		if opt.Position != nil {
			positional = append(positional, opt)
		}

		for _, id := range opt.IDs {
			lookup[id] = opt
		}
	}
	sort.SliceStable(positional, func(i, j int) bool {
		return *positional[i].Position < *positional[j].Position
	})

	if !p.isEnd() && !p.isFlag() {
		if len(positional) == 0 {
			return nil, parseErrorf("Expected option but got '%s'", p.readWord())
		}

		for i, opt := range positional {
			if p.isEnd() {
				break
			}

			var err error
			switch {
			case opt.Array:
				args[opt.Key], err = p.readValues(opt.Type, opt.StopAtError, opt.Required)
			case opt.Type == String:
				// non-terminal positional strings stop at the next
				// space so later positional values stay parseable
				args[opt.Key] = p.readString(i != len(positional)-1)
			default:
				args[opt.Key], err = p.readValue(opt.Type)
			}
			if err != nil {
				return nil, err
			}
		}
	}

	for !p.isEnd() {
		if !p.isFlag() {
			return nil, parseErrorf("Expected option but got '%s'", p.readWord())
		}

		p.skipSpaces()

		id := p.readWord()[1:]
		// allow --option-name; conveniently turns "--" into ""
		if strings.HasPrefix(id, "-") {
			id = id[1:]
		}

		opt, ok := lookup[id]
		if !ok {
			if id == "" {
				return nil, parseErrorf("Expected option name after '--'")
			}
			return nil, parseErrorf("Cannot find option '%s'", id)
		}

		var value any
		var err error
		if opt.Array {
			value, err = p.readValues(opt.Type, false, false)
		} else {
			value, err = p.readValue(opt.Type)
		}
		if err != nil {
			return nil, err
		}
		args[opt.Key] = value
	}

	var missing []string
	for _, opt := range cmd.Options {
		if !opt.Required {
			continue
		}
		if v := args[opt.Key]; v == nil || emptyArray(v) {
			missing = append(missing, opt.ID())
		}
	}
	if len(missing) != 0 {
		return nil, parseErrorf("Missing %s", strings.Join(missing, ", "))
	}

	return args, nil
}

// isFlag reports whether the next token starts a named option. A lone
// "-" followed by a space (or end of input) is not a flag marker.
func (p *Parser) isFlag() bool {
	next := p.peek(2)
	return len(next) == 2 && next[0] == '-' && next[1] != ' '
}

func (p *Parser) readValue(t OptionType) (any, error) {
	p.skipSpaces()

	switch t {
	case Void:
		return true, nil
	case Boolean:
		return p.readBoolean()
	case String:
		return p.readString(false), nil
	case Integer:
		return p.readInteger()
	case Number:
		return p.readNumber()
	case User:
		return p.readReference("user", "<@!", "<@")
	case Role:
		return p.readReference("role", "<@&")
	case Channel:
		return p.readReference("channel", "<#")
	case Snowflake:
		return p.readSnowflake()
	}
	return nil, parseErrorf("Unknown option type")
}

func emptyValues(t OptionType) any {
	switch t {
	case Boolean:
		return []bool{}
	case Integer:
		return []int64{}
	case Number:
		return []float64{}
	default:
		return []string{}
	}
}

func emptyArray(v any) bool {
	switch s := v.(type) {
	case []bool:
		return len(s) == 0
	case []string:
		return len(s) == 0
	case []int64:
		return len(s) == 0
	case []float64:
		return len(s) == 0
	}
	return false
}

// readValues applies the scalar reader until input ends or a flag
// marker follows. With stopAtError, a value that fails to parse is
// un-read and the values so far are returned instead, unless
// requireOne is set and nothing was read yet.
func (p *Parser) readValues(t OptionType, stopAtError, requireOne bool) (any, error) {
	switch t {
	case Void:
		return []string{}, nil
	case Boolean:
		return readSequence(p, stopAtError, requireOne, func() (bool, error) { return p.readBoolean() })
	case String:
		return readSequence(p, stopAtError, requireOne, func() (string, error) { return p.readString(true), nil })
	case Integer:
		return readSequence(p, stopAtError, requireOne, func() (int64, error) { return p.readInteger() })
	case Number:
		return readSequence(p, stopAtError, requireOne, func() (float64, error) { return p.readNumber() })
	case User:
		return readSequence(p, stopAtError, requireOne, func() (string, error) { return p.readReference("user", "<@!", "<@") })
	case Role:
		return readSequence(p, stopAtError, requireOne, func() (string, error) { return p.readReference("role", "<@&") })
	case Channel:
		return readSequence(p, stopAtError, requireOne, func() (string, error) { return p.readReference("channel", "<#") })
	case Snowflake:
		return readSequence(p, stopAtError, requireOne, func() (string, error) { return p.readSnowflake() })
	}
	return nil, parseErrorf("Unknown option type")
}

func readSequence[T any](p *Parser, stopAtError, requireOne bool, read func() (T, error)) ([]T, error) {
	result := []T{}

	for !(p.isEnd() || p.isFlag()) {
		p.skipSpaces()

		prev := p.next
		value, err := read()
		if err != nil {
			if !stopAtError {
				return nil, err
			}
			if requireOne && len(result) == 0 {
				return nil, err
			}
			// return without the badly formatted value
			p.next = prev
			return result, nil
		}
		result = append(result, value)
	}

	return result, nil
}

// readReference reads a platform ID that may be wrapped in mention
// markup. kind names the reference in the error message.
func (p *Parser) readReference(kind string, markup ...string) (string, error) {
	input := p.readWord()
	id := input

	if strings.HasSuffix(id, ">") {
		for _, prefix := range markup {
			if strings.HasPrefix(id, prefix) {
				id = id[len(prefix) : len(id)-1]
				break
			}
		}
	}

	if !snowflake.Valid(id) {
		return "", parseErrorf("Not a %s: '%s'", kind, input)
	}
	return id, nil
}

func (p *Parser) readSnowflake() (string, error) {
	id := p.readWord()
	if !snowflake.Valid(id) {
		return "", parseErrorf("Not an ID: '%s'", id)
	}
	return id, nil
}

func (p *Parser) readBoolean() (bool, error) {
	input := p.readWord()

	switch strings.ToLower(input) {
	case "f", "false", "0":
		return false, nil
	case "t", "true", "1":
		return true, nil
	}
	return false, parseErrorf("Expected false/f/0 or true/t/1 but got '%s'", input)
}

// readString reads a quoted run with escape support, or raw text up
// to end of input or a space preceding a flag marker. In limited mode
// the raw form stops at the first space unconditionally.
func (p *Parser) readString(limited bool) string {
	var b strings.Builder

	if c, ok := p.peekNext(); ok && (c == '"' || c == '\'') {
		quote := p.read()

		for !p.isEnd() {
			c := p.read()
			if c == quote {
				break
			}
			if c == '\\' && !p.isEnd() {
				switch esc := p.read(); esc {
				case '"', '\'', '\\':
					b.WriteRune(esc)
				case 'n':
					b.WriteRune('\n')
				case 't':
					b.WriteRune('\t')
				}
				continue
			}
			b.WriteRune(c)
		}
	} else {
		for !p.isEnd() {
			c := p.read()
			if c == ' ' && (limited || p.isFlag()) {
				break
			}
			b.WriteRune(c)
		}
	}

	return b.String()
}

func (p *Parser) readInteger() (int64, error) {
	input := p.readWord()

	value, err := strconv.ParseFloat(input, 64)
	if input == "" || err != nil || value != math.Trunc(value) ||
		value < math.MinInt64 || value >= math.MaxInt64 {
		return 0, parseErrorf("Not an integer: '%s'", input)
	}
	return int64(value), nil
}

func (p *Parser) readNumber() (float64, error) {
	input := p.readWord()

	value, err := strconv.ParseFloat(input, 64)
	if input == "" || err != nil {
		return 0, parseErrorf("Not a number: '%s'", input)
	}
	return value, nil
}

func (p *Parser) isEnd() bool {
	return p.next >= len(p.input)
}

func (p *Parser) read() rune {
	c := p.input[p.next]
	p.next++
	return c
}

func (p *Parser) peekNext() (rune, bool) {
	if p.isEnd() {
		return 0, false
	}
	return p.input[p.next], true
}

func (p *Parser) peek(count int) []rune {
	end := p.next + count
	if end > len(p.input) {
		end = len(p.input)
	}
	return p.input[p.next:end]
}

// readWord consumes up to and including the next space.
func (p *Parser) readWord() string {
	var b strings.Builder

	for !p.isEnd() {
		c := p.read()
		if c == ' ' {
			break
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (p *Parser) skipSpaces() {
	for c, ok := p.peekNext(); ok && c == ' '; c, ok = p.peekNext() {
		p.read()
	}
}
