package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberNoteCommand() *Command {
	return &Command{
		IDs: []string{"test"},
		Options: []*Option{
			{Key: "number", IDs: []string{"number", "n"}, Type: Integer, Required: true, Position: Pos(0)},
			{Key: "note", IDs: []string{"note"}, Type: String},
		},
		Run: func(ctx Context, args Args) error { return nil },
	}
}

func TestParsePositionalNamedEquivalence(t *testing.T) {
	cmd := numberNoteCommand()

	args, err := NewParser("5").Parse(cmd)
	require.NoError(t, err)
	assert.Equal(t, int64(5), args.Int("number"))
	assert.False(t, args.Has("note"))

	args, err = NewParser("5 --note hi").Parse(cmd)
	require.NoError(t, err)
	assert.Equal(t, int64(5), args.Int("number"))
	assert.Equal(t, "hi", args.Str("note"))

	named, err := NewParser("--number 5 --note hi").Parse(cmd)
	require.NoError(t, err)
	assert.Equal(t, args, named)
}

func TestParseQuotedStrings(t *testing.T) {
	cmd := &Command{
		IDs: []string{"test"},
		Options: []*Option{
			{Key: "text", IDs: []string{"text"}, Type: String, Position: Pos(0)},
		},
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"escaped quote and backslash", `"a\"b\\c"`, `a"b\c`},
		{"single quotes", `'hello world'`, "hello world"},
		{"newline and tab escapes", `"a\nb\tc"`, "a\nb\tc"},
		{"unknown escape dropped", `"a\qb"`, "ab"},
		{"raw text runs to end", `hello there`, "hello there"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := NewParser(tt.input).Parse(cmd)
			require.NoError(t, err)
			assert.Equal(t, tt.want, args.Str("text"))
		})
	}
}

func TestParseRawStringStopsBeforeFlag(t *testing.T) {
	cmd := &Command{
		IDs: []string{"test"},
		Options: []*Option{
			{Key: "text", IDs: []string{"text"}, Type: String, Position: Pos(0)},
			{Key: "flag", IDs: []string{"flag"}, Type: Void},
		},
	}

	args, err := NewParser("hello there --flag").Parse(cmd)
	require.NoError(t, err)
	assert.Equal(t, "hello there", args.Str("text"))
	assert.Equal(t, true, args.Bool("flag"))
}

func TestParseReferences(t *testing.T) {
	cmd := &Command{
		IDs: []string{"test"},
		Options: []*Option{
			{Key: "user", IDs: []string{"user"}, Type: User, Position: Pos(0)},
		},
	}

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr string
	}{
		{"bare id", "123456789012345678", "123456789012345678", ""},
		{"mention", "<@123456789012345678>", "123456789012345678", ""},
		{"nickname mention", "<@!123456789012345678>", "123456789012345678", ""},
		{"too short", "1234567890123456", "", "Not a user: '1234567890123456'"},
		{"not numeric", "everyone", "", "Not a user: 'everyone'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := NewParser(tt.input).Parse(cmd)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.IsType(t, &ParseError{}, err)
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, args.ID("user"))
		})
	}
}

func TestParseMissingRequiredAggregation(t *testing.T) {
	cmd := &Command{
		IDs: []string{"test"},
		Options: []*Option{
			{Key: "count", IDs: []string{"count", "c"}, Type: Integer, Required: true},
			{Key: "user", IDs: []string{"user", "u"}, Type: User, Array: true, Required: true},
		},
	}

	_, err := NewParser("").Parse(cmd)
	require.Error(t, err)
	assert.Equal(t, "Missing count, user", err.Error())
}

func TestParseArraySoftStop(t *testing.T) {
	cmd := &Command{
		IDs: []string{"test"},
		Options: []*Option{
			{Key: "user", IDs: []string{"user", "u"}, Type: User, Array: true, Required: true, Position: Pos(0), StopAtError: true},
			{Key: "reason", IDs: []string{"reason", "r"}, Type: String, Position: Pos(1)},
			{Key: "dm", IDs: []string{"dm"}, Type: Void},
		},
	}

	args, err := NewParser("123456789012345678 234567890123456789 spam and eggs --dm").Parse(cmd)
	require.NoError(t, err)
	assert.Equal(t, []string{"123456789012345678", "234567890123456789"}, args.IDs("user"))
	assert.Equal(t, "spam and eggs", args.Str("reason"))
	assert.True(t, args.Bool("dm"))
}

func TestParseArraySoftStopRequiresOne(t *testing.T) {
	cmd := &Command{
		IDs: []string{"test"},
		Options: []*Option{
			{Key: "user", IDs: []string{"user"}, Type: User, Array: true, Required: true, Position: Pos(0), StopAtError: true},
		},
	}

	// with nothing parsed yet the original error surfaces
	_, err := NewParser("nonsense").Parse(cmd)
	require.Error(t, err)
	assert.Equal(t, "Not a user: 'nonsense'", err.Error())
}

func TestParseFlagErrors(t *testing.T) {
	cmd := numberNoteCommand()

	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"unknown flag", "5 --zzz", "Cannot find option 'zzz'"},
		{"bare double dash", "5 --", "Expected option name after '--'"},
		{"unexpected token", "5 6", "Expected option but got '6'"},
		{"bad integer", "5.5", "Not an integer: '5.5'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser(tt.input).Parse(cmd)
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestParseBoolean(t *testing.T) {
	cmd := &Command{
		IDs: []string{"test"},
		Options: []*Option{
			{Key: "flag", IDs: []string{"flag"}, Type: Boolean, Position: Pos(0)},
		},
	}

	for input, want := range map[string]bool{
		"t": true, "true": true, "1": true, "TRUE": true,
		"f": false, "false": false, "0": false,
	} {
		args, err := NewParser(input).Parse(cmd)
		require.NoError(t, err, input)
		assert.Equal(t, want, args["flag"], input)
	}

	_, err := NewParser("yes").Parse(cmd)
	require.Error(t, err)
	assert.Equal(t, "Expected false/f/0 or true/t/1 but got 'yes'", err.Error())
}

func TestParseDuplicateFlagLastWins(t *testing.T) {
	cmd := numberNoteCommand()

	args, err := NewParser("--number 1 --note a --note b").Parse(cmd)
	require.NoError(t, err)
	assert.Equal(t, "b", args.Str("note"))
}

func TestParseShortAliases(t *testing.T) {
	cmd := numberNoteCommand()

	args, err := NewParser("-n 7").Parse(cmd)
	require.NoError(t, err)
	assert.Equal(t, int64(7), args.Int("number"))
}

func TestParseDefaults(t *testing.T) {
	cmd := &Command{
		IDs: []string{"test"},
		Options: []*Option{
			{Key: "users", IDs: []string{"users"}, Type: User, Array: true},
			{Key: "note", IDs: []string{"note"}, Type: String},
		},
	}

	args, err := NewParser("").Parse(cmd)
	require.NoError(t, err)
	assert.Equal(t, []string{}, args.IDs("users"))
	assert.False(t, args.Has("note"))
}
