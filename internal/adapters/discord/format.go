package discord

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

var markdownEscaper = strings.NewReplacer(
	"\\", "\\\\",
	"*", "\\*",
	"_", "\\_",
	"~", "\\~",
	"`", "\\`",
	"|", "\\|",
	">", "\\>",
	"#", "\\#",
	"-", "\\-",
	"[", "\\[",
	"]", "\\]",
	"(", "\\(",
	")", "\\)",
)

// EscapeMarkdown neutralizes formatting characters in user-supplied
// text before echoing it back.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// FormatRESTError renders a REST failure for the invoker. The API
// message is preferred over the bare HTTP status when present.
func FormatRESTError(err error) string {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return err.Error()
	}
	if restErr.Message != nil {
		return fmt.Sprintf("API Error %d: %s", restErr.Message.Code, restErr.Message.Message)
	}
	if restErr.Response != nil {
		return fmt.Sprintf("HTTP Error %d: %s", restErr.Response.StatusCode, restErr.Response.Status)
	}
	return restErr.Error()
}

// UserTag resolves a display tag for a user ID, "<unknown>" when the
// user cannot be fetched.
func UserTag(s *discordgo.Session, userID string) string {
	user, err := UserCached(s, userID)
	if err != nil {
		return "<unknown>"
	}
	return userDisplayTag(user)
}

// Legacy discriminators still exist on bots and unmigrated accounts.
func userDisplayTag(user *discordgo.User) string {
	if user.Discriminator != "" && user.Discriminator != "0" {
		return user.Username + "#" + user.Discriminator
	}
	return user.Username
}
