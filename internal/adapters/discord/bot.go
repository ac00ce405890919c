package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// NewSession builds the gateway session with the intents the engines
// need. MessageContent is privileged and must be enabled on the
// application for prefix commands to see any text.
func NewSession(token string) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMembers |
		discordgo.IntentGuildModeration |
		discordgo.IntentGuildEmojis |
		discordgo.IntentGuildMessages |
		discordgo.IntentMessageContent

	session.State.MaxMessageCount = 200

	return session, nil
}
