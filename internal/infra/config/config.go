package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL  string `env:"DATABASE_URL,required"`
	DiscordToken string `env:"DISCORD_BOT_TOKEN,required"`

	// Empty means the bot serves every guild it is in.
	AllowedGuilds []string `env:"BOT_ALLOWED_GUILDS" envSeparator:","`

	// Guild whose custom emoji replace the built-in unicode icons.
	IconGuildID string `env:"BOT_ICON_GUILD"`

	CommandPrefix string `env:"COMMAND_PREFIX" envDefault:"?"`

	HTTPAddr  string `env:"HTTP_ADDR" envDefault:":8080"`
	StaticDir string `env:"STATIC_DIR" envDefault:"web/static"`

	// OAuth credentials for the API login flow. Optional: without
	// them the /api/login route rejects every request.
	ClientID     string `env:"DISCORD_CLIENT_ID"`
	ClientSecret string `env:"DISCORD_CLIENT_SECRET"`
	RedirectURI  string `env:"DISCORD_REDIRECT_URI"`
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}
