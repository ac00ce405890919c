// Package info carries the bot health commands.
package info

import (
	"fmt"
	"time"

	"github.com/wardenbot/warden/internal/adapters/discord"
	"github.com/wardenbot/warden/internal/command"
	"github.com/wardenbot/warden/internal/plugin"
)

func New(icons *discord.IconCache) *plugin.Plugin {
	return &plugin.Plugin{
		Name:     "info",
		Commands: []*command.Command{pingCommand(icons)},
	}
}

// ping reports gateway latency immediately, then edits the REST round
// trip time in once the first response has landed.
func pingCommand(icons *discord.IconCache) *command.Command {
	return &command.Command{
		IDs:          []string{"ping"},
		TrackUpdates: true, // allow deleting
		Run: func(ctx command.Context, args command.Args) error {
			base := fmt.Sprintf("%s Gateway: %dms", icons.Info(), ctx.Session().HeartbeatLatency().Milliseconds())
			before := time.Now()

			if err := ctx.Respond(command.Text(base)); err != nil {
				return err
			}
			return ctx.Respond(command.Text(base + fmt.Sprintf("; REST: %dms", time.Since(before).Milliseconds())))
		},
	}
}
