// Package util carries small inspection commands.
package util

import (
	"fmt"

	"github.com/wardenbot/warden/internal/command"
	"github.com/wardenbot/warden/internal/plugin"
	"github.com/wardenbot/warden/internal/snowflake"
)

func New() *plugin.Plugin {
	return &plugin.Plugin{
		Name:     "util",
		Commands: []*command.Command{snowflakeCommand()},
	}
}

func snowflakeCommand() *command.Command {
	return &command.Command{
		IDs:          []string{"snowflake"},
		TrackUpdates: true,
		Options: []*command.Option{
			{Key: "input", IDs: []string{"input", "i"}, Type: command.Snowflake, Required: true, Position: command.Pos(0)},
		},
		Run: func(ctx command.Context, args command.Args) error {
			ts := snowflake.Timestamp(args.ID("input"))
			return ctx.Respond(command.Text(fmt.Sprintf("<t:%d> (%d unix time)", ts.Unix(), ts.UnixMilli())))
		},
	}
}
