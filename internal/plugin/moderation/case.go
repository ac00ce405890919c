package moderation

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/wardenbot/warden/internal/adapters/discord"
	"github.com/wardenbot/warden/internal/app/service"
	"github.com/wardenbot/warden/internal/command"
	"github.com/wardenbot/warden/internal/infra/storage"
)

func caseCommand(cases *service.ModerationService, icons *discord.IconCache) *command.Command {
	return &command.Command{
		IDs: []string{"case"},
		Options: []*command.Option{
			{Key: "number", IDs: []string{"number", "n"}, Type: command.Integer, Required: true, Position: command.Pos(0)},
		},
		TrackUpdates: true,
		Run: func(ctx command.Context, args command.Args) error {
			if ctx.GuildID() == "" {
				return nil
			}
			if !discord.HasPermission(ctx, discordgo.PermissionKickMembers) {
				return nil
			}

			number := int32(args.Int("number"))

			info, err := cases.GetCase(context.Background(), ctx.GuildID(), number)
			if errors.Is(err, storage.ErrNotFound) {
				return ctx.Respond(command.Text(fmt.Sprintf("%s Case #%d not found!", icons.Error(), number)))
			} else if err != nil {
				return err
			}

			s := ctx.Session()
			createdSecs := info.CreatedAt.Unix()
			reason := "Not provided"
			if info.Reason != nil {
				reason = fmt.Sprintf("%q", *info.Reason)
			}

			return ctx.Respond(command.Text(fmt.Sprintf(
				"**:closed_book: Case #%d**\n\n"+
					"**Type:** %s\n"+
					"**Created at:** <t:%d> (<t:%d:R>)\n\n"+
					"**Actor:** <@%s> (%s)\n"+
					"**Target:** <@%s> (%s)\n\n"+
					"**Reason:** %s",
				info.Number,
				caseTypeDisplay[info.Type],
				createdSecs, createdSecs,
				info.ActorID, discord.EscapeMarkdown(discord.UserTag(s, info.ActorID)),
				info.TargetID, discord.EscapeMarkdown(discord.UserTag(s, info.TargetID)),
				reason,
			)))
		},
	}
}
