package moderation

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/wardenbot/warden/internal/adapters/discord"
	"github.com/wardenbot/warden/internal/app/service"
	"github.com/wardenbot/warden/internal/command"
	"github.com/wardenbot/warden/internal/infra/storage"
)

const embedColorBlurple = 0x5865F2

func casesCommand(cases *service.ModerationService, icons *discord.IconCache) *command.Command {
	return &command.Command{
		IDs: []string{"cases"},
		Options: []*command.Option{
			{Key: "actor", IDs: []string{"actor", "a", "by", "moderator", "mod"}, Type: command.User},
			{Key: "target", IDs: []string{"target", "t", "for", "user"}, Type: command.User},
		},
		TrackUpdates: true,
		Run: func(ctx command.Context, args command.Args) error {
			if ctx.GuildID() == "" {
				return nil
			}
			if !discord.HasPermission(ctx, discordgo.PermissionKickMembers) {
				return nil
			}

			s := ctx.Session()

			filter := storage.CaseFilter{Limit: 4, Reversed: true}
			if args.Has("actor") {
				filter.ActorIDs = []string{args.ID("actor")}
			}
			if args.Has("target") {
				filter.TargetIDs = []string{args.ID("target")}
			}

			list, err := cases.ListCases(context.Background(), ctx.GuildID(), filter)
			if err != nil {
				return err
			}

			scope := ""
			if args.Has("actor") || args.Has("target") {
				if args.Has("actor") {
					actor := args.ID("actor")
					scope += fmt.Sprintf(" by <@%s> (%s)", actor, discord.EscapeMarkdown(discord.UserTag(s, actor)))
				}
				if args.Has("target") {
					target := args.ID("target")
					scope += fmt.Sprintf(" targeting <@%s> (%s)", target, discord.EscapeMarkdown(discord.UserTag(s, target)))
				}
			} else {
				scope = " for this server"
			}

			if len(list) == 0 {
				return ctx.Respond(command.Text(fmt.Sprintf("%s No cases%s found!", icons.Error(), scope)))
			}

			fields := make([]*discordgo.MessageEmbedField, 0, len(list))
			for _, info := range list {
				createdSecs := info.CreatedAt.Unix()

				var lines []string
				lines = append(lines, fmt.Sprintf("Created at: <t:%d> (<t:%d:R>)", createdSecs, createdSecs))
				lines = append(lines, "Type: "+caseTypeDisplay[info.Type])
				if !args.Has("actor") {
					lines = append(lines, fmt.Sprintf("Actor: <@%s> (%s)", info.ActorID, discord.EscapeMarkdown(discord.UserTag(s, info.ActorID))))
				}
				if !args.Has("target") {
					lines = append(lines, fmt.Sprintf("Target: <@%s> (%s)", info.TargetID, discord.EscapeMarkdown(discord.UserTag(s, info.TargetID))))
				}
				reason := "*None provided*"
				if info.Reason != nil {
					reason = *info.Reason
				}
				lines = append(lines, "Reason: "+reason)

				fields = append(fields, &discordgo.MessageEmbedField{
					Name:  fmt.Sprintf("Case #%d", info.Number),
					Value: strings.Join(lines, "\n"),
				})
			}

			return ctx.Respond(command.Reply{
				Embeds: []*discordgo.MessageEmbed{{
					Color:       embedColorBlurple,
					Description: "### Cases" + scope,
					Fields:      fields,
				}},
			})
		},
	}
}
