package moderation

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/wardenbot/warden/internal/adapters/discord"
	"github.com/wardenbot/warden/internal/app/service"
	"github.com/wardenbot/warden/internal/command"
	"github.com/wardenbot/warden/internal/infra/storage"
)

func banCommand(cases *service.ModerationService, icons *discord.IconCache) *command.Command {
	return &command.Command{
		IDs: []string{"ban"},
		Options: []*command.Option{
			{Key: "user", IDs: []string{"user", "u"}, Type: command.User, Array: true, Required: true, Position: command.Pos(0), StopAtError: true},
			{Key: "reason", IDs: []string{"reason", "r"}, Type: command.String, Position: command.Pos(1)},
			{Key: "dm", IDs: []string{"dm", "d"}, Type: command.Void},
			{Key: "no_dm", IDs: []string{"no-dm", "nd"}, Type: command.Void},
			{Key: "purge", IDs: []string{"purge", "p", "delete"}, Type: command.Number},
		},
		Run: func(ctx command.Context, args command.Args) error {
			if ctx.GuildID() == "" {
				return nil
			}
			if !discord.HasPermission(ctx, discordgo.PermissionBanMembers) {
				return nil
			}

			s := ctx.Session()
			targets := args.IDs("user")
			reason := optionalString(args, "reason")
			purgeDays := int(args.Float("purge"))
			deleteSeconds := int32(purgeDays * 24 * 60 * 60)

			var successes, failures []outcome

			for _, target := range targets {
				var name string
				var inGuild, isBot bool

				targetMember, err := discord.MemberCached(s, ctx.GuildID(), target)
				if err == nil {
					name = discord.UserTag(s, target)
					inGuild = true
					isBot = targetMember.User != nil && targetMember.User.Bot

					if blocked := checkHierarchy(ctx, target, targetMember); blocked != "" {
						failures = append(failures, outcome{id: target, name: name, err: blocked})
						continue
					}
				} else {
					user, err := discord.UserCached(s, target)
					if err != nil {
						failures = append(failures, outcome{
							id: target, name: "<unknown>",
							err: "User fetch failed: " + discord.FormatRESTError(err),
						})
						continue
					}
					name = discord.UserTag(s, target)
					isBot = user.Bot
				}

				dmSent := false
				if inGuild && !isBot && !args.Bool("no_dm") {
					dmSent = sendDM(s, target, "You were banned :regional_indicator_l:")
				}

				banReason := ""
				if reason != nil {
					banReason = *reason
				}
				if err := s.GuildBanCreateWithReason(ctx.GuildID(), target, banReason, purgeDays); err != nil {
					failures = append(failures, outcome{id: target, name: name, err: discord.FormatRESTError(err)})
					continue
				}

				number, err := cases.CreateCase(context.Background(), ctx.GuildID(), service.CreateCaseOptions{
					Type:                 storage.CaseBan,
					ActorID:              ctx.User().ID,
					TargetID:             target,
					Reason:               reason,
					DeleteMessageSeconds: &deleteSeconds,
					DMSent:               &dmSent,
				})
				if err != nil {
					return err
				}

				successes = append(successes, outcome{id: target, name: name, caseNumber: number, dmSent: dmSent})
			}

			v := verbs{past: "Banned", infinitive: "ban", noun: "bans", passive: "banned"}
			return ctx.Respond(command.Text(summarize(icons, v, len(targets), successes, failures)))
		},
	}
}
