package moderation

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"

	"github.com/wardenbot/warden/internal/adapters/discord"
	"github.com/wardenbot/warden/internal/app/service"
	"github.com/wardenbot/warden/internal/command"
	"github.com/wardenbot/warden/internal/infra/storage"
)

func unbanCommand(cases *service.ModerationService, icons *discord.IconCache) *command.Command {
	return &command.Command{
		IDs: []string{"unban"},
		Options: []*command.Option{
			{Key: "user", IDs: []string{"user", "u"}, Type: command.User, Array: true, Required: true, Position: command.Pos(0), StopAtError: true},
			{Key: "reason", IDs: []string{"reason", "r"}, Type: command.String, Position: command.Pos(1)},
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

			var successes, failures []outcome

			for _, target := range targets {
				// a current member cannot be banned
				if _, err := s.State.Member(ctx.GuildID(), target); err == nil {
					failures = append(failures, outcome{id: target, name: discord.UserTag(s, target), err: "User is not banned"})
					continue
				}

				ban, err := s.GuildBan(ctx.GuildID(), target)
				if err != nil {
					var restErr *discordgo.RESTError
					if errors.As(err, &restErr) && restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeUnknownBan {
						failures = append(failures, outcome{id: target, name: discord.UserTag(s, target), err: "User is not banned"})
					} else {
						failures = append(failures, outcome{
							id: target, name: discord.UserTag(s, target),
							err: "Ban fetch failed: " + discord.FormatRESTError(err),
						})
					}
					continue
				}

				name := "<unknown>"
				if ban.User != nil {
					name = discord.UserTag(s, ban.User.ID)
				}

				if err := s.GuildBanDelete(ctx.GuildID(), target); err != nil {
					failures = append(failures, outcome{id: target, name: name, err: discord.FormatRESTError(err)})
					continue
				}

				number, err := cases.CreateCase(context.Background(), ctx.GuildID(), service.CreateCaseOptions{
					Type:     storage.CaseUnban,
					ActorID:  ctx.User().ID,
					TargetID: target,
					Reason:   reason,
				})
				if err != nil {
					return err
				}

				successes = append(successes, outcome{id: target, name: name, caseNumber: number})
			}

			v := verbs{past: "Unbanned", infinitive: "unban", noun: "unbans", passive: "unbanned"}
			return ctx.Respond(command.Text(summarize(icons, v, len(targets), successes, failures)))
		},
	}
}
