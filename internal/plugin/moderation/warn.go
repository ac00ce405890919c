package moderation

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/wardenbot/warden/internal/adapters/discord"
	"github.com/wardenbot/warden/internal/app/service"
	"github.com/wardenbot/warden/internal/command"
	"github.com/wardenbot/warden/internal/infra/storage"
)

// warn records a case and notifies the target; it takes no other
// action against them.
func warnCommand(cases *service.ModerationService, icons *discord.IconCache) *command.Command {
	return &command.Command{
		IDs: []string{"warn"},
		Options: []*command.Option{
			{Key: "user", IDs: []string{"user", "u"}, Type: command.User, Array: true, Required: true, Position: command.Pos(0), StopAtError: true},
			{Key: "reason", IDs: []string{"reason", "r"}, Type: command.String, Position: command.Pos(1)},
			{Key: "no_dm", IDs: []string{"no-dm", "nd"}, Type: command.Void},
		},
		Run: func(ctx command.Context, args command.Args) error {
			if ctx.GuildID() == "" {
				return nil
			}
			if !discord.HasPermission(ctx, discordgo.PermissionKickMembers) {
				return nil
			}

			s := ctx.Session()
			targets := args.IDs("user")
			reason := optionalString(args, "reason")

			var successes, failures []outcome

			for _, target := range targets {
				targetMember, err := discord.MemberCached(s, ctx.GuildID(), target)
				if err != nil {
					name := "<unknown>"
					if user, err := discord.UserCached(s, target); err == nil {
						name = discord.UserTag(s, user.ID)
					}
					failures = append(failures, outcome{id: target, name: name, err: "User is not in the server"})
					continue
				}

				name := discord.UserTag(s, target)

				if blocked := checkHierarchy(ctx, target, targetMember); blocked != "" {
					failures = append(failures, outcome{id: target, name: name, err: blocked})
					continue
				}

				dmSent := false
				if targetMember.User != nil && !targetMember.User.Bot && !args.Bool("no_dm") {
					message := "You were warned"
					if reason != nil {
						message += ": " + *reason
					}
					dmSent = sendDM(s, target, message)
				}

				number, err := cases.CreateCase(context.Background(), ctx.GuildID(), service.CreateCaseOptions{
					Type:     storage.CaseWarn,
					ActorID:  ctx.User().ID,
					TargetID: target,
					Reason:   reason,
					DMSent:   &dmSent,
				})
				if err != nil {
					return err
				}

				successes = append(successes, outcome{id: target, name: name, caseNumber: number, dmSent: dmSent})
			}

			v := verbs{past: "Warned", infinitive: "warn", noun: "warns", passive: "warned"}
			return ctx.Respond(command.Text(summarize(icons, v, len(targets), successes, failures)))
		},
	}
}
