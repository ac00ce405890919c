package moderation

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/wardenbot/warden/internal/adapters/discord"
	"github.com/wardenbot/warden/internal/command"
)

// Message subtypes the API refuses to delete.
var undeletableMessageTypes = map[discordgo.MessageType]struct{}{
	discordgo.MessageTypeRecipientAdd:         {},
	discordgo.MessageTypeRecipientRemove:      {},
	discordgo.MessageTypeCall:                 {},
	discordgo.MessageTypeChannelNameChange:    {},
	discordgo.MessageTypeChannelIconChange:    {},
	discordgo.MessageTypeThreadStarterMessage: {},
}

// purge walks channel history backwards from the invocation, deleting
// up to count scanned messages. Bulk deletion stops at the 14-day REST
// limit since older messages cannot be bulk-deleted anyway.
func purgeCommand(icons *discord.IconCache) *command.Command {
	return &command.Command{
		IDs: []string{"purge"},
		Options: []*command.Option{
			{Key: "count", IDs: []string{"count", "c"}, Type: command.Integer, Required: true, Position: command.Pos(0)},
			{Key: "match", IDs: []string{"match", "m"}, Type: command.String, Position: command.Pos(1)},
		},
		Run: func(ctx command.Context, args command.Args) error {
			if ctx.GuildID() == "" || ctx.Member() == nil {
				return nil
			}
			if !discord.HasPermission(ctx, discordgo.PermissionManageMessages) {
				return nil
			}

			s := ctx.Session()

			// exclude the triggering message on the prefix path
			before := ""
			if carrier, ok := ctx.(interface{ MessageID() string }); ok {
				before = carrier.MessageID()
			}

			remaining := int(args.Int("count"))
			twoWeeksAgo := time.Now().Add(-14 * 24 * time.Hour)
			purged := 0

			for remaining > 0 {
				page := remaining
				if page > 100 {
					page = 100
				}

				messages, err := s.ChannelMessages(ctx.ChannelID(), page, before, "", "")
				if err != nil {
					return err
				}
				if len(messages) == 0 {
					break
				}

				stop := false
				var toDelete []string

				for _, message := range messages {
					before = message.ID

					if message.Timestamp.Before(twoWeeksAgo) {
						stop = true
						break
					}
					if _, ok := undeletableMessageTypes[message.Type]; ok {
						continue
					}
					if args.Has("match") && !strings.Contains(message.Content, args.Str("match")) {
						continue
					}
					toDelete = append(toDelete, message.ID)
				}

				switch len(toDelete) {
				case 0:
				case 1:
					if err := s.ChannelMessageDelete(ctx.ChannelID(), toDelete[0]); err != nil {
						return err
					}
				default:
					if err := s.ChannelMessagesBulkDelete(ctx.ChannelID(), toDelete); err != nil {
						return err
					}
				}
				purged += len(toDelete)

				remaining -= len(messages)
				if stop || len(messages) < page {
					break
				}
			}

			if purged == 0 {
				return ctx.Respond(command.Text(fmt.Sprintf("%s No messages were purged!", icons.Error())))
			}
			return ctx.Respond(command.Text(fmt.Sprintf("%s Purged %d messages!", icons.Success(), purged)))
		},
	}
}
