// Package moderation carries the moderation commands. Every completed
// action is recorded as a numbered case in the guild's ledger.
package moderation

import (
	"fmt"
	"strings"

	"github.com/wardenbot/warden/internal/adapters/discord"
	"github.com/wardenbot/warden/internal/app/service"
	"github.com/wardenbot/warden/internal/command"
	"github.com/wardenbot/warden/internal/infra/storage"
	"github.com/wardenbot/warden/internal/plugin"
)

func New(cases *service.ModerationService, icons *discord.IconCache) *plugin.Plugin {
	return &plugin.Plugin{
		Name: "moderation",
		Commands: []*command.Command{
			banCommand(cases, icons),
			unbanCommand(cases, icons),
			kickCommand(cases, icons),
			warnCommand(cases, icons),
			caseCommand(cases, icons),
			casesCommand(cases, icons),
			purgeCommand(icons),
		},
	}
}

var caseTypeDisplay = map[storage.CaseType]string{
	storage.CaseNote:        "Note",
	storage.CaseWarn:        "Warn",
	storage.CaseUnwarn:      "Unwarn",
	storage.CaseVoiceMute:   "Voice Mute",
	storage.CaseVoiceUnmute: "Voice Unmute",
	storage.CaseMute:        "Mute",
	storage.CaseUnmute:      "Unmute",
	storage.CaseKick:        "Kick",
	storage.CaseBan:         "Ban",
	storage.CaseUnban:       "Unban",
}

// outcome is one target's result in a batch action.
type outcome struct {
	id   string
	name string

	caseNumber int32
	dmSent     bool

	// failure reason; empty means success
	err string
}

// verbs drive the batch summary phrasing for one action.
type verbs struct {
	past       string // "Banned"
	infinitive string // "ban"
	noun       string // "bans"
	passive    string // "banned"
}

// summarize renders the consolidated batch response: dedicated single-
// target sentences, or itemized lists when several targets were named.
func summarize(icons *discord.IconCache, v verbs, total int, successes, failures []outcome) string {
	if total == 1 {
		if len(successes) == 1 {
			o := successes[0]
			return fmt.Sprintf("%s %s <@%s> (%s)%s [#%d]!",
				icons.Success(), v.past, o.id, discord.EscapeMarkdown(o.name), dmSuffix(o), o.caseNumber)
		}
		o := failures[0]
		return fmt.Sprintf("%s Could not %s <@%s> (%s): %s!",
			icons.Error(), v.infinitive, o.id, discord.EscapeMarkdown(o.name), discord.EscapeMarkdown(o.err))
	}

	var successLines, failureLines []string
	for _, o := range successes {
		successLines = append(successLines, fmt.Sprintf("- <@%s> (%s)%s [#%d]",
			o.id, discord.EscapeMarkdown(o.name), dmSuffix(o), o.caseNumber))
	}
	for _, o := range failures {
		failureLines = append(failureLines, fmt.Sprintf("- <@%s> (%s): %s",
			o.id, discord.EscapeMarkdown(o.name), discord.EscapeMarkdown(o.err)))
	}

	switch {
	case len(failures) == 0:
		return fmt.Sprintf("%s %s all %d users:\n%s",
			icons.Success(), v.past, total, strings.Join(successLines, "\n"))
	case len(successes) == 0:
		return fmt.Sprintf("%s None of %d users were %s:\n%s",
			icons.Error(), total, v.passive, strings.Join(failureLines, "\n"))
	default:
		return fmt.Sprintf("%s Only %d of %d %s were successful!\nSuccessful %s:\n%s\nUnsuccessful %s:\n%s",
			icons.Warning(), len(successes), total, v.noun,
			v.noun, strings.Join(successLines, "\n"),
			v.noun, strings.Join(failureLines, "\n"))
	}
}

func dmSuffix(o outcome) string {
	if o.dmSent {
		return " with direct message"
	}
	return ""
}

func optionalString(args command.Args, key string) *string {
	if !args.Has(key) {
		return nil
	}
	s := args.Str(key)
	return &s
}
