package storage

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

// CaseType identifies the moderation action a case records. Numbering
// is explicit so entries can be reordered in source without breaking
// stored rows.
type CaseType int16

const (
	CaseNote        CaseType = 0
	CaseWarn        CaseType = 1
	CaseUnwarn      CaseType = 2
	CaseVoiceMute   CaseType = 3
	CaseVoiceUnmute CaseType = 4
	CaseMute        CaseType = 5
	CaseUnmute      CaseType = 6
	CaseKick        CaseType = 7
	CaseBan         CaseType = 8
	CaseUnban       CaseType = 9
)

var caseTypeNames = map[CaseType]string{
	CaseNote:        "note",
	CaseWarn:        "warn",
	CaseUnwarn:      "unwarn",
	CaseVoiceMute:   "voice_mute",
	CaseVoiceUnmute: "voice_unmute",
	CaseMute:        "mute",
	CaseUnmute:      "unmute",
	CaseKick:        "kick",
	CaseBan:         "ban",
	CaseUnban:       "unban",
}

func (t CaseType) String() string {
	if name, ok := caseTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseCaseType resolves a wire name back to its type.
func ParseCaseType(name string) (CaseType, bool) {
	for t, n := range caseTypeNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

// Case is one row of the per-guild moderation ledger.
type Case struct {
	GuildID string
	Number  int32

	Type      CaseType
	CreatedAt time.Time
	ExpiresAt *time.Time

	ActorID  string
	TargetID string

	Reason               *string
	DeleteMessageSeconds *int32
	DMSent               *bool
}

// CaseFilter narrows List results. Nil/empty fields are ignored.
type CaseFilter struct {
	NumberLessThan    *int32
	NumberGreaterThan *int32

	Types []CaseType

	CreatedBefore *time.Time
	CreatedAfter  *time.Time

	ActorIDs  []string
	TargetIDs []string

	DeleteMessageSecondsLessThan    *int32
	DeleteMessageSecondsGreaterThan *int32

	DMSent *bool

	// Reversed orders by descending case number.
	Reversed bool
	// Limit of 0 means unlimited.
	Limit int
}

// GuildInfo mirrors the gateway's view of a guild, kept fresh so the
// HTTP API can check ownership without gateway access.
type GuildInfo struct {
	GuildID  string
	Name     string
	IconHash *string
	OwnerID  string
}

// APIToken stores only the one-way digest of a bearer secret.
type APIToken struct {
	UserID    string
	Hash      []byte
	ExpiresAt time.Time
}
