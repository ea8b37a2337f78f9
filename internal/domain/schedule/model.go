package schedule

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultLanguage     = "Unknown"
	DefaultHomeTeamName = "Home Team"
	DefaultAwayTeamName = "Away Team"

	// KickOffLayout is fixed width so kick-off strings sort lexicographically.
	KickOffLayout = "2006-01-02T15:04:05"
)

// RawMatch is one record of the upstream match list. Every field is optional.
type RawMatch struct {
	ID       FlexString  `json:"id"`
	Title    FlexString  `json:"title"`
	Category FlexString  `json:"category"`
	Date     EpochMillis `json:"date"`
	Teams    *RawTeams   `json:"teams"`
	Sources  []SourceRef `json:"sources"`
}

type RawTeams struct {
	Home *RawTeam `json:"home"`
	Away *RawTeam `json:"away"`
}

type RawTeam struct {
	Name  FlexString `json:"name"`
	Badge FlexString `json:"badge"`
}

// HomeTeam never returns nil.
func (m RawMatch) HomeTeam() RawTeam {
	if m.Teams == nil || m.Teams.Home == nil {
		return RawTeam{}
	}
	return *m.Teams.Home
}

// AwayTeam never returns nil.
func (m RawMatch) AwayTeam() RawTeam {
	if m.Teams == nil || m.Teams.Away == nil {
		return RawTeam{}
	}
	return *m.Teams.Away
}

// SourceRef identifies one deep-link lookup.
type SourceRef struct {
	Source FlexString `json:"source"`
	ID     FlexString `json:"id"`
}

func (r SourceRef) Valid() bool {
	return r.Source.String() != "" && r.ID.String() != ""
}

func (r SourceRef) Key() string {
	return r.Source.String() + "/" + r.ID.String()
}

// StreamDescriptor is one playable stream resolved from a source. URL is kept
// verbatim from the provider and may be nil.
type StreamDescriptor struct {
	URL      *string `json:"url"`
	Language string  `json:"language"`
	HD       bool    `json:"hd"`
}

type Team struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// Match is the normalized schedule entry.
type Match struct {
	ID      string             `json:"id"`
	Title   string             `json:"title"`
	Sport   string             `json:"sport"`
	KickOff string             `json:"kickOff"`
	IsLive  bool               `json:"isLive"`
	Team1   Team               `json:"team1"`
	Team2   Team               `json:"team2"`
	Links   []StreamDescriptor `json:"links"`
}

// Schedule is ordered ascending by KickOff.
type Schedule []Match

func (s Schedule) Len() int {
	return len(s)
}

// AuditEntry records one persisted change.
type AuditEntry struct {
	Timestamp   time.Time
	Count       int
	Fingerprint string
}

// FlexString decodes a JSON string or number as a string. Any other
// value decodes to the empty string.
type FlexString string

// String returns the value verbatim.
func (s FlexString) String() string {
	return string(s)
}

func (s *FlexString) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "" || raw == "null":
		*s = ""
	case strings.HasPrefix(raw, `"`):
		var out string
		if err := json.Unmarshal(data, &out); err != nil {
			*s = ""
			return nil
		}
		*s = FlexString(out)
	case raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9'):
		*s = FlexString(raw)
	default:
		*s = ""
	}
	return nil
}

// EpochMillis decodes integer, float or numeric-string milliseconds since
// the Unix epoch. Anything unparsable decodes to zero.
type EpochMillis int64

func (m *EpochMillis) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		*m = 0
		return nil
	}
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*m = EpochMillis(v)
		return nil
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		*m = EpochMillis(int64(v))
		return nil
	}
	*m = 0
	return nil
}

// Time converts the value into a time in loc.
func (m EpochMillis) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(int64(m)).In(loc)
}
