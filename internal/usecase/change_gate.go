package usecase

import (
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/match-schedule/internal/domain/schedule"
	"github.com/riskibarqy/match-schedule/internal/platform/canonical"
)

// ChangeGate decides whether a freshly built schedule differs from the one
// on disk. It has no side effects.
type ChangeGate struct{}

func NewChangeGate() *ChangeGate {
	return &ChangeGate{}
}

type GateDecision struct {
	Persist             bool
	Fingerprint         string
	PreviousFingerprint string
}

// Fingerprint digests the canonical encoding of s. A nil schedule and nil
// link lists hash the same as empty ones.
func (g *ChangeGate) Fingerprint(s schedule.Schedule) (string, error) {
	digest, err := canonical.Digest(normalizeSchedule(s))
	if err != nil {
		return "", crerr.Wrap(err, "fingerprint schedule")
	}
	return digest, nil
}

func (g *ChangeGate) ShouldPersist(next, previous schedule.Schedule) (GateDecision, error) {
	nextFP, err := g.Fingerprint(next)
	if err != nil {
		return GateDecision{}, err
	}
	prevFP, err := g.Fingerprint(previous)
	if err != nil {
		return GateDecision{}, err
	}
	return GateDecision{
		Persist:             nextFP != prevFP,
		Fingerprint:         nextFP,
		PreviousFingerprint: prevFP,
	}, nil
}

// normalizeSchedule copies s so that nil collections encode as [].
func normalizeSchedule(s schedule.Schedule) schedule.Schedule {
	out := make(schedule.Schedule, len(s))
	for i, match := range s {
		if match.Links == nil {
			match.Links = []schedule.StreamDescriptor{}
		}
		out[i] = match
	}
	return out
}
