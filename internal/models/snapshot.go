package models

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"
)

// LeagueSnapshot is the immutable input to the probability engine: every
// ranked team of one season at one point in time. All probabilities in a
// pass must come from the same snapshot, so the snapshot is validated once
// and then treated as read-only.
type LeagueSnapshot struct {
	ID      uuid.UUID `db:"id" json:"id"`
	Season  string    `db:"season" json:"season" validate:"required"`
	TakenAt time.Time `db:"taken_at" json:"taken_at"`
	Teams   []Team    `db:"-" json:"teams"`
}

// Validate enforces the snapshot invariants: at least one team, power ranks
// forming a dense permutation of 1..N with no ties, and a known
// classification on every team. A violation is fatal for the whole
// snapshot; the caller must reject it rather than compute on it.
func (s *LeagueSnapshot) Validate() error {
	n := len(s.Teams)
	if n == 0 {
		return fmt.Errorf("%w: snapshot has no teams", ErrInvalidSnapshot)
	}

	seen := make([]bool, n+1)
	for _, t := range s.Teams {
		if !t.Classification.Valid() {
			return fmt.Errorf("%w: team %s has unknown classification %q",
				ErrInvalidSnapshot, t.Name, t.Classification)
		}
		if t.PowerRank < 1 || t.PowerRank > n {
			return fmt.Errorf("%w: team %s has power rank %d outside 1..%d",
				ErrInvalidSnapshot, t.Name, t.PowerRank, n)
		}
		if seen[t.PowerRank] {
			return fmt.Errorf("%w: duplicate power rank %d",
				ErrInvalidSnapshot, t.PowerRank)
		}
		seen[t.PowerRank] = true
	}

	// A full pass with no duplicates and every rank in 1..n implies density,
	// but report the first missing rank explicitly for operators.
	for rank := 1; rank <= n; rank++ {
		if !seen[rank] {
			return fmt.Errorf("%w: missing power rank %d", ErrInvalidSnapshot, rank)
		}
	}

	return nil
}

// TeamByRank returns the team holding the given power rank, or nil
func (s *LeagueSnapshot) TeamByRank(rank int) *Team {
	for i := range s.Teams {
		if s.Teams[i].PowerRank == rank {
			return &s.Teams[i]
		}
	}
	return nil
}

// ClassTeams returns the snapshot's teams of one classification
func (s *LeagueSnapshot) ClassTeams(c Classification) []Team {
	out := make([]Team, 0, len(s.Teams))
	for _, t := range s.Teams {
		if t.Classification == c {
			out = append(out, t)
		}
	}
	return out
}

// Checksum returns a stable fingerprint of the ranked field of teams. Equal
// checksums mean a recompute would produce identical output, which makes
// this the cache key for computed boards.
func (s *LeagueSnapshot) Checksum() string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%d", s.Season, len(s.Teams))
	for _, t := range s.Teams {
		fmt.Fprintf(h, "|%s:%d:%d:%s:%.4f",
			t.ID, t.PowerRank, t.OVR, t.Classification, t.AvgRosterScore)
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
