package models

import (
	"time"

	"github.com/google/uuid"
)

// Classification groups schools by enrollment into the Large and Small
// divisions. The two sets partition the league; a team is never in both.
type Classification string

const (
	ClassificationLarge Classification = "large"
	ClassificationSmall Classification = "small"
)

// LargeEnrollmentMin is the enrollment at or above which a school is Large
const LargeEnrollmentMin = 225

// Valid reports whether the classification is one of the two divisions
func (c Classification) Valid() bool {
	return c == ClassificationLarge || c == ClassificationSmall
}

// ClassifyEnrollment maps a school enrollment to its classification
func ClassifyEnrollment(enrollment int) Classification {
	if enrollment >= LargeEnrollmentMin {
		return ClassificationLarge
	}
	return ClassificationSmall
}

// Team represents one ranked team inside a season snapshot. PowerRank is
// supplied by the curated composite feed and is never recomputed here; OVR
// is derived from AvgRosterScore by the power engine.
type Team struct {
	ID             uuid.UUID      `db:"id" json:"id" validate:"required,uuid4"`
	Name           string         `db:"name" json:"name" validate:"required"`
	Classification Classification `db:"classification" json:"classification" validate:"required,oneof=large small"`
	Enrollment     int            `db:"enrollment" json:"enrollment" validate:"gte=0"`
	AvgRosterScore float64        `db:"avg_roster_score" json:"avg_roster_score" validate:"gte=0"`
	MaxRosterScore float64        `db:"max_roster_score" json:"max_roster_score" validate:"gte=0"`
	PowerRank      int            `db:"power_rank" json:"power_rank" validate:"required,gte=1"`
	OVR            int            `db:"ovr" json:"ovr" validate:"gte=0,lte=99"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// IsLarge reports whether the team plays in the Large classification
func (t *Team) IsLarge() bool {
	return t.Classification == ClassificationLarge
}
