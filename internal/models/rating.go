package models

import (
	"time"

	"github.com/google/uuid"
)

// RatingSet holds the six sub-ratings and the overall card rating for one
// player. Sub-ratings are integers in [0,99]; overall is in [1,99].
type RatingSet struct {
	PlayerID     uuid.UUID `db:"player_id" json:"player_id"`
	Season       string    `db:"season" json:"season"`
	Performance  int       `db:"performance" json:"performance" validate:"gte=0,lte=99"`
	Level        int       `db:"level" json:"level" validate:"gte=0,lte=99"`
	Visibility   int       `db:"visibility" json:"visibility" validate:"gte=0,lte=99"`
	Physical     int       `db:"physical" json:"physical" validate:"gte=0,lte=99"`
	Achievements int       `db:"achievements" json:"achievements" validate:"gte=0,lte=99"`
	Trending     int       `db:"trending" json:"trending" validate:"gte=0,lte=99"`
	Overall      int       `db:"overall" json:"overall" validate:"gte=1,lte=99"`
	Variant      string    `db:"variant" json:"variant"`
	ComputedAt   time.Time `db:"computed_at" json:"computed_at"`
}

// SubRatings returns the six sub-ratings in their documented order
func (r *RatingSet) SubRatings() [6]int {
	return [6]int{r.Performance, r.Level, r.Visibility, r.Physical, r.Achievements, r.Trending}
}

// InRange reports whether every rating sits inside its documented bounds
func (r *RatingSet) InRange() bool {
	for _, v := range r.SubRatings() {
		if v < 0 || v > 99 {
			return false
		}
	}
	return r.Overall >= 1 && r.Overall <= 99
}
