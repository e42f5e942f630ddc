package rating

import (
	"sort"

	"github.com/openrink/puckcast/internal/models"
)

// percentileCurve is the legacy percentile-to-rating mapping used by the
// percentile variant for Visibility, Achievements and Trending. Points are
// (population percentile, rating) knots interpolated linearly.
var percentileCurve = []struct {
	pct    float64
	rating float64
}{
	{0, 1},
	{10, 8},
	{25, 22},
	{50, 45},
	{75, 68},
	{90, 85},
	{97, 94},
	{100, 99},
}

// population holds the sorted raw inputs of one rated population. Built
// once per RateAll pass so every player is ranked against the same set.
type population struct {
	views        []float64
	achievements []float64
	trending     []float64
}

func buildPopulation(players []*models.Player) *population {
	pop := &population{
		views:        make([]float64, 0, len(players)),
		achievements: make([]float64, 0, len(players)),
		trending:     make([]float64, 0, len(players)),
	}
	for _, p := range players {
		pop.views = append(pop.views, p.Factors.ProfileViews)
		pop.achievements = append(pop.achievements, p.Factors.AchievementSum())
		pop.trending = append(pop.trending, trendingInput(p.Factors, p.Position))
	}
	sortFloats(pop.views)
	sortFloats(pop.achievements)
	sortFloats(pop.trending)
	return pop
}

func (p *population) visibilityRating(views float64) int {
	return curveRating(percentileRank(p.views, views))
}

func (p *population) achievementsRating(sum float64) int {
	return curveRating(percentileRank(p.achievements, sum))
}

func (p *population) trendingRating(input float64) int {
	return curveRating(percentileRank(p.trending, input))
}

// percentileRank returns the share of population values at or below v, in
// percent. An empty population ranks everything at 0.
func percentileRank(sorted []float64, v float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	atOrBelow := sort.Search(len(sorted), func(i int) bool { return sorted[i] > v })
	return 100 * float64(atOrBelow) / float64(len(sorted))
}

// curveRating interpolates the percentile curve
func curveRating(pct float64) int {
	if pct <= percentileCurve[0].pct {
		return clampInt(round(percentileCurve[0].rating), 0, 99)
	}
	last := percentileCurve[len(percentileCurve)-1]
	if pct >= last.pct {
		return clampInt(round(last.rating), 0, 99)
	}

	for i := 1; i < len(percentileCurve); i++ {
		hi := percentileCurve[i]
		if pct > hi.pct {
			continue
		}
		lo := percentileCurve[i-1]
		t := (pct - lo.pct) / (hi.pct - lo.pct)
		return clampInt(round(lo.rating+t*(hi.rating-lo.rating)), 0, 99)
	}

	return clampInt(round(last.rating), 0, 99)
}

func sortFloats(values []float64) {
	sort.Float64s(values)
}
