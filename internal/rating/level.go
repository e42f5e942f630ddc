package rating

import (
	"strings"
)

// leagueTiers is the discrete ladder of known leagues. Lookup is by
// normalized name; leagues missing from the ladder fall back to the
// piecewise-linear league-points bands below.
var leagueTiers = map[string]int{
	"nhl":                  99,
	"khl":                  93,
	"shl":                  91,
	"ahl":                  90,
	"liiga":                88,
	"nl":                   86,
	"ntdp":                 85,
	"ncaa di":              82,
	"ohl":                  80,
	"whl":                  80,
	"qmjhl":                80,
	"ushl":                 75,
	"j20 nationell":        72,
	"bchl":                 70,
	"nahl":                 68,
	"u20 sm-sarja":         67,
	"ncaa diii":            64,
	"ncdc":                 64,
	"cchl":                 62,
	"ajhl":                 62,
	"u18 aaa":              55,
	"acha":                 50,
	"u16 aaa":              48,
	"u18 aa":               40,
	"high school varsity":  35,
	"u16 aa":               35,
	"u18 a":                28,
	"high school jv":       18,
	"house":                8,
	"unclassified":         5,
}

// womensSuffixes are stripped from a league name before ladder lookup so a
// women's program matches its base league tier.
var womensSuffixes = []string{
	" (women)",
	" (w)",
	" women's",
	" women",
}

// levelBands is the 6-band piecewise-linear fallback over league points.
// Each band interpolates linearly from its floor to the next band's floor;
// the last band runs to the 99 ceiling at levelCeilPoints.
var levelBands = []struct {
	points float64
	floor  float64
}{
	{0, 5},
	{500, 20},
	{1000, 35},
	{2000, 55},
	{3000, 75},
	{4000, 90},
}

const levelCeilPoints = 5000.0

// levelRating resolves the Level sub-rating: ladder lookup first, falling
// back to the league-points bands when the league is unknown. Result clamps
// to [1,99].
func levelRating(league string, leaguePoints float64) int {
	if tier, ok := lookupLeagueTier(league); ok {
		return clampInt(tier, 1, 99)
	}
	return levelFromPoints(leaguePoints)
}

// lookupLeagueTier finds a ladder tier by normalized league name
func lookupLeagueTier(league string) (int, bool) {
	name := normalizeLeagueName(league)
	if name == "" {
		return 0, false
	}
	tier, ok := leagueTiers[name]
	return tier, ok
}

// normalizeLeagueName lowercases, collapses whitespace, and strips a
// women's-league marker so the base league matches the ladder.
func normalizeLeagueName(league string) string {
	name := strings.ToLower(strings.TrimSpace(league))
	name = strings.Join(strings.Fields(name), " ")
	for _, suffix := range womensSuffixes {
		name = strings.TrimSuffix(name, suffix)
	}
	return strings.TrimSpace(name)
}

// levelFromPoints interpolates the band containing the given league points
func levelFromPoints(points float64) int {
	if points <= 0 {
		return clampInt(round(levelBands[0].floor), 1, 99)
	}
	if points >= levelCeilPoints {
		return 99
	}

	for i := len(levelBands) - 1; i >= 0; i-- {
		band := levelBands[i]
		if points < band.points {
			continue
		}

		nextPoints, nextFloor := levelCeilPoints, 99.0
		if i+1 < len(levelBands) {
			nextPoints, nextFloor = levelBands[i+1].points, levelBands[i+1].floor
		}

		t := (points - band.points) / (nextPoints - band.points)
		return clampInt(round(band.floor+t*(nextFloor-band.floor)), 1, 99)
	}

	return 1
}
