package dashboard

import (
	"regexp"
	"sort"
	"strings"

	"pitwall/model"
)

// Drivers tracked for mention counts in titles and descriptions.
var drivers = []string{
	"Hamilton", "Verstappen", "Leclerc", "Norris",
	"Pérez", "Sainz", "Alonso", "Russell",
}

var (
	raceRe   = regexp.MustCompile(`(?i)highlights\s*\|\s*(.*?)\s+grand prix`)
	seasonRe = regexp.MustCompile(`\b20\d{2}\b`)
)

const defaultSeason = "2024"

// RaceName extracts the Grand Prix name from an official highlights
// title ("Race Highlights | Monaco Grand Prix ..."), or "" when the
// title doesn't match.
func RaceName(title string) string {
	m := raceRe.FindStringSubmatch(title)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// Season extracts the season year mentioned in the title, defaulting to
// the current campaign.
func Season(title string) string {
	if m := seasonRe.FindString(title); m != "" {
		return m
	}
	return defaultSeason
}

// DriverMentions counts, per driver, the videos mentioning them in the
// title or description.
func DriverMentions(records []model.VideoRecord) map[string]int {
	mentions := make(map[string]int, len(drivers))
	for _, driver := range drivers {
		needle := strings.ToLower(driver)
		for _, rec := range records {
			if strings.Contains(strings.ToLower(rec.Title), needle) ||
				strings.Contains(strings.ToLower(rec.Description), needle) {
				mentions[driver]++
			}
		}
	}
	return mentions
}

// TopDriver returns the most-mentioned driver and the count, or ("", 0)
// for an empty dataset.
func TopDriver(records []model.VideoRecord) (string, int) {
	mentions := DriverMentions(records)
	best, bestCount := "", 0
	for _, driver := range drivers {
		if mentions[driver] > bestCount {
			best, bestCount = driver, mentions[driver]
		}
	}
	return best, bestCount
}

// RaceStat aggregates the videos of one Grand Prix.
type RaceStat struct {
	Race          string        `json:"race"`
	Videos        int           `json:"videos"`
	Views         int64         `json:"views"`
	AvgEngagement model.Percent `json:"avg_engagement"`
}

// RaceStats groups records by extracted race name, most-viewed first.
// Records whose title carries no recognizable race are left out.
func RaceStats(records []model.VideoRecord) []RaceStat {
	byRace := make(map[string]*RaceStat)
	engagement := make(map[string]float64)
	for _, rec := range records {
		race := RaceName(rec.Title)
		if race == "" {
			continue
		}
		stat, ok := byRace[race]
		if !ok {
			stat = &RaceStat{Race: race}
			byRace[race] = stat
		}
		stat.Videos++
		stat.Views += rec.Views
		engagement[race] += float64(rec.EngagementRate)
	}

	stats := make([]RaceStat, 0, len(byRace))
	for race, stat := range byRace {
		stat.AvgEngagement = model.Percent(engagement[race] / float64(stat.Videos))
		stats = append(stats, *stat)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Views > stats[j].Views })
	return stats
}
