package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitwall/model"
)

func TestRaceName(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"official form", "Race Highlights | 2024 Monaco Grand Prix", "2024 Monaco"},
		{"no year", "Race Highlights | Monaco Grand Prix", "Monaco"},
		{"case insensitive", "RACE HIGHLIGHTS | MONACO GRAND PRIX", "MONACO"},
		{"loose spacing", "Highlights |  Abu Dhabi   Grand Prix", "Abu Dhabi"},
		{"no race", "Top 10 Overtakes of the Season", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RaceName(tt.title))
		})
	}
}

func TestSeason(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"year in title", "Race Highlights | 2023 Monaco Grand Prix", "2023"},
		{"no year defaults", "Race Highlights | Monaco Grand Prix", defaultSeason},
		{"old years ignored", "Classic 1998 Season Review", defaultSeason},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Season(tt.title))
		})
	}
}

func TestDriverMentions(t *testing.T) {
	records := []model.VideoRecord{
		{Title: "Verstappen wins in Monaco", Description: "Hamilton P2"},
		{Title: "Leclerc on pole", Description: "leclerc delivers at home"},
		{Title: "Pérez crashes out", Description: ""},
		{Title: "Quiet race", Description: "nothing happened"},
	}

	mentions := DriverMentions(records)

	assert.Equal(t, 1, mentions["Verstappen"])
	assert.Equal(t, 1, mentions["Hamilton"], "description counts too")
	assert.Equal(t, 1, mentions["Leclerc"], "a video counts once even with multiple mentions")
	assert.Equal(t, 1, mentions["Pérez"])
	assert.Zero(t, mentions["Alonso"])
}

func TestTopDriver(t *testing.T) {
	records := []model.VideoRecord{
		{Title: "Verstappen wins again"},
		{Title: "Verstappen dominates"},
		{Title: "Hamilton fights back"},
	}

	driver, count := TopDriver(records)

	assert.Equal(t, "Verstappen", driver)
	assert.Equal(t, 2, count)
}

func TestTopDriverEmpty(t *testing.T) {
	driver, count := TopDriver(nil)

	assert.Empty(t, driver)
	assert.Zero(t, count)
}

func TestRaceStats(t *testing.T) {
	records := []model.VideoRecord{
		{Title: "Race Highlights | Monaco Grand Prix", Views: 1000, EngagementRate: 4},
		{Title: "Sprint Highlights | Monaco Grand Prix", Views: 500, EngagementRate: 6},
		{Title: "Race Highlights | Monza Grand Prix", Views: 2000, EngagementRate: 3},
		{Title: "Driver interviews", Views: 9000, EngagementRate: 9},
	}

	stats := RaceStats(records)

	require.Len(t, stats, 2, "unrecognized titles are excluded")
	assert.Equal(t, "Monza", stats[0].Race, "most-viewed race first")
	assert.Equal(t, int64(2000), stats[0].Views)
	assert.Equal(t, "Monaco", stats[1].Race)
	assert.Equal(t, 2, stats[1].Videos)
	assert.Equal(t, int64(1500), stats[1].Views)
	assert.Equal(t, model.Percent(5), stats[1].AvgEngagement)
}

func TestRaceStatsEmpty(t *testing.T) {
	assert.Empty(t, RaceStats(nil))
}
