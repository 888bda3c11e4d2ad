package process

import (
	"math"
	"time"

	"pitwall/model"
)

// Derive computes the engagement metrics for every record, pure and
// deterministic for a fixed now. The input slice is not mutated.
func Derive(records []model.VideoRecord, now time.Time) []model.VideoRecord {
	out := make([]model.VideoRecord, len(records))
	for i, rec := range records {
		out[i] = deriveOne(rec, now)
	}
	return out
}

func deriveOne(rec model.VideoRecord, now time.Time) model.VideoRecord {
	// Clamped to one day so same-day publishes don't blow up velocity.
	days := int64(now.UTC().Sub(rec.PublishedAt.Time).Hours() / 24)
	if days < 1 {
		days = 1
	}

	rec.EngagementRate = ratio(rec.Likes+rec.Comments, rec.Views)
	rec.DaysSincePublication = days
	rec.DailyViewRate = int64(math.Round(float64(rec.Views) / float64(days)))
	rec.LikeRatio = ratio(rec.Likes, rec.Views)
	rec.CommentRatio = ratio(rec.Comments, rec.Views)

	return rec
}

// ratio is part/whole as a percentage rounded to two decimals. A zero
// denominator yields 0, never NaN.
func ratio(part, whole int64) model.Percent {
	if whole == 0 {
		return 0
	}
	return model.Percent(math.Round(float64(part)/float64(whole)*100*100) / 100)
}
