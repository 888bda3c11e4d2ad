// Package process turns raw API detail records into the flat analytical
// dataset: normalization of one record at a time, then pure metric
// derivation over the whole table.
package process

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/sosodev/duration"
	"google.golang.org/api/youtube/v3"

	"pitwall/metrics"
	"pitwall/model"
)

// Normalize maps raw detail records into VideoRecords. Records missing
// any of snippet, statistics, or contentDetails are skipped with a log
// line; a bad record never affects the rest of the batch.
func Normalize(details []*youtube.Video, logger *slog.Logger) []model.VideoRecord {
	logger.Info("normalizing records", slog.Int("count", len(details)))

	records := make([]model.VideoRecord, 0, len(details))
	for _, item := range details {
		if item.Snippet == nil || item.Statistics == nil || item.ContentDetails == nil {
			logger.Warn("record missing required sections, skipping",
				slog.String("video_id", item.Id))
			metrics.RecordsSkipped.WithLabelValues("missing_sections").Inc()
			continue
		}
		records = append(records, normalizeOne(item))
	}

	logger.Info("normalization done", slog.Int("records", len(records)))
	return records
}

func normalizeOne(item *youtube.Video) model.VideoRecord {
	snippet := item.Snippet

	title := snippet.Title
	if title == "" {
		title = model.NotAvailable
	}
	channel := snippet.ChannelTitle
	if channel == "" {
		channel = model.NotAvailable
	}

	seconds, display := parseDuration(item.ContentDetails.Duration)

	tags := model.NotAvailable
	if len(snippet.Tags) > 0 {
		tags = strings.Join(snippet.Tags, ",")
	}

	return model.VideoRecord{
		VideoID:         item.Id,
		Title:           title,
		PublishedAt:     model.ParsePublishedAt(snippet.PublishedAt),
		Views:           clampCount(item.Statistics.ViewCount),
		Likes:           clampCount(item.Statistics.LikeCount),
		Comments:        clampCount(item.Statistics.CommentCount),
		DurationSeconds: seconds,
		DurationDisplay: display,
		ThumbnailURL:    thumbnailURL(snippet.Thumbnails),
		Description:     snippet.Description,
		Tags:            tags,
		Channel:         channel,
	}
}

// parseDuration converts an ISO-8601 duration into total seconds and an
// H:MM:SS display string. On parse failure the display is the
// NotAvailable sentinel and the seconds stay zero.
func parseDuration(iso string) (int64, string) {
	d, err := duration.Parse(iso)
	if err != nil {
		metrics.RecordsSkipped.WithLabelValues("bad_duration").Inc()
		return 0, model.NotAvailable
	}

	seconds := int64(d.ToTimeDuration() / time.Second)
	return seconds, formatSeconds(seconds)
}

func formatSeconds(seconds int64) string {
	return fmt.Sprintf("%d:%02d:%02d", seconds/3600, seconds%3600/60, seconds%60)
}

// clampCount converts an API count to a non-negative int64. Counts the
// API omits are zero already.
func clampCount(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}

// thumbnailURL prefers the high-quality thumbnail, falling back to
// medium, then default.
func thumbnailURL(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, thumb := range []*youtube.Thumbnail{t.High, t.Medium, t.Default} {
		if thumb != nil && thumb.Url != "" {
			return thumb.Url
		}
	}
	return ""
}
