package model

import (
	"strconv"
	"time"
)

// NotAvailable marks fields that are known to be empty or unparseable,
// as opposed to fields that were never computed.
const NotAvailable = "N/A"

// EpochFallback is the publish timestamp used when the source field is
// absent or malformed. Callers must treat it as "date unknown", not as a
// real historical value.
var EpochFallback = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// publishedAtLayout is the strict form the API delivers. Anything else
// falls back to EpochFallback.
const publishedAtLayout = "2006-01-02T15:04:05Z"

// Timestamp is a UTC timestamp that serializes as RFC 3339 and never fails
// to deserialize: unparseable input becomes EpochFallback.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

// ParsePublishedAt parses the API publish timestamp, falling back to
// EpochFallback on absent or malformed input.
func ParsePublishedAt(s string) Timestamp {
	t, err := time.Parse(publishedAtLayout, s)
	if err != nil {
		return Timestamp{Time: EpochFallback}
	}
	return Timestamp{Time: t.UTC()}
}

func (t Timestamp) MarshalCSV() (string, error) {
	return t.UTC().Format(time.RFC3339), nil
}

func (t *Timestamp) UnmarshalCSV(s string) error {
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		// A bad date column is recoverable, the record keeps its place in
		// the dataset with an unknown date.
		t.Time = EpochFallback
		return nil
	}
	t.Time = parsed.UTC()
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.UTC().Format(time.RFC3339))), nil
}

// Percent is a ratio expressed as a percentage, serialized with two
// decimals so repeated runs produce byte-identical output.
type Percent float64

func (p Percent) MarshalCSV() (string, error) {
	return strconv.FormatFloat(float64(p), 'f', 2, 64), nil
}

func (p *Percent) UnmarshalCSV(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*p = 0
		return nil
	}
	*p = Percent(v)
	return nil
}

// VideoRecord is the durable unit of the dataset: one normalized video
// with its derived engagement metrics. The csv tags define the sink file
// header, in declaration order.
type VideoRecord struct {
	VideoID         string    `csv:"video_id" json:"video_id"`
	Title           string    `csv:"title" json:"title"`
	PublishedAt     Timestamp `csv:"published_at" json:"published_at"`
	Views           int64     `csv:"views" json:"views"`
	Likes           int64     `csv:"likes" json:"likes"`
	Comments        int64     `csv:"comments" json:"comments"`
	DurationSeconds int64     `csv:"duration_seconds" json:"duration_seconds"`
	DurationDisplay string    `csv:"duration_display" json:"duration_display"`
	ThumbnailURL    string    `csv:"thumbnail_url" json:"thumbnail_url"`
	Description     string    `csv:"description" json:"description"`
	Tags            string    `csv:"tags" json:"tags"`
	Channel         string    `csv:"channel" json:"channel"`

	EngagementRate       Percent `csv:"engagement_rate" json:"engagement_rate"`
	DaysSincePublication int64   `csv:"days_since_publication" json:"days_since_publication"`
	DailyViewRate        int64   `csv:"daily_view_rate" json:"daily_view_rate"`
	LikeRatio            Percent `csv:"like_ratio" json:"like_ratio"`
	CommentRatio         Percent `csv:"comment_ratio" json:"comment_ratio"`
}
