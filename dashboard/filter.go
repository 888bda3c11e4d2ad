package dashboard

import (
	"fmt"
	"sort"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"pitwall/model"
)

// Sort keys accepted by the filter engine.
const (
	SortPublishedAt    = "published_at"
	SortViews          = "views"
	SortLikes          = "likes"
	SortComments       = "comments"
	SortEngagementRate = "engagement_rate"
)

const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// FilterSpec selects and orders a subset of the dataset. Zero time
// bounds are unbounded.
type FilterSpec struct {
	From   time.Time
	To     time.Time
	SortBy string
	Order  string
}

// Key is the canonical cache-key form of the spec.
func (f FilterSpec) Key() string {
	return fmt.Sprintf("%d|%d|%s|%s", f.From.Unix(), f.To.Unix(), f.SortBy, f.Order)
}

// Apply is the one shared filter/sort function behind every view: pure,
// leaves the snapshot untouched, returns a fresh slice.
func Apply(snap *Snapshot, spec FilterSpec) []model.VideoRecord {
	out := make([]model.VideoRecord, 0, len(snap.Records))
	for _, rec := range snap.Records {
		if !spec.From.IsZero() && rec.PublishedAt.Before(spec.From) {
			continue
		}
		if !spec.To.IsZero() && rec.PublishedAt.After(spec.To) {
			continue
		}
		out = append(out, rec)
	}

	less := lessFunc(spec.SortBy)
	desc := spec.Order == OrderDesc
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})

	return out
}

func lessFunc(sortBy string) func(a, b model.VideoRecord) bool {
	switch sortBy {
	case SortViews:
		return func(a, b model.VideoRecord) bool { return a.Views < b.Views }
	case SortLikes:
		return func(a, b model.VideoRecord) bool { return a.Likes < b.Likes }
	case SortComments:
		return func(a, b model.VideoRecord) bool { return a.Comments < b.Comments }
	case SortEngagementRate:
		return func(a, b model.VideoRecord) bool { return a.EngagementRate < b.EngagementRate }
	default:
		return func(a, b model.VideoRecord) bool { return a.PublishedAt.Before(b.PublishedAt.Time) }
	}
}

// FilterCache memoizes Apply results in a bounded LRU keyed by snapshot
// version plus spec, so a reload naturally invalidates all entries.
type FilterCache struct {
	cache *lru.Cache[string, []model.VideoRecord]
}

func NewFilterCache(size int) (*FilterCache, error) {
	cache, err := lru.New[string, []model.VideoRecord](size)
	if err != nil {
		return nil, fmt.Errorf("build filter cache: %w", err)
	}
	return &FilterCache{cache: cache}, nil
}

func (c *FilterCache) Apply(snap *Snapshot, spec FilterSpec) []model.VideoRecord {
	key := snap.Version + "|" + spec.Key()
	if cached, ok := c.cache.Get(key); ok {
		return cached
	}

	result := Apply(snap, spec)
	c.cache.Add(key, result)
	return result
}
