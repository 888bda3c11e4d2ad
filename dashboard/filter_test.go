package dashboard

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitwall/model"
)

func day(d int) time.Time {
	return time.Date(2024, 5, d, 12, 0, 0, 0, time.UTC)
}

func filterRecords() []model.VideoRecord {
	return []model.VideoRecord{
		{VideoID: "a", PublishedAt: model.NewTimestamp(day(1)), Views: 300, Likes: 5, Comments: 9, EngagementRate: 4.67},
		{VideoID: "b", PublishedAt: model.NewTimestamp(day(10)), Views: 100, Likes: 20, Comments: 1, EngagementRate: 21},
		{VideoID: "c", PublishedAt: model.NewTimestamp(day(20)), Views: 200, Likes: 10, Comments: 4, EngagementRate: 7},
	}
}

func snapshotOf(records []model.VideoRecord) *Snapshot {
	return &Snapshot{Records: records, Version: version(records)}
}

func ids(records []model.VideoRecord) []string {
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = rec.VideoID
	}
	return out
}

func TestApplyDateBounds(t *testing.T) {
	snap := snapshotOf(filterRecords())

	tests := []struct {
		name string
		spec FilterSpec
		want []string
	}{
		{"unbounded", FilterSpec{}, []string{"a", "b", "c"}},
		{"from only", FilterSpec{From: day(5)}, []string{"b", "c"}},
		{"to only", FilterSpec{To: day(15)}, []string{"a", "b"}},
		{"both bounds", FilterSpec{From: day(5), To: day(15)}, []string{"b"}},
		{"bounds exclude all", FilterSpec{From: day(25)}, []string{}},
		{"bound on record timestamp is inclusive", FilterSpec{From: day(10), To: day(10)}, []string{"b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(snap, tt.spec)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApplySorting(t *testing.T) {
	snap := snapshotOf(filterRecords())

	tests := []struct {
		name string
		spec FilterSpec
		want []string
	}{
		{"default is published ascending", FilterSpec{}, []string{"a", "b", "c"}},
		{"published descending", FilterSpec{SortBy: SortPublishedAt, Order: OrderDesc}, []string{"c", "b", "a"}},
		{"views ascending", FilterSpec{SortBy: SortViews}, []string{"b", "c", "a"}},
		{"views descending", FilterSpec{SortBy: SortViews, Order: OrderDesc}, []string{"a", "c", "b"}},
		{"likes descending", FilterSpec{SortBy: SortLikes, Order: OrderDesc}, []string{"b", "c", "a"}},
		{"comments ascending", FilterSpec{SortBy: SortComments}, []string{"b", "c", "a"}},
		{"engagement descending", FilterSpec{SortBy: SortEngagementRate, Order: OrderDesc}, []string{"b", "c", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(snap, tt.spec)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApplyLeavesSnapshotUntouched(t *testing.T) {
	records := filterRecords()
	snap := snapshotOf(records)

	_ = Apply(snap, FilterSpec{SortBy: SortViews, Order: OrderDesc})

	assert.Equal(t, []string{"a", "b", "c"}, ids(snap.Records), "sorting happens on a copy")
}

func TestApplySortIsStable(t *testing.T) {
	records := []model.VideoRecord{
		{VideoID: "first", PublishedAt: model.NewTimestamp(day(1)), Views: 100},
		{VideoID: "second", PublishedAt: model.NewTimestamp(day(2)), Views: 100},
		{VideoID: "third", PublishedAt: model.NewTimestamp(day(3)), Views: 100},
	}

	got := Apply(snapshotOf(records), FilterSpec{SortBy: SortViews})

	assert.Equal(t, []string{"first", "second", "third"}, ids(got), "ties keep input order")
}

func TestFilterCacheMemoizes(t *testing.T) {
	cache, err := NewFilterCache(8)
	require.NoError(t, err)
	snap := snapshotOf(filterRecords())
	spec := FilterSpec{SortBy: SortViews, Order: OrderDesc}

	first := cache.Apply(snap, spec)
	second := cache.Apply(snap, spec)

	assert.Equal(t, first, second)
	if len(first) > 0 {
		assert.Same(t, &first[0], &second[0], "repeat query returns the memoized slice")
	}
}

func TestFilterCacheKeyedByVersion(t *testing.T) {
	cache, err := NewFilterCache(8)
	require.NoError(t, err)
	spec := FilterSpec{SortBy: SortViews, Order: OrderDesc}

	old := snapshotOf(filterRecords())
	_ = cache.Apply(old, spec)

	grown := append(filterRecords(), model.VideoRecord{
		VideoID: "d", PublishedAt: model.NewTimestamp(day(25)), Views: 999,
	})
	fresh := snapshotOf(grown)
	require.NotEqual(t, old.Version, fresh.Version)

	got := cache.Apply(fresh, spec)

	assert.Equal(t, []string{"d", "a", "c", "b"}, ids(got), "new snapshot version bypasses stale entries")
}

func TestFilterCacheEvictsBeyondCapacity(t *testing.T) {
	cache, err := NewFilterCache(2)
	require.NoError(t, err)
	snap := snapshotOf(filterRecords())

	for d := 1; d <= 5; d++ {
		_ = cache.Apply(snap, FilterSpec{From: day(d)})
	}

	assert.LessOrEqual(t, cache.cache.Len(), 2)
}

func TestFilterSpecKeyDistinguishesSpecs(t *testing.T) {
	seen := make(map[string]FilterSpec)
	specs := []FilterSpec{
		{},
		{SortBy: SortViews},
		{SortBy: SortViews, Order: OrderDesc},
		{From: day(1)},
		{To: day(1)},
		{From: day(1), To: day(2)},
	}
	for _, spec := range specs {
		key := spec.Key()
		prev, dup := seen[key]
		assert.False(t, dup, fmt.Sprintf("specs %+v and %+v collide on key %q", prev, spec, key))
		seen[key] = spec
	}
}
