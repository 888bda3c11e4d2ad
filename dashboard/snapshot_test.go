package dashboard

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitwall/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeReader struct {
	records []model.VideoRecord
	err     error
}

func (f *fakeReader) Read() ([]model.VideoRecord, error) {
	return f.records, f.err
}

func TestNewStoreServesEmptySnapshot(t *testing.T) {
	store := NewStore(&fakeReader{}, testLogger())

	snap := store.Current()

	require.NotNil(t, snap, "handlers never see a nil snapshot, even before the first reload")
	assert.Empty(t, snap.Records)
	assert.NotEmpty(t, snap.Version)
}

func TestReloadSwapsSnapshot(t *testing.T) {
	reader := &fakeReader{records: filterRecords()}
	store := NewStore(reader, testLogger())
	before := store.Current()

	snap := store.Reload()

	assert.Len(t, snap.Records, 3)
	assert.NotEqual(t, before.Version, snap.Version)
	assert.Same(t, snap, store.Current())
	assert.Empty(t, before.Records, "the old snapshot is untouched by the swap")
}

func TestReloadRederivesMetrics(t *testing.T) {
	published := time.Date(2024, 5, 26, 17, 0, 0, 0, time.UTC)
	reader := &fakeReader{records: []model.VideoRecord{{
		VideoID:     "vid-001",
		PublishedAt: model.NewTimestamp(published),
		Views:       1000,
		Likes:       50,
		Comments:    25,
	}}}
	now := func() time.Time { return published.AddDate(0, 0, 10) }
	store := NewStore(reader, testLogger()).WithNow(now)

	snap := store.Reload()

	require.Len(t, snap.Records, 1)
	rec := snap.Records[0]
	assert.Equal(t, model.Percent(7.5), rec.EngagementRate, "age-dependent metrics are fresh per reload")
	assert.Equal(t, int64(10), rec.DaysSincePublication)
	assert.Equal(t, int64(100), rec.DailyViewRate)
	assert.Equal(t, now(), snap.LoadedAt)
}

func TestReloadUnreadableDatasetServesEmpty(t *testing.T) {
	reader := &fakeReader{records: filterRecords()}
	store := NewStore(reader, testLogger())
	store.Reload()

	reader.records = nil
	reader.err = errors.New("no such file")
	snap := store.Reload()

	assert.Empty(t, snap.Records, "an unreadable sink degrades to an empty view, not a crash")
	assert.Same(t, snap, store.Current())
}

func TestVersionTracksContent(t *testing.T) {
	records := filterRecords()

	assert.Equal(t, version(records), version(filterRecords()), "same content, same version")
	assert.NotEqual(t, version(nil), version(records))

	bumped := filterRecords()
	bumped[0].Views++
	assert.NotEqual(t, version(records), version(bumped), "a count change is a new version")
}
