// Package pipeline drives one collection run:
// fetch pages -> batch details -> normalize -> derive -> sink.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/youtube/v3"

	"pitwall/process"
	"pitwall/storage"
)

// State is the pipeline-level run state, logged on every transition.
type State string

const (
	StateInit         State = "init"
	StateFetching     State = "fetching"
	StatePartialFetch State = "partial_fetch"
	StateFullFetch    State = "full_fetch"
	StateBatching     State = "batching_details"
	StateNormalizing  State = "normalizing"
	StateDeriving     State = "deriving"
	StateSinking      State = "sinking"
	StateDone         State = "done"
	StateFailed       State = "failed"
)

// Collector produces raw playlist items and detail records.
// fetch.Client is the production implementation.
type Collector interface {
	PlaylistItems(ctx context.Context, playlistID string) ([]*youtube.PlaylistItem, bool, error)
	VideoIDs(items []*youtube.PlaylistItem) []string
	VideoDetails(ctx context.Context, ids []string) ([]*youtube.Video, error)
}

// Summary is the final count report of a run.
type Summary struct {
	RunID         uuid.UUID
	State         State
	ItemsFetched  int
	IDsExtracted  int
	DetailsFound  int
	Records       int
	CompleteFetch bool
}

type Pipeline struct {
	collector Collector
	sink      storage.DatasetWriter
	logger    *slog.Logger
	now       func() time.Time
}

func New(collector Collector, sink storage.DatasetWriter, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		collector: collector,
		sink:      sink,
		logger:    logger,
		now:       time.Now,
	}
}

// WithNow fixes the clock used for metric derivation. Tests use this to
// get deterministic output.
func (p *Pipeline) WithNow(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// Run executes one full collection. The dataset is rebuilt from scratch:
// no incremental update, no merge with prior runs. Fatal errors (auth,
// quota) abort the run; empty intermediate results are logged and the
// run proceeds, with the sink refusing to overwrite on an empty table.
func (p *Pipeline) Run(ctx context.Context, playlistID string) (Summary, error) {
	summary := Summary{RunID: uuid.New(), State: StateInit}
	logger := p.logger.With(slog.String("run_id", summary.RunID.String()))

	p.transition(logger, &summary, StateFetching)
	items, complete, err := p.collector.PlaylistItems(ctx, playlistID)
	if err != nil {
		return p.fail(logger, summary, err)
	}
	summary.ItemsFetched = len(items)
	summary.CompleteFetch = complete
	if complete {
		p.transition(logger, &summary, StateFullFetch)
	} else {
		// Not an error state: proceed with whatever was collected.
		p.transition(logger, &summary, StatePartialFetch)
	}
	if len(items) == 0 {
		logger.Error("no items found in playlist")
	}

	ids := p.collector.VideoIDs(items)
	summary.IDsExtracted = len(ids)
	if len(ids) == 0 && len(items) > 0 {
		logger.Error("no valid video ids extracted")
	}

	p.transition(logger, &summary, StateBatching)
	details, err := p.collector.VideoDetails(ctx, ids)
	if err != nil {
		return p.fail(logger, summary, err)
	}
	summary.DetailsFound = len(details)
	if len(details) == 0 && len(ids) > 0 {
		logger.Error("no video details obtained")
	}

	p.transition(logger, &summary, StateNormalizing)
	records := process.Normalize(details, logger)

	p.transition(logger, &summary, StateDeriving)
	records = process.Derive(records, p.now())
	summary.Records = len(records)

	p.transition(logger, &summary, StateSinking)
	if err := p.sink.Write(records); err != nil {
		if errors.Is(err, storage.ErrEmptyDataset) {
			logger.Warn("empty dataset, sink untouched")
		} else {
			return p.fail(logger, summary, err)
		}
	}

	p.transition(logger, &summary, StateDone)
	logger.Info("run complete",
		slog.Int("items_fetched", summary.ItemsFetched),
		slog.Int("ids_extracted", summary.IDsExtracted),
		slog.Int("details_found", summary.DetailsFound),
		slog.Int("records", summary.Records),
		slog.Bool("complete_fetch", summary.CompleteFetch))
	return summary, nil
}

func (p *Pipeline) transition(logger *slog.Logger, summary *Summary, next State) {
	summary.State = next
	logger.Info("pipeline state", slog.String("state", string(next)))
}

func (p *Pipeline) fail(logger *slog.Logger, summary Summary, err error) (Summary, error) {
	summary.State = StateFailed
	logger.Error("pipeline failed", slog.String("state", string(StateFailed)), slog.Any("error", err))
	return summary, err
}
