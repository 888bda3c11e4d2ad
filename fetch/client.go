package fetch

import (
	"context"
	"log/slog"

	"google.golang.org/api/youtube/v3"

	"pitwall/metrics"
)

const (
	// pageSize is the API maximum for playlistItems.list.
	pageSize = 50
	// maxBatchSize is the API maximum ids per videos.list call.
	maxBatchSize = 50
)

// Client collects raw playlist items and video details through the guard.
type Client struct {
	api    API
	guard  *Guard
	logger *slog.Logger
}

func NewClient(api API, guard *Guard, logger *slog.Logger) *Client {
	return &Client{
		api:    api,
		guard:  guard,
		logger: logger,
	}
}

// PlaylistItems follows continuation tokens until the playlist is
// exhausted. Auth and quota failures propagate. Any other failure
// mid-pagination ends the fetch but keeps what was accumulated, so the
// returned complete flag tells callers whether the result may be short.
func (c *Client) PlaylistItems(ctx context.Context, playlistID string) ([]*youtube.PlaylistItem, bool, error) {
	c.logger.Info("collecting playlist items", slog.String("playlist", playlistID))

	var items []*youtube.PlaylistItem
	pageToken := ""
	page := 0

	for {
		page++
		resp, err := Do(ctx, c.guard, "playlist_page", func() (*youtube.PlaylistItemListResponse, error) {
			return c.api.PlaylistPage(ctx, playlistID, pageToken)
		})
		if err != nil {
			if IsFatal(err) {
				return nil, false, err
			}
			c.logger.Error("playlist page failed, keeping partial result",
				slog.Int("page", page),
				slog.Int("collected", len(items)),
				slog.Any("error", err))
			return items, false, nil
		}

		metrics.PagesFetched.Inc()

		if len(resp.Items) == 0 {
			if resp.NextPageToken != "" {
				c.logger.Warn("empty page before final token", slog.Int("page", page))
			}
			break
		}

		items = append(items, resp.Items...)
		c.logger.Info("collected playlist page",
			slog.Int("page", page),
			slog.Int("count", len(resp.Items)))

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	c.logger.Info("playlist collection done", slog.Int("total", len(items)))
	return items, true, nil
}

// VideoIDs extracts the video id of each playlist item, logging and
// skipping entries without a resource reference.
func (c *Client) VideoIDs(items []*youtube.PlaylistItem) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item.Snippet == nil || item.Snippet.ResourceId == nil || item.Snippet.ResourceId.VideoId == "" {
			c.logger.Warn("playlist item without video id, skipping")
			continue
		}
		ids = append(ids, item.Snippet.ResourceId.VideoId)
	}
	return ids
}

// VideoDetails fetches extended metadata in chunks of at most 50 ids.
// Empty or transiently failing chunks are skipped; auth and quota
// failures abort the whole batch. Missing or deleted videos are silently
// absent from the result, so its length can be below len(ids).
func (c *Client) VideoDetails(ctx context.Context, ids []string) ([]*youtube.Video, error) {
	c.logger.Info("collecting video details", slog.Int("ids", len(ids)))

	var details []*youtube.Video
	for start := 0; start < len(ids); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]
		batch := start/maxBatchSize + 1

		resp, err := Do(ctx, c.guard, "video_details", func() (*youtube.VideoListResponse, error) {
			return c.api.VideoDetails(ctx, chunk)
		})
		if err != nil {
			if IsFatal(err) {
				return nil, err
			}
			c.logger.Error("detail batch failed, skipping",
				slog.Int("batch", batch),
				slog.Int("size", len(chunk)),
				slog.Any("error", err))
			continue
		}

		if len(resp.Items) == 0 {
			c.logger.Warn("no details returned for batch", slog.Int("batch", batch))
			continue
		}

		details = append(details, resp.Items...)
		c.logger.Info("collected detail batch",
			slog.Int("batch", batch),
			slog.Int("count", len(resp.Items)))
	}

	c.logger.Info("detail collection done", slog.Int("total", len(details)))
	return details, nil
}
