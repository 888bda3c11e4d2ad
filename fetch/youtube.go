package fetch

import (
	"context"
	"log/slog"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// API is the slice of the YouTube Data API the collector uses.
type API interface {
	PlaylistPage(ctx context.Context, playlistID, pageToken string) (*youtube.PlaylistItemListResponse, error)
	VideoDetails(ctx context.Context, ids []string) (*youtube.VideoListResponse, error)
}

// YoutubeAPI implements API on top of the official SDK.
type YoutubeAPI struct {
	service *youtube.Service
}

// NewYoutubeAPI builds the SDK service under the guard, so even
// initialization counts against the call budget. Any failure here is
// fatal to the run.
func NewYoutubeAPI(ctx context.Context, apiKey string, g *Guard, logger *slog.Logger) (*YoutubeAPI, error) {
	service, err := Do(ctx, g, "service_init", func() (*youtube.Service, error) {
		return youtube.NewService(ctx, option.WithAPIKey(apiKey))
	})
	if err != nil {
		return nil, err
	}
	logger.Info("youtube service initialized")

	return &YoutubeAPI{service: service}, nil
}

func (y *YoutubeAPI) PlaylistPage(ctx context.Context, playlistID, pageToken string) (*youtube.PlaylistItemListResponse, error) {
	call := y.service.PlaylistItems.
		List([]string{"snippet"}).
		PlaylistId(playlistID).
		MaxResults(pageSize).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	return call.Do()
}

func (y *YoutubeAPI) VideoDetails(ctx context.Context, ids []string) (*youtube.VideoListResponse, error) {
	return y.service.Videos.
		List([]string{"snippet", "statistics", "contentDetails"}).
		Id(ids...).
		Context(ctx).
		Do()
}
