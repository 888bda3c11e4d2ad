package dashboard

import (
	"log/slog"
	"math"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pitwall/model"
)

const dateParamLayout = "2006-01-02"

// Server wires the snapshot store and the memoized filter engine into
// the HTTP API.
type Server struct {
	store  *Store
	cache  *FilterCache
	logger *slog.Logger
}

func NewServer(store *Store, cache *FilterCache, logger *slog.Logger) *Server {
	return &Server{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

// Router builds the gin engine with all dashboard routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"*"},
		ExposeHeaders: []string{"Content-Length"},
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "pitwall-dashboard"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/summary", s.getSummary)
	api.GET("/highlights", s.getHighlights)
	api.GET("/videos", s.getVideos)
	api.GET("/timeseries", s.getTimeseries)
	api.GET("/top", s.getTop)
	api.GET("/seasons", s.getSeasons)
	api.GET("/insights", s.getInsights)
	api.POST("/reload", s.postReload)

	return r
}

// filterSpec parses the shared query parameters. Unknown sort keys and
// orders fall back to the defaults rather than erroring.
func filterSpec(c *gin.Context) FilterSpec {
	spec := FilterSpec{
		SortBy: SortPublishedAt,
		Order:  OrderAsc,
	}

	if v := c.Query("from"); v != "" {
		if t, err := time.Parse(dateParamLayout, v); err == nil {
			spec.From = t.UTC()
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse(dateParamLayout, v); err == nil {
			// Inclusive end of day.
			spec.To = t.UTC().Add(24*time.Hour - time.Second)
		}
	}

	switch v := c.Query("sort_by"); v {
	case SortViews, SortLikes, SortComments, SortEngagementRate, SortPublishedAt:
		spec.SortBy = v
	}
	if c.Query("order") == OrderDesc {
		spec.Order = OrderDesc
	}

	return spec
}

func (s *Server) filtered(c *gin.Context) []model.VideoRecord {
	return s.cache.Apply(s.store.Current(), filterSpec(c))
}

func (s *Server) getSummary(c *gin.Context) {
	records := s.filtered(c)

	var views, likes, comments int64
	var engagement float64
	for _, rec := range records {
		views += rec.Views
		likes += rec.Likes
		comments += rec.Comments
		engagement += float64(rec.EngagementRate)
	}
	avg := 0.0
	if len(records) > 0 {
		avg = math.Round(engagement/float64(len(records))*100) / 100
	}

	c.JSON(http.StatusOK, gin.H{
		"total_videos":        len(records),
		"total_views":         views,
		"total_likes":         likes,
		"total_comments":      comments,
		"avg_engagement_rate": avg,
	})
}

func (s *Server) getHighlights(c *gin.Context) {
	records := s.filtered(c)
	if len(records) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"top_video":      nil,
			"top_engagement": nil,
			"top_driver":     nil,
		})
		return
	}

	topViews := records[0]
	topEngagement := records[0]
	for _, rec := range records[1:] {
		if rec.Views > topViews.Views {
			topViews = rec
		}
		if rec.EngagementRate > topEngagement.EngagementRate {
			topEngagement = rec
		}
	}
	driver, mentions := TopDriver(records)

	c.JSON(http.StatusOK, gin.H{
		"top_video": gin.H{
			"title": truncateTitle(topViews.Title),
			"views": topViews.Views,
		},
		"top_engagement": gin.H{
			"title":           truncateTitle(topEngagement.Title),
			"engagement_rate": topEngagement.EngagementRate,
		},
		"top_driver": gin.H{
			"name":     driver,
			"mentions": mentions,
		},
	})
}

func (s *Server) getVideos(c *gin.Context) {
	records := s.filtered(c)
	c.JSON(http.StatusOK, gin.H{
		"count":  len(records),
		"videos": records,
	})
}

func (s *Server) getTimeseries(c *gin.Context) {
	records := s.filtered(c)

	type point struct {
		Date     string `json:"date"`
		Views    int64  `json:"views"`
		Likes    int64  `json:"likes"`
		Comments int64  `json:"comments"`
	}
	byDate := make(map[string]*point)
	for _, rec := range records {
		date := rec.PublishedAt.UTC().Format(dateParamLayout)
		p, ok := byDate[date]
		if !ok {
			p = &point{Date: date}
			byDate[date] = p
		}
		p.Views += rec.Views
		p.Likes += rec.Likes
		p.Comments += rec.Comments
	}

	points := make([]point, 0, len(byDate))
	for _, p := range byDate {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })

	c.JSON(http.StatusOK, gin.H{"points": points})
}

func (s *Server) getTop(c *gin.Context) {
	n := 10
	if v, err := strconv.Atoi(c.Query("n")); err == nil && v > 0 {
		n = v
	}

	spec := filterSpec(c)
	spec.SortBy = SortViews
	spec.Order = OrderDesc
	records := s.cache.Apply(s.store.Current(), spec)
	if len(records) > n {
		records = records[:n]
	}

	type entry struct {
		Title          string        `json:"title"`
		Views          int64         `json:"views"`
		EngagementRate model.Percent `json:"engagement_rate"`
	}
	top := make([]entry, 0, len(records))
	for _, rec := range records {
		top = append(top, entry{
			Title:          truncateTitle(rec.Title),
			Views:          rec.Views,
			EngagementRate: rec.EngagementRate,
		})
	}

	c.JSON(http.StatusOK, gin.H{"top": top})
}

func (s *Server) getSeasons(c *gin.Context) {
	records := s.filtered(c)

	type seasonStat struct {
		Season   string `json:"season"`
		Videos   int    `json:"videos"`
		AvgViews int64  `json:"avg_views"`
	}
	videos := make(map[string]int)
	views := make(map[string]int64)
	for _, rec := range records {
		season := Season(rec.Title)
		videos[season]++
		views[season] += rec.Views
	}

	stats := make([]seasonStat, 0, len(videos))
	for season, count := range videos {
		stats = append(stats, seasonStat{
			Season:   season,
			Videos:   count,
			AvgViews: views[season] / int64(count),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Season < stats[j].Season })

	c.JSON(http.StatusOK, gin.H{"seasons": stats})
}

func (s *Server) getInsights(c *gin.Context) {
	records := s.filtered(c)
	c.JSON(http.StatusOK, gin.H{
		"races":           RaceStats(records),
		"driver_mentions": DriverMentions(records),
	})
}

func (s *Server) postReload(c *gin.Context) {
	snap := s.store.Reload()
	c.JSON(http.StatusOK, gin.H{
		"records":   len(snap.Records),
		"version":   snap.Version,
		"loaded_at": snap.LoadedAt.UTC().Format(time.RFC3339),
	})
}

func truncateTitle(title string) string {
	const max = 40
	runes := []rune(title)
	if len(runes) <= max {
		return title
	}
	return string(runes[:max]) + "..."
}
