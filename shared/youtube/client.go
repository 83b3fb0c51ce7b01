package youtube

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"vibetube/internal/models"

	"google.golang.org/api/option"
	youtubeapi "google.golang.org/api/youtube/v3"
)

// Client fetches video metadata through the YouTube Data API v3 using
// an API key. A client built without a key is valid but returns no
// results, which downstream code treats like any other metadata miss.
type Client struct {
	service   *youtubeapi.Service
	batchSize int
}

func NewClient(ctx context.Context, apiKey string, batchSize int) (*Client, error) {
	if batchSize <= 0 || batchSize > 50 {
		batchSize = 50
	}

	if apiKey == "" {
		log.Println("No YouTube API key configured, metadata enrichment disabled")
		return &Client{batchSize: batchSize}, nil
	}

	service, err := youtubeapi.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &Client{service: service, batchSize: batchSize}, nil
}

// FetchMetadata resolves metadata for the given video ids. Requests are
// issued in batches of at most batchSize ids; a failing batch is logged
// and skipped so the rest of the ids still resolve. Ids the API does
// not recognize are silently absent from the result.
func (c *Client) FetchMetadata(ctx context.Context, ids []string) ([]*models.VideoInfo, error) {
	if c.service == nil || len(ids) == 0 {
		return nil, nil
	}

	var infos []*models.VideoInfo

	for i := 0; i < len(ids); i += c.batchSize {
		end := i + c.batchSize
		if end > len(ids) {
			end = len(ids)
		}

		batch := ids[i:end]
		call := c.service.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
			Id(strings.Join(batch, ",")).
			Context(ctx)

		resp, err := call.Do()
		if err != nil {
			log.Printf("Failed to fetch video metadata for batch of %d: %v", len(batch), err)
			continue
		}

		for _, item := range resp.Items {
			infos = append(infos, videoInfoFromItem(item))
		}
	}

	return infos, nil
}

func videoInfoFromItem(item *youtubeapi.Video) *models.VideoInfo {
	info := &models.VideoInfo{ID: item.Id}

	if item.Snippet != nil {
		info.Title = item.Snippet.Title
		info.Description = item.Snippet.Description
		info.ChannelTitle = item.Snippet.ChannelTitle
		info.ChannelID = item.Snippet.ChannelId
		info.Tags = item.Snippet.Tags
		info.CategoryID = item.Snippet.CategoryId
		info.DefaultLanguage = item.Snippet.DefaultLanguage
		info.LiveBroadcastContent = item.Snippet.LiveBroadcastContent
		info.Thumbnails = thumbnailSet(item.Snippet.Thumbnails)

		if publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			info.PublishedAt = &publishedAt
		}
	}

	if item.ContentDetails != nil {
		info.DurationSec = ParseDurationSeconds(item.ContentDetails.Duration)
	}

	if item.Statistics != nil {
		info.ViewCount = int64(item.Statistics.ViewCount)
		info.LikeCount = int64(item.Statistics.LikeCount)
		info.CommentCount = int64(item.Statistics.CommentCount)
	}

	return info
}

func thumbnailSet(details *youtubeapi.ThumbnailDetails) map[string]models.Thumbnail {
	if details == nil {
		return nil
	}

	set := make(map[string]models.Thumbnail)
	add := func(key string, t *youtubeapi.Thumbnail) {
		if t != nil && t.Url != "" {
			set[key] = models.Thumbnail{URL: t.Url, Width: t.Width, Height: t.Height}
		}
	}

	add("default", details.Default)
	add("medium", details.Medium)
	add("high", details.High)
	add("standard", details.Standard)
	add("maxres", details.Maxres)

	if len(set) == 0 {
		return nil
	}
	return set
}

var durationPattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// ParseDurationSeconds converts an ISO 8601 duration like "PT2H15M30S"
// into total whole seconds. Missing components count as zero; anything
// unparseable yields zero.
func ParseDurationSeconds(duration string) int {
	if duration == "" {
		return 0
	}

	matches := durationPattern.FindStringSubmatch(duration)
	if matches == nil {
		return 0
	}

	var totalSeconds int

	if matches[1] != "" {
		if hours, err := strconv.Atoi(matches[1]); err == nil {
			totalSeconds += hours * 3600
		}
	}
	if matches[2] != "" {
		if minutes, err := strconv.Atoi(matches[2]); err == nil {
			totalSeconds += minutes * 60
		}
	}
	if matches[3] != "" {
		if seconds, err := strconv.Atoi(matches[3]); err == nil {
			totalSeconds += seconds
		}
	}

	return totalSeconds
}

// FormatDuration renders seconds as H:MM:SS when there is at least one
// hour, else M:SS.
func FormatDuration(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
