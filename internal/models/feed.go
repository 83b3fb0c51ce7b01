package models

// VideoUI is the feed projection of a VideoRecord, shaped for the
// frontend consumer.
type VideoUI struct {
	ID                string   `json:"id"`
	URL               string   `json:"url"`
	Title             string   `json:"title"`
	Channel           string   `json:"channel"`
	DurationSec       int      `json:"durationSec"`
	DurationFormatted string   `json:"durationFormatted"`
	Thumbnail         string   `json:"thumbnail"`
	Group             string   `json:"group"`
	SharedAt          string   `json:"sharedAt"`
	Vibe              string   `json:"vibe"`
	Reason            string   `json:"reason"`
	Source            string   `json:"source,omitempty"`
	Description       string   `json:"description,omitempty"`
	ViewCount         int64    `json:"viewCount,omitempty"`
	LikeCount         int64    `json:"likeCount,omitempty"`
	PublishedAt       string   `json:"publishedAt,omitempty"`
	Tags              []string `json:"tags,omitempty"`
	Transcript        string   `json:"transcript,omitempty"`
}

// GroupSummary is one week bucket in the feed response.
type GroupSummary struct {
	Name      string   `json:"name"`
	StartDate string   `json:"startDate"`
	VideoIDs  []string `json:"videoIds"`
	Count     int      `json:"count"`
}

// FeedMetadata summarizes an ingestion run.
type FeedMetadata struct {
	EmailsProcessed int      `json:"emailsProcessed"`
	UniqueVideos    int      `json:"uniqueVideos"`
	LastUpdated     string   `json:"lastUpdated"`
	Sources         []string `json:"sources"`
}

// FeedResponse is the JSON body of GET /api/newsletters.
type FeedResponse struct {
	Videos   []VideoUI      `json:"videos"`
	Groups   []GroupSummary `json:"groups"`
	Metadata FeedMetadata   `json:"metadata"`
}
