package youtube

import "regexp"

// videoLinkPattern recognizes the four historical YouTube URL shapes.
// The trailing group enforces a token boundary so an 11-character id is
// never clipped out of a longer identifier.
var videoLinkPattern = regexp.MustCompile(
	`(?:https?://)?(?:www\.)?(?:youtube\.com/(?:watch\?v=|embed/|live/)|youtu\.be/)([A-Za-z0-9_-]{11})(?:[^A-Za-z0-9_-]|$)`)

// watchURLIDPattern pulls the id back out of any supported URL shape.
var watchURLIDPattern = regexp.MustCompile(
	`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/|youtube\.com/live/)([^&\s?]+)`)

// ExtractVideoURLs scans arbitrary text (typically a decoded email
// body) and returns the canonical watch URL for every distinct video id
// found, in order of first appearance.
func ExtractVideoURLs(text string) []string {
	var urls []string
	seen := make(map[string]bool)

	for _, match := range videoLinkPattern.FindAllStringSubmatch(text, -1) {
		id := match[1]
		if seen[id] {
			continue
		}
		seen[id] = true
		urls = append(urls, CanonicalURL(id))
	}

	return urls
}

// ExtractVideoID returns the video id embedded in a YouTube URL, or ""
// when the URL matches none of the supported shapes.
func ExtractVideoID(url string) string {
	match := watchURLIDPattern.FindStringSubmatch(url)
	if match == nil {
		return ""
	}
	return match[1]
}

// CanonicalURL renders the watch?v= form of a video id.
func CanonicalURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
