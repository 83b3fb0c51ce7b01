package server

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"

	"vibetube/internal/models"

	"github.com/go-chi/chi/v5"
)

// sharePageTemplate is the minimal HTML shell served to link-preview
// crawlers. The SPA takes over for real browsers; the crawlers only
// read the head tags.
var sharePageTemplate = template.Must(template.New("share").Parse(`<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="UTF-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0" />
{{.OGTags}}
  </head>
  <body>
    <div id="root"></div>
    <p>Loading VibeTube...</p>
  </body>
</html>
`))

func (s *Server) handleSharePage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ogTags := s.defaultOGTags()
	if video, err := s.store.GetByID(r.Context(), id); err == nil {
		ogTags = s.videoOGTags(video)
	} else {
		log.Printf("Share page: video %s not found, serving default tags", id)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "s-maxage=3600, stale-while-revalidate")

	data := struct{ OGTags template.HTML }{OGTags: template.HTML(ogTags)}
	if err := sharePageTemplate.Execute(w, data); err != nil {
		log.Printf("Failed to render share page: %v", err)
	}
}

func (s *Server) videoOGTags(video *models.VideoRecord) string {
	videoURL := fmt.Sprintf("%s/vibetube/%s", s.baseURL, video.ID)
	title := template.HTMLEscapeString(video.Title)

	description := video.Description
	if description == "" {
		description = fmt.Sprintf("%s video from %s on VibeTube", video.Vibe, video.Channel)
	}
	description = template.HTMLEscapeString(description)

	thumbnail := video.ShareThumbnail()

	var sb strings.Builder
	fmt.Fprintf(&sb, `    <meta property="og:title" content="%s">`+"\n", title)
	fmt.Fprintf(&sb, `    <meta property="og:description" content="%s">`+"\n", description)
	fmt.Fprintf(&sb, `    <meta property="og:image" content="%s">`+"\n", thumbnail)
	fmt.Fprintf(&sb, `    <meta property="og:url" content="%s">`+"\n", videoURL)
	fmt.Fprintf(&sb, `    <meta property="og:type" content="video.other">`+"\n")
	fmt.Fprintf(&sb, `    <meta property="og:site_name" content="VibeTube">`+"\n")
	fmt.Fprintf(&sb, `    <meta name="twitter:card" content="summary_large_image">`+"\n")
	fmt.Fprintf(&sb, `    <meta name="twitter:title" content="%s">`+"\n", title)
	fmt.Fprintf(&sb, `    <meta name="twitter:description" content="%s">`+"\n", description)
	fmt.Fprintf(&sb, `    <meta name="twitter:image" content="%s">`+"\n", thumbnail)
	fmt.Fprintf(&sb, `    <meta name="description" content="%s">`+"\n", description)
	fmt.Fprintf(&sb, `    <title>%s | VibeTube</title>`, title)
	return sb.String()
}

func (s *Server) defaultOGTags() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `    <title>VibeTube</title>`+"\n")
	fmt.Fprintf(&sb, `    <meta name="description" content="AI-curated video feed from tech newsletters">`+"\n")
	fmt.Fprintf(&sb, `    <meta property="og:title" content="VibeTube">`+"\n")
	fmt.Fprintf(&sb, `    <meta property="og:description" content="AI-curated video feed from tech newsletters">`+"\n")
	fmt.Fprintf(&sb, `    <meta property="og:type" content="website">`+"\n")
	fmt.Fprintf(&sb, `    <meta property="og:url" content="%s/vibetube">`+"\n", s.baseURL)
	fmt.Fprintf(&sb, `    <meta name="twitter:card" content="summary_large_image">`)
	return sb.String()
}
