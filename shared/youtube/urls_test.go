package youtube

import (
	"reflect"
	"testing"
)

func TestExtractVideoURLs(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "WatchForm",
			text:     "see https://www.youtube.com/watch?v=dQw4w9WgXcQ today",
			expected: []string{"https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		},
		{
			name:     "ShortForm",
			text:     "https://youtu.be/dQw4w9WgXcQ",
			expected: []string{"https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		},
		{
			name:     "EmbedForm",
			text:     `<iframe src="https://www.youtube.com/embed/dQw4w9WgXcQ"></iframe>`,
			expected: []string{"https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		},
		{
			name:     "LiveForm",
			text:     "streaming at youtube.com/live/dQw4w9WgXcQ now",
			expected: []string{"https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		},
		{
			name:     "NoScheme",
			text:     "www.youtube.com/watch?v=dQw4w9WgXcQ",
			expected: []string{"https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		},
		{
			name:     "SameVideoTwoShapes",
			text:     "check this out https://youtu.be/dQw4w9WgXcQ and also https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			expected: []string{"https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		},
		{
			name: "OrderOfFirstAppearance",
			text: "first https://youtu.be/AAAAAAAAAAA then https://youtu.be/BBBBBBBBBBB and first again https://www.youtube.com/watch?v=AAAAAAAAAAA",
			expected: []string{
				"https://www.youtube.com/watch?v=AAAAAAAAAAA",
				"https://www.youtube.com/watch?v=BBBBBBBBBBB",
			},
		},
		{
			name:     "IdentifierInsideLongerToken",
			text:     "https://youtu.be/dQw4w9WgXcQextrachars",
			expected: nil,
		},
		{
			name:     "UnicodeSurroundings",
			text:     "日本語テキスト https://youtu.be/dQw4w9WgXcQ さらにテキスト",
			expected: []string{"https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		},
		{
			name:     "IDAtEndOfText",
			text:     "trailing https://youtu.be/dQw4w9WgXcQ",
			expected: []string{"https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		},
		{
			name:     "NoVideos",
			text:     "nothing to see here, just https://example.com/watch?v=notavideo",
			expected: nil,
		},
		{
			name:     "EmptyText",
			text:     "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractVideoURLs(tt.text)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ExtractVideoURLs(%q) = %v, want %v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"Watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"WatchWithParams", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"Short", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"Embed", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"Live", "https://www.youtube.com/live/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"NotAVideoURL", "https://example.com/watch?v=dQw4w9WgXcQ", ""},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractVideoID(tt.url); got != tt.expected {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.url, got, tt.expected)
			}
		})
	}
}
