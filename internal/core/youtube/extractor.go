// Package youtube provides the YouTube-facing backend: reference extraction,
// Data API metadata and playlist lookups, and timedtext transcript fetching.
package youtube

import "regexp"

// Video and playlist identifiers as they appear in user-supplied URLs.
// Video IDs are exactly 11 characters from the URL-safe base64 alphabet;
// playlist IDs are variable length behind a "list=" marker.
var (
	videoIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})`),
		regexp.MustCompile(`youtu\.be/([0-9A-Za-z_-]{11})`),
	}

	playlistIDPattern = regexp.MustCompile(`list=([0-9A-Za-z_-]+)`)
)

// ExtractVideoID extracts the canonical video identifier from a user-supplied
// reference string. It recognizes long-form (watch?v=, /embed/, /v/) and
// short-form (youtu.be/) URLs. Pure and total: never fails, the second return
// reports whether a recognizable identifier was found.
func ExtractVideoID(raw string) (string, bool) {
	for _, p := range videoIDPatterns {
		if m := p.FindStringSubmatch(raw); m != nil {
			return m[1], true
		}
	}

	return "", false
}

// ExtractPlaylistID extracts a playlist identifier from a user-supplied
// reference string via the "list=" marker.
func ExtractPlaylistID(raw string) (string, bool) {
	if m := playlistIDPattern.FindStringSubmatch(raw); m != nil {
		return m[1], true
	}

	return "", false
}

// WatchURL returns the canonical long-form watch URL for a video identifier.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
