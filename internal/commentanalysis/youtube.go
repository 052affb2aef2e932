package commentanalysis

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidVideoURL is returned for URLs that do not name a YouTube video.
var ErrInvalidVideoURL = errors.New("invalid YouTube URL format")

var videoURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/watch\?.*v=([a-zA-Z0-9_-]{11})`),
}

// VideoID returns the 11-character video ID in a watch, short or embed URL.
func VideoID(rawURL string) (string, bool) {
	rawURL = strings.TrimSpace(rawURL)
	for _, p := range videoURLPatterns {
		if m := p.FindStringSubmatch(rawURL); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// ValidateVideoURL returns ErrInvalidVideoURL unless rawURL names a video.
func ValidateVideoURL(rawURL string) error {
	if _, ok := VideoID(rawURL); !ok {
		return ErrInvalidVideoURL
	}
	return nil
}
