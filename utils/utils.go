package utils

import (
	"net/url"
	"regexp"
	"strings"
	"time"
)

var (
	shortsRe     = regexp.MustCompile(`^/shorts/([^/]+)`)
	multiNewline = regexp.MustCompile(`\n{3,}`)
	multiSpace   = regexp.MustCompile(`\s{2,}`)
)

// IsYouTubeURL reports whether the URL points at a recognized YouTube host.
func IsYouTubeURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == "youtube.com" || strings.HasSuffix(host, ".youtube.com") ||
		host == "youtu.be" || strings.HasSuffix(host, ".youtu.be")
}

// ExtractVideoID pulls a video identifier out of a YouTube URL.
// Supported forms: youtube.com/watch?v=ID, youtu.be/ID, youtube.com/shorts/ID.
func ExtractVideoID(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	host := u.Hostname()

	if host == "youtu.be" || strings.HasSuffix(host, ".youtu.be") {
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(segments) > 0 && segments[0] != "" {
			return segments[0], true
		}
		return "", false
	}

	if host == "youtube.com" || strings.HasSuffix(host, ".youtube.com") {
		if v := u.Query().Get("v"); v != "" {
			return v, true
		}
		if m := shortsRe.FindStringSubmatch(u.Path); m != nil {
			return m[1], true
		}
	}

	return "", false
}

// CleanPastedText normalizes pasted thread text: collapses whitespace and
// removes common social UI junk fragments.
func CleanPastedText(text string) string {
	t := strings.ReplaceAll(text, "\r", "\n")
	t = multiNewline.ReplaceAllString(t, "\n\n")
	t = multiSpace.ReplaceAllString(t, " ")

	junk := []string{
		"See more",
		"Show more",
		"Translate Tweet",
		"Like",
		"Reply",
		"Repost",
		"Retweet",
	}
	for _, j := range junk {
		t = strings.ReplaceAll(t, j, "")
	}

	return strings.TrimSpace(t)
}

// DayKey returns the UTC calendar-date bucket used for rate limiting.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
