// Package parse turns loosely structured model output into brief fields.
// Models do not reliably follow the requested format, so every extraction
// here is lenient and has a usable default.
package parse

import (
	"regexp"
	"strings"
)

const (
	DefaultTitle    = "Untitled Brief"
	DefaultOverview = "No overview generated."

	maxBullets = 12
)

var (
	titleRe    = regexp.MustCompile(`(?i)title:[ \t]*(.*)`)
	overviewRe = regexp.MustCompile(`(?i)overview:[ \t]*(.*)`)
	whyRe      = regexp.MustCompile(`(?i)whyitmatters:[ \t]*(.*)`)
	bulletsRe  = regexp.MustCompile(`(?is)bullets:\s*(.*)`)
)

// Brief is the structured form of a generated brief.
type Brief struct {
	Title        string
	Overview     string
	Bullets      []string
	WhyItMatters string
}

// ParseBrief extracts brief fields from raw model output. Missing sections
// fall back to defaults rather than failing.
func ParseBrief(raw string) Brief {
	b := Brief{
		Title:        firstMatch(titleRe, raw, DefaultTitle),
		Overview:     firstMatch(overviewRe, raw, DefaultOverview),
		WhyItMatters: firstMatch(whyRe, raw, ""),
	}
	b.Bullets = extractBullets(raw)
	return b
}

func firstMatch(re *regexp.Regexp, raw, fallback string) string {
	if m := re.FindStringSubmatch(raw); m != nil {
		if v := strings.TrimSpace(m[1]); v != "" {
			return v
		}
	}
	return fallback
}

// extractBullets prefers the text following a "Bullets:" marker, cut off at
// the WhyItMatters section. When the marker is absent, or its block yields
// nothing, the whole output is rescanned for dashed lines.
func extractBullets(raw string) []string {
	if m := bulletsRe.FindStringSubmatch(raw); m != nil {
		block := m[1]
		if idx := strings.Index(strings.ToLower(block), "whyitmatters:"); idx >= 0 {
			block = block[:idx]
		}
		if bullets := dashLines(block); len(bullets) > 0 {
			return bullets
		}
	}
	return dashLines(raw)
}

// dashLines collects every line whose trimmed form starts with a dash.
func dashLines(text string) []string {
	var bullets []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "-") {
			continue
		}
		item := strings.TrimSpace(strings.TrimPrefix(line, "-"))
		if item == "" {
			continue
		}
		bullets = append(bullets, item)
		if len(bullets) == maxBullets {
			break
		}
	}
	return bullets
}
