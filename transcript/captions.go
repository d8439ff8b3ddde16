package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

var formatRankOrder = []string{"vtt", "ttml", "srv1", "srv2", "srv3", "json3"}

// captionClient downloads and parses caption tracks discovered through
// yt-dlp metadata. Manual subtitles are preferred over automatic captions.
type captionClient struct {
	httpClient *http.Client
}

func newCaptionClient(timeout time.Duration) *captionClient {
	return &captionClient{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch walks the metadata caption collections in preference order and
// returns the first track that yields non-empty text.
func (c *captionClient) Fetch(ctx context.Context, meta *VideoMetadata) (string, error) {
	collections := []struct {
		name   string
		tracks map[string][]CaptionTrack
	}{
		{"subtitles", meta.Subtitles},
		{"automatic_captions", meta.AutomaticCaptions},
	}

	for _, coll := range collections {
		lang, track, ok := selectTrack(coll.tracks)
		if !ok {
			continue
		}

		logrus.WithFields(logrus.Fields{
			"video_id":   meta.ID,
			"collection": coll.name,
			"lang":       lang,
			"format":     track.Ext,
		}).Debug("Downloading caption track")

		text, err := c.download(ctx, track)
		if err != nil {
			logrus.WithError(err).WithField("video_id", meta.ID).
				Warn("Caption track download failed, trying next collection")
			continue
		}
		if text != "" {
			return text, nil
		}
	}

	return "", newError(KindNoTranscript, "no usable caption track in metadata", nil)
}

// selectTrack picks the best language, then the best format within it.
func selectTrack(tracks map[string][]CaptionTrack) (string, CaptionTrack, bool) {
	if len(tracks) == 0 {
		return "", CaptionTrack{}, false
	}

	langs := make([]string, 0, len(tracks))
	for lang := range tracks {
		if len(tracks[lang]) > 0 {
			langs = append(langs, lang)
		}
	}
	if len(langs) == 0 {
		return "", CaptionTrack{}, false
	}

	sort.Slice(langs, func(i, j int) bool {
		ri, rj := languageRank(langs[i]), languageRank(langs[j])
		if ri != rj {
			return ri < rj
		}
		return langs[i] < langs[j]
	})

	lang := langs[0]
	variants := tracks[lang]

	best := variants[0]
	bestRank := formatRank(best.Ext)
	for _, v := range variants[1:] {
		if r := formatRank(v.Ext); r < bestRank {
			best, bestRank = v, r
		}
	}

	return lang, best, true
}

func languageRank(lang string) int {
	lc := strings.ToLower(lang)
	switch {
	case lc == "en":
		return 0
	case strings.HasPrefix(lc, "en-") || strings.HasPrefix(lc, "en_"):
		return 1
	case strings.HasPrefix(lc, "en"):
		return 2
	default:
		return 3
	}
}

func formatRank(ext string) int {
	for i, f := range formatRankOrder {
		if strings.EqualFold(ext, f) {
			return i
		}
	}
	return len(formatRankOrder)
}

func (c *captionClient) download(ctx context.Context, track CaptionTrack) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, track.URL, nil)
	if err != nil {
		return "", newError(KindUnknown, "could not build caption request", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", newError(KindEmptyResponse, "caption download failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", newError(KindEmptyResponse, fmt.Sprintf("caption download returned %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newError(KindEmptyResponse, "could not read caption body", err)
	}

	return parseCaptionPayload(track.Ext, body), nil
}

// parseCaptionPayload dispatches on the track format. Unknown formats fall
// back to the VTT parser since its cleanup rules are harmless on plain text.
func parseCaptionPayload(ext string, body []byte) string {
	switch strings.ToLower(ext) {
	case "json3":
		return parseJSON3(body)
	case "ttml", "srv1", "srv2", "srv3":
		return parseXMLText(body)
	default:
		return parseVTT(string(body))
	}
}

var (
	htmlTagRe  = regexp.MustCompile(`<[^>]*>`)
	cueIDRe    = regexp.MustCompile(`^\d+$`)
	timecodeRe = regexp.MustCompile(`-->`)
)

// parseVTT strips WebVTT framing and returns the joined cue text with
// consecutive duplicates removed.
func parseVTT(content string) string {
	var parts []string
	var prev string

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" ||
			strings.HasPrefix(line, "WEBVTT") ||
			strings.HasPrefix(line, "Kind:") ||
			strings.HasPrefix(line, "Language:") ||
			strings.HasPrefix(line, "NOTE") ||
			strings.HasPrefix(line, "STYLE") ||
			timecodeRe.MatchString(line) ||
			cueIDRe.MatchString(line) {
			continue
		}

		line = strings.TrimSpace(htmlTagRe.ReplaceAllString(line, ""))
		if line == "" || line == prev {
			continue
		}

		parts = append(parts, line)
		prev = line
	}

	return strings.Join(parts, " ")
}

// parseXMLText extracts the character data of every <text> and <p> element,
// covering both the srv transcript variants and TTML.
func parseXMLText(body []byte) string {
	decoder := xml.NewDecoder(bytes.NewReader(body))
	decoder.Strict = false

	var parts []string
	var depth int

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "text" || t.Name.Local == "p" {
				depth++
			}
		case xml.EndElement:
			if t.Name.Local == "text" || t.Name.Local == "p" {
				depth--
			}
		case xml.CharData:
			if depth > 0 {
				if s := strings.TrimSpace(string(t)); s != "" {
					parts = append(parts, s)
				}
			}
		}
	}

	return strings.Join(parts, " ")
}

type json3Payload struct {
	Events []struct {
		Segs []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

func parseJSON3(body []byte) string {
	var payload json3Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	var parts []string
	for _, ev := range payload.Events {
		var sb strings.Builder
		for _, seg := range ev.Segs {
			sb.WriteString(seg.UTF8)
		}
		if s := strings.TrimSpace(sb.String()); s != "" {
			parts = append(parts, s)
		}
	}

	return strings.Join(parts, " ")
}
