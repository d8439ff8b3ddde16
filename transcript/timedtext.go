package transcript

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultTimedtextBaseURL = "https://www.youtube.com/api/timedtext"

// timedtextClient fetches captions from YouTube's timedtext endpoint, the
// cheapest acquisition path since it needs no external tools.
type timedtextClient struct {
	baseURL    string
	httpClient *http.Client
}

func newTimedtextClient(timeout time.Duration) *timedtextClient {
	return &timedtextClient{
		baseURL:    defaultTimedtextBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type timedtextTrack struct {
	LangCode string `xml:"lang_code,attr"`
	Name     string `xml:"name,attr"`
	Kind     string `xml:"kind,attr"`
	// Present when the track can be machine-translated via tlang.
	LangTranslated string `xml:"lang_translated,attr"`
}

type timedtextTrackList struct {
	Tracks []timedtextTrack `xml:"track"`
}

type timedtextTranscript struct {
	Texts []string `xml:"text"`
}

// Fetch retrieves a transcript for the video, preferring manual English
// captions, then auto-generated English, then any track translated to English.
func (c *timedtextClient) Fetch(ctx context.Context, videoID string) (string, error) {
	tracks, err := c.listTracks(ctx, videoID)
	if err != nil {
		return "", err
	}
	if len(tracks) == 0 {
		return "", newError(KindNoTranscript, "no caption tracks listed for video", nil)
	}

	track, translate := pickTimedtextTrack(tracks)

	logrus.WithFields(logrus.Fields{
		"video_id":  videoID,
		"lang":      track.LangCode,
		"kind":      track.Kind,
		"translate": translate,
	}).Debug("Selected timedtext track")

	return c.fetchTrack(ctx, videoID, track, translate)
}

// pickTimedtextTrack returns the best track and whether it should be
// translated to English on fetch. Foreign tracks are translated only when
// the listing marks them translatable; otherwise they are used as-is.
func pickTimedtextTrack(tracks []timedtextTrack) (timedtextTrack, bool) {
	for _, t := range tracks {
		if isEnglish(t.LangCode) && t.Kind != "asr" {
			return t, false
		}
	}
	for _, t := range tracks {
		if isEnglish(t.LangCode) {
			return t, false
		}
	}
	t := tracks[0]
	return t, t.LangTranslated != ""
}

func isEnglish(langCode string) bool {
	lc := strings.ToLower(langCode)
	return lc == "en" || strings.HasPrefix(lc, "en-") || strings.HasPrefix(lc, "en_")
}

func (c *timedtextClient) listTracks(ctx context.Context, videoID string) ([]timedtextTrack, error) {
	params := url.Values{}
	params.Set("type", "list")
	params.Set("v", videoID)

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var list timedtextTrackList
	if err := xml.Unmarshal(body, &list); err != nil {
		return nil, newError(KindUnknown, "could not parse caption track list", err)
	}

	return list.Tracks, nil
}

func (c *timedtextClient) fetchTrack(ctx context.Context, videoID string, track timedtextTrack, translate bool) (string, error) {
	params := url.Values{}
	params.Set("v", videoID)
	params.Set("lang", track.LangCode)
	if track.Name != "" {
		params.Set("name", track.Name)
	}
	if track.Kind != "" {
		params.Set("kind", track.Kind)
	}
	if translate {
		params.Set("tlang", "en")
	}

	body, err := c.get(ctx, params)
	if err != nil {
		return "", err
	}

	var transcript timedtextTranscript
	if err := xml.Unmarshal(body, &transcript); err != nil {
		return "", newError(KindUnknown, "could not parse transcript payload", err)
	}

	var parts []string
	for _, t := range transcript.Texts {
		t = strings.TrimSpace(t)
		if t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return "", newError(KindEmptyResponse, "transcript payload contained no text", nil)
	}

	return strings.Join(parts, " "), nil
}

func (c *timedtextClient) get(ctx context.Context, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, newError(KindUnknown, "could not build timedtext request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newError(KindEmptyResponse, "timedtext request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, newError(KindUnavailable, "timedtext endpoint reports video gone", nil)
	case resp.StatusCode != http.StatusOK:
		return nil, newError(KindEmptyResponse, fmt.Sprintf("timedtext endpoint returned %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(KindEmptyResponse, "could not read timedtext response", err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, newError(KindEmptyResponse, "timedtext endpoint returned an empty body", nil)
	}

	return body, nil
}
