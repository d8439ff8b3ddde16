package transcript

import (
	"strings"
	"testing"
)

func TestSelectTrackPrefersEnglish(t *testing.T) {
	tracks := map[string][]CaptionTrack{
		"de":    {{Ext: "vtt", URL: "u-de"}},
		"en":    {{Ext: "vtt", URL: "u-en"}},
		"en-US": {{Ext: "vtt", URL: "u-en-us"}},
	}

	lang, track, ok := selectTrack(tracks)
	if !ok || lang != "en" || track.URL != "u-en" {
		t.Errorf("got (%q, %q, %v), want plain en track", lang, track.URL, ok)
	}
}

func TestSelectTrackPrefersVTTFormat(t *testing.T) {
	tracks := map[string][]CaptionTrack{
		"en": {
			{Ext: "json3", URL: "u-json3"},
			{Ext: "vtt", URL: "u-vtt"},
			{Ext: "srv1", URL: "u-srv1"},
		},
	}

	_, track, ok := selectTrack(tracks)
	if !ok || track.Ext != "vtt" {
		t.Errorf("expected vtt track, got %+v", track)
	}
}

func TestSelectTrackDeterministicTieBreak(t *testing.T) {
	tracks := map[string][]CaptionTrack{
		"fr": {{Ext: "vtt", URL: "u-fr"}},
		"de": {{Ext: "vtt", URL: "u-de"}},
	}

	for i := 0; i < 20; i++ {
		lang, _, ok := selectTrack(tracks)
		if !ok || lang != "de" {
			t.Fatalf("expected alphabetical tie-break to pick de, got %q", lang)
		}
	}
}

func TestSelectTrackEmpty(t *testing.T) {
	if _, _, ok := selectTrack(nil); ok {
		t.Error("expected no track from empty map")
	}
	if _, _, ok := selectTrack(map[string][]CaptionTrack{"en": {}}); ok {
		t.Error("expected no track when every language is empty")
	}
}

func TestParseVTT(t *testing.T) {
	content := `WEBVTT
Kind: captions
Language: en

1
00:00:00.000 --> 00:00:02.000
Hello <c>world</c>

2
00:00:02.000 --> 00:00:04.000
Hello world

3
00:00:04.000 --> 00:00:06.000
Second line`

	got := parseVTT(content)
	want := "Hello world Second line"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseXMLText(t *testing.T) {
	srv := `<?xml version="1.0" encoding="utf-8"?>
<transcript><text start="0" dur="2">First cue</text><text start="2" dur="2">Second &amp; third</text></transcript>`
	got := parseXMLText([]byte(srv))
	if got != "First cue Second & third" {
		t.Errorf("srv parse: got %q", got)
	}

	ttml := `<tt xmlns="http://www.w3.org/ns/ttml"><body><div><p begin="0s">One</p><p begin="2s">Two</p></div></body></tt>`
	got = parseXMLText([]byte(ttml))
	if got != "One Two" {
		t.Errorf("ttml parse: got %q", got)
	}
}

func TestParseJSON3(t *testing.T) {
	payload := `{"events":[{"segs":[{"utf8":"Hello "},{"utf8":"world"}]},{"segs":[{"utf8":"\n"}]},{"segs":[{"utf8":"again"}]}]}`
	got := parseJSON3([]byte(payload))
	if got != "Hello world again" {
		t.Errorf("got %q", got)
	}

	if parseJSON3([]byte("not json")) != "" {
		t.Error("expected empty string for malformed payload")
	}
}

func TestParseCaptionPayloadUnknownFormatFallsBack(t *testing.T) {
	got := parseCaptionPayload("sbv", []byte("0:00:00.000,0:00:02.000\nPlain text line"))
	if !strings.Contains(got, "Plain text line") {
		t.Errorf("got %q", got)
	}
}
