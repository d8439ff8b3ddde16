package transcript

import (
	"context"
	"testing"
	"time"

	"threadbrief/config"
)

type fakeMetadata struct {
	meta  *VideoMetadata
	err   error
	calls int
}

func (f *fakeMetadata) FetchMetadata(ctx context.Context, url string) (*VideoMetadata, error) {
	f.calls++
	return f.meta, f.err
}

type fakeAPI struct {
	text  string
	err   error
	calls int
}

func (f *fakeAPI) Fetch(ctx context.Context, videoID string) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeCaptions struct {
	text  string
	err   error
	calls int
}

func (f *fakeCaptions) Fetch(ctx context.Context, meta *VideoMetadata) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeAudio struct {
	text  string
	err   error
	calls int
}

func (f *fakeAudio) Fetch(ctx context.Context, url, videoID string) (string, error) {
	f.calls++
	return f.text, f.err
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Transcript.MaxDuration = 10 * time.Minute
	return cfg
}

const testURL = "https://www.youtube.com/watch?v=abc123"

func newTestService(meta *fakeMetadata, api *fakeAPI, captions *fakeCaptions, audio *fakeAudio) *Service {
	return &Service{
		config:   testConfig(),
		metadata: meta,
		api:      api,
		captions: captions,
		audio:    audio,
	}
}

func TestFetchInvalidURL(t *testing.T) {
	svc := newTestService(&fakeMetadata{}, &fakeAPI{}, &fakeCaptions{}, &fakeAudio{})

	_, err := svc.Fetch(context.Background(), "https://example.com/nothing")
	if KindOf(err) != KindInvalidURL {
		t.Fatalf("expected KindInvalidURL, got %v", err)
	}
}

func TestFetchTooLongStopsBeforeAdapters(t *testing.T) {
	meta := &fakeMetadata{meta: &VideoMetadata{ID: "abc123", Duration: 3600}}
	api := &fakeAPI{text: "should not be used"}
	svc := newTestService(meta, api, &fakeCaptions{}, &fakeAudio{})

	_, err := svc.Fetch(context.Background(), testURL)
	if KindOf(err) != KindTooLong {
		t.Fatalf("expected KindTooLong, got %v", err)
	}
	if api.calls != 0 {
		t.Errorf("expected no API calls past the duration gate, got %d", api.calls)
	}
}

func TestFetchAPISuccess(t *testing.T) {
	meta := &fakeMetadata{meta: &VideoMetadata{ID: "abc123", Title: "A Title", Duration: 120}}
	api := &fakeAPI{text: "transcript from api"}
	captions := &fakeCaptions{}
	audio := &fakeAudio{}
	svc := newTestService(meta, api, captions, audio)

	res, err := svc.Fetch(context.Background(), testURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Method != MethodAPI || res.Text != "transcript from api" {
		t.Errorf("unexpected result: %+v", res)
	}
	if res.Title != "A Title" || res.Duration != 2*time.Minute {
		t.Errorf("metadata not carried through: %+v", res)
	}
	if captions.calls != 0 || audio.calls != 0 {
		t.Error("expected later adapters to be skipped after API success")
	}
}

func TestFetchUnavailableIsTerminal(t *testing.T) {
	meta := &fakeMetadata{meta: &VideoMetadata{ID: "abc123", Duration: 60}}
	api := &fakeAPI{err: newError(KindUnavailable, "gone", nil)}
	captions := &fakeCaptions{text: "should not be reached"}
	audio := &fakeAudio{}
	svc := newTestService(meta, api, captions, audio)

	_, err := svc.Fetch(context.Background(), testURL)
	if KindOf(err) != KindUnavailable {
		t.Fatalf("expected KindUnavailable, got %v", err)
	}
	if captions.calls != 0 || audio.calls != 0 {
		t.Error("expected cascade to stop on unavailable video")
	}
}

func TestFetchFallsBackToCaptions(t *testing.T) {
	meta := &fakeMetadata{meta: &VideoMetadata{ID: "abc123", Duration: 60}}
	api := &fakeAPI{err: newError(KindNoTranscript, "none listed", nil)}
	captions := &fakeCaptions{text: "caption text"}
	audio := &fakeAudio{}
	svc := newTestService(meta, api, captions, audio)

	res, err := svc.Fetch(context.Background(), testURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Method != MethodCaptions {
		t.Errorf("expected captions method, got %s", res.Method)
	}
	if audio.calls != 0 {
		t.Error("expected audio adapter to be skipped")
	}
}

func TestFetchFallsBackToAudio(t *testing.T) {
	meta := &fakeMetadata{meta: &VideoMetadata{ID: "abc123", Duration: 60}}
	api := &fakeAPI{err: newError(KindEmptyResponse, "empty", nil)}
	captions := &fakeCaptions{err: newError(KindNoTranscript, "no tracks", nil)}
	audio := &fakeAudio{text: "whisper text"}
	svc := newTestService(meta, api, captions, audio)

	res, err := svc.Fetch(context.Background(), testURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Method != MethodAudio || res.Text != "whisper text" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestFetchMetadataFailureIsNonFatal(t *testing.T) {
	meta := &fakeMetadata{err: newError(KindToolMissing, "executable not found: yt-dlp", nil)}
	api := &fakeAPI{text: "transcript from api"}
	captions := &fakeCaptions{}
	audio := &fakeAudio{}
	svc := newTestService(meta, api, captions, audio)

	res, err := svc.Fetch(context.Background(), testURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Method != MethodAPI || res.Text != "transcript from api" {
		t.Errorf("unexpected result: %+v", res)
	}
	if api.calls != 1 {
		t.Errorf("expected the API adapter to run despite missing metadata, got %d calls", api.calls)
	}
}

func TestFetchMetadataUnavailableIsTerminal(t *testing.T) {
	meta := &fakeMetadata{err: newError(KindUnavailable, "gone", nil)}
	api := &fakeAPI{text: "should not be used"}
	svc := newTestService(meta, api, &fakeCaptions{}, &fakeAudio{})

	_, err := svc.Fetch(context.Background(), testURL)
	if KindOf(err) != KindUnavailable {
		t.Fatalf("expected KindUnavailable, got %v", err)
	}
	if api.calls != 0 {
		t.Error("expected no adapter calls for an unavailable video")
	}
}

func TestFetchMissingMetadataSkipsCaptions(t *testing.T) {
	meta := &fakeMetadata{err: newError(KindToolMissing, "executable not found: yt-dlp", nil)}
	api := &fakeAPI{err: newError(KindNoTranscript, "none listed", nil)}
	captions := &fakeCaptions{text: "should not be reached"}
	audio := &fakeAudio{text: "whisper text"}
	svc := newTestService(meta, api, captions, audio)

	res, err := svc.Fetch(context.Background(), testURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Method != MethodAudio {
		t.Errorf("expected audio method, got %s", res.Method)
	}
	if captions.calls != 0 {
		t.Error("expected caption adapter to be skipped without metadata")
	}
	if meta.calls != 2 {
		t.Errorf("expected a fresh metadata attempt before the caption stage, got %d calls", meta.calls)
	}
}

func TestFetchAllAdaptersFail(t *testing.T) {
	meta := &fakeMetadata{meta: &VideoMetadata{ID: "abc123", Duration: 60}}
	api := &fakeAPI{err: newError(KindEmptyResponse, "empty", nil)}
	captions := &fakeCaptions{err: newError(KindNoTranscript, "no tracks", nil)}
	audio := &fakeAudio{err: newError(KindAudioDisabled, "disabled", nil)}
	svc := newTestService(meta, api, captions, audio)

	_, err := svc.Fetch(context.Background(), testURL)
	if err == nil {
		t.Fatal("expected error")
	}
	if KindOf(err) != KindAudioDisabled {
		t.Errorf("expected the audio adapter's kind to win, got %v", KindOf(err))
	}
}
