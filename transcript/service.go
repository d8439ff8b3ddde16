package transcript

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"threadbrief/config"
	"threadbrief/utils"
)

// Result carries a fetched transcript plus the video metadata that came with it.
type Result struct {
	VideoID  string
	Title    string
	Duration time.Duration
	Text     string
	Method   string
}

// Acquisition methods, in cascade order.
const (
	MethodAPI      = "api"
	MethodCaptions = "captions"
	MethodAudio    = "audio"
)

type metadataSource interface {
	FetchMetadata(ctx context.Context, url string) (*VideoMetadata, error)
}

type transcriptAPI interface {
	Fetch(ctx context.Context, videoID string) (string, error)
}

type captionSource interface {
	Fetch(ctx context.Context, meta *VideoMetadata) (string, error)
}

type audioSource interface {
	Fetch(ctx context.Context, url, videoID string) (string, error)
}

// Service acquires transcripts through a cascade of adapters, cheapest first.
type Service struct {
	config   *config.Config
	metadata metadataSource
	api      transcriptAPI
	captions captionSource
	audio    audioSource
}

func NewService(cfg *config.Config) *Service {
	ytdlp := newYtdlpClient(cfg)
	return &Service{
		config:   cfg,
		metadata: ytdlp,
		api:      newTimedtextClient(cfg.Transcript.CaptionTimeout),
		captions: newCaptionClient(cfg.Transcript.CaptionTimeout),
		audio:    newAudioClient(cfg, ytdlp),
	}
}

// Metadata fetches video metadata without acquiring a transcript.
func (s *Service) Metadata(ctx context.Context, url string) (*VideoMetadata, error) {
	if _, ok := utils.ExtractVideoID(url); !ok {
		return nil, newError(KindInvalidURL, "could not extract a video ID from URL", nil)
	}
	return s.metadata.FetchMetadata(ctx, url)
}

// Fetch runs the acquisition cascade: metadata and duration gate first, then
// the timedtext API, then caption tracks, then audio transcription. A video
// reported unavailable stops the cascade immediately.
func (s *Service) Fetch(ctx context.Context, url string) (*Result, error) {
	videoID, ok := utils.ExtractVideoID(url)
	if !ok {
		return nil, newError(KindInvalidURL, "could not extract a video ID from URL", nil)
	}

	log := logrus.WithField("video_id", videoID)

	// A failed metadata fetch is not fatal; the timedtext adapter needs no
	// metadata and the duration gate simply cannot run. Only a video known
	// to be gone stops the cascade.
	meta, err := s.metadata.FetchMetadata(ctx, url)
	if err != nil {
		if KindOf(err) == KindUnavailable {
			return nil, err
		}
		log.WithError(err).Warn("Metadata fetch failed, continuing with unknown duration")
		meta = nil
	}

	result := &Result{VideoID: videoID}
	if meta != nil {
		duration := time.Duration(meta.Duration * float64(time.Second))
		if max := s.config.Transcript.MaxDuration; max > 0 && duration > max {
			return nil, newError(KindTooLong,
				fmt.Sprintf("video runs %s, limit is %s", duration.Round(time.Second), max), nil)
		}
		result.Title = meta.Title
		result.Duration = duration
	}

	text, err := s.api.Fetch(ctx, videoID)
	if err == nil && text != "" {
		result.Text, result.Method = text, MethodAPI
		log.WithField("method", MethodAPI).Info("Transcript acquired")
		return result, nil
	}
	if KindOf(err) == KindUnavailable {
		return nil, err
	}
	log.WithError(err).Debug("Timedtext fetch failed, trying caption tracks")

	// Caption tracks come out of the metadata; fetch it fresh if the first
	// attempt failed, and skip straight to audio if it still will not come.
	var captionErr error
	if meta == nil {
		meta, err = s.metadata.FetchMetadata(ctx, url)
		if err != nil {
			if KindOf(err) == KindUnavailable {
				return nil, err
			}
			captionErr = err
			meta = nil
			log.WithError(err).Debug("Metadata still unavailable, skipping caption tracks")
		}
	}
	if meta != nil {
		text, err = s.captions.Fetch(ctx, meta)
		if err == nil && text != "" {
			result.Text, result.Method = text, MethodCaptions
			log.WithField("method", MethodCaptions).Info("Transcript acquired")
			return result, nil
		}
		captionErr = err
		log.WithError(err).Debug("Caption track fetch failed, trying audio transcription")
	}

	text, err = s.audio.Fetch(ctx, url, videoID)
	if err == nil && text != "" {
		result.Text, result.Method = text, MethodAudio
		log.WithField("method", MethodAudio).Info("Transcript acquired")
		return result, nil
	}
	if err == nil {
		err = newError(KindEmptyResponse, "audio transcription returned no text", nil)
	}

	log.WithFields(logrus.Fields{
		"caption_error": fmt.Sprint(captionErr),
		"audio_error":   err.Error(),
	}).Warn("All transcript adapters failed")

	// Keep the audio adapter's classification; it is the most specific
	// signal about why nothing worked.
	return nil, newError(KindOf(err),
		fmt.Sprintf("all transcript sources failed (captions: %v, audio: %v)", captionErr, err), err)
}
