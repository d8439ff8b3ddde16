// Package brief implements the core product flow: acquire content, generate
// a brief, persist it, and hand back a shareable result.
package brief

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"threadbrief/config"
	"threadbrief/errors"
	"threadbrief/llm"
	"threadbrief/models"
	"threadbrief/parse"
	"threadbrief/repository"
	"threadbrief/transcript"
	"threadbrief/utils"
	"threadbrief/validation"
)

// Pasted threads shorter than this cannot produce a useful brief.
const minPasteLen = 200

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
const idLen = 6

type transcriptFetcher interface {
	Fetch(ctx context.Context, url string) (*transcript.Result, error)
	Metadata(ctx context.Context, url string) (*transcript.VideoMetadata, error)
}

type generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Service struct {
	config      *config.Config
	validator   *validation.Validator
	transcripts transcriptFetcher
	generator   generator
	briefs      repository.BriefRepository
	rates       repository.RateRepository
}

func NewService(
	cfg *config.Config,
	transcripts *transcript.Service,
	gen *llm.Client,
	briefs repository.BriefRepository,
	rates repository.RateRepository,
) *Service {
	return &Service{
		config:      cfg,
		validator:   validation.NewValidator(cfg),
		transcripts: transcripts,
		generator:   gen,
		briefs:      briefs,
		rates:       rates,
	}
}

// Create runs the full brief pipeline for one request. The identity is the
// caller's rate-limit bucket, normally the client IP.
func (s *Service) Create(ctx context.Context, req *models.CreateBriefRequest, identity string) (*models.Brief, error) {
	const op = "BriefService.Create"

	req.ApplyDefaults()
	if err := s.validator.ValidateCreateRequest(req); err != nil {
		return nil, err
	}

	dayKey := utils.DayKey(time.Now())
	if s.config.RateLimit.Enabled {
		count, err := s.rates.Count(ctx, identity, dayKey)
		if err != nil {
			return nil, err
		}
		if count >= s.config.RateLimit.PerDay {
			return nil, errors.RateLimited(op, nil,
				fmt.Sprintf("Daily limit of %d briefs reached. Try again tomorrow.", s.config.RateLimit.PerDay))
		}
	}

	content, err := s.acquireContent(ctx, req)
	if err != nil {
		return nil, err
	}

	prompt := llm.BuildPrompt(content, req.SourceType, req.Mode, req.Length, req.OutputLanguage)

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		if llm.IsRateLimited(err) {
			return nil, errors.RateLimited(op, err, "The generation backend is rate limited. Try again in a minute.")
		}
		return nil, errors.Unavailable(op, err, "Brief generation failed. Try again shortly.")
	}

	parsed := parse.ParseBrief(raw)

	id, err := newBriefID()
	if err != nil {
		return nil, errors.Internal(op, err, "failed to generate brief id")
	}

	b := &models.Brief{
		ID:           id,
		ShareURL:     s.config.WebBaseURL + "/b/" + id,
		Title:        parsed.Title,
		Overview:     parsed.Overview,
		Bullets:      parsed.Bullets,
		WhyItMatters: parsed.WhyItMatters,
		Meta: models.BriefMeta{
			SourceType:     req.SourceType,
			Mode:           req.Mode,
			Length:         req.Length,
			OutputLanguage: req.OutputLanguage,
		},
		CreatedAt: time.Now().UTC(),
	}

	if err := s.briefs.Save(ctx, b); err != nil {
		return nil, err
	}

	// Usage counts only after a successful brief; failed attempts stay free.
	if s.config.RateLimit.Enabled {
		if err := s.rates.Increment(ctx, identity, dayKey); err != nil {
			logrus.WithError(err).WithField("identity", identity).
				Error("Failed to record brief usage")
		}
	}

	logrus.WithFields(logrus.Fields{
		"brief_id":    b.ID,
		"source_type": req.SourceType,
		"mode":        req.Mode,
		"length":      req.Length,
	}).Info("Brief created")

	return b, nil
}

// Get loads a previously created brief by its share id.
func (s *Service) Get(ctx context.Context, id string) (*models.Brief, error) {
	const op = "BriefService.Get"

	if id == "" {
		return nil, errors.InvalidInput(op, nil, "Brief id is required")
	}
	return s.briefs.Find(ctx, id)
}

// Metadata lookups spawn a yt-dlp process each, so they get their own daily
// allowance, counted separately from brief creation.
const videoMetaPerDay = 60

// VideoMeta returns duration and title for a YouTube URL so the client can
// warn about over-limit videos before submitting.
func (s *Service) VideoMeta(ctx context.Context, url, identity string) (*models.VideoMetaResponse, error) {
	const op = "BriefService.VideoMeta"

	if err := s.validator.ValidateURL(url); err != nil {
		return nil, err
	}

	if s.config.RateLimit.Enabled {
		dayKey := utils.DayKey(time.Now())
		count, err := s.rates.Count(ctx, "meta:"+identity, dayKey)
		if err != nil {
			return nil, err
		}
		if count >= videoMetaPerDay {
			return nil, errors.RateLimited(op, nil, "Daily limit of metadata lookups reached.")
		}
		if err := s.rates.Increment(ctx, "meta:"+identity, dayKey); err != nil {
			logrus.WithError(err).Error("Failed to record metadata lookup")
		}
	}

	meta, err := s.transcripts.Metadata(ctx, url)
	if err != nil {
		return nil, toAppError(op, err)
	}

	resp := &models.VideoMetaResponse{Title: meta.Title}
	if meta.Duration > 0 {
		secs := int(meta.Duration)
		mins := meta.Duration / 60
		resp.DurationSeconds = &secs
		resp.DurationMinutes = &mins
	}

	return resp, nil
}

func (s *Service) acquireContent(ctx context.Context, req *models.CreateBriefRequest) (string, error) {
	const op = "BriefService.acquireContent"

	switch req.SourceType {
	case models.SourceYouTube:
		if err := s.validator.ValidateURL(req.Source); err != nil {
			return "", err
		}
		res, err := s.transcripts.Fetch(ctx, req.Source)
		if err != nil {
			return "", toAppError(op, err)
		}
		return res.Text, nil

	case models.SourcePaste:
		text := utils.CleanPastedText(req.Source)
		if len(text) < minPasteLen {
			return "", errors.InvalidInput(op, nil,
				fmt.Sprintf("Pasted text is too short. Provide at least %d characters of content.", minPasteLen))
		}
		return text, nil

	default:
		return "", errors.InvalidInput(op, nil, fmt.Sprintf("Unsupported source type: %s", req.SourceType))
	}
}

// toAppError translates transcript failures into user-facing API errors.
func toAppError(op string, err error) error {
	switch transcript.KindOf(err) {
	case transcript.KindInvalidURL:
		return errors.InvalidInput(op, err, "Please enter a valid YouTube URL.")
	case transcript.KindTooLong:
		return errors.InvalidInput(op, err, "This video is too long to process.")
	case transcript.KindUnavailable:
		return errors.InvalidInput(op, err, "This video is unavailable or private.")
	default:
		return errors.Unavailable(op, err, "Could not get a transcript for this video. Try again later.")
	}
}

func newBriefID() (string, error) {
	buf := make([]byte, idLen)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = idAlphabet[int(buf[i])%len(idAlphabet)]
	}
	return string(buf), nil
}
