package transcript

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"threadbrief/config"
)

// audioClient is the last-resort adapter: download the audio with yt-dlp and
// transcribe it locally with whisper. Slow and expensive, so the orchestrator
// only reaches it when every caption path failed.
type audioClient struct {
	config *config.Config
	ytdlp  *ytdlpClient
}

func newAudioClient(cfg *config.Config, ytdlp *ytdlpClient) *audioClient {
	return &audioClient{config: cfg, ytdlp: ytdlp}
}

// Fetch downloads the video's audio track and runs whisper over it.
func (c *audioClient) Fetch(ctx context.Context, url, videoID string) (string, error) {
	if c.config.Transcript.DisableAudio {
		return "", newError(KindAudioDisabled, "audio fallback is disabled by configuration", nil)
	}

	workDir, err := os.MkdirTemp("", "threadbrief-audio-*")
	if err != nil {
		return "", newError(KindToolFailed, "could not create work directory", err)
	}
	defer os.RemoveAll(workDir)

	audioPath, err := c.downloadAudio(ctx, url, workDir)
	if err != nil {
		return "", err
	}

	return c.transcribe(ctx, audioPath, workDir)
}

func (c *audioClient) downloadAudio(ctx context.Context, url, workDir string) (string, error) {
	args := []string{
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", "0",
		"--no-playlist",
		"--no-warnings",
		"-o", filepath.Join(workDir, "audio.%(ext)s"),
	}
	args = append(args, c.ytdlp.commonArgs()...)
	args = append(args, url)

	if _, err := runCommand(ctx, c.config.Transcript.DownloadTimeout, c.config.Transcript.YTDLPPath, args...); err != nil {
		return "", err
	}

	matches, err := filepath.Glob(filepath.Join(workDir, "audio.*"))
	if err != nil || len(matches) == 0 {
		return "", newError(KindToolFailed, "audio download produced no file", err)
	}

	// Post-processing can leave intermediate files behind; take the largest.
	best := matches[0]
	var bestSize int64
	for _, m := range matches {
		info, statErr := os.Stat(m)
		if statErr != nil {
			continue
		}
		if info.Size() > bestSize {
			best, bestSize = m, info.Size()
		}
	}

	logrus.WithFields(logrus.Fields{
		"file":       filepath.Base(best),
		"size_bytes": bestSize,
	}).Debug("Audio download complete")

	return best, nil
}

func (c *audioClient) transcribe(ctx context.Context, audioPath, workDir string) (string, error) {
	args := []string{
		audioPath,
		"--model", c.config.Transcript.WhisperModel,
		"--output_format", "txt",
		"--output_dir", workDir,
		"--task", "transcribe",
		"--fp16", "False",
	}
	if c.config.Transcript.WhisperLanguage != "" {
		args = append(args, "--language", c.config.Transcript.WhisperLanguage)
	}

	if _, err := runCommand(ctx, c.config.Transcript.WhisperTimeout, c.config.Transcript.WhisperPath, args...); err != nil {
		return "", err
	}

	text, err := readWhisperOutput(audioPath, workDir)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", newError(KindEmptyResponse, "whisper produced an empty transcript", nil)
	}

	return text, nil
}

// readWhisperOutput finds the transcript file whisper wrote next to the
// audio, falling back to any .txt in the work directory.
func readWhisperOutput(audioPath, workDir string) (string, error) {
	stem := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	expected := filepath.Join(workDir, stem+".txt")

	if data, err := os.ReadFile(expected); err == nil {
		return strings.TrimSpace(string(data)), nil
	}

	matches, err := filepath.Glob(filepath.Join(workDir, "*.txt"))
	if err != nil || len(matches) == 0 {
		return "", newError(KindToolFailed, "whisper produced no transcript file", err)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		return "", newError(KindToolFailed, "could not read whisper output", err)
	}

	return strings.TrimSpace(string(data)), nil
}
