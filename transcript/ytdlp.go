package transcript

import (
	"context"
	"encoding/json"
	"strings"

	"threadbrief/config"
)

// CaptionTrack is one downloadable subtitle variant from yt-dlp metadata.
type CaptionTrack struct {
	Ext  string `json:"ext"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

// VideoMetadata is the subset of the yt-dlp info JSON the service needs.
type VideoMetadata struct {
	ID                string                    `json:"id"`
	Title             string                    `json:"title"`
	Duration          float64                   `json:"duration"`
	Subtitles         map[string][]CaptionTrack `json:"subtitles"`
	AutomaticCaptions map[string][]CaptionTrack `json:"automatic_captions"`
}

type ytdlpClient struct {
	config *config.Config
}

func newYtdlpClient(cfg *config.Config) *ytdlpClient {
	return &ytdlpClient{config: cfg}
}

// commonArgs returns the flags shared by every yt-dlp invocation:
// cookies and proxy wiring from config.
func (c *ytdlpClient) commonArgs() []string {
	var args []string
	if c.config.Transcript.Cookies != "" {
		args = append(args, "--cookies", c.config.Transcript.Cookies)
	}
	if proxy := NormalizeProxy(c.config.Transcript.Proxy); proxy != "" {
		args = append(args, "--proxy", proxy)
	}
	return args
}

// FetchMetadata runs yt-dlp in dump-json mode without downloading media.
func (c *ytdlpClient) FetchMetadata(ctx context.Context, url string) (*VideoMetadata, error) {
	args := []string{
		"--dump-single-json",
		"--skip-download",
		"--no-warnings",
		"--no-playlist",
	}
	args = append(args, c.commonArgs()...)
	args = append(args, url)

	out, err := runCommand(ctx, c.config.Transcript.MetadataTimeout, c.config.Transcript.YTDLPPath, args...)
	if err != nil {
		if strings.Contains(err.Error(), "Video unavailable") ||
			strings.Contains(err.Error(), "Private video") ||
			strings.Contains(err.Error(), "This video is not available") {
			return nil, newError(KindUnavailable, "video is unavailable", err)
		}
		return nil, err
	}

	var meta VideoMetadata
	if err := json.Unmarshal(out, &meta); err != nil {
		return nil, newError(KindToolFailed, "could not parse video metadata", err)
	}

	return &meta, nil
}

// NormalizeProxy converts the provider "host:port:user:pass" convention into
// a proxy URL yt-dlp accepts. Values that already carry a scheme, or that do
// not split into exactly four fields, pass through unchanged.
func NormalizeProxy(proxy string) string {
	if proxy == "" || strings.Contains(proxy, "://") {
		return proxy
	}

	parts := strings.Split(proxy, ":")
	if len(parts) != 4 {
		return proxy
	}

	host, port, user, pass := parts[0], parts[1], parts[2], parts[3]
	return "http://" + quoteComponent(user) + ":" + quoteComponent(pass) + "@" + host + ":" + port
}

// quoteComponent percent-encodes a userinfo component, escaping everything
// outside the unreserved set so credentials containing ':' or '@' survive.
func quoteComponent(s string) string {
	const upperhex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
			c == '-' || c == '.' || c == '_' || c == '~' {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0xf])
	}
	return b.String()
}
