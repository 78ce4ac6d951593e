package youtube

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/kkdai/youtube/v2"
	"github.com/samber/lo"
	"github.com/sdmp3/sdmp3/log"
	"github.com/sdmp3/sdmp3/source"
)

var errNoAudio = errors.New("no audio-only format available")

var (
	videoID = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	hosts   = []string{"youtube.com", "www.youtube.com", "m.youtube.com", "music.youtube.com", "youtu.be"}
)

// Backend opens audio streams for YouTube watch URLs and bare video ids.
type Backend struct {
	client *youtube.Client
}

// NewBackend returns a backend downloading through httpClient.
func NewBackend(httpClient *http.Client) *Backend {
	return &Backend{client: &youtube.Client{HTTPClient: httpClient}}
}

func (b *Backend) Name() string {
	return Name
}

// Supports accepts bare video ids and URLs on YouTube hosts.
func (b *Backend) Supports(locator string) bool {
	if videoID.MatchString(locator) {
		return true
	}

	u, err := url.Parse(locator)
	if err != nil || u.Host == "" {
		return false
	}

	if !lo.Contains(hosts, strings.ToLower(u.Hostname())) && !sameHost(u, BaseURL) {
		return false
	}

	_, err = youtube.ExtractVideoID(locator)
	return err == nil
}

func sameHost(u *url.URL, base string) bool {
	b, err := url.Parse(base)
	return err == nil && b.Host == u.Host
}

// Open negotiates the audio-only format with the highest bitrate.
func (b *Backend) Open(ctx context.Context, locator string) (*source.Stream, error) {
	video, err := b.client.GetVideoContext(ctx, locator)
	if err != nil {
		return nil, fmt.Errorf("video metadata: %w", err)
	}

	format, err := bestAudio(video.Formats)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", video.ID, err)
	}

	log.WithFields(log.Fields{
		"video":   video.ID,
		"mime":    format.MimeType,
		"bitrate": format.Bitrate,
	}).Debug("selected audio format")

	body, size, err := b.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}

	return &source.Stream{
		Body:      body,
		Extension: extensionFor(format.MimeType),
		Size:      size,
	}, nil
}

// bestAudio picks the audio-only format with the highest bitrate.
func bestAudio(formats youtube.FormatList) (*youtube.Format, error) {
	audio := lo.Filter(formats, func(f youtube.Format, _ int) bool {
		return strings.HasPrefix(f.MimeType, "audio/") && f.AudioChannels > 0
	})

	if len(audio) == 0 {
		return nil, errNoAudio
	}

	best := lo.MaxBy(audio, func(a, b youtube.Format) bool {
		return bitrate(a) > bitrate(b)
	})

	return &best, nil
}

func bitrate(f youtube.Format) int {
	if f.Bitrate > 0 {
		return f.Bitrate
	}
	return f.AverageBitrate
}

// extensionFor maps a container mime type to a file extension.
func extensionFor(mimeType string) string {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		mediaType = strings.TrimSpace(strings.Split(mimeType, ";")[0])
	}

	switch mediaType {
	case "audio/mp4":
		return "m4a"
	case "audio/webm":
		return "webm"
	case "audio/mpeg":
		return "mp3"
	default:
		if ext, ok := strings.CutPrefix(mediaType, "audio/"); ok && ext != "" {
			return ext
		}
		return "audio"
	}
}
