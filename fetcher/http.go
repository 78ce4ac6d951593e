package fetcher

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/sdmp3/sdmp3/source"
)

var audioTypes = map[string]string{
	"audio/mpeg":   "mp3",
	"audio/mp3":    "mp3",
	"audio/mp4":    "m4a",
	"audio/x-m4a":  "m4a",
	"audio/aac":    "aac",
	"audio/webm":   "webm",
	"audio/ogg":    "ogg",
	"audio/opus":   "opus",
	"audio/flac":   "flac",
	"audio/x-flac": "flac",
	"audio/wav":    "wav",
	"audio/x-wav":  "wav",
}

// HTTP serves direct media URLs such as those returned by custom Lua providers.
type HTTP struct {
	Client *http.Client
}

func (h *HTTP) Name() string {
	return "http"
}

func (h *HTTP) Supports(locator string) bool {
	u, err := url.Parse(locator)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (h *HTTP) Open(ctx context.Context, locator string) (*source.Stream, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, err
	}

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	extension, err := extensionOf(resp)
	if err != nil {
		resp.Body.Close()
		return nil, err
	}

	return &source.Stream{
		Body:      resp.Body,
		Extension: extension,
		Size:      resp.ContentLength,
	}, nil
}

// extensionOf derives the container from the Content-Type, falling back to the URL path.
func extensionOf(resp *http.Response) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))

	if ext, ok := audioTypes[mediaType]; ok {
		return ext, nil
	}

	fromPath := strings.TrimPrefix(path.Ext(resp.Request.URL.Path), ".")

	switch {
	case mediaType == "" || mediaType == "application/octet-stream":
		if fromPath == "" {
			return "", fmt.Errorf("cannot tell the audio format of %s", resp.Request.URL)
		}
		return strings.ToLower(fromPath), nil
	case strings.HasPrefix(mediaType, "audio/"):
		if fromPath != "" {
			return strings.ToLower(fromPath), nil
		}
		return strings.TrimPrefix(mediaType, "audio/"), nil
	default:
		return "", fmt.Errorf("%s is not playable media (%s)", resp.Request.URL, mediaType)
	}
}
