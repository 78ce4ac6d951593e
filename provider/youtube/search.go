// Package youtube searches YouTube and streams the best audio-only format of a video.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/buger/jsonparser"
	"github.com/sdmp3/sdmp3/source"
)

const (
	Name = "youtube"
	ID   = "youtube builtin"

	// videos only
	searchFilter = "EgIQAQ=="
	dataPrefix   = "var ytInitialData = "
)

// BaseURL is the YouTube origin used for search and watch URLs.
var BaseURL = "https://www.youtube.com"

var errNoInitialData = errors.New("search page carries no ytInitialData")

// Source scrapes the YouTube results page.
type Source struct {
	client *http.Client
}

// NewSource returns a search source using client.
func NewSource(client *http.Client) *Source {
	return &Source{client: client}
}

func (s *Source) Name() string {
	return Name
}

func (s *Source) ID() string {
	return ID
}

// Search returns the videos of the first results page in YouTube's own order.
func (s *Source) Search(ctx context.Context, query string) ([]*source.Candidate, error) {
	params := url.Values{}
	params.Set("search_query", query)
	params.Set("sp", searchFilter)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, BaseURL+"/results?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	// skips the EU consent interstitial
	req.AddCookie(&http.Cookie{Name: "CONSENT", Value: "YES+1"})

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube search: unexpected status %s", resp.Status)
	}

	data, err := initialData(resp.Body)
	if err != nil {
		return nil, err
	}

	candidates, err := parseResults(data)
	if err != nil {
		return nil, err
	}

	for _, c := range candidates {
		c.Source = s
	}

	return candidates, nil
}

// initialData extracts the ytInitialData JSON object embedded in the page.
func initialData(page io.Reader) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(page)
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}

	var data []byte
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if !strings.HasPrefix(text, dataPrefix) {
			return true
		}

		data = []byte(strings.TrimSuffix(strings.TrimPrefix(text, dataPrefix), ";"))
		return false
	})

	if data == nil {
		return nil, errNoInitialData
	}

	return data, nil
}

// parseResults walks the search renderer tree, keeping only plain video results.
func parseResults(data []byte) ([]*source.Candidate, error) {
	sections, _, _, err := jsonparser.Get(data,
		"contents", "twoColumnSearchResultsRenderer", "primaryContents",
		"sectionListRenderer", "contents",
	)
	if err != nil {
		return nil, fmt.Errorf("search results layout: %w", err)
	}

	var candidates []*source.Candidate

	_, err = jsonparser.ArrayEach(sections, func(section []byte, _ jsonparser.ValueType, _ int, _ error) {
		items, _, _, err := jsonparser.Get(section, "itemSectionRenderer", "contents")
		if err != nil {
			return
		}

		_, _ = jsonparser.ArrayEach(items, func(item []byte, _ jsonparser.ValueType, _ int, _ error) {
			video, _, _, err := jsonparser.Get(item, "videoRenderer")
			if err != nil {
				return
			}

			candidate, ok := parseVideo(video)
			if !ok {
				return
			}

			candidate.Index = uint16(len(candidates))
			candidates = append(candidates, candidate)
		})
	})

	if err != nil {
		return nil, fmt.Errorf("search results layout: %w", err)
	}

	return candidates, nil
}

func parseVideo(video []byte) (*source.Candidate, bool) {
	id, err := jsonparser.GetString(video, "videoId")
	if err != nil || id == "" {
		return nil, false
	}

	title, err := jsonparser.GetString(video, "title", "runs", "[0]", "text")
	if err != nil {
		title, _ = jsonparser.GetString(video, "title", "simpleText")
	}
	if title == "" {
		return nil, false
	}

	length, _ := jsonparser.GetString(video, "lengthText", "simpleText")

	return &source.Candidate{
		Title:    title,
		URL:      WatchURL(id),
		ID:       id,
		Duration: parseLength(length),
	}, true
}

// WatchURL returns the canonical watch page of a video id.
func WatchURL(id string) string {
	return BaseURL + "/watch?v=" + url.QueryEscape(id)
}

// parseLength converts "3:45" or "1:02:03" into a duration, returning zero when malformed.
func parseLength(text string) time.Duration {
	if text == "" {
		return 0
	}

	var total time.Duration
	for _, part := range strings.Split(text, ":") {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0
		}
		total = total*60 + time.Duration(n)
	}

	return total * time.Second
}
