package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/dannav/hhmmss"
	"github.com/tidwall/gjson"
)

// ErrNoInitialData is returned when the results page carries no ytInitialData blob.
var ErrNoInitialData = errors.New("ytInitialData not found in results page")

const resultsURL = "https://www.youtube.com/results?search_query="

var initialDataRegex = regexp.MustCompile(`(?s)(?:var ytInitialData|window\["ytInitialData"\])\s*=\s*(\{.+?\});\s*</script>`)

// SearchResult is one video of a results page.
type SearchResult struct {
	ID       string
	Title    string
	Channel  string
	Duration time.Duration
}

// URL returns the watch link of the result.
func (r SearchResult) URL() string {
	return WatchURL(r.ID)
}

// String describes the result as "Title by Channel [3:45]".
// Unknown parts are left out.
func (r SearchResult) String() string {
	s := r.Title
	if r.Channel != "" {
		s += " by " + r.Channel
	}
	if r.Duration > 0 {
		s += " [" + formatLength(r.Duration) + "]"
	}
	return s
}

// formatLength renders d the way the results page shows it: m:ss, or
// h:mm:ss from one hour on.
func formatLength(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	h, m, sec := secs/3600, secs/60%60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}

// PageGetter fetches a page as text.
type PageGetter interface {
	GetString(ctx context.Context, url string) (string, error)
}

// Searcher queries the YouTube results page and reads the embedded
// ytInitialData JSON. No API key is needed.
type Searcher struct {
	client  PageGetter
	baseURL string
}

// NewSearcher creates a Searcher that fetches pages through client.
func NewSearcher(client PageGetter) *Searcher {
	return &Searcher{client: client, baseURL: resultsURL}
}

// Search returns at most limit videos for query, in ranking order.
// A limit of zero or less returns every video on the first page.
func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	page, err := s.client.GetString(ctx, s.baseURL+url.QueryEscape(query))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch search results: %w", err)
	}
	return ParseResults(page, limit)
}

// ParseResults extracts video results from a results page.
func ParseResults(page string, limit int) ([]SearchResult, error) {
	m := initialDataRegex.FindStringSubmatch(page)
	if m == nil {
		return nil, ErrNoInitialData
	}
	return collectResults(m[1], limit), nil
}

func collectResults(data string, limit int) []SearchResult {
	results := []SearchResult{}
	full := func() bool { return limit > 0 && len(results) >= limit }

	sections := gjson.Get(data, "contents.twoColumnSearchResultsRenderer.primaryContents.sectionListRenderer.contents")
	sections.ForEach(func(_, section gjson.Result) bool {
		section.Get("itemSectionRenderer.contents").ForEach(func(_, item gjson.Result) bool {
			video := item.Get("videoRenderer")
			if !video.Exists() || video.Get("videoId").String() == "" {
				return true
			}

			result := SearchResult{
				ID:      video.Get("videoId").String(),
				Title:   video.Get("title.runs.0.text").String(),
				Channel: video.Get("ownerText.runs.0.text").String(),
			}
			if length := video.Get("lengthText.simpleText").String(); length != "" {
				if d, err := hhmmss.Parse(length); err == nil {
					result.Duration = d
				}
			}
			results = append(results, result)
			return !full()
		})
		return !full()
	})

	return results
}
