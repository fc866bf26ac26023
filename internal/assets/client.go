// Package assets looks up illustrative images for lesson concepts via
// the Freepik search API. Lookups are advisory: a missing key, timeout,
// or irrelevant result set all mean "no image", never an error.
package assets

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const searchEndpoint = "https://api.freepik.com/v1/resources"

// Client finds images for lesson concepts.
type Client interface {
	ImageForConcept(ctx context.Context, concept string) (string, bool)
}

// HTTPClient is the Freepik-backed implementation.
type HTTPClient struct {
	http    *resty.Client
	enabled bool
	log     *zap.Logger
}

// NewClient builds a client from LEARNAI_ASSETS_API_KEY. Without a key
// lookups always miss.
func NewClient(log *zap.Logger) *HTTPClient {
	if log == nil {
		log = zap.NewNop()
	}

	apiKey := os.Getenv("LEARNAI_ASSETS_API_KEY")

	http := resty.New().
		SetTimeout(10 * time.Second).
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		http.SetHeader("X-Freepik-API-Key", apiKey)
	}

	return &HTTPClient{http: http, enabled: apiKey != "", log: log}
}

// ImageForConcept searches for a relevant landscape image for the
// concept. Returns the image URL and whether one was found.
func (c *HTTPClient) ImageForConcept(ctx context.Context, concept string) (string, bool) {
	if c == nil || !c.enabled || concept == "" {
		return "", false
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":                 optimizeQuery(concept),
			"locale":                "en-US",
			"page":                  "1",
			"limit":                 "5",
			"order":                 "relevant",
			"filters[content_type]": "photo",
			"filters[orientation]":  "landscape",
		}).
		Get(searchEndpoint)
	if err != nil {
		c.log.Debug("asset search failed", zap.String("concept", concept), zap.Error(err))
		return "", false
	}
	if resp.StatusCode() != 200 {
		return "", false
	}

	var out searchResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", false
	}

	for _, item := range out.Data {
		url := item.Attributes.bestURL()
		if url != "" && isRelevant(item, concept) {
			return url, true
		}
	}
	return "", false
}

type searchResponse struct {
	Data []searchItem `json:"data"`
}

type searchItem struct {
	Attributes itemAttributes `json:"attributes"`
}

type itemAttributes struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Image       urlField `json:"image"`
	Preview     urlField `json:"preview"`
	Thumbnail   urlField `json:"thumbnail"`
	URL         string   `json:"url"`
}

type urlField struct {
	URL string `json:"url"`
}

// bestURL prefers the highest-quality image field available.
func (a itemAttributes) bestURL() string {
	for _, u := range []string{a.Image.URL, a.Preview.URL, a.Thumbnail.URL, a.URL} {
		if u != "" {
			return u
		}
	}
	return ""
}

// optimizeQuery appends illustrative keywords when the concept lacks
// them, which markedly improves result relevance for abstract topics.
func optimizeQuery(concept string) string {
	lower := strings.ToLower(concept)
	for _, kw := range []string{"diagram", "illustration", "concept", "education", "learning"} {
		if strings.Contains(lower, kw) {
			return concept
		}
	}
	switch {
	case strings.Contains(lower, "transformer") || strings.Contains(lower, "llm") || strings.Contains(lower, "neural"):
		return concept + " diagram illustration"
	case strings.Contains(lower, "agent") || strings.Contains(lower, "ai"):
		return concept + " illustration concept"
	case strings.Contains(lower, "fundamentals") || strings.Contains(lower, "basics"):
		return concept + " education learning"
	}
	return concept
}

// isRelevant checks the image metadata for terms from the concept.
// Images with no usable metadata are treated as relevant.
func isRelevant(item searchItem, concept string) bool {
	keywords := make([]string, 0, len(item.Attributes.Tags)+2)
	for _, kw := range append([]string{item.Attributes.Title, item.Attributes.Description}, item.Attributes.Tags...) {
		if kw != "" {
			keywords = append(keywords, strings.ToLower(kw))
		}
	}
	if len(keywords) == 0 {
		return true
	}

	for _, term := range strings.Fields(strings.ToLower(concept)) {
		if len(term) <= 3 {
			continue
		}
		for _, kw := range keywords {
			if strings.Contains(kw, term) {
				return true
			}
		}
	}
	return false
}

// Nop always misses. Used in tests and offline runs.
type Nop struct{}

func (Nop) ImageForConcept(context.Context, string) (string, bool) { return "", false }
