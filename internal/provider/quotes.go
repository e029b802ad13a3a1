package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/verte-zerg/speedforce/internal/engine"
)

// DefaultQuotesURL is the quotes API endpoint.
const DefaultQuotesURL = "https://api.api-ninjas.com/v1/quotes"

// APIKeyEnv names the environment variable holding the quotes API key.
const APIKeyEnv = "QUOTES_API_KEY"

const (
	defaultQuoteCount = 3
	defaultRate       = 2.0
	defaultTimeout    = 10 * time.Second
)

// ErrNoAPIKey is returned when the quotes provider has no API key.
var ErrNoAPIKey = errors.New("quotes api key is not set")

// QuotesOptions configures the quotes provider. Zero values use defaults.
type QuotesOptions struct {
	URL           string
	APIKey        string
	Count         int
	RatePerSecond float64
	Timeout       time.Duration
	Client        *http.Client
	Logger        *logrus.Entry
}

// Quotes fetches famous quotes over HTTP and trims them to the requested
// word count.
type Quotes struct {
	url     string
	apiKey  string
	count   int
	client  *http.Client
	limiter *rate.Limiter
	log     *logrus.Entry
}

var _ engine.TextProvider = (*Quotes)(nil)

type quoteItem struct {
	Quote  string `json:"quote"`
	Author string `json:"author"`
}

// NewQuotes builds a quotes provider.
func NewQuotes(opts QuotesOptions) *Quotes {
	url := lo.Ternary(opts.URL == "", DefaultQuotesURL, opts.URL)
	count := lo.Ternary(opts.Count > 0, opts.Count, defaultQuoteCount)
	perSecond := lo.Ternary(opts.RatePerSecond > 0, opts.RatePerSecond, defaultRate)
	client := opts.Client
	if client == nil {
		timeout := lo.Ternary(opts.Timeout > 0, opts.Timeout, defaultTimeout)
		client = &http.Client{Timeout: timeout}
	}
	log := opts.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Quotes{
		url:     url,
		apiKey:  opts.APIKey,
		count:   count,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
		log:     log,
	}
}

// Fetch implements engine.TextProvider.
func (q *Quotes) Fetch(ctx context.Context, req engine.TextRequest) (string, error) {
	if q.apiKey == "" {
		return "", ErrNoAPIKey
	}
	quotes := make([]string, 0, q.count)
	for i := 0; i < q.count; i++ {
		if err := q.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("failed to wait for quotes rate limit: %w", err)
		}
		quote, err := q.fetchOne(ctx)
		if err != nil {
			return "", err
		}
		if quote != "" {
			quotes = append(quotes, quote)
		}
	}

	words := strings.Fields(strings.Join(quotes, " "))
	if len(words) == 0 {
		return "", ErrEmptyText
	}
	if req.Words > 0 && len(words) > req.Words {
		words = words[:req.Words]
	}
	q.log.WithFields(logrus.Fields{"quotes": len(quotes), "words": len(words)}).Debug("fetched quotes")
	return strings.Join(words, " "), nil
}

func (q *Quotes) fetchOne(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, q.url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build quotes request: %w", err)
	}
	req.Header.Set("X-Api-Key", q.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := q.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch quote: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected quotes status: %s", resp.Status)
	}

	var items []quoteItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return "", fmt.Errorf("failed to decode quotes response: %w", err)
	}
	if len(items) == 0 {
		return "", nil
	}
	return strings.TrimSpace(items[0].Quote), nil
}
