// Package scraper fetches product listings from the Jiji marketplace.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"shopassist/internal/config"
	"shopassist/internal/model"
)

// ErrBadStatus is wrapped by fetch errors caused by a non-200 response
var ErrBadStatus = errors.New("unexpected response status")

// Card selectors are tried in order; the first one with any hit wins.
var cardSelectors = []string{
	"div.b-list-advert__item",
	`div[data-testid="advert-list-item"]`,
	"div.qa-advert-list-item",
	"article",
	"div.advert-card",
}

// JijiClient scrapes search result pages
type JijiClient struct {
	baseURL       string
	userAgent     string
	retries       int
	retryInterval time.Duration
	httpClient    *http.Client
	limiter       *rate.Limiter
	logger        zerolog.Logger
}

// NewJijiClient creates a new scraping client
func NewJijiClient(cfg config.ScraperConfig, logger zerolog.Logger) *JijiClient {
	limit := rate.Inf
	if cfg.RequestDelay > 0 {
		limit = rate.Every(cfg.RequestDelay)
	}

	return &JijiClient{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:     cfg.UserAgent,
		retries:       cfg.RetryAttempts,
		retryInterval: 500 * time.Millisecond,
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		limiter:       rate.NewLimiter(limit, 1),
		logger:        logger.With().Str("component", "scraper").Logger(),
	}
}

// Search returns up to maxResults products for query. Search pages are tried
// in order until one yields products. When every page fails to load, sample
// products are returned so the conversation can continue.
func (c *JijiClient) Search(ctx context.Context, query string, maxResults int) ([]model.Product, error) {
	urls := c.searchURLs(query)
	failures := 0

	for _, u := range urls {
		doc, err := c.fetch(ctx, u)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			c.logger.Warn().Err(err).Str("url", u).Msg("search page failed")
			failures++
			continue
		}

		products := ParseProducts(doc, c.baseURL, maxResults)
		if len(products) > 0 {
			c.logger.Debug().Str("url", u).Int("count", len(products)).Msg("products scraped")
			return products, nil
		}
	}

	if failures == len(urls) {
		c.logger.Warn().Str("query", query).Msg("all search pages failed, using sample products")
		return SampleProducts(query), nil
	}
	return []model.Product{}, nil
}

func (c *JijiClient) searchURLs(query string) []string {
	q := url.QueryEscape(query)
	return []string{
		c.baseURL + "/search?query=" + q,
		c.baseURL + "/ghana/cars/all-cars?query=" + q,
		c.baseURL + "/ghana/mobile-phones?query=" + q,
	}
}

// fetch downloads and parses one page, retrying transient failures
func (c *JijiClient) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	var doc *goquery.Document

	operation := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.5")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			statusErr := fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return backoff.Permanent(statusErr)
			}
			return statusErr
		}

		doc, err = goquery.NewDocumentFromReader(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to parse html: %w", err)
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.retries)), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseProducts extracts product cards from a search result page
func ParseProducts(doc *goquery.Document, baseURL string, maxResults int) []model.Product {
	var cards *goquery.Selection
	for _, selector := range cardSelectors {
		if found := doc.Find(selector); found.Length() > 0 {
			cards = found
			break
		}
	}

	products := []model.Product{}
	if cards == nil {
		return products
	}

	cards.EachWithBreak(func(i int, card *goquery.Selection) bool {
		if len(products) >= maxResults {
			return false
		}
		products = append(products, parseCard(card, baseURL))
		return true
	})
	return products
}

func parseCard(card *goquery.Selection, baseURL string) model.Product {
	product := model.Product{
		Title:    "Product Title",
		Link:     "#",
		Price:    "Price on request",
		Location: "Ghana",
	}

	if title := firstMatch(card, "a.b-list-advert__item__title", "h3", "a"); title != nil {
		product.Title = cleanText(title.Text())
	}

	if link := card.Find("a[href]").First(); link.Length() > 0 {
		href, _ := link.Attr("href")
		if strings.HasPrefix(href, "http") {
			product.Link = href
		} else {
			product.Link = baseURL + href
		}
	}

	price := firstMatch(card, "div.b-list-advert__item__price", "span.qa-advert-price")
	if price == nil {
		found := card.Find("div").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return s.Children().Length() == 0 && strings.Contains(s.Text(), "₵")
		}).First()
		if found.Length() > 0 {
			price = found
		}
	}
	if price != nil {
		product.Price = CleanPrice(price.Text())
	}

	if location := firstMatch(card, "div.b-list-advert__item__location", "span.qa-advert-location"); location != nil {
		product.Location = cleanText(location.Text())
	}

	return product
}

func firstMatch(s *goquery.Selection, selectors ...string) *goquery.Selection {
	for _, selector := range selectors {
		if found := s.Find(selector).First(); found.Length() > 0 {
			return found
		}
	}
	return nil
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CleanPrice normalises whitespace and adds the GH₵ prefix when a bare number is given
func CleanPrice(text string) string {
	price := cleanText(text)
	if price == "" {
		return "Price not available"
	}

	if strings.Contains(strings.ToLower(price), "gh₵") || strings.Contains(price, "₵") {
		return price
	}
	if strings.IndexFunc(price, unicode.IsDigit) >= 0 {
		return "GH₵ " + price
	}
	return price
}

// SampleProducts is the fallback listing used when the marketplace is unreachable
func SampleProducts(query string) []model.Product {
	return []model.Product{
		{
			Title:    "Samsung Galaxy S20 Ultra 128GB - " + query,
			Price:    "GH₵ 4,200",
			Link:     "https://jiji.com.gh/sample-product-1",
			Location: "Accra, Greater Accra",
		},
		{
			Title:    "Samsung Galaxy S20 Ultra 256GB - " + query,
			Price:    "GH₵ 4,800",
			Link:     "https://jiji.com.gh/sample-product-2",
			Location: "Kumasi, Ashanti",
		},
		{
			Title:    "Samsung Galaxy S20 Ultra (Used) - " + query,
			Price:    "GH₵ 3,500",
			Link:     "https://jiji.com.gh/sample-product-3",
			Location: "Tema, Greater Accra",
		},
	}
}

// SampleSource serves SampleProducts without touching the network
type SampleSource struct{}

// Search returns the sample listing, truncated to maxResults
func (SampleSource) Search(ctx context.Context, query string, maxResults int) ([]model.Product, error) {
	products := SampleProducts(query)
	if maxResults > 0 && len(products) > maxResults {
		products = products[:maxResults]
	}
	return products, nil
}
