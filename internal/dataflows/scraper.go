package dataflows

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/marketmind-ai/marketmind/config"
)

// NewsScraper is the fallback NewsProvider when no Finnhub key is configured.
// It scrapes Google News search results.
type NewsScraper struct {
	client     *resty.Client
	cache      *CacheManager
	maxResults int
}

func NewNewsScraper(cfg *config.Config) *NewsScraper {
	cacheDir := filepath.Join(cfg.DataCacheDir, "news_scraper")

	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", "Mozilla/5.0 (compatible; MarketMind/1.0)")

	return &NewsScraper{
		client:     client,
		cache:      NewCacheManager(cacheDir, 2*time.Hour, cfg.CacheEnabled),
		maxResults: 20,
	}
}

func (ns *NewsScraper) CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]*NewsArticle, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	cacheKey := map[string]any{
		"symbol": symbol,
		"from":   from.Format("2006-01-02"),
		"to":     to.Format("2006-01-02"),
	}
	var cached []*NewsArticle
	if ns.cache.Get("google_news", "company_news", cacheKey, &cached) {
		return cached, nil
	}

	searchURL := buildGoogleNewsURL(symbol+" stock", from, to)

	var result []*NewsArticle
	err := WithRetry(DefaultRetryConfig(), func() error {
		resp, err := ns.client.R().SetContext(ctx).Get(searchURL)
		if err != nil {
			return fmt.Errorf("fetch google news: %w", err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("HTTP error %d when fetching google news", resp.StatusCode())
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
		if err != nil {
			return fmt.Errorf("parse news HTML: %w", err)
		}

		result = parseGoogleNewsHTML(doc, symbol)
		if len(result) > ns.maxResults {
			result = result[:ns.maxResults]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ns.cache.Set("google_news", "company_news", cacheKey, result)
	return result, nil
}

func buildGoogleNewsURL(query string, from, to time.Time) string {
	q := query
	if !from.IsZero() && !to.IsZero() {
		q += fmt.Sprintf(" after:%s before:%s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	}
	return fmt.Sprintf("https://news.google.com/search?q=%s&hl=en&gl=US&ceid=US:en", url.QueryEscape(q))
}

func parseGoogleNewsHTML(doc *goquery.Document, symbol string) []*NewsArticle {
	var articles []*NewsArticle

	doc.Find("article").Each(func(i int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Find("h3").Text())
		if title == "" {
			title = strings.TrimSpace(s.Find("h4").Text())
		}
		if title == "" {
			return
		}

		href, exists := s.Find("a").First().Attr("href")
		if !exists {
			return
		}

		source := strings.TrimSpace(s.Find("div[data-n-tid]").Text())
		if source == "" {
			source = "Google News"
		}

		timeText := strings.TrimSpace(s.Find("time").Text())

		articles = append(articles, &NewsArticle{
			Title:       title,
			Content:     strings.TrimSpace(s.Find("span").Last().Text()),
			URL:         cleanGoogleNewsURL(href),
			Source:      source,
			PublishedAt: parseRelativeTime(timeText),
			Keywords:    []string{symbol},
			Metadata: map[string]string{
				"scraper":   "google_news",
				"time_text": timeText,
			},
		})
	})

	return articles
}

// cleanGoogleNewsURL strips the Google News redirect wrapper.
func cleanGoogleNewsURL(googleURL string) string {
	if strings.Contains(googleURL, "url=") {
		parts := strings.Split(googleURL, "url=")
		if len(parts) > 1 {
			if decoded, err := url.QueryUnescape(parts[1]); err == nil {
				return decoded
			}
		}
	}
	if strings.HasPrefix(googleURL, "./") {
		return "https://news.google.com" + googleURL[1:]
	}
	if strings.HasPrefix(googleURL, "/") {
		return "https://news.google.com" + googleURL
	}
	return googleURL
}

var (
	minuteRegex = regexp.MustCompile(`(\d+)\s*minutes?\s*ago`)
	hourRegex   = regexp.MustCompile(`(\d+)\s*hours?\s*ago`)
	dayRegex    = regexp.MustCompile(`(\d+)\s*days?\s*ago`)
)

// parseRelativeTime converts Google's relative timestamps. Unparseable text
// is treated as roughly an hour old.
func parseRelativeTime(timeText string) time.Time {
	now := time.Now()
	timeText = strings.ToLower(strings.TrimSpace(timeText))

	if timeText == "just now" {
		return now
	}
	if matches := minuteRegex.FindStringSubmatch(timeText); len(matches) > 1 {
		if n := parseNumber(matches[1]); n > 0 {
			return now.Add(-time.Duration(n) * time.Minute)
		}
	}
	if matches := hourRegex.FindStringSubmatch(timeText); len(matches) > 1 {
		if n := parseNumber(matches[1]); n > 0 {
			return now.Add(-time.Duration(n) * time.Hour)
		}
	}
	if matches := dayRegex.FindStringSubmatch(timeText); len(matches) > 1 {
		if n := parseNumber(matches[1]); n > 0 {
			return now.Add(-time.Duration(n) * 24 * time.Hour)
		}
	}
	return now.Add(-1 * time.Hour)
}

func parseNumber(s string) int {
	var result int
	fmt.Sscanf(s, "%d", &result)
	return result
}
