// Package collector implements the site collector: a bounded, best-effort,
// same-host crawl that produces the context text fed to the content
// generator.
package collector

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	colly "github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/queue"

	"github.com/jonesrussell/contentagent/internal/config"
	"github.com/jonesrussell/contentagent/internal/logger"
)

// skipPrefixes are link prefixes that never lead to crawlable pages.
var skipPrefixes = []string{"#", "javascript:", "mailto:", "tel:"}

// frontierCapacity bounds the in-memory crawl frontier. Far more than the
// page cap ever needs, but AddURL fails loudly instead of blocking if a page
// is unusually link-dense.
const frontierCapacity = 10000

// Collector crawls a fixed origin breadth-first and extracts visible text.
// A fully failed crawl yields an empty context; it never returns an error.
type Collector struct {
	cfg config.CrawlConfig
	log logger.Logger
}

// New creates a Collector with the given crawl settings.
func New(cfg config.CrawlConfig, log logger.Logger) *Collector {
	return &Collector{cfg: cfg, log: log}
}

// Collect crawls starting at origin, visiting at most MaxPages distinct URLs
// on the origin's host with Delay between requests, and returns the visible
// text of the first ContextPages successfully fetched pages, newline-joined.
func (c *Collector) Collect(ctx context.Context, origin string) string {
	u, err := url.Parse(origin)
	if err != nil || u.Hostname() == "" {
		c.log.Warn("Invalid crawl origin, continuing without context",
			logger.String("origin", origin),
			logger.Error(err),
		)
		return ""
	}

	co := colly.NewCollector()

	if limitErr := co.Limit(&colly.LimitRule{
		DomainGlob: "*",
		Delay:      c.cfg.Delay,
	}); limitErr != nil {
		c.log.Warn("Failed to set crawl rate limit", logger.Error(limitErr))
	}

	// A single-consumer FIFO queue gives breadth-first order; the collector
	// itself still deduplicates already-visited URLs at request time.
	frontier, err := queue.New(1, &queue.InMemoryQueueStorage{MaxSize: frontierCapacity})
	if err != nil {
		c.log.Warn("Failed to create crawl frontier, continuing without context", logger.Error(err))
		return ""
	}

	var (
		visited int
		pages   []string
	)

	co.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil || visited >= c.cfg.MaxPages {
			r.Abort()
			return
		}
		visited++
		c.log.Debug("Fetching page",
			logger.String("url", r.URL.String()),
			logger.Int("visited", visited),
		)
	})

	co.OnHTML("html", func(e *colly.HTMLElement) {
		pages = append(pages, visibleText(e.DOM))
	})

	co.OnHTML("a[href]", func(e *colly.HTMLElement) {
		link := e.Attr("href")
		if link == "" || shouldSkipLink(link) {
			return
		}
		absolute := e.Request.AbsoluteURL(link)
		if !sameOrigin(absolute, u) {
			return
		}
		_ = frontier.AddURL(absolute)
	})

	co.OnError(func(r *colly.Response, visitErr error) {
		c.log.Warn("Page fetch failed, continuing crawl",
			logger.String("url", r.Request.URL.String()),
			logger.Int("status", r.StatusCode),
			logger.Error(visitErr),
		)
	})

	if addErr := frontier.AddURL(origin); addErr != nil {
		c.log.Warn("Failed to enqueue crawl origin", logger.Error(addErr))
	}
	if runErr := frontier.Run(co); runErr != nil {
		c.log.Warn("Crawl failed, continuing with collected pages",
			logger.String("origin", origin),
			logger.Error(runErr),
		)
	}

	c.log.Info("Crawl finished",
		logger.String("origin", origin),
		logger.Int("pages_visited", visited),
		logger.Int("pages_collected", len(pages)),
	)

	if len(pages) > c.cfg.ContextPages {
		pages = pages[:c.cfg.ContextPages]
	}
	return strings.Join(pages, "\n")
}

// sameOrigin reports whether a URL shares the origin's scheme and host,
// including the port. The crawl never leaves the origin.
func sameOrigin(rawURL string, origin *url.URL) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Scheme == origin.Scheme && u.Host == origin.Host
}

// shouldSkipLink reports whether a link can never lead to a crawlable page.
func shouldSkipLink(link string) bool {
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(link, prefix) {
			return true
		}
	}
	return false
}

// visibleText extracts the human-visible text of a page with whitespace
// collapsed to single spaces.
func visibleText(doc *goquery.Selection) string {
	doc.Find("script, style, noscript").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}
