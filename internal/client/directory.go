package client

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"dgrsdt/journals/internal/config"
	"dgrsdt/journals/internal/domain"
	"dgrsdt/journals/internal/lookup"
	"dgrsdt/journals/internal/proxy"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// DirectoryClient opens HTTP sessions against the ranking directory. The
// rate limiter is shared by all sessions it opens.
type DirectoryClient struct {
	config        config.DirectoryConfig
	rl            ratelimit.Limiter
	timeout       time.Duration
	proxySupplier proxy.ProxySupplier
}

func NewDirectoryClient(cfg config.DirectoryConfig, proxySupplier proxy.ProxySupplier) *DirectoryClient {
	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &DirectoryClient{
		config:        cfg,
		rl:            rl,
		timeout:       timeout,
		proxySupplier: proxySupplier,
	}
}

// Open creates a session with its own HTTP client. Close releases it.
func (c *DirectoryClient) Open(ctx context.Context) (lookup.Session, error) {
	if c.config.CategoryAURL == "" || c.config.CategoryBURL == "" {
		return nil, fmt.Errorf("directory URLs are not configured")
	}

	httpClient := resty.New().
		SetTimeout(c.timeout).
		SetRetryCount(c.config.MaxRetries).
		SetRetryWaitTime(2*time.Second).
		SetRetryMaxWaitTime(10*time.Second).
		SetHeader("User-Agent", c.config.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "fr-FR,fr;q=0.9,en-US;q=0.8,en;q=0.5")

	if c.config.InsecureSkipVerify {
		httpClient.SetTLSClientConfig(&tls.Config{
			InsecureSkipVerify: true,
		})
	}

	if c.proxySupplier != nil {
		if proxyURL := c.proxySupplier.Get(); proxyURL != "" {
			httpClient.SetProxy(proxyURL)
			log.Debugf("🔗 Using proxy: %s", proxyURL)
		}
	}

	return &directorySession{
		config:     c.config,
		httpClient: httpClient,
		rl:         c.rl,
		timeout:    c.timeout,
		parser:     newDirectoryParser(c.config.Selectors),
	}, nil
}

type directorySession struct {
	config     config.DirectoryConfig
	httpClient *resty.Client
	rl         ratelimit.Limiter
	timeout    time.Duration
	parser     *directoryParser

	category     domain.Category
	categoryPage *goquery.Document  // Page of the loaded category
	page         *goquery.Document  // Page currently displayed
	scope        *goquery.Selection // Part of the page holding the active table
	query        string
	unavailable  error // Cause of the last failed SelectSubcategory
}

func (s *directorySession) LoadCategory(ctx context.Context, category domain.Category) error {
	var url string
	switch category {
	case domain.CategoryA:
		url = s.config.CategoryAURL
	case domain.CategoryB:
		url = s.config.CategoryBURL
	default:
		return domain.NewProviderError("load_category", category.String(), domain.ErrNavigation,
			fmt.Errorf("unknown category"))
	}

	s.reset()

	doc, err := s.fetchDocument(ctx, "load_category", url)
	if err != nil {
		return err
	}

	s.category = category
	s.categoryPage = doc
	s.page = doc
	s.scope = doc.Selection
	log.Debugf("Loaded %s from %s", category.GetCategoryName(), url)
	return nil
}

func (s *directorySession) SelectSubcategory(ctx context.Context, id domain.SubcategoryID) bool {
	s.unavailable = nil
	if s.categoryPage == nil || s.category != domain.CategoryB {
		s.unavailable = fmt.Errorf("%s is not loaded", domain.CategoryB.GetCategoryName())
		return false
	}

	categoryPage := s.categoryPage
	button := s.parser.SubcategoryButton(categoryPage, id)
	if button.Length() == 0 {
		s.unavailable = fmt.Errorf("button %s not found", id)
		return false
	}

	s.page = categoryPage
	s.scope = nil
	s.query = ""

	if panel := s.parser.SubcategoryPanel(categoryPage, button); panel != nil {
		s.scope = panel
		return true
	}

	if s.config.SubcategoryURL == "" {
		// The whole page would list every subcategory's journals under this one.
		s.unavailable = fmt.Errorf("button %s references no panel and directory.subcategory_url is not set", id)
		log.Warnf("⚠️ Subcategory %s has no table on the page, skipping", id)
		return false
	}

	doc, err := s.fetchDocument(ctx, "select_subcategory", fmt.Sprintf(s.config.SubcategoryURL, id))
	if err != nil {
		s.unavailable = err
		log.Debugf("Failed to open subcategory %s: %v", id, err)
		return false
	}
	s.page = doc
	s.scope = doc.Selection
	return true
}

// UnavailableReason explains the last SelectSubcategory call that returned
// false, when the cause is known.
func (s *directorySession) UnavailableReason() error {
	return s.unavailable
}

func (s *directorySession) SearchTitle(ctx context.Context, query string) error {
	if s.page == nil {
		return domain.NewProviderError("search_title", s.config.Selectors.SearchInput, domain.ErrMissingElement,
			fmt.Errorf("no page loaded"))
	}
	if !s.parser.HasSearchInput(s.page) {
		return domain.NewProviderError("search_title", s.config.Selectors.SearchInput, domain.ErrMissingElement, nil)
	}

	s.query = query
	return nil
}

func (s *directorySession) ListCandidateRows(ctx context.Context) ([]domain.CandidateRow, error) {
	if s.scope == nil {
		return nil, domain.NewProviderError("list_rows", s.config.Selectors.Row, domain.ErrMissingElement,
			fmt.Errorf("no page loaded"))
	}

	rows := FilterRows(s.parser.ParseRows(s.scope), s.query)
	log.Debugf("%d candidate rows for %q", len(rows), s.query)
	return rows, nil
}

func (s *directorySession) Close() error {
	s.reset()
	return s.httpClient.Close()
}

func (s *directorySession) reset() {
	s.category = ""
	s.categoryPage = nil
	s.page = nil
	s.scope = nil
	s.query = ""
	s.unavailable = nil
}

func (s *directorySession) fetchDocument(ctx context.Context, op, url string) (*goquery.Document, error) {
	html, err := s.fetchHTML(ctx, op, url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, domain.NewProviderError(op, url, domain.ErrNavigation, fmt.Errorf("failed to parse HTML: %w", err))
	}
	return doc, nil
}

func (s *directorySession) fetchHTML(ctx context.Context, op, url string) (string, error) {
	s.rl.Take()
	if err := ctx.Err(); err != nil {
		return "", domain.NewProviderError(op, url, domain.ErrNavigation, fmt.Errorf("request cancelled: %w", err))
	}

	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.httpClient.R().
		SetContext(reqCtx).
		Get(url)

	if err != nil {
		if ctx.Err() != nil {
			return "", domain.NewProviderError(op, url, domain.ErrNavigation, fmt.Errorf("request cancelled: %w", ctx.Err()))
		}
		if isTimeout(err) {
			return "", domain.NewProviderError(op, url, domain.ErrTimeout, err)
		}
		return "", domain.NewProviderError(op, url, domain.ErrNavigation, err)
	}

	if resp.IsError() {
		return "", domain.NewProviderError(op, url, domain.ErrNavigation,
			fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status()))
	}

	return resp.String(), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
