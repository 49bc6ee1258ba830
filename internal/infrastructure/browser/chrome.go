package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"

	"PriceScanner/internal/config"
)

const (
	stableRounds     = 3
	cookieWait       = 2 * time.Second
	loadMoreWait     = 25 * time.Second
	pollInterval     = 250 * time.Millisecond
	defaultWaitCards = 30 * time.Second
)

var cookieLabels = []string{"tout accepter", "accepter", "j'accepte", "ok"}

// PageOptions describes how one catalog page is rendered to completion.
type PageOptions struct {
	// ActivateURL, when set, is visited first in the same tab. Store-scoped
	// catalogs (Carrefour drive) bind prices to the store via session state,
	// so the store page must load before the category page.
	ActivateURL string
	// WaitVisible is the selector that must appear before extraction starts.
	WaitVisible string
	// CardSelector counts visible product cards; it drives scroll/pagination
	// stabilization.
	CardSelector string
	// LoadMore labels ("Produits suivants") are clicked until the button
	// disappears or stops producing new cards.
	LoadMore []string
	// NextPage labels ("Suivante") advance classic pagination; each page
	// yields its own HTML snapshot.
	NextPage []string
	// MaxPages caps next-page style pagination; zero falls back to config.
	MaxPages int
}

// Session drives a headless Chrome tab for one scrape run.
type Session struct {
	cfg    config.BrowserConfig
	logger *slog.Logger
}

// NewSession wires browser settings; logger may be nil.
func NewSession(cfg config.BrowserConfig, logger *slog.Logger) *Session {
	return &Session{cfg: cfg, logger: logger}
}

// FetchPages renders pageURL, dismisses the cookie banner, scrolls lazy-loaded
// content in, exhausts load-more buttons, and walks next-page pagination.
// It returns one HTML snapshot per rendered view.
func (s *Session) FetchPages(ctx context.Context, pageURL string, opts PageOptions) ([]string, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, s.allocatorOptions()...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	if opts.ActivateURL != "" && opts.ActivateURL != pageURL {
		activateCtx, cancelActivate := context.WithTimeout(tabCtx, s.cfg.PageTimeout)
		err := chromedp.Run(activateCtx, chromedp.Navigate(opts.ActivateURL))
		cancelActivate()
		if err != nil {
			return nil, fmt.Errorf("activate %s: %w", opts.ActivateURL, err)
		}
		s.dismissCookieBanner(tabCtx)
		s.debug("store context activated", "url", opts.ActivateURL)
	}

	navCtx, cancelNav := context.WithTimeout(tabCtx, s.cfg.PageTimeout)
	defer cancelNav()
	if err := chromedp.Run(navCtx, chromedp.Navigate(pageURL)); err != nil {
		return nil, fmt.Errorf("navigate %s: %w", pageURL, err)
	}

	s.dismissCookieBanner(tabCtx)

	if opts.WaitVisible != "" {
		waitCtx, cancelWait := context.WithTimeout(tabCtx, defaultWaitCards)
		err := chromedp.Run(waitCtx, chromedp.WaitVisible(opts.WaitVisible, chromedp.ByQuery))
		cancelWait()
		if err != nil {
			return nil, fmt.Errorf("wait for %s on %s: %w", opts.WaitVisible, pageURL, err)
		}
	}

	s.scrollToStabilize(tabCtx, opts.CardSelector)

	if len(opts.LoadMore) > 0 {
		for i := 0; i < s.cfg.LoadMoreClicks; i++ {
			if !s.clickAndAwaitNewCards(tabCtx, opts.LoadMore, opts.CardSelector) {
				break
			}
			s.debug("load more", "round", i+1, "cards", s.countCards(tabCtx, opts.CardSelector))
			s.scrollToStabilize(tabCtx, opts.CardSelector)
		}
	}

	html, err := s.snapshot(tabCtx)
	if err != nil {
		return nil, err
	}
	pages := []string{html}

	if len(opts.NextPage) > 0 {
		maxPages := opts.MaxPages
		if maxPages <= 0 {
			maxPages = s.cfg.MaxPages
		}
		for page := 1; page < maxPages; page++ {
			if !s.clickAndAwaitNewCards(tabCtx, opts.NextPage, opts.CardSelector) {
				break
			}
			s.scrollToStabilize(tabCtx, opts.CardSelector)
			html, err := s.snapshot(tabCtx)
			if err != nil {
				return nil, err
			}
			pages = append(pages, html)
			s.debug("next page", "page", page+1)
		}
	}

	return pages, nil
}

func (s *Session) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", s.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1920, 1080),
	)
	if s.cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(s.cfg.UserAgent))
	}
	return opts
}

// dismissCookieBanner clicks the first consent button whose label matches;
// best effort, failures are ignored.
func (s *Session) dismissCookieBanner(ctx context.Context) {
	clickCtx, cancel := context.WithTimeout(ctx, cookieWait)
	defer cancel()

	var clicked bool
	script := clickByLabelScript(cookieLabels)
	if err := chromedp.Run(clickCtx, chromedp.Evaluate(script, &clicked)); err != nil {
		return
	}
	if clicked {
		s.debug("cookie banner dismissed")
		time.Sleep(800 * time.Millisecond)
	}
}

// scrollToStabilize scrolls to the bottom until the visible card count stops
// growing for three consecutive rounds.
func (s *Session) scrollToStabilize(ctx context.Context, cardSelector string) {
	if cardSelector == "" {
		return
	}

	last := s.countCards(ctx, cardSelector)
	stable := 0
	for i := 0; i < s.cfg.ScrollRounds; i++ {
		_ = chromedp.Run(ctx, chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil))
		time.Sleep(s.cfg.ScrollPause)

		current := s.countCards(ctx, cardSelector)
		if current <= last {
			stable++
		} else {
			stable = 0
		}
		last = current
		if stable >= stableRounds {
			break
		}
	}
}

// clickAndAwaitNewCards clicks the first enabled button/link matching one of
// the labels, then waits for the card count to grow. Returns false when no
// button was found, the button was disabled, or no new cards showed up.
func (s *Session) clickAndAwaitNewCards(ctx context.Context, labels []string, cardSelector string) bool {
	before := s.countCards(ctx, cardSelector)

	var clicked bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(clickByLabelScript(labels), &clicked)); err != nil || !clicked {
		return false
	}

	deadline := time.Now().Add(loadMoreWait)
	for time.Now().Before(deadline) {
		if ctx.Err() != nil {
			return false
		}
		if s.countCards(ctx, cardSelector) > before {
			return true
		}
		time.Sleep(pollInterval)
	}
	return false
}

func (s *Session) countCards(ctx context.Context, selector string) int {
	if selector == "" {
		return 0
	}
	var count int
	script := fmt.Sprintf(`document.querySelectorAll(%q).length`, selector)
	if err := chromedp.Run(ctx, chromedp.Evaluate(script, &count)); err != nil {
		return 0
	}
	return count
}

func (s *Session) snapshot(ctx context.Context) (string, error) {
	var html string
	if err := chromedp.Run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("capture page source: %w", err)
	}
	return html, nil
}

// clickByLabelScript builds a snippet that finds the first enabled button or
// link whose text or aria-label matches one of the labels and clicks it.
// Labels of one or two characters ("ok") must match the whole text; longer
// ones match as substrings. The substring rule would otherwise fire "ok"
// inside the word "cookies".
func clickByLabelScript(labels []string) string {
	encoded, _ := json.Marshal(labels)
	return fmt.Sprintf(`(() => {
	const labels = %s.map(l => l.toLowerCase());
	const candidates = document.querySelectorAll('button, a');
	for (const el of candidates) {
		const text = ((el.textContent || '') + ' ' + (el.getAttribute('aria-label') || '')).trim().toLowerCase();
		if (!labels.some(l => l.length > 2 ? text.includes(l) : text === l)) continue;
		if (el.disabled || el.getAttribute('aria-disabled') === 'true') return false;
		el.scrollIntoView({block: 'center'});
		el.click();
		return true;
	}
	return false;
})()`, encoded)
}

func (s *Session) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
