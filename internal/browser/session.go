// Owns the one scarce resource in the whole pipeline: a live browser
// automation context. One Session drives one sequential crawl; callers
// detect deadness with IsAlive and swap the guts out with Rebuild without
// losing records already collected.

package browser

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/playwright-community/playwright-go"
)

type Options struct {
	Headless       bool
	TimeoutSeconds int
	SkipChallenge  bool
	CookiesPath    string
}

type Session struct {
	opts    Options
	pw      *playwright.Playwright
	browser playwright.Browser
	ctx     playwright.BrowserContext
	page    playwright.Page
}

// Acquire launches a browser and opens one page. Fingerprint suppression is
// applied best-effort: if the init script fails the session is still usable.
func Acquire(opts Options) (*Session, error) {
	if opts.TimeoutSeconds <= 0 {
		opts.TimeoutSeconds = 30
	}
	s := &Session{opts: opts}
	if err := s.start(); err != nil {
		return nil, fmt.Errorf("session init: %w", err)
	}
	return s, nil
}

func (s *Session) start() error {
	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(s.opts.Headless),
		Args: []string{
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--disable-blink-features=AutomationControlled",
		},
	})
	if err != nil {
		pw.Stop()
		return fmt.Errorf("launch chromium: %w", err)
	}

	ctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(userAgent),
		Viewport:  &playwright.Size{Width: 1920, Height: 1080},
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return fmt.Errorf("new context: %w", err)
	}
	ctx.SetDefaultTimeout(float64(s.opts.TimeoutSeconds) * 1000)

	//stealth is best-effort, a failure here is not fatal
	if err := applyStealth(ctx); err != nil {
		log.Printf("⚠️ Could not apply stealth script: %v", err)
	}

	//cookie warm-start, absence is fine
	if s.opts.CookiesPath != "" {
		if n, err := loadCookiesInto(ctx, s.opts.CookiesPath); err == nil && n > 0 {
			log.Printf("🍪 Loaded %d cookies from %s", n, s.opts.CookiesPath)
		}
	}

	page, err := ctx.NewPage()
	if err != nil {
		ctx.Close()
		browser.Close()
		pw.Stop()
		return fmt.Errorf("new page: %w", err)
	}

	s.pw, s.browser, s.ctx, s.page = pw, browser, ctx, page
	return nil
}

// Page returns the session's main page.
func (s *Session) Page() playwright.Page {
	return s.page
}

// NewPage opens an extra tab in the same context (detail fetches).
func (s *Session) NewPage() (playwright.Page, error) {
	return s.ctx.NewPage()
}

// IsAlive reports whether the session can still drive the browser.
func (s *Session) IsAlive() bool {
	if s.browser == nil || !s.browser.IsConnected() {
		return false
	}
	if s.page == nil || s.page.IsClosed() {
		return false
	}
	return true
}

// Rebuild tears down the dead session and starts a fresh one. In-flight page
// state is lost; collected records live with the caller and survive.
func (s *Session) Rebuild() error {
	log.Println("💥 Rebuilding browser session...")
	s.Close()
	return s.start()
}

// AwaitChallenge blocks until a human confirms the on-screen challenge is
// solved. Headless/automated runs set SkipChallenge and accept degraded
// (possibly zero) results instead of hanging forever.
func (s *Session) AwaitChallenge(prompt string) {
	if s.opts.SkipChallenge || s.opts.Headless {
		log.Println("⏭️ Challenge pause skipped (automated run)")
		return
	}
	fmt.Printf("🔐 %s Press Enter to continue...\n", prompt)
	reader := bufio.NewReader(os.Stdin)
	_, _ = reader.ReadString('\n')
}

// Close releases every browser resource. Safe to call on an already-dead
// session; every exit path of a run must end up here.
func (s *Session) Close() {
	if s.page != nil && !s.page.IsClosed() {
		_ = s.page.Close()
	}
	if s.ctx != nil {
		_ = s.ctx.Close()
	}
	if s.browser != nil {
		_ = s.browser.Close()
	}
	if s.pw != nil {
		_ = s.pw.Stop()
	}
	s.page, s.ctx, s.browser, s.pw = nil, nil, nil, nil
}

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/140.0.0.0 Safari/537.36"

// IsFatal reports whether err means the session itself is gone, as opposed
// to a single selector or navigation failing. Fatal errors are the only ones
// the locator fallback chain propagates.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"target closed",
		"target page, context or browser has been closed",
		"browser has been closed",
		"browser closed",
		"connection closed",
		"websocket: close",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
