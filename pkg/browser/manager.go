// Package browser owns the playwright lifecycle for the browser
// navigator: one driver, one browser, one page per process. The manager
// starts lazily on first use so non-browser runs never pay the launch
// cost.
package browser

import (
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/testzeus/hercules/pkg/config"
)

// Manager wraps a single playwright page. Methods are serialized by an
// internal mutex: the browser navigator executes strictly sequentially,
// and a single page is not safe for concurrent driving anyway.
type Manager struct {
	cfg config.BrowserConfig

	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
}

// NewManager creates an unstarted manager.
func NewManager(cfg config.BrowserConfig) *Manager {
	return &Manager{cfg: cfg}
}

// ensurePage launches the driver, browser, and page on first use.
// Caller holds mu.
func (m *Manager) ensurePage() (playwright.Page, error) {
	if m.page != nil {
		return m.page, nil
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright driver: %w", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(m.cfg.Headless),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("launching browser: %w", err)
	}
	page, err := browser.NewPage()
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("opening page: %w", err)
	}
	page.SetDefaultTimeout(float64(m.cfg.Timeout().Milliseconds()))

	m.pw = pw
	m.browser = browser
	m.page = page
	return m.page, nil
}

// Goto navigates to the URL and waits for the load event.
func (m *Manager) Goto(url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	page, err := m.ensurePage()
	if err != nil {
		return err
	}
	_, err = page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	})
	if err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

// Click clicks the first element matching the selector.
func (m *Manager) Click(selector string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	page, err := m.ensurePage()
	if err != nil {
		return err
	}
	if err := page.Locator(selector).First().Click(); err != nil {
		return fmt.Errorf("clicking %q: %w", selector, err)
	}
	return nil
}

// Fill clears and types into the first element matching the selector.
func (m *Manager) Fill(selector, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	page, err := m.ensurePage()
	if err != nil {
		return err
	}
	if err := page.Locator(selector).First().Fill(value); err != nil {
		return fmt.Errorf("filling %q: %w", selector, err)
	}
	return nil
}

// TextContent returns the text content of the first matching element, or
// of the page body when the selector is empty.
func (m *Manager) TextContent(selector string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	page, err := m.ensurePage()
	if err != nil {
		return "", err
	}
	if selector == "" {
		selector = "body"
	}
	text, err := page.Locator(selector).First().TextContent()
	if err != nil {
		return "", fmt.Errorf("reading text of %q: %w", selector, err)
	}
	return text, nil
}

// Screenshot captures a full-page screenshot to path.
func (m *Manager) Screenshot(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	page, err := m.ensurePage()
	if err != nil {
		return err
	}
	_, err = page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("capturing screenshot: %w", err)
	}
	return nil
}

// CurrentURL reports the page's current location. Empty when the browser
// has not been started yet.
func (m *Manager) CurrentURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.page == nil {
		return ""
	}
	return m.page.URL()
}

// Close tears down the page, browser, and driver. Safe to call when never
// started.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	if m.browser != nil {
		if err := m.browser.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		m.browser = nil
		m.page = nil
	}
	if m.pw != nil {
		if err := m.pw.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
		m.pw = nil
	}
	return firstErr
}
