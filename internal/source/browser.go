package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Browser errors.
var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to open page")
)

// Browser watches a live page in headless Chrome. The page is opened on the
// first call and its DOM is re-read on every later call, so scripts that
// insert the citation after load are picked up by polling.
// Rod downloads Chromium on first use if none is installed.
type Browser struct {
	URL string

	mu      sync.Mutex
	browser *rod.Browser
	page    *rod.Page
}

// NewBrowser creates a Browser source for url.
func NewBrowser(url string) *Browser {
	return &Browser{URL: url}
}

// Citation implements Source.
func (b *Browser) Citation(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.ensurePage(); err != nil {
		return "", err
	}

	html, err := b.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("reading page DOM: %w", err)
	}
	return FromHTML(strings.NewReader(html))
}

// ensurePage lazily launches the browser and opens the page.
func (b *Browser) ensurePage() error {
	if b.page != nil {
		return nil
	}

	if b.browser == nil {
		l := launcher.New()

		// Use pre-installed browser if specified (Docker/containerized environments)
		if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
			l = l.Bin(bin)
		}
		if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
			l = l.NoSandbox(true)
		}

		u, err := l.Launch()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
		}
		browser := rod.New().ControlURL(u)
		if err := browser.Connect(); err != nil {
			return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
		}
		b.browser = browser
	}

	page, err := b.browser.Page(proto.TargetCreateTarget{URL: b.URL})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	b.page = page
	return nil
}

// Close releases browser resources.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser == nil {
		return nil
	}
	err := b.browser.Close()
	b.browser = nil
	b.page = nil
	return err
}
