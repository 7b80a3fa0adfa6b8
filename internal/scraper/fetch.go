// Package scraper acquires champion, trait, and team-comp reference data
// from mobafire and writes it through the game data store. Pages are fetched
// over plain HTTP; a rod-driven headless browser is available as a fallback
// for pages that only render under JavaScript.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"golang.org/x/net/html"

	"tftnerd/internal/logging"
)

const maxPageBytes = 2 << 20

// Fetcher retrieves and parses HTML pages.
type Fetcher struct {
	client     *http.Client
	userAgent  string
	useBrowser bool

	browser *rod.Browser
	cleanup func()
}

// NewFetcher creates a fetcher. When useBrowser is set, Fetch falls back to
// a headless browser whenever the plain HTTP response looks unrendered.
func NewFetcher(timeout time.Duration, userAgent string, useBrowser bool) *Fetcher {
	return &Fetcher{
		client:     &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		useBrowser: useBrowser,
	}
}

// Fetch retrieves url and returns the parsed document.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*html.Node, error) {
	body, err := f.fetchHTTP(ctx, url)
	if err != nil {
		if !f.useBrowser {
			return nil, err
		}
		logging.ScraperWarn("http fetch of %s failed (%v), trying browser", url, err)
		body, err = f.fetchBrowser(ctx, url)
		if err != nil {
			return nil, err
		}
	}
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: HTTP %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", url, err)
	}
	return string(body), nil
}

// fetchBrowser renders url in a headless browser and returns the final HTML.
// The browser is launched lazily and reused across calls; Close tears it down.
func (f *Fetcher) fetchBrowser(ctx context.Context, url string) (string, error) {
	if f.browser == nil {
		l := launcher.New().Headless(true)
		controlURL, err := l.Launch()
		if err != nil {
			return "", fmt.Errorf("launch browser: %w", err)
		}
		browser := rod.New().ControlURL(controlURL)
		if err := browser.Connect(); err != nil {
			l.Cleanup()
			return "", fmt.Errorf("connect browser: %w", err)
		}
		f.browser = browser
		f.cleanup = l.Cleanup
	}

	page, err := f.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return "", fmt.Errorf("create page: %w", err)
	}
	defer page.Close()

	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("wait load %s: %w", url, err)
	}
	content, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("read page %s: %w", url, err)
	}
	return content, nil
}

// Close shuts down the headless browser if one was launched.
func (f *Fetcher) Close() {
	if f.browser != nil {
		_ = f.browser.Close()
		f.browser = nil
	}
	if f.cleanup != nil {
		f.cleanup()
		f.cleanup = nil
	}
}

// HTML traversal helpers. mobafire markup is class-heavy, so selection is
// class and id matching over the x/net/html node tree.

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// findAll collects every element node under root matching pred, in document
// order. Matched nodes are still descended into.
func findAll(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && pred(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

// findFirst returns the first element node under root matching pred.
func findFirst(root *html.Node, pred func(*html.Node) bool) *html.Node {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && pred(n) {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return found
}

func byClass(tag, class string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return (tag == "" || n.Data == tag) && hasClass(n, class)
	}
}

func byID(id string) func(*html.Node) bool {
	return func(n *html.Node) bool { return attrVal(n, "id") == id }
}

// textContent flattens all text under n into one space-trimmed string.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

// imgStem returns the file name of an image source without its extension,
// which is how trait names are encoded in the markup.
func imgStem(src string) string {
	base := path.Base(src)
	return strings.TrimSuffix(base, path.Ext(base))
}
