package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

// sparseTextChars is the extracted-text length under which a page is taken to
// be filled in by scripts.
const sparseTextChars = 500

// settleDelay lets tab panels finish loading after they are expanded.
const settleDelay = 2 * time.Second

// needsRender reports whether extracted text is too thin to hold requirements.
func needsRender(text string) bool {
	return len(strings.TrimSpace(text)) < sparseTextChars
}

// renderFunc returns the browser-rendered HTML of url after clicking every
// expand selector present on the page.
type renderFunc func(ctx context.Context, url string, expand []string, timeout time.Duration) (string, error)

// renderChrome drives a headless Chrome. Chrome or Chromium must be installed.
func renderChrome(ctx context.Context, url string, expand []string, timeout time.Duration) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, timeout)
	defer cancelTimeout()

	var html string
	actions := []chromedp.Action{
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	for _, sel := range expand {
		actions = append(actions, clickIfPresent(sel))
	}
	actions = append(actions,
		chromedp.Sleep(settleDelay),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)

	if err := chromedp.Run(tabCtx, actions...); err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}
	return html, nil
}

// clickIfPresent clicks the first node matching sel, if any.
func clickIfPresent(sel string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		var nodes []*cdp.Node
		if err := chromedp.Nodes(sel, &nodes, chromedp.ByQuery, chromedp.AtLeast(0)).Do(ctx); err != nil {
			return err
		}
		if len(nodes) == 0 {
			return nil
		}
		return chromedp.MouseClickNode(nodes[0]).Do(ctx)
	})
}
