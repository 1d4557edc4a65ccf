package cdp

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/browser"
	cdpproto "github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
)

// Client is the slice of the DevTools protocol the backend needs. Every call is
// browser-level: no page session is ever attached, so nothing here can close a
// tab as a side effect of detaching.
type Client interface {
	Targets(ctx context.Context) ([]*target.Info, error)
	WindowForTarget(ctx context.Context, id target.ID) (browser.WindowID, *browser.Bounds, error)
	SetWindowState(ctx context.Context, w browser.WindowID, state browser.WindowState) error
	CreateTarget(ctx context.Context, url string) (target.ID, error)
	CloseTarget(ctx context.Context, id target.ID) error
	ActivateTarget(ctx context.Context, id target.ID) error
}

// remoteClient runs commands against a browser reached through its DevTools endpoint.
type remoteClient struct {
	browser *chromedp.Browser
}

// connect dials the endpoint. Listing targets allocates the browser connection
// without opening a tab.
func connect(browserCtx context.Context) (*remoteClient, error) {
	if _, err := chromedp.Targets(browserCtx); err != nil {
		return nil, fmt.Errorf("connect to devtools endpoint: %w", err)
	}
	c := chromedp.FromContext(browserCtx)
	if c == nil || c.Browser == nil {
		return nil, fmt.Errorf("connect to devtools endpoint: %w", chromedp.ErrInvalidContext)
	}
	return &remoteClient{browser: c.Browser}, nil
}

func (c *remoteClient) exec(ctx context.Context) context.Context {
	return cdpproto.WithExecutor(ctx, c.browser)
}

func (c *remoteClient) Targets(ctx context.Context) ([]*target.Info, error) {
	return target.GetTargets().Do(c.exec(ctx))
}

func (c *remoteClient) WindowForTarget(ctx context.Context, id target.ID) (browser.WindowID, *browser.Bounds, error) {
	return browser.GetWindowForTarget().WithTargetID(id).Do(c.exec(ctx))
}

func (c *remoteClient) SetWindowState(ctx context.Context, w browser.WindowID, state browser.WindowState) error {
	return browser.SetWindowBounds(w, &browser.Bounds{WindowState: state}).Do(c.exec(ctx))
}

func (c *remoteClient) CreateTarget(ctx context.Context, url string) (target.ID, error) {
	return target.CreateTarget(url).Do(c.exec(ctx))
}

func (c *remoteClient) CloseTarget(ctx context.Context, id target.ID) error {
	return target.CloseTarget(id).Do(c.exec(ctx))
}

func (c *remoteClient) ActivateTarget(ctx context.Context, id target.ID) error {
	return target.ActivateTarget(id).Do(c.exec(ctx))
}
