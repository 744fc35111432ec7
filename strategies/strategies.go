// Package strategies assembles the standard strategy set in its intended
// order: cheap network lookups first, browser-based extraction after, raw
// capture last.
package strategies

import (
	"net/http"
	"time"

	"subclip"
	"subclip/strategy/browser"
	"subclip/strategy/direct"
	"subclip/strategy/resolver"
	"subclip/strategy/scrape"
	"subclip/webview"
)

// Network returns the strategies that only need an HTTP client. credentials
// may be nil, which leaves out the external resolver.
func Network(client *http.Client, credentials resolver.Credentials) []subclip.Strategy {
	out := []subclip.Strategy{
		direct.New(direct.Config{Client: client}),
		scrape.New(scrape.Config{Client: client}),
	}
	if credentials != nil {
		out = append(out, resolver.New(resolver.Config{Client: client, Credentials: credentials}))
	}
	return out
}

// Browser returns the strategies that drive an embedded browser.
func Browser(b *webview.Browser, timeout time.Duration) []subclip.Strategy {
	cfg := browser.Config{Browser: b, Timeout: timeout}
	return []subclip.Strategy{
		browser.NewDOMScan(cfg),
		browser.NewNetIntercept(cfg),
		browser.NewMediaBuffer(cfg),
		browser.NewCapture(cfg),
	}
}

// NewRegistry builds a registry from the given strategies, panicking on
// registration conflicts since those are programming errors.
func NewRegistry(strategies ...[]subclip.Strategy) *subclip.StrategyRegistry {
	registry := &subclip.StrategyRegistry{}
	for _, group := range strategies {
		for _, s := range group {
			registry.MustAdd(s)
		}
	}
	return registry
}
