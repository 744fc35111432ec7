package webview

import (
	_ "embed"
	"strings"
)

// Page scripts injected by the browser strategies. Each is standalone and
// communicates only through postMessage, so they can run at document start
// without any page cooperation.
var (
	//go:embed scripts/domscan.js
	DOMScanScript string

	//go:embed scripts/netintercept.js
	NetInterceptScript string

	//go:embed scripts/mediabuffer.js
	MediaBufferScript string

	//go:embed scripts/capture.js
	CaptureScript string
)

// WithShortcode substitutes the target post's shortcode into a script so it
// can filter out media belonging to other posts.
func WithShortcode(script, shortcode string) string {
	return strings.ReplaceAll(script, "__SHORTCODE__", shortcode)
}
