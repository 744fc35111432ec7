package subclip

import (
	"net/url"
	"regexp"
	"strings"

	"subclip/generic"
)

// The two known host aliases; any subdomain of either counts.
var knownHosts = generic.NewSet(
	"instagram.com",
	"instagr.am",
)

// Path segments that can never be a bare username.
var reservedSegments = generic.NewSet(
	"p",
	"reel",
	"tv",
	"stories",
	"explore",
)

// Ordered content-id patterns; the first match wins.
var contentPatterns = []struct {
	re     *regexp.Regexp
	idPart int
}{
	{regexp.MustCompile(`^/reel/([A-Za-z0-9_-]+)`), 1},
	{regexp.MustCompile(`^/p/([A-Za-z0-9_-]+)`), 1},
	{regexp.MustCompile(`^/tv/([A-Za-z0-9_-]+)`), 1},
	{regexp.MustCompile(`^/stories/([A-Za-z0-9_.]+)/([0-9]+)`), 2},
}

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9._]{1,30}$`)

// Classify parses a user-entered URL into a ContentReference. It has no side
// effects. A URL on an unrecognized domain fails with ErrInvalidURL; a URL on a
// known domain whose path matches no known shape classifies as KindUnknown,
// which callers must treat as "do not process further".
func Classify(rawURL string) (ContentReference, error) {
	ref := ContentReference{SourceURL: rawURL, Kind: KindUnknown}

	normalized := strings.TrimSpace(rawURL)
	if !strings.Contains(normalized, "://") {
		normalized = "https://" + normalized
	}
	parsed, err := url.Parse(normalized)
	if err != nil {
		return ref, ErrInvalidURL
	}
	if !isKnownHost(parsed.Hostname()) {
		return ref, ErrInvalidURL
	}

	path := parsed.EscapedPath()
	for _, p := range contentPatterns {
		if m := p.re.FindStringSubmatch(path); m != nil {
			ref.Kind = KindVideo
			ref.ContentID = m[p.idPart]
			if p.idPart == 2 {
				ref.Username = m[1]
			}
			return ref, nil
		}
	}

	// A bare single-segment path that isn't a reserved word is a profile.
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) == 1 && segments[0] != "" {
		name := segments[0]
		if !reservedSegments.Contains(strings.ToLower(name)) && usernameRe.MatchString(name) {
			ref.Kind = KindProfile
			ref.Username = name
			return ref, nil
		}
	}

	return ref, nil
}

func isKnownHost(host string) bool {
	host = strings.ToLower(host)
	for _, known := range knownHosts.ToSlice() {
		if host == known || strings.HasSuffix(host, "."+known) {
			return true
		}
	}
	return false
}
