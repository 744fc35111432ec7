package extract

import (
	"regexp"
	"strconv"

	"subclip"
)

// Ordered by reliability: named JSON fields beat a generic .mp4 sweep, and
// the DASH manifest is a last resort. The first pattern that matches anything
// wins; later patterns are not attempted.
var textPatterns = []struct {
	name string
	re   *regexp.Regexp
}{
	{"video_url_pattern", regexp.MustCompile(`"video_url"\s*:\s*"([^"]+)"`)},
	{"playback_url_pattern", regexp.MustCompile(`"playbackUrl"\s*:\s*"([^"]*\.mp4[^"]*)"`)},
	{"content_url_pattern", regexp.MustCompile(`"contentUrl"\s*:\s*"([^"]+)"`)},
	{"mp4_pattern", regexp.MustCompile(`https?://[^\s"'<>\\]+\.mp4[^\s"'<>\\]*`)},
}

var (
	dashManifestRe = regexp.MustCompile(`"video_dash_manifest"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	baseURLRe      = regexp.MustCompile(`<BaseURL>([^<]+)</BaseURL>`)
	dimensionsRe   = regexp.MustCompile(`"dimensions"\s*:\s*\{\s*"height"\s*:\s*(\d+)\s*,\s*"width"\s*:\s*(\d+)`)
)

// dimensionLookahead bounds how far past a video_url match we search for the
// sibling "dimensions" object.
const dimensionLookahead = 2000

// FromText scans raw page markup for candidate media URLs. It handles both
// JSON embedded in script tags and plain attribute values, which is why it
// works on pattern matching rather than a JSON decode.
func FromText(text string) []subclip.CandidateMedia {
	for _, pattern := range textPatterns {
		matches := pattern.re.FindAllStringSubmatchIndex(text, -1)
		if len(matches) == 0 {
			continue
		}
		out := make([]subclip.CandidateMedia, 0, len(matches))
		for _, m := range matches {
			start, end := m[0], m[1]
			if len(m) >= 4 {
				start, end = m[2], m[3]
			}
			c := subclip.CandidateMedia{
				URL:          UnescapeURL(text[start:end]),
				SourceMethod: pattern.name,
			}
			if pattern.name == "video_url_pattern" {
				c.Width, c.Height = dimensionsNear(text, m[1])
			}
			out = append(out, c)
		}
		subclip.SortCandidates(out)
		return out
	}
	return manifestCandidates(text)
}

// manifestCandidates decodes an embedded DASH manifest and returns its
// BaseURL entries in document order, which lists the highest quality first.
func manifestCandidates(text string) []subclip.CandidateMedia {
	m := dashManifestRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	manifest := unescapeManifest(m[1])
	urls := baseURLRe.FindAllStringSubmatch(manifest, -1)
	out := make([]subclip.CandidateMedia, 0, len(urls))
	for _, u := range urls {
		out = append(out, subclip.CandidateMedia{
			URL:          UnescapeURL(u[1]),
			SourceMethod: "dash_manifest",
		})
	}
	return out
}

// dimensionsNear looks for a "dimensions" object within a short window after
// offset, where GraphQL responses place it relative to video_url.
func dimensionsNear(text string, offset int) (int, int) {
	end := offset + dimensionLookahead
	if end > len(text) {
		end = len(text)
	}
	m := dimensionsRe.FindStringSubmatch(text[offset:end])
	if m == nil {
		return 0, 0
	}
	h, _ := strconv.Atoi(m[1])
	w, _ := strconv.Atoi(m[2])
	return w, h
}
