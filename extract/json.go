package extract

import (
	"sort"

	"subclip"
)

// Field-name aliases recognized at any nesting level. Deliberately excludes
// bare "url": too generic outside a video_versions entry.
var (
	videoURLKeys  = []string{"video_url", "playback_url", "playbackUrl", "contentUrl", "download_url"}
	shortcodeKeys = []string{"shortcode", "code", "short_code"}
)

// FromJSON walks a decoded JSON value of unknown shape and collects every
// candidate media URL it can find. When contentID is non-empty, objects that
// carry a shortcode for a different post are skipped, which keeps related
// and suggested posts out of the result. Candidates are returned sorted by
// pixel area, best first, with discovery order breaking ties.
func FromJSON(blob any, contentID string) []subclip.CandidateMedia {
	var out []subclip.CandidateMedia
	walkJSON(blob, contentID, &out)
	subclip.SortCandidates(out)
	return out
}

func walkJSON(v any, contentID string, out *[]subclip.CandidateMedia) {
	switch node := v.(type) {
	case map[string]any:
		collectFromObject(node, contentID, out)
		for _, key := range sortedKeys(node) {
			walkJSON(node[key], contentID, out)
		}
	case []any:
		for _, child := range node {
			walkJSON(child, contentID, out)
		}
	}
}

// collectFromObject pulls candidates out of a single JSON object: one from
// the first matching URL-field alias, plus one per video_versions entry.
func collectFromObject(node map[string]any, contentID string, out *[]subclip.CandidateMedia) {
	if contentID != "" {
		if sc := firstString(node, shortcodeKeys); sc != "" && sc != contentID {
			return
		}
	}

	for _, key := range videoURLKeys {
		u, ok := node[key].(string)
		if !ok || u == "" {
			continue
		}
		w, h := objectDimensions(node)
		*out = append(*out, subclip.CandidateMedia{
			URL:          UnescapeURL(u),
			Width:        w,
			Height:       h,
			SourceMethod: "field:" + key,
		})
		break
	}

	versions, ok := node["video_versions"].([]any)
	if !ok {
		return
	}
	for _, raw := range versions {
		version, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		u, ok := version["url"].(string)
		if !ok || u == "" {
			continue
		}
		*out = append(*out, subclip.CandidateMedia{
			URL:          UnescapeURL(u),
			Width:        intField(version, "width"),
			Height:       intField(version, "height"),
			SourceMethod: "video_versions",
		})
	}
}

// objectDimensions reads width and height from the object itself or from a
// nested "dimensions" object, whichever is present.
func objectDimensions(node map[string]any) (int, int) {
	w := intField(node, "video_width")
	h := intField(node, "video_height")
	if w == 0 && h == 0 {
		if dims, ok := node["dimensions"].(map[string]any); ok {
			w = intField(dims, "width")
			h = intField(dims, "height")
		}
	}
	return w, h
}

func firstString(node map[string]any, keys []string) string {
	for _, key := range keys {
		if s, ok := node[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func intField(node map[string]any, key string) int {
	switch n := node[key].(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return 0
}

func sortedKeys(node map[string]any) []string {
	keys := make([]string, 0, len(node))
	for key := range node {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
