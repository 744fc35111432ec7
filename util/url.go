package util

import (
	"net/url"
	"path"
	"strings"
)

// ExtFromURL extracts a file extension (without the dot) from a URL's path,
// ignoring query and fragment. CDN media URLs carry heavy query strings but a
// clean path, so this is reliable where naive string splitting is not.
// Returns fallback when the path has no extension or the URL does not parse.
func ExtFromURL(rawURL string, fallback string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fallback
	}
	ext := strings.TrimPrefix(path.Ext(parsed.Path), ".")
	if ext == "" {
		return fallback
	}
	return ext
}
