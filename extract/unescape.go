package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var unicodeEscapeRe = regexp.MustCompile(`\\u([0-9a-fA-F]{4})`)

// UnescapeURL turns a URL lifted out of JSON-in-HTML back into its literal
// form. Order matters: unicode hex escapes first (backslash-u0026 -> &), then
// escaped slashes, then HTML entity ampersands.
func UnescapeURL(s string) string {
	s = decodeUnicodeEscapes(s)
	s = strings.ReplaceAll(s, `\/`, "/")
	s = strings.ReplaceAll(s, `\`, "")
	s = strings.ReplaceAll(s, "&amp;", "&")
	return s
}

// unescapeManifest decodes the JSON-string-escaped XML of an embedded DASH
// manifest so that tags like <BaseURL> become matchable.
func unescapeManifest(s string) string {
	s = decodeUnicodeEscapes(s)
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\/`, "/")
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, `\\`, `\`)
	return s
}

func decodeUnicodeEscapes(s string) string {
	return unicodeEscapeRe.ReplaceAllStringFunc(s, func(m string) string {
		code, err := strconv.ParseUint(m[2:], 16, 32)
		if err != nil {
			return m
		}
		return string(rune(code))
	})
}
