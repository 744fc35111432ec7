package scrape

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"subclip"
	"subclip/extract"
)

// scanMetaTags parses the page and collects og:video meta tags, with their
// sibling og:video:width and og:video:height values when present.
func scanMetaTags(page string) []subclip.CandidateMedia {
	root, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil
	}

	var urls []string
	var width, height int
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "meta" {
			property, content := metaAttrs(n)
			switch property {
			case "og:video", "og:video:url", "og:video:secure_url":
				if content != "" {
					urls = append(urls, content)
				}
			case "og:video:width":
				width, _ = strconv.Atoi(content)
			case "og:video:height":
				height, _ = strconv.Atoi(content)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	seen := make(map[string]bool, len(urls))
	var out []subclip.CandidateMedia
	for _, u := range urls {
		u = extract.UnescapeURL(u)
		if seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, subclip.CandidateMedia{
			URL:          u,
			Width:        width,
			Height:       height,
			SourceMethod: "og_meta",
		})
	}
	return out
}

func metaAttrs(n *html.Node) (property, content string) {
	for _, a := range n.Attr {
		switch a.Key {
		case "property", "name":
			property = a.Val
		case "content":
			content = a.Val
		}
	}
	return
}
