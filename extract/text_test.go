package extract

import (
	"testing"

	assert_ "github.com/stretchr/testify/assert"
)

func TestFromTextVideoURLField(t *testing.T) {
	assert := assert_.New(t)

	page := `<script>{"shortcode_media":{"video_url":"https:\/\/cdn.example\/v.mp4?sig=a&x=1",` +
		`"dimensions":{"height":1280,"width":720}}}</script>`
	out := FromText(page)
	assert.Len(out, 1)
	assert.Equal("https://cdn.example/v.mp4?sig=a&x=1", out[0].URL)
	assert.Equal(720, out[0].Width)
	assert.Equal(1280, out[0].Height)
	assert.Equal("video_url_pattern", out[0].SourceMethod)
}

func TestFromTextPatternOrder(t *testing.T) {
	assert := assert_.New(t)

	// video_url outranks contentUrl even when both are present.
	page := `{"contentUrl":"https://cdn.example/low.mp4","video_url":"https://cdn.example/high.mp4"}`
	out := FromText(page)
	assert.Len(out, 1)
	assert.Equal("https://cdn.example/high.mp4", out[0].URL)
	assert.Equal("video_url_pattern", out[0].SourceMethod)
}

func TestFromTextContentURL(t *testing.T) {
	assert := assert_.New(t)

	page := `<script type="application/ld+json">{"contentUrl":"https://cdn.example/v.mp4"}</script>`
	out := FromText(page)
	assert.Len(out, 1)
	assert.Equal("content_url_pattern", out[0].SourceMethod)
}

func TestFromTextGenericMP4(t *testing.T) {
	assert := assert_.New(t)

	page := `<video src="https://cdn.example/clip.mp4?efg=xyz"></video>`
	out := FromText(page)
	assert.Len(out, 1)
	assert.Equal("https://cdn.example/clip.mp4?efg=xyz", out[0].URL)
	assert.Equal("mp4_pattern", out[0].SourceMethod)
}

func TestFromTextDashManifest(t *testing.T) {
	assert := assert_.New(t)

	page := `{"video_dash_manifest":"<MPD><BaseURL>` +
		`https:\/\/cdn.example\/hq.mp4<\/BaseURL><BaseURL>` +
		`https:\/\/cdn.example\/lq.mp4<\/BaseURL><\/MPD>"}`
	out := FromText(page)
	assert.Len(out, 2)
	assert.Equal("https://cdn.example/hq.mp4", out[0].URL)
	assert.Equal("https://cdn.example/lq.mp4", out[1].URL)
	assert.Equal("dash_manifest", out[0].SourceMethod)
}

func TestFromTextNothing(t *testing.T) {
	assert := assert_.New(t)
	assert.Empty(FromText("<html><body>login required</body></html>"))
}

func TestUnescapeURL(t *testing.T) {
	assert := assert_.New(t)
	assert.Equal("https://a/b?x=1&y=2", UnescapeURL(`https:\/\/a\/b?x=1&y=2`))
	assert.Equal("https://a/b?x=1&y=2", UnescapeURL("https://a/b?x=1&amp;y=2"))
	assert.Equal("plain", UnescapeURL("plain"))
}
