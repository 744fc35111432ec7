package subclip

import (
	"testing"

	assert_ "github.com/stretchr/testify/assert"
)

func TestClassifyVideoURLs(t *testing.T) {
	assert := assert_.New(t)

	for _, tc := range []struct {
		url       string
		contentID string
	}{
		{"https://www.instagram.com/reel/ABC123xyz/", "ABC123xyz"},
		{"https://www.instagram.com/p/DEF-456_a/", "DEF-456_a"},
		{"https://www.instagram.com/tv/GHI789/", "GHI789"},
		{"https://instagram.com/reel/ABC123/?igshid=xyz", "ABC123"},
		{"instagram.com/reel/ABC123", "ABC123"},
		{"https://instagr.am/p/ABC123/", "ABC123"},
		{"https://m.instagram.com/p/ABC123/", "ABC123"},
	} {
		ref, err := Classify(tc.url)
		assert.NoError(err, tc.url)
		assert.Equal(KindVideo, ref.Kind, tc.url)
		assert.Equal(tc.contentID, ref.ContentID, tc.url)
		assert.Equal(tc.url, ref.SourceURL, tc.url)
	}
}

func TestClassifyStoryURL(t *testing.T) {
	assert := assert_.New(t)

	ref, err := Classify("https://www.instagram.com/stories/some.user/31415926535/")
	assert.NoError(err)
	assert.Equal(KindVideo, ref.Kind)
	assert.Equal("31415926535", ref.ContentID)
	assert.Equal("some.user", ref.Username)
}

func TestClassifyProfileURLs(t *testing.T) {
	assert := assert_.New(t)

	for _, tc := range []struct {
		url      string
		username string
	}{
		{"https://www.instagram.com/some_user/", "some_user"},
		{"https://instagram.com/some.user", "some.user"},
		{"instagram.com/someuser", "someuser"},
	} {
		ref, err := Classify(tc.url)
		assert.NoError(err, tc.url)
		assert.Equal(KindProfile, ref.Kind, tc.url)
		assert.Equal(tc.username, ref.Username, tc.url)
		assert.Empty(ref.ContentID, tc.url)
	}
}

func TestClassifyUnknownPaths(t *testing.T) {
	assert := assert_.New(t)

	for _, u := range []string{
		"https://www.instagram.com/",
		"https://www.instagram.com/explore/",
		"https://www.instagram.com/accounts/login/extra",
		"https://www.instagram.com/reel/",
	} {
		ref, err := Classify(u)
		assert.NoError(err, u)
		assert.Equal(KindUnknown, ref.Kind, u)
	}
}

func TestClassifyRejectsForeignHosts(t *testing.T) {
	assert := assert_.New(t)

	for _, u := range []string{
		"https://example.com/reel/ABC123/",
		"https://notinstagram.com/p/ABC123/",
		"https://instagram.com.evil.example/p/ABC123/",
	} {
		_, err := Classify(u)
		assert.ErrorIs(err, ErrInvalidURL, u)
	}
}

func TestClassifyReservedSegmentIsNotAProfile(t *testing.T) {
	assert := assert_.New(t)

	ref, err := Classify("https://www.instagram.com/explore")
	assert.NoError(err)
	assert.Equal(KindUnknown, ref.Kind)
}
