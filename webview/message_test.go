package webview

import (
	"testing"

	assert_ "github.com/stretchr/testify/assert"
)

func TestParseMessage(t *testing.T) {
	assert := assert_.New(t)

	m, err := ParseMessage(`{"type": "VIDEO_FOUND", "url": "https://cdn.example/v.mp4", "width": 720, "height": 1280}`)
	assert.NoError(err)
	assert.Equal(TypeVideoFound, m.Type)
	assert.Equal([]Video{{URL: "https://cdn.example/v.mp4", Width: 720, Height: 1280}}, m.Candidates())

	m, err = ParseMessage(`{"type": "BLOB_CHUNK", "chunkIndex": 0, "totalChunks": 1, "data": "AAAA"}`)
	assert.NoError(err)
	assert.Equal(0, m.ChunkIndex)
	assert.Equal("AAAA", m.Fragment())

	_, err = ParseMessage(`{"url": "https://cdn.example/v.mp4"}`)
	assert.Error(err)

	_, err = ParseMessage(`not json`)
	assert.Error(err)
}

func TestMessageFragment(t *testing.T) {
	assert := assert_.New(t)

	// The wire field for chunk fragments is "data".
	m, err := ParseMessage(`{"type": "BLOB_CHUNK", "chunkIndex": 2, "data": "BBBB"}`)
	assert.NoError(err)
	assert.Equal("BBBB", m.Fragment())

	// The legacy "chunk" field is still honored.
	m, err = ParseMessage(`{"type": "BLOB_CHUNK", "chunkIndex": 2, "chunk": "CCCC"}`)
	assert.NoError(err)
	assert.Equal("CCCC", m.Fragment())
}

func TestMessageCandidates(t *testing.T) {
	assert := assert_.New(t)

	multi := Message{Type: TypeMultipleVideosFound, Videos: []Video{
		{URL: "https://cdn.example/a.mp4", Width: 1080, Height: 1920},
		{URL: "https://cdn.example/b.mp4", Width: 480, Height: 852},
	}}
	assert.Len(multi.Candidates(), 2)

	// A found-message without a URL yields nothing rather than a blank entry.
	assert.Empty(Message{Type: TypeVideoURLFound}.Candidates())

	// Non-found messages never produce candidates.
	assert.Empty(Message{Type: TypeDebug, Text: "hi"}.Candidates())
}
