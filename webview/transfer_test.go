package webview

import (
	"encoding/base64"
	"errors"
	"testing"

	assert_ "github.com/stretchr/testify/assert"
)

func chunked(data []byte, size int) []string {
	encoded := base64.StdEncoding.EncodeToString(data)
	var out []string
	for len(encoded) > size {
		out = append(out, encoded[:size])
		encoded = encoded[size:]
	}
	return append(out, encoded)
}

func TestTransferInOrder(t *testing.T) {
	assert := assert_.New(t)

	payload := []byte("some video bytes, definitely")
	chunks := chunked(payload, 8)
	meta := TransferMeta{MIMEType: "video/mp4", Size: int64(len(payload)), Resolution: "720p"}

	var tr Transfer
	tr.Start(len(chunks), meta)
	assert.True(tr.Active())
	for i, c := range chunks {
		tr.AddChunk(i, c)
	}
	data, gotMeta, err := tr.Finish()
	assert.NoError(err)
	assert.Equal(payload, data)
	assert.Equal(meta, gotMeta)
	assert.False(tr.Active())
}

func TestTransferOutOfOrder(t *testing.T) {
	assert := assert_.New(t)

	payload := []byte("chunk ordering should not matter at all")
	chunks := chunked(payload, 12)
	if len(chunks) < 3 {
		t.Fatal("fixture too small")
	}

	var tr Transfer
	tr.Start(len(chunks), TransferMeta{})
	// Deliver in the order 2, 0, 1, then the rest.
	tr.AddChunk(2, chunks[2])
	tr.AddChunk(0, chunks[0])
	tr.AddChunk(1, chunks[1])
	for i := 3; i < len(chunks); i++ {
		tr.AddChunk(i, chunks[i])
	}
	data, _, err := tr.Finish()
	assert.NoError(err)
	assert.Equal(payload, data)
}

func TestTransferIncomplete(t *testing.T) {
	assert := assert_.New(t)

	var tr Transfer
	tr.Start(3, TransferMeta{})
	tr.AddChunk(0, "AAAA")
	tr.AddChunk(2, "AAAA")
	_, _, err := tr.Finish()
	assert.True(errors.Is(err, ErrIncompleteTransfer))
}

func TestTransferFinishWithoutStart(t *testing.T) {
	assert := assert_.New(t)

	var tr Transfer
	_, _, err := tr.Finish()
	assert.True(errors.Is(err, ErrIncompleteTransfer))
}

func TestTransferRestartDiscards(t *testing.T) {
	assert := assert_.New(t)

	payload := []byte("the second transfer wins")
	chunks := chunked(payload, 16)

	var tr Transfer
	tr.Start(5, TransferMeta{})
	tr.AddChunk(0, "stale")
	tr.Start(len(chunks), TransferMeta{MIMEType: "video/mp4"})
	for i, c := range chunks {
		tr.AddChunk(i, c)
	}
	data, meta, err := tr.Finish()
	assert.NoError(err)
	assert.Equal(payload, data)
	assert.Equal("video/mp4", meta.MIMEType)
}

func TestTransferIgnoresStrayChunks(t *testing.T) {
	assert := assert_.New(t)

	var tr Transfer
	tr.AddChunk(0, "AAAA") // before any Start
	assert.False(tr.Active())

	payload := []byte("bounds are enforced")
	chunks := chunked(payload, 8)
	tr.Start(len(chunks), TransferMeta{})
	tr.AddChunk(-1, "AAAA")
	tr.AddChunk(len(chunks), "AAAA")
	for i, c := range chunks {
		tr.AddChunk(i, c)
	}
	data, _, err := tr.Finish()
	assert.NoError(err)
	assert.Equal(payload, data)
}

func TestTransferDataURIPrefix(t *testing.T) {
	assert := assert_.New(t)

	payload := []byte("payload behind a data uri prefix")
	dataURI := "data:video/webm;base64," + base64.StdEncoding.EncodeToString(payload)

	// The prefix lives in chunk 0 and must be stripped exactly once.
	mid := len(dataURI) / 2
	var tr Transfer
	tr.Start(2, TransferMeta{MIMEType: "video/webm"})
	tr.AddChunk(0, dataURI[:mid])
	tr.AddChunk(1, dataURI[mid:])
	data, _, err := tr.Finish()
	assert.NoError(err)
	assert.Equal(payload, data)
}

func TestTransferBadBase64(t *testing.T) {
	assert := assert_.New(t)

	var tr Transfer
	tr.Start(1, TransferMeta{})
	tr.AddChunk(0, "!!! not base64 !!!")
	_, _, err := tr.Finish()
	assert.Error(err)
	assert.False(errors.Is(err, ErrIncompleteTransfer))
}
