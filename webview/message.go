// Package webview defines the bridge between page-injected scripts and Go
// code: a JSON message protocol, a chunked binary transfer reassembler, and
// an exclusive session wrapper around an embeddable browser host.
package webview

import (
	"encoding/json"
	"fmt"
)

// Message types posted by injected scripts.
const (
	TypeDebug               = "DEBUG"
	TypeVideoURLFound       = "VIDEO_URL_FOUND"
	TypeVideoFound          = "VIDEO_FOUND"
	TypeMultipleVideosFound = "MULTIPLE_VIDEOS_FOUND"
	TypeBlobStart           = "BLOB_START"
	TypeBlobChunk           = "BLOB_CHUNK"
	TypeBlobEnd             = "BLOB_END"
	TypeBlobData            = "BLOB_DATA"
	TypeError               = "ERROR"
)

// Video is a candidate discovered by a page script.
type Video struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Method string `json:"method,omitempty"`
}

// Message is the envelope for everything a page script posts back. Which
// fields are populated depends on Type.
type Message struct {
	Type        string  `json:"type"`
	Text        string  `json:"message,omitempty"`
	URL         string  `json:"url,omitempty"`
	Width       int     `json:"width,omitempty"`
	Height      int     `json:"height,omitempty"`
	Method      string  `json:"method,omitempty"`
	Videos      []Video `json:"videos,omitempty"`
	Count       int     `json:"count,omitempty"`
	Data        string  `json:"data,omitempty"`
	Chunk       string  `json:"chunk,omitempty"` // legacy alias for Data on BLOB_CHUNK
	ChunkIndex  int     `json:"chunkIndex"`
	TotalChunks int     `json:"totalChunks,omitempty"`
	MIMEType    string  `json:"mimeType,omitempty"`
	Size        int64   `json:"size,omitempty"`
	Resolution  string  `json:"resolution,omitempty"`
}

// ParseMessage decodes a raw script payload. Messages without a type are
// rejected rather than silently treated as debug noise.
func ParseMessage(raw string) (Message, error) {
	var m Message
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return Message{}, fmt.Errorf("malformed script message: %w", err)
	}
	if m.Type == "" {
		return Message{}, fmt.Errorf("script message missing type")
	}
	return m, nil
}

// Fragment returns the base64 fragment of a BLOB_CHUNK message. The wire
// field is "data"; "chunk" is accepted from older scripts.
func (m Message) Fragment() string {
	if m.Data != "" {
		return m.Data
	}
	return m.Chunk
}

// Candidates normalizes the three "found a URL" message shapes into a single
// list. Single-URL messages become a one-element list.
func (m Message) Candidates() []Video {
	switch m.Type {
	case TypeVideoURLFound, TypeVideoFound:
		if m.URL == "" {
			return nil
		}
		return []Video{{URL: m.URL, Width: m.Width, Height: m.Height, Method: m.Method}}
	case TypeMultipleVideosFound:
		return m.Videos
	}
	return nil
}
