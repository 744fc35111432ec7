package subclip

import (
	"fmt"
	"sort"
	"strings"
)

// Kind classifies what an input URL points at.
type Kind string

const (
	KindUnknown Kind = "unknown"
	KindVideo   Kind = "video"
	KindProfile Kind = "profile"
)

// A ContentReference identifies a piece of remote content, as extracted from a user-entered URL.
type ContentReference struct {
	// SourceURL is the URL exactly as entered by the user.
	SourceURL string
	// ContentID is the short identifier from the URL path. Set for KindVideo, empty otherwise.
	ContentID string
	// Username is set for KindProfile (and for story URLs, where the path carries the owner).
	Username string
	Kind     Kind
}

// A CandidateMedia is a discovered, not-yet-downloaded media resource.
type CandidateMedia struct {
	URL    string
	Width  int
	Height int
	// SourceMethod records which strategy sub-path found the candidate, for diagnostics only.
	SourceMethod string
}

// Pixels is the resolution ordering key; 0 means unknown resolution.
func (c CandidateMedia) Pixels() int {
	return c.Width * c.Height
}

// Resolution returns a "WxH" label, or "unknown" when no dimensions were discovered.
func (c CandidateMedia) Resolution() string {
	if c.Width == 0 && c.Height == 0 {
		return "unknown"
	}
	return fmt.Sprintf("%dx%d", c.Width, c.Height)
}

// SortCandidates orders candidates by descending Width*Height. The sort is
// stable so that discovery order breaks ties.
func SortCandidates(candidates []CandidateMedia) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Pixels() > candidates[j].Pixels()
	})
}

// BestCandidate returns the highest-resolution candidate, i.e. the first one
// after SortCandidates ordering.
func BestCandidate(candidates []CandidateMedia) (CandidateMedia, bool) {
	if len(candidates) == 0 {
		return CandidateMedia{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Pixels() > best.Pixels() {
			best = c
		}
	}
	return best, true
}

// A Payload is raw media bytes captured without a stable URL, e.g. harvested
// from the embedded browser's media buffers or a capture recording.
type Payload struct {
	Data       []byte
	MIMEType   string
	Resolution string
}

// Ext chooses a file extension from the payload MIME type, defaulting to mp4.
func (p *Payload) Ext() string {
	if p != nil && strings.Contains(p.MIMEType, "webm") {
		return "webm"
	}
	return "mp4"
}

// An Outcome is the result of one strategy attempt: either URL candidates, a
// raw-bytes payload, or neither ("this strategy definitively found nothing").
type Outcome struct {
	Candidates []CandidateMedia
	Payload    *Payload
}

// Empty reports whether the strategy found nothing at all.
func (o Outcome) Empty() bool {
	return len(o.Candidates) == 0 && o.Payload == nil
}

// An AcquisitionResult describes a successfully materialized local file. It is
// only ever created after bytes are verified on disk.
type AcquisitionResult struct {
	LocalFileURI string
	FileName     string
	ByteSize     int64
	Resolution   string
}

// Stage names a phase of an acquisition, for progress reporting.
type Stage string

const (
	StageLoading     Stage = "loading"
	StageDownloading Stage = "downloading"
	StageCapturing   Stage = "capturing"
	StageSaving      Stage = "saving"
	StageCompleted   Stage = "completed"
)

// Progress is delivered to the caller-supplied callback at every phase
// transition and, during byte transfer, at whole-percent increments.
type Progress struct {
	Stage   Stage
	Message string
	Percent int
}

// A ProgressFunc receives progress updates. May be nil.
type ProgressFunc func(Progress)

// Report invokes the callback if one was supplied.
func (f ProgressFunc) Report(p Progress) {
	if f != nil {
		f(p)
	}
}
