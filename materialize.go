package subclip

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"subclip/store/files"
	"subclip/util"
)

// A Materializer turns a resolved candidate URL or captured payload into a
// verified file in the local store. Nothing counts as acquired until the
// bytes are on disk and non-empty.
type Materializer struct {
	files  files.Store
	client *http.Client
	naming NamingConfig
	log    *zap.SugaredLogger
}

func NewMaterializer(store files.Store, client *http.Client, naming NamingConfig) *Materializer {
	if client == nil {
		client = http.DefaultClient
	}
	if naming == nil {
		naming = NewNamingConfig()
	}
	return &Materializer{
		files:  store,
		client: client,
		naming: naming,
		log:    zap.S().Named("materialize"),
	}
}

// SaveURL downloads a candidate into the store. If ext is empty it is taken
// from the URL path, defaulting to mp4. A single interrupted transfer is
// resumed once with a Range request before the download counts as failed.
func (m *Materializer) SaveURL(ctx context.Context, ref ContentReference, c CandidateMedia, ext string, report ProgressFunc) (AcquisitionResult, error) {
	if ext == "" {
		ext = util.ExtFromURL(c.URL, "mp4")
	}
	name, err := m.naming.FileName(ref, c.Resolution(), ext)
	if err != nil {
		return AcquisitionResult{}, err
	}
	part := name + ".part"

	report.Report(Progress{Stage: StageDownloading, Message: "downloading " + c.Resolution()})
	written, _, err := m.fetch(ctx, c.URL, part, 0, report)
	if err != nil && written > 0 && ctx.Err() == nil {
		m.log.Infow("transfer interrupted, resuming",
			"url", c.URL, "have", humanize.Bytes(uint64(written)), "error", err)
		_, _, err = m.fetch(ctx, c.URL, part, written, report)
	}
	if err != nil {
		m.discard(part)
		return AcquisitionResult{}, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	return m.finalize(ref, part, name, c.Resolution())
}

// SaveBytes writes a captured payload into the store.
func (m *Materializer) SaveBytes(ctx context.Context, ref ContentReference, p *Payload, report ProgressFunc) (AcquisitionResult, error) {
	resolution := p.Resolution
	if resolution == "" {
		resolution = "unknown"
	}
	name, err := m.naming.FileName(ref, resolution, p.Ext())
	if err != nil {
		return AcquisitionResult{}, err
	}
	part := name + ".part"

	report.Report(Progress{Stage: StageSaving, Message: "saving captured media"})
	f, err := m.files.Create(part)
	if err != nil {
		return AcquisitionResult{}, err
	}
	_, err = io.Copy(f, newReaderContext(ctx, bytes.NewReader(p.Data)))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		m.discard(part)
		return AcquisitionResult{}, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	return m.finalize(ref, part, name, resolution)
}

// fetch streams url into the named partial file starting at offset, returning
// how many bytes the file now holds and the expected total.
func (m *Materializer) fetch(ctx context.Context, rawURL string, part string, offset int64, report ProgressFunc) (written int64, total int64, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, 0, err
	}
	if offset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	}
	res, err := m.client.Do(req)
	if err != nil {
		return offset, 0, err
	}
	defer res.Body.Close()

	var f io.WriteCloser
	switch {
	case offset > 0 && res.StatusCode == http.StatusPartialContent:
		total = offset + res.ContentLength
		f, err = m.files.Append(part)
	case res.StatusCode == http.StatusOK:
		// Either a fresh download, or the server ignored the Range header
		// and is sending everything again.
		offset = 0
		total = res.ContentLength
		f, err = m.files.Create(part)
	default:
		return offset, 0, fmt.Errorf("GET %v: unexpected status %v", rawURL, res.Status)
	}
	if err != nil {
		return offset, 0, err
	}

	progress := &progressWriter{report: report, written: offset, total: total}
	n, err := io.Copy(io.MultiWriter(f, progress), newReaderContext(ctx, res.Body))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	written = offset + n
	if err != nil {
		return written, total, err
	}
	if total > 0 && written < total {
		return written, total, fmt.Errorf("short transfer: %d of %d bytes", written, total)
	}
	if total <= 0 {
		// Chunked responses carry no Content-Length, so no whole-percent
		// updates were possible; report completion now that the body ended.
		report.Report(Progress{Stage: StageDownloading, Percent: 100})
	}
	return written, total, nil
}

// finalize verifies the partial file is non-empty, then moves it to its
// final name and reports the stored result.
func (m *Materializer) finalize(ref ContentReference, part, name, resolution string) (AcquisitionResult, error) {
	info, err := m.files.Stat(part)
	if err != nil {
		return AcquisitionResult{}, err
	}
	if info.Size == 0 {
		m.discard(part)
		return AcquisitionResult{}, fmt.Errorf("%w: zero-byte file", ErrDownloadFailed)
	}
	if err := m.files.Rename(part, name); err != nil {
		m.discard(part)
		return AcquisitionResult{}, err
	}
	info, err = m.files.Stat(name)
	if err != nil {
		return AcquisitionResult{}, err
	}
	m.log.Infow("stored media file",
		"file", name, "size", humanize.Bytes(uint64(info.Size)), "resolution", resolution)
	return AcquisitionResult{
		LocalFileURI: info.URI,
		FileName:     name,
		ByteSize:     info.Size,
		Resolution:   resolution,
	}, nil
}

func (m *Materializer) discard(part string) {
	if err := m.files.Remove(part); err != nil {
		m.log.Warnw("failed to remove partial file", "file", part, "error", err)
	}
}

// progressWriter emits a progress update at every whole-percent boundary.
// Used as the tail of an io.MultiWriter so failed writes are not counted.
type progressWriter struct {
	report      ProgressFunc
	written     int64
	total       int64
	lastPercent int
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.written += int64(len(p))
	if w.total > 0 {
		percent := int(w.written * 100 / w.total)
		if percent > 100 {
			percent = 100
		}
		if percent > w.lastPercent {
			w.lastPercent = percent
			w.report.Report(Progress{Stage: StageDownloading, Percent: percent})
		}
	}
	return len(p), nil
}

