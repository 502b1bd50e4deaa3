package har

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// Recorder is an http.RoundTripper that forwards requests to an inner
// transport and keeps every exchange as a HAR entry.
type Recorder struct {
	mu      sync.Mutex
	inner   http.RoundTripper
	entries []Entry
}

// NewRecorder wraps inner. A nil inner uses http.DefaultTransport.
func NewRecorder(inner http.RoundTripper) *Recorder {
	if inner == nil {
		inner = http.DefaultTransport
	}
	return &Recorder{inner: inner}
}

func (r *Recorder) RoundTrip(req *http.Request) (*http.Response, error) {
	body, err := readRequestBody(req)
	if err != nil {
		return nil, err
	}

	res, err := r.inner.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(res.Body)
	_ = res.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	res.Body = io.NopCloser(bytes.NewReader(data))

	entry := Entry{
		Request: Request{
			Method:  req.Method,
			URL:     req.URL.String(),
			Headers: flattenHeaders(req.Header),
			Body:    body,
		},
		Response: Response{
			Status:  res.StatusCode,
			Headers: flattenHeaders(res.Header),
			Content: Content{
				MimeType: res.Header.Get("Content-Type"),
				Text:     string(data),
				Size:     len(data),
			},
		},
	}

	r.mu.Lock()
	r.entries = append(r.entries, entry)
	r.mu.Unlock()

	return res, nil
}

// Log returns a snapshot of the exchanges recorded so far.
func (r *Recorder) Log() *Log {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &Log{Entries: append([]Entry(nil), r.entries...)}
}
