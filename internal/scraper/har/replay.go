package har

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
)

// Replayer is an http.RoundTripper that serves recorded responses in the
// order they were recorded. Form based portals post to the same URL over and
// over, so entries are consumed as a sequence instead of being looked up by
// URL: each request must match the method and path of the next entry.
type Replayer struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	served  []Request

	// passthrough handles requests that do not match the next entry.
	// When nil, unmatched requests get a 404.
	passthrough http.RoundTripper

	logger *slog.Logger
}

// ReplayerOption configures a Replayer.
type ReplayerOption func(*Replayer)

// WithPassthrough sends unmatched requests to the given transport.
// By default, unmatched requests fail with 404.
func WithPassthrough(rt http.RoundTripper) ReplayerOption {
	return func(r *Replayer) {
		r.passthrough = rt
	}
}

// WithLogger sets the logger used to report matched and unmatched requests.
func WithLogger(logger *slog.Logger) ReplayerOption {
	return func(r *Replayer) {
		r.logger = logger
	}
}

// NewReplayer creates a replayer from a HAR log.
func NewReplayer(log *Log, opts ...ReplayerOption) *Replayer {
	r := &Replayer{
		entries: append([]Entry(nil), log.Entries...),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Replayer) RoundTrip(req *http.Request) (*http.Response, error) {
	body, err := readRequestBody(req)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.served = append(r.served, Request{
		Method:  req.Method,
		URL:     req.URL.String(),
		Headers: flattenHeaders(req.Header),
		Body:    body,
	})

	if r.next >= len(r.entries) {
		r.mu.Unlock()
		r.logger.Debug("replay exhausted", "component", "replayer", "method", req.Method, "url", req.URL.String())
		return r.unmatched(req)
	}

	entry := r.entries[r.next]
	if !sameEndpoint(entry.Request, req) {
		r.mu.Unlock()
		r.logger.Debug("no match",
			"component", "replayer",
			"method", req.Method,
			"url", req.URL.String(),
			"expected", entry.Request.Method+" "+entry.Request.URL,
		)
		return r.unmatched(req)
	}
	r.next++
	r.mu.Unlock()

	r.logger.Debug("matched", "component", "replayer", "url", req.URL.String(), "status", entry.Response.Status)
	return buildResponse(req, entry.Response)
}

// Requests returns every request the replayer has seen, matched or not.
func (r *Replayer) Requests() []Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Request(nil), r.served...)
}

// Remaining returns the number of entries not yet served.
func (r *Replayer) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries) - r.next
}

// Stats returns statistics about the replayer's progress.
func (r *Replayer) Stats() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return map[string]int{
		"entries":   len(r.entries),
		"served":    r.next,
		"requests":  len(r.served),
		"remaining": len(r.entries) - r.next,
	}
}

func (r *Replayer) unmatched(req *http.Request) (*http.Response, error) {
	if r.passthrough != nil {
		return r.passthrough.RoundTrip(req)
	}
	return buildResponse(req, Response{
		Status: http.StatusNotFound,
		Content: Content{
			MimeType: "application/json",
			Text:     fmt.Sprintf(`{"error": "no recording found for %s %s"}`, req.Method, req.URL.String()),
		},
	})
}

func endpointKey(u *url.URL) string {
	return strings.ToLower(u.Scheme+"://"+u.Host) + u.Path
}

func sameEndpoint(recorded Request, req *http.Request) bool {
	if !strings.EqualFold(recorded.Method, req.Method) {
		return false
	}
	parsed, err := url.Parse(recorded.URL)
	if err != nil {
		return false
	}
	return endpointKey(parsed) == endpointKey(req.URL)
}

// buildResponse turns a recorded response into an *http.Response. Redirects
// are returned as-is so the client follows them into the next entry.
func buildResponse(req *http.Request, resp Response) (*http.Response, error) {
	var body []byte
	if resp.Content.Encoding == "base64" {
		decoded, err := base64.StdEncoding.DecodeString(resp.Content.Text)
		if err != nil {
			decoded = []byte(resp.Content.Text)
		}
		body = decoded
	} else {
		body = []byte(resp.Content.Text)
	}

	header := make(http.Header)
	for _, h := range resp.Headers {
		name := strings.ToLower(h.Name)
		// The body is stored decoded, so transfer headers no longer apply.
		if name == "content-encoding" || name == "content-length" || name == "transfer-encoding" {
			continue
		}
		header.Add(h.Name, h.Value)
	}
	if header.Get("Content-Type") == "" && resp.Content.MimeType != "" {
		header.Set("Content-Type", resp.Content.MimeType)
	}

	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}, nil
}

func readRequestBody(req *http.Request) (string, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return "", nil
	}
	data, err := io.ReadAll(req.Body)
	if err != nil {
		return "", fmt.Errorf("read request body: %w", err)
	}
	_ = req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(data))
	return string(data), nil
}

func flattenHeaders(h http.Header) []Header {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []Header
	for _, name := range names {
		for _, v := range h[name] {
			out = append(out, Header{Name: name, Value: v})
		}
	}
	return out
}
