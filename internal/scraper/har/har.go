// Package har records, replays and sanitizes HTTP sessions in a simplified
// HAR (HTTP Archive) format.
package har

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Log represents a simplified HAR log: an ordered list of request/response
// pairs as they happened during one session.
type Log struct {
	Entries []Entry `json:"entries"`
}

// Entry represents a single HTTP request/response pair.
type Entry struct {
	Request  Request  `json:"request"`
	Response Response `json:"response"`
}

type Request struct {
	Method  string   `json:"method"`
	URL     string   `json:"url"`
	Headers []Header `json:"headers,omitempty"`
	Body    string   `json:"body,omitempty"`
}

type Response struct {
	Status  int      `json:"status"`
	Headers []Header `json:"headers,omitempty"`
	Content Content  `json:"content"`
}

type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Content struct {
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`               // Plain text or base64 encoded
	Encoding string `json:"encoding,omitempty"` // "base64" if binary content
	Size     int    `json:"size,omitempty"`
}

// HeaderValue returns the first header matching name, case-insensitively.
func HeaderValue(headers []Header, name string) string {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// ============================================================================
// Browser DevTools HAR 1.2 Format Support
// ============================================================================

// devtoolsHAR is the HAR 1.2 layout exported by browser DevTools: entries are
// wrapped in a "log" object and request bodies live under postData.
type devtoolsHAR struct {
	Log struct {
		Version string          `json:"version"`
		Entries []devtoolsEntry `json:"entries"`
	} `json:"log"`
}

type devtoolsEntry struct {
	Request struct {
		Method   string   `json:"method"`
		URL      string   `json:"url"`
		Headers  []Header `json:"headers,omitempty"`
		PostData *struct {
			MimeType string `json:"mimeType"`
			Text     string `json:"text"`
		} `json:"postData,omitempty"`
	} `json:"request"`
	Response Response `json:"response"`
}

// Load reads a HAR file. DevTools HAR 1.2 exports (with the "log" wrapper)
// are detected and converted to the simplified format.
func Load(path string) (*Log, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read HAR file: %w", err)
	}
	return Parse(data)
}

// Parse decodes HAR JSON in either the DevTools or the simplified layout.
func Parse(data []byte) (*Log, error) {
	var dt devtoolsHAR
	if err := json.Unmarshal(data, &dt); err == nil && len(dt.Log.Entries) > 0 {
		return fromDevtools(&dt), nil
	}

	var log Log
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("parse HAR JSON: %w", err)
	}
	return &log, nil
}

func fromDevtools(dt *devtoolsHAR) *Log {
	entries := make([]Entry, len(dt.Log.Entries))
	for i, de := range dt.Log.Entries {
		var body string
		if de.Request.PostData != nil {
			body = de.Request.PostData.Text
		}
		entries[i] = Entry{
			Request: Request{
				Method:  de.Request.Method,
				URL:     de.Request.URL,
				Headers: de.Request.Headers,
				Body:    body,
			},
			Response: de.Response,
		}
	}
	return &Log{Entries: entries}
}

// Save writes a HAR log to the given path with pretty formatting.
func Save(path string, log *Log) error {
	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal HAR: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write HAR file: %w", err)
	}

	return nil
}
