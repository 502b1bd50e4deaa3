// Package testutil loads bank HTML fixtures and turns them into replayable
// HAR entries.
package testutil

import (
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/lc-at/bni-api/internal/scraper/har"
)

func fixturePath(bankCode, name string) string {
	// Paths are relative to this file so tests work from any package.
	_, filename, _, _ := runtime.Caller(0)
	baseDir := filepath.Dir(filepath.Dir(filename)) // up to bank/

	return filepath.Join(baseDir, bankCode, "testdata", "fixtures", name+".html")
}

// LoadFixture reads an HTML fixture file for the given bank
func LoadFixture(t testing.TB, bankCode, name string) string {
	t.Helper()

	data, err := os.ReadFile(fixturePath(bankCode, name))
	if err != nil {
		t.Fatalf("Failed to load fixture %s/%s: %v", bankCode, name, err)
	}

	return string(data)
}

// MustLoadHAR loads a recorded HAR session and fails the test if it cannot
// be read.
func MustLoadHAR(t testing.TB, path string) *har.Log {
	t.Helper()

	log, err := har.Load(path)
	if err != nil {
		t.Fatalf("Failed to load HAR file %s: %v", path, err)
	}

	return log
}

// FixtureEntry builds a HAR entry answering method+url with the named
// fixture.
func FixtureEntry(t testing.TB, bankCode, method, url, name string) har.Entry {
	t.Helper()

	return har.Entry{
		Request: har.Request{Method: method, URL: url},
		Response: har.Response{
			Status: http.StatusOK,
			Content: har.Content{
				MimeType: "text/html; charset=utf-8",
				Text:     LoadFixture(t, bankCode, name),
			},
		},
	}
}

// RedirectEntry builds a HAR entry answering method+url with a 302 to
// location.
func RedirectEntry(method, url, location string) har.Entry {
	return har.Entry{
		Request: har.Request{Method: method, URL: url},
		Response: har.Response{
			Status:  http.StatusFound,
			Headers: []har.Header{{Name: "Location", Value: location}},
		},
	}
}
