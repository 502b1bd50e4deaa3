// sanitize-har removes sensitive data from HAR files before committing.
//
// Usage:
//
//	go run ./scripts/sanitize-har -scenario=summary
//	go run ./scripts/sanitize-har -input=recording.har.json -output=sanitized.har.json
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/lc-at/bni-api/internal/scraper/har"
)

func main() {
	scenario := flag.String("scenario", "", "Recording name under internal/scraper/bank/bni/testdata/recordings")
	inputPath := flag.String("input", "", "Input HAR file path")
	outputPath := flag.String("output", "", "Output HAR file path (defaults to input path)")
	dryRun := flag.Bool("dry-run", false, "Show what would be redacted without modifying")
	flag.Parse()

	var inPath, outPath string
	switch {
	case *scenario != "":
		inPath = filepath.Join("internal", "scraper", "bank", "bni", "testdata", "recordings", *scenario+".har.json")
		outPath = inPath
	case *inputPath != "":
		inPath = *inputPath
		outPath = *inputPath
		if *outputPath != "" {
			outPath = *outputPath
		}
	default:
		flag.Usage()
		os.Exit(1)
	}

	// Both the recorder's format and DevTools exports are accepted.
	log, err := har.Load(inPath)
	if err != nil {
		fmt.Printf("Error loading HAR: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d entries from %s\n", len(log.Entries), inPath)

	sanitized := har.Sanitize(log)
	changes := diffEntries(log, sanitized)
	printSummary(changes)

	if *dryRun {
		fmt.Println("\n[DRY RUN] No changes written.")
		return
	}

	if err := har.Save(outPath, sanitized); err != nil {
		fmt.Printf("Error saving HAR: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Sanitized HAR saved to: %s\n", outPath)
}

type entryChange struct {
	index  int
	method string
	url    string
	parts  []string
}

func diffEntries(original, sanitized *har.Log) []entryChange {
	var changes []entryChange
	for i := range original.Entries {
		orig, san := original.Entries[i], sanitized.Entries[i]

		var parts []string
		if orig.Request.URL != san.Request.URL {
			parts = append(parts, "url")
		}
		if n := changedHeaders(orig.Request.Headers, san.Request.Headers); n > 0 {
			parts = append(parts, fmt.Sprintf("%d request header(s)", n))
		}
		if orig.Request.Body != san.Request.Body {
			parts = append(parts, "form body")
		}
		if n := changedHeaders(orig.Response.Headers, san.Response.Headers); n > 0 {
			parts = append(parts, fmt.Sprintf("%d response header(s)", n))
		}
		if orig.Response.Content.Text != san.Response.Content.Text {
			parts = append(parts, "page markup")
		}

		if len(parts) > 0 {
			changes = append(changes, entryChange{
				index:  i + 1,
				method: orig.Request.Method,
				url:    truncateURL(san.Request.URL),
				parts:  parts,
			})
		}
	}
	return changes
}

func changedHeaders(orig, san []har.Header) int {
	n := 0
	for j, h := range orig {
		if j < len(san) && h.Value != san[j].Value {
			n++
		}
	}
	return n
}

func printSummary(changes []entryChange) {
	if len(changes) == 0 {
		fmt.Println("No sensitive data found")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Request", "Redacted"})
	for _, c := range changes {
		t.AppendRow(table.Row{c.index, c.method + " " + c.url, fmt.Sprint(c.parts)})
	}
	t.Render()
}

func truncateURL(url string) string {
	if len(url) > 80 {
		return url[:77] + "..."
	}
	return url
}
