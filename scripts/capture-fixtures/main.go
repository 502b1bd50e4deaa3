// capture-fixtures walks the portal in a real mobile browser and saves every
// page the scraper parses as a golden fixture.
//
// Usage:
//
//	go run ./scripts/capture-fixtures [-output dir] [-auto-login] [-bin /usr/bin/google-chrome]
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/joho/godotenv"
	"github.com/lc-at/bni-api/internal/config"
	"github.com/lc-at/bni-api/internal/scraper/bank"
	browserutil "github.com/lc-at/bni-api/internal/scraper/browser"
)

// Pages to capture, in walking order
var capturePages = []PageCapture{
	{Name: "login", Instructions: "Tap 'Individu' to open the login form (don't login yet)"},
	{Name: "login_error", Instructions: "Enter INVALID credentials and submit"},
	{Name: "home", Instructions: "Login with VALID credentials, wait for the home page", Login: true},
	{Name: "dashboard", Instructions: "Tap 'Rekening' to open the account overview"},
	{Name: "account_detail", Instructions: "Open the first account's detail page"},
	{Name: "history_type", Instructions: "Go back home, open the overview again and tap 'Mutasi Rekening'"},
	{Name: "history_accounts", Instructions: "Choose 'Tabungan dan Giro' and continue"},
	{Name: "history_result", Instructions: "Pick an account, search by date over the last 7 days"},
	{Name: "history_empty", Instructions: "Search a period without transactions (or skip)"},
	{Name: "logout_confirm", Instructions: "Go back home and tap 'Keluar'"},
	{Name: "logout_done", Instructions: "Confirm the logout"},
	{Name: "login_relogin", Instructions: "Login, wait more than 5 minutes, then tap any menu (or skip)"},
}

type PageCapture struct {
	Name         string
	Instructions string
	// Login marks the step -auto-login can perform by itself.
	Login bool
}

func main() {
	outputDir := flag.String("output", filepath.Join("internal", "scraper", "bank", "bni", "testdata", "fixtures"), "Output directory")
	bin := flag.String("bin", "", "Chromium binary (default: let Rod find one)")
	autoLogin := flag.Bool("auto-login", false, "Type BNI_USER_ID and BNI_PASSWORD into the login form")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if *autoLogin {
		if err := cfg.Validate(); err != nil {
			fmt.Printf("Error: -auto-login: %v\n", err)
			os.Exit(1)
		}
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Printf("Error creating directory: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("╔════════════════════════════════════════════════════════════════╗")
	fmt.Println("║           BNI FIXTURE CAPTURE TOOL                             ║")
	fmt.Println("╠════════════════════════════════════════════════════════════════╣")
	fmt.Printf("║  Portal: %-52s  ║\n", cfg.BaseURL)
	fmt.Printf("║  Output: %-52s  ║\n", *outputDir)
	fmt.Println("╚════════════════════════════════════════════════════════════════╝")
	fmt.Println()

	browser, err := browserutil.Launch(browserutil.Options{Bin: *bin, Headless: false})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer browser.MustClose()

	page, err := browserutil.NewMobilePage(browser)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// The portal root needs no interaction.
	if err := page.Navigate(cfg.BaseURL); err != nil {
		fmt.Printf("Error opening %s: %v\n", cfg.BaseURL, err)
		os.Exit(1)
	}
	page.MustWaitLoad()
	capture(page, *outputDir, "portal")

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("📋 Instructions:")
	fmt.Println("   - A browser window emulating the portal's handset has opened")
	fmt.Println("   - Follow the prompts below")
	fmt.Println("   - Press ENTER after completing each step")
	fmt.Println("   - Type 'skip' to skip a page")
	fmt.Println("   - Type 'quit' to exit")
	fmt.Println()

	for _, step := range capturePages {
		fmt.Println("────────────────────────────────────────────────────────────────")
		fmt.Printf("📄 Capturing: %s.html\n", step.Name)

		if step.Login && *autoLogin {
			fmt.Println("🔑 Logging in with BNI_USER_ID...")
			if err := autoLoginStep(page, cfg); err != nil {
				fmt.Printf("   ❌ Auto login failed: %v\n\n", err)
				continue
			}
			capture(page, *outputDir, step.Name)
			continue
		}

		fmt.Printf("📝 Instructions: %s\n", step.Instructions)
		fmt.Print("   Press ENTER when ready (or 'skip'/'quit'): ")

		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(strings.ToLower(input))

		if input == "quit" {
			fmt.Println("\n👋 Exiting...")
			break
		}
		if input == "skip" {
			fmt.Printf("   ⏭️  Skipped %s\n\n", step.Name)
			continue
		}

		capture(page, *outputDir, step.Name)
	}

	saveMetadata(*outputDir, cfg.BaseURL)

	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println("✅ Capture complete!")
	fmt.Println()
	fmt.Println("⚠️  IMPORTANT: Sanitize sensitive data before committing!")
	fmt.Println("   Run: go run ./scripts/sanitize-fixtures -dir=" + *outputDir)
	fmt.Println("════════════════════════════════════════════════════════════════")
}

// autoLoginStep starts from wherever the browser is, so it reloads the
// portal root before typing.
func autoLoginStep(page *rod.Page, cfg *config.Config) error {
	if err := browserutil.OpenLogin(page, cfg.BaseURL); err != nil {
		return err
	}
	return browserutil.SubmitLogin(page, bank.Credentials{
		UserID:   cfg.UserID,
		Password: cfg.Password,
	}, browserutil.TypeHuman)
}

func capture(page *rod.Page, outDir, name string) {
	time.Sleep(500 * time.Millisecond)

	screenshotPath := filepath.Join(outDir, name+".png")
	if buf, err := page.Screenshot(true, &proto.PageCaptureScreenshot{Format: proto.PageCaptureScreenshotFormatPng}); err == nil {
		if writeErr := os.WriteFile(screenshotPath, buf, 0o644); writeErr != nil {
			fmt.Printf("   ⚠️  Error saving screenshot: %v\n", writeErr)
		} else {
			fmt.Printf("   📸 Screenshot: %s\n", screenshotPath)
		}
	} else {
		fmt.Printf("   ⚠️  Screenshot failed: %v\n", err)
	}

	html, pageURL, err := browserutil.CaptureHTML(page)
	if err != nil {
		fmt.Printf("   ❌ Error capturing HTML: %v\n\n", err)
		return
	}

	htmlPath := filepath.Join(outDir, name+".html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		fmt.Printf("   ❌ Error saving HTML: %v\n\n", err)
		return
	}

	fmt.Printf("   ✅ Saved: %s\n", htmlPath)
	fmt.Printf("   🔗 URL: %s\n\n", pageURL)
}

func saveMetadata(outDir, baseURL string) {
	metadata := fmt.Sprintf(`# Fixture Metadata
portal: %s
captured_at: %s
captured_by: %s

## Files
See .html files in this directory.
Screenshots (.png) provided for visual reference.

## Contract

The scraper relies on these shapes; re-capture when a test breaks:

- portal.html: a#RetailUser
- every logged in page: form[name="form"] with an action
- dashboard.html: span.TotalAmt (last one is the total), a[id*="db_acc"], a#TxnHistory
- account_detail.html: two tables with td#Row{n}_{n}_column2 for n = 1..5
- history_result.html: label cells followed by their value cell

## Notes
- These fixtures should be sanitized before committing
- Update when the portal changes
`, baseURL, time.Now().Format(time.RFC3339), os.Getenv("USER"))

	metaPath := filepath.Join(outDir, "README.md")
	if err := os.WriteFile(metaPath, []byte(metadata), 0o644); err != nil {
		fmt.Printf("⚠️  Error saving %s: %v\n", metaPath, err)
	}
}
