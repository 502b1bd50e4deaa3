// Package browser drives a real Chromium through Rod. It is used to capture
// golden fixtures of the portal exactly as its mobile browser renders them.
package browser

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/devices"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
	"github.com/lc-at/bni-api/internal/scraper/bank/bni"
)

// MobileDevice is the handset the portal was built for, carrying the same
// User-Agent as the HTTP scraper.
var MobileDevice = devices.Device{
	Title:          "Android 2.2",
	Capabilities:   []string{"touch", "mobile"},
	UserAgent:      bni.UserAgent,
	AcceptLanguage: "id-ID,id;q=0.9,en;q=0.8",
	Screen: devices.Screen{
		DevicePixelRatio: 1.5,
		Horizontal:       devices.ScreenSize{Width: 533, Height: 320},
		Vertical:         devices.ScreenSize{Width: 320, Height: 533},
	},
}

type Options struct {
	// Bin is the Chromium binary. Empty lets Rod find or download one.
	Bin      string
	Headless bool
}

// Launch starts Chromium and connects to it.
func Launch(opts Options) (*rod.Browser, error) {
	l := launcher.New().
		Headless(opts.Headless).
		// Hide the automation flags from navigator.webdriver checks
		Set("disable-blink-features", "AutomationControlled").
		Set("exclude-switches", "enable-automation").
		Set("no-first-run").
		Set("no-default-browser-check")
	if opts.Bin != "" {
		l = l.Bin(opts.Bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	return b, nil
}

// NewMobilePage opens a stealth page emulating MobileDevice.
func NewMobilePage(b *rod.Browser) (*rod.Page, error) {
	page, err := stealth.Page(b)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	if err := page.Emulate(MobileDevice); err != nil {
		return nil, fmt.Errorf("emulate %s: %w", MobileDevice.Title, err)
	}
	return page, nil
}

// CaptureHTML waits for the page to settle and returns its serialized DOM
// together with the URL it was loaded from.
func CaptureHTML(page *rod.Page) (html, url string, err error) {
	if err := page.WaitDOMStable(300*time.Millisecond, 0); err != nil {
		return "", "", fmt.Errorf("wait for page: %w", err)
	}

	html, err = page.HTML()
	if err != nil {
		return "", "", fmt.Errorf("read html: %w", err)
	}

	info, err := page.Info()
	if err != nil {
		return "", "", fmt.Errorf("read page info: %w", err)
	}
	return html, info.URL, nil
}
