package browser

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
)

// Typist enters text into a focused element.
type Typist func(el *rod.Element, text string) error

// TypeHuman types text with human-like timing.
// It uses Element.Type() which properly triggers keyboard events (keydown/keyup).
// Small random delays (50-150ms) between keystrokes simulate human typing.
func TypeHuman(el *rod.Element, text string) error {
	for _, char := range text {
		if err := el.Type(input.Key(char)); err != nil {
			return err
		}
		time.Sleep(time.Duration(50+rand.Intn(100)) * time.Millisecond)
	}
	return nil
}

// TypeFast types text without delays, for tests and local fixtures.
func TypeFast(el *rod.Element, text string) error {
	keys := make([]input.Key, 0, len(text))
	for _, char := range text {
		keys = append(keys, input.Key(char))
	}
	return el.Type(keys...)
}

// FillInput replaces the value of the named input with text.
func FillInput(page *rod.Page, name, text string, typist Typist) error {
	el, err := page.Element(fmt.Sprintf(`input[name=%q]`, name))
	if err != nil {
		return fmt.Errorf("input %s: %w", name, err)
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("select %s: %w", name, err)
	}
	if err := el.Input(""); err != nil {
		return fmt.Errorf("clear %s: %w", name, err)
	}
	return typist(el, text)
}
