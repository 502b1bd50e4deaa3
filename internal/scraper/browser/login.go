package browser

import (
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/lc-at/bni-api/internal/scraper/bank"
	"github.com/lc-at/bni-api/internal/scraper/bank/bni"
)

// OpenLogin loads the portal root and follows the retail user link to the
// login form.
func OpenLogin(page *rod.Page, baseURL string) error {
	if err := page.Navigate(baseURL); err != nil {
		return fmt.Errorf("navigate %s: %w", baseURL, err)
	}
	if err := page.WaitLoad(); err != nil {
		return err
	}
	return clickAndWait(page, bni.SelectorRetailUserLink)
}

// SubmitLogin types the credentials into the login form and submits it.
func SubmitLogin(page *rod.Page, creds bank.Credentials, typist Typist) error {
	if err := FillInput(page, bni.FieldCorpID, creds.UserID, typist); err != nil {
		return err
	}
	if err := FillInput(page, bni.FieldPassword, creds.Password, typist); err != nil {
		return err
	}
	return clickAndWait(page, bni.SelectorForm+` input[type="submit"]`)
}

// clickAndWait clicks the first element matching selector and waits for
// the navigation it starts.
func clickAndWait(page *rod.Page, selector string) error {
	el, err := page.Element(selector)
	if err != nil {
		return fmt.Errorf("%s: %w", selector, err)
	}

	wait := page.WaitNavigation(proto.PageLifecycleEventNameLoad)
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	wait()
	return nil
}
