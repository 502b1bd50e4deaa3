package bni

import (
	"context"
	"net/http"

	"github.com/lc-at/bni-api/internal/scraper/bank"
)

// Login authenticates with the retail user credentials. It returns nil right
// away while the current session is alive. A rejected login leaves the
// scraper logged out and returns a KindAuthFailed error carrying the bank's
// message.
func (s *BNIScraper) Login(ctx context.Context, creds bank.Credentials) (err error) {
	const op = "Login"
	ctx, span := tracer.Start(ctx, "BNIScraper.Login")
	defer func() { endSpan(span, err) }()

	if s.IsAlive() {
		return nil
	}
	s.session.Reset()

	p, err := s.request(ctx, op, http.MethodGet, s.baseURL, nil)
	if err != nil {
		return err
	}
	href, ok := p.doc.Find(SelectorRetailUserLink).First().Attr("href")
	if !ok {
		return s.fail(op, bank.KindUnexpectedPageShape, nil, SelectorRetailUserLink+" not found")
	}
	loginURL, err := p.resolve(href)
	if err != nil {
		return s.shapeErr(op, err)
	}

	p, err = s.request(ctx, op, http.MethodGet, loginURL, nil)
	if err != nil {
		return err
	}
	form, err := ExtractForm(p.doc, p.url, nil, "")
	if err != nil {
		return s.shapeErr(op, err)
	}
	form.Fields.Set(FieldCorpID, creds.UserID)
	form.Fields.Set(FieldPassword, creds.Password)

	p, err = s.request(ctx, op, http.MethodPost, form.Action, form.Fields)
	if err != nil {
		return err
	}
	if msg, failed := LoginErrorMessage(p.doc, p.body); failed {
		s.logger.WarnContext(ctx, "login rejected", "message", msg)
		return s.fail(op, bank.KindAuthFailed, nil, msg)
	}

	s.session.Authenticated = true
	if name, ok := ProfileName(p.doc); ok {
		s.session.DisplayName = name
	}
	s.session.ExpiresAt = s.now().Add(SessionTTL - SessionClockSkew)
	s.session.LandingURL = p.url.String()

	s.logger.InfoContext(ctx, "logged in", "expires_at", s.session.ExpiresAt)
	return nil
}

// Logout walks the two step logout confirmation. Without an alive session it
// does nothing and returns a KindSessionExpired error. When the final page
// lacks the security notice the session state is left as it was.
func (s *BNIScraper) Logout(ctx context.Context) (err error) {
	const op = "Logout"
	ctx, span := tracer.Start(ctx, "BNIScraper.Logout")
	defer func() { endSpan(span, err) }()

	if !s.session.Authenticated || s.cursor == nil {
		return s.fail(op, bank.KindSessionExpired, nil, "not logged in")
	}
	if err := s.requireAlive(ctx, op); err != nil {
		return err
	}

	if _, err := s.submitForm(ctx, op, submitOptions{drop: []string{FieldDashboard}}); err != nil {
		return err
	}

	p, err := s.submitForm(ctx, op, submitOptions{drop: []string{FieldBack}})
	if err != nil {
		return err
	}
	if !IsLogoutConfirmed(p.body) {
		return s.fail(op, bank.KindLogoutFailed, nil, "security notice not found on "+p.url.String())
	}

	s.session.Reset()
	s.logger.InfoContext(ctx, "logged out")
	return nil
}
