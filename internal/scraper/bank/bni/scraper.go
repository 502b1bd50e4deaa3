// Package bni walks the BNI mobile internet banking portal: it logs in,
// replays the portal's navigation forms and parses balances and transaction
// history out of the returned pages.
//
// A BNIScraper owns one server-side session and a cursor on the last page
// fetched. Every step derives its form fields from that page, so a scraper
// must not be used from more than one goroutine at a time. Use independent
// scrapers for independent sessions.
package bni

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/lc-at/bni-api/internal/scraper/bank"
	"github.com/lc-at/bni-api/internal/scraper/restyutil"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	BaseURL = "https://ibank.bni.co.id/MBAWeb/FMB"

	// UserAgent identifies the scraper as the Android browser the mobile
	// portal was built for.
	UserAgent = "Mozilla/5.0 (Linux; U; Android 2.2)" +
		" AppleWebKit/533.1 (KHTML, like Gecko)" +
		" Version/4.0 Mobile Safari/533.1"

	SessionTTL = 5 * time.Minute
	// SessionClockSkew is taken off SessionTTL so the local window closes
	// before the portal's.
	SessionClockSkew = 10 * time.Second
)

var tracer = otel.Tracer("scraper/bank/bni")

var _ bank.BankScraper = (*BNIScraper)(nil)

type BNIScraper struct {
	http    *resty.Client
	baseURL string
	now     func() time.Time
	logger  *slog.Logger

	session bank.Session
	cursor  *page
}

type options struct {
	baseURL   string
	transport http.RoundTripper
	now       func() time.Time
	logger    *slog.Logger
	timeout   time.Duration
	output    restyutil.InstrumentOutput
}

type Option func(*options)

// WithBaseURL points the scraper at another portal root.
func WithBaseURL(u string) Option {
	return func(o *options) {
		o.baseURL = u
	}
}

// WithTransport replaces the HTTP transport, e.g. with a HAR replayer or
// recorder.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) {
		o.transport = rt
	}
}

// WithClock replaces time.Now for session expiry bookkeeping.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTimeout bounds every single request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithInstrumentOutput dumps every HTTP message to out.
func WithInstrumentOutput(out restyutil.InstrumentOutput) Option {
	return func(o *options) {
		o.output = out
	}
}

func NewBNIScraper(opts ...Option) (*BNIScraper, error) {
	o := options{
		baseURL: BaseURL,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	base, err := url.Parse(o.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetCookieJar(jar)
	if o.transport != nil {
		client.SetTransport(o.transport)
	}
	client.SetHeader("User-Agent", UserAgent)
	client.SetRedirectPolicy(
		resty.FlexibleRedirectPolicy(10),
		resty.DomainCheckRedirectPolicy(base.Hostname()),
	)
	if o.timeout > 0 {
		client.SetTimeout(o.timeout)
	}

	logger := o.logger.With("bank", string(bank.BankBNI))
	restyutil.InstrumentClient(client, logger, tracer, o.output)

	return &BNIScraper{
		http:    client,
		baseURL: base.String(),
		now:     o.now,
		logger:  logger,
		session: bank.Session{BankCode: bank.BankBNI},
	}, nil
}

// IsAlive reports whether a login happened and its validity window is still
// open. It never talks to the portal.
func (s *BNIScraper) IsAlive() bool {
	return s.session.AliveAt(s.now())
}

// DisplayName returns the profile name shown after login, if any.
func (s *BNIScraper) DisplayName() string {
	return s.session.DisplayName
}

// Session returns a copy of the current session state.
func (s *BNIScraper) Session() bank.Session {
	return s.session
}

// requireAlive fails fast when the session window has closed. A session that
// expired on its own is cleared here.
func (s *BNIScraper) requireAlive(ctx context.Context, op string) error {
	if s.IsAlive() {
		return nil
	}
	if s.session.Authenticated {
		s.logger.InfoContext(ctx, "session window elapsed", "op", op, "expired_at", s.session.ExpiresAt)
		s.session.Reset()
	}
	return s.fail(op, bank.KindSessionExpired, nil, "")
}

// checkServerExpiry clears the session when the portal answers with its
// "please log in again" page.
func (s *BNIScraper) checkServerExpiry(ctx context.Context, op string, p *page) error {
	if !IsForcedRelogin(p.doc, p.body) {
		return nil
	}
	s.logger.WarnContext(ctx, "portal ended the session", "op", op, "url", p.url.String())
	s.session.Reset()
	return s.fail(op, bank.KindSessionExpired, nil, "portal asked to log in again")
}

func (s *BNIScraper) fail(op string, kind bank.ErrorKind, cause error, details string) error {
	return &bank.ScraperError{
		BankCode:  bank.BankBNI,
		Operation: op,
		Kind:      kind,
		Cause:     cause,
		Details:   details,
	}
}

// shapeErr wraps a parsing error, keeping ScraperErrors as they are.
func (s *BNIScraper) shapeErr(op string, err error) error {
	if _, ok := bank.KindOf(err); ok {
		return err
	}
	return s.fail(op, bank.KindUnexpectedPageShape, err, "")
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
