package bni

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/lc-at/bni-api/internal/scraper/bank"
)

// page is a fetched response: its final URL after redirects and the parsed
// document.
type page struct {
	url  *url.URL
	body string
	doc  *goquery.Document
}

func (p *page) resolve(ref string) (string, error) {
	return resolveURL(p.url, ref)
}

// fetch performs one request on the session's client. It does not touch the
// cursor or the Referer header.
func (s *BNIScraper) fetch(ctx context.Context, op, method, target string, fields *Fields) (*page, error) {
	req := s.http.R().SetContext(ctx)
	if fields != nil {
		req.SetHeader("Content-Type", "application/x-www-form-urlencoded").
			SetBody(fields.Encode())
	}

	res, err := req.Execute(method, target)
	if err != nil {
		return nil, s.fail(op, bank.KindTransport, err, fmt.Sprintf("%s %s", method, target))
	}
	if res.IsError() {
		return nil, s.fail(op, bank.KindTransport, nil, fmt.Sprintf("%s %s: %s", method, target, res.Status()))
	}

	final := res.Request.RawRequest.URL
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		final = res.RawResponse.Request.URL
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, s.fail(op, bank.KindUnexpectedPageShape, err, "parse html")
	}

	return &page{url: final, body: string(res.Body()), doc: doc}, nil
}

// request fetches target and advances the cursor: the Referer header follows
// the resolved URL and the page becomes the base for the next form
// submission. While authenticated, every page is checked for the portal's
// forced re-login notice.
func (s *BNIScraper) request(ctx context.Context, op, method, target string, fields *Fields) (*page, error) {
	p, err := s.fetch(ctx, op, method, target, fields)
	if err != nil {
		return nil, err
	}
	s.http.SetHeader("Referer", p.url.String())
	s.cursor = p
	if s.session.Authenticated {
		if err := s.checkServerExpiry(ctx, op, p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

type submitOptions struct {
	// allow lets excluded fields through by name
	allow []string
	// prefix excludes fields by name prefix; empty keeps every field
	prefix string
	// drop removes fields after extraction
	drop []string
	// extra is merged last and wins over extracted values
	extra *Fields
}

// submitForm "clicks" the current page's form: it rebuilds the field set from
// the cursor, applies opts and posts it to the form action.
func (s *BNIScraper) submitForm(ctx context.Context, op string, opts submitOptions) (*page, error) {
	if s.cursor == nil {
		return nil, s.fail(op, bank.KindUnexpectedPageShape, nil, "no current page")
	}

	form, err := ExtractForm(s.cursor.doc, s.cursor.url, opts.allow, opts.prefix)
	if err != nil {
		return nil, s.shapeErr(op, err)
	}
	for _, name := range opts.drop {
		form.Fields.Delete(name)
	}
	form.Fields.Merge(opts.extra)

	s.logger.DebugContext(ctx, "submit form", "op", op, "action", form.Action, "fields", form.Fields.Names())
	return s.request(ctx, op, http.MethodPost, form.Action, form.Fields)
}

// restoreHome brings the cursor back to the portal's home page.
func (s *BNIScraper) restoreHome(ctx context.Context, op string) error {
	_, err := s.submitForm(ctx, op, submitOptions{
		allow:  []string{FieldHome},
		prefix: ExcludedFieldPrefix,
	})
	return err
}
