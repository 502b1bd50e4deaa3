package bni

import (
	"context"
	"net/http"

	"github.com/lc-at/bni-api/internal/scraper/bank"
)

// Summary opens the account overview, then every account detail page, and
// returns the total balance with one AccountDetail per account in page order.
// The cursor ends on the home page.
func (s *BNIScraper) Summary(ctx context.Context) (_ *bank.AccountSummary, err error) {
	const op = "Summary"
	ctx, span := tracer.Start(ctx, "BNIScraper.Summary")
	defer func() { endSpan(span, err) }()

	if err := s.requireAlive(ctx, op); err != nil {
		return nil, err
	}

	// Dropping LogOut leaves dashBoard as the pressed button.
	overview, err := s.submitForm(ctx, op, submitOptions{drop: []string{FieldLogOut}})
	if err != nil {
		return nil, err
	}

	total, err := ParseTotalBalance(overview.doc)
	if err != nil {
		return nil, s.shapeErr(op, err)
	}
	links, err := AccountDetailLinks(overview.doc, overview.url)
	if err != nil {
		return nil, s.shapeErr(op, err)
	}
	s.logger.DebugContext(ctx, "account overview", "total", total, "accounts", len(links))

	summary := &bank.AccountSummary{
		TotalBalance: total,
		Accounts:     make([]bank.AccountDetail, 0, len(links)),
	}
	for _, link := range links {
		detailPage, err := s.request(ctx, op, http.MethodGet, link, nil)
		if err != nil {
			return nil, err
		}
		detail, err := ParseAccountDetail(detailPage.doc)
		if err != nil {
			return nil, s.shapeErr(op, err)
		}
		summary.Accounts = append(summary.Accounts, detail)
	}

	if err := s.restoreHome(ctx, op); err != nil {
		return nil, err
	}
	return summary, nil
}
