package bni

import (
	"context"
	"net/http"
	"time"

	"github.com/lc-at/bni-api/internal/scraper/bank"
)

// TransactionHistory searches the transactions of accountNumber between from
// and to (calendar dates, 1 to 29 days apart). An invalid range fails with
// KindInvalidDateRange before any request; an account missing from the
// portal's selector fails with KindAccountNotFound once the cursor is back on
// the home page. An empty result is not an error.
func (s *BNIScraper) TransactionHistory(ctx context.Context, accountNumber string, from, to time.Time) (_ []bank.Transaction, err error) {
	const op = "TransactionHistory"
	ctx, span := tracer.Start(ctx, "BNIScraper.TransactionHistory")
	defer func() { endSpan(span, err) }()

	if err := ValidateDateRange(from, to); err != nil {
		return nil, s.fail(op, bank.KindInvalidDateRange, nil, err.Error())
	}
	if err := s.requireAlive(ctx, op); err != nil {
		return nil, err
	}

	dashboard, err := s.submitForm(ctx, op, submitOptions{drop: []string{FieldLogOut}})
	if err != nil {
		return nil, err
	}

	href, ok := dashboard.doc.Find(SelectorHistoryLink).First().Attr("href")
	if !ok {
		return nil, s.fail(op, bank.KindUnexpectedPageShape, nil, SelectorHistoryLink+" not found")
	}
	historyURL, err := dashboard.resolve(href)
	if err != nil {
		return nil, s.shapeErr(op, err)
	}
	if _, err := s.request(ctx, op, http.MethodGet, historyURL, nil); err != nil {
		return nil, err
	}

	accounts, err := s.submitForm(ctx, op, submitOptions{
		prefix: ExcludedFieldPrefix,
		extra:  NewFields(FieldMainAccountType, AccountTypeOperational),
	})
	if err != nil {
		return nil, err
	}

	name, value, ok := FindAccountInput(accounts.doc, accountNumber)
	if !ok {
		if err := s.restoreHome(ctx, op); err != nil {
			return nil, err
		}
		return nil, s.fail(op, bank.KindAccountNotFound, nil, accountNumber)
	}

	search := NewFields(
		FieldSearchOption, SearchByDate,
		FieldTxnPeriod, TxnPeriodCustom,
		FieldFromDate, FormatDate(from),
		FieldToDate, FormatDate(to),
	)
	search.Set(name, value)

	result, err := s.submitForm(ctx, op, submitOptions{
		prefix: ExcludedFieldPrefix,
		extra:  search,
	})
	if err != nil {
		return nil, err
	}

	txns := ParseTransactions(result.doc)
	s.logger.DebugContext(ctx, "transaction history", "account", accountNumber, "rows", len(txns))

	if err := s.restoreHome(ctx, op); err != nil {
		return nil, err
	}
	return txns, nil
}
