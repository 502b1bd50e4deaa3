package bni

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/lc-at/bni-api/internal/scraper/bank"
)

var innerWhitespace = regexp.MustCompile(`\s+`)

func cleanText(s string) string {
	return strings.TrimSpace(innerWhitespace.ReplaceAllString(s, " "))
}

// --- LOGIN / SESSION ---

// LoginErrorMessage reports whether a login result page is a failure, and
// the bank's message when it is. Both the inline credential error and the
// "please log in again" message count as failures.
func LoginErrorMessage(doc *goquery.Document, body string) (string, bool) {
	if el := doc.Find(SelectorLoginError).First(); el.Length() > 0 {
		return cleanText(el.Text()), true
	}
	if IsForcedRelogin(doc, body) {
		return cleanText(doc.Find(SelectorMessage).First().Text()), true
	}
	return "", false
}

// IsForcedRelogin reports whether the page is the portal's "log in again"
// notice.
func IsForcedRelogin(doc *goquery.Document, body string) bool {
	return doc.Find(SelectorMessage).Length() > 0 && strings.Contains(body, TextForcedRelogin)
}

// ProfileName returns the display name shown on the landing page.
func ProfileName(doc *goquery.Document) (string, bool) {
	el := doc.Find(SelectorProfileName).First()
	if el.Length() == 0 {
		return "", false
	}
	return cleanText(el.Text()), true
}

// IsLogoutConfirmed reports whether the page is the final logout notice.
func IsLogoutConfirmed(body string) bool {
	return strings.Contains(body, TextLogoutConfirmed)
}

// --- ACCOUNT SUMMARY ---

// ParseTotalBalance returns the last TotalAmt figure of the overview page.
func ParseTotalBalance(doc *goquery.Document) (string, error) {
	el := doc.Find(SelectorTotalAmount).Last()
	if el.Length() == 0 {
		return "", fmt.Errorf("%w: %s not found", bank.ErrUnexpectedPageShape, SelectorTotalAmount)
	}
	total := cleanText(el.Text())
	if total == "" {
		return "", fmt.Errorf("%w: %s is empty", bank.ErrUnexpectedPageShape, SelectorTotalAmount)
	}
	return total, nil
}

// AccountDetailLinks returns the account detail URLs of the overview page in
// document order, resolved against base.
func AccountDetailLinks(doc *goquery.Document, base *url.URL) ([]string, error) {
	var links []string
	var linkErr error
	doc.Find(SelectorAccountDetailLink).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		if !ok {
			return true
		}
		link, err := resolveURL(base, href)
		if err != nil {
			linkErr = err
			return false
		}
		links = append(links, link)
		return true
	})
	if linkErr != nil {
		return nil, linkErr
	}
	return links, nil
}

// ParseAccountDetail reads the general and balance rows of an account detail
// page. A cell without a nested span reads as an empty string; a missing cell
// is an error.
func ParseAccountDetail(doc *goquery.Document) (bank.AccountDetail, error) {
	var d bank.AccountDetail
	tables := [2][5]*string{
		{
			&d.General.AccountNumber,
			&d.General.ShortName,
			&d.General.Name,
			&d.General.Product,
			&d.General.Currency,
		},
		{
			&d.Balance.EffectiveBalance,
			&d.Balance.BlockingBalance,
			&d.Balance.NotEffectiveBalance,
			&d.Balance.Interest,
			&d.Balance.Balance,
		},
	}

	for table, columns := range tables {
		for j, dst := range columns {
			row := j + 1
			cells := doc.Find(fmt.Sprintf(selectorAccountDetailCell, row, row))
			if cells.Length() <= table {
				return bank.AccountDetail{}, fmt.Errorf(
					"%w: Row%d_%d_column2 of table %d not found",
					bank.ErrUnexpectedPageShape, row, row, table+1,
				)
			}
			*dst = spanText(cells.Eq(table))
		}
	}

	return d, nil
}

func spanText(cell *goquery.Selection) string {
	span := cell.Find("span").First()
	if span.Length() == 0 {
		return ""
	}
	return cleanText(span.Text())
}

// --- TRANSACTION HISTORY ---

// FindAccountInput returns the name and value of the first form input whose
// value contains accountNumber.
func FindAccountInput(doc *goquery.Document, accountNumber string) (name, value string, ok bool) {
	if strings.TrimSpace(accountNumber) == "" {
		return "", "", false
	}
	doc.Find(SelectorForm).Find("input").EachWithBreak(func(_ int, input *goquery.Selection) bool {
		n, hasName := input.Attr("name")
		v := input.AttrOr("value", "")
		if !hasName || n == "" || !strings.Contains(v, accountNumber) {
			return true
		}
		name, value, ok = n, v, true
		return false
	})
	return name, value, ok
}

var transactionLabels = []string{LabelDate, LabelDescription, LabelType, LabelAmount, LabelBalance}

// labelValues returns, for every cell whose text is label, the text of the
// element right after it, in document order. It stops at the first label
// cell without a sibling.
func labelValues(doc *goquery.Document, label string) []string {
	var values []string
	doc.Find("td").EachWithBreak(func(_ int, td *goquery.Selection) bool {
		if cleanText(td.Text()) != label {
			return true
		}
		next := td.Next()
		if next.Length() == 0 {
			return false
		}
		values = append(values, cleanText(next.Text()))
		return true
	})
	return values
}

// ParseTransactions reads the result page row by row. Row i exists when all
// five labels have an i-th value; the first index where any label runs out
// is the end of the table.
func ParseTransactions(doc *goquery.Document) []bank.Transaction {
	columns := make([][]string, len(transactionLabels))
	rows := -1
	for k, label := range transactionLabels {
		columns[k] = labelValues(doc, label)
		if rows < 0 || len(columns[k]) < rows {
			rows = len(columns[k])
		}
	}

	txns := make([]bank.Transaction, 0, rows)
	for i := 0; i < rows; i++ {
		txns = append(txns, bank.Transaction{
			Date:        columns[0][i],
			Description: columns[1][i],
			Type:        columns[2][i],
			Amount:      columns[3][i],
			Balance:     columns[4][i],
		})
	}
	return txns
}
