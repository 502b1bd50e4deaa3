package bni

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lc-at/bni-api/internal/scraper/bank"
	"github.com/lc-at/bni-api/internal/scraper/bank/testutil"
	"github.com/lc-at/bni-api/internal/scraper/har"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestMode string

const (
	TestModeMock   TestMode = "mock"   // Use static fixtures
	TestModeReplay TestMode = "replay" // Replay recorded sessions
	TestModeLive   TestMode = "live"   // Hit the real portal (dangerous!)
)

func getTestMode() TestMode {
	mode := os.Getenv("SCRAPER_TEST_MODE")
	if mode == "" {
		return TestModeMock
	}
	return TestMode(mode)
}

// skipUnlessMode skips test if not in specified mode
func skipUnlessMode(t *testing.T, required TestMode) {
	if getTestMode() != required {
		t.Skipf("Skipping: requires SCRAPER_TEST_MODE=%s", required)
	}
}

// actionURL is where every form of the fixtures posts to once logged in.
const actionURL = "https://ibank.bni.co.id/MBAWeb/FMB;jsessionid=0000sYkWQ0:1a2b3c"

var testCreds = bank.Credentials{UserID: "budi1990", Password: "rahasia"}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func fixturePage(t *testing.T, method, url, name string) har.Entry {
	t.Helper()
	return testutil.FixtureEntry(t, "bni", method, url, name)
}

func loginEntries(t *testing.T) []har.Entry {
	return []har.Entry{
		fixturePage(t, http.MethodGet, BaseURL, "portal"),
		fixturePage(t, http.MethodGet, BaseURL+"?page=Thx", "login"),
		fixturePage(t, http.MethodPost, BaseURL, "home"),
	}
}

func summaryEntries(t *testing.T) []har.Entry {
	return []har.Entry{
		fixturePage(t, http.MethodPost, actionURL, "dashboard"),
		fixturePage(t, http.MethodGet, BaseURL+"?dbAcc=1", "account_detail"),
		fixturePage(t, http.MethodGet, BaseURL+"?dbAcc=2", "account_detail_2"),
		fixturePage(t, http.MethodPost, actionURL, "home"),
	}
}

func historyEntries(t *testing.T, result string) []har.Entry {
	return []har.Entry{
		fixturePage(t, http.MethodPost, actionURL, "dashboard"),
		fixturePage(t, http.MethodGet, BaseURL+"?page=TxnHistory", "history_type"),
		fixturePage(t, http.MethodPost, actionURL, "history_accounts"),
		fixturePage(t, http.MethodPost, actionURL, result),
		fixturePage(t, http.MethodPost, actionURL, "home"),
	}
}

func newTestScraper(t *testing.T, entries ...[]har.Entry) (*BNIScraper, *har.Replayer, *fakeClock) {
	t.Helper()

	var log har.Log
	for _, e := range entries {
		log.Entries = append(log.Entries, e...)
	}

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	replayer := har.NewReplayer(&log, har.WithLogger(quiet))
	clock := &fakeClock{now: time.Date(2019, time.June, 10, 9, 0, 0, 0, time.UTC)}

	scraper, err := NewBNIScraper(
		WithTransport(replayer),
		WithClock(clock.Now),
		WithLogger(quiet),
		WithTimeout(5*time.Second),
	)
	require.NoError(t, err)

	return scraper, replayer, clock
}

func formBody(t *testing.T, req har.Request) url.Values {
	t.Helper()
	values, err := url.ParseQuery(req.Body)
	require.NoError(t, err)
	return values
}

func requireScraperError(t *testing.T, err error, kind bank.ErrorKind, op string) *bank.ScraperError {
	t.Helper()
	var se *bank.ScraperError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, kind, se.Kind)
	assert.Equal(t, op, se.Operation)
	assert.Equal(t, bank.BankBNI, se.BankCode)
	return se
}

// --- LOGIN ---

func TestBNIScraper_Login_Success(t *testing.T) {
	scraper, replayer, clock := newTestScraper(t, loginEntries(t))

	assert.False(t, scraper.IsAlive(), "no session before login")

	err := scraper.Login(context.Background(), testCreds)
	require.NoError(t, err)

	assert.True(t, scraper.IsAlive())
	assert.Equal(t, "BUDI SANTOSO", scraper.DisplayName())

	session := scraper.Session()
	assert.True(t, session.Authenticated)
	assert.Equal(t, bank.BankBNI, session.BankCode)
	assert.Equal(t, clock.Now().Add(4*time.Minute+50*time.Second), session.ExpiresAt)
	assert.Equal(t, BaseURL, session.LandingURL)

	reqs := replayer.Requests()
	require.Len(t, reqs, 3)

	login := reqs[2]
	assert.Equal(t, http.MethodPost, login.Method)
	body := formBody(t, login)
	assert.Equal(t, "budi1990", body.Get(FieldCorpID))
	assert.Equal(t, "rahasia", body.Get(FieldPassword))
	// The login form is posted whole, framework fields included.
	assert.Equal(t, "Login", body.Get("__AUTHENTICATE__"))
	assert.Equal(t, "4a3b2c1d", body.Get("__JS_ENCRYPT_KEY__"))

	assert.Equal(t, UserAgent, har.HeaderValue(login.Headers, "User-Agent"))
	assert.Equal(t, BaseURL+"?page=Thx&rnd=1560000000", har.HeaderValue(login.Headers, "Referer"))
}

func TestBNIScraper_Login_FollowsRedirect(t *testing.T) {
	landing := "https://ibank.bni.co.id/MBAWeb/FMB;jsessionid=abc?page=Home"
	scraper, replayer, _ := newTestScraper(t, []har.Entry{
		fixturePage(t, http.MethodGet, BaseURL, "portal"),
		fixturePage(t, http.MethodGet, BaseURL+"?page=Thx", "login"),
		testutil.RedirectEntry(http.MethodPost, BaseURL, landing),
		fixturePage(t, http.MethodGet, "https://ibank.bni.co.id/MBAWeb/FMB;jsessionid=abc", "home"),
		fixturePage(t, http.MethodPost, actionURL, "logout_confirm"),
		fixturePage(t, http.MethodPost, actionURL, "logout_done"),
	})
	ctx := context.Background()

	require.NoError(t, scraper.Login(ctx, testCreds))
	assert.Equal(t, landing, scraper.Session().LandingURL)
	assert.Equal(t, "BUDI SANTOSO", scraper.DisplayName())

	require.NoError(t, scraper.Logout(ctx))

	reqs := replayer.Requests()
	require.Len(t, reqs, 6)
	assert.Equal(t, http.MethodGet, reqs[3].Method, "302 after a POST is followed with a GET")
	assert.Equal(t, landing, har.HeaderValue(reqs[4].Headers, "Referer"))
}

func TestBNIScraper_Login_IdempotentWhileAlive(t *testing.T) {
	scraper, replayer, _ := newTestScraper(t, loginEntries(t))

	require.NoError(t, scraper.Login(context.Background(), testCreds))
	require.NoError(t, scraper.Login(context.Background(), testCreds))

	assert.Len(t, replayer.Requests(), 3, "second login must not hit the portal")
}

func TestBNIScraper_Login_InvalidCredentials(t *testing.T) {
	scraper, _, _ := newTestScraper(t, []har.Entry{
		fixturePage(t, http.MethodGet, BaseURL, "portal"),
		fixturePage(t, http.MethodGet, BaseURL, "login"),
		fixturePage(t, http.MethodPost, BaseURL, "login_error"),
	})

	err := scraper.Login(context.Background(), testCreds)

	require.Error(t, err)
	assert.ErrorIs(t, err, bank.ErrAuthFailed)
	se := requireScraperError(t, err, bank.KindAuthFailed, "Login")
	assert.Equal(t, "User ID atau Password yang Anda masukkan salah", se.Details)
	assert.False(t, scraper.IsAlive())
	assert.False(t, scraper.Session().Authenticated)
}

func TestBNIScraper_Login_ForcedRelogin(t *testing.T) {
	scraper, _, _ := newTestScraper(t, []har.Entry{
		fixturePage(t, http.MethodGet, BaseURL, "portal"),
		fixturePage(t, http.MethodGet, BaseURL, "login"),
		fixturePage(t, http.MethodPost, BaseURL, "login_relogin"),
	})

	err := scraper.Login(context.Background(), testCreds)

	assert.ErrorIs(t, err, bank.ErrAuthFailed)
	assert.ErrorContains(t, err, "login kembali")
	assert.False(t, scraper.IsAlive())
}

func TestBNIScraper_Login_TransportFailure(t *testing.T) {
	scraper, _, _ := newTestScraper(t)

	err := scraper.Login(context.Background(), testCreds)

	assert.ErrorIs(t, err, bank.ErrTransport)
	assert.ErrorContains(t, err, "404")
	assert.False(t, scraper.IsAlive())
}

func TestBNIScraper_Login_MissingRetailUserLink(t *testing.T) {
	scraper, _, _ := newTestScraper(t, []har.Entry{
		fixturePage(t, http.MethodGet, BaseURL, "home"),
	})

	err := scraper.Login(context.Background(), testCreds)

	assert.ErrorIs(t, err, bank.ErrUnexpectedPageShape)
	assert.ErrorContains(t, err, SelectorRetailUserLink)
}

func TestBNIScraper_IsAlive_Expiry(t *testing.T) {
	scraper, _, clock := newTestScraper(t, loginEntries(t))
	require.NoError(t, scraper.Login(context.Background(), testCreds))

	clock.Advance(4*time.Minute + 49*time.Second)
	assert.True(t, scraper.IsAlive())

	clock.Advance(time.Second)
	assert.False(t, scraper.IsAlive(), "window closes 10s before the portal's")
}

// --- LOGOUT ---

func TestBNIScraper_Logout_Success(t *testing.T) {
	scraper, replayer, _ := newTestScraper(t, loginEntries(t), []har.Entry{
		fixturePage(t, http.MethodPost, actionURL, "logout_confirm"),
		fixturePage(t, http.MethodPost, actionURL, "logout_done"),
	})
	require.NoError(t, scraper.Login(context.Background(), testCreds))

	err := scraper.Logout(context.Background())
	require.NoError(t, err)

	assert.False(t, scraper.IsAlive())
	assert.False(t, scraper.Session().Authenticated)

	reqs := replayer.Requests()
	require.Len(t, reqs, 5)

	confirm := formBody(t, reqs[3])
	assert.False(t, confirm.Has(FieldDashboard))
	assert.Equal(t, "Keluar", confirm.Get(FieldLogOut))
	assert.Equal(t, "b81e2f", confirm.Get("__NAV_TOKEN__"))

	done := formBody(t, reqs[4])
	assert.False(t, done.Has(FieldBack))
	assert.Equal(t, "Ya", done.Get(FieldLogOut))
	assert.Equal(t, actionURL, har.HeaderValue(reqs[4].Headers, "Referer"))
}

func TestBNIScraper_Logout_NotLoggedIn(t *testing.T) {
	scraper, replayer, _ := newTestScraper(t)

	err := scraper.Logout(context.Background())

	assert.ErrorIs(t, err, bank.ErrSessionExpired)
	assert.Empty(t, replayer.Requests())
}

func TestBNIScraper_Logout_AfterExpiry(t *testing.T) {
	scraper, replayer, clock := newTestScraper(t, loginEntries(t))
	require.NoError(t, scraper.Login(context.Background(), testCreds))
	clock.Advance(SessionTTL)

	err := scraper.Logout(context.Background())

	assert.ErrorIs(t, err, bank.ErrSessionExpired)
	assert.Len(t, replayer.Requests(), 3)
	assert.False(t, scraper.Session().Authenticated)
}

func TestBNIScraper_Logout_NotConfirmed(t *testing.T) {
	scraper, _, _ := newTestScraper(t, loginEntries(t), []har.Entry{
		fixturePage(t, http.MethodPost, actionURL, "logout_confirm"),
		fixturePage(t, http.MethodPost, actionURL, "home"),
	})
	require.NoError(t, scraper.Login(context.Background(), testCreds))

	err := scraper.Logout(context.Background())

	assert.ErrorIs(t, err, bank.ErrLogoutFailed)
	assert.True(t, scraper.IsAlive(), "session is kept when logout is not confirmed")
}

// --- SUMMARY ---

func TestBNIScraper_Summary(t *testing.T) {
	scraper, replayer, _ := newTestScraper(t, loginEntries(t), summaryEntries(t))
	require.NoError(t, scraper.Login(context.Background(), testCreds))

	summary, err := scraper.Summary(context.Background())
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.Equal(t, "IDR 12.345.678,00", summary.TotalBalance)
	require.Len(t, summary.Accounts, 2)

	assert.Equal(t, bank.AccountDetail{
		General: bank.GeneralDetails{
			AccountNumber: "1234567890",
			ShortName:     "BUDI",
			Name:          "BUDI SANTOSO",
			Product:       "TAPLUS",
			Currency:      "IDR",
		},
		Balance: bank.BalanceDetails{
			EffectiveBalance:    "IDR 12.000.000,00",
			BlockingBalance:     "",
			NotEffectiveBalance: "IDR 0,00",
			Interest:            "IDR 1.250,50",
			Balance:             "IDR 12.000.000,00",
		},
	}, summary.Accounts[0])
	assert.Equal(t, "0987654321", summary.Accounts[1].General.AccountNumber)
	assert.Equal(t, "TAPLUS MUDA", summary.Accounts[1].General.Product)

	reqs := replayer.Requests()
	require.Len(t, reqs, 7)

	overview := formBody(t, reqs[3])
	assert.False(t, overview.Has(FieldLogOut))
	assert.Equal(t, "Rekening", overview.Get(FieldDashboard))

	home := formBody(t, reqs[6])
	assert.Equal(t, "Beranda", home.Get(FieldHome))
	assert.False(t, home.Has(FieldBack))
	assert.Equal(t, 0, replayer.Remaining())
}

func TestBNIScraper_Summary_ThenLogout(t *testing.T) {
	scraper, _, _ := newTestScraper(t, loginEntries(t), summaryEntries(t), []har.Entry{
		fixturePage(t, http.MethodPost, actionURL, "logout_confirm"),
		fixturePage(t, http.MethodPost, actionURL, "logout_done"),
	})
	ctx := context.Background()
	require.NoError(t, scraper.Login(ctx, testCreds))

	_, err := scraper.Summary(ctx)
	require.NoError(t, err)

	assert.NoError(t, scraper.Logout(ctx), "cursor is back on the home page")
}

func TestBNIScraper_Summary_SessionWindowElapsed(t *testing.T) {
	scraper, replayer, clock := newTestScraper(t, loginEntries(t), summaryEntries(t))
	require.NoError(t, scraper.Login(context.Background(), testCreds))
	clock.Advance(SessionTTL)

	summary, err := scraper.Summary(context.Background())

	assert.Nil(t, summary)
	assert.ErrorIs(t, err, bank.ErrSessionExpired)
	assert.Len(t, replayer.Requests(), 3)
	assert.False(t, scraper.Session().Authenticated)
}

func TestBNIScraper_Summary_PortalEndedSession(t *testing.T) {
	scraper, _, _ := newTestScraper(t, loginEntries(t), []har.Entry{
		fixturePage(t, http.MethodPost, actionURL, "login_relogin"),
	})
	require.NoError(t, scraper.Login(context.Background(), testCreds))

	_, err := scraper.Summary(context.Background())

	assert.ErrorIs(t, err, bank.ErrSessionExpired)
	assert.False(t, scraper.IsAlive())
}

func TestBNIScraper_Summary_PortalEndedSessionOnDetailPage(t *testing.T) {
	scraper, replayer, _ := newTestScraper(t, loginEntries(t), []har.Entry{
		fixturePage(t, http.MethodPost, actionURL, "dashboard"),
		fixturePage(t, http.MethodGet, BaseURL+"?dbAcc=1", "login_relogin"),
		fixturePage(t, http.MethodGet, BaseURL+"?dbAcc=2", "account_detail_2"),
	})
	require.NoError(t, scraper.Login(context.Background(), testCreds))

	summary, err := scraper.Summary(context.Background())

	assert.Nil(t, summary)
	assert.ErrorIs(t, err, bank.ErrSessionExpired)
	requireScraperError(t, err, bank.KindSessionExpired, "Summary")
	assert.False(t, scraper.IsAlive())
	assert.False(t, scraper.Session().Authenticated)
	assert.Len(t, replayer.Requests(), 5, "no further account is fetched")
}

// --- TRANSACTION HISTORY ---

func TestBNIScraper_TransactionHistory(t *testing.T) {
	scraper, replayer, _ := newTestScraper(t, loginEntries(t), historyEntries(t, "history_result"))
	require.NoError(t, scraper.Login(context.Background(), testCreds))

	from := time.Date(2019, time.June, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2019, time.June, 10, 0, 0, 0, 0, time.UTC)
	txns, err := scraper.TransactionHistory(context.Background(), "1234567890", from, to)
	require.NoError(t, err)

	require.Len(t, txns, 3)
	assert.Equal(t, bank.Transaction{
		Date:        "03-Jun-2019",
		Description: "TRANSFER DARI | ANDI WIJAYA",
		Type:        "Cr",
		Amount:      "IDR 500.000,00",
		Balance:     "IDR 12.345.678,00",
	}, txns[0])
	assert.Equal(t, "PEMBELIAN PULSA 081234567890", txns[1].Description)
	assert.Equal(t, "01-Jun-2019", txns[2].Date)

	reqs := replayer.Requests()
	require.Len(t, reqs, 8)

	assert.Equal(t, http.MethodGet, reqs[4].Method)

	accountType := formBody(t, reqs[5])
	assert.Equal(t, AccountTypeOperational, accountType.Get(FieldMainAccountType))
	assert.False(t, accountType.Has(FieldHome))

	search := formBody(t, reqs[6])
	assert.Equal(t, SearchByDate, search.Get(FieldSearchOption))
	assert.Equal(t, TxnPeriodCustom, search.Get(FieldTxnPeriod))
	assert.Equal(t, "01-Jun-2019", search.Get(FieldFromDate))
	assert.Equal(t, "10-Jun-2019", search.Get(FieldToDate))
	assert.Equal(t, "OPR|0000001234567890|TAPLUS", search.Get("acc1"))
	assert.False(t, search.Has(FieldHome))

	assert.Equal(t, "Beranda", formBody(t, reqs[7]).Get(FieldHome))
	assert.Equal(t, 0, replayer.Remaining())
}

func TestBNIScraper_TransactionHistory_Empty(t *testing.T) {
	scraper, replayer, _ := newTestScraper(t, loginEntries(t), historyEntries(t, "history_empty"))
	require.NoError(t, scraper.Login(context.Background(), testCreds))

	from := time.Date(2019, time.June, 1, 0, 0, 0, 0, time.UTC)
	txns, err := scraper.TransactionHistory(context.Background(), "0987654321", from, from.AddDate(0, 0, 1))

	require.NoError(t, err)
	assert.Empty(t, txns)
	assert.Equal(t, 0, replayer.Remaining(), "home is restored after an empty result")
}

func TestBNIScraper_TransactionHistory_AccountNotFound(t *testing.T) {
	scraper, replayer, _ := newTestScraper(t, loginEntries(t), []har.Entry{
		fixturePage(t, http.MethodPost, actionURL, "dashboard"),
		fixturePage(t, http.MethodGet, BaseURL, "history_type"),
		fixturePage(t, http.MethodPost, actionURL, "history_accounts"),
		fixturePage(t, http.MethodPost, actionURL, "home"),
	}, summaryEntries(t))
	ctx := context.Background()
	require.NoError(t, scraper.Login(ctx, testCreds))

	from := time.Date(2019, time.June, 1, 0, 0, 0, 0, time.UTC)
	_, err := scraper.TransactionHistory(ctx, "5555555555", from, from.AddDate(0, 0, 7))

	assert.ErrorIs(t, err, bank.ErrAccountNotFound)
	assert.NotErrorIs(t, err, bank.ErrInvalidDateRange)
	se := requireScraperError(t, err, bank.KindAccountNotFound, "TransactionHistory")
	assert.Equal(t, "5555555555", se.Details)

	restore := formBody(t, replayer.Requests()[6])
	assert.Equal(t, "Beranda", restore.Get(FieldHome))

	// The cursor is back home, so the next operation starts from there.
	summary, err := scraper.Summary(ctx)
	require.NoError(t, err)
	assert.Len(t, summary.Accounts, 2)
}

func TestBNIScraper_TransactionHistory_PortalEndedSessionOnAccountsPage(t *testing.T) {
	scraper, replayer, _ := newTestScraper(t, loginEntries(t), []har.Entry{
		fixturePage(t, http.MethodPost, actionURL, "dashboard"),
		fixturePage(t, http.MethodGet, BaseURL+"?page=TxnHistory", "history_type"),
		fixturePage(t, http.MethodPost, actionURL, "login_relogin"),
	})
	require.NoError(t, scraper.Login(context.Background(), testCreds))

	from := time.Date(2019, time.June, 1, 0, 0, 0, 0, time.UTC)
	txns, err := scraper.TransactionHistory(context.Background(), "1234567890", from, from.AddDate(0, 0, 7))

	assert.Nil(t, txns)
	assert.ErrorIs(t, err, bank.ErrSessionExpired)
	assert.NotErrorIs(t, err, bank.ErrAccountNotFound)
	requireScraperError(t, err, bank.KindSessionExpired, "TransactionHistory")
	assert.False(t, scraper.IsAlive())
	assert.False(t, scraper.Session().Authenticated)
	assert.Equal(t, 0, replayer.Remaining())
	assert.Len(t, replayer.Requests(), 6, "home is not restored on an ended session")
}

func TestBNIScraper_Logout_PortalEndedSession(t *testing.T) {
	scraper, replayer, _ := newTestScraper(t, loginEntries(t), []har.Entry{
		fixturePage(t, http.MethodPost, actionURL, "login_relogin"),
	})
	require.NoError(t, scraper.Login(context.Background(), testCreds))

	err := scraper.Logout(context.Background())

	assert.ErrorIs(t, err, bank.ErrSessionExpired)
	assert.False(t, scraper.Session().Authenticated)
	assert.Len(t, replayer.Requests(), 4)
}

func TestBNIScraper_TransactionHistory_InvalidRange(t *testing.T) {
	day := time.Date(2019, time.June, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		from, to time.Time
	}{
		{"same day", day, day},
		{"same day different hours", day, day.Add(23 * time.Hour)},
		{"reversed", day.AddDate(0, 0, 5), day},
		{"thirty days", day, day.AddDate(0, 0, 30)},
		{"far apart", day, day.AddDate(0, 3, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scraper, replayer, _ := newTestScraper(t, loginEntries(t))
			require.NoError(t, scraper.Login(context.Background(), testCreds))

			txns, err := scraper.TransactionHistory(context.Background(), "1234567890", tt.from, tt.to)

			assert.Nil(t, txns)
			assert.ErrorIs(t, err, bank.ErrInvalidDateRange)
			assert.Len(t, replayer.Requests(), 3, "no request after login")
		})
	}
}

func TestBNIScraper_TransactionHistory_InvalidRangeBeforeSessionCheck(t *testing.T) {
	scraper, replayer, _ := newTestScraper(t)
	day := time.Date(2019, time.June, 1, 0, 0, 0, 0, time.UTC)

	_, err := scraper.TransactionHistory(context.Background(), "1234567890", day, day)

	assert.ErrorIs(t, err, bank.ErrInvalidDateRange)
	assert.Empty(t, replayer.Requests())
}

func TestBNIScraper_TransactionHistory_NotLoggedIn(t *testing.T) {
	scraper, replayer, _ := newTestScraper(t)
	day := time.Date(2019, time.June, 1, 0, 0, 0, 0, time.UTC)

	_, err := scraper.TransactionHistory(context.Background(), "1234567890", day, day.AddDate(0, 0, 29))

	assert.ErrorIs(t, err, bank.ErrSessionExpired)
	assert.Empty(t, replayer.Requests())
}

// --- RECORDED SESSIONS ---

// Integration test - runs only in replay mode
func TestBNIScraper_Summary_Replay_Integration(t *testing.T) {
	skipUnlessMode(t, TestModeReplay)

	harPath := filepath.Join("testdata", "recordings", "summary.har.json")
	if _, err := os.Stat(harPath); os.IsNotExist(err) {
		t.Skipf("Recording not found: %s\n", harPath)
	}

	log := testutil.MustLoadHAR(t, harPath)
	replayer := har.NewReplayer(log)
	t.Logf("Loaded HAR with %d entries", len(log.Entries))

	scraper, err := NewBNIScraper(WithTransport(replayer), WithTimeout(5*time.Second))
	require.NoError(t, err)

	// Credentials don't matter in replay mode
	ctx := context.Background()
	require.NoError(t, scraper.Login(ctx, testCreds))

	summary, err := scraper.Summary(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, summary.TotalBalance)
	t.Logf("Replayer stats: %v", replayer.Stats())
}

// Live test - hits the real portal with BNI_USER_ID and BNI_PASSWORD
func TestBNIScraper_Live(t *testing.T) {
	skipUnlessMode(t, TestModeLive)

	creds := bank.Credentials{
		UserID:   os.Getenv("BNI_USER_ID"),
		Password: os.Getenv("BNI_PASSWORD"),
	}
	if creds.UserID == "" || creds.Password == "" {
		t.Skip("BNI_USER_ID and BNI_PASSWORD are required")
	}

	scraper, err := NewBNIScraper(WithTimeout(30 * time.Second))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, scraper.Login(ctx, creds))
	defer func() { assert.NoError(t, scraper.Logout(ctx)) }()

	summary, err := scraper.Summary(ctx)
	require.NoError(t, err)
	t.Logf("Accounts: %d", len(summary.Accounts))
}
