package commands

import (
	"context"
	"fmt"

	"github.com/lc-at/bni-api/internal/scraper/bank"
	"github.com/lc-at/bni-api/internal/scraper/bank/bni"
	"github.com/lc-at/bni-api/internal/scraper/har"
	"github.com/lc-at/bni-api/internal/scraper/restyutil"
)

// withSession logs in, runs fn and logs out again. With BNI_RECORD_HAR set
// the whole exchange is saved, sanitized, even when fn fails.
func withSession(ctx context.Context, fn func(context.Context, *bni.BNIScraper) error) (err error) {
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts := []bni.Option{
		bni.WithBaseURL(cfg.BaseURL),
		bni.WithTimeout(cfg.Timeout),
		bni.WithLogger(logger),
	}

	var recorder *har.Recorder
	if cfg.RecordHAR != "" {
		recorder = har.NewRecorder(nil)
		opts = append(opts, bni.WithTransport(recorder))
	}
	if cfg.DumpDir != "" {
		out, err := restyutil.NewFilesystemOutput(cfg.DumpDir)
		if err != nil {
			return err
		}
		opts = append(opts, bni.WithInstrumentOutput(out))
	}

	scraper, err := bni.NewBNIScraper(opts...)
	if err != nil {
		return fmt.Errorf("create scraper: %w", err)
	}

	if recorder != nil {
		defer func() {
			if saveErr := har.Save(cfg.RecordHAR, har.Sanitize(recorder.Log())); saveErr != nil {
				logger.Error("failed to save recording", "path", cfg.RecordHAR, "error", saveErr)
				return
			}
			logger.Info("session recorded", "path", cfg.RecordHAR)
		}()
	}

	err = scraper.Login(ctx, bank.Credentials{UserID: cfg.UserID, Password: cfg.Password})
	if err != nil {
		return err
	}
	defer func() {
		// Log out even when ctx was cancelled, the portal keeps one session per user.
		if logoutErr := scraper.Logout(context.WithoutCancel(ctx)); logoutErr != nil {
			logger.Warn("logout failed", "error", logoutErr)
		}
	}()

	return fn(ctx, scraper)
}
