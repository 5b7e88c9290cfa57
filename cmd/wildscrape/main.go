// wildscrape extracts the Wilderness Flash Events rotation table from the
// game wiki and writes it as the JSON feed consumed by wildtrack. It runs
// once by default; with -cron it keeps re-scraping on the given schedule.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	appLog "wildtrack/internal/log"
	"wildtrack/internal/scrape"
)

func main() {
	var (
		url      = flag.String("url", scrape.DefaultURL, "Wiki page holding the rotation table")
		out      = flag.String("out", "events.json", "Output path for the JSON feed")
		cronSpec = flag.String("cron", "", "Cron spec for periodic re-scraping (empty = run once)")
		timeout  = flag.Duration("timeout", 45*time.Second, "Per-scrape timeout")
	)
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	run := func() {
		if err := scrapeOnce(ctx, *url, *out, *timeout); err != nil {
			appLog.Error("scrape failed", err, "url", *url)
		}
	}

	if *cronSpec == "" {
		if err := scrapeOnce(ctx, *url, *out, *timeout); err != nil {
			appLog.Error("scrape failed", err, "url", *url)
			os.Exit(1)
		}
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(*cronSpec, run); err != nil {
		appLog.Error("invalid cron spec", err, "spec", *cronSpec)
		os.Exit(1)
	}

	run()
	c.Start()
	defer c.Stop()

	<-ctx.Done()
	appLog.Info("wildscrape exiting")
}

func scrapeOnce(ctx context.Context, url, out string, timeout time.Duration) error {
	events, err := scrape.Rotation(ctx, scrape.Options{URL: url, Timeout: timeout})
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return err
	}

	// Atomic replace so a reader never sees a half-written feed.
	dir := filepath.Dir(out)
	tmp, err := os.CreateTemp(dir, ".events-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, out); err != nil {
		return err
	}

	appLog.Info("rotation written", "path", out, "events", len(events))
	return nil
}
