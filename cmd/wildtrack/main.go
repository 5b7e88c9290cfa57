package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"wildtrack/internal/config"
	"wildtrack/internal/feed"
	appLog "wildtrack/internal/log"
	"wildtrack/internal/model"
	"wildtrack/internal/notify"
	"wildtrack/internal/schedule"
	"wildtrack/internal/tui"
	"wildtrack/internal/web"
)

type flagConfig struct {
	configPath string
	listen     string
	once       bool
	watch      bool
	debug      bool
}

// tracker ties the refresh cycle together: latest rotation snapshot,
// notification applier and the timezone occurrences resolve in.
type tracker struct {
	cfg     *config.Config
	fetcher *feed.Fetcher
	applier *notify.Applier
	loc     *time.Location

	mu    sync.RWMutex
	raw   []model.RawEvent
	sched model.Schedule
	prefs model.Preferences
}

func main() {
	appLog.Info("wildtrack starting", "version", "0.1.0")

	flags := parseFlags()
	if flags.debug {
		appLog.SetLevel(appLog.LevelDebug)
	}

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"refresh", conf.RefreshCron,
		"horizon_days", conf.HorizonDays,
		"feed", conf.Feed.URL,
		"notify_filter", string(conf.Notify.NotifyClassFilter),
		"notify_minutes", conf.Notify.NotifyMinutesBefore,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	loc := time.Local
	if conf.Timezone != "" {
		if l, err := time.LoadLocation(conf.Timezone); err == nil {
			loc = l
		} else {
			appLog.Error("bad timezone, using local", err, "timezone", conf.Timezone)
		}
	}

	cacheDir := conf.CacheDir
	if flags.debug {
		cacheDir = "./cache/feed-cache"
	}

	tr := &tracker{
		cfg:     conf,
		fetcher: feed.NewFetcher(cacheDir),
		applier: notify.NewApplier(notify.NewDesktopScheduler()),
		loc:     loc,
		prefs:   conf.Notify,
	}

	srv := web.NewServer(conf, flags.configPath, func(prefs model.Preferences) {
		tr.replan(ctx, prefs)
	})

	// First refresh before serving anything.
	tr.refresh(ctx, srv)

	if flags.once {
		appLog.Info("single refresh complete, exiting")
		return
	}

	// Periodic refresh driven by cron; the watch view polls the snapshot
	// every tick, so it picks up refreshes without restarting.
	c := cron.New()
	if _, err := c.AddFunc(conf.RefreshCron, func() { tr.refresh(ctx, srv) }); err != nil {
		appLog.Error("invalid refresh cron spec", err, "spec", conf.RefreshCron)
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()

	if flags.watch {
		if err := tui.Run(tr.snapshot); err != nil {
			appLog.Error("watch view failed", err)
			os.Exit(1)
		}
		return
	}

	httpServer := &http.Server{
		Addr:    conf.Listen,
		Handler: srv.Handler(),
	}

	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+conf.Listen)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("HTTP server failed", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLog.Error("HTTP shutdown failed", err)
	}
	appLog.Info("wildtrack exiting")
}

// refresh runs one fetch/build/replan cycle. A failed fetch or decode keeps
// the previous snapshot: stale rotation beats no rotation.
func (t *tracker) refresh(ctx context.Context, srv *web.Server) {
	now := time.Now().In(t.loc)

	res, err := t.fetcher.Fetch(ctx, feed.Source{ID: t.cfg.Feed.ID, URL: t.cfg.Feed.URL})
	if err != nil {
		appLog.Error("refresh: feed fetch failed, keeping last schedule", err, "id", t.cfg.Feed.ID)
		return
	}

	raw, dropped, err := feed.Parse(res.Body)
	if err != nil {
		appLog.Error("refresh: feed decode failed, keeping last schedule", err, "id", t.cfg.Feed.ID)
		return
	}

	sched, skipped := schedule.Build(raw, now)

	t.mu.Lock()
	t.raw = raw
	t.sched = sched
	t.mu.Unlock()

	srv.SetRotation(raw, sched, now)

	appLog.Info("refresh complete",
		"events", len(sched),
		"dropped_rows", dropped,
		"skipped_entries", skipped,
		"from_cache", res.FromCache,
	)

	t.mu.RLock()
	prefs := t.prefs
	t.mu.RUnlock()
	t.replan(ctx, prefs)
}

// replan recomputes and applies the notification plan for the current
// schedule snapshot. Runs after every refresh and preference change; the
// applier's generation token lets a newer run supersede a slower older one.
func (t *tracker) replan(ctx context.Context, prefs model.Preferences) {
	t.mu.Lock()
	t.prefs = prefs
	sched := t.sched
	t.mu.Unlock()

	jobs := notify.Plan(sched, prefs, time.Now().In(t.loc))
	if err := t.applier.Apply(ctx, jobs); err != nil {
		if errors.Is(err, notify.ErrSuperseded) {
			appLog.Debug("replan superseded by newer run")
			return
		}
		appLog.Error("replan failed", err)
	}
}

func (t *tracker) snapshot() model.Schedule {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sched
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/wildtrack/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.once, "once", false, "Run one fetch+replan cycle and exit")
	flag.BoolVar(&cfg.watch, "watch", false, "Run the terminal countdown view instead of the server")
	flag.BoolVar(&cfg.debug, "debug", false, "Debug logging and local cache paths")

	flag.Parse()

	return cfg
}
