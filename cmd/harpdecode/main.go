// cmd/harpdecode/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/harp-expander/internal/config"
	"github.com/tamzrod/harp-expander/internal/feed"
	"github.com/tamzrod/harp-expander/internal/metrics"
	"github.com/tamzrod/harp-expander/internal/mirror"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: harpdecode <config.yaml>")
		os.Exit(2)
	}

	// run owns every resource; it has released them all by the time it returns.
	if err := run(os.Args[1]); err != nil {
		logrus.Fatal(err)
	}
}

func run(cfgPath string) error {
	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)

	log := setupLogger(cfg.Decoder.Log)
	log.WithField("config", cfgPath).Info("harpdecode starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	if addr := cfg.Decoder.Metrics.Listen; addr != "" {
		srv := m.Serve(addr, log)
		defer srv.Close()
	}

	// --------------------
	// Build every stream before starting any
	// --------------------

	streams, closeAll, err := buildStreams(cfg.Decoder.Streams, log, m)
	if err != nil {
		return err
	}
	defer closeAll()

	// --------------------
	// Run
	// --------------------

	var wg sync.WaitGroup

	for _, st := range streams {
		st := st
		out := make(chan feed.Result)

		wg.Add(1)
		go func() {
			defer wg.Done()
			st.pipe.consume(out)
		}()

		// feed producer
		go func() {
			defer close(out)
			if err := st.feed.Run(ctx, out); err != nil && !errors.Is(err, context.Canceled) {
				st.pipe.log.WithError(err).Error("feed stopped")
			}
		}()
	}

	wg.Wait()
	log.Info("all streams drained")
	return nil
}

// stream is one built pipeline: its feed and the consumer state.
type stream struct {
	feed *feed.Feed
	pipe *pipeline
}

// buildStreams opens every feed and mirror client.
// On failure it closes whatever it already opened and returns the error.
// On success the caller must call closeAll once the streams are done.
func buildStreams(cfgs []config.StreamConfig, log logrus.FieldLogger, m *metrics.Metrics) ([]stream, func(), error) {
	var closers []func() error
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.WithError(err).Warn("close failed")
			}
		}
	}

	streams := make([]stream, 0, len(cfgs))
	for _, s := range cfgs {
		st, cl, err := buildStream(s, log, m)
		closers = append(closers, cl...)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("stream %s: %w", s.ID, err)
		}
		streams = append(streams, st)
	}

	return streams, closeAll, nil
}

// buildStream returns the closers of everything it opened, even on error.
func buildStream(s config.StreamConfig, log logrus.FieldLogger, m *metrics.Metrics) (stream, []func() error, error) {
	var closers []func() error

	// ---- feed ----
	f, closeFeed, err := feed.Build(s)
	if err != nil {
		return stream{}, closers, fmt.Errorf("feed build failed: %w", err)
	}
	closers = append(closers, closeFeed)

	p := &pipeline{
		id:      s.ID,
		log:     log.WithField("stream", s.ID).WithField("schema", s.Schema),
		metrics: m,
	}

	// ---- mirror (optional) ----
	if s.Mirror != nil {
		plan, err := mirror.BuildPlan(s)
		if err != nil {
			return stream{}, closers, fmt.Errorf("mirror plan failed: %w", err)
		}

		cli, closeMirror, err := mirror.BuildEndpointClient(
			plan,
			time.Duration(s.Mirror.TimeoutMs)*time.Millisecond,
		)
		if err != nil {
			return stream{}, closers, fmt.Errorf("mirror client failed (endpoint=%s): %w", plan.Endpoint, err)
		}
		closers = append(closers, closeMirror)

		p.data = mirror.New(plan, cli)
		p.status, p.statusEnabled = mirror.NewStatusWriter(plan, cli)
	}

	return stream{feed: f, pipe: p}, closers, nil
}

func setupLogger(cfg config.LogConfig) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339Nano,
		})
	}

	return log
}
