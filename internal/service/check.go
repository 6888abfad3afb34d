package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/voyagen/streamcheck/internal/cache"
	"github.com/voyagen/streamcheck/internal/config"
	"github.com/voyagen/streamcheck/internal/metrics"
	"github.com/voyagen/streamcheck/internal/output"
	"github.com/voyagen/streamcheck/internal/pipeline"
	"github.com/voyagen/streamcheck/internal/playlist"
	"github.com/voyagen/streamcheck/internal/server"
	"github.com/voyagen/streamcheck/internal/store"
)

const lockTTL = time.Minute

// Deps are the collaborators of a run. Store and Redis are optional.
type Deps struct {
	Log     logrus.FieldLogger
	Metrics *metrics.Metrics
	Checker pipeline.Checker
	Store   store.Store
	Redis   *cache.Redis
}

// Summary describes a finished run.
type Summary struct {
	RunID      string
	Files      int
	Skipped    int
	Parsed     int
	Duplicates int
	Valid      int
	Invalid    int
	Elapsed    time.Duration
}

// Check scans cfg.InputDir, probes every distinct entry, and writes the reachable ones to
// cfg.OutputFile (and the optional report and queue sinks) as they validate.
//
// Only setup failures are returned: the output cannot be created, the input directory cannot
// be read, or a configured store/lock is unusable. Unreadable playlists and failed probes are
// logged and the run still completes.
func Check(ctx context.Context, cfg *config.Config, deps Deps) (*Summary, error) {
	start := time.Now()
	log := deps.Log
	sum := &Summary{RunID: uuid.NewString()}
	log = log.WithField("run", sum.RunID)

	if deps.Redis != nil {
		lock, err := lockOutput(ctx, deps.Redis, cfg.OutputFile)
		if err != nil {
			return nil, err
		}
		defer lock.Release()
		lockCtx, stopLock := context.WithCancel(ctx)
		defer stopLock()
		go lock.KeepAlive(lockCtx, func(err error) {
			log.WithError(err).Warn("output lock")
		})
	}

	file, err := output.CreateFile(cfg.OutputFile)
	if err != nil {
		return nil, err
	}
	sinks := []output.Sink{file}

	seen := playlist.NewSeenSet()
	scan, err := playlist.ScanDir(cfg.InputDir, seen, playlist.Options{AllowHTTPS: cfg.AllowHTTPS}, log)
	if err != nil {
		file.Close()
		return nil, err
	}
	sum.Files, sum.Skipped, sum.Parsed, sum.Duplicates = scan.Files, scan.Skipped, len(scan.Entries), seen.Duplicates()
	if deps.Metrics != nil {
		deps.Metrics.FilesScanned.Add(float64(scan.Files))
		deps.Metrics.FilesSkipped.Add(float64(scan.Skipped))
		deps.Metrics.EntriesParsed.Add(float64(len(scan.Entries)))
		deps.Metrics.Duplicates.Add(float64(seen.Duplicates()))
	}

	var runID int64
	if deps.Store != nil {
		runID, err = deps.Store.CreateRun(ctx, cfg.InputDir, cfg.OutputFile)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create run report: %w", err)
		}
		sinks = append(sinks, store.NewReportSink(deps.Store, runID))
	}
	if deps.Redis != nil {
		pub := cache.NewPublisher(deps.Redis, cache.QueueKey(sum.RunID))
		log.WithField("queue", pub.Queue()).Info("publishing valid entries")
		sinks = append(sinks, pub)
	}
	sink := output.NewMulti(log, sinks...)

	dispatcher := pipeline.NewDispatcher(deps.Checker, cfg.Concurrency, log, deps.Metrics)

	if cfg.MetricsAddr != "" && deps.Metrics != nil {
		srvCtx, stopServer := context.WithCancel(ctx)
		defer stopServer()
		srv := server.New(cfg.MetricsAddr, deps.Metrics.Registry, dispatcher.Progress(), log)
		go func() {
			if err := srv.ListenAndServe(srvCtx); err != nil {
				log.WithError(err).Warn("status server")
			}
		}()
	}

	log.WithFields(logrus.Fields{
		"entries":     len(scan.Entries),
		"concurrency": cfg.Concurrency,
		"timeout":     cfg.Timeout.String(),
	}).Info("checking")

	for e := range dispatcher.Run(ctx, scan.Entries) {
		log.WithField("url", e.URL).Info("valid")
		_ = sink.Put(ctx, e)
		sum.Valid++
	}
	sum.Invalid = sum.Parsed - sum.Valid

	if deps.Store != nil {
		stats := store.RunStats{Parsed: sum.Parsed, Valid: sum.Valid, Invalid: sum.Invalid}
		if err := deps.Store.FinishRun(ctx, runID, stats); err != nil {
			log.WithError(err).Warn("finish run report")
		}
	}
	if err := sink.Close(); err != nil {
		log.WithError(err).Warn("close sinks")
	}
	if cfg.MetricsFile != "" && deps.Metrics != nil {
		if err := deps.Metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			log.WithError(err).Warn("metrics textfile")
		}
	}

	sum.Elapsed = time.Since(start)
	log.WithFields(logrus.Fields{
		"files":      sum.Files,
		"skipped":    sum.Skipped,
		"parsed":     sum.Parsed,
		"duplicates": sum.Duplicates,
		"valid":      sum.Valid,
		"invalid":    sum.Invalid,
		"elapsed":    sum.Elapsed.Round(time.Millisecond).String(),
	}).Info("finished")
	return sum, nil
}

func lockOutput(ctx context.Context, r *cache.Redis, path string) (*cache.Lock, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	lock, err := cache.TryLock(ctx, r, cache.OutputLockKey(abs), lockTTL)
	if errors.Is(err, cache.ErrLocked) {
		return nil, fmt.Errorf("another run is writing %s: %w", abs, err)
	}
	if err != nil {
		return nil, err
	}
	return lock, nil
}
