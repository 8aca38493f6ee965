package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"ofp/internal/features"
	"ofp/internal/featstore"
	"ofp/internal/manifest"
	"ofp/internal/metrics"
	"ofp/internal/pipeline"
)

// Config holds CLI flags for the feature pipeline.
type Config struct {
	DataDir       string
	OutputPath    string
	ManifestDir   string
	Dedup         string // keep_first|keep_last
	StoreBackend  string // none|memory|pebble|badger
	StoreDir      string
	MetricsListen string // addr for /metrics, "" disables
}

func main() {
	cfg := readFlags()
	if err := run(cfg); err != nil {
		log.Fatalf("featpipe failed: %v", err)
	}
}

func readFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.DataDir, "data-dir", "./data/processed", "directory holding the cleaned source tables")
	flag.StringVar(&cfg.OutputPath, "out", "./data/processed/model_ready.csv", "output feature table path")
	flag.StringVar(&cfg.ManifestDir, "manifest-dir", "./manifests", "run manifest directory, empty disables")
	flag.StringVar(&cfg.Dedup, "dedup", string(features.KeepFirst), "one-to-many join tie-break: keep_first|keep_last")
	flag.StringVar(&cfg.StoreBackend, "store-backend", "none", "feature store backend: none|memory|pebble|badger")
	flag.StringVar(&cfg.StoreDir, "store-dir", "./data/featstore", "feature store data directory")
	flag.StringVar(&cfg.MetricsListen, "metrics-listen", "", "serve /metrics and /healthz on this address while running")
	flag.Parse()
	return cfg
}

func run(cfg Config) error {
	start := time.Now()
	log.Printf("starting featpipe with data-dir=%s out=%s dedup=%s store=%s", cfg.DataDir, cfg.OutputPath, cfg.Dedup, cfg.StoreBackend)

	dedup, err := features.ParseDedupPolicy(cfg.Dedup)
	if err != nil {
		return err
	}

	var store featstore.Store
	switch cfg.StoreBackend {
	case "none", "":
	case "memory":
		store = featstore.NewInMemoryStore()
	case "pebble":
		ps, err := featstore.NewPebbleStore(cfg.StoreDir)
		if err != nil {
			return fmt.Errorf("init pebble: %w", err)
		}
		defer ps.Close()
		store = ps
	case "badger":
		bs, err := featstore.NewBadgerStore(cfg.StoreDir)
		if err != nil {
			return fmt.Errorf("init badger: %w", err)
		}
		defer bs.Close()
		store = bs
	default:
		return fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	mreg := metrics.NewRegistry()
	if cfg.MetricsListen != "" {
		go func() {
			http.Handle("/metrics", mreg.Handler())
			http.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
			})
			_ = http.ListenAndServe(cfg.MetricsListen, nil)
		}()
	}

	// The latest pointer serves featquery; the archive keeps run history.
	var pub manifest.Publisher
	if cfg.ManifestDir != "" {
		pub = manifest.MultiPublisher(
			manifest.NewFilesystemManifest(cfg.ManifestDir),
			manifest.NewRunArchive(cfg.ManifestDir),
		)
	}

	res, err := pipeline.Run(pipeline.Config{
		DataDir:    cfg.DataDir,
		OutputPath: cfg.OutputPath,
		Publisher:  pub,
		Dedup:      dedup,
		Store:      store,
		Metrics:    mreg,
	})
	if err != nil {
		return err
	}

	log.Printf("run %s completed: %d feature rows -> %s (%s)", res.Manifest.RunID, res.Manifest.FeatureRows, res.Manifest.OutputPath, time.Since(start))
	for _, s := range res.Manifest.Stages {
		log.Printf("  stage %-18s %s rows_in=%d rows_out=%d %dms", s.Name, s.Status, s.RowsIn, s.RowsOut, s.DurationMS)
	}
	return nil
}
