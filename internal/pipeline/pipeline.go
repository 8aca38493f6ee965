package pipeline

import (
	"fmt"
	"log"
	"time"

	"ofp/internal/dataset"
	"ofp/internal/features"
	"ofp/internal/featstore"
	"ofp/internal/geo"
	"ofp/internal/manifest"
	"ofp/internal/metrics"
	"ofp/internal/model"
)

// Config holds one run's inputs and policies.
type Config struct {
	DataDir     string
	OutputPath  string
	ManifestDir string             // empty disables manifest publishing
	Publisher   manifest.Publisher // optional; overrides ManifestDir when set
	Dedup       features.DedupPolicy
	Store       featstore.Store   // optional feature-record sink
	Metrics     *metrics.Registry // optional; a private registry is used when nil
}

// Result is the outcome of a completed run.
type Result struct {
	Manifest manifest.Manifest
	Records  []model.FeatureRecord
}

// runner executes stages in order and records one report per stage.
type runner struct {
	metrics *metrics.Registry
	reports []manifest.StageReport
}

func (r *runner) stage(name string, rowsIn int, fn func() (int, error)) error {
	start := time.Now()
	rowsOut, err := fn()
	elapsed := time.Since(start)
	r.metrics.StageDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	rep := manifest.StageReport{
		Name:       name,
		Status:     "ok",
		RowsIn:     rowsIn,
		RowsOut:    rowsOut,
		DurationMS: elapsed.Milliseconds(),
	}
	if err != nil {
		rep.Status = "failed"
		rep.Error = err.Error()
		r.metrics.StageFailures.Inc()
		r.reports = append(r.reports, rep)
		return fmt.Errorf("stage %s: %w", name, err)
	}
	r.reports = append(r.reports, rep)
	log.Printf("stage %s completed: rows_in=%d rows_out=%d duration=%s", name, rowsIn, rowsOut, elapsed)
	return nil
}

// Run executes the full derivation: load the nine extracts, resolve
// geolocation, derive order-grain features, join, and write the feature
// table. Structural errors abort the run; the manifest records the failed
// stage. The CSV artifact is fully determined by the input tables.
func Run(cfg Config) (*Result, error) {
	if cfg.Dedup == "" {
		cfg.Dedup = features.KeepFirst
	}
	m := cfg.Metrics
	if m == nil {
		m = metrics.NewRegistry()
	}
	r := &runner{metrics: m}
	runID := time.Now().UTC().Format(time.RFC3339)

	var (
		bundle  *dataset.Bundle
		coords  map[string]geo.Coordinate
		derived features.Derived
		records []model.FeatureRecord
	)

	finish := func(runErr error) (*Result, error) {
		mani := manifest.Manifest{
			RunID:       runID,
			Stages:      r.reports,
			FeatureRows: len(records),
			Succeeded:   runErr == nil,
		}
		if runErr == nil {
			mani.OutputPath = cfg.OutputPath
		}
		pub := cfg.Publisher
		if pub == nil && cfg.ManifestDir != "" {
			pub = manifest.NewFilesystemManifest(cfg.ManifestDir)
		}
		if pub != nil {
			if err := pub.PublishLatest(mani); err != nil {
				if runErr == nil {
					runErr = fmt.Errorf("publish manifest: %w", err)
				} else {
					log.Printf("publish manifest failed after run error: %v", err)
				}
			}
		}
		if runErr != nil {
			return nil, runErr
		}
		return &Result{Manifest: mani, Records: records}, nil
	}

	err := r.stage("load", 0, func() (int, error) {
		var err error
		bundle, err = dataset.Load(cfg.DataDir)
		if err != nil {
			return 0, err
		}
		for table, n := range bundle.RowCounts() {
			m.RowsLoaded.WithLabelValues(table).Set(float64(n))
		}
		return bundle.Rows(), nil
	})
	if err != nil {
		return finish(err)
	}

	err = r.stage("resolve_geo", len(bundle.Geolocation), func() (int, error) {
		coords = geo.Resolve(bundle.Geolocation)
		return len(coords), nil
	})
	if err != nil {
		return finish(err)
	}

	err = r.stage("derive_distance", len(bundle.Items), func() (int, error) {
		derived.Distances = features.DeriveDistances(bundle.Orders, bundle.Items, bundle.Customers, bundle.Sellers, coords)
		return len(derived.Distances), nil
	})
	if err != nil {
		return finish(err)
	}

	err = r.stage("derive_temporal", len(bundle.Orders), func() (int, error) {
		derived.RepItems = features.RepresentativeItems(bundle.Items, cfg.Dedup)
		derived.Temporal = features.DeriveTemporalAll(bundle.Orders, derived.RepItems)
		return len(derived.Temporal), nil
	})
	if err != nil {
		return finish(err)
	}

	err = r.stage("aggregate_children", len(bundle.Items)+len(bundle.Payments), func() (int, error) {
		derived.Items = features.AggregateItems(bundle.Items)
		derived.Payments = features.AggregatePayments(bundle.Payments)
		return len(derived.Items) + len(derived.Payments), nil
	})
	if err != nil {
		return finish(err)
	}

	err = r.stage("join_features", len(bundle.Orders), func() (int, error) {
		tables := features.Tables{
			Orders:       bundle.Orders,
			Items:        bundle.Items,
			Customers:    bundle.Customers,
			Products:     bundle.Products,
			Sellers:      bundle.Sellers,
			Reviews:      bundle.Reviews,
			Translations: bundle.Translations,
		}
		var err error
		records, err = features.Join(tables, derived, features.JoinConfig{Dedup: cfg.Dedup})
		if err != nil {
			return 0, err
		}
		m.FeatureRows.Set(float64(len(records)))
		nullDist := 0
		for _, rec := range records {
			if rec.CustomerSellerDistanceKM == nil {
				nullDist++
			}
		}
		m.NullDistance.Set(float64(nullDist))
		return len(records), nil
	})
	if err != nil {
		return finish(err)
	}

	err = r.stage("write_output", len(records), func() (int, error) {
		if err := dataset.WriteFeatures(cfg.OutputPath, records); err != nil {
			return 0, err
		}
		return len(records), nil
	})
	if err != nil {
		return finish(err)
	}

	if cfg.Store != nil {
		err = r.stage("store_features", len(records), func() (int, error) {
			for _, rec := range records {
				if err := cfg.Store.Put(rec); err != nil {
					return 0, err
				}
				m.StoredRecords.Inc()
			}
			return len(records), nil
		})
		if err != nil {
			return finish(err)
		}
	}

	return finish(nil)
}
