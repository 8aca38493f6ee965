package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"ofp/internal/featstore"
	"ofp/internal/manifest"
	"ofp/internal/model"
)

func main() {
	var (
		backend     string
		storeDir    string
		manifestDir string
		dumpAll     bool
	)
	flag.StringVar(&backend, "store-backend", "pebble", "feature store backend: pebble|badger")
	flag.StringVar(&storeDir, "store-dir", "./data/featstore", "feature store data directory")
	flag.StringVar(&manifestDir, "manifest-dir", "./manifests", "run manifest directory, empty skips the summary")
	flag.BoolVar(&dumpAll, "all", false, "dump every stored record instead of looking up ids")
	flag.Parse()

	if err := run(backend, storeDir, manifestDir, dumpAll, flag.Args()); err != nil {
		log.Fatalf("featquery failed: %v", err)
	}
}

func run(backend, storeDir, manifestDir string, dumpAll bool, orderIDs []string) error {
	if manifestDir != "" {
		var rd manifest.Reader = manifest.NewFilesystemManifest(manifestDir)
		m, err := rd.ReadLatest()
		if err != nil {
			log.Printf("no manifest: %v", err)
		} else {
			age := time.Since(time.Unix(m.CreatedAtEpochSecond, 0)).Round(time.Second)
			log.Printf("run %s: succeeded=%v featureRows=%d output=%s age=%s", m.RunID, m.Succeeded, m.FeatureRows, m.OutputPath, age)
		}
	}

	var store featstore.Store
	var err error
	switch backend {
	case "pebble":
		store, err = featstore.NewPebbleStore(storeDir)
	case "badger":
		store, err = featstore.NewBadgerStore(storeDir)
	default:
		return fmt.Errorf("unknown store backend %q", backend)
	}
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if dumpAll {
		n := 0
		err := store.Range(func(rec model.FeatureRecord) error {
			n++
			return enc.Encode(&rec)
		})
		if err != nil {
			return err
		}
		log.Printf("dumped %d records", n)
		return nil
	}

	if len(orderIDs) == 0 {
		return fmt.Errorf("no order ids given (pass ids as arguments or use -all)")
	}
	missing := 0
	for _, id := range orderIDs {
		rec, ok := store.Get(id)
		if !ok {
			log.Printf("order %s not found", id)
			missing++
			continue
		}
		if err := enc.Encode(&rec); err != nil {
			return err
		}
	}
	if missing > 0 {
		return fmt.Errorf("%d of %d order ids not found", missing, len(orderIDs))
	}
	return nil
}
