package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// StageReport is the outcome of one pipeline stage.
type StageReport struct {
	Name       string `json:"name"`
	Status     string `json:"status"` // ok | failed
	RowsIn     int    `json:"rowsIn"`
	RowsOut    int    `json:"rowsOut"`
	DurationMS int64  `json:"durationMs"`
	Error      string `json:"error,omitempty"`
}

// Manifest describes one pipeline run: which stages ran, what they produced,
// and where the feature table landed.
type Manifest struct {
	RunID                string        `json:"runId"`
	Stages               []StageReport `json:"stages"`
	OutputPath           string        `json:"outputPath,omitempty"`
	FeatureRows          int           `json:"featureRows"`
	Succeeded            bool          `json:"succeeded"`
	CreatedAtEpochSecond int64         `json:"createdAt"`
}

type Publisher interface {
	PublishLatest(m Manifest) error
}

// MultiPublisherImpl writes to multiple publishers sequentially.
type MultiPublisherImpl struct {
	pubs []Publisher
}

func MultiPublisher(pubs ...Publisher) Publisher {
	return &MultiPublisherImpl{pubs: pubs}
}

func (m *MultiPublisherImpl) PublishLatest(mani Manifest) error {
	for _, p := range m.pubs {
		if err := p.PublishLatest(mani); err != nil {
			return err
		}
	}
	return nil
}

type Reader interface {
	ReadLatest() (Manifest, error)
}

type FilesystemManifest struct {
	baseDir string
}

func NewFilesystemManifest(baseDir string) *FilesystemManifest {
	return &FilesystemManifest{baseDir: baseDir}
}

func (f *FilesystemManifest) PublishLatest(m Manifest) error {
	return writeManifest(f.baseDir, "manifest.latest.json", m)
}

// RunArchive keeps one manifest file per run id next to the latest pointer,
// preserving run history across reruns.
type RunArchive struct {
	baseDir string
}

func NewRunArchive(baseDir string) *RunArchive {
	return &RunArchive{baseDir: baseDir}
}

func (a *RunArchive) PublishLatest(m Manifest) error {
	name := "manifest." + sanitizeRunID(m.RunID) + ".json"
	return writeManifest(a.baseDir, name, m)
}

// sanitizeRunID strips characters unfit for file names from RFC3339 run ids.
func sanitizeRunID(runID string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ':', '/', '\\':
			return '-'
		}
		return r
	}, runID)
}

func writeManifest(baseDir, name string, m Manifest) error {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if m.CreatedAtEpochSecond == 0 {
		m.CreatedAtEpochSecond = time.Now().UTC().Unix()
	}
	out, err := os.Create(filepath.Join(baseDir, name))
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	defer out.Close()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&m); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func (f *FilesystemManifest) ReadLatest() (Manifest, error) {
	file := filepath.Join(f.baseDir, "manifest.latest.json")
	data, err := os.ReadFile(file)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return m, nil
}
