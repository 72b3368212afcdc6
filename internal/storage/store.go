package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/san-kum/femreport/internal/export"
	"github.com/san-kum/femreport/internal/report"
)

var ErrRunNotFound = errors.New("run not found")

const (
	metadataFile = "metadata.json"
	snapshotFile = "snapshot.json"
	summaryFile  = "summary.txt"
	nodesFile    = "nodes.csv"
	elementsFile = "elements.csv"
)

// Store keeps one directory per saved parse under baseDir.
type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Title       string    `json:"title"`
	Timestamp   time.Time `json:"timestamp"`
	Nodes       int       `json:"nodes"`
	Elements    int       `json:"elements"`
	Diagnostics int       `json:"diagnostics"`
}

// Save writes snapshot, summary and CSV tables for res and returns
// the run id "<source>_<unix>". A numeric suffix keeps ids unique when
// the same source is saved twice in one second.
func (s *Store) Save(res *report.Result) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}

	base := strings.TrimSuffix(res.Source, filepath.Ext(res.Source))
	if base == "" {
		base = "report"
	}
	runID := fmt.Sprintf("%s_%d", base, s.now().Unix())
	for i := 2; ; i++ {
		if _, err := os.Stat(filepath.Join(s.baseDir, runID)); os.IsNotExist(err) {
			break
		}
		runID = fmt.Sprintf("%s_%d_%d", base, s.now().Unix(), i)
	}

	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Source:      res.Source,
		Title:       res.Title,
		Timestamp:   s.now(),
		Nodes:       len(res.Nodes),
		Elements:    len(res.Elements),
		Diagnostics: len(res.Diagnostics),
	}

	writers := []struct {
		name  string
		write func(f *os.File) error
	}{
		{metadataFile, func(f *os.File) error { return writeJSON(f, meta) }},
		{snapshotFile, func(f *os.File) error { return export.WriteJSON(f, res) }},
		{summaryFile, func(f *os.File) error { return export.WriteSummary(f, res, export.DefaultOptions()) }},
		{nodesFile, func(f *os.File) error { return export.WriteNodesCSV(f, res) }},
		{elementsFile, func(f *os.File) error { return export.WriteElementsCSV(f, res) }},
	}
	for _, w := range writers {
		if err := writeFile(filepath.Join(runDir, w.name), w.write); err != nil {
			return "", fmt.Errorf("save %s: %w", w.name, err)
		}
	}

	return runID, nil
}

func writeJSON(f *os.File, v any) error {
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns metadata for every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].Timestamp.After(runs[j].Timestamp)
		}
		return runs[i].ID < runs[j].ID
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadSnapshot(runID string) (*export.Snapshot, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, snapshotFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer f.Close()
	return export.ReadJSON(f)
}

// LoadResult rebuilds the parse result of a saved run.
func (s *Store) LoadResult(runID string) (*report.Result, error) {
	snap, err := s.LoadSnapshot(runID)
	if err != nil {
		return nil, err
	}
	return snap.Result(), nil
}

// SummaryPath is where Save wrote the text summary of runID.
func (s *Store) SummaryPath(runID string) string {
	return filepath.Join(s.baseDir, runID, summaryFile)
}
