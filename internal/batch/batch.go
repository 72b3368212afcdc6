// Package batch parses many report files concurrently.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/san-kum/femreport/internal/report"
)

// ParseFunc parses one report file.
type ParseFunc func(path string) (*report.Result, error)

// Item is the outcome for one input file. Exactly one of Result and Err
// is set.
type Item struct {
	Path   string
	Result *report.Result
	Err    error
}

// Run parses files with at most workers goroutines and returns one Item
// per input in input order. A failing file does not stop the others.
// Files not yet started when ctx is cancelled carry ctx.Err().
func Run(ctx context.Context, files []string, parse ParseFunc, workers int) []Item {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	items := make([]Item, len(files))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < min(workers, len(files)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				path := files[idx]
				if err := ctx.Err(); err != nil {
					items[idx] = Item{Path: path, Err: err}
					continue
				}
				res, err := parse(path)
				items[idx] = Item{Path: path, Result: res, Err: err}
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return items
}

// Discover lists files under dir with the given extension, sorted.
func Discover(dir, ext string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// Totals aggregates a batch.
type Totals struct {
	Files       int
	Failed      int
	Nodes       int
	Elements    int
	Diagnostics int
}

func Summarize(items []Item) Totals {
	t := Totals{Files: len(items)}
	for _, it := range items {
		if it.Err != nil {
			t.Failed++
			continue
		}
		t.Nodes += len(it.Result.Nodes)
		t.Elements += len(it.Result.Elements)
		t.Diagnostics += len(it.Result.Diagnostics)
	}
	return t
}
