package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/femreport/internal/config"
	"github.com/san-kum/femreport/internal/report"
)

func TestRunKeepsInputOrder(t *testing.T) {
	dir := t.TempDir()
	fixture, err := os.ReadFile("../report/testdata/patch.out")
	require.NoError(t, err)

	var files []string
	for _, name := range []string{"a.out", "b.out", "c.out"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, fixture, 0644))
		files = append(files, p)
	}
	files = append(files, filepath.Join(dir, "missing.out"))

	parser := report.NewParser(config.MustLayout("stappp"))
	items := Run(context.Background(), files, parser.ParseFile, 2)

	require.Len(t, items, 4)
	for i, it := range items[:3] {
		assert.Equal(t, files[i], it.Path)
		require.NoError(t, it.Err)
		assert.Len(t, it.Result.Nodes, 5)
	}
	assert.ErrorIs(t, items[3].Err, report.ErrMissingFile)

	totals := Summarize(items)
	assert.Equal(t, Totals{Files: 4, Failed: 1, Nodes: 15, Elements: 12}, totals)
}

func TestRunBoundsConcurrency(t *testing.T) {
	var running, peak int32
	parse := func(string) (*report.Result, error) {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		atomic.AddInt32(&running, -1)
		return &report.Result{}, nil
	}

	items := Run(context.Background(), make([]string, 50), parse, 3)
	assert.Len(t, items, 50)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	items := Run(ctx, []string{"x.out"}, func(string) (*report.Result, error) {
		called = true
		return nil, errors.New("unreachable")
	}, 1)

	assert.False(t, called)
	assert.ErrorIs(t, items[0].Err, context.Canceled)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	for _, name := range []string{"b.out", "a.OUT", "notes.txt", "sub/c.out"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	files, err := Discover(dir, ".out")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.OUT"),
		filepath.Join(dir, "b.out"),
		filepath.Join(dir, "sub", "c.out"),
	}, files)

	_, err = Discover(filepath.Join(dir, "absent"), ".out")
	assert.Error(t, err)
}
