package domain

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"hotsplit.dev/pkg/hotsplit/internal/adapter"

	m "hotsplit.dev/pkg/hotsplit/internal/model"
)

// scriptExtensions lists the file extensions the scanner treats as input
// scripts.
var scriptExtensions = map[string]struct{}{
	".ts":  {},
	".js":  {},
	".mts": {},
	".mjs": {},
}

// Workflow drives multi-script builds: discovery, concurrent splitting,
// output writing and the build manifest.
type Workflow interface {
	// DiscoverScripts walks root and loads every candidate script. Derived
	// outputs from earlier runs are skipped.
	DiscoverScripts(root m.Path, recursive bool) ([]m.Script, error)

	// BuildAll splits the provided scripts, running up to threads splits
	// concurrently. Results preserve input order.
	BuildAll(ctx context.Context, scripts []m.Script, threads int) ([]m.Split, error)

	// WriteSplits writes both derived modules of each split to disk.
	WriteSplits(splits []m.Split) error

	// SaveManifest records the completed splits at path.
	SaveManifest(path m.Path, splits []m.Split) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.ManifestStore

	splitter Splitter
}

// NewWorkflow creates a Workflow from its adapters and splitter.
func NewWorkflow(fs adapter.SourceFSAdapter, store adapter.ManifestStore, splitter Splitter) Workflow {
	return &workflow{
		SourceFSAdapter: fs,
		ManifestStore:   store,
		splitter:        splitter,
	}
}

func (w *workflow) DiscoverScripts(root m.Path, recursive bool) ([]m.Script, error) {
	if w.SourceFSAdapter == nil {
		return nil, fmt.Errorf("missing source fs adapter")
	}

	info, err := w.FileInfo(root)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}

	if !info.IsDir() {
		scriptFile, err := w.loadScript(root)
		if err != nil {
			return nil, err
		}

		return []m.Script{scriptFile}, nil
	}

	var scripts []m.Script

	err = w.Walk(root, recursive, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		if _, ok := scriptExtensions[filepath.Ext(path)]; !ok {
			return nil
		}

		if IsDerivedPath(m.Path(path)) {
			return nil
		}

		scriptFile, err := w.loadScript(m.Path(path))
		if err != nil {
			return err
		}

		scripts = append(scripts, scriptFile)

		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("discovered scripts", "root", root, "count", len(scripts))

	return scripts, nil
}

func (w *workflow) loadScript(path m.Path) (m.Script, error) {
	content, err := w.ReadFile(path)
	if err != nil {
		return m.Script{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	hash, err := w.HashFile(path)
	if err != nil {
		return m.Script{}, fmt.Errorf("failed to hash %s: %w", path, err)
	}

	return m.Script{Path: path, Source: string(content), Hash: hash}, nil
}

func (w *workflow) BuildAll(ctx context.Context, scripts []m.Script, threads int) ([]m.Split, error) {
	if w.splitter == nil {
		return nil, fmt.Errorf("missing splitter")
	}

	if threads < 1 {
		threads = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)

	splits := make([]m.Split, len(scripts))

	for i, scriptFile := range scripts {
		g.Go(func() error {
			split, err := w.splitter.Split(ctx, scriptFile)
			if err != nil {
				return err
			}

			splits[i] = split

			slog.Debug("split complete",
				"source", scriptFile.Path,
				"bindings", len(split.Bindings))

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return splits, nil
}

func (w *workflow) WriteSplits(splits []m.Split) error {
	if w.SourceFSAdapter == nil {
		return fmt.Errorf("missing source fs adapter")
	}

	for _, split := range splits {
		for _, mod := range []m.Module{split.Locals, split.Main} {
			if err := w.WriteFile(mod.Path, []byte(mod.Source), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", mod.Path, err)
			}
		}
	}

	return nil
}

func (w *workflow) SaveManifest(path m.Path, splits []m.Split) error {
	if w.ManifestStore == nil {
		return fmt.Errorf("missing manifest store")
	}

	manifest := m.Manifest{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Entries:     make([]m.ManifestEntry, 0, len(splits)),
	}

	for _, split := range splits {
		manifest.Entries = append(manifest.Entries, m.ManifestEntry{
			Source:   split.Script.Path,
			Hash:     split.Script.Hash,
			Locals:   split.Locals.Path,
			Main:     split.Main.Path,
			Bindings: split.Bindings.Names(),
		})
	}

	return w.ManifestStore.SaveManifest(path, manifest)
}
