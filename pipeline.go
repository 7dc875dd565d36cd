package spritesort

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// run carries the per-run shared state.
type run struct {
	cfg        *Config
	classifier *Classifier
	cache      *AttributeCache
	gate       *semaphore.Weighted
	dispatcher *Dispatcher
	manifest   *Manifest
	skipped    atomic.Int64
}

// Run sorts every sprite in srcDir into per-category directories under dstDir
// and returns the final tally.
//
// Stages per file:
//  1. ExtractID: files without a leading id are skipped and not counted
//  2. AttributeCache.GetOrResolve: one lookup per distinct id, behind the admission gate
//  3. Classifier.Classify: priority-ordered rule table
//  4. Dispatcher.Dispatch: copy into dstDir/<category>
//
// A missing source directory or an unresettable destination aborts the run
// before any file is touched. Per-file failures are logged and counted.
func (cfg *Config) Run(ctx context.Context, srcDir, dstDir string) (*Report, error) {
	cfg.defaults()
	start := time.Now()

	classifier, err := NewClassifier(cfg.Rules)
	if err != nil {
		return nil, err
	}
	if err := checkDirs(srcDir, dstDir); err != nil {
		return nil, err
	}
	if err := ResetDir(dstDir); err != nil {
		return nil, err
	}

	files, err := ListSprites(srcDir)
	if err != nil {
		return nil, err
	}
	cfg.Logger.Info("spritesort: found image files", "count", len(files), "source", srcDir)

	r := newRun(cfg, classifier, dstDir)

	var wg sync.WaitGroup
	for _, f := range files {
		wg.Add(1)
		go func(file SourceFile) {
			defer wg.Done()
			r.processOne(ctx, file)
		}(f)
	}
	wg.Wait()

	if r.manifest != nil {
		if err := r.manifest.WriteFile(filepath.Join(dstDir, ManifestFile)); err != nil {
			cfg.Logger.Warn("spritesort: manifest not written", "error", err.Error())
		}
	}

	report := r.dispatcher.Stats.Report()
	report.Found = len(files)
	report.Skipped = int(r.skipped.Load())
	report.Lookups = r.cache.Calls()
	report.Unresolved = r.cache.Unresolved()
	report.Elapsed = time.Since(start)
	return report, nil
}

// newRun wires the per-run state. cfg must already have its defaults.
func newRun(cfg *Config, classifier *Classifier, dstDir string) *run {
	r := &run{
		cfg:        cfg,
		classifier: classifier,
		cache:      NewAttributeCache(),
		gate:       semaphore.NewWeighted(int64(cfg.Concurrency)),
		dispatcher: &Dispatcher{Root: dstDir, Stats: NewRunStats(classifier.Buckets())},
	}
	if cfg.Inspect {
		r.manifest = &Manifest{}
	}
	return r
}

// ListSprites returns the recognized image files directly inside dir, sorted
// by name.
func ListSprites(dir string) ([]SourceFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var files []SourceFile
	for _, e := range entries {
		if e.IsDir() || !IsImageFile(e.Name()) {
			continue
		}
		files = append(files, SourceFile{Dir: dir, Name: e.Name()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// processOne runs a single file through the pipeline.
// Recovers from panics so one bad file cannot take down the run; a file that
// panics before dispatch is counted as an error.
func (r *run) processOne(ctx context.Context, file SourceFile) {
	log := r.cfg.Logger
	dispatched := false
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("spritesort: panic while processing file", "file", file.Name, "panic", rec)
			if !dispatched {
				r.dispatcher.Stats.Inc(Errored)
			}
		}
	}()

	id, ok := ExtractID(file.Name)
	if !ok {
		r.skipped.Add(1)
		log.Info("spritesort: skipping file without id", "file", file.Name)
		return
	}

	res := r.cache.GetOrResolve(ctx, id, r.resolve)
	if !res.Resolved() {
		log.Warn("spritesort: could not retrieve attributes", "file", file.Name, "id", int(id))
	}

	category := r.classifier.Classify(res)
	dst, err := r.dispatcher.Dispatch(file, category)
	dispatched = true
	if err != nil {
		log.Error("spritesort: dispatch failed", "file", file.Name, "category", string(category), "error", err.Error())
		category = Errored
	} else {
		log.Debug("spritesort: dispatched", "file", file.Name, "id", int(id), "category", string(category))
		r.record(file, id, category, res, dst)
	}

	if r.cfg.OnDispatch != nil {
		r.cfg.OnDispatch(DispatchEvent{File: file, ID: id, Category: category, Err: err})
	}
}

// resolve performs the remote lookup for a cache miss. Only this step waits
// on the admission gate.
func (r *run) resolve(ctx context.Context, id EntityID) Resolution {
	attrs, err := r.lookup(ctx, id)
	res := Resolution{Attributes: attrs, Err: err}

	if res.Err != nil {
		r.cfg.Logger.Warn("spritesort: lookup failed", "id", int(id), "error", res.Err.Error())
	}
	if r.cfg.OnLookup != nil {
		r.cfg.OnLookup(id, res)
	}
	return res
}

func (r *run) lookup(ctx context.Context, id EntityID) ([]string, error) {
	if err := r.gate.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("%w: id %d: %w", ErrUnavailable, id, err)
	}
	defer r.gate.Release(1)
	return r.cfg.Resolver.Resolve(ctx, id)
}

// record adds the dispatched file to the manifest when inspection is on.
func (r *run) record(file SourceFile, id EntityID, category Category, res Resolution, dst string) {
	if r.manifest == nil {
		return
	}
	entry := ManifestEntry{
		Name:       file.Name,
		ID:         id,
		Category:   category,
		Attributes: res.Attributes,
	}
	info, err := InspectFile(dst)
	if err != nil {
		r.cfg.Logger.Debug("spritesort: probe failed", "file", file.Name, "error", err.Error())
		entry.ProbeError = err.Error()
	} else {
		entry.Image = info
	}
	r.manifest.Add(entry)
}
