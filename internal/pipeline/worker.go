package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/docnav/internal/catalog"
	"github.com/dgallion1/docnav/internal/hvd"
	"github.com/dgallion1/docnav/internal/navtree"
	"github.com/dgallion1/docnav/internal/products"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// NavSource supplies nav trees for product sections.
type NavSource interface {
	NavData(ctx context.Context, product, section, version string) ([]navtree.NavNode, error)
}

// Sources is what a reindex job reads.
type Sources struct {
	Products    []string
	Sections    []string
	Version     string
	HVDDir      string
	Registry    *products.Registry
	Nav         NavSource
	MaxParallel int
}

// Worker rebuilds the catalog for a single job.
type Worker struct {
	src     Sources
	catalog *catalog.Catalog
	log     *zap.Logger
}

func NewWorker(src Sources, cat *catalog.Catalog, log *zap.Logger) *Worker {
	if src.MaxParallel <= 0 {
		src.MaxParallel = 4
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{src: src, catalog: cat, log: log}
}

// Process fetches every product section, indexes validated designs and
// swaps the catalog. Sections that fail keep their previous nav tree.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With(zap.String("job_id", job.ID), zap.String("requested_by", job.RequestedBy))
	prev := w.catalog.Current()

	// Phase 1: fetch nav data with bounded concurrency.
	job.SetStatus(StatusFetching, "fetching")
	keys := make([]catalog.Key, 0, len(w.src.Products)*len(w.src.Sections))
	for _, p := range w.src.Products {
		for _, s := range w.src.Sections {
			keys = append(keys, catalog.Key{Product: p, Section: s})
		}
	}
	job.SetTotalSections(len(keys))

	var (
		mu      sync.Mutex
		nav     = make(map[catalog.Key][]navtree.NavNode, len(keys))
		fetched int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.src.MaxParallel)
	for _, k := range keys {
		g.Go(func() error {
			start := time.Now()
			tree, err := w.src.Nav.NavData(gctx, k.Product, k.Section, w.src.Version)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Warn("nav fetch failed", zap.String("section", k.String()), zap.Error(err))
				job.AddError(fmt.Sprintf("%s: %s", k, err))
				job.SectionDone(false)
				mu.Lock()
				if old, ok := prev.Nav[k]; ok {
					nav[k] = old
				}
				mu.Unlock()
				return nil
			}
			log.Debug("nav fetched", zap.String("section", k.String()), zap.Duration("took", time.Since(start)))
			job.SectionDone(true)
			mu.Lock()
			nav[k] = tree
			fetched++
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("reindex cancelled", zap.Error(err))
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "fetching")
		return
	}

	// Phase 2: validated designs.
	job.SetStatus(StatusIndexing, "indexing")
	index := prev.HVD
	hadErrors := fetched < len(keys)
	if w.src.HVDDir != "" {
		idx, err := hvd.LoadDir(ctx, w.src.HVDDir, w.src.Registry, log)
		if err != nil {
			log.Error("hvd index failed", zap.Error(err))
			job.AddError(fmt.Sprintf("hvd: %s", err))
			hadErrors = true
		} else {
			index = idx
		}
	}
	guides := 0
	for _, grp := range index.CategoryGroups() {
		guides += len(grp.Guides)
	}
	job.SetGuides(guides)

	if fetched == 0 && len(keys) > 0 {
		job.SetStatus(StatusFailed, "fetching")
		return
	}

	// Phase 3: fingerprint and swap.
	hash, err := fingerprint(nav, index)
	if err != nil {
		job.AddError(fmt.Sprintf("fingerprint: %s", err))
		job.SetStatus(StatusFailed, "indexing")
		return
	}
	job.SetContentHash(hash)
	if hash == prev.ContentHash {
		log.Info("content unchanged, keeping catalog", zap.String("content_hash", hash))
		job.SetStatus(StatusUnchanged, "done")
		return
	}

	job.SetStatus(StatusSwapping, "swapping")
	w.catalog.Swap(&catalog.Snapshot{
		JobID:       job.ID,
		BuiltAt:     time.Now(),
		ContentHash: hash,
		Nav:         nav,
		HVD:         index,
	})
	log.Info("catalog swapped",
		zap.Int("sections", len(nav)),
		zap.Int("guides", guides),
		zap.String("content_hash", hash),
	)

	if hadErrors {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}

// fingerprint hashes the fetched content so unchanged rebuilds can be
// skipped. encoding/json sorts map keys, which keeps it stable.
func fingerprint(nav map[catalog.Key][]navtree.NavNode, index *hvd.Index) (string, error) {
	byName := make(map[string][]navtree.NavNode, len(nav))
	for k, v := range nav {
		byName[k.String()] = v
	}
	data, err := json.Marshal(struct {
		Nav map[string][]navtree.NavNode
		HVD []hvd.CategoryGroup
	}{byName, index.CategoryGroups()})
	if err != nil {
		return "", err
	}
	return ContentHashHex(data), nil
}
