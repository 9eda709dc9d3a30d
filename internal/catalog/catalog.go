// Package catalog holds the nav trees and validated design index the API
// serves from. Reindex jobs build a new Snapshot and swap it in whole.
package catalog

import (
	"sort"
	"sync"
	"time"

	"github.com/dgallion1/docnav/internal/hvd"
	"github.com/dgallion1/docnav/internal/navtree"
)

// Key identifies one product section's nav tree.
type Key struct {
	Product string
	Section string
}

func (k Key) String() string { return k.Product + "/" + k.Section }

// Snapshot is an immutable view of indexed content.
type Snapshot struct {
	JobID       string
	BuiltAt     time.Time
	ContentHash string
	Nav         map[Key][]navtree.NavNode
	HVD         *hvd.Index
}

// Summary is the JSON-safe description of a snapshot.
type Summary struct {
	JobID       string    `json:"job_id"`
	BuiltAt     time.Time `json:"built_at"`
	ContentHash string    `json:"content_hash"`
	Sections    []string  `json:"sections"`
	Guides      int       `json:"guides"`
}

// Catalog guards the current snapshot.
type Catalog struct {
	mu   sync.RWMutex
	snap *Snapshot
}

func New() *Catalog {
	return &Catalog{snap: &Snapshot{Nav: map[Key][]navtree.NavNode{}}}
}

// Current returns the active snapshot. Callers must not modify it.
func (c *Catalog) Current() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Swap installs s and returns the snapshot it replaced.
func (c *Catalog) Swap(s *Snapshot) *Snapshot {
	if s.Nav == nil {
		s.Nav = map[Key][]navtree.NavNode{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.snap
	c.snap = s
	return prev
}

// Nav returns the nav tree for product/section.
func (c *Catalog) Nav(product, section string) ([]navtree.NavNode, bool) {
	nav, ok := c.Current().Nav[Key{Product: product, Section: section}]
	return nav, ok
}

// HVD returns the validated design index, which may be nil.
func (c *Catalog) HVD() *hvd.Index {
	return c.Current().HVD
}

// Summary describes the active snapshot.
func (c *Catalog) Summary() Summary {
	s := c.Current()
	sections := make([]string, 0, len(s.Nav))
	for k := range s.Nav {
		sections = append(sections, k.String())
	}
	sort.Strings(sections)
	guides := 0
	for _, g := range s.HVD.CategoryGroups() {
		guides += len(g.Guides)
	}
	return Summary{
		JobID:       s.JobID,
		BuiltAt:     s.BuiltAt,
		ContentHash: s.ContentHash,
		Sections:    sections,
		Guides:      guides,
	}
}
