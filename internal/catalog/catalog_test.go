package catalog

import (
	"sync"
	"testing"

	"github.com/dgallion1/docnav/internal/navtree"
	"github.com/stretchr/testify/assert"
)

func TestCatalog_SwapAndLookup(t *testing.T) {
	c := New()
	_, ok := c.Nav("waypoint", "docs")
	assert.False(t, ok)
	assert.Nil(t, c.HVD())

	nav := []navtree.NavNode{&navtree.PageNode{Title: "Logs", Path: "logs"}}
	prev := c.Swap(&Snapshot{
		JobID: "job-1",
		Nav: map[Key][]navtree.NavNode{
			{Product: "waypoint", Section: "docs"}:     nav,
			{Product: "vault", Section: "api-docs"}: nil,
		},
	})
	assert.Empty(t, prev.Nav)

	got, ok := c.Nav("waypoint", "docs")
	assert.True(t, ok)
	assert.Equal(t, nav, got)

	sum := c.Summary()
	assert.Equal(t, "job-1", sum.JobID)
	assert.Equal(t, []string{"vault/api-docs", "waypoint/docs"}, sum.Sections)
	assert.Zero(t, sum.Guides)
}

func TestCatalog_ConcurrentReaders(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Swap(&Snapshot{})
		}()
		go func() {
			defer wg.Done()
			_, _ = c.Nav("waypoint", "docs")
			_ = c.Summary()
		}()
	}
	wg.Wait()
}
