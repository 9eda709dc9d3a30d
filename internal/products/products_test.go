package products

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry([]string{" Vault", "waypoint", ""})

	assert.True(t, r.IsBeta("vault"))
	assert.True(t, r.IsBeta("waypoint"))
	assert.False(t, r.IsBeta("consul"))

	name, ok := r.Name("waypoint")
	assert.True(t, ok)
	assert.Equal(t, "Waypoint", name)

	_, ok = r.Name("nope")
	assert.False(t, ok)
	assert.False(t, r.IsProduct("onboarding"))
	assert.True(t, IsRootSection("onboarding"))
	assert.Contains(t, Slugs(), "terraform")

	var nilReg *Registry
	assert.False(t, nilReg.IsBeta("vault"))
}
