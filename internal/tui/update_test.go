package tui

import (
	"testing"

	"github.com/ecotrack/console/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCycleStatusFilterCoversPseudoStatuses(t *testing.T) {
	seen := map[models.Status]bool{}
	s := models.StatusAll
	for i := 0; i < 4; i++ {
		seen[s] = true
		s = cycleStatusFilter(s)
	}
	assert.Equal(t, models.StatusAll, s, "cycle should wrap around")
	assert.True(t, seen[models.StatusArchived])
	assert.True(t, seen[models.StatusDraft])
	assert.True(t, seen[models.StatusPublished])
}

func TestCycleCategoryFilterWraps(t *testing.T) {
	c := models.CategoryAll
	for i := 0; i < 4; i++ {
		c = cycleCategoryFilter(c)
	}
	assert.Equal(t, models.CategoryAll, c)
}

func TestCycleCategorySkipsAll(t *testing.T) {
	c := models.CategoryGeneral
	for i := 0; i < 6; i++ {
		c = cycleCategory(c, true)
		assert.NotEqual(t, models.CategoryAll, c, "form category must never become the filter-only value")
	}
	assert.Equal(t, models.CategoryGeneral, c)

	assert.Equal(t, models.CategoryBrownout, cycleCategory(models.CategoryGeneral, false))
}

func TestTrimLastHandlesMultibyte(t *testing.T) {
	assert.Equal(t, "", trimLast(""))
	assert.Equal(t, "ab", trimLast("abc"))
	assert.Equal(t, "héll", trimLast("héllo"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a ve…", truncate("a very long title", 5))
}
