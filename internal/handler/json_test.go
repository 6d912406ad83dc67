package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		page, limit := parsePagination(httptest.NewRequest("GET", "/timesheets", nil))
		assert.Equal(t, 1, page)
		assert.Equal(t, defaultPageLimit, limit)
	})

	t.Run("explicit values", func(t *testing.T) {
		page, limit := parsePagination(httptest.NewRequest("GET", "/timesheets?page=3&limit=50", nil))
		assert.Equal(t, 3, page)
		assert.Equal(t, 50, limit)
	})

	t.Run("garbage and out-of-range values fall back", func(t *testing.T) {
		page, limit := parsePagination(httptest.NewRequest("GET", "/timesheets?page=abc&limit=-1", nil))
		assert.Equal(t, 1, page)
		assert.Equal(t, defaultPageLimit, limit)
	})

	t.Run("limit is capped", func(t *testing.T) {
		_, limit := parsePagination(httptest.NewRequest("GET", "/timesheets?limit=5000", nil))
		assert.Equal(t, maxPageLimit, limit)
	})
}

func TestNewListResult(t *testing.T) {
	t.Run("partial last page rounds up", func(t *testing.T) {
		result := newListResult([]string{}, 1, 20, 41)
		assert.Equal(t, int64(3), result.Pagination.Pages)
	})

	t.Run("exact fit", func(t *testing.T) {
		result := newListResult([]string{}, 2, 20, 40)
		assert.Equal(t, int64(2), result.Pagination.Pages)
		assert.Equal(t, 2, result.Pagination.Page)
	})

	t.Run("empty set has zero pages", func(t *testing.T) {
		result := newListResult([]string{}, 1, 20, 0)
		assert.Equal(t, int64(0), result.Pagination.Pages)
	})
}
