package postgres

import (
	"testing"

	"github.com/animecatalog/catalog-api/internal/core/domain"
)

func TestOrderBy(t *testing.T) {
	tests := map[string]string{
		"":          "ORDER BY id ASC, id ASC",
		"id,desc":   "ORDER BY id DESC, id ASC",
		"name":      "ORDER BY name ASC, id ASC",
		"NAME,DESC": "ORDER BY name DESC, id ASC",
		"name;drop": "ORDER BY id ASC, id ASC",
	}
	for sort, want := range tests {
		if got := orderBy(domain.NewPageRequest(0, 20, sort)); got != want {
			t.Fatalf("orderBy(%q) = %q, want %q", sort, got, want)
		}
	}
}
