package ports

import (
	"context"

	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
)

// GraphLoader defines how complaint graphs are retrieved.
// This allows the catalog source (bundled, YAML, Loam) to be decoupled.
type GraphLoader interface {
	// LoadGraphs returns every complaint graph the source provides, in
	// catalog order. Graphs are returned as authored; validation happens
	// lazily at traversal time or eagerly through the validator.
	LoadGraphs(ctx context.Context) ([]*domain.ComplaintGraph, error)
}
