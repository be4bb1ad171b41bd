package tests

import (
	"context"
	"testing"

	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/ports"
)

// GraphLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.GraphLoader.
// wantIDs lists the complaint ids the loader must return, in catalog order.
func GraphLoaderContractTest(t *testing.T, loader ports.GraphLoader, wantIDs []string) {
	t.Helper()

	graphs, err := loader.LoadGraphs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error loading graphs: %v", err)
	}

	t.Run("Order", func(t *testing.T) {
		if len(graphs) != len(wantIDs) {
			t.Fatalf("expected %d graphs, got %d", len(wantIDs), len(graphs))
		}
		for i, g := range graphs {
			if g.ID != wantIDs[i] {
				t.Errorf("graph %d: got id %q, want %q", i, g.ID, wantIDs[i])
			}
		}
	})

	t.Run("InitialQuestion", func(t *testing.T) {
		for _, g := range graphs {
			if g.Name == "" {
				t.Errorf("graph %s has no display name", g.ID)
			}
			if _, ok := g.Questions[g.InitialQuestion]; !ok {
				t.Errorf("graph %s: initial question %q missing", g.ID, g.InitialQuestion)
			}
		}
	})

	t.Run("QuestionKeys", func(t *testing.T) {
		for _, g := range graphs {
			for id, q := range g.Questions {
				if q.ID != id {
					t.Errorf("graph %s: question key %q holds id %q", g.ID, id, q.ID)
				}
			}
		}
	})
}
