package stats

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the statistics collector Graft node.
const NodeID graft.ID = "adapter.stats"

func init() {
	graft.Register(graft.Node[*Collector]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Collector, error) {
			return New(), nil
		},
	})
}
