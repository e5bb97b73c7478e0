package provenance

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ancestry/internal/core/ports"
)

// NodeID is the unique identifier for the provenance loader Graft node.
const NodeID graft.ID = "adapter.provenance_loader"

func init() {
	graft.Register(graft.Node[ports.ProvenanceLoader]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ProvenanceLoader, error) {
			return NewLoader(), nil
		},
	})
}
