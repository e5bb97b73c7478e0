package cyclonedx

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the CycloneDX codec Graft node.
const NodeID graft.ID = "adapter.codec.cyclonedx"

func init() {
	graft.Register(graft.Node[*Codec]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Codec, error) {
			return New(), nil
		},
	})
}
