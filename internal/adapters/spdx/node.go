package spdx

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the SPDX codec Graft node.
const NodeID graft.ID = "adapter.codec.spdx"

func init() {
	graft.Register(graft.Node[*Codec]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Codec, error) {
			return New(), nil
		},
	})
}
