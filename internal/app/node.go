package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ancestry/internal/adapters/cas"
	"go.trai.ch/ancestry/internal/adapters/config"
	"go.trai.ch/ancestry/internal/adapters/cyclonedx"
	"go.trai.ch/ancestry/internal/adapters/linear"
	"go.trai.ch/ancestry/internal/adapters/logger"
	"go.trai.ch/ancestry/internal/adapters/provenance"
	"go.trai.ch/ancestry/internal/adapters/spdx"
	"go.trai.ch/ancestry/internal/adapters/stats"
	"go.trai.ch/ancestry/internal/adapters/watcher"
	"go.trai.ch/ancestry/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			provenance.NodeID,
			cas.NodeID,
			stats.NodeID,
			linear.NodeID,
			watcher.NodeID,
			logger.NodeID,
			spdx.NodeID,
			cyclonedx.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	prov, err := graft.Dep[ports.ProvenanceLoader](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.RecordStore](ctx)
	if err != nil {
		return nil, err
	}

	collector, err := graft.Dep[*stats.Collector](ctx)
	if err != nil {
		return nil, err
	}

	renderer, err := graft.Dep[ports.Renderer](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	spdxCodec, err := graft.Dep[*spdx.Codec](ctx)
	if err != nil {
		return nil, err
	}

	cdxCodec, err := graft.Dep[*cyclonedx.Codec](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, prov, store, collector, renderer, w, log, spdxCodec, cdxCodec), nil
}
