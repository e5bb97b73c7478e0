package ports

import "context"

// Watcher reports changes to the files of a set of directories.
//
//go:generate go run go.uber.org/mock/mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Watch reports batches of changed file paths under dirs until ctx is done.
	// The channel is closed when watching stops.
	Watch(ctx context.Context, dirs []string) (<-chan []string, error)
}
