package internal

import "context"

// Configurer is implemented by every component that reads its settings
// from the flat environment map
type Configurer interface {
	Configure(envs map[string]string) error
}

// Opener is implemented by components holding connections or goroutines
type Opener interface {
	Open(ctx context.Context) error
	Closer
}

type Closer interface {
	Close(ctx context.Context) error
}

type Clearer interface {
	Clear(ctx context.Context) error
}
