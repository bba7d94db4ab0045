package core

import "context"

// Repository defines the contract for storing and retrieving posts.
// Adhering to this interface keeps the core independent of the
// underlying storage mechanism (Filesystem, Git, mocks).
type Repository interface {
	// Save persists a post. It creates if not exists, or updates if it does.
	Save(ctx context.Context, p Post) error

	// Get retrieves a post by its ID.
	Get(ctx context.Context, id string) (Post, error)

	// List returns all available posts.
	List(ctx context.Context) ([]Post, error)

	// Delete removes a post by its ID.
	Delete(ctx context.Context, id string) error

	// Initialize ensures the underlying storage is ready (e.g. create directories, git init).
	Initialize(ctx context.Context) error
}

// Syncable defines an interface for repositories that support synchronization with a remote.
type Syncable interface {
	// Sync synchronizes the local state with a remote source (e.g. git pull/push).
	Sync(ctx context.Context) error
}

// Watchable defines an interface for repositories that can report changes.
type Watchable interface {
	// Watch emits events for posts whose relative path matches pattern.
	// The channel is closed when ctx is cancelled.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
