// Package memory implements the engine's long-term memory in two modes:
// a static file-backed store that is read once per session, and a dynamic
// vector store that accepts writes during a run and answers similarity
// queries.
package memory

import "context"

// Store is the read surface preloaded into agent system prompts.
type Store interface {
	// GetUserLTM returns the long-term memory text to seed a session with.
	// An empty string means no memory is available.
	GetUserLTM(ctx context.Context) (string, error)

	Close() error
}

// DynamicStore extends Store with in-run writes and similarity retrieval.
// Only the dynamic memory mode implements it.
type DynamicStore interface {
	Store

	// SaveContent persists one fact gathered during a run.
	SaveContent(ctx context.Context, content string) error

	// Query returns up to n stored facts most similar to the query text.
	Query(ctx context.Context, query string, n int) ([]string, error)
}
