package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"
)

const dynamicCollection = "run-memory"

// DynamicVectorStore is the dynamic memory mode: test data is still
// preloaded statically, while facts saved during runs go into an embedded
// chromem vector collection and come back via similarity search.
type DynamicVectorStore struct {
	static *StaticStore

	mu         sync.Mutex
	collection *chromem.Collection
}

// NewDynamicStore opens (or creates) the vector database at dbPath. The
// test-data directory backs GetUserLTM exactly as in static mode.
// Embeddings use the library default (OpenAI-compatible, keyed by
// OPENAI_API_KEY).
func NewDynamicStore(testDataDir, dbPath string) (*DynamicVectorStore, error) {
	db, err := chromem.NewPersistentDB(dbPath, false)
	if err != nil {
		return nil, fmt.Errorf("opening vector db %s: %w", dbPath, err)
	}
	collection, err := db.GetOrCreateCollection(dynamicCollection, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("opening collection %s: %w", dynamicCollection, err)
	}
	return &DynamicVectorStore{
		static:     NewStaticStore(testDataDir),
		collection: collection,
	}, nil
}

// GetUserLTM preloads the test-data directory, same as static mode.
func (d *DynamicVectorStore) GetUserLTM(ctx context.Context) (string, error) {
	return d.static.GetUserLTM(ctx)
}

// SaveContent embeds and stores one fact.
func (d *DynamicVectorStore) SaveContent(ctx context.Context, content string) error {
	if content == "" {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	err := d.collection.AddDocuments(ctx, []chromem.Document{{
		ID:      uuid.NewString(),
		Content: content,
	}}, 1)
	if err != nil {
		return fmt.Errorf("saving memory: %w", err)
	}
	return nil
}

// Query returns up to n stored facts most similar to the query text.
// n is clamped to the collection size, which the underlying store
// requires.
func (d *DynamicVectorStore) Query(ctx context.Context, query string, n int) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	count := d.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if n <= 0 || n > count {
		n = count
	}

	results, err := d.collection.Query(ctx, query, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying memory: %w", err)
	}
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Content)
	}
	return out, nil
}

func (d *DynamicVectorStore) Close() error { return nil }
