package interfaces

import "context"

// Staging abstracts the directory that holds policy documents awaiting
// ingestion. Deletion after successful ingestion is the only mutation;
// tests substitute an in-memory implementation.
type Staging interface {
	// List returns the paths of stageable documents (supported suffix,
	// case-insensitive). A missing staging directory is not an error:
	// List returns (nil, false, nil) with exists == false.
	List(ctx context.Context) (paths []string, exists bool, err error)

	// Delete removes a document after it has been fully ingested.
	Delete(ctx context.Context, path string) error
}
