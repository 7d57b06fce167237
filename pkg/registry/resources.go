package registry

import (
	"context"

	"github.com/richard-senior/mcpsession/pkg/mcp"
	"github.com/richard-senior/mcpsession/pkg/mcperrors"
)

// ResourceHandler produces the contents of a registered resource on demand.
type ResourceHandler func(ctx context.Context, uri string) (*mcp.ResourcesReadResult, error)

type resourceEntry struct {
	resource mcp.Resource
	handler  ResourceHandler
}

// Resources is the resources/* registry, keyed by URI.
type Resources struct {
	store *store[resourceEntry]
}

func NewResources() *Resources {
	return &Resources{store: newStore[resourceEntry]()}
}

// Register adds or overwrites the resource at r.URI.
func (r *Resources) Register(res mcp.Resource, handler ResourceHandler) {
	r.store.put(res.URI, resourceEntry{resource: res, handler: handler})
}

func (r *Resources) Unregister(uri string) {
	r.store.remove(uri)
}

// List returns one page of resources starting at cursor.
func (r *Resources) List(cursor string) (*mcp.ResourcesListResult, error) {
	entries, next, err := r.store.page(cursor)
	if err != nil {
		return nil, err
	}
	out := make([]mcp.Resource, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.resource)
	}
	return &mcp.ResourcesListResult{Resources: out, NextCursor: next}, nil
}

// Read looks up uri and invokes its handler.
func (r *Resources) Read(ctx context.Context, uri string) (*mcp.ResourcesReadResult, error) {
	entry, ok := r.store.get(uri)
	if !ok {
		return nil, mcperrors.New(mcperrors.KindResourceNotFound, uri)
	}
	return entry.handler(ctx, uri)
}

func (r *Resources) Len() int { return r.store.len() }

// Has reports whether uri is a registered resource, without invoking
// its handler — used by resources/subscribe to reject an unknown URI.
func (r *Resources) Has(uri string) bool {
	_, ok := r.store.get(uri)
	return ok
}
