package app

import (
	"context"
	"encoding/json"
)

// Store is the remote tree-structured realtime store. Paths are
// slash-delimited strings into the tree, e.g. "posts/p1/likes/u1". Values are
// JSON subtrees; JSON null is the explicit "not present" value. No operation
// is transactional across top-level paths: each path's write is independently
// durable.
type Store interface {
	// Read returns the full subtree at path, one shot. Absent paths return
	// JSON null, never an error.
	Read(ctx context.Context, path string) (json.RawMessage, error)

	// Subscribe delivers the full current value of path immediately, then
	// again on every change to path or any of its descendants. Snapshots on
	// one path arrive in the store's commit order; no order is guaranteed
	// across distinct paths. The returned cancel closes the subscription.
	Subscribe(path string, fn func(snapshot json.RawMessage)) (cancel func())

	// WriteFull overwrites the node at path. A nil value deletes the node;
	// this is how presence entries are removed.
	WriteFull(ctx context.Context, path string, value any) error

	// Append creates a new child under path and returns its generated key.
	// Keys generated under the same path sort chronologically.
	Append(ctx context.Context, path string, value any) (key string, err error)

	// MergeFields shallow-merges the named children into path without
	// touching siblings. A nil field value deletes that child.
	MergeFields(ctx context.Context, path string, fields map[string]any) error
}
