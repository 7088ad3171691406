// Package vault stores family snapshots in a shared remote keyed by family
// code, so several devices can converge on one household record.
package vault

import (
	"context"
	"errors"

	"github.com/dukerupert/chorequest/internal/model"
)

// ErrNotFound reports that no vault exists under the requested family code.
var ErrNotFound = errors.New("vault: family code not found")

// Store is the remote vault. Implementations hold sanitized snapshots only;
// callers strip device-local cloud settings before Put and after Get.
type Store interface {
	// Get fetches the snapshot stored under code, or ErrNotFound.
	Get(ctx context.Context, code string) (model.AppState, error)

	// Put overwrites the snapshot under code, creating the vault if needed.
	Put(ctx context.Context, code string, state model.AppState) error

	// Subscribe invokes fn for every snapshot written under code by any
	// device until the returned stop function is called or ctx ends.
	Subscribe(ctx context.Context, code string, fn func(model.AppState)) (stop func(), err error)
}
