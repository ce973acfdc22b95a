// Package status fetches live component statuses from the ITSM system,
// fans the fetch out over a whole map and records snapshots.
package status

import (
	"context"
	"errors"

	"github.com/ziadkadry99/riskmap/internal/hierarchy"
)

// ErrNoRecord is returned when the ITSM system has no record for a component.
var ErrNoRecord = errors.New("no status record")

// Client returns the operational status of one component.
type Client interface {
	Status(ctx context.Context, name string) (hierarchy.Status, error)
}

// StaticClient answers from a fixed table. Components not in the table
// report ErrNoRecord.
type StaticClient map[hierarchy.ComponentID]hierarchy.Status

// Status implements Client.
func (c StaticClient) Status(ctx context.Context, name string) (hierarchy.Status, error) {
	if err := ctx.Err(); err != nil {
		return hierarchy.StatusUnknown, err
	}
	st, ok := c[hierarchy.NormalizeID(name)]
	if !ok {
		return hierarchy.StatusUnknown, ErrNoRecord
	}
	return st, nil
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, name string) (hierarchy.Status, error)

// Status implements Client.
func (f ClientFunc) Status(ctx context.Context, name string) (hierarchy.Status, error) {
	return f(ctx, name)
}
