// Package calendar defines the external calendar sync collaborator run at
// the end of each batch cycle.
package calendar

import "context"

// SyncResult counts connected accounts by outcome
type SyncResult struct {
	Synced int `json:"synced"`
	Failed int `json:"failed"`
}

// Syncer iterates its own accounts. A returned error aborts the cycle;
// per-account failures belong in Failed.
type Syncer interface {
	SyncAll(ctx context.Context) (SyncResult, error)
}

// NoopSyncer is used when no calendar integration is configured
type NoopSyncer struct{}

func (NoopSyncer) SyncAll(ctx context.Context) (SyncResult, error) {
	return SyncResult{}, ctx.Err()
}
