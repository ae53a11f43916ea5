package consumer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/TheOneWhoCameBefore/fsy-navigator-sub000/internal/roster"
)

// SnapshotStore persists a decoded snapshot as the current revision.
type SnapshotStore interface {
	ReplaceSnapshot(ctx context.Context, snap roster.Snapshot) (bool, error)
}

// SnapshotHandler stores every consumed snapshot.
type SnapshotHandler struct {
	store  SnapshotStore
	logger *slog.Logger
	now    func() time.Time
}

// NewSnapshotHandler constructs a handler writing to store.
func NewSnapshotHandler(store SnapshotStore, logger *slog.Logger) *SnapshotHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotHandler{store: store, logger: logger, now: time.Now}
}

// Handle decodes the snapshot payload and replaces the current revision.
func (h *SnapshotHandler) Handle(ctx context.Context, msg Message) error {
	receivedAt := msg.Timestamp
	if receivedAt.IsZero() {
		receivedAt = h.now()
	}

	snap, err := roster.DecodeSnapshot(msg.Payload, receivedAt)
	if err != nil {
		return err
	}
	if msg.SnapshotID != "" && msg.SnapshotID != snap.Revision {
		h.logger.Warn("snapshot_id header does not match payload hash",
			"snapshot_id", msg.SnapshotID, "revision", snap.Revision)
	}

	created, err := h.store.ReplaceSnapshot(ctx, snap)
	if err != nil {
		return fmt.Errorf("store snapshot %s: %w", snap.Revision, err)
	}
	h.logger.Info("snapshot applied",
		"revision", snap.Revision,
		"events", len(snap.Records),
		"roles", len(snap.RoleAssignments),
		"new", created,
		"offset", msg.Offset,
	)
	return nil
}
