package roster

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/TheOneWhoCameBefore/fsy-navigator-sub000/internal/domain"
)

// SnapshotEventType is the event_type header carried by snapshot messages.
const SnapshotEventType = "roster.snapshot"

// Payload is the full-replace roster document carried on the snapshot topic.
type Payload struct {
	Events          []domain.RawRecord  `json:"events" yaml:"events"`
	RoleAssignments map[string][]string `json:"roleAssignments" yaml:"roleAssignments"`
}

// Snapshot is one stored revision of the roster.
type Snapshot struct {
	Revision        string
	ReceivedAt      time.Time
	Records         []domain.RawRecord
	RoleAssignments map[string][]string
}

// Revision returns the content hash identifying a raw payload.
func Revision(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// DecodeSnapshot parses a snapshot message value.
func DecodeSnapshot(raw []byte, receivedAt time.Time) (Snapshot, error) {
	var payload Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if payload.RoleAssignments == nil {
		payload.RoleAssignments = map[string][]string{}
	}
	return Snapshot{
		Revision:        Revision(raw),
		ReceivedAt:      receivedAt.UTC(),
		Records:         payload.Events,
		RoleAssignments: payload.RoleAssignments,
	}, nil
}

// EncodePayload marshals p into a snapshot message value.
func EncodePayload(p Payload) ([]byte, error) {
	if p.Events == nil {
		p.Events = []domain.RawRecord{}
	}
	if p.RoleAssignments == nil {
		p.RoleAssignments = map[string][]string{}
	}
	return json.Marshal(p)
}
