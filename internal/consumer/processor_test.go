package consumer

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/TheOneWhoCameBefore/fsy-navigator-sub000/internal/roster"
)

func snapshotMessage(offset int64, payload []byte) kafka.Message {
	return kafka.Message{
		Topic:     "roster_snapshots",
		Partition: 0,
		Offset:    offset,
		Time:      time.Now().UTC(),
		Value:     payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(roster.SnapshotEventType)},
			{Key: "snapshot_id", Value: []byte(roster.Revision(payload))},
		},
	}
}

func testLogger(t *testing.T) *slog.Logger {
	return slog.New(slog.NewTextHandler(testWriter{t}, nil))
}

func TestProcessorCommitsOnSuccess(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	payload := []byte(`{"events":[],"roleAssignments":{}}`)
	reader := &stubReader{
		messages: []kafka.Message{snapshotMessage(10, payload)},
		after:    contextCanceled,
	}
	handler := &stubHandler{}

	processor := NewProcessor(reader, handler, WithLogger(testLogger(t)))

	err := processor.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	require.Equal(t, 1, handler.calls)
	require.Equal(t, 1, reader.commitCalls)
	require.Equal(t, roster.SnapshotEventType, handler.last.EventType)
	require.Equal(t, roster.Revision(payload), handler.last.SnapshotID)
	require.Equal(t, int64(10), handler.last.Offset)
	require.JSONEq(t, string(payload), string(handler.last.Payload))
}

func TestProcessorSkipsCommitOnHandlerError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &stubReader{
		messages: []kafka.Message{snapshotMessage(20, []byte(`{"events":[]}`))},
		after:    contextCanceled,
	}
	handler := &stubHandler{err: errors.New("boom")}

	processor := NewProcessor(reader, handler, WithLogger(testLogger(t)))

	err := processor.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	require.Equal(t, 1, handler.calls)
	require.Equal(t, 0, reader.commitCalls)
}

func TestProcessorCommitsMalformedMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wrongType := snapshotMessage(31, []byte(`{}`))
	wrongType.Headers[0].Value = []byte("activity.created")
	noHeader := snapshotMessage(32, []byte(`{}`))
	noHeader.Headers = nil

	reader := &stubReader{
		messages: []kafka.Message{
			snapshotMessage(30, []byte(`{"events":`)),
			wrongType,
			noHeader,
			snapshotMessage(33, nil),
		},
		after: contextCanceled,
	}
	handler := &stubHandler{}

	processor := NewProcessor(reader, handler, WithLogger(testLogger(t)))

	err := processor.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	require.Equal(t, 0, handler.calls)
	require.Equal(t, 4, reader.commitCalls)
}

func TestSnapshotHandlerStoresRevision(t *testing.T) {
	payload := []byte(`{"events":[{"weekday":"Monday","startTime":"8:00 AM","eventName":"Breakfast","eventType":"agenda"}],"roleAssignments":{"AC 1":["Sam"]}}`)
	store := &stubStore{}
	handler := NewSnapshotHandler(store, testLogger(t))

	at := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	err := handler.Handle(context.Background(), Message{Payload: payload, Timestamp: at, SnapshotID: "other"})
	require.NoError(t, err)

	require.Len(t, store.saved, 1)
	snap := store.saved[0]
	require.Equal(t, roster.Revision(payload), snap.Revision)
	require.Equal(t, at, snap.ReceivedAt)
	require.Len(t, snap.Records, 1)
	require.Equal(t, []string{"Sam"}, snap.RoleAssignments["AC 1"])
}

func TestSnapshotHandlerPropagatesErrors(t *testing.T) {
	boom := errors.New("db down")
	handler := NewSnapshotHandler(&stubStore{err: boom}, testLogger(t))

	err := handler.Handle(context.Background(), Message{Payload: []byte(`{"events":[]}`)})
	require.ErrorIs(t, err, boom)

	err = handler.Handle(context.Background(), Message{Payload: []byte(`{"events":"nope"}`)})
	require.Error(t, err)
}

type stubStore struct {
	saved []roster.Snapshot
	err   error
}

func (s *stubStore) ReplaceSnapshot(_ context.Context, snap roster.Snapshot) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	s.saved = append(s.saved, snap)
	return true, nil
}

type stubReader struct {
	messages    []kafka.Message
	index       int
	commitCalls int
	after       func() error
}

func (r *stubReader) FetchMessage(context.Context) (kafka.Message, error) {
	if r.index >= len(r.messages) {
		if r.after != nil {
			return kafka.Message{}, r.after()
		}
		return kafka.Message{}, context.Canceled
	}
	msg := r.messages[r.index]
	r.index++
	return msg, nil
}

func (r *stubReader) CommitMessages(_ context.Context, _ ...kafka.Message) error {
	r.commitCalls++
	return nil
}

func (r *stubReader) Close() error { return nil }

func contextCanceled() error { return context.Canceled }

type stubHandler struct {
	calls int
	err   error
	last  Message
}

func (h *stubHandler) Handle(_ context.Context, msg Message) error {
	h.calls++
	h.last = msg
	return h.err
}

type testWriter struct {
	t *testing.T
}

func (tw testWriter) Write(p []byte) (int, error) {
	tw.t.Log(string(p))
	return len(p), nil
}
