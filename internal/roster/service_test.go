package roster

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/TheOneWhoCameBefore/fsy-navigator-sub000/internal/domain"
	"github.com/TheOneWhoCameBefore/fsy-navigator-sub000/internal/logging"
)

type stubRepo struct {
	mu        sync.Mutex
	revision  string
	snapshots map[string]*Snapshot
	loads     int
	revErr    error
	honorCtx  bool
}

func (s *stubRepo) CurrentRevision(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revErr != nil {
		return "", s.revErr
	}
	if s.revision == "" {
		return "", ErrNoSnapshot
	}
	return s.revision, nil
}

func (s *stubRepo) LoadSnapshot(ctx context.Context, revision string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if s.honorCtx && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	snap, ok := s.snapshots[revision]
	if !ok {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

func (s *stubRepo) put(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshots == nil {
		s.snapshots = map[string]*Snapshot{}
	}
	s.snapshots[snap.Revision] = snap
	s.revision = snap.Revision
}

func sampleSnapshot(revision string) *Snapshot {
	return &Snapshot{
		Revision:   revision,
		ReceivedAt: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
		Records: []domain.RawRecord{
			{ID: "ci", Weekday: "Wednesday", StartTime: "9:00 AM", EndTime: "10:00 AM", EventName: "Check-in", EventType: "agenda", Role: domain.AgendaRole},
			{ID: "cic", Weekday: "Wednesday", StartTime: "9:00 AM", EndTime: "9:30 AM", EventName: "Check-in Coordinator", EventAbbreviation: "CIC", EventType: "duty", Role: "AC 1"},
			{ID: "cis", Weekday: "Wednesday", StartTime: "9:00 AM", EndTime: "10:00 AM", EventName: "Check-in Support", EventAbbreviation: "CIS", EventType: "duty", Role: "CN A"},
			{ID: "bad", Weekday: "Wednesday", StartTime: "nine", EventName: "Broken"},
			{ID: "dance", Weekday: "Friday", StartTime: "7:00 PM", EndTime: "9:00 PM", EventName: "Dance", EventType: "agenda"},
		},
		RoleAssignments: map[string][]string{"AC 1": {"Sam"}, "AC 10": {"Lee"}, "Session Director": {"Kim"}},
	}
}

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	svc, err := NewService(repo, 4, WithLogger(logging.Discard()))
	require.NoError(t, err)
	return svc
}

func TestCurrentMemoizesByRevision(t *testing.T) {
	repo := &stubRepo{}
	repo.put(sampleSnapshot("rev-1"))
	svc := newTestService(t, repo)

	first, err := svc.Current(context.Background())
	require.NoError(t, err)
	second, err := svc.Current(context.Background())
	require.NoError(t, err)
	require.Same(t, first, second)
	require.Equal(t, 1, repo.loads)

	repo.put(sampleSnapshot("rev-2"))
	third, err := svc.Current(context.Background())
	require.NoError(t, err)
	require.Equal(t, "rev-2", third.Revision)
	require.Equal(t, 2, repo.loads)
}

func TestCurrentConcurrentCallersShareBuild(t *testing.T) {
	repo := &stubRepo{}
	repo.put(sampleSnapshot("rev-1"))
	svc := newTestService(t, repo)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Current(context.Background())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	require.LessOrEqual(t, repo.loads, 8)
	require.GreaterOrEqual(t, repo.loads, 1)
}

func TestCurrentBuildIgnoresCallerCancellation(t *testing.T) {
	repo := &stubRepo{honorCtx: true}
	repo.put(sampleSnapshot("rev-1"))
	svc := newTestService(t, repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sched, err := svc.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, "rev-1", sched.Revision)
}

func TestNoSnapshotPropagates(t *testing.T) {
	svc := newTestService(t, &stubRepo{})

	_, err := svc.Current(context.Background())
	require.ErrorIs(t, err, ErrNoSnapshot)

	_, err = svc.Summary(context.Background())
	require.ErrorIs(t, err, ErrNoSnapshot)

	boom := errors.New("db down")
	svc = newTestService(t, &stubRepo{revErr: boom})
	_, err = svc.Roles(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestSummaryAndRoles(t *testing.T) {
	repo := &stubRepo{}
	repo.put(sampleSnapshot("rev-1"))
	svc := newTestService(t, repo)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, "rev-1", summary.Revision)
	require.Len(t, summary.Days, 7)
	require.Equal(t, DaySummary{Weekday: "Wednesday", Events: 3, Anchors: 1}, summary.Days[3])
	require.Equal(t, domain.PartitionReport{Kept: 4, SkippedStartTime: 1}, summary.Report)

	roles, err := svc.Roles(context.Background())
	require.NoError(t, err)
	require.Equal(t, []RoleInfo{
		{Role: "AC 1", People: []string{"Sam"}},
		{Role: "AC 10", People: []string{"Lee"}},
		{Role: "CN A", People: []string{}},
		{Role: "Session Director", People: []string{"Kim"}},
	}, roles)
}

func TestDayAndActivities(t *testing.T) {
	repo := &stubRepo{}
	repo.put(sampleSnapshot("rev-1"))
	svc := newTestService(t, repo)

	day, events, err := svc.Day(context.Background(), "wed")
	require.NoError(t, err)
	require.Equal(t, time.Wednesday, day)
	require.Len(t, events, 3)

	_, events, err = svc.Day(context.Background(), "Monday")
	require.NoError(t, err)
	require.NotNil(t, events)
	require.Empty(t, events)

	_, _, err = svc.Day(context.Background(), "Someday")
	require.ErrorIs(t, err, domain.ErrUnknownWeekday)

	blocks, err := svc.Activities(context.Background(), "Wednesday", nil)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	require.Equal(t, "CIC - Check-in Coordinator", blocks[0].Activities["AC 1"].String())
	require.Equal(t, "CIS - Check-in Support", blocks[0].Activities["CN A"].String())
	require.True(t, blocks[0].Activities["AC 10"].IsNoDuty())

	blocks, err = svc.Activities(context.Background(), "Wednesday", []string{"AC 1"})
	require.NoError(t, err)
	require.Len(t, blocks[0].Activities, 2, "CN A is backfilled as the pair of AC 1")
}

func TestLinked(t *testing.T) {
	repo := &stubRepo{}
	repo.put(sampleSnapshot("rev-1"))
	svc := newTestService(t, repo)

	ev, linked, err := svc.Linked(context.Background(), "ci")
	require.NoError(t, err)
	require.Equal(t, "Check-in", ev.Name)
	require.Len(t, linked, 2)

	_, linked, err = svc.Linked(context.Background(), "dance")
	require.NoError(t, err)
	require.NotNil(t, linked)
	require.Empty(t, linked)

	_, _, err = svc.Linked(context.Background(), "missing")
	require.ErrorIs(t, err, ErrEventNotFound)
}

func TestSortRoles(t *testing.T) {
	roles := []string{"CN B", "Zed", "AC 10", "AC 2", "CN A", "Alpha"}
	SortRoles(roles)
	require.Equal(t, []string{"AC 2", "AC 10", "CN A", "CN B", "Alpha", "Zed"}, roles)
}

func TestDecodeSnapshot(t *testing.T) {
	raw := []byte(`{"events":[{"weekday":"Monday","startTime":"8:00 AM","eventName":"Breakfast","eventType":"agenda"}]}`)
	snap, err := DecodeSnapshot(raw, time.Unix(0, 0))
	require.NoError(t, err)
	require.Equal(t, Revision(raw), snap.Revision)
	require.Len(t, snap.Records, 1)
	require.NotNil(t, snap.RoleAssignments)

	_, err = DecodeSnapshot([]byte("not-json"), time.Now())
	require.Error(t, err)
}
