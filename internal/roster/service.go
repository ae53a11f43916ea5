// Package roster serves partitioned schedules, resolved activities and linked
// events for the current roster snapshot.
package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/TheOneWhoCameBefore/fsy-navigator-sub000/internal/domain"
	"github.com/TheOneWhoCameBefore/fsy-navigator-sub000/internal/linker"
	"github.com/TheOneWhoCameBefore/fsy-navigator-sub000/internal/observability"
	"github.com/TheOneWhoCameBefore/fsy-navigator-sub000/internal/resolver"
)

var (
	// ErrNoSnapshot is returned before the first snapshot has been stored.
	ErrNoSnapshot = errors.New("no roster snapshot available")
	// ErrEventNotFound is returned when an event ID is not in the current schedule.
	ErrEventNotFound = errors.New("event not found")
)

// Repository loads stored snapshots.
type Repository interface {
	CurrentRevision(ctx context.Context) (string, error)
	LoadSnapshot(ctx context.Context, revision string) (*Snapshot, error)
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service builds schedules on demand and memoizes them by revision.
type Service struct {
	repo   Repository
	cache  *lru.Cache[string, *Schedule]
	group  singleflight.Group
	logger *slog.Logger
}

// NewService constructs a Service holding up to cacheSize schedules.
func NewService(repo Repository, cacheSize int, opts ...Option) (*Service, error) {
	if cacheSize <= 0 {
		cacheSize = 1
	}
	cache, err := lru.New[string, *Schedule](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create schedule cache: %w", err)
	}
	s := &Service{
		repo:   repo,
		cache:  cache,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Current returns the schedule of the current revision.
func (s *Service) Current(ctx context.Context) (*Schedule, error) {
	revision, err := s.repo.CurrentRevision(ctx)
	if err != nil {
		return nil, err
	}
	if sched, ok := s.cache.Get(revision); ok {
		observability.RecordCacheLookup(true)
		return sched, nil
	}
	observability.RecordCacheLookup(false)

	// Waiters share one build, so it must outlive any single caller.
	buildCtx := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(revision, func() (any, error) {
		if sched, ok := s.cache.Get(revision); ok {
			return sched, nil
		}
		return s.build(buildCtx, revision)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Schedule), nil
}

func (s *Service) build(ctx context.Context, revision string) (*Schedule, error) {
	start := time.Now()
	snap, err := s.repo.LoadSnapshot(ctx, revision)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", revision, err)
	}

	sched := BuildSchedule(*snap)
	observability.ObserveScheduleBuild(time.Since(start))
	observability.RecordPartition(sched.Report.Kept, sched.Report.SkippedWeekday, sched.Report.SkippedStartTime)

	if sched.Report.Skipped() > 0 {
		s.logger.Warn("roster rows skipped",
			"revision", revision,
			"kept", sched.Report.Kept,
			"skipped_weekday", sched.Report.SkippedWeekday,
			"skipped_start_time", sched.Report.SkippedStartTime,
		)
	}
	s.logger.Debug("schedule built", "revision", revision, "roles", len(sched.Roles))

	s.cache.Add(revision, sched)
	return sched, nil
}

// DaySummary counts the entries of one weekday.
type DaySummary struct {
	Weekday string `json:"weekday"`
	Events  int    `json:"events"`
	Anchors int    `json:"anchors"`
}

// Summary describes the current schedule.
type Summary struct {
	Revision   string                 `json:"revision"`
	ReceivedAt time.Time              `json:"receivedAt"`
	Days       []DaySummary           `json:"days"`
	Report     domain.PartitionReport `json:"report"`
}

// Summary lists every weekday of the current schedule, Sunday first.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	sched, err := s.Current(ctx)
	if err != nil {
		return Summary{}, err
	}
	out := Summary{
		Revision:   sched.Revision,
		ReceivedAt: sched.ReceivedAt,
		Report:     sched.Report,
		Days:       make([]DaySummary, 0, 7),
	}
	for day := time.Sunday; day <= time.Saturday; day++ {
		events := sched.Day(day)
		out.Days = append(out.Days, DaySummary{
			Weekday: day.String(),
			Events:  len(events),
			Anchors: len(domain.Anchors(events)),
		})
	}
	return out, nil
}

// Day returns the events of a weekday name.
func (s *Service) Day(ctx context.Context, weekday string) (time.Weekday, []domain.Event, error) {
	day, err := domain.ParseWeekday(weekday)
	if err != nil {
		return 0, nil, fmt.Errorf("weekday %q: %w", weekday, err)
	}
	sched, err := s.Current(ctx)
	if err != nil {
		return 0, nil, err
	}
	events := sched.Day(day)
	if events == nil {
		events = []domain.Event{}
	}
	return day, events, nil
}

// Activities resolves every agenda block of a weekday for roles. An empty
// roles list means every role in the schedule.
func (s *Service) Activities(ctx context.Context, weekday string, roles []string) ([]resolver.AnchorActivities, error) {
	day, err := domain.ParseWeekday(weekday)
	if err != nil {
		return nil, fmt.Errorf("weekday %q: %w", weekday, err)
	}
	sched, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		roles = sched.Roles
	}
	return resolver.ResolveDay(sched.Day(day), roles), nil
}

// Linked returns an event and the events related to it on the same weekday.
func (s *Service) Linked(ctx context.Context, id string) (domain.Event, []domain.Event, error) {
	sched, err := s.Current(ctx)
	if err != nil {
		return domain.Event{}, nil, err
	}
	ev, ok := sched.Event(id)
	if !ok {
		return domain.Event{}, nil, ErrEventNotFound
	}
	day, err := domain.ParseWeekday(ev.Weekday)
	if err != nil {
		return domain.Event{}, nil, err
	}
	linked := linker.FindLinked(ev, sched.Day(day))
	if linked == nil {
		linked = []domain.Event{}
	}
	return ev, linked, nil
}

// RoleInfo is one role and the people assigned to it.
type RoleInfo struct {
	Role   string   `json:"role"`
	People []string `json:"people"`
}

// Roles lists every role of the current schedule in display order.
func (s *Service) Roles(ctx context.Context) ([]RoleInfo, error) {
	sched, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RoleInfo, 0, len(sched.Roles))
	for _, role := range sched.Roles {
		people := sched.RoleAssignments[role]
		if people == nil {
			people = []string{}
		}
		out = append(out, RoleInfo{Role: role, People: people})
	}
	return out, nil
}
