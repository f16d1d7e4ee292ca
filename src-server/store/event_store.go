package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"calboard/src-server/model"
	"calboard/src-server/utils"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrEventNotFound signals a lookup, update or delete against an id that
// has no row in the events table. Deleting an absent id is an error, not
// a no-op, so stale clients learn their local state is out of date.
var ErrEventNotFound = errors.New("event not found")

// EventStore owns persistence and identity assignment for events. It is
// an explicit handle over a bun.DB, never package-level state; tests get
// isolation by building one over an in-memory database.
type EventStore struct {
	db      *bun.DB
	metrics *utils.Metric
}

func NewEventStore(db *bun.DB, metrics *utils.Metric) *EventStore {
	return &EventStore{db: db, metrics: metrics}
}

// ListAll returns every stored event, in no guaranteed order.
func (s *EventStore) ListAll(ctx context.Context) ([]model.Event, error) {
	startTimer := time.Now()
	eventModels := make([]model.Event, 0)
	if err := s.db.
		NewSelect().
		Model(&eventModels).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("(*EventStore).ListAll: %w", err)
	}
	s.metrics.RecordDatabaseRead(time.Since(startTimer))
	return eventModels, nil
}

// Insert assigns a fresh id, stamps created_at/updated_at and persists
// the event, returning the stored record.
func (s *EventStore) Insert(ctx context.Context, title string, start, end time.Time) (*model.Event, error) {
	now := time.Now().UTC()
	eventModel := &model.Event{
		ID:        uuid.NewString(),
		Title:     title,
		StartDate: start,
		EndDate:   end,
		CreatedAt: now,
		UpdatedAt: now,
	}

	startTimer := time.Now()
	if _, err := s.db.
		NewInsert().
		Model(eventModel).
		Exec(ctx); err != nil {
		return nil, fmt.Errorf("(*EventStore).Insert: %w", err)
	}
	s.metrics.RecordDatabaseWrite(time.Since(startTimer))
	return eventModel, nil
}

func (s *EventStore) FindByID(ctx context.Context, id string) (*model.Event, error) {
	startTimer := time.Now()
	eventModel := new(model.Event)
	err := s.db.
		NewSelect().
		Model(eventModel).
		Where("id = ?", id).
		Scan(ctx)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrEventNotFound
	case err != nil:
		return nil, fmt.Errorf("(*EventStore).FindByID: %w", err)
	}
	s.metrics.RecordDatabaseRead(time.Since(startTimer))
	return eventModel, nil
}

// UpdateFields mutates start/end and updated_at on the row matching id.
// Title and created_at are not touched; only the time range is client
// mutable through this path.
func (s *EventStore) UpdateFields(ctx context.Context, id string, start, end time.Time) (*model.Event, error) {
	eventModel, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	eventModel.StartDate = start
	eventModel.EndDate = end
	eventModel.UpdatedAt = time.Now().UTC()

	startTimer := time.Now()
	if _, err := s.db.
		NewUpdate().
		Model(eventModel).
		WherePK().
		Exec(ctx); err != nil {
		return nil, fmt.Errorf("(*EventStore).UpdateFields: %w", err)
	}
	s.metrics.RecordDatabaseWrite(time.Since(startTimer))
	return eventModel, nil
}

// DeleteByID looks the row up before deleting so an absent id surfaces
// as ErrEventNotFound instead of a silent zero-row delete.
func (s *EventStore) DeleteByID(ctx context.Context, id string) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}

	startTimer := time.Now()
	if _, err := s.db.
		NewDelete().
		Model((*model.Event)(nil)).
		Where("id = ?", id).
		Exec(ctx); err != nil {
		return fmt.Errorf("(*EventStore).DeleteByID: %w", err)
	}
	s.metrics.RecordDatabaseWrite(time.Since(startTimer))
	return nil
}
