package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"calboard/src-server/model"
	"calboard/src-server/store"
	"calboard/src-server/utils"

	"github.com/olebedev/when"
)

// CreateEventInput is the full set of fields a client may send when
// creating an event; everything else on the row is store-assigned.
type CreateEventInput struct {
	Title string `json:"title"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// UpdateEventInput covers the only client-mutable fields on update.
type UpdateEventInput struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

const quickAddDefaultDuration = time.Hour

// EventService composes the validator and the store into the four CRUD
// operations plus natural-language quick-add. Every operation is a
// single synchronous unit against the store; nothing is retried.
type EventService struct {
	store *store.EventStore
	when  *when.Parser
}

func NewEventService(eventStore *store.EventStore, whenParser *when.Parser) *EventService {
	return &EventService{store: eventStore, when: whenParser}
}

func (s *EventService) List(ctx context.Context) ([]model.Event, error) {
	return s.store.ListAll(ctx)
}

func (s *EventService) Create(ctx context.Context, in CreateEventInput) (*model.Event, error) {
	title, start, end, ve := validateCreate(in)
	if ve != nil {
		return nil, ve
	}
	return s.store.Insert(ctx, title, start, end)
}

// Update validates first; a malformed payload is reported as a
// validation failure even when the id does not exist. The not-found
// branch comes from the store lookup.
func (s *EventService) Update(ctx context.Context, id string, in UpdateEventInput) (*model.Event, error) {
	start, end, ve := validateUpdate(in)
	if ve != nil {
		return nil, ve
	}
	return s.store.UpdateFields(ctx, id, start, end)
}

func (s *EventService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteByID(ctx, id)
}

// QuickAdd creates an event from free-form text like "Standup tomorrow
// at 9am": the first time phrase found becomes the start, the event runs
// for an hour, and whatever text remains becomes the title.
func (s *EventService) QuickAdd(ctx context.Context, text string, now time.Time) (*model.Event, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		ve := newValidationError()
		ve.add("text", "text is required")
		return nil, ve
	}

	result, err := s.when.Parse(text, now)
	if err != nil || result == nil {
		ve := newValidationError()
		ve.add("text", "could not find a date or time in the text")
		return nil, ve
	}

	// the extracted title obeys the same rules as a regular create
	title := utils.CleanupEventTitle(strings.Replace(text, result.Text, "", 1))
	switch {
	case title == "":
		ve := newValidationError()
		ve.add("text", "could not find an event title in the text")
		return nil, ve
	case utf8.RuneCountInString(title) > maxTitleLen:
		ve := newValidationError()
		ve.add("text", fmt.Sprintf("the event title must be at most %d characters", maxTitleLen))
		return nil, ve
	}

	start := result.Time
	return s.store.Insert(ctx, title, start, start.Add(quickAddDefaultDuration))
}
