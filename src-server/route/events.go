package route

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"calboard/src-server/model"
	"calboard/src-server/service"
	"calboard/src-server/store"
	"calboard/src-server/utils"

	ical "github.com/arran4/golang-ical"
)

type OneEventRespBody struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Start     string `json:"start"`
	End       string `json:"end"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toOneEventRespBody(eventModel *model.Event) OneEventRespBody {
	return OneEventRespBody{
		ID:        eventModel.ID,
		Title:     eventModel.Title,
		Start:     eventModel.StartDate.Format(time.RFC3339),
		End:       eventModel.EndDate.Format(time.RFC3339),
		CreatedAt: eventModel.CreatedAt.Format(time.RFC3339),
		UpdatedAt: eventModel.UpdatedAt.Format(time.RFC3339),
	}
}

// writeEventErr classifies a service error into the wire contract:
// 422 with per-field messages for validation failures, 404 for a
// missing id, 500 for anything else. Nothing leaves unclassified.
func writeEventErr(w http.ResponseWriter, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		respBodyJson, marshalErr := json.Marshal(map[string]any{"errors": ve.Fields})
		if marshalErr != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"can't marshal response body"}`))
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write(respBodyJson)
	case errors.Is(err, store.ErrEventNotFound):
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"event not found"}`))
	default:
		slog.Error("unexpected event service error", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"internal server error"}`))
	}
}

func Events(muxer *http.ServeMux, as *utils.AppState) {
	eventStore := store.NewEventStore(as.BunDB, as.MetricChans)
	eventService := service.NewEventService(eventStore, as.When)

	// list all events
	muxer.HandleFunc("GET /api/events", LogMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")

			eventModels, err := eventService.List(r.Context())
			if err != nil {
				writeEventErr(w, err)
				return
			}

			respBody := make([]OneEventRespBody, 0, len(eventModels))
			for i := range eventModels {
				respBody = append(respBody, toOneEventRespBody(&eventModels[i]))
			}
			respBodyJson, err := json.Marshal(respBody)
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"can't marshal response body"}`))
				return
			}

			w.WriteHeader(http.StatusOK)
			w.Write(respBodyJson)
		}))

	// create a new event
	muxer.HandleFunc("POST /api/events", LogMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")

			var reqBody service.CreateEventInput
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"invalid request body"}`))
				return
			}

			eventModel, err := eventService.Create(r.Context(), reqBody)
			if err != nil {
				writeEventErr(w, err)
				return
			}

			respBodyJson, err := json.Marshal(toOneEventRespBody(eventModel))
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"can't marshal response body"}`))
				return
			}

			w.WriteHeader(http.StatusCreated)
			w.Write(respBodyJson)
		}))

	// move/resize an existing event
	muxer.HandleFunc("PUT /api/events/{id}", LogMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")

			id := r.PathValue("id")
			if id == "" {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"please provide an event ID"}`))
				return
			}

			var reqBody service.UpdateEventInput
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"invalid request body"}`))
				return
			}

			eventModel, err := eventService.Update(r.Context(), id, reqBody)
			if err != nil {
				writeEventErr(w, err)
				return
			}

			respBodyJson, err := json.Marshal(toOneEventRespBody(eventModel))
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"can't marshal response body"}`))
				return
			}

			w.WriteHeader(http.StatusOK)
			w.Write(respBodyJson)
		}))

	// delete an event
	muxer.HandleFunc("DELETE /api/events/{id}", LogMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")

			id := r.PathValue("id")
			if id == "" {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"please provide an event ID"}`))
				return
			}

			if err := eventService.Delete(r.Context(), id); err != nil {
				writeEventErr(w, err)
				return
			}

			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"success"}`))
		}))

	type QuickAddReqBody struct {
		Text string `json:"text"`
	}

	// create an event from free-form text, e.g. "Standup tomorrow at 9am"
	muxer.HandleFunc("POST /api/events/quick-add", LogMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")

			var reqBody QuickAddReqBody
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"invalid request body"}`))
				return
			}

			eventModel, err := eventService.QuickAdd(r.Context(), reqBody.Text, time.Now())
			if err != nil {
				writeEventErr(w, err)
				return
			}

			respBodyJson, err := json.Marshal(toOneEventRespBody(eventModel))
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"can't marshal response body"}`))
				return
			}

			w.WriteHeader(http.StatusCreated)
			w.Write(respBodyJson)
		}))

	// export the whole calendar as an iCalendar file
	muxer.HandleFunc("GET /api/events/export.ics", LogMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			eventModels, err := eventService.List(r.Context())
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				writeEventErr(w, err)
				return
			}

			cal := ical.NewCalendar()
			cal.SetMethod(ical.MethodPublish)
			for i := range eventModels {
				eventModel := &eventModels[i]
				icalEvent := cal.AddEvent(eventModel.ID)
				icalEvent.SetSummary(eventModel.Title)
				icalEvent.SetStartAt(eventModel.StartDate)
				icalEvent.SetEndAt(eventModel.EndDate)
				icalEvent.SetCreatedTime(eventModel.CreatedAt)
				icalEvent.SetModifiedAt(eventModel.UpdatedAt)
				icalEvent.SetDtStampTime(eventModel.UpdatedAt)
			}

			w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
			w.Header().Set("Content-Disposition", `attachment; filename="calboard.ics"`)
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(cal.Serialize()))
		}))
}
