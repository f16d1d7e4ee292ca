package route_test

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"calboard/src-server/model"
	"calboard/src-server/route"
	"calboard/src-server/utils"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestMuxer(t *testing.T) *http.ServeMux {
	t.Helper()

	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	bundb := bun.NewDB(db, sqlitedialect.New())
	t.Cleanup(func() { bundb.Close() })
	require.NoError(t, model.CreateSchema(bundb))

	whenParser := when.New(nil)
	whenParser.Add(en.All...)
	whenParser.Add(common.All...)

	as := &utils.AppState{
		BunDB:       bundb,
		When:        whenParser,
		MetricChans: utils.NewMetric(),
	}

	muxer := http.NewServeMux()
	route.Events(muxer, as)
	return muxer
}

func doRequest(t *testing.T, muxer *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	muxer.ServeHTTP(recorder, req)
	return recorder
}

func createEvent(t *testing.T, muxer *http.ServeMux) map[string]any {
	t.Helper()
	recorder := doRequest(t, muxer, http.MethodPost, "/api/events",
		`{"title":"Standup","start":"2025-01-06T09:00:00Z","end":"2025-01-06T09:30:00Z"}`)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var respBody map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &respBody))
	return respBody
}

func TestCreateAndListEvents(t *testing.T) {
	muxer := newTestMuxer(t)

	created := createEvent(t, muxer)
	assert.NotEmpty(t, created["id"])
	assert.Equal(t, "Standup", created["title"])
	assert.Equal(t, "2025-01-06T09:00:00Z", created["start"])
	assert.Equal(t, "2025-01-06T09:30:00Z", created["end"])
	assert.NotEmpty(t, created["created_at"])
	assert.NotEmpty(t, created["updated_at"])

	recorder := doRequest(t, muxer, http.MethodGet, "/api/events", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

	var listBody []map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &listBody))
	require.Len(t, listBody, 1)
	assert.Equal(t, created["id"], listBody[0]["id"])
}

func TestListEmpty(t *testing.T) {
	muxer := newTestMuxer(t)

	recorder := doRequest(t, muxer, http.MethodGet, "/api/events", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, "[]", recorder.Body.String())
}

func TestCreateValidationFailure(t *testing.T) {
	muxer := newTestMuxer(t)

	recorder := doRequest(t, muxer, http.MethodPost, "/api/events",
		`{"title":"Standup","start":"2025-01-06T10:00:00Z","end":"2025-01-06T09:00:00Z"}`)
	require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	var respBody struct {
		Errors map[string][]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &respBody))
	assert.Contains(t, respBody.Errors, "end")

	// the rejected event must not be stored
	recorder = doRequest(t, muxer, http.MethodGet, "/api/events", "")
	assert.JSONEq(t, "[]", recorder.Body.String())
}

func TestCreateInvalidBody(t *testing.T) {
	muxer := newTestMuxer(t)

	recorder := doRequest(t, muxer, http.MethodPost, "/api/events", "{not json")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestUpdateEvent(t *testing.T) {
	muxer := newTestMuxer(t)
	created := createEvent(t, muxer)

	recorder := doRequest(t, muxer, http.MethodPut, "/api/events/"+created["id"].(string),
		`{"start":"2025-01-07T09:00:00Z","end":"2025-01-07T09:30:00Z"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var respBody map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &respBody))
	assert.Equal(t, "2025-01-07T09:00:00Z", respBody["start"])
	assert.Equal(t, "2025-01-07T09:30:00Z", respBody["end"])
	assert.Equal(t, "Standup", respBody["title"])
}

func TestUpdateNotFound(t *testing.T) {
	muxer := newTestMuxer(t)

	recorder := doRequest(t, muxer, http.MethodPut, "/api/events/999",
		`{"start":"2025-01-06T09:00:00Z","end":"2025-01-06T09:30:00Z"}`)
	require.Equal(t, http.StatusNotFound, recorder.Code)
	assert.JSONEq(t, `{"error":"event not found"}`, recorder.Body.String())
}

func TestUpdateValidationFailure(t *testing.T) {
	muxer := newTestMuxer(t)
	created := createEvent(t, muxer)

	recorder := doRequest(t, muxer, http.MethodPut, "/api/events/"+created["id"].(string),
		`{"start":"2025-01-07T10:00:00Z","end":"2025-01-07T09:00:00Z"}`)
	require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	// original range untouched
	recorder = doRequest(t, muxer, http.MethodGet, "/api/events", "")
	var listBody []map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &listBody))
	require.Len(t, listBody, 1)
	assert.Equal(t, "2025-01-06T09:00:00Z", listBody[0]["start"])
}

func TestDeleteEvent(t *testing.T) {
	muxer := newTestMuxer(t)
	created := createEvent(t, muxer)

	recorder := doRequest(t, muxer, http.MethodDelete, "/api/events/"+created["id"].(string), "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"status":"success"}`, recorder.Body.String())

	// second delete of the same id is a 404
	recorder = doRequest(t, muxer, http.MethodDelete, "/api/events/"+created["id"].(string), "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestQuickAddEndpoint(t *testing.T) {
	muxer := newTestMuxer(t)

	recorder := doRequest(t, muxer, http.MethodPost, "/api/events/quick-add",
		`{"text":"Standup tomorrow at 9am"}`)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var respBody map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &respBody))
	assert.Equal(t, "Standup", respBody["title"])

	recorder = doRequest(t, muxer, http.MethodPost, "/api/events/quick-add",
		`{"text":"no time phrase here"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}

func TestExportICS(t *testing.T) {
	muxer := newTestMuxer(t)
	created := createEvent(t, muxer)

	recorder := doRequest(t, muxer, http.MethodGet, "/api/events/export.ics", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Header().Get("Content-Type"), "text/calendar")

	body := recorder.Body.String()
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Contains(t, body, "BEGIN:VEVENT")
	assert.Contains(t, body, "SUMMARY:Standup")
	assert.Contains(t, body, "UID:"+created["id"].(string))
}
