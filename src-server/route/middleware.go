package route

import (
	"log/slog"
	"net/http"
	"time"

	"calboard/src-server/utils"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LogMiddleware logs every request with its status and duration, and
// feeds the HTTP latency metric channel.
func LogMiddleware(as *utils.AppState, next func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		startTimer := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(recorder, r)

		elapsed := time.Since(startTimer)
		as.MetricChans.RecordHTTPRequest(elapsed)
		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration", elapsed)
	}
}
