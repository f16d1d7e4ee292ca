package metric

import (
	"context"
	"time"

	"calboard/src-server/model"
	"calboard/src-server/utils"
)

// database measures the latency of a cheap indexed read against the
// events table; the probe matches nothing.
func database(as *utils.AppState) (time.Duration, error) {
	start := time.Now()
	if _, err := as.BunDB.NewSelect().
		Model((*model.Event)(nil)).
		Where("id = ?", "").
		Exists(context.Background()); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}
