package utils

import (
	"database/sql"
	"log/slog"
	"os"
	"sync"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

type AppState struct {
	Config *Config
	RawDB  *sql.DB
	BunDB  *bun.DB

	// natural-language date parser for the quick-add endpoint
	When *when.Parser

	// latency samples drained by the metric collectors
	MetricChans *Metric

	AppCloseSignalChan chan os.Signal

	mu                    sync.Mutex
	gracefulShutdownChans []chan struct{}
}

func NewAppState() *AppState {
	as := &AppState{
		MetricChans:        NewMetric(),
		AppCloseSignalChan: make(chan os.Signal, 1),
	}

	// date parser
	as.When = when.New(nil)
	as.When.Add(en.All...)
	as.When.Add(common.All...)

	// env
	as.Config = NewConfig()

	// database
	var err error
	as.RawDB, err = sql.Open(sqliteshim.ShimName, as.Config.GetSqlitePath()+"?mode=rwc")
	if err != nil {
		slog.Error("cannot open sqlite database", "error", err)
		os.Exit(1)
	}
	as.RawDB.SetMaxIdleConns(8)

	as.BunDB = bun.NewDB(as.RawDB, sqlitedialect.New())
	as.BunDB.AddQueryHook(bundebug.NewQueryHook(
		bundebug.WithVerbose(true),
		bundebug.FromEnv("BUNDEBUG"),
	))

	return as
}

// CreateGracefulShutdownChan hands out a channel that is closed when the
// app is shutting down; long-running goroutines select on it to clean up.
func (as *AppState) CreateGracefulShutdownChan() chan struct{} {
	as.mu.Lock()
	defer as.mu.Unlock()
	ch := make(chan struct{})
	as.gracefulShutdownChans = append(as.gracefulShutdownChans, ch)
	return ch
}

func (as *AppState) GracefulShutdown() {
	as.mu.Lock()
	defer as.mu.Unlock()
	for _, ch := range as.gracefulShutdownChans {
		close(ch)
	}
	as.gracefulShutdownChans = nil

	if as.BunDB != nil {
		if err := as.BunDB.Close(); err != nil {
			slog.Warn("can't close database", "error", err)
		}
	}
}
