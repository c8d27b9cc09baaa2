package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"jobhunter/internal/config"
	"jobhunter/internal/engine"
	"jobhunter/internal/events"
	"jobhunter/internal/logger"
	"jobhunter/internal/store"
)

// app is one bootstrapped invocation: logger, effective config and,
// when the command needs it, the locked database.
type app struct {
	dataDir string
	cfg     config.Config
	log     *zap.Logger
	db      *store.DB
}

func newApp(needDB bool) (*app, error) {
	log, err := logger.New(flagJSONLog, flagDebug)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	dataDir := flagDataDir
	if dataDir == "" {
		dataDir = os.Getenv("JOBHUNTER_DATA_DIR")
	}
	if dataDir == "" {
		dataDir = "."
	}

	cfgPath := flagConfig
	if cfgPath == "" {
		cfgPath, err = config.EnsureUserConfig(dataDir)
		if err != nil {
			return nil, fmt.Errorf("config bootstrap: %w", err)
		}
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", cfgPath, err)
	}
	cfg, v := config.NormalizeAndValidate(cfg)
	if !v.OK() {
		return nil, fmt.Errorf("invalid config %s:\n  %s", cfgPath, strings.Join(v.Errors, "\n  "))
	}
	for _, warn := range v.Warnings {
		log.Warn(warn)
	}

	a := &app{dataDir: dataDir, cfg: cfg, log: log}

	if needDB {
		db, err := store.Open(filepath.Join(dataDir, "jobhunter.db"))
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(db.Pool); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		a.db = db
	}
	return a, nil
}

func (a *app) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
	_ = a.log.Sync()
}

func (a *app) engine(hub *events.Hub) *engine.Engine {
	return &engine.Engine{Cfg: a.cfg, DB: a.db, Log: a.log, Hub: hub}
}
