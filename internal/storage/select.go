// Package storage picks the persistence backend once at startup.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/GophDate/internal/config"
	"github.com/atinyakov/GophDate/internal/db"
	"github.com/atinyakov/GophDate/internal/filestore"
	"github.com/atinyakov/GophDate/internal/models"
	"github.com/atinyakov/GophDate/internal/repository"
	"github.com/atinyakov/GophDate/internal/service"
)

// Kind names the selected backend.
type Kind string

const (
	// Relational is the database backend.
	Relational Kind = "relational"
	// File is the JSON file backend.
	File Kind = "file"
)

// Selected is the backend chosen for the lifetime of the process.
type Selected struct {
	Backend service.Backend
	Kind    Kind
	// DB is the open database, nil for the file backend.
	DB *sql.DB
}

// Close releases the database connection, if any.
func (s *Selected) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// Open connects to the configured database and falls back to the file
// backend in opts.DataDir when there is no DSN or the database cannot be
// reached within the connect timeout. The choice is never revisited.
func Open(ctx context.Context, opts *config.Options, log *zap.Logger) *Selected {
	conn, err := connect(ctx, opts)
	if err != nil {
		log.Warn("relational storage unavailable, using file storage",
			zap.String("driver", opts.Database.Driver),
			zap.String("data_dir", opts.DataDir),
			zap.Error(err))
		return &Selected{
			Backend: filestore.New(opts.DataDir, opts.History.FilePrefix, opts.History.FileExtension, opts.History.MaxRecords),
			Kind:    File,
		}
	}

	if _, err := db.EnforceRetention(ctx, conn, opts.History.MaxRecords, log); err != nil {
		log.Warn("history retention sweep failed", zap.Error(err))
	}
	log.Info("using relational storage", zap.String("driver", opts.Database.Driver))
	return &Selected{
		Backend: repository.NewSQLRepository(conn, opts.History.MaxRecords),
		Kind:    Relational,
		DB:      conn,
	}
}

func connect(ctx context.Context, opts *config.Options) (*sql.DB, error) {
	if opts.Database.DSN == "" {
		return nil, fmt.Errorf("%w: no database DSN configured", models.ErrStorageUnavailable)
	}
	conn, err := db.Open(ctx, opts.Database.Driver, opts.Database.DSN, time.Duration(opts.Database.ConnectTimeout))
	if err != nil {
		return nil, errors.Join(models.ErrStorageUnavailable, err)
	}
	return conn, nil
}
