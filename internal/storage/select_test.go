package storage

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/atinyakov/GophDate/internal/config"
	"github.com/atinyakov/GophDate/internal/filestore"
	"github.com/atinyakov/GophDate/internal/models"
	"github.com/atinyakov/GophDate/internal/repository"
)

func bufferLogger(buf *bytes.Buffer) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(buf),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}

func TestOpen_NoDSNFallsBackToFiles(t *testing.T) {
	opts := config.Default()
	opts.DataDir = t.TempDir()

	var buf bytes.Buffer
	sel := Open(context.Background(), opts, bufferLogger(&buf))
	defer sel.Close()

	assert.Equal(t, File, sel.Kind)
	assert.Nil(t, sel.DB)
	fs, ok := sel.Backend.(*filestore.Store)
	require.True(t, ok)
	assert.Equal(t, opts.DataDir, fs.Dir)
	assert.Equal(t, 10, fs.MaxRecords)
	assert.Contains(t, buf.String(), "relational storage unavailable")
	assert.Contains(t, buf.String(), models.ErrStorageUnavailable.Error())
}

func TestOpen_UnreachableDatabaseFallsBack(t *testing.T) {
	opts := config.Default()
	opts.DataDir = t.TempDir()
	opts.Database.DSN = "postgres://u:p@127.0.0.1:1/app?sslmode=disable"
	opts.Database.ConnectTimeout = config.Duration(time.Second)

	sel := Open(context.Background(), opts, zap.NewNop())
	defer sel.Close()
	assert.Equal(t, File, sel.Kind)

	// the fallback backend is fully usable
	u := &models.User{Username: "judy", PasswordHash: "h"}
	require.NoError(t, sel.Backend.CreateUser(context.Background(), u))
	assert.FileExists(t, filepath.Join(opts.DataDir, "users.json"))
}

func TestOpen_SQLite(t *testing.T) {
	opts := config.Default()
	opts.Database.Driver = config.DriverSQLite
	opts.Database.DSN = filepath.Join(t.TempDir(), "app.db")

	sel := Open(context.Background(), opts, zap.NewNop())
	defer sel.Close()

	assert.Equal(t, Relational, sel.Kind)
	require.NotNil(t, sel.DB)
	_, ok := sel.Backend.(*repository.SQLRepository)
	assert.True(t, ok)
}
