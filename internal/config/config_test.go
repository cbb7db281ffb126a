package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/GophDate/internal/locale"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"CONFIG", "SERVER_ADDRESS", "DATABASE_DRIVER", "DATABASE_DSN",
		"DATABASE_CONNECT_TIMEOUT", "DATA_DIR", "HISTORY_MAX_RECORDS", "LOCALE", "LOG_LEVEL",
		"TOKEN_SECRET", "TOKEN_TTL"} {
		t.Setenv(k, "")
	}
}

func newFlagSet() *flag.FlagSet {
	return flag.NewFlagSet("test", flag.ContinueOnError)
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	opts, err := Load(newFlagSet(), []string{"-c", filepath.Join(t.TempDir(), "missing.json")})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", opts.Port)
	assert.Equal(t, DriverPostgres, opts.Database.Driver)
	assert.Empty(t, opts.Database.DSN)
	assert.Equal(t, Duration(5*time.Second), opts.Database.ConnectTimeout)
	assert.Equal(t, 10, opts.History.MaxRecords)
	assert.Equal(t, "calculations_", opts.History.FilePrefix)
	assert.Equal(t, ".json", opts.History.FileExtension)
	assert.Equal(t, locale.English, opts.Lang())
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(path, []byte(`{
		"addr": "127.0.0.1:9000",
		"database": {"driver": "sqlite3", "dsn": "file.db", "connect_timeout": "2s"},
		"history": {"max_records": 5},
		"locale": "uk_UA",
		"log_level": "debug"
	}`), 0o600)
	require.NoError(t, err)

	t.Setenv("CONFIG", path)
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("HISTORY_MAX_RECORDS", "7")

	opts, err := Load(newFlagSet(), []string{"-history", "3"})
	require.NoError(t, err)

	assert.Equal(t, path, opts.Config)
	assert.Equal(t, "127.0.0.1:9000", opts.Port)
	assert.Equal(t, DriverSQLite, opts.Database.Driver)
	assert.Equal(t, "file.db", opts.Database.DSN)
	assert.Equal(t, Duration(2*time.Second), opts.Database.ConnectTimeout)
	// nested fields missing from the file keep their defaults
	assert.Equal(t, "calculations_", opts.History.FilePrefix)
	assert.Equal(t, "warn", opts.LogLevel)
	assert.Equal(t, 3, opts.History.MaxRecords)
	assert.Equal(t, locale.Ukrainian, opts.Lang())
}

func TestLoad_InvalidFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))

	_, err := Load(newFlagSet(), []string{"-config", path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	opts := Default()
	opts.Database.Driver = "mysql"
	opts.History.MaxRecords = 0
	opts.Locale = "fr"

	err := opts.Validate()
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{"database driver", "max records", "unsupported locale"} {
		assert.True(t, strings.Contains(msg, want), "missing %q in %q", want, msg)
	}
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalJSON([]byte(`"1m30s"`)))
	assert.Equal(t, Duration(90*time.Second), d)
	require.NoError(t, d.UnmarshalJSON([]byte(`1000`)))
	assert.Equal(t, Duration(1000), d)
	assert.Error(t, d.UnmarshalJSON([]byte(`"soon"`)))
}
