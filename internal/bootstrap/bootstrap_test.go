package bootstrap

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/config"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/domain"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/infrastructure/logging"
)

func TestOpenWarehouse_SQLite(t *testing.T) {
	cfg := &config.Config{Warehouse: config.WarehouseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "snapshots", "warehouse.db"),
	}}

	w, err := OpenWarehouse(context.Background(), cfg)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Ping(context.Background()))
	epics, err := w.Epics().ListEpics(context.Background(), domain.EpicFilter{})
	require.NoError(t, err)
	assert.Empty(t, epics)
}

func TestOpenWarehouse_UnknownDriver(t *testing.T) {
	_, err := OpenWarehouse(context.Background(), &config.Config{Warehouse: config.WarehouseConfig{Driver: "oracle"}})
	assert.ErrorContains(t, err, "oracle")
}

func TestNewLogger(t *testing.T) {
	var out bytes.Buffer
	ring := logging.NewRingBuffer(5)
	cfg := &config.Config{
		Logging: config.LoggingConfig{Level: "warn", Format: "text"},
		App:     config.AppConfig{Name: "project-reports", Environment: "test"},
	}

	logger := NewLogger(cfg, &out, ring)
	logger.Info("skipped")
	logger.Warn("kept")

	assert.Equal(t, 1, ring.Len())
	assert.Contains(t, out.String(), "kept")
	assert.NotContains(t, out.String(), "skipped")
}
