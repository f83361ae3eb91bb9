package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestMustLoad_Defaults(t *testing.T) {
	t.Setenv("ESCROW_CONFIG_PATH", writeConfig(t, `
escrow_db:
  driver: memory
arbitration:
  admin: admin
  treasury: treasury
`))

	cfg := MustLoad()
	assert.Equal(t, "memory", cfg.EscrowDB.Driver)
	assert.Equal(t, "50051", cfg.GRPCServer.Port)
	assert.Equal(t, "local", cfg.LedgerService.Mode)
	assert.Equal(t, uint64(1_000_000), cfg.Escrow.MinAmount)
	assert.Equal(t, uint8(2), cfg.Arbitration.DefaultQuorum)
	assert.Equal(t, 336*time.Hour, cfg.Arbitration.PanelTTL)
	assert.Equal(t, uint16(7), cfg.Arbitration.LatePenaltyPercent)
	assert.True(t, cfg.Arbitration.AutoJudgeOnQuorum)
	assert.Equal(t, 30*time.Second, cfg.Workers.ProposalSweepInterval)
	assert.Equal(t, 100, cfg.Workers.OutboxBatchSize)
}

func TestMustLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ESCROW_CONFIG_PATH", writeConfig(t, `
grpc_server:
  port: "6000"
log_config:
  log_level: info
`))
	t.Setenv("GRPC_PORT", "7000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ESCROW_JWT_SECRET", "secret")
	t.Setenv("LEDGER_MODE", "remote")

	cfg := MustLoad()
	assert.Equal(t, "7000", cfg.GRPCServer.Port)
	assert.Equal(t, "debug", cfg.LogConfig.LogLevel)
	assert.Equal(t, "secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "remote", cfg.LedgerService.Mode)
}
