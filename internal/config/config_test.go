package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", ":memory:")
	t.Setenv("JWT_SECRET_KEY", "secret")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, StoreSQLite, cfg.Store.Driver)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.True(t, cfg.Settlement.AmortizationEnabled)
	assert.True(t, cfg.Database.AutoMigrate)
}

func TestLoad_AmortizationDisabled(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("SETTLEMENT_AMORTIZATION", "false")

	cfg, err := Load()

	require.NoError(t, err)
	assert.False(t, cfg.Settlement.AmortizationEnabled)
}

func TestLoad_InvalidBool(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("SETTLEMENT_AMORTIZATION", "sometimes")

	_, err := Load()

	assert.ErrorContains(t, err, "SETTLEMENT_AMORTIZATION")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "postgres without password",
			cfg:     Config{Store: StoreConfig{Driver: StorePostgres}, JWT: JWTConfig{Secret: "s"}},
			wantErr: "DB_PASSWORD",
		},
		{
			name:    "unknown store",
			cfg:     Config{Store: StoreConfig{Driver: "mysql"}, JWT: JWTConfig{Secret: "s"}},
			wantErr: "STORE_DRIVER",
		},
		{
			name:    "missing secret",
			cfg:     Config{Store: StoreConfig{Driver: StoreSQLite, SQLitePath: "x.db"}},
			wantErr: "JWT_SECRET_KEY",
		},
		{
			name: "admin email without password",
			cfg: Config{
				Store: StoreConfig{Driver: StoreSQLite, SQLitePath: "x.db"},
				JWT:   JWTConfig{Secret: "s"},
				Admin: AdminConfig{Email: "a@b.co"},
			},
			wantErr: "ADMIN_EMAIL",
		},
		{
			name: "valid sqlite",
			cfg:  Config{Store: StoreConfig{Driver: StoreSQLite, SQLitePath: "x.db"}, JWT: JWTConfig{Secret: "s"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestConfig_SlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, (&Config{App: AppConfig{LogLevel: "DEBUG"}}).SlogLevel())
	assert.Equal(t, slog.LevelInfo, (&Config{App: AppConfig{LogLevel: ""}}).SlogLevel())
	assert.Equal(t, slog.LevelWarn, (&Config{App: AppConfig{LogLevel: "warn"}}).SlogLevel())
}
