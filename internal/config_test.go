package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/school")
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("ENV", "development")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.ItemsPerPage)
	assert.Equal(t, 2, cfg.PaginationDelta)
	assert.Equal(t, "local", cfg.StorageProvider)
	assert.Equal(t, time.Minute, cfg.APIRateWindow)
	assert.True(t, cfg.TemplateReload)
}

func TestNewConfig_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("AUTH_JWT_SECRET", "secret")

	_, err := NewConfig()
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestNewConfig_RequiresVerificationKey(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/school")
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("AUTH_JWT_PUBLIC_KEY", "")

	_, err := NewConfig()
	assert.ErrorContains(t, err, "AUTH_JWT_SECRET")
}

func TestNewConfig_RejectsBadPageSize(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/school")
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("ITEMS_PER_PAGE", "0")

	_, err := NewConfig()
	assert.ErrorContains(t, err, "ITEMS_PER_PAGE")
}

func TestNewConfig_R2RequiresCredentials(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/school")
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("STORAGE_PROVIDER", "r2")
	t.Setenv("R2_ACCOUNT_ID", "")

	_, err := NewConfig()
	assert.ErrorContains(t, err, "R2_ACCOUNT_ID")
}
