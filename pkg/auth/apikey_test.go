package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feiyu23/spark-resume-ai/pkg/kernel"
)

func TestNewKeyringFromEnv(t *testing.T) {
	k := NewKeyringFromEnv("tenant-a:secret-one, tenant-b:secret-two")
	require.Equal(t, 2, k.Len())

	tenant, err := k.ResolveTenant("secret-one")
	require.NoError(t, err)
	assert.Equal(t, kernel.NewTenantID("tenant-a"), tenant)

	tenant, err = k.ResolveTenant("secret-two")
	require.NoError(t, err)
	assert.Equal(t, kernel.NewTenantID("tenant-b"), tenant)

	_, err = k.ResolveTenant("unknown")
	assert.Error(t, err)
}

func TestNewKeyringFromEnvSkipsMalformed(t *testing.T) {
	k := NewKeyringFromEnv("no-separator,:missing-tenant,missing-key:,tenant-a:good")
	assert.Equal(t, 1, k.Len())

	tenant, err := k.ResolveTenant("good")
	require.NoError(t, err)
	assert.Equal(t, kernel.NewTenantID("tenant-a"), tenant)
}

func TestNewKeyringFromEnvEmpty(t *testing.T) {
	assert.Zero(t, NewKeyringFromEnv("").Len())
	assert.Zero(t, NewKeyringFromEnv("   ").Len())
}
