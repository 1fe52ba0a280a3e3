package otpinfra_test

import (
	"context"
	"testing"
	"time"

	"github.com/Abraxas-365/passport/pkg/iam/otp"
	"github.com/Abraxas-365/passport/pkg/iam/otp/otpinfra"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRepository_TTLAndDelete(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()
	repo := otpinfra.NewRedisRepository(rdb, 10*time.Minute)

	c := &otp.Challenge{ID: "c1", ScopeKey: "a@b.com|", Email: "a@b.com", Purpose: otp.PurposeForgotPassword, Code: "123456", CreatedAt: time.Now().UTC()}
	_, inserted, err := repo.InsertIfAbsent(ctx, c)
	require.NoError(t, err)
	require.True(t, inserted)

	// Deleting a different challenge for the same scope is a no-op.
	require.NoError(t, repo.Delete(ctx, &otp.Challenge{ID: "other", ScopeKey: c.ScopeKey, Purpose: c.Purpose}))
	found, err := repo.Find(ctx, c.ScopeKey, c.Purpose)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "123456", found.Code)

	mr.FastForward(11 * time.Minute)
	found, err = repo.Find(ctx, c.ScopeKey, c.Purpose)
	require.NoError(t, err)
	assert.Nil(t, found, "key should have expired")

	_, inserted, err = repo.InsertIfAbsent(ctx, c)
	require.NoError(t, err)
	require.True(t, inserted)
	require.NoError(t, repo.Delete(ctx, c))
	found, err = repo.Find(ctx, c.ScopeKey, c.Purpose)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestMemoryRepository_TakeRemoves(t *testing.T) {
	ctx := context.Background()
	repo := otpinfra.NewMemoryRepository()

	c := &otp.Challenge{ID: "c1", ScopeKey: "a@b.com|", Purpose: otp.PurposeVerificationEmail, Code: "654321"}
	_, _, err := repo.InsertIfAbsent(ctx, c)
	require.NoError(t, err)

	taken, err := repo.Take(ctx, c.ScopeKey, c.Purpose)
	require.NoError(t, err)
	require.NotNil(t, taken)
	assert.Equal(t, "654321", taken.Code)

	taken, err = repo.Take(ctx, c.ScopeKey, c.Purpose)
	require.NoError(t, err)
	assert.Nil(t, taken)
}
