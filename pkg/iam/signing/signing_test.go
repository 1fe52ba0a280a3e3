package signing_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Abraxas-365/passport/pkg/config"
	"github.com/Abraxas-365/passport/pkg/errx"
	"github.com/Abraxas-365/passport/pkg/iam/signing"
	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ctx = context.Background()
	t0  = time.Date(2026, time.May, 10, 9, 0, 0, 0, time.UTC)
	cfg = config.SigningConfig{KeySecret: "s3cret", KeyVersion: "v", Window: 30 * time.Second}
)

func clockAt(t *time.Time) func() time.Time {
	return func() time.Time { return *t }
}

func TestSigner_VersionRotatesByMonth(t *testing.T) {
	s := signing.NewSigner(cfg)

	assert.Equal(t, "v0", s.Version(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "v3", s.Version(time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "v0", s.Version(time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "v3", s.Version(time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC)))
}

func TestSigner_SignThenVerify(t *testing.T) {
	now := t0
	s := signing.NewSigner(cfg).WithClock(clockAt(&now))

	signed, err := s.Sign(signing.Params{"id": "acc-1", "amount": json.Number("1500")})
	require.NoError(t, err)

	assert.NotEmpty(t, signed.String(signing.FieldNonce))
	assert.NotEmpty(t, signed.String(signing.FieldSign))
	ms, ok := signed.TimeMillis()
	require.True(t, ok)
	assert.Equal(t, t0.UnixMilli(), ms)
	assert.True(t, s.Verify(signed))
}

func TestSigner_DetectsMutation(t *testing.T) {
	now := t0
	s := signing.NewSigner(cfg).WithClock(clockAt(&now))

	signed, err := s.Sign(signing.Params{"id": "acc-1"})
	require.NoError(t, err)

	tampered := signed.Clone()
	tampered["id"] = "acc-2"
	assert.False(t, s.Verify(tampered))

	added := signed.Clone()
	added["role"] = "admin"
	assert.False(t, s.Verify(added))

	unsigned := signed.Clone()
	delete(unsigned, signing.FieldSign)
	assert.False(t, s.Verify(unsigned))
}

func TestSigner_OtherSecretRejected(t *testing.T) {
	now := t0
	s := signing.NewSigner(cfg).WithClock(clockAt(&now))
	other := signing.NewSigner(config.SigningConfig{KeySecret: "other", KeyVersion: "v"}).WithClock(clockAt(&now))

	signed, err := other.Sign(signing.Params{"id": "acc-1"})
	require.NoError(t, err)
	assert.False(t, s.Verify(signed))
}

func TestSigner_RoundTripThroughJSON(t *testing.T) {
	now := t0
	s := signing.NewSigner(cfg).WithClock(clockAt(&now))

	signed, err := s.Sign(signing.Params{"id": "acc-1", "limit": json.Number("10"), "active": true})
	require.NoError(t, err)

	body, err := json.Marshal(signed)
	require.NoError(t, err)
	decoded, err := signing.DecodeParams(body)
	require.NoError(t, err)
	assert.True(t, s.Verify(decoded))
}

func TestGuard_ReplayWindow(t *testing.T) {
	now := t0
	s := signing.NewSigner(cfg).WithClock(clockAt(&now))
	g := signing.NewGuard(s, cfg, nil).WithClock(clockAt(&now))

	signed, err := s.Sign(signing.Params{"email": "a@b.com"})
	require.NoError(t, err)

	now = t0.Add(10 * time.Second)
	require.NoError(t, g.Check(ctx, signed))
	require.NoError(t, g.Check(ctx, signed), "without a nonce store a replay inside the window is accepted")

	now = t0.Add(31 * time.Second)
	err = g.Check(ctx, signed)
	require.Error(t, err)
	assert.True(t, errx.IsCode(err, signing.CodeServerIsBusy))
	assert.Equal(t, 503, errx.StatusOf(err))
}

func TestGuard_FutureTimeRejected(t *testing.T) {
	signedAt := t0.Add(time.Hour)
	s := signing.NewSigner(cfg).WithClock(clockAt(&signedAt))

	now := t0
	g := signing.NewGuard(signing.NewSigner(cfg).WithClock(clockAt(&now)), cfg, nil).WithClock(clockAt(&now))

	signed, err := s.Sign(signing.Params{"email": "a@b.com"})
	require.NoError(t, err)

	err = g.Check(ctx, signed)
	require.Error(t, err)
	assert.True(t, errx.IsCode(err, signing.CodeServerIsBusy))

	// Small clock skew inside the window is tolerated.
	now = signedAt.Add(-10 * time.Second)
	require.NoError(t, g.Check(ctx, signed))
}

func TestGuard_BadSignature(t *testing.T) {
	now := t0
	s := signing.NewSigner(cfg).WithClock(clockAt(&now))
	g := signing.NewGuard(s, cfg, nil).WithClock(clockAt(&now))

	signed, err := s.Sign(signing.Params{"email": "a@b.com"})
	require.NoError(t, err)
	signed["email"] = "b@b.com"

	err = g.Check(ctx, signed)
	assert.True(t, errx.IsCode(err, signing.CodeBadRequest))

	delete(signed, signing.FieldSign)
	err = g.Check(ctx, signed)
	assert.True(t, errx.IsCode(err, signing.CodeBadRequest))
}

func TestGuard_StaleCheckedBeforeSignature(t *testing.T) {
	now := t0
	s := signing.NewSigner(cfg).WithClock(clockAt(&now))
	g := signing.NewGuard(s, cfg, nil).WithClock(clockAt(&now))

	stale := signing.Params{"time": json.Number("1"), "sign": "nope"}
	err := g.Check(ctx, stale)
	assert.True(t, errx.IsCode(err, signing.CodeServerIsBusy))
}

func TestGuard_NonceCacheRejectsReplay(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	now := t0
	s := signing.NewSigner(cfg).WithClock(clockAt(&now))
	g := signing.NewGuard(s, cfg, signing.NewRedisNonceStore(rdb)).WithClock(clockAt(&now))

	signed, err := s.Sign(signing.Params{"id": "acc-1"})
	require.NoError(t, err)

	require.NoError(t, g.Check(ctx, signed))

	err = g.Check(ctx, signed)
	require.Error(t, err)
	assert.True(t, errx.IsCode(err, signing.CodeReplayedRequest))

	fresh, err := s.Sign(signing.Params{"id": "acc-1"})
	require.NoError(t, err)
	assert.NoError(t, g.Check(ctx, fresh), "a new nonce is admitted")
}

func TestMiddleware(t *testing.T) {
	now := t0
	s := signing.NewSigner(cfg).WithClock(clockAt(&now))
	g := signing.NewGuard(s, cfg, nil).WithClock(clockAt(&now))

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(errx.StatusOf(err)).JSON(errx.ResponseOf(err, ""))
		},
	})
	app.Post("/lookup", signing.Middleware(g), func(c *fiber.Ctx) error {
		return c.SendString(signing.ParamsFrom(c).String("id"))
	})

	signed, err := s.Sign(signing.Params{"id": "acc-7"})
	require.NoError(t, err)
	body, err := json.Marshal(signed)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/lookup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	got, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "acc-7", string(got))

	req = httptest.NewRequest("POST", "/lookup", bytes.NewReader([]byte(`{"id":"acc-7"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}
