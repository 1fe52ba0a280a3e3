package signing

import (
	"context"
	"time"

	"github.com/Abraxas-365/passport/pkg/config"
	"github.com/Abraxas-365/passport/pkg/logx"
)

// NonceStore remembers nonces for the freshness window.
type NonceStore interface {
	// Remember records nonce and reports whether it was unseen.
	Remember(ctx context.Context, nonce string, ttl time.Duration) (bool, error)
}

// Guard admits a signed request when it is fresh and correctly signed. With
// a NonceStore it also rejects a nonce seen inside the window.
type Guard struct {
	signer *Signer
	window time.Duration
	nonces NonceStore
	now    func() time.Time
}

func NewGuard(signer *Signer, cfg config.SigningConfig, nonces NonceStore) *Guard {
	window := cfg.Window
	if window <= 0 {
		window = 30 * time.Second
	}
	return &Guard{
		signer: signer,
		window: window,
		nonces: nonces,
		now:    time.Now,
	}
}

// WithClock replaces the time source; used by tests.
func (g *Guard) WithClock(now func() time.Time) *Guard {
	g.now = now
	return g
}

// Check runs the freshness check first, then the signature check. A request
// is fresh when its time lies within the window on either side of now.
func (g *Guard) Check(ctx context.Context, params Params) error {
	sent, ok := params.TimeMillis()
	if !ok {
		return ErrBadRequest().WithDetail("reason", "missing time")
	}

	elapsed := float64(g.now().UnixMilli()-sent) / 1000
	if elapsed > g.window.Seconds() || -elapsed > g.window.Seconds() {
		logx.WithContext(ctx).WithField("elapsed_s", elapsed).Warn("signing: request outside freshness window rejected")
		return ErrServerIsBusy()
	}

	if !g.signer.Verify(params) {
		return ErrBadRequest()
	}

	if g.nonces == nil {
		return nil
	}
	nonce := params.String(FieldNonce)
	if nonce == "" {
		return ErrBadRequest().WithDetail("reason", "missing nonce")
	}
	fresh, err := g.nonces.Remember(ctx, nonce, g.window)
	if err != nil {
		return ErrNonceStore(err)
	}
	if !fresh {
		logx.WithContext(ctx).WithField("nonce", nonce).Warn("signing: replayed nonce rejected")
		return ErrReplayedRequest()
	}
	return nil
}
