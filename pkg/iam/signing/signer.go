package signing

import (
	"crypto/md5"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/Abraxas-365/passport/pkg/config"
)

// Signer produces and checks md5 request signatures shared with machine
// clients. The digest covers every parameter plus the shared secret and a
// version tag that rotates with the calendar month.
type Signer struct {
	keySecret  string
	keyVersion string
	now        func() time.Time
}

func NewSigner(cfg config.SigningConfig) *Signer {
	return &Signer{
		keySecret:  cfg.KeySecret,
		keyVersion: cfg.KeyVersion,
		now:        time.Now,
	}
}

// WithClock replaces the time source; used by tests.
func (s *Signer) WithClock(now func() time.Time) *Signer {
	s.now = now
	return s
}

// Version returns the version tag for t: prefix followed by the 0-based
// month modulo 4.
func (s *Signer) Version(t time.Time) string {
	month0 := int(t.Month()) - 1
	return s.keyVersion + strconv.Itoa(month0%4)
}

// Sign returns a copy of params with nonce, time and sign set.
func (s *Signer) Sign(params Params) (Params, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	now := s.now()
	out := params.Clone()
	if out == nil {
		out = Params{}
	}
	delete(out, FieldSign)
	out[FieldNonce] = base64.StdEncoding.EncodeToString(nonce)
	out[FieldTime] = strconv.FormatInt(now.UnixMilli(), 10)
	out[FieldSign] = s.digest(out, now)
	return out, nil
}

// Verify recomputes the digest over every field except sign.
func (s *Signer) Verify(params Params) bool {
	sign := params.String(FieldSign)
	if sign == "" {
		return false
	}
	expected := s.digest(params, s.now())
	return subtle.ConstantTimeCompare([]byte(expected), []byte(sign)) == 1
}

func (s *Signer) digest(params Params, at time.Time) string {
	data := params.Clone()
	delete(data, FieldSign)
	data["keySecret"] = s.keySecret
	data["v"] = s.Version(at)

	sum := md5.Sum([]byte(data.canonical()))
	return hex.EncodeToString(sum[:])
}
