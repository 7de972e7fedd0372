package tokens

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spilno/spilno-backend/internal/config"
	"github.com/spilno/spilno-backend/pkg/middleware"
)

// RevocationSource reports the revocation cutoff for a uid. Session tokens
// issued before the cutoff are rejected.
type RevocationSource interface {
	ValidAfter(ctx context.Context, uid string) (time.Time, error)
}

// LocalVerifier verifies session tokens signed by this service, including the
// revoke-all check. It satisfies middleware.Verifier.
type LocalVerifier struct {
	cfg         *config.Config
	revocations RevocationSource
}

// NewLocalVerifier creates a verifier; revocations may be nil to skip the
// revoke-all check.
func NewLocalVerifier(cfg *config.Config, rev RevocationSource) *LocalVerifier {
	return &LocalVerifier{cfg: cfg, revocations: rev}
}

func (v *LocalVerifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	claims, err := parse(v.cfg.Identity.TokenSecret, raw)
	if err != nil {
		return nil, err
	}
	if purpose, _ := claims["purpose"].(string); purpose == "custom" {
		return nil, fmt.Errorf("custom token is not a session token")
	}
	uid, _ := claims["uid"].(string)
	if uid == "" {
		return nil, fmt.Errorf("uid claim missing")
	}
	if v.revocations != nil {
		cutoff, err := v.revocations.ValidAfter(ctx, uid)
		if err != nil {
			return nil, fmt.Errorf("revocation check: %w", err)
		}
		if !cutoff.IsZero() {
			iat, _ := claims["iat"].(float64)
			if int64(iat) < cutoff.Unix() {
				return nil, fmt.Errorf("token revoked")
			}
		}
	}
	return &claimsToken{claims: claims}, nil
}

// claimsToken exposes verified claims through the middleware.Token interface.
type claimsToken struct {
	claims map[string]interface{}
}

func (t *claimsToken) Claims(v interface{}) error {
	b, err := json.Marshal(t.claims)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
