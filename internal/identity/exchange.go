package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// ExchangeResponse is the token endpoint's reply to a custom-token exchange.
type ExchangeResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

type exchangeRequest struct {
	Token             string `json:"token"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

// ExchangeCustomToken swaps a custom token for a session token at the
// provider REST endpoint, authenticated by the service web API key.
func ExchangeCustomToken(ctx context.Context, tokenURL, apiKey, customToken string) (*ExchangeResponse, error) {
	if tokenURL == "" {
		return nil, fmt.Errorf("token endpoint not configured")
	}
	body, err := json.Marshal(exchangeRequest{Token: customToken, ReturnSecureToken: true})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL+"?key="+url.QueryEscape(apiKey), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, string(b))
	}
	var er ExchangeResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, err
	}
	return &er, nil
}
