package auth

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// TempTokenParam is the query parameter carrying a temporary webview
// token.
const TempTokenParam = "aurora_temp_token"

// ExtractTempToken pulls the temporary token out of a webview URL.
func ExtractTempToken(rawURL string) (string, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	token := parsed.Query().Get(TempTokenParam)
	return token, token != ""
}

// WebviewURL appends a temporary token to a webview base URL.
func WebviewURL(baseURL, token string) string {
	sep := "?"
	if strings.Contains(baseURL, "?") {
		sep = "&"
	}
	return baseURL + sep + TempTokenParam + "=" + url.QueryEscape(token)
}

// ValidateURLChecksum verifies that a cloud API URL passed through a
// webview was produced by the holder of the API key, using a
// constant-time HMAC-SHA256 comparison.
func ValidateURLChecksum(checksum, cloudAPIURL, apiKey string) bool {
	mac := hmac.New(sha256.New, []byte(apiKey))
	mac.Write([]byte(cloudAPIURL))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(checksum), []byte(expected))
}

// exchangeRequest is the body POSTed to the token exchange endpoint.
type exchangeRequest struct {
	TempToken   string `json:"temp_token"`
	APIKey      string `json:"api_key"`
	PackageName string `json:"package_name"`
}

// exchangeResponse is the success body from the exchange endpoint.
type exchangeResponse struct {
	UserID string `json:"user_id"`
}

// ExchangeToken trades a temporary webview token for the user id it
// was minted for. The client may be nil, in which case
// http.DefaultClient is used.
func ExchangeToken(ctx context.Context, client *http.Client, cloudAPIURL, tempToken, apiKey, packageName string) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}

	body, err := json.Marshal(exchangeRequest{
		TempToken:   tempToken,
		APIKey:      apiKey,
		PackageName: packageName,
	})
	if err != nil {
		return "", fmt.Errorf("encode exchange request: %w", err)
	}

	endpoint := strings.TrimSuffix(cloudAPIURL, "/") + "/auth/exchange-token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build exchange request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token exchange failed: status %d", resp.StatusCode)
	}

	var result exchangeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode exchange response: %w", err)
	}
	if result.UserID == "" {
		return "", fmt.Errorf("%w: exchange response missing user id", ErrInvalidToken)
	}
	return result.UserID, nil
}
