package contact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// RecaptchaVerifyURL is Google's siteverify endpoint.
	RecaptchaVerifyURL = "https://www.google.com/recaptcha/api/siteverify"
	// DefaultMinScore rejects likely bots (0.0 bot, 1.0 human).
	DefaultMinScore = 0.3

	verifyTimeout = 10 * time.Second
)

// ErrCaptchaFailed is returned when a token is missing, rejected or scores
// too low.
var ErrCaptchaFailed = errors.New("captcha verification failed")

// Verifier checks an anti-bot token.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

// RecaptchaResponse is the siteverify reply for reCAPTCHA v3.
type RecaptchaResponse struct {
	Success     bool     `json:"success"`
	Score       *float64 `json:"score,omitempty"`
	Action      string   `json:"action"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	ErrorCodes  []string `json:"error-codes"`
}

// Recaptcha verifies reCAPTCHA v3 tokens.
type Recaptcha struct {
	secret   string
	minScore float64
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewRecaptcha creates a verifier. A minScore of 0 uses DefaultMinScore.
func NewRecaptcha(secret string, minScore float64, logger *slog.Logger) *Recaptcha {
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Recaptcha{
		secret:   secret,
		minScore: minScore,
		endpoint: RecaptchaVerifyURL,
		client:   &http.Client{Timeout: verifyTimeout},
		logger:   logger,
	}
}

// WithEndpoint points the verifier at another siteverify URL.
func (v *Recaptcha) WithEndpoint(endpoint string) *Recaptcha {
	v.endpoint = endpoint
	return v
}

// Verify implements Verifier.
func (v *Recaptcha) Verify(ctx context.Context, token, remoteIP string) error {
	if token == "" {
		return fmt.Errorf("%w: missing token", ErrCaptchaFailed)
	}

	data := url.Values{}
	data.Set("secret", v.secret)
	data.Set("response", token)
	if remoteIP != "" {
		data.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCaptchaFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request: %v", ErrCaptchaFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: siteverify returned %d", ErrCaptchaFailed, resp.StatusCode)
	}

	var result RecaptchaResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrCaptchaFailed, err)
	}

	if !result.Success {
		v.logger.Warn("captcha rejected", "error_codes", result.ErrorCodes, "remote_ip", remoteIP)
		return fmt.Errorf("%w: %s", ErrCaptchaFailed, strings.Join(result.ErrorCodes, ","))
	}
	if result.Score != nil && *result.Score < v.minScore {
		v.logger.Warn("captcha score too low", "score", *result.Score, "remote_ip", remoteIP)
		return fmt.Errorf("%w: score %.2f below %.2f", ErrCaptchaFailed, *result.Score, v.minScore)
	}
	return nil
}
