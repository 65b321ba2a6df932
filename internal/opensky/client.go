// Package opensky is the REST client for the OpenSky Network live
// feed.
//
// It handles:
//   - the bounded-box /states/all query the monitor runs on a timer
//   - decoding OpenSky's positional state-vector arrays
//   - OAuth2 client-credentials tokens (optional; anonymous otherwise)
//   - one retry pass honoring Retry-After on 429/5xx responses
package opensky

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gladeswatch/backend/internal/config"
	"github.com/gladeswatch/backend/internal/geo"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// defaultRetryWait is used when a retryable response carries no
// Retry-After header.
const defaultRetryWait = 5 * time.Second

// Client queries the OpenSky REST API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  *tokenSource
	logger  *zerolog.Logger

	// retryWait is overridable in tests to keep them fast.
	retryWait time.Duration
}

// NewClient builds a Client from config. When client credentials are
// configured, requests carry a bearer token; otherwise the client runs
// anonymously at OpenSky's lower rate limits.
func NewClient(cfg *config.OpenSkyConfig, logger *zerolog.Logger) *Client {
	httpClient := &http.Client{
		Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
	}

	var tokens *tokenSource
	if cfg.ClientID != "" && cfg.ClientSecret != "" {
		tokens = newTokenSource(cfg.TokenURL, cfg.ClientID, cfg.ClientSecret, httpClient)
	}

	return &Client{
		baseURL:   cfg.BaseURL,
		http:      httpClient,
		tokens:    tokens,
		logger:    logger,
		retryWait: defaultRetryWait,
	}
}

// StatesResult is the decoded outcome of one /states/all call.
type StatesResult struct {
	// FetchedAt is OpenSky's own timestamp for the snapshot.
	FetchedAt time.Time
	States    []StateVector
}

// StatesIn fetches all current state vectors inside the bounding box.
//
// An empty snapshot (no aircraft in the box) is a normal result, not
// an error; OpenSky returns a null states field in that case.
func (c *Client) StatesIn(ctx context.Context, box geo.BoundingBox) (*StatesResult, error) {
	q := url.Values{}
	q.Set("lamin", formatCoord(box.MinLat))
	q.Set("lomin", formatCoord(box.MinLon))
	q.Set("lamax", formatCoord(box.MaxLat))
	q.Set("lomax", formatCoord(box.MaxLon))

	endpoint := c.baseURL + "/states/all?" + q.Encode()

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var envelope statesResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errors.Wrap(err, "decoding states response")
	}

	result := &StatesResult{
		FetchedAt: time.Unix(envelope.Time, 0).UTC(),
		States:    make([]StateVector, 0, len(envelope.States)),
	}

	for _, raw := range envelope.States {
		var sv StateVector
		if err := json.Unmarshal(raw, &sv); err != nil {
			// One malformed vector must not discard the snapshot.
			c.logger.Warn().Err(err).Msg("skipping malformed state vector")
			continue
		}
		result.States = append(result.States, sv)
	}

	return result, nil
}

// get performs an authenticated GET with a single retry for
// rate-limit and transient server errors.
func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	body, retryAfter, err := c.doOnce(ctx, endpoint)
	if err == nil {
		return body, nil
	}
	if retryAfter < 0 {
		return nil, err
	}

	c.logger.Warn().
		Err(err).
		Dur("retry_after", retryAfter).
		Msg("opensky request failed, retrying once")

	select {
	case <-time.After(retryAfter):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	body, _, err = c.doOnce(ctx, endpoint)
	return body, err
}

// doOnce performs the request once. A non-negative retryAfter in the
// error case marks the failure as retryable.
func (c *Client) doOnce(ctx context.Context, endpoint string) (body []byte, retryAfter time.Duration, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, -1, errors.Wrap(err, "building opensky request")
	}
	req.Header.Set("Accept", "application/json")

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, -1, errors.Wrap(err, "fetching opensky token")
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Network errors are worth one retry.
		return nil, c.retryWait, errors.Wrap(err, "opensky request")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, -1, errors.Wrap(err, "reading opensky response")
		}
		return data, -1, nil

	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		wait := c.retryWait
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, perr := strconv.Atoi(ra); perr == nil && secs > 0 {
				wait = time.Duration(secs) * time.Second
			}
		}
		return nil, wait, fmt.Errorf("opensky returned status %d", resp.StatusCode)

	default:
		return nil, -1, fmt.Errorf("opensky returned status %d", resp.StatusCode)
	}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
