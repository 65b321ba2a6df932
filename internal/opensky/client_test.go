package opensky

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gladeswatch/backend/internal/config"
	"github.com/gladeswatch/backend/internal/geo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	log := zerolog.Nop()
	c := NewClient(&config.OpenSkyConfig{
		BaseURL:        baseURL,
		RequestTimeout: 5,
	}, &log)
	c.retryWait = time.Millisecond
	return c
}

var testBox = geo.BoxAround(geo.Point{Lat: 25.8575, Lon: -80.8969}, 10)

func TestStatesIn(t *testing.T) {
	t.Run("decodes snapshot and passes bbox params", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/states/all", r.URL.Path)
			for _, p := range []string{"lamin", "lomin", "lamax", "lomax"} {
				assert.NotEmpty(t, r.URL.Query().Get(p))
			}

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"time":1722520000,"states":[
				["a1b2c3","BLKHK1  ","United States",1722519990,1722519995,-80.89,25.85,120.0,false,45.0,90.0,-2.0,null,130.0,"1200",false,0],
				["d4e5f6",null,"United States",null,1722519995,null,null,null,true,null,null,null,null,null,null,false,0]
			]}`))
		}))
		defer srv.Close()

		c := newTestClient(t, srv.URL)

		result, err := c.StatesIn(context.Background(), testBox)
		require.NoError(t, err)

		assert.Equal(t, time.Unix(1722520000, 0).UTC(), result.FetchedAt)
		require.Len(t, result.States, 2)
		assert.Equal(t, "BLKHK1", result.States[0].Callsign)
		assert.True(t, result.States[1].OnGround)
	})

	t.Run("null states field means empty snapshot", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"time":1722520000,"states":null}`))
		}))
		defer srv.Close()

		c := newTestClient(t, srv.URL)

		result, err := c.StatesIn(context.Background(), testBox)
		require.NoError(t, err)
		assert.Empty(t, result.States)
	})

	t.Run("retries once on 429 honoring Retry-After", func(t *testing.T) {
		var calls int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				w.Header().Set("Retry-After", "0")
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			_, _ = w.Write([]byte(`{"time":1722520000,"states":[]}`))
		}))
		defer srv.Close()

		c := newTestClient(t, srv.URL)

		_, err := c.StatesIn(context.Background(), testBox)
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("gives up after the retry", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := newTestClient(t, srv.URL)

		_, err := c.StatesIn(context.Background(), testBox)
		assert.Error(t, err)
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		var calls int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		c := newTestClient(t, srv.URL)

		_, err := c.StatesIn(context.Background(), testBox)
		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestTokenSource(t *testing.T) {
	t.Run("fetches and caches the token", func(t *testing.T) {
		var calls int
		auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
			assert.Equal(t, "watcher", r.Form.Get("client_id"))

			_, _ = w.Write([]byte(`{"access_token":"tok-1","expires_in":1800}`))
		}))
		defer auth.Close()

		ts := newTokenSource(auth.URL, "watcher", "secret", auth.Client())

		tok, err := ts.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "tok-1", tok)

		// Second call reuses the cached token.
		tok, err = ts.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "tok-1", tok)
		assert.Equal(t, 1, calls)
	})

	t.Run("expired token is refreshed", func(t *testing.T) {
		var calls int
		auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			_, _ = w.Write([]byte(`{"access_token":"tok","expires_in":0}`))
		}))
		defer auth.Close()

		ts := newTokenSource(auth.URL, "watcher", "secret", auth.Client())

		_, err := ts.Token(context.Background())
		require.NoError(t, err)
		_, err = ts.Token(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 2, calls)
	})

	t.Run("authenticated request carries bearer token", func(t *testing.T) {
		auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"access_token":"tok-xyz","expires_in":1800}`))
		}))
		defer auth.Close()

		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer tok-xyz", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"time":1,"states":[]}`))
		}))
		defer api.Close()

		log := zerolog.Nop()
		c := NewClient(&config.OpenSkyConfig{
			BaseURL:        api.URL,
			TokenURL:       auth.URL,
			ClientID:       "watcher",
			ClientSecret:   "secret",
			RequestTimeout: 5,
		}, &log)

		_, err := c.StatesIn(context.Background(), testBox)
		require.NoError(t, err)
	})
}
