// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	Text string `json:"text"`
}

type echoResponse struct {
	Echo string `json:"echo"`
}

func TestPostJSON_Success(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))

		var req echoRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		_ = json.NewEncoder(w).Encode(echoResponse{Echo: req.Text})
	}))
	defer ts.Close()

	header := http.Header{}
	header.Set("x-api-key", "secret")

	var out echoResponse
	err := PostJSON(context.Background(), ts.Client(), "echo", ts.URL, header, echoRequest{Text: "hi"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "hi", out.Echo)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestPostJSON_StatusErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantAuth bool
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":"bad key"}`, wantAuth: true},
		{name: "forbidden", status: http.StatusForbidden, wantAuth: true},
		{name: "rate limited", status: http.StatusTooManyRequests, body: "slow down"},
		{name: "server error", status: http.StatusBadGateway, body: "upstream"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			var out echoResponse
			err := PostJSON(context.Background(), ts.Client(), "echo", ts.URL, nil, echoRequest{}, &out)
			require.Error(t, err)

			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.status, se.StatusCode)
			assert.Equal(t, tt.wantAuth, se.AuthFailure())
			assert.Contains(t, err.Error(), "echo returned")
			if tt.body != "" {
				assert.Contains(t, err.Error(), tt.body)
			}
		})
	}
}

func TestPostJSON_BoundsErrorBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(strings.Repeat("x", 10*maxErrorBody)))
	}))
	defer ts.Close()

	err := PostJSON(context.Background(), ts.Client(), "echo", ts.URL, nil, echoRequest{}, &echoResponse{})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Len(t, se.Body, maxErrorBody)
}

func TestPostJSON_BadJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer ts.Close()

	err := PostJSON(context.Background(), ts.Client(), "echo", ts.URL, nil, echoRequest{}, &echoResponse{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding echo response")
}

func TestPostJSON_ContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := PostJSON(ctx, ts.Client(), "echo", ts.URL, nil, echoRequest{}, &echoResponse{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsAuthStatus(t *testing.T) {
	assert.True(t, IsAuthStatus(401))
	assert.True(t, IsAuthStatus(403))
	assert.False(t, IsAuthStatus(404))
	assert.False(t, IsAuthStatus(500))
}
