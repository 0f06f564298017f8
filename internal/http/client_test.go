package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Proxy(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"none", Config{Proxy: ProxyNone}, false},
		{"system", Config{Proxy: ProxySystem}, false},
		{"empty means system", Config{}, false},
		{"manual http", Config{Proxy: ProxyManual, ProxyURL: "http://127.0.0.1:8080"}, false},
		{"manual socks5", Config{Proxy: ProxyManual, ProxyURL: "socks5://127.0.0.1:1080"}, false},
		{"manual ftp", Config{Proxy: ProxyManual, ProxyURL: "ftp://127.0.0.1:21"}, true},
		{"unknown type", Config{Proxy: "carrier-pigeon"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, c.HTTPClient())
		})
	}
}

func TestClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("ua=" + r.Header.Get("User-Agent")))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.UserAgent = "test-agent"
	c, err := NewClient(cfg)
	require.NoError(t, err)

	body, err := c.GetString(context.Background(), srv.URL+"/ok")
	require.NoError(t, err)
	assert.Equal(t, "ua=test-agent", body)

	_, err = c.Get(context.Background(), srv.URL+"/missing")
	assert.True(t, errors.Is(err, ErrStatus))
}

func TestProgressWriter(t *testing.T) {
	var buf bytes.Buffer
	var last int64
	pw := &ProgressWriter{Writer: &buf, Total: 6, OnUpdate: func(written, total int64) { last = written }}

	_, _ = pw.Write([]byte("abc"))
	_, _ = pw.Write([]byte("def"))

	assert.Equal(t, int64(6), last)
	assert.Equal(t, "abcdef", buf.String())
}
