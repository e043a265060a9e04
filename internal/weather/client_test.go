package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

const sampleResponse = `{
	"weather": [{"main": "Rain", "description": "light rain", "icon": "10d"}],
	"main": {"temp": 12.3},
	"name": "Tokyo"
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("test-key", "Tokyo")
	c.baseURL = srv.URL
	return c, srv
}

func TestClient_Current(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "Tokyo" {
			t.Errorf("q = %q, want %q", got, "Tokyo")
		}
		if got := r.URL.Query().Get("appid"); got != "test-key" {
			t.Errorf("appid = %q, want %q", got, "test-key")
		}
		w.Write([]byte(sampleResponse))
	})

	cur, err := c.Current(context.Background())
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}

	if cur.City != "Tokyo" {
		t.Errorf("City = %q, want %q", cur.City, "Tokyo")
	}
	if cur.Condition != "Rain" {
		t.Errorf("Condition = %q, want %q", cur.Condition, "Rain")
	}
	if cur.Category != Rain {
		t.Errorf("Category = %q, want %q", cur.Category, Rain)
	}
	if cur.TempC != 12.3 {
		t.Errorf("TempC = %v, want 12.3", cur.TempC)
	}
}

func TestClient_CurrentCaches(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(sampleResponse))
	})

	for i := 0; i < 3; i++ {
		if _, err := c.Current(context.Background()); err != nil {
			t.Fatalf("Current() call %d error = %v", i, err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Errorf("upstream calls = %d, want 1 (cache should serve repeats)", got)
	}
}

func TestClient_CurrentUpstreamError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"cod":401,"message":"Invalid API key"}`, http.StatusUnauthorized)
	})

	if _, err := c.Current(context.Background()); err == nil {
		t.Fatal("Current() error = nil, want error for non-200 response")
	}
}

func TestClient_CurrentEmptyWeatherArray(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"weather": [], "main": {"temp": 5}, "name": "Tokyo"}`))
	})

	cur, err := c.Current(context.Background())
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if cur.Category != Default {
		t.Errorf("Category = %q, want %q for missing condition", cur.Category, Default)
	}
}
