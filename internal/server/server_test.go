package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tartampluch/go-panchanga/internal/config"
	"github.com/tartampluch/go-panchanga/internal/engine"
)

const testICS = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR"

func get(t *testing.T, srv *FeedServer, method, route string, header map[string]string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, route, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	resp := w.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestHandler_ServingContent(t *testing.T) {
	srv := NewFeedServer("", config.RouteCalendar, config.RouteToday)
	srv.Publish(config.RouteCalendar, config.MimeTextCalendar, []byte(testICS))
	srv.Publish(config.RouteToday, config.MimeJSONUTF8, []byte(`{"vara":"Monday"}`))

	resp := get(t, srv, http.MethodGet, config.RouteCalendar, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeTextCalendar, resp.Header.Get(config.HeaderContentType))
	assert.Equal(t, config.MimeNoSniff, resp.Header.Get(config.HeaderXContentType))
	assert.Contains(t, resp.Header.Get(config.HeaderCacheControl), "no-cache")
	assert.NotEmpty(t, resp.Header.Get(config.HeaderETag))
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, testICS, string(body))

	resp = get(t, srv, http.MethodGet, config.RouteToday, nil)
	assert.Equal(t, config.MimeJSONUTF8, resp.Header.Get(config.HeaderContentType))
	body, _ = io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"vara":"Monday"}`, string(body))

	resp = get(t, srv, http.MethodHead, config.RouteCalendar, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	assert.Empty(t, body)
}

func TestHandler_Caching(t *testing.T) {
	clock := engine.FixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	srv := NewFeedServer("", config.RouteCalendar)
	srv.Clock = clock
	srv.Publish(config.RouteCalendar, config.MimeTextCalendar, []byte("DATA_VERSION_1"))

	first := get(t, srv, http.MethodGet, config.RouteCalendar, nil)
	etag := first.Header.Get(config.HeaderETag)
	lastMod := first.Header.Get(config.HeaderLastModified)
	require.NotEmpty(t, etag, "Server must provide an ETag")
	require.NotEmpty(t, lastMod)

	tests := []struct {
		name   string
		header map[string]string
		want   int
	}{
		{"MatchingETag", map[string]string{config.HeaderIfNoneMatch: etag}, http.StatusNotModified},
		{"StaleETag", map[string]string{config.HeaderIfNoneMatch: `"old"`}, http.StatusOK},
		{"StaleETagWinsOverDate", map[string]string{config.HeaderIfNoneMatch: `"old"`, config.HeaderIfModifiedSince: lastMod}, http.StatusOK},
		{"NotModifiedSince", map[string]string{config.HeaderIfModifiedSince: lastMod}, http.StatusNotModified},
		{"ModifiedSince", map[string]string{config.HeaderIfModifiedSince: "Sun, 31 Dec 2023 00:00:00 GMT"}, http.StatusOK},
		{"BadDate", map[string]string{config.HeaderIfModifiedSince: "yesterday"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := get(t, srv, http.MethodGet, config.RouteCalendar, tt.header)
			assert.Equal(t, tt.want, resp.StatusCode)
			if tt.want == http.StatusNotModified {
				body, _ := io.ReadAll(resp.Body)
				assert.Empty(t, body, "Body must be empty on 304 Not Modified")
			}
		})
	}
}

func TestPublish_UnchangedKeepsLastModified(t *testing.T) {
	srv := NewFeedServer("", config.RouteCalendar)
	srv.Clock = engine.FixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	srv.Publish(config.RouteCalendar, config.MimeTextCalendar, []byte("A"))
	before := get(t, srv, http.MethodGet, config.RouteCalendar, nil).Header.Get(config.HeaderLastModified)

	srv.Clock = engine.FixedClock(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	srv.Publish(config.RouteCalendar, config.MimeTextCalendar, []byte("A"))
	assert.Equal(t, before, get(t, srv, http.MethodGet, config.RouteCalendar, nil).Header.Get(config.HeaderLastModified))

	srv.Publish(config.RouteCalendar, config.MimeTextCalendar, []byte("B"))
	assert.NotEqual(t, before, get(t, srv, http.MethodGet, config.RouteCalendar, nil).Header.Get(config.HeaderLastModified))
}

func TestHandler_Errors(t *testing.T) {
	srv := NewFeedServer("", config.RouteCalendar)

	resp := get(t, srv, http.MethodPost, config.RouteCalendar, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, config.AllowedMethods, resp.Header.Get(config.HeaderAllow))

	resp = get(t, srv, http.MethodGet, config.RouteCalendar, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, config.RetryAfterSeconds, resp.Header.Get(config.HeaderRetryAfter))

	resp = get(t, srv, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStart_RequiresAddr(t *testing.T) {
	err := NewFeedServer("").Start(context.Background())
	assert.EqualError(t, err, config.ErrAddrRequired)
}

// TestServer_RaceCondition runs concurrent writers and readers. Run with -race.
func TestServer_RaceCondition(t *testing.T) {
	srv := NewFeedServer("", config.RouteCalendar, config.RouteToday)
	var wg sync.WaitGroup
	end := time.Now().Add(300 * time.Millisecond)

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			route := config.RouteCalendar
			if id%2 == 1 {
				route = config.RouteToday
			}
			for i := 0; time.Now().Before(end); i++ {
				srv.Publish(route, config.MimeTextCalendar, []byte(fmt.Sprintf("VERSION:%d-%d", id, i)))
				time.Sleep(time.Microsecond)
			}
		}(w)
	}

	for r := 0; r < 16; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) {
				req := httptest.NewRequest(http.MethodGet, config.RouteCalendar, nil)
				w := httptest.NewRecorder()
				srv.Handler().ServeHTTP(w, req)
				if w.Code != http.StatusOK && w.Code != http.StatusServiceUnavailable {
					t.Errorf("Unexpected status code during race test: %d", w.Code)
				}
			}
		}()
	}

	wg.Wait()
}

// TestServer_Lifecycle binds a real listener and checks graceful shutdown.
func TestServer_Lifecycle(t *testing.T) {
	const addr = "127.0.0.1:18099"

	srv := NewFeedServer(addr, config.RouteCalendar)
	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(ctx)
	}()

	url := "http://" + addr + config.RouteCalendar
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return true
	}, 2*time.Second, 50*time.Millisecond, "Server failed to bind/listen in time")

	resp, err := http.Get(url)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	_ = resp.Body.Close()

	srv.Publish(config.RouteCalendar, config.MimeTextCalendar, []byte(testICS))

	resp, err = http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "BEGIN:VCALENDAR")

	cancel()
	select {
	case err := <-errChan:
		assert.NoError(t, err, "Server should shutdown gracefully without error")
	case <-time.After(5 * time.Second):
		t.Fatal("Server shutdown timed out")
	}
}
