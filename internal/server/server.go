// Package server publishes generated panchanga documents (iCalendar feed,
// today's day as JSON) over local HTTP with conditional-request caching.
package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-panchanga/internal/config"
	"github.com/tartampluch/go-panchanga/internal/engine"
)

// document is one published payload with its HTTP cache validators.
type document struct {
	data         []byte
	contentType  string
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

// FeedServer serves the latest published document of each route.
type FeedServer struct {
	// docs is swapped as a whole on Publish; readers never lock.
	docs atomic.Pointer[map[string]*document]
	mu   sync.Mutex // serializes writers

	Addr  string
	Clock engine.Clock
}

// NewFeedServer creates a server for the given listen address. Every route
// answers 503 until its first Publish.
func NewFeedServer(addr string, routes ...string) *FeedServer {
	s := &FeedServer{Addr: addr, Clock: engine.RealClock{}}
	empty := make(map[string]*document, len(routes))
	for _, r := range routes {
		empty[r] = nil
	}
	s.docs.Store(&empty)
	return s
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *FeedServer) Start(ctx context.Context) error {
	if s.Addr == "" {
		return errors.New(config.ErrAddrRequired)
	}

	srv := &http.Server{
		Addr:         s.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyAddr, s.Addr,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Handler returns the HTTP handler, for embedding or httptest.
func (s *FeedServer) Handler() http.Handler {
	return http.HandlerFunc(s.handle)
}

// Publish atomically replaces the document served at route.
func (s *FeedServer) Publish(route, contentType string, data []byte) {
	hash := sha256.Sum256(data)
	doc := &document{
		data:         data,
		contentType:  contentType,
		etag:         fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:])),
		lastModified: s.now().UTC().Format(http.TimeFormat),
	}

	s.mu.Lock()
	next := maps.Clone(*s.docs.Load())
	if prev := next[route]; prev != nil && prev.etag == doc.etag {
		// Unchanged content keeps its Last-Modified so clients stay on 304.
		doc.lastModified = prev.lastModified
	}
	next[route] = doc
	s.docs.Store(&next)
	s.mu.Unlock()

	slog.Debug(config.MsgFeedUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyRoute, route,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, doc.etag,
	)
}

func (s *FeedServer) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

// handle serves a published document with HTTP caching support.
func (s *FeedServer) handle(w http.ResponseWriter, r *http.Request) {
	doc, known := (*s.docs.Load())[r.URL.Path]
	if !known {
		http.NotFound(w, r)
		return
	}

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	if doc == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	w.Header().Set(config.HeaderContentType, doc.contentType)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, doc.etag)
	w.Header().Set(config.HeaderLastModified, doc.lastModified)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match != "" {
		if match == doc.etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	} else if notModifiedSince(r.Header.Get(config.HeaderIfModifiedSince), doc.lastModified) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(doc.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}

// notModifiedSince reports whether a document modified at lastModified is
// not newer than the client's If-Modified-Since value.
func notModifiedSince(since, lastModified string) bool {
	if since == "" {
		return false
	}
	clientTime, err := time.Parse(http.TimeFormat, since)
	if err != nil {
		return false
	}
	serverTime, err := time.Parse(http.TimeFormat, lastModified)
	if err != nil {
		return false
	}
	return !serverTime.After(clientTime)
}
