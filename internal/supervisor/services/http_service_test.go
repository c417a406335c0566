// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// stubServer records lifecycle calls. With block set, ListenAndServe waits
// for Shutdown and then reports http.ErrServerClosed like *http.Server.
type stubServer struct {
	listenErr   error
	shutdownErr error
	block       bool

	started   chan struct{}
	stopped   chan struct{}
	stopOnce  sync.Once
	listens   atomic.Int32
	shutdowns atomic.Int32
}

func newStubServer(block bool) *stubServer {
	return &stubServer{
		block:   block,
		started: make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
}

func (s *stubServer) ListenAndServe() error {
	s.listens.Add(1)
	select {
	case s.started <- struct{}{}:
	default:
	}
	if s.listenErr != nil {
		return s.listenErr
	}
	if s.block {
		<-s.stopped
		return http.ErrServerClosed
	}
	return nil
}

func (s *stubServer) Shutdown(context.Context) error {
	s.shutdowns.Add(1)
	s.stopOnce.Do(func() { close(s.stopped) })
	return s.shutdownErr
}

func waitStarted(t *testing.T, s *stubServer) {
	t.Helper()
	select {
	case <-s.started:
	case <-time.After(2 * time.Second):
		t.Fatal("ListenAndServe was not called")
	}
}

func TestNewHTTPServerService_Timeout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want time.Duration
	}{
		{0, 10 * time.Second},
		{-time.Second, 10 * time.Second},
		{3 * time.Second, 3 * time.Second},
	}
	for _, tt := range tests {
		svc := NewHTTPServerService(newStubServer(false), tt.in)
		if svc.shutdownTimeout != tt.want {
			t.Errorf("NewHTTPServerService(%v).shutdownTimeout = %v, want %v", tt.in, svc.shutdownTimeout, tt.want)
		}
	}

	if got := NewHTTPServerService(newStubServer(false), 0).String(); got != "http-server" {
		t.Errorf("String() = %q, want http-server", got)
	}
}

func TestHTTPServerService_Serve(t *testing.T) {
	t.Parallel()

	bindErr := errors.New("listen tcp :8080: bind: address already in use")
	drainErr := errors.New("context deadline exceeded while draining")

	tests := []struct {
		name          string
		server        func() *stubServer
		cancel        bool
		wantErr       error
		wantShutdowns int32
	}{
		{
			name:          "graceful stop on cancel",
			server:        func() *stubServer { return newStubServer(true) },
			cancel:        true,
			wantErr:       context.Canceled,
			wantShutdowns: 1,
		},
		{
			name: "listen failure is returned",
			server: func() *stubServer {
				s := newStubServer(false)
				s.listenErr = bindErr
				return s
			},
			wantErr: bindErr,
		},
		{
			name: "shutdown failure is returned",
			server: func() *stubServer {
				s := newStubServer(true)
				s.shutdownErr = drainErr
				return s
			},
			cancel:        true,
			wantErr:       drainErr,
			wantShutdowns: 1,
		},
		{
			name:   "server returning cleanly ends Serve",
			server: func() *stubServer { return newStubServer(false) },
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := tt.server()
			svc := NewHTTPServerService(server, time.Second)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			errCh := make(chan error, 1)
			go func() { errCh <- svc.Serve(ctx) }()

			waitStarted(t, server)
			if tt.cancel {
				cancel()
			}

			select {
			case err := <-errCh:
				if tt.wantErr == nil && err != nil {
					t.Errorf("Serve() = %v, want nil", err)
				}
				if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
					t.Errorf("Serve() = %v, want %v", err, tt.wantErr)
				}
			case <-time.After(2 * time.Second):
				t.Fatal("Serve did not return")
			}

			if got := server.shutdowns.Load(); got != tt.wantShutdowns {
				t.Errorf("Shutdown calls = %d, want %d", got, tt.wantShutdowns)
			}
		})
	}
}

func TestHTTPServerService_UnderSupervisor(t *testing.T) {
	t.Parallel()

	server := newStubServer(true)
	sup := suture.New("api-layer-test", suture.Spec{
		FailureBackoff: 10 * time.Millisecond,
		Timeout:        2 * time.Second,
	})
	sup.Add(NewHTTPServerService(server, time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := sup.ServeBackground(ctx)
	waitStarted(t, server)

	cancel()
	<-errCh

	if server.shutdowns.Load() != 1 {
		t.Errorf("Shutdown calls = %d, want 1", server.shutdowns.Load())
	}
}

func TestHTTPServerService_RealServer(t *testing.T) {
	t.Parallel()

	server := &http.Server{
		Addr:              "127.0.0.1:0",
		Handler:           http.NotFoundHandler(),
		ReadHeaderTimeout: time.Second,
	}
	svc := NewHTTPServerService(server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}
