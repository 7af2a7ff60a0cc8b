// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/filmorate/internal/events"
	"github.com/tomtom215/filmorate/internal/metrics"
	"github.com/tomtom215/filmorate/internal/models"
	"github.com/tomtom215/filmorate/internal/storage/memory"
)

var (
	_ suture.Service = (*HTTPServerService)(nil)
	_ suture.Service = (*EventBusService)(nil)
	_ suture.Service = (*StoreGCService)(nil)
)

// mockHTTPServer is a test double for HTTPServer.
type mockHTTPServer struct {
	listenErr     error
	block         bool
	shutdownErr   error
	listenCount   atomic.Int32
	shutdownCount atomic.Int32
	started       chan struct{}
	stopOnce      sync.Once
	stopCh        chan struct{}
}

func newMockHTTPServer() *mockHTTPServer {
	return &mockHTTPServer{
		started: make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
	}
}

func (m *mockHTTPServer) ListenAndServe() error {
	m.listenCount.Add(1)
	select {
	case m.started <- struct{}{}:
	default:
	}
	if m.listenErr != nil {
		return m.listenErr
	}
	if m.block {
		<-m.stopCh
		return http.ErrServerClosed
	}
	return nil
}

func (m *mockHTTPServer) Shutdown(context.Context) error {
	m.shutdownCount.Add(1)
	m.stopOnce.Do(func() { close(m.stopCh) })
	return m.shutdownErr
}

func TestNewHTTPServerService_DefaultTimeout(t *testing.T) {
	t.Parallel()

	for _, timeout := range []time.Duration{0, -5 * time.Second} {
		svc := NewHTTPServerService(newMockHTTPServer(), timeout)
		if svc.shutdownTimeout != defaultShutdownTimeout {
			t.Errorf("timeout %v: got %v, want %v", timeout, svc.shutdownTimeout, defaultShutdownTimeout)
		}
	}
	if got := NewHTTPServerService(newMockHTTPServer(), time.Second).String(); got != "http-server" {
		t.Errorf("String() = %q", got)
	}
}

func TestHTTPServerService_Serve(t *testing.T) {
	t.Parallel()

	t.Run("shuts down gracefully on context cancellation", func(t *testing.T) {
		t.Parallel()
		server := newMockHTTPServer()
		server.block = true
		svc := NewHTTPServerService(server, time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		select {
		case <-server.started:
		case <-time.After(time.Second):
			t.Fatal("server did not start")
		}
		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Serve() = %v, want context.Canceled", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return after cancellation")
		}
		if server.shutdownCount.Load() != 1 {
			t.Errorf("Shutdown calls = %d, want 1", server.shutdownCount.Load())
		}
	})

	t.Run("returns error on startup failure", func(t *testing.T) {
		t.Parallel()
		bindErr := errors.New("bind: address already in use")
		server := newMockHTTPServer()
		server.listenErr = bindErr

		err := NewHTTPServerService(server, time.Second).Serve(context.Background())
		if !errors.Is(err, bindErr) {
			t.Errorf("Serve() = %v, want wrapped %v", err, bindErr)
		}
	})

	t.Run("returns shutdown error", func(t *testing.T) {
		t.Parallel()
		shutdownErr := errors.New("shutdown timeout")
		server := newMockHTTPServer()
		server.block = true
		server.shutdownErr = shutdownErr
		svc := NewHTTPServerService(server, time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()
		<-server.started
		cancel()

		if err := <-errCh; !errors.Is(err, shutdownErr) {
			t.Errorf("Serve() = %v, want %v", err, shutdownErr)
		}
	})
}

// mockBus is a test double for EventBusRunner.
type mockBus struct {
	startErr      error
	running       atomic.Bool
	startCount    atomic.Int32
	shutdownCount atomic.Int32
}

func (b *mockBus) Start(context.Context) error {
	b.startCount.Add(1)
	if b.startErr != nil {
		return b.startErr
	}
	b.running.Store(true)
	return nil
}

func (b *mockBus) Shutdown(context.Context) {
	b.shutdownCount.Add(1)
	b.running.Store(false)
}

func (b *mockBus) IsRunning() bool { return b.running.Load() }

func TestEventBusService_StartFailure(t *testing.T) {
	t.Parallel()
	startErr := errors.New("subscribe failed")
	bus := &mockBus{startErr: startErr}

	err := NewEventBusService(bus, time.Second).Serve(context.Background())
	if !errors.Is(err, startErr) {
		t.Errorf("Serve() = %v, want wrapped %v", err, startErr)
	}
}

func TestEventBusService_ShutsDownOnCancel(t *testing.T) {
	t.Parallel()
	bus := &mockBus{}
	svc := NewEventBusService(bus, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	deadline := time.Now().Add(time.Second)
	for !bus.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("bus was not started")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	if bus.shutdownCount.Load() != 1 {
		t.Errorf("Shutdown calls = %d, want 1", bus.shutdownCount.Load())
	}
}

func TestEventBusService_ReportsDeadRouter(t *testing.T) {
	t.Parallel()
	bus := &mockBus{}
	svc := NewEventBusService(bus, time.Second)
	svc.checkInterval = 10 * time.Millisecond

	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(context.Background()) }()

	deadline := time.Now().Add(time.Second)
	for !bus.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("bus was not started")
		}
		time.Sleep(5 * time.Millisecond)
	}
	bus.running.Store(false)

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrBusStopped) {
			t.Errorf("Serve() = %v, want ErrBusStopped", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not notice the stopped router")
	}
}

// mockGC is a test double for GarbageCollector.
type mockGC struct {
	mu     sync.Mutex
	err    error
	calls  int
	ratios []float64
}

func (g *mockGC) RunGC(ratio float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.ratios = append(g.ratios, ratio)
	return g.err
}

func (g *mockGC) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func TestStoreGCService_RunsOnInterval(t *testing.T) {
	t.Parallel()
	gc := &mockGC{}
	svc := NewStoreGCService(gc, 10*time.Millisecond, 0.5)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for gc.callCount() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("GC ran %d times, want at least 2", gc.callCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v", err)
	}
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if gc.ratios[0] != 0.5 {
		t.Errorf("discard ratio = %v, want 0.5", gc.ratios[0])
	}
}

func TestStoreGCService_FailureIsCounted(t *testing.T) {
	t.Parallel()
	failures := metrics.StoreGCRuns.WithLabelValues("failure")
	before := testutil.ToFloat64(failures)

	svc := NewStoreGCService(&mockGC{err: errors.New("disk full")}, time.Minute, 0.5)
	svc.collect()

	if got := testutil.ToFloat64(failures) - before; got < 1 {
		t.Errorf("failure counter delta = %v, want >= 1", got)
	}
}

func TestNewStoreGCService_DefaultInterval(t *testing.T) {
	t.Parallel()
	if svc := NewStoreGCService(&mockGC{}, 0, 0.5); svc.interval != 10*time.Minute {
		t.Errorf("interval = %v, want 10m", svc.interval)
	}
}

func TestEventBusService_RestartsRealBus(t *testing.T) {
	t.Parallel()
	store := memory.New()
	bus, err := events.NewBus(store, events.DefaultRouterConfig())
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	t.Cleanup(func() { _ = bus.Close() })

	svc := NewEventBusService(bus, time.Second)
	svc.checkInterval = 10 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	waitRunning := func() {
		t.Helper()
		deadline := time.Now().Add(5 * time.Second)
		for !bus.IsRunning() {
			if time.Now().After(deadline) {
				t.Fatal("bus was not started")
			}
			time.Sleep(5 * time.Millisecond)
		}
	}

	// First generation: the router dies underneath the service.
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()
	waitRunning()
	bus.Shutdown(ctx)
	select {
	case err := <-errCh:
		if !errors.Is(err, ErrBusStopped) {
			t.Fatalf("Serve() = %v, want ErrBusStopped", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not notice the stopped router")
	}

	// What suture does next: Serve again on the same bus.
	go func() { errCh <- svc.Serve(ctx) }()
	waitRunning()

	event := models.NewFeedEvent(1, models.EventTypeLike, models.OperationAdd, 2)
	if err := bus.Publish(ctx, event); err != nil {
		t.Fatalf("Publish after restart: %v", err)
	}
	feed, err := store.ListFeed(ctx, 1)
	if err != nil || len(feed) != 1 {
		t.Fatalf("feed = %+v, %v; want one event", feed, err)
	}

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() after cancel = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
