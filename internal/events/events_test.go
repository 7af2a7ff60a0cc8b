// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/filmorate/internal/config"
	"github.com/tomtom215/filmorate/internal/logging"
	"github.com/tomtom215/filmorate/internal/metrics"
	"github.com/tomtom215/filmorate/internal/models"
	"github.com/tomtom215/filmorate/internal/storage/memory"
)

// flakyFeedStore fails the first failures calls to AddFeedEvent.
type flakyFeedStore struct {
	mu       sync.Mutex
	failures int
	calls    int
	events   []models.FeedEvent
	ctxIDs   []string
}

func (f *flakyFeedStore) AddFeedEvent(ctx context.Context, event *models.FeedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return errors.New("disk on fire")
	}
	event.EventID = int64(len(f.events) + 1)
	f.events = append(f.events, *event)
	f.ctxIDs = append(f.ctxIDs, logging.CorrelationIDFromContext(ctx))
	return nil
}

func (f *flakyFeedStore) ListFeed(_ context.Context, userID int64) ([]models.FeedEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.FeedEvent, 0)
	for _, e := range f.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *flakyFeedStore) snapshot() ([]models.FeedEvent, []string, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.FeedEvent(nil), f.events...), append([]string(nil), f.ctxIDs...), f.calls
}

func fastRouterConfig(retries int) RouterConfig {
	return RouterConfig{
		CloseTimeout:         time.Second,
		RetryMaxRetries:      retries,
		RetryInitialInterval: time.Millisecond,
		RetryMaxInterval:     5 * time.Millisecond,
		RetryMultiplier:      2,
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := models.NewFeedEvent(1, models.EventTypeLike, models.OperationAdd, 2)

	tests := []struct {
		name    string
		mutate  func(e *models.FeedEvent)
		wantErr bool
	}{
		{"valid", func(*models.FeedEvent) {}, false},
		{"friend remove", func(e *models.FeedEvent) {
			e.EventType = models.EventTypeFriend
			e.Operation = models.OperationRemove
		}, false},
		{"zero user", func(e *models.FeedEvent) { e.UserID = 0 }, true},
		{"zero entity", func(e *models.FeedEvent) { e.EntityID = 0 }, true},
		{"unknown type", func(e *models.FeedEvent) { e.EventType = "REVIEW" }, true},
		{"unknown operation", func(e *models.FeedEvent) { e.Operation = "UPDATE" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := valid
			tt.mutate(&e)
			err := Validate(&e)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidEvent) {
				t.Errorf("error %v should wrap ErrInvalidEvent", err)
			}
		})
	}

	if err := Validate(nil); err == nil {
		t.Error("Validate(nil) should fail")
	}
}

func TestSerializer_RoundTrip(t *testing.T) {
	t.Parallel()

	s := NewSerializer()
	in := models.NewFeedEvent(7, models.EventTypeFriend, models.OperationAdd, 9)

	data, err := s.Marshal(&in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	out, err := s.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if *out != in {
		t.Errorf("round trip = %+v, want %+v", *out, in)
	}

	if _, err := s.Unmarshal([]byte("{not json")); err == nil {
		t.Error("Unmarshal should reject malformed JSON")
	}
	if _, err := s.Unmarshal([]byte(`{"userId":1,"eventType":"LIKE","operation":"ADD"}`)); err == nil {
		t.Error("Unmarshal should reject an event without entity id")
	}
}

func TestNewFeedRecorder_NilStore(t *testing.T) {
	t.Parallel()

	if _, err := NewFeedRecorder(nil); err == nil {
		t.Error("expected error for nil store")
	}
}

func TestFeedRecorder_Handle(t *testing.T) {
	t.Run("records valid message", func(t *testing.T) {
		store := &flakyFeedStore{}
		h, err := NewFeedRecorder(store)
		if err != nil {
			t.Fatalf("NewFeedRecorder: %v", err)
		}

		before := testutil.ToFloat64(metrics.FeedEventsTotal.WithLabelValues(models.EventTypeLike, models.OperationRemove))

		event := models.NewFeedEvent(42, models.EventTypeLike, models.OperationRemove, 3)
		payload, _ := json.Marshal(event)
		msg := message.NewMessage("msg-1", payload)
		middleware.SetCorrelationID("corr-123", msg)

		if err := h.Handle(msg); err != nil {
			t.Fatalf("Handle: %v", err)
		}

		events, ids, _ := store.snapshot()
		if len(events) != 1 {
			t.Fatalf("expected 1 event, got %d", len(events))
		}
		if events[0].UserID != 42 || events[0].EntityID != 3 {
			t.Errorf("stored event = %+v", events[0])
		}
		if ids[0] != "corr-123" {
			t.Errorf("correlation id in store context = %q", ids[0])
		}

		after := testutil.ToFloat64(metrics.FeedEventsTotal.WithLabelValues(models.EventTypeLike, models.OperationRemove))
		if after-before != 1 {
			t.Errorf("feed events counter delta = %v, want 1", after-before)
		}
	})

	t.Run("acks malformed payload", func(t *testing.T) {
		store := &flakyFeedStore{}
		h, _ := NewFeedRecorder(store)

		before := testutil.ToFloat64(metrics.FeedDroppedEvents)
		if err := h.Handle(message.NewMessage("msg-2", []byte("garbage"))); err != nil {
			t.Errorf("malformed payload should be acknowledged, got %v", err)
		}
		if _, _, calls := store.snapshot(); calls != 0 {
			t.Errorf("store called %d times for malformed payload", calls)
		}
		if testutil.ToFloat64(metrics.FeedDroppedEvents)-before != 1 {
			t.Error("dropped counter not incremented")
		}
	})

	t.Run("returns storage errors", func(t *testing.T) {
		store := &flakyFeedStore{failures: 1}
		h, _ := NewFeedRecorder(store)

		payload, _ := json.Marshal(models.NewFeedEvent(1, models.EventTypeFriend, models.OperationAdd, 2))
		if err := h.Handle(message.NewMessage("msg-3", payload)); err == nil {
			t.Error("expected storage error to be returned for retry")
		}
	})
}

func TestRouterConfigFrom(t *testing.T) {
	t.Parallel()

	def := DefaultRouterConfig()
	if got := RouterConfigFrom(nil); got != def {
		t.Errorf("RouterConfigFrom(nil) = %+v, want defaults", got)
	}

	got := RouterConfigFrom(&config.EventsConfig{RetryCount: 7, CloseTimeout: 3 * time.Second})
	if got.RetryMaxRetries != 7 || got.CloseTimeout != 3*time.Second {
		t.Errorf("RouterConfigFrom = %+v", got)
	}
	if got.RetryMultiplier != def.RetryMultiplier {
		t.Errorf("unset fields should keep defaults, got %+v", got)
	}
}

func TestBus_DeliversThroughRouter(t *testing.T) {
	store := &flakyFeedStore{failures: 2}
	bus, err := NewBus(store, fastRouterConfig(3))
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := bus.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !bus.IsRunning() {
		t.Fatal("bus should be running after Start")
	}

	reqCtx, reqCancel := context.WithCancel(logging.ContextWithCorrelationID(context.Background(), "req-1"))
	if err := bus.Publish(reqCtx, models.NewFeedEvent(5, models.EventTypeLike, models.OperationAdd, 8)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	// The recorder must not depend on the request context staying alive.
	reqCancel()

	waitFor(t, func() bool {
		events, _, _ := store.snapshot()
		return len(events) == 1
	})

	events, ids, calls := store.snapshot()
	if calls != 3 {
		t.Errorf("store calls = %d, want 3 (two retried failures)", calls)
	}
	if events[0].UserID != 5 || events[0].EntityID != 8 {
		t.Errorf("recorded = %+v", events[0])
	}
	if ids[0] != "req-1" {
		t.Errorf("correlation id = %q, want req-1", ids[0])
	}
}

func TestBus_DropsAfterRetries(t *testing.T) {
	store := &flakyFeedStore{failures: 100}
	bus, err := NewBus(store, fastRouterConfig(1))
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := bus.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	before := testutil.ToFloat64(metrics.FeedDroppedEvents)
	if err := bus.Publish(context.Background(), models.NewFeedEvent(1, models.EventTypeFriend, models.OperationAdd, 2)); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	waitFor(t, func() bool {
		return testutil.ToFloat64(metrics.FeedDroppedEvents)-before >= 1
	})

	// One attempt plus one retry, then the message is acknowledged.
	time.Sleep(50 * time.Millisecond)
	if _, _, calls := store.snapshot(); calls != 2 {
		t.Errorf("store calls = %d, want 2", calls)
	}
}

func TestBus_RecordsDirectlyWhenRouterStopped(t *testing.T) {
	store := memory.New()
	bus, err := NewBus(store, fastRouterConfig(0))
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}

	ctx := context.Background()
	if err := bus.Publish(ctx, models.NewFeedEvent(3, models.EventTypeLike, models.OperationAdd, 4)); err != nil {
		t.Fatalf("Publish before Start: %v", err)
	}
	feed, err := store.ListFeed(ctx, 3)
	if err != nil {
		t.Fatalf("ListFeed: %v", err)
	}
	if len(feed) != 1 || feed[0].EventID == 0 {
		t.Errorf("feed = %+v, want one stored event", feed)
	}

	if err := bus.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := bus.Publish(ctx, models.NewFeedEvent(3, models.EventTypeLike, models.OperationAdd, 4)); !errors.Is(err, ErrBusClosed) {
		t.Errorf("Publish after Close = %v, want ErrBusClosed", err)
	}
	if err := bus.Start(ctx); !errors.Is(err, ErrBusClosed) {
		t.Errorf("Start after Close = %v, want ErrBusClosed", err)
	}
}

func TestBus_RestartAfterShutdown(t *testing.T) {
	store := memory.New()
	bus, err := NewBus(store, fastRouterConfig(0))
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for i := 0; i < 2; i++ {
		if err := bus.Start(ctx); err != nil {
			t.Fatalf("Start #%d: %v", i+1, err)
		}
		if err := bus.Publish(ctx, models.NewFeedEvent(9, models.EventTypeFriend, models.OperationAdd, int64(i+1))); err != nil {
			t.Fatalf("Publish #%d: %v", i+1, err)
		}
		want := i + 1
		waitFor(t, func() bool {
			feed, _ := store.ListFeed(ctx, 9)
			return len(feed) == want
		})
		bus.Shutdown(ctx)
		if bus.IsRunning() {
			t.Fatalf("bus still running after Shutdown #%d", i+1)
		}
	}
}

func TestBus_NoEventLostAcrossRestarts(t *testing.T) {
	store := memory.New()
	bus, err := NewBus(store, fastRouterConfig(0))
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	defer bus.Close()

	ctx := context.Background()
	if err := bus.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	const publishers, perPublisher = 4, 50
	var wg sync.WaitGroup
	for p := 0; p < publishers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perPublisher; i++ {
				event := models.NewFeedEvent(7, models.EventTypeLike, models.OperationAdd, int64(p*perPublisher+i+1))
				if err := bus.Publish(ctx, event); err != nil {
					t.Errorf("Publish: %v", err)
					return
				}
			}
		}(p)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	restarts := 0
loop:
	for {
		select {
		case <-done:
			break loop
		default:
		}
		bus.Shutdown(ctx)
		if err := bus.Start(ctx); err != nil {
			t.Fatalf("Start after Shutdown #%d: %v", restarts+1, err)
		}
		restarts++
		time.Sleep(time.Millisecond)
	}

	feed, err := store.ListFeed(ctx, 7)
	if err != nil {
		t.Fatalf("ListFeed: %v", err)
	}
	if len(feed) != publishers*perPublisher {
		t.Errorf("recorded %d events across %d restarts, want %d", len(feed), restarts, publishers*perPublisher)
	}
}

func TestBus_RejectsInvalidEvent(t *testing.T) {
	t.Parallel()

	bus, err := NewBus(memory.New(), fastRouterConfig(0))
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	defer bus.Close()

	if err := bus.Publish(context.Background(), models.FeedEvent{UserID: 1}); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("Publish(invalid) = %v, want ErrInvalidEvent", err)
	}
}

func TestDirectPublisher(t *testing.T) {
	t.Parallel()

	store := memory.New()
	p := NewDirectPublisher(store)
	ctx := context.Background()

	if err := p.Publish(ctx, models.NewFeedEvent(2, models.EventTypeFriend, models.OperationRemove, 6)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := p.Publish(ctx, models.FeedEvent{}); err == nil {
		t.Error("Publish should reject an invalid event")
	}

	feed, err := store.ListFeed(ctx, 2)
	if err != nil {
		t.Fatalf("ListFeed: %v", err)
	}
	if len(feed) != 1 || feed[0].Operation != models.OperationRemove {
		t.Errorf("feed = %+v", feed)
	}
}
