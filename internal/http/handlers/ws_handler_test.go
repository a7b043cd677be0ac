package handlers

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stitchfund/backend/internal/config"
	"github.com/stitchfund/backend/internal/events"
	"go.uber.org/zap"
)

// overlapWriter flags any two writes that run at the same time.
type overlapWriter struct {
	busy    int32
	overlap int32
	writes  int32
}

func (w *overlapWriter) WriteMessage(_ int, _ []byte) error {
	if !atomic.CompareAndSwapInt32(&w.busy, 0, 1) {
		atomic.StoreInt32(&w.overlap, 1)
	}
	time.Sleep(time.Millisecond)
	atomic.AddInt32(&w.writes, 1)
	atomic.StoreInt32(&w.busy, 0)
	return nil
}

func TestHubWritesAreSerializedPerConnection(t *testing.T) {
	hub := NewWSHub(&config.Config{}, nil, zap.NewNop())

	userID := uuid.New()
	writer := &overlapWriter{}
	conn := &wsConn{w: writer}
	hub.register(userID, conn)
	defer hub.unregister(userID, conn)

	event := events.Event{Type: events.EventCampaignStatusChanged, Payload: map[string]any{"campaign_id": uuid.New().String()}}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			hub.broadcast(event)
		}()
		go func() {
			defer wg.Done()
			hub.SendToUser(userID, event)
		}()
	}
	wg.Wait()

	if atomic.LoadInt32(&writer.overlap) != 0 {
		t.Error("two writes reached the connection concurrently")
	}
	if got := atomic.LoadInt32(&writer.writes); got != 16 {
		t.Errorf("writes = %d, want 16", got)
	}
}

func TestUnregisterDropsConnection(t *testing.T) {
	hub := NewWSHub(&config.Config{}, nil, zap.NewNop())

	userID := uuid.New()
	writer := &overlapWriter{}
	conn := &wsConn{w: writer}
	hub.register(userID, conn)
	hub.unregister(userID, conn)

	hub.SendToUser(userID, events.Event{Type: events.EventNotificationIntent})
	if atomic.LoadInt32(&writer.writes) != 0 {
		t.Error("unregistered connection still received a write")
	}
}

func TestRecipientIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	// Payload shape after a JSON round trip through Redis: []any of strings.
	event := events.Event{
		Type: events.EventNotificationIntent,
		Payload: map[string]any{
			"recipient_ids": []any{a.String(), "not-a-uuid", b.String(), 42},
		},
	}

	ids := recipientIDs(event)
	if len(ids) != 2 || ids[0] != a || ids[1] != b {
		t.Errorf("recipientIDs = %v, want [%s %s]", ids, a, b)
	}

	if ids := recipientIDs(events.Event{Payload: map[string]any{}}); ids != nil {
		t.Errorf("missing recipient_ids should yield nil, got %v", ids)
	}
}
