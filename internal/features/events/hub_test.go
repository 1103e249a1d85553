package events

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

// countingConn flags any overlapping WriteMessage calls.
type countingConn struct {
	writing  atomic.Int32
	overlaps atomic.Int32
	writes   atomic.Int32
}

func (c *countingConn) WriteMessage(messageType int, data []byte) error {
	if c.writing.Add(1) > 1 {
		c.overlaps.Add(1)
	}
	time.Sleep(time.Millisecond)
	c.writing.Add(-1)
	c.writes.Add(1)
	return nil
}

func (c *countingConn) Close() error { return nil }

func TestPublishSerializesWritesPerConnection(t *testing.T) {
	h := NewHub(zap.NewNop())
	conn := &countingConn{}
	h.add(conn)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Publish("artifact.generated", map[string]any{"rows": 1})
		}()
	}
	wg.Wait()

	if got := conn.overlaps.Load(); got != 0 {
		t.Fatalf("observed %d overlapping writes on one connection", got)
	}
	if got := conn.writes.Load(); got != 16 {
		t.Errorf("writes = %d, want 16", got)
	}
}

type brokenConn struct {
	closed atomic.Bool
}

func (c *brokenConn) WriteMessage(int, []byte) error { return errors.New("broken pipe") }
func (c *brokenConn) Close() error                   { c.closed.Store(true); return nil }

func TestPublishDropsBrokenConnections(t *testing.T) {
	h := NewHub(zap.NewNop())
	conn := &brokenConn{}
	h.add(conn)

	h.Publish("artifact.generated", nil)

	if !conn.closed.Load() {
		t.Error("broken connection was not closed")
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.clients) != 0 {
		t.Errorf("%d clients still registered after write failure", len(h.clients))
	}
}
