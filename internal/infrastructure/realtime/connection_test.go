package realtime

import (
	"errors"
	"testing"
)

func TestConnection_SendAfterCloseNeverReportsDelivered(t *testing.T) {
	// A closed connection must refuse every frame, even when the send
	// buffer still has room: select would otherwise pick the enqueue case
	// at random and strand the frame in a buffer no pump drains.
	c := &Connection{
		ID:     "c1",
		send:   make(chan []byte, 64),
		closed: make(chan struct{}),
	}
	close(c.closed)

	for i := 0; i < 32; i++ {
		if err := c.Send([]byte("x")); !errors.Is(err, ErrConnectionClosed) {
			t.Fatalf("Send #%d after close = %v, want ErrConnectionClosed", i, err)
		}
	}
}
