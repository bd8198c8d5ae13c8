package push

import (
	"context"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

// Listener consumes the backend's websocket push channel and fans events
// out to subscribers. Connection loss triggers a dial retry with backoff;
// the listener never surfaces transport errors to subscribers.
type Listener struct {
	url    string
	logger *log.Logger
	*fanout
}

func NewListener(url string, logger *log.Logger) *Listener {
	return &Listener{url: url, logger: logger, fanout: newFanout()}
}

func (l *Listener) Subscribe(fn Handler) func() {
	return l.subscribe(fn)
}

// Run dials and reads until ctx is cancelled.
func (l *Listener) Run(ctx context.Context) error {
	const retryDelay = 5 * time.Second
	for {
		if err := l.readLoop(ctx); err != nil {
			l.logger.Printf("push channel: %v", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryDelay):
		}
	}
}

func (l *Listener) readLoop(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, l.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			return err
		}
		if ev.Type == "" {
			continue
		}
		l.dispatch(ev)
	}
}
