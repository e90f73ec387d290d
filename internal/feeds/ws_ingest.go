package feeds

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// ItemSink receives intercepted marketplace item payloads. The adapter
// registry implements it; each message is routed to the owning
// marketplace's item cache.
type ItemSink interface {
	IngestRaw(market string, items []json.RawMessage)
}

// itemMessage is one frame of the item stream: the marketplace it belongs
// to plus the raw records exactly as that marketplace's API returned them.
type itemMessage struct {
	Market string            `json:"market"`
	Items  []json.RawMessage `json:"items"`
}

// ItemFeed is the event source feeding the engine with raw item payloads
// over a websocket. It only moves bytes; decoding stays with the adapters.
type ItemFeed struct {
	url  string
	sink ItemSink
	log  *logrus.Entry
}

func NewItemFeed(url string, sink ItemSink, log *logrus.Entry) *ItemFeed {
	return &ItemFeed{url: url, sink: sink, log: log}
}

// Run keeps a connection open until ctx is done, reconnecting with a flat
// five-second delay. Malformed frames are logged and skipped.
func (f *ItemFeed) Run(ctx context.Context) {
	for ctx.Err() == nil {
		if err := f.consume(ctx); err != nil && ctx.Err() == nil {
			f.log.WithError(err).Warn("item feed disconnected, reconnecting")
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}

func (f *ItemFeed) consume(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, f.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	// The watcher unblocks ReadMessage on cancellation and exits with the
	// connection, so a dead feed does not accumulate one goroutine per
	// reconnect attempt.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var msg itemMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			f.log.WithError(err).Warn("dropping malformed item frame")
			continue
		}
		if msg.Market == "" || len(msg.Items) == 0 {
			continue
		}
		f.sink.IngestRaw(msg.Market, msg.Items)
	}
}
