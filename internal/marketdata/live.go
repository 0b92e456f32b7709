package marketdata

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"optionslab/types"
)

// LiveConfig configures the websocket tick ingest.
type LiveConfig struct {
	URL               string
	Symbol            string
	ReconnectDelay    time.Duration // initial backoff, default 2s
	MaxReconnectDelay time.Duration // backoff cap, default 30s
}

func (c *LiveConfig) defaults() {
	if c.ReconnectDelay == 0 {
		c.ReconnectDelay = 2 * time.Second
	}
	if c.MaxReconnectDelay == 0 {
		c.MaxReconnectDelay = 30 * time.Second
	}
}

// LiveStream forwards ticks from an external websocket feed. The wire
// format is one JSON-encoded types.MarketTick per message. Messages for
// other symbols are dropped; reconnects use exponential backoff.
type LiveStream struct {
	cfg LiveConfig
	log *slog.Logger

	out    chan types.MarketTick
	cancel context.CancelFunc

	mu       sync.Mutex
	err      error
	stopOnce sync.Once
}

func NewLiveStream(cfg LiveConfig, log *slog.Logger) *LiveStream {
	cfg.defaults()
	ctx, cancel := context.WithCancel(context.Background())
	s := &LiveStream{
		cfg:    cfg,
		log:    log,
		out:    make(chan types.MarketTick, 64),
		cancel: cancel,
	}
	go s.run(ctx)
	return s
}

func (s *LiveStream) run(ctx context.Context) {
	defer close(s.out)

	delay := s.cfg.ReconnectDelay
	for {
		if ctx.Err() != nil {
			return
		}

		err := s.readOnce(ctx)
		if err == nil {
			return // stopped cleanly
		}

		s.log.Warn("tick feed disconnected", "symbol", s.cfg.Symbol, "err", err, "retry_in", delay)
		s.setErr(err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay *= 2
		if delay > s.cfg.MaxReconnectDelay {
			delay = s.cfg.MaxReconnectDelay
		}
	}
}

func (s *LiveStream) readOnce(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.cfg.URL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	s.log.Info("tick feed connected", "symbol", s.cfg.Symbol, "url", s.cfg.URL)

	go func() {
		<-ctx.Done()
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "shutdown"))
		conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		var tick types.MarketTick
		if err := json.Unmarshal(msg, &tick); err != nil {
			s.log.Warn("dropping malformed tick", "symbol", s.cfg.Symbol, "err", err)
			continue
		}
		if tick.Symbol != s.cfg.Symbol {
			continue
		}

		select {
		case s.out <- tick:
		case <-ctx.Done():
			return nil
		}
	}
}

func (s *LiveStream) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *LiveStream) Ticks() <-chan types.MarketTick { return s.out }

func (s *LiveStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *LiveStream) Stop() {
	s.stopOnce.Do(s.cancel)
}
