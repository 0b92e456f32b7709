package marketdata

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"optionslab/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func tickServer(t *testing.T, ticks []types.MarketTick) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, tick := range ticks {
			body, _ := json.Marshal(tick)
			if err := conn.WriteMessage(websocket.TextMessage, body); err != nil {
				return
			}
		}
		// Hold the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestLiveStream_ForwardsMatchingTicks(t *testing.T) {
	ticks := []types.MarketTick{
		{Symbol: "SPY", Price: decimal.NewFromFloat(100.5)},
		{Symbol: "QQQ", Price: decimal.NewFromFloat(400.0)}, // filtered out
		{Symbol: "SPY", Price: decimal.NewFromFloat(101.0)},
	}
	server := tickServer(t, ticks)
	defer server.Close()

	s := NewLiveStream(LiveConfig{URL: wsURL(server), Symbol: "SPY"}, discardLogger())
	defer s.Stop()

	want := []string{"100.5", "101"}
	for _, w := range want {
		select {
		case tick := <-s.Ticks():
			if tick.Symbol != "SPY" {
				t.Fatalf("received tick for %q, want only SPY", tick.Symbol)
			}
			if tick.Price.String() != w {
				t.Errorf("price = %s, want %s", tick.Price, w)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for tick")
		}
	}
}

func TestLiveStream_StopClosesFeed(t *testing.T) {
	server := tickServer(t, nil)
	defer server.Close()

	s := NewLiveStream(LiveConfig{URL: wsURL(server), Symbol: "SPY"}, discardLogger())
	s.Stop()

	select {
	case _, ok := <-s.Ticks():
		if ok {
			// Drain any tick raced in before the stop.
			for range s.Ticks() {
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("feed never closed after Stop")
	}
}

func TestLiveStream_SurfacesDialFailure(t *testing.T) {
	s := NewLiveStream(LiveConfig{
		URL:            "ws://127.0.0.1:1/nowhere",
		Symbol:         "SPY",
		ReconnectDelay: 10 * time.Millisecond,
	}, discardLogger())
	defer s.Stop()

	deadline := time.After(2 * time.Second)
	for s.Err() == nil {
		select {
		case <-deadline:
			t.Fatal("Err() never reported the dial failure")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
