package engine

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"optionslab/types"
)

// TickSource is the slice of the market-data stream contract the execution
// engine needs; both live and synthetic streams satisfy it.
type TickSource interface {
	Ticks() <-chan types.MarketTick
}

// TickRecorder receives every routed tick, typically the bounded per-symbol
// history cache.
type TickRecorder interface {
	Add(tick types.MarketTick)
}

// QuoteSource answers mark-to-market queries, typically the same cache.
type QuoteSource interface {
	Latest(symbol string) (types.MarketTick, bool)
}

// PaperConfig configures the execution simulator.
type PaperConfig struct {
	StartingCash decimal.Decimal
	FillTimeout  time.Duration // max wait for a fill-pricing tick
	RouteDepth   int           // per-symbol queue depth
	Limits       Limits
}

func (c *PaperConfig) defaults() {
	if c.FillTimeout == 0 {
		c.FillTimeout = 5 * time.Second
	}
	if c.RouteDepth == 0 {
		c.RouteDepth = 256
	}
}

// PaperEngine simulates order execution against a tick feed. Orders fill
// fully at the next available tick price for their symbol; there are no
// partial fills, no slippage model, and limit orders fill at the next tick
// regardless of the limit level. Ticks are routed per symbol, so an order
// for one symbol can never consume a tick produced for another.
//
// The book is mutated only inside placeOrder's fill path under mu; every
// external read receives a copy.
type PaperEngine struct {
	cfg PaperConfig
	log *slog.Logger

	nextOrderID atomic.Int64
	connected   atomic.Bool

	mu     sync.Mutex
	book   *portfolio
	orders map[int64]types.Order
	routes map[string]chan types.MarketTick

	now func() time.Time
}

func NewPaperEngine(cfg PaperConfig, log *slog.Logger) *PaperEngine {
	cfg.defaults()
	return &PaperEngine{
		cfg:    cfg,
		log:    log,
		book:   newPortfolio(cfg.StartingCash),
		orders: make(map[int64]types.Order),
		routes: make(map[string]chan types.MarketTick),
		now:    time.Now,
	}
}

// Connect marks the engine ready to accept orders.
func (e *PaperEngine) Connect() { e.connected.Store(true) }

// Disconnect stops order acceptance; open state is preserved.
func (e *PaperEngine) Disconnect() { e.connected.Store(false) }

// Subscribe registers a symbol so orders for it can resolve a contract and
// a fill-price route. Returns the route feed ticks are delivered on.
func (e *PaperEngine) Subscribe(symbol string) chan types.MarketTick {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ch, ok := e.routes[symbol]; ok {
		return ch
	}
	ch := make(chan types.MarketTick, e.cfg.RouteDepth)
	e.routes[symbol] = ch
	return ch
}

// Feed consumes a stream until it closes or stop is closed, recording every
// tick and routing it to its symbol's fill queue. When the route queue is
// full the tick is dropped for fill purposes but still recorded; order
// fills only ever need the next tick, not every tick.
func (e *PaperEngine) Feed(stream TickSource, recorder TickRecorder, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case tick, ok := <-stream.Ticks():
			if !ok {
				return
			}
			if recorder != nil {
				recorder.Add(tick)
			}
			e.mu.Lock()
			route, ok := e.routes[tick.Symbol]
			e.mu.Unlock()
			if !ok {
				continue
			}
			select {
			case route <- tick:
			default:
				e.log.Debug("fill route full, dropping tick", "symbol", tick.Symbol)
			}
		}
	}
}

// PlaceOrder allocates the next order id and fills the order at the next
// tick for its symbol. A ValidationError return means the order violated a
// configured bound and no state changed. Execution problems (disconnected,
// unknown symbol, malformed limit order, fill timeout) come back as a
// rejected order, not an error, so callers can keep processing.
func (e *PaperEngine) PlaceOrder(symbol string, quantity int64, kind types.OrderKind, limitPrice *decimal.Decimal) (types.Order, error) {
	order := types.Order{
		ID:         e.nextOrderID.Add(1),
		Symbol:     symbol,
		Quantity:   quantity,
		Kind:       kind,
		LimitPrice: limitPrice,
		Status:     types.OrderPending,
		Timestamp:  e.now(),
	}

	if err := e.validateOrder(symbol, quantity); err != nil {
		return types.Order{}, err
	}

	if !e.connected.Load() {
		return e.reject(order, "engine not connected"), nil
	}
	if kind == types.KindLimit && limitPrice == nil {
		return e.reject(order, "limit order requires a limit price"), nil
	}

	e.mu.Lock()
	route, ok := e.routes[symbol]
	e.mu.Unlock()
	if !ok {
		return e.reject(order, "no resolvable contract for symbol"), nil
	}

	// Bounded wait for fill pricing; an unbounded wait could stall the
	// caller forever on a quiet feed.
	var tick types.MarketTick
	select {
	case tick = <-route:
	case <-time.After(e.cfg.FillTimeout):
		return e.reject(order, "no tick received within fill timeout"), nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.book.applyFill(symbol, quantity, tick.Price)
	order.Status = types.OrderFilled
	order.FillPrice = tick.Price
	order.Timestamp = e.now()
	e.orders[order.ID] = order

	e.log.Info("order filled",
		"id", order.ID, "symbol", symbol, "quantity", quantity, "price", tick.Price)
	return order, nil
}

func (e *PaperEngine) validateOrder(symbol string, quantity int64) error {
	if quantity == 0 {
		return validationErr("quantity", "order quantity must be non-zero")
	}
	lim := e.cfg.Limits
	if lim.MaxPositionSize > 0 && abs64(quantity) > lim.MaxPositionSize {
		return validationErr("quantity", "position size %d exceeds maximum %d", abs64(quantity), lim.MaxPositionSize)
	}
	if lim.MaxLossThreshold > 0 {
		e.mu.Lock()
		summary := e.book.summary()
		exposure := int64(0)
		for _, pos := range e.book.positions {
			exposure += abs64(pos.quantity)
		}
		e.mu.Unlock()

		total := decimal.NewFromInt(exposure + abs64(quantity)).
			Mul(decimal.NewFromFloat(lim.MaxLossThreshold))
		if total.GreaterThan(summary.TotalValue) {
			return validationErr("exposure", "order would exceed account risk threshold")
		}
	}
	return nil
}

func (e *PaperEngine) reject(order types.Order, reason string) types.Order {
	order.Status = types.OrderRejected
	order.Reason = reason
	e.mu.Lock()
	e.orders[order.ID] = order
	e.mu.Unlock()
	e.log.Warn("order rejected", "id", order.ID, "symbol", order.Symbol, "reason", reason)
	return order
}

// OrderStatus returns a copy of a previously placed order.
func (e *PaperEngine) OrderStatus(id int64) (types.Order, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	order, ok := e.orders[id]
	return order, ok
}

// RefreshMarks re-prices open positions from the latest cached quotes.
// Called by the position monitor on its cadence.
func (e *PaperEngine) RefreshMarks(quotes QuoteSource) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for symbol := range e.book.positions {
		if tick, ok := quotes.Latest(symbol); ok {
			e.book.mark(symbol, tick.Price)
		}
	}
}

// View returns a point-in-time copy of the book.
func (e *PaperEngine) View() types.PortfolioView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.view(e.now())
}

// PortfolioSummary returns the headline account numbers.
func (e *PaperEngine) PortfolioSummary() types.PortfolioSummary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.summary()
}
