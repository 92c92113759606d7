package webserver

import (
	"fmt"
	"net/http"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/talkincode/zcast/internal/domain"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// EventHub fans status events out to connected browsers over Server-Sent
// Events. The push channel exists for the login flow only.
type EventHub struct {
	mu   sync.Mutex
	subs map[chan domain.StatusEvent]struct{}
}

func NewEventHub() *EventHub {
	return &EventHub{subs: make(map[chan domain.StatusEvent]struct{})}
}

// Publish delivers evt to every subscriber. Slow subscribers drop events
// rather than block the login flow.
func (h *EventHub) Publish(evt domain.StatusEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

func (h *EventHub) subscribe() (chan domain.StatusEvent, func()) {
	ch := make(chan domain.StatusEvent, 16)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
}

// Handle streams status events to one browser until it disconnects.
func (h *EventHub) Handle(c echo.Context) error {
	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set(echo.HeaderCacheControl, "no-cache")
	resp.Header().Set(echo.HeaderConnection, "keep-alive")
	resp.WriteHeader(http.StatusOK)

	flusher, ok := resp.Writer.(http.Flusher)
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, "streaming unsupported")
	}

	// current status immediately so late joiners do not wait for the next
	// transition
	appCtx := GetAppCtx(c)
	initial := domain.StatusEvent{Status: appCtx.SessionStore().Status()}
	if err := writeEvent(resp, initial); err != nil {
		return nil
	}
	flusher.Flush()

	ch, cancel := h.subscribe()
	defer cancel()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case evt := <-ch:
			if err := writeEvent(resp, evt); err != nil {
				zap.L().Debug("events: client write failed", zap.Error(err))
				return nil
			}
			flusher.Flush()
		}
	}
}

func writeEvent(resp *echo.Response, evt domain.StatusEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(resp, "event: status\ndata: %s\n\n", data)
	return err
}
