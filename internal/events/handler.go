package events

import (
	"bytes"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const (
	heartbeatEvery = 30 * time.Second
	writeDeadline  = 60 * time.Second
)

// Handler streams rating and resolution events to a connected rendering
// surface over SSE.
type Handler struct {
	manager *Manager
	logger  *slog.Logger
}

// NewHandler creates a Handler backed by the given manager.
func NewHandler(manager *Manager, logger *slog.Logger) *Handler {
	return &Handler{manager: manager, logger: logger}
}

// ServeHTTP upgrades the request to an event stream and forwards broadcast
// events until the client goes away or the manager shuts down.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.Context().Err() != nil {
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	rc := http.NewResponseController(w)
	if err := rc.Flush(); err != nil {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	client, err := h.manager.Connect()
	if err != nil {
		h.logger.Error("failed to register event client", slog.String("error", err.Error()))
		http.Error(w, "Failed to establish connection", http.StatusInternalServerError)
		return
	}
	defer h.manager.Disconnect(client.ID)

	log := h.logger.With(slog.String("client_id", client.ID))

	if err := h.send(w, rc, "connected", map[string]string{
		"client_id": client.ID,
	}); err != nil {
		log.Warn("initial event not delivered", slog.String("error", err.Error()))
		return
	}

	heartbeat := time.NewTicker(heartbeatEvery)
	defer heartbeat.Stop()

	for {
		var event Event
		select {
		case event = <-client.EventChan:
		case <-heartbeat.C:
			event = NewHeartbeatEvent()
		case <-client.Done:
			log.Info("client closed by manager")
			return
		case <-r.Context().Done():
			log.Info("client context canceled")
			return
		}

		if err := h.send(w, rc, string(event.Type), event); err != nil {
			// Client disconnect is normal, not an error condition.
			log.Info("client disconnected during send")
			return
		}
	}
}

// send frames one event and flushes it to the client.
func (h *Handler) send(w http.ResponseWriter, rc *http.ResponseController, eventType string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}

	var frame bytes.Buffer
	fmt.Fprintf(&frame, "event: %s\ndata: %s\n\n", eventType, payload)

	if _, err := w.Write(frame.Bytes()); err != nil {
		return err
	}
	if err := rc.Flush(); err != nil {
		return err
	}

	// Reset the write deadline after each successful write.
	if err := rc.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
		h.logger.Debug("failed to set write deadline", slog.String("error", err.Error()))
	}
	return nil
}
