package httpapi

import (
	"fmt"
	"net/http"

	"jobhunter/internal/events"
)

type EventsHandler struct {
	Hub *events.Hub
}

// ServeSSE streams hub events to the client until it disconnects. The
// first frame is a "connected" event so the client knows the stream is
// live before any run produces output.
func (h EventsHandler) ServeSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, r, http.StatusInternalServerError, "stream_unsupported", "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := h.Hub.Subscribe()
	defer h.Hub.Unsubscribe(ch)

	reqID := RequestIDFrom(r.Context())
	writeFrame(w, flusher, events.MakeEvent(reqID, "connected", 1, nil))

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-ch:
			writeFrame(w, flusher, msg)
		}
	}
}

func writeFrame(w http.ResponseWriter, f http.Flusher, payload string) {
	fmt.Fprintf(w, "event: message\ndata: %s\n\n", payload)
	f.Flush()
}
