package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tendant/simple-graph/pkg/contentgraph"
	"github.com/tendant/simple-graph/pkg/contentgraph/pubsub"
)

var errStreamingUnsupported = errors.New("streaming unsupported")

// StreamPosts streams post events as server-sent events until the client
// disconnects
func (h *GraphHandler) StreamPosts(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, func(listener contentgraph.Listener) (contentgraph.Subscription, error) {
		return h.service.SubscribePosts(r.Context(), listener)
	})
}

// StreamComments streams comment events for one published post
func (h *GraphHandler) StreamComments(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")
	h.stream(w, r, func(listener contentgraph.Listener) (contentgraph.Subscription, error) {
		return h.service.SubscribeComments(r.Context(), postID, listener)
	})
}

// stream subscribes through a queue so a slow client never holds up the
// publisher, then writes each buffered event as one SSE message.
func (h *GraphHandler) stream(w http.ResponseWriter, r *http.Request, subscribe func(contentgraph.Listener) (contentgraph.Subscription, error)) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, "Failed to open stream", errStreamingUnsupported)
		return
	}

	queue := pubsub.NewQueue(h.streamBuffer)
	defer queue.Close()

	sub, err := subscribe(queue.Listener())
	if err != nil {
		writeError(w, r, "Failed to subscribe", err)
		return
	}
	defer sub.Unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	slog.Info("Subscription opened", "topic", sub.Topic())

	err = queue.Run(r.Context(), func(event contentgraph.Event) error {
		data, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("marshal event: %w", err)
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", sub.Topic(), data); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err != nil && r.Context().Err() == nil {
		slog.Error("Subscription stream failed", "topic", sub.Topic(), "error", err)
	}

	slog.Info("Subscription closed", "topic", sub.Topic(), "dropped", queue.Dropped())
}
