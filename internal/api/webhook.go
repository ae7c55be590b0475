package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/MuhammetEnesDemirkol/real-estate-wp-gpt-bot/internal/models"
)

// webhookHandler receives inbound Twilio WhatsApp deliveries. It normalizes
// the form payload, runs the dialogue engine, and answers with a TwiML
// envelope. No fault may escape: a panic anywhere in handling degrades to a
// generic retry reply.
func (s *Server) webhookHandler(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("Server.webhookHandler: panic recovered", "panic", rec)
			writeTwiML(w, "An error occurred. Please try again.")
		}
	}()

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.Error("Server.webhookHandler: failed to parse webhook form", "error", err)
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	msg := parseInboundMessage(r)
	if msg.From == "" {
		slog.Warn("Server.webhookHandler: webhook missing sender")
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}
	slog.Info("Inbound WhatsApp message", "from", msg.From, "body_length", len(msg.Body), "media", len(msg.Media))

	reply := s.engine.HandleMessage(r.Context(), msg)
	writeTwiML(w, reply)
}

// parseInboundMessage normalizes the Twilio form payload: sender, text, and
// per-attachment URL and content type. Attachment indexes with an empty URL
// are skipped.
func parseInboundMessage(r *http.Request) models.InboundMessage {
	msg := models.InboundMessage{
		From: r.FormValue("From"),
		Body: r.FormValue("Body"),
	}

	numMedia, err := strconv.Atoi(r.FormValue("NumMedia"))
	if err != nil || numMedia < 0 {
		numMedia = 0
	}
	for i := 0; i < numMedia; i++ {
		url := r.FormValue(fmt.Sprintf("MediaUrl%d", i))
		if url == "" {
			continue
		}
		msg.Media = append(msg.Media, models.MediaItem{
			URL:         url,
			ContentType: r.FormValue(fmt.Sprintf("MediaContentType%d", i)),
		})
	}
	return msg
}
