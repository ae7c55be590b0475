package api

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/MuhammetEnesDemirkol/real-estate-wp-gpt-bot/internal/models"
)

// emptyTwiMLResponse is returned when the reply went out-of-band.
const emptyTwiMLResponse = xml.Header + "<Response></Response>"

// twimlResponse is the transport's reply envelope: zero or one text message.
type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message,omitempty"`
}

// Pre-marshaled fallback responses to avoid runtime JSON encoding failures
var fallbackErrorResponse []byte

// init validates that our fallback responses can be marshaled
func init() {
	var err error
	fallbackErrorResponse, err = json.Marshal(models.Error("Internal server error"))
	if err != nil {
		panic(fmt.Sprintf("Failed to marshal fallback error response at startup: %v", err))
	}
}

// writeTwiML writes a TwiML envelope containing zero or one text reply.
// Envelope construction cannot fail for valid text: a marshal error degrades
// to the empty envelope rather than an HTTP error.
func writeTwiML(w http.ResponseWriter, reply string) {
	body := emptyTwiMLResponse
	if reply != "" {
		data, err := xml.Marshal(twimlResponse{Message: reply})
		if err != nil {
			slog.Error("Server.writeTwiML: failed to marshal TwiML response", "error", err)
		} else {
			body = xml.Header + string(data)
		}
	}
	w.Header().Set("Content-Type", "application/xml")
	if _, err := fmt.Fprint(w, body); err != nil {
		slog.Error("Server.writeTwiML: failed to write TwiML response", "error", err)
	}
}

// writeJSONResponse writes a JSON response to the http.ResponseWriter with the given status code.
func writeJSONResponse(w http.ResponseWriter, statusCode int, response interface{}) {
	// Marshal the response to JSON first to catch encoding errors before writing headers
	jsonData, err := json.Marshal(response)
	if err != nil {
		slog.Error("Server.writeJSONResponse: failed to marshal JSON response", "error", err)
		jsonData = fallbackErrorResponse
		statusCode = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, writeErr := w.Write(jsonData); writeErr != nil {
		slog.Error("Server.writeJSONResponse: failed to write JSON response", "error", writeErr)
	}
}
