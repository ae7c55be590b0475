// Package models defines the core data structures for the listing bot.
//
// It includes the persisted listing record, inbound webhook messages, and the
// JSON envelopes returned by the HTTP API. Types here are shared across modules.
package models

import "time"

// Listing is a persisted real-estate listing record. It is created exactly
// once when a listing is finalized and deleted by title on user-confirmed
// deletion; it is never updated in place.
type Listing struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Price        *float64  `json:"price,omitempty"`
	Neighborhood string    `json:"neighborhood,omitempty"`
	Street       string    `json:"street,omitempty"`
	RoomCount    string    `json:"room_count,omitempty"`
	Area         *float64  `json:"area,omitempty"`
	DriveLink    string    `json:"drive_link,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// MediaItem describes one attachment delivered with an inbound message.
type MediaItem struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
}

// InboundMessage is a normalized inbound webhook delivery: sender id, text
// body, and the attached media descriptors.
type InboundMessage struct {
	From  string      `json:"from"`
	Body  string      `json:"body"`
	Media []MediaItem `json:"media,omitempty"`
}

// FolderInfo describes a remote storage folder as returned by search and
// metadata lookups.
type FolderInfo struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Parents []string `json:"parents,omitempty"`
}

// CandidateFolder pairs a resolved display path with a remote folder id. It is
// surfaced to the user during the delete flow for disambiguation.
type CandidateFolder struct {
	DisplayPath string `json:"display_path"`
	ID          string `json:"id"`
}

// APIStatus defines the status values used in API responses.
type APIStatus string

const (
	// APIStatusOK indicates a successful API operation.
	APIStatusOK APIStatus = "ok"
	// APIStatusError indicates a failed API operation.
	APIStatusError APIStatus = "error"
)

// APIResponse represents a standard API response with a status and optional data.
type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Result  interface{} `json:"result,omitempty"`
}

// Success creates a successful API response with optional result data.
func Success(result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Result: result}
}

// Error creates an error API response with a message.
func Error(message string) APIResponse {
	return APIResponse{Status: string(APIStatusError), Message: message}
}
