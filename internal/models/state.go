package models

import "time"

// Phase is the dialogue's current step in the add/delete workflow.
type Phase string

const (
	// PhaseIdle means no dialogue is in progress for the sender.
	PhaseIdle Phase = "idle"
	// PhaseAwaitingListingDetails waits for the free-text listing description.
	PhaseAwaitingListingDetails Phase = "awaiting_listing_details"
	// PhaseAwaitingPhotoCount waits for the number of photos the sender will attach.
	PhaseAwaitingPhotoCount Phase = "awaiting_photo_count"
	// PhaseAwaitingPhotos waits for the photo attachments themselves.
	PhaseAwaitingPhotos Phase = "awaiting_photos"
	// PhaseAwaitingDeleteKeyword waits for a folder search keyword.
	PhaseAwaitingDeleteKeyword Phase = "awaiting_delete_keyword"
	// PhaseAwaitingDeleteFolderChoice waits for the sender to pick a folder id.
	PhaseAwaitingDeleteFolderChoice Phase = "awaiting_delete_folder_choice"
)

// PendingAction disambiguates phases that are reused across flows.
type PendingAction string

const (
	// ActionNone is the default pending action.
	ActionNone PendingAction = ""
	// ActionDelete marks the sender as being inside the delete flow.
	ActionDelete PendingAction = "delete"
)

// ListingDraft holds the structured, parsed-but-not-yet-persisted listing
// fields. Area and price stay free text until finalization coerces them.
type ListingDraft struct {
	Neighborhood string `json:"neighborhood"`
	Street       string `json:"street"`
	RoomCount    string `json:"room_count"`
	Description  string `json:"description"`
	Area         string `json:"area"`
	Price        string `json:"price"`
}

// ConversationState tracks one sender's progress through a dialogue. Exactly
// one phase is active per sender at any time; the state is discarded on
// completion, terminal invalid input, or unrecoverable processing error.
type ConversationState struct {
	Phase            Phase             `json:"phase"`
	PendingAction    PendingAction     `json:"pending_action,omitempty"`
	Draft            *ListingDraft     `json:"draft,omitempty"`
	ExpectedPhotos   int               `json:"expected_photos"`
	ReceivedPhotos   int               `json:"received_photos"`
	StagingDir       string            `json:"staging_dir,omitempty"`
	StagedPhotos     []string          `json:"staged_photos,omitempty"`
	CandidateFolders []CandidateFolder `json:"candidate_folders,omitempty"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// NewConversationState returns a fresh state in the idle phase.
func NewConversationState() *ConversationState {
	return &ConversationState{Phase: PhaseIdle, UpdatedAt: time.Now()}
}
