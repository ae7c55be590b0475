package flow

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/MuhammetEnesDemirkol/real-estate-wp-gpt-bot/internal/models"
)

// Dialogue commands, recognized case-insensitively in any phase.
const (
	CommandAdd    = "/ekle"
	CommandDelete = "/sil"
)

// Reply texts. Replies returned from HandleMessage travel in the webhook
// response envelope; progress prompts during photo collection go out-of-band
// through the Messenger instead.
const (
	replyAskDetails     = "Please enter the listing details."
	replyAskKeyword     = "Please enter a keyword (e.g. neighborhood or room type) for the folder you want to delete."
	replyCouldNotParse  = "The listing details could not be parsed. Please describe the listing again in more detail."
	replyAskPhotoCount  = "How many photos will you add?"
	replyInvalidNumber  = "Please enter a valid number."
	replyListingSaved   = "Your listing has been saved!"
	replyProcessingFail = "An error occurred while processing the listing. Please try again."
	replyNoFolders      = "No folders matched that keyword. Please check and try again."
	replySearchFailed   = "An error occurred while searching folders. Please try again."
	replyIDMissing      = "Folder id not found. Please include it in the format:\n(id: xxxxxxxx)"
	replyInvalidCommand = "Invalid command. Use " + CommandAdd + " to add a listing or " + CommandDelete + " to delete one."
)

var folderIDPattern = regexp.MustCompile(`id: ([a-zA-Z0-9_-]+)`)

// Engine is the dialogue state machine. Given the sender's current state and
// a normalized inbound message it decides the next state, performs the side
// effects for that transition, and returns the reply to send. An empty reply
// means the webhook answers with an empty envelope because the sender was
// notified out-of-band.
type Engine struct {
	sessions  *SessionStore
	parser    Parser
	messenger Messenger
	media     MediaFetcher
	finalizer *Finalizer
	deleter   *Deleter

	stagingRoot string
}

// Config carries the engine's collaborators.
type Config struct {
	Sessions    *SessionStore
	Parser      Parser
	Messenger   Messenger
	Media       MediaFetcher
	Finalizer   *Finalizer
	Deleter     *Deleter
	StagingRoot string
}

// NewEngine creates a dialogue engine with the given collaborators.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		sessions:    cfg.Sessions,
		parser:      cfg.Parser,
		messenger:   cfg.Messenger,
		media:       cfg.Media,
		finalizer:   cfg.Finalizer,
		deleter:     cfg.Deleter,
		stagingRoot: cfg.StagingRoot,
	}
}

// HandleMessage processes one inbound delivery and returns the reply text.
// The sender's state is serialized: a second delivery for the same sender
// blocks until this one completes.
func (e *Engine) HandleMessage(ctx context.Context, msg models.InboundMessage) string {
	unlock := e.sessions.Acquire(msg.From)
	defer unlock()

	trimmed := strings.TrimSpace(msg.Body)
	command := strings.ToLower(trimmed)
	state := e.sessions.Get(msg.From)
	slog.Debug("Engine handling message", "from", msg.From, "phase", state.Phase, "media", len(msg.Media))

	// Commands are honored in any phase and clear prior progress.
	switch command {
	case CommandAdd:
		e.sessions.Put(msg.From, &models.ConversationState{Phase: models.PhaseAwaitingListingDetails})
		slog.Info("Engine started add flow", "from", msg.From)
		return replyAskDetails
	case CommandDelete:
		e.sessions.Put(msg.From, &models.ConversationState{
			Phase:         models.PhaseAwaitingDeleteKeyword,
			PendingAction: models.ActionDelete,
		})
		slog.Info("Engine started delete flow", "from", msg.From)
		return replyAskKeyword
	}

	switch {
	case state.Phase == models.PhaseAwaitingListingDetails:
		return e.handleListingDetails(ctx, msg.From, trimmed, state)
	case state.Phase == models.PhaseAwaitingPhotoCount:
		return e.handlePhotoCount(msg.From, trimmed, state)
	case state.Phase == models.PhaseAwaitingPhotos:
		return e.handlePhotos(ctx, msg, state)
	case state.Phase == models.PhaseAwaitingDeleteKeyword && state.PendingAction == models.ActionDelete:
		return e.handleDeleteKeyword(ctx, msg.From, trimmed, state)
	case state.Phase == models.PhaseAwaitingDeleteFolderChoice && state.PendingAction == models.ActionDelete:
		return e.handleDeleteFolderChoice(ctx, msg.From, trimmed)
	}

	return replyInvalidCommand
}

// handleListingDetails runs the external parser over the free-text details.
// Parse failures keep the sender in place with a corrective prompt.
func (e *Engine) handleListingDetails(ctx context.Context, from, text string, state *models.ConversationState) string {
	if text == "" {
		return replyCouldNotParse
	}

	fields, err := e.parser.Parse(ctx, text)
	if err != nil {
		slog.Error("Engine listing details parse error", "error", err, "from", from)
		return replyCouldNotParse
	}
	if len(fields) == 0 {
		slog.Debug("Engine listing details parse empty", "from", from)
		return replyCouldNotParse
	}

	state.Draft = draftFromFields(fields)
	state.Phase = models.PhaseAwaitingPhotoCount
	state.ExpectedPhotos = 0
	state.ReceivedPhotos = 0
	e.sessions.Put(from, state)
	slog.Info("Engine stored listing draft", "from", from)
	return replyAskPhotoCount
}

// handlePhotoCount stores the expected photo count. Anything that does not
// parse as a non-negative integer leaves phase and counters unchanged.
func (e *Engine) handlePhotoCount(from, text string, state *models.ConversationState) string {
	count, err := strconv.Atoi(text)
	if err != nil || count < 0 {
		slog.Debug("Engine invalid photo count", "from", from, "text", text)
		return replyInvalidNumber
	}

	state.ExpectedPhotos = count
	state.ReceivedPhotos = 0
	state.Phase = models.PhaseAwaitingPhotos
	e.sessions.Put(from, state)
	slog.Info("Engine photo count stored", "from", from, "expected", count)
	return fmt.Sprintf("Please select and send all %d photos in one message.", count)
}

// handlePhotos stages delivered attachments and triggers finalization exactly
// once, on the first delivery where the running count reaches the target.
func (e *Engine) handlePhotos(ctx context.Context, msg models.InboundMessage, state *models.ConversationState) string {
	from := msg.From
	if len(msg.Media) == 0 {
		e.notify(ctx, from, "Please send the photos.")
		return ""
	}

	if state.StagingDir == "" {
		dir, err := NewStagingDir(e.stagingRoot, from)
		if err != nil {
			slog.Error("Engine staging dir creation failed", "error", err, "from", from)
			e.sessions.Delete(from)
			return replyProcessingFail
		}
		state.StagingDir = dir
	}

	for i, item := range msg.Media {
		data, err := e.media.FetchMedia(ctx, item.URL)
		if err != nil {
			slog.Error("Engine media download failed", "error", err, "from", from, "index", i)
			continue
		}
		path := filepath.Join(state.StagingDir, stagePhotoName(len(state.StagedPhotos), item.ContentType))
		if err := os.WriteFile(path, data, 0644); err != nil {
			slog.Error("Engine staging write failed", "error", err, "from", from, "path", path)
			continue
		}
		state.StagedPhotos = append(state.StagedPhotos, path)
	}

	state.ReceivedPhotos += len(msg.Media)
	slog.Info("Engine photos received", "from", from, "received", state.ReceivedPhotos, "expected", state.ExpectedPhotos)

	if state.ReceivedPhotos < state.ExpectedPhotos {
		e.sessions.Put(from, state)
		e.notify(ctx, from, fmt.Sprintf("%d more photos are expected.", state.ExpectedPhotos-state.ReceivedPhotos))
		return ""
	}

	// Terminal step: one finalization per listing attempt. The state is
	// discarded either way; on failure the staging directory stays behind for
	// manual recovery.
	draft := state.Draft
	stagingDir := state.StagingDir
	e.sessions.Delete(from)
	if draft == nil {
		slog.Error("Engine reached finalization without a draft", "from", from)
		return replyProcessingFail
	}
	if err := e.finalizer.Finalize(ctx, from, *draft, stagingDir); err != nil {
		slog.Error("Engine finalization failed", "error", err, "from", from, "staging_dir", stagingDir)
		return replyProcessingFail
	}
	return replyListingSaved
}

// handleDeleteKeyword searches remote folders by keyword and presents the
// candidates. Zero matches and search failures both reset the sender to idle.
func (e *Engine) handleDeleteKeyword(ctx context.Context, from, keyword string, state *models.ConversationState) string {
	if keyword == "" {
		return replyAskKeyword
	}

	candidates, err := e.deleter.Search(ctx, keyword)
	if err != nil {
		slog.Error("Engine folder search failed", "error", err, "from", from, "keyword", keyword)
		e.sessions.Delete(from)
		return replySearchFailed
	}
	if len(candidates) == 0 {
		slog.Info("Engine folder search no match", "from", from, "keyword", keyword)
		e.sessions.Delete(from)
		return replyNoFolders
	}

	var lines []string
	for _, c := range candidates {
		lines = append(lines, fmt.Sprintf("- %s (id: %s)", c.DisplayPath, c.ID))
	}
	state.Phase = models.PhaseAwaitingDeleteFolderChoice
	state.CandidateFolders = candidates
	e.sessions.Put(from, state)
	slog.Info("Engine folder candidates listed", "from", from, "count", len(candidates))
	return fmt.Sprintf("Folders found:\n%s\n\nPlease reply with the full name and id of the folder you want to delete.", strings.Join(lines, "\n"))
}

// handleDeleteFolderChoice extracts the chosen folder id and runs the
// deletion orchestrator. Missing id tokens keep the sender in place.
func (e *Engine) handleDeleteFolderChoice(ctx context.Context, from, text string) string {
	match := folderIDPattern.FindStringSubmatch(text)
	if match == nil {
		slog.Debug("Engine delete choice missing id token", "from", from)
		return replyIDMissing
	}

	result := e.deleter.Delete(ctx, match[1], text)
	e.sessions.Delete(from)
	slog.Info("Engine delete finished", "from", from, "folder_id", match[1], "success", result.Success())
	return result.Message()
}

// notify sends an out-of-band message; delivery failures are logged, never
// surfaced to the webhook.
func (e *Engine) notify(ctx context.Context, to, body string) {
	if err := e.messenger.SendMessage(ctx, to, body); err != nil {
		slog.Error("Engine out-of-band send failed", "error", err, "to", to)
	}
}

// draftFromFields maps the parser's field mapping onto a listing draft.
func draftFromFields(fields map[string]string) *models.ListingDraft {
	return &models.ListingDraft{
		Neighborhood: fields["neighborhood"],
		Street:       fields["street"],
		RoomCount:    fields["room_count"],
		Description:  fields["description"],
		Area:         fields["area"],
		Price:        fields["price"],
	}
}
