package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"guided-session-agent/internal/domain/dto"
	"guided-session-agent/internal/domain/entities"
	"guided-session-agent/internal/domain/interfaces/repository"
	"guided-session-agent/internal/infra/logger"
)

type ConversationHandlers struct {
	Logger *logger.Logger
	Store  repository.ConversationStore
}

func NewConversationHandlers(logger *logger.Logger, store repository.ConversationStore) *ConversationHandlers {
	return &ConversationHandlers{Logger: logger, Store: store}
}

// SaveConversation persists a conversation payload verbatim under its
// room name.
//
// Parameters:
// - w (http.ResponseWriter): The HTTP response writer used to send a response back to the client.
// - r (*http.Request): The HTTP request carrying a JSON body of the form {roomName, messages}.
//
// HTTP Status Codes:
// - 200 OK: The conversation was saved.
// - 400 Bad Request: The body is not valid JSON or roomName/messages are missing.
// - 405 Method Not Allowed: The request method is not POST.
// - 500 Internal Server Error: The store rejected the write.
func (ch *ConversationHandlers) SaveConversation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, dto.APIResponse{Status: "error", Message: "Invalid request method"})
		return
	}

	var body dto.SaveConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		ch.Logger.Error(fmt.Sprintf("Invalid JSON payload: %s", err.Error()))
		writeJSON(w, http.StatusBadRequest, dto.APIResponse{Status: "error", Message: "Invalid data"})
		return
	}
	defer r.Body.Close()

	if body.RoomName == "" || len(body.Messages) == 0 {
		writeJSON(w, http.StatusBadRequest, dto.APIResponse{Status: "error", Message: "Invalid data"})
		return
	}

	conversation := entities.Conversation{
		RoomName:  body.RoomName,
		Messages:  body.Messages,
		Timestamp: time.Now(),
	}

	if err := ch.Store.SaveConversation(r.Context(), conversation); err != nil {
		ch.Logger.Error(fmt.Sprintf("Failed to save conversation for room '%s': %v", body.RoomName, err))
		writeJSON(w, http.StatusInternalServerError, dto.APIResponse{Status: "error", Message: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, dto.APIResponse{Status: "success", Message: "Conversation saved successfully"})
}

// SaveVoiceNote persists a voice-note transcript. A missing voiceNoteId
// is generated server side so the write can still be addressed later.
//
// HTTP Status Codes mirror SaveConversation.
func (ch *ConversationHandlers) SaveVoiceNote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, dto.APIResponse{Status: "error", Message: "Invalid request method"})
		return
	}

	var body dto.SaveVoiceNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		ch.Logger.Error(fmt.Sprintf("Invalid JSON payload: %s", err.Error()))
		writeJSON(w, http.StatusBadRequest, dto.APIResponse{Status: "error", Message: "Invalid data"})
		return
	}
	defer r.Body.Close()

	if body.Transcript == "" {
		writeJSON(w, http.StatusBadRequest, dto.APIResponse{Status: "error", Message: "Invalid data"})
		return
	}
	if body.VoiceNoteID == "" {
		body.VoiceNoteID = uuid.NewString()
	}

	detail := entities.VoiceNoteDetail{
		VoiceNoteID: body.VoiceNoteID,
		Transcript:  body.Transcript,
		Timestamp:   time.Now(),
	}

	if err := ch.Store.SaveVoiceNote(r.Context(), detail); err != nil {
		ch.Logger.Error(fmt.Sprintf("Failed to save voice note '%s': %v", body.VoiceNoteID, err))
		writeJSON(w, http.StatusInternalServerError, dto.APIResponse{Status: "error", Message: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, dto.APIResponse{Status: "success", Message: "Voice note saved successfully"})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload dto.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}
