package dto

import "guided-session-agent/internal/domain/entities"

type SaveConversationRequest struct {
	RoomName string                         `json:"roomName"`
	Messages []entities.ConversationMessage `json:"messages"`
}

type SaveVoiceNoteRequest struct {
	VoiceNoteID string `json:"voiceNoteId"`
	Transcript  string `json:"transcript"`
}

type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
