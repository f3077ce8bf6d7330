package entities

import "time"

type Conversation struct {
	RoomName  string                `json:"roomName" bson:"room_name"`
	Messages  []ConversationMessage `json:"messages" bson:"messages"`
	Timestamp time.Time             `json:"timestamp" bson:"timestamp"`
}

type ConversationMessage struct {
	Role    string `json:"role" bson:"role"`
	Content string `json:"content" bson:"content"`
}

type VoiceNoteDetail struct {
	VoiceNoteID string    `json:"voiceNoteId" bson:"voice_note_id"`
	Transcript  string    `json:"transcript" bson:"transcript"`
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
}
