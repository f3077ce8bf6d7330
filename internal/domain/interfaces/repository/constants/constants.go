package constants

const (
	GUIDED_SESSIONS_COLLECTION   = "guidedSessions"
	MODULES_COLLECTION           = "modules"
	GUIDES_COLLECTION            = "guides"
	CONVERSATIONS_COLLECTION     = "conversations"
	VOICE_NOTE_DETAIL_COLLECTION = "voiceNoteDetails"
)
