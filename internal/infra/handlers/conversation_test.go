package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guided-session-agent/internal/domain/dto"
	"guided-session-agent/internal/domain/entities"
	"guided-session-agent/internal/infra/logger"
)

type fakeConversationStore struct {
	conversations []entities.Conversation
	voiceNotes    []entities.VoiceNoteDetail
	err           error
}

func (f *fakeConversationStore) SaveConversation(ctx context.Context, conversation entities.Conversation) error {
	if f.err != nil {
		return f.err
	}
	f.conversations = append(f.conversations, conversation)
	return nil
}

func (f *fakeConversationStore) SaveVoiceNote(ctx context.Context, detail entities.VoiceNoteDetail) error {
	if f.err != nil {
		return f.err
	}
	f.voiceNotes = append(f.voiceNotes, detail)
	return nil
}

func testLogger() *logger.Logger {
	return logger.NewLogger(context.Background(), "fatal", false)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) dto.APIResponse {
	t.Helper()
	var resp dto.APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestSaveConversationSuccess(t *testing.T) {
	store := &fakeConversationStore{}
	handler := NewConversationHandlers(testLogger(), store)

	body := `{"roomName":"user1_mod1_guide1_sess1","messages":[{"role":"AI","content":"Q1"},{"role":"User","content":"fine"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/save-conversation", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.SaveConversation(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "success", resp.Status)

	require.Len(t, store.conversations, 1)
	saved := store.conversations[0]
	assert.Equal(t, "user1_mod1_guide1_sess1", saved.RoomName)
	require.Len(t, saved.Messages, 2)
	assert.Equal(t, "AI", saved.Messages[0].Role)
	assert.Equal(t, "fine", saved.Messages[1].Content)
}

func TestSaveConversationRejectsWrongMethod(t *testing.T) {
	handler := NewConversationHandlers(testLogger(), &fakeConversationStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/save-conversation", nil)
	rec := httptest.NewRecorder()

	handler.SaveConversation(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSaveConversationRejectsInvalidJSON(t *testing.T) {
	handler := NewConversationHandlers(testLogger(), &fakeConversationStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/save-conversation", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	handler.SaveConversation(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "error", resp.Status)
}

func TestSaveConversationRejectsMissingFields(t *testing.T) {
	store := &fakeConversationStore{}
	handler := NewConversationHandlers(testLogger(), store)

	cases := []string{
		`{"messages":[{"role":"AI","content":"Q1"}]}`,
		`{"roomName":"user1_mod1_guide1_sess1"}`,
		`{"roomName":"user1_mod1_guide1_sess1","messages":[]}`,
	}
	for _, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/save-conversation", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.SaveConversation(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}
	assert.Empty(t, store.conversations)
}

func TestSaveConversationStoreFailure(t *testing.T) {
	store := &fakeConversationStore{err: errors.New("write rejected")}
	handler := NewConversationHandlers(testLogger(), store)

	body := `{"roomName":"room1","messages":[{"role":"AI","content":"Q1"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/save-conversation", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.SaveConversation(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSaveVoiceNoteSuccess(t *testing.T) {
	store := &fakeConversationStore{}
	handler := NewConversationHandlers(testLogger(), store)

	body := `{"voiceNoteId":"note-1","transcript":"the full transcript"}`
	req := httptest.NewRequest(http.MethodPost, "/api/save-voice-note", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.SaveVoiceNote(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, store.voiceNotes, 1)
	assert.Equal(t, "note-1", store.voiceNotes[0].VoiceNoteID)
	assert.Equal(t, "the full transcript", store.voiceNotes[0].Transcript)
}

func TestSaveVoiceNoteGeneratesIDWhenMissing(t *testing.T) {
	store := &fakeConversationStore{}
	handler := NewConversationHandlers(testLogger(), store)

	body := `{"transcript":"the full transcript"}`
	req := httptest.NewRequest(http.MethodPost, "/api/save-voice-note", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.SaveVoiceNote(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, store.voiceNotes, 1)
	assert.NotEmpty(t, store.voiceNotes[0].VoiceNoteID)
}

func TestSaveVoiceNoteRejectsEmptyTranscript(t *testing.T) {
	handler := NewConversationHandlers(testLogger(), &fakeConversationStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/save-voice-note", strings.NewReader(`{"voiceNoteId":"note-1"}`))
	rec := httptest.NewRecorder()

	handler.SaveVoiceNote(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
