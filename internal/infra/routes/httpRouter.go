package routes

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"guided-session-agent/internal/infra/handlers"
)

type Routes struct {
	Mux                  *mux.Router
	ConversationHandlers *handlers.ConversationHandlers
	AgentHandlers        *handlers.AgentHandlers
}

func NewRoutes(mux *mux.Router, conversationHandlers *handlers.ConversationHandlers, agentHandlers *handlers.AgentHandlers) *Routes {
	return &Routes{mux, conversationHandlers, agentHandlers}
}

func (r *Routes) Init() {
	r.Mux.HandleFunc("/api/save-conversation", r.ConversationHandlers.SaveConversation)
	r.Mux.HandleFunc("/api/save-voice-note", r.ConversationHandlers.SaveVoiceNote)

	r.Mux.HandleFunc("/agent", r.AgentHandlers.AgentSession).Methods(http.MethodGet)

	r.Mux.HandleFunc("/healthCheck", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods(http.MethodGet)
}
