package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"guided-session-agent/internal/agent"
	"guided-session-agent/internal/domain/dto"
	Iservices "guided-session-agent/internal/domain/interfaces/services"
	"guided-session-agent/internal/infra/channel"
	"guided-session-agent/internal/infra/logger"
	"guided-session-agent/internal/infra/services"
)

// AgentHandlers accepts one websocket connection per live room and runs
// a session driver over it. Setup failures (malformed room name,
// unknown module or guide) are rejected before the connection is
// upgraded, so no session record is ever created for them.
type AgentHandlers struct {
	Logger         *logger.Logger
	Resolver       Iservices.IResolverService
	SessionService Iservices.ISessionService
	SummaryService Iservices.ISummaryService
	Timing         agent.Timing

	upgrader websocket.Upgrader
}

func NewAgentHandlers(logger *logger.Logger, resolver Iservices.IResolverService, sessionService Iservices.ISessionService, summaryService Iservices.ISummaryService, timing agent.Timing) *AgentHandlers {
	return &AgentHandlers{
		Logger:         logger,
		Resolver:       resolver,
		SessionService: sessionService,
		SummaryService: summaryService,
		Timing:         timing,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
}

// AgentSession handles GET /agent?roomName=userId_moduleId_guideId_sessionId.
//
// The room name is the only carrier of session identity. The handler
// parses it, resolves the module and guide, creates the session record
// with status processing, upgrades the connection, and runs the driver
// until the question set is exhausted or the channel fails.
//
// HTTP Status Codes (pre-upgrade):
// - 400 Bad Request: The room name is missing or not a 4-tuple.
// - 404 Not Found: The module or guide id does not resolve.
func (ah *AgentHandlers) AgentSession(w http.ResponseWriter, r *http.Request) {
	roomName := r.URL.Query().Get("roomName")
	ah.Logger.Info(fmt.Sprintf("New session requested for room: %s", roomName))

	identity, err := agent.ParseRoomName(roomName)
	if err != nil {
		ah.Logger.Error(fmt.Sprintf("Invalid room name format: %s", roomName))
		writeJSON(w, http.StatusBadRequest, dto.APIResponse{Status: "error", Message: "Invalid room name format"})
		return
	}

	module, err := ah.Resolver.GetModule(r.Context(), identity.ModuleID)
	if err != nil {
		ah.rejectResolution(w, "module", identity.ModuleID, err)
		return
	}

	guide, err := ah.Resolver.GetGuide(r.Context(), identity.GuideID)
	if err != nil {
		ah.rejectResolution(w, "guide", identity.GuideID, err)
		return
	}

	conn, err := ah.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ah.Logger.Error(fmt.Sprintf("Failed to upgrade connection for room '%s': %v", roomName, err))
		return
	}

	session, err := ah.SessionService.Create(r.Context(), identity.UserID, identity.ModuleID, identity.GuideID, identity.SessionID)
	if err != nil {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "failed to create session"), closeDeadline())
		conn.Close()
		return
	}

	speechChannel := channel.NewWebSocketChannel(conn, guide.Voice, ah.Logger)
	driver := agent.NewDriver(ah.Logger, ah.SessionService, ah.SummaryService, ah.Timing)

	ah.Logger.Info(fmt.Sprintf("Starting guided session %s for user %s (module %s, guide %s)",
		session.SessionID, identity.UserID, module.Name, guide.Name))

	if err := driver.Run(r.Context(), session, module, guide, speechChannel); err != nil {
		ah.Logger.Error(fmt.Sprintf("Session %s ended with error: %v", session.SessionID, err))
		speechChannel.Close("error")
		return
	}

	ah.Logger.Info(fmt.Sprintf("Session %s completed", session.SessionID))
	speechChannel.Close("completed")
}

func closeDeadline() time.Time {
	return time.Now().Add(1 * time.Second)
}

func (ah *AgentHandlers) rejectResolution(w http.ResponseWriter, kind string, id string, err error) {
	if errors.Is(err, services.ErrReferenceNotFound) {
		ah.Logger.Error(fmt.Sprintf("Invalid %s ID (%s)", kind, id))
		writeJSON(w, http.StatusNotFound, dto.APIResponse{Status: "error", Message: fmt.Sprintf("Unknown %s ID", kind)})
		return
	}
	ah.Logger.Error(fmt.Sprintf("Failed to resolve %s '%s': %v", kind, id, err))
	writeJSON(w, http.StatusInternalServerError, dto.APIResponse{Status: "error", Message: "Failed to resolve session references"})
}
