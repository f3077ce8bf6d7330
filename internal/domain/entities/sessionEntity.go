package entities

import "time"

const (
	SessionStatusProcessing = "processing"
	SessionStatusRecording  = "recording"
	SessionStatusCompleted  = "completed"
)

// Session is one guided conversation instance. UserID, GuideID and
// ModuleID never change after creation; the driver is the only writer.
type Session struct {
	SessionID string    `json:"sessionId" bson:"session_id"`
	UserID    string    `json:"userId" bson:"user_id"`
	GuideID   string    `json:"guideId" bson:"guide_id"`
	ModuleID  string    `json:"moduleId" bson:"module_id"`
	Status    string    `json:"status" bson:"status"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	Summary   string    `json:"summary,omitempty" bson:"summary,omitempty"`
	Title     string    `json:"title,omitempty" bson:"title,omitempty"`
}

// Turn is one question/answer exchange. QuestionIndex is "1", "2", ...
// for base questions and "1.1", "2.1", ... for follow-ups derived from
// them. Turns are written once and never mutated.
type Turn struct {
	QuestionIndex string    `json:"questionIndex" bson:"question_index"`
	Question      string    `json:"question" bson:"question"`
	Answer        string    `json:"answer" bson:"answer"`
	Timestamp     time.Time `json:"timestamp" bson:"timestamp"`
}

// Module is a named topic with an ordered question list. FollowUps maps
// a base-question ordinal ("1", "2", ...) to a follow-up prompt for that
// question; questions without an entry fall back to the default prompt.
type Module struct {
	ID          string            `json:"id" bson:"_id,omitempty"`
	Name        string            `json:"name" bson:"name"`
	Description string            `json:"description,omitempty" bson:"description,omitempty"`
	GuideID     string            `json:"guideId,omitempty" bson:"guide_id,omitempty"`
	Questions   []string          `json:"questions" bson:"questions"`
	FollowUps   map[string]string `json:"followUps,omitempty" bson:"follow_ups,omitempty"`
}

// Guide is a persona configuration applied to the speech channel.
type Guide struct {
	ID    string `json:"id" bson:"_id,omitempty"`
	Name  string `json:"name" bson:"name"`
	Voice string `json:"voice" bson:"voice"`
	Style string `json:"style,omitempty" bson:"style,omitempty"`
}
