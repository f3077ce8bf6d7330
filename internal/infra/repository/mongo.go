package repository

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"guided-session-agent/internal/domain/entities"
	"guided-session-agent/internal/domain/interfaces/repository/constants"
)

// MongoStore persists sessions, conversations and voice notes. Session
// documents are addressed by (user_id, session_id) and every session
// write is a $set merge, so writing one turn never clobbers sibling
// turns or the top-level session fields.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

// CreateSession establishes the initial session document. A missing
// SessionID is generated as a millisecond epoch timestamp string, the
// same form the clients produce.
func (r *MongoStore) CreateSession(ctx context.Context, session entities.Session) (entities.Session, error) {
	if session.SessionID == "" {
		session.SessionID = newSessionID()
	}

	collection := r.db.Collection(constants.GUIDED_SESSIONS_COLLECTION)
	filter := sessionFilter(session.UserID, session.SessionID)
	_, err := collection.ReplaceOne(ctx, filter, session, options.Replace().SetUpsert(true))
	return session, err
}

// AppendTurn merge-writes one conversation entry under the session
// document. Replaying the same turn at the same index sets the same
// value again, so the write is idempotent.
func (r *MongoStore) AppendTurn(ctx context.Context, userID string, sessionID string, turn entities.Turn) error {
	collection := r.db.Collection(constants.GUIDED_SESSIONS_COLLECTION)
	update := bson.M{"$set": turnUpdate(turn)}
	_, err := collection.UpdateOne(ctx, sessionFilter(userID, sessionID), update, options.Update().SetUpsert(true))
	return err
}

// UpdateSessionStatus partially updates top-level session fields.
func (r *MongoStore) UpdateSessionStatus(ctx context.Context, userID string, sessionID string, status string, extra map[string]interface{}) error {
	collection := r.db.Collection(constants.GUIDED_SESSIONS_COLLECTION)
	set := bson.M{"status": status}
	for key, value := range extra {
		set[key] = value
	}
	_, err := collection.UpdateOne(ctx, sessionFilter(userID, sessionID), bson.M{"$set": set}, options.Update().SetUpsert(true))
	return err
}

func (r *MongoStore) FindModule(ctx context.Context, id string) (entities.Module, error) {
	var module entities.Module
	collection := r.db.Collection(constants.MODULES_COLLECTION)
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&module)
	return module, err
}

func (r *MongoStore) FindGuide(ctx context.Context, id string) (entities.Guide, error) {
	var guide entities.Guide
	collection := r.db.Collection(constants.GUIDES_COLLECTION)
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&guide)
	return guide, err
}

// SaveConversation stores the payload verbatim under the room name,
// replacing any previous document for the same room.
func (r *MongoStore) SaveConversation(ctx context.Context, conversation entities.Conversation) error {
	collection := r.db.Collection(constants.CONVERSATIONS_COLLECTION)
	filter := bson.M{"room_name": conversation.RoomName}
	_, err := collection.ReplaceOne(ctx, filter, conversation, options.Replace().SetUpsert(true))
	return err
}

func (r *MongoStore) SaveVoiceNote(ctx context.Context, detail entities.VoiceNoteDetail) error {
	collection := r.db.Collection(constants.VOICE_NOTE_DETAIL_COLLECTION)
	filter := bson.M{"voice_note_id": detail.VoiceNoteID}
	_, err := collection.ReplaceOne(ctx, filter, detail, options.Replace().SetUpsert(true))
	return err
}

func sessionFilter(userID string, sessionID string) bson.M {
	return bson.M{"user_id": userID, "session_id": sessionID}
}

// turnUpdate builds the $set document for one turn. The turn lands at
// its own field path, so the write merges next to sibling turns and the
// top-level session fields instead of replacing them.
func turnUpdate(turn entities.Turn) bson.M {
	return bson.M{"conversation." + turnKey(turn.QuestionIndex): turn}
}

// turnKey maps a question index to a document field key. Mongo field
// paths treat "." as a separator, so the follow-up index "1.1" becomes
// "q1_1" while base indices stay "q1", "q2", ...
func turnKey(questionIndex string) string {
	return "q" + strings.ReplaceAll(questionIndex, ".", "_")
}

func newSessionID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}
