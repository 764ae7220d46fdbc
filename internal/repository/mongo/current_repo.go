package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"alcyxob/fitclub/internal/domain"
	"alcyxob/fitclub/internal/repository"
)

// currentDocument is the stored envelope. Its _id is "<userId>/current", so a
// user has at most one document per feature collection.
type currentDocument[T any] struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"userId"`
	Key       string    `bson:"key"`
	Payload   T         `bson:"payload"`
	WrittenAt time.Time `bson:"writtenAt"`
}

type currentDocumentRepository[T any] struct {
	collection *mongo.Collection
}

// NewCurrentDocumentRepository stores the current document of one feature in
// the collection named after it.
func NewCurrentDocumentRepository[T any](db *mongo.Database, feature domain.Feature) repository.CurrentDocumentRepository[T] {
	return &currentDocumentRepository[T]{
		collection: db.Collection(string(feature)),
	}
}

func currentID(userID string) string {
	return userID + "/" + domain.CurrentKey
}

// Put overwrites the current document unconditionally.
func (r *currentDocumentRepository[T]) Put(ctx context.Context, userID string, doc *T) error {
	if userID == "" || doc == nil {
		return errors.New("current document requires a user id and a payload")
	}
	env := currentDocument[T]{
		ID:        currentID(userID),
		UserID:    userID,
		Key:       domain.CurrentKey,
		Payload:   *doc,
		WrittenAt: time.Now().UTC(),
	}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": env.ID}, env, options.Replace().SetUpsert(true))
	return err
}

func (r *currentDocumentRepository[T]) Get(ctx context.Context, userID string) (*T, error) {
	var env currentDocument[T]
	err := r.collection.FindOne(ctx, bson.M{"_id": currentID(userID)}).Decode(&env)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &env.Payload, nil
}
