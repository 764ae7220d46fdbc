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

const credentialCollectionName = "credentials"

type mongoCredentialRepository struct {
	collection *mongo.Collection
}

// NewMongoCredentialRepository stores identity-provider accounts.
func NewMongoCredentialRepository(db *mongo.Database) repository.CredentialRepository {
	return &mongoCredentialRepository{
		collection: db.Collection(credentialCollectionName),
	}
}

func (r *mongoCredentialRepository) Create(ctx context.Context, cred *domain.Credential) error {
	if cred.UID == "" || cred.Email == "" {
		return errors.New("credential requires uid and email")
	}
	now := time.Now().UTC()
	cred.CreatedAt = now
	cred.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, cred); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return err
	}
	return nil
}

func (r *mongoCredentialRepository) GetByUID(ctx context.Context, uid string) (*domain.Credential, error) {
	return r.findOne(ctx, bson.M{"_id": uid})
}

func (r *mongoCredentialRepository) GetByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoCredentialRepository) GetByResetTokenHash(ctx context.Context, hash string) (*domain.Credential, error) {
	if hash == "" {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"resetTokenHash": hash})
}

func (r *mongoCredentialRepository) findOne(ctx context.Context, filter bson.M) (*domain.Credential, error) {
	var cred domain.Credential
	if err := r.collection.FindOne(ctx, filter).Decode(&cred); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &cred, nil
}

// Update replaces the stored credential.
func (r *mongoCredentialRepository) Update(ctx context.Context, cred *domain.Credential) error {
	cred.UpdatedAt = time.Now().UTC()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": cred.UID}, cred)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func EnsureCredentialIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "resetTokenHash", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
