package mongo

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"alcyxob/fitclub/internal/domain"
	"alcyxob/fitclub/internal/repository"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB and pings the primary.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}
	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// NewStore wires every mongo repository against one database.
func NewStore(db *mongo.Database) *repository.Store {
	return &repository.Store{
		Users:          NewMongoUserRepository(db),
		Credentials:    NewMongoCredentialRepository(db),
		BodyAnalyses:   NewCurrentDocumentRepository[domain.BodyAnalysisRecord](db, domain.FeatureBodyAnalysis),
		WorkoutProgram: NewCurrentDocumentRepository[domain.WorkoutProgram](db, domain.FeatureWorkoutProgram),
		DietPlans:      NewCurrentDocumentRepository[domain.DietPlanRecord](db, domain.FeatureDietPlan),
		CoachPlans:     NewCurrentDocumentRepository[domain.CoachPlanRecord](db, domain.FeatureCoachPlan),
		Progress:       NewMongoProgressRepository(db),
	}
}

// EnsureIndexes creates the indexes of every collection. Failures are logged
// and do not stop the server.
func EnsureIndexes(ctx context.Context, db *mongo.Database, log zerolog.Logger) {
	ensure := map[string]func(context.Context, *mongo.Collection) error{
		userCollectionName:       EnsureUserIndexes,
		credentialCollectionName: EnsureCredentialIndexes,
		progressCollectionName:   EnsureProgressIndexes,
	}
	for name, fn := range ensure {
		if err := fn(ctx, db.Collection(name)); err != nil {
			log.Warn().Err(err).Str("collection", name).Msg("failed to create indexes")
			continue
		}
		log.Debug().Str("collection", name).Msg("indexes ensured")
	}
}
