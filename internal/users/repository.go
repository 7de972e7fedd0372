package users

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spilno/spilno-backend/pkg/logger"
)

// ErrEmailExists is returned when an account with the same email already exists.
var ErrEmailExists = errors.New("email already in use")

// UserRepository defines persistence operations for accounts. Lookup methods
// return (nil, nil) when no account matches.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUID(ctx context.Context, uid string) (*User, error)
	SetTokensValidAfter(ctx context.Context, uid string, t time.Time) error
}

// MongoUserRepository implements UserRepository using MongoDB
type MongoUserRepository struct {
	col *mongo.Collection
}

// NewMongoUserRepository creates a new repository for the given collection.
// Unique indexes on email and uid enforce one account per address.
func NewMongoUserRepository(col *mongo.Collection) *MongoUserRepository {
	_, err := col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "uid", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		logger.Warnf("create user unique indexes: %v", err)
	}
	return &MongoUserRepository{col: col}
}

func (r *MongoUserRepository) Create(ctx context.Context, u *User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	if _, err := r.col.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailExists
		}
		return err
	}
	return nil
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) GetByUID(ctx context.Context, uid string) (*User, error) {
	return r.findOne(ctx, bson.M{"uid": uid})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*User, error) {
	var u User
	if err := r.col.FindOne(ctx, filter).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *MongoUserRepository) SetTokensValidAfter(ctx context.Context, uid string, t time.Time) error {
	upd := bson.M{"$set": bson.M{"tokensValidAfter": t, "updatedAt": time.Now().UTC()}}
	_, err := r.col.UpdateOne(ctx, bson.M{"uid": uid}, upd)
	return err
}
