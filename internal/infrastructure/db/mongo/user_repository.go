package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hospital-device-risk/platform-api/internal/core/domain"
)

const usersCollection = "users"

// UserRepository persists user principals in the users collection.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email,omitempty"`
	PasswordHash string             `bson:"hashed_password"`
	IsActive     bool               `bson:"is_active"`
	Role         string             `bson:"role"`
	CreatedAt    int64              `bson:"created_at"`
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.Principal, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toPrincipal(), nil
}

func (r *UserRepository) Insert(ctx context.Context, p *domain.Principal) (string, error) {
	doc := userDoc{
		Username:     p.Username,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		IsActive:     p.IsActive,
		Role:         p.Role,
		CreatedAt:    p.CreatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", domain.ErrUsernameTaken
		}
		return "", fmt.Errorf("insert user: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert user: unexpected id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (r *UserRepository) SetActive(ctx context.Context, username string, active bool) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$set": bson.M{"is_active": active}},
	)
	if err != nil {
		return fmt.Errorf("update user status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPrincipalNotFound
	}
	return nil
}

func (d userDoc) toPrincipal() *domain.Principal {
	return &domain.Principal{
		ID:           d.ID.Hex(),
		Kind:         domain.KindUser,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		IsActive:     d.IsActive,
		Role:         d.Role,
		CreatedAt:    unixToTime(d.CreatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
