package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hospital-device-risk/platform-api/internal/core/domain"
)

const manufacturersCollection = "manufacturers"

// ManufacturerRepository persists manufacturer principals in the
// manufacturers collection. Its username namespace is independent from the
// users collection; email uniqueness is enforced here only.
type ManufacturerRepository struct {
	coll *mongo.Collection
}

func NewManufacturerRepository(db *mongo.Database) *ManufacturerRepository {
	return &ManufacturerRepository{coll: db.Collection(manufacturersCollection)}
}

type manufacturerDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"hashed_password"`
	CompanyName  string             `bson:"company_name"`
	IsActive     bool               `bson:"is_active"`
	Role         string             `bson:"role"`
	CreatedAt    int64              `bson:"created_at"`
}

func (r *ManufacturerRepository) FindByUsername(ctx context.Context, username string) (*domain.Principal, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *ManufacturerRepository) FindByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *ManufacturerRepository) findOne(ctx context.Context, filter bson.M) (*domain.Principal, error) {
	var doc manufacturerDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("find manufacturer: %w", err)
	}
	return doc.toPrincipal(), nil
}

func (r *ManufacturerRepository) Insert(ctx context.Context, p *domain.Principal) (string, error) {
	doc := manufacturerDoc{
		Username:     p.Username,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		CompanyName:  p.CompanyName,
		IsActive:     p.IsActive,
		Role:         p.Role,
		CreatedAt:    p.CreatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", domain.ErrUsernameTaken
		}
		return "", fmt.Errorf("insert manufacturer: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert manufacturer: unexpected id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (r *ManufacturerRepository) SetActive(ctx context.Context, username string, active bool) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$set": bson.M{"is_active": active}},
	)
	if err != nil {
		return fmt.Errorf("update manufacturer status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPrincipalNotFound
	}
	return nil
}

func (d manufacturerDoc) toPrincipal() *domain.Principal {
	return &domain.Principal{
		ID:           d.ID.Hex(),
		Kind:         domain.KindManufacturer,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CompanyName:  d.CompanyName,
		IsActive:     d.IsActive,
		Role:         d.Role,
		CreatedAt:    unixToTime(d.CreatedAt),
	}
}
