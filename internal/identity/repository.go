package identity

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"fleet-api/pkg/cerror"
	"fleet-api/pkg/config"
)

const (
	MessageIdentityNotFound = "user not found"
	MessageEmailTaken       = "user already exists with this email"
)

type Repository interface {
	EnsureIndexes(ctx context.Context) error
	InsertIdentity(ctx context.Context, document *Document) error
	ExistsWithEmail(ctx context.Context, email string) (bool, error)
	FindIdentityWithId(ctx context.Context, identityId string) (*Document, error)
	FindIdentityWithEmail(ctx context.Context, email string) (*Document, error)
	FindIdentitiesWithIds(ctx context.Context, identityIds []string) ([]Document, error)
	FindIdentityWithResetToken(ctx context.Context, tokenHash string, now time.Time) (*Document, error)
	SetRefreshToken(ctx context.Context, identityId, refreshToken string, lastLogin *time.Time) error
	UnsetRefreshToken(ctx context.Context, identityId string) error
	SetPasswordResetToken(ctx context.Context, identityId, tokenHash string, expiresAt time.Time) error
	UpdatePassword(ctx context.Context, identityId, hashedPassword string) error
	SetActive(ctx context.Context, identityId string, isActive bool) error
}

type repository struct {
	collection *mongo.Collection
}

func NewRepository(client *mongo.Client, mongodbConfig config.MongodbConfig) Repository {
	var collection *mongo.Collection
	if client != nil {
		collection = client.
			Database(mongodbConfig.Database).
			Collection(mongodbConfig.Collections[config.MongodbUserCollection])
	}

	return &repository{
		collection: collection,
	}
}

func (r *repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while creating user indexes",
			zap.Error(err),
		)
	}

	return nil
}

func (r *repository) InsertIdentity(ctx context.Context, document *Document) error {
	_, err := r.collection.InsertOne(ctx, document)
	if mongo.IsDuplicateKeyError(err) {
		return cerror.NewError(
			fiber.StatusBadRequest,
			MessageEmailTaken,
			zap.String("email", document.Email),
		).SetKind(cerror.KindConflict).SetSeverity(zapcore.WarnLevel)
	}
	if err != nil {
		return cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while insert user",
			zap.Error(err),
		)
	}

	return nil
}

func (r *repository) ExistsWithEmail(ctx context.Context, email string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while user existing check",
			zap.Error(err),
		)
	}

	return count > 0, nil
}

func (r *repository) FindIdentityWithId(ctx context.Context, identityId string) (*Document, error) {
	return r.findOne(ctx, bson.M{"_id": identityId})
}

func (r *repository) FindIdentityWithEmail(ctx context.Context, email string) (*Document, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *repository) FindIdentityWithResetToken(
	ctx context.Context,
	tokenHash string,
	now time.Time,
) (*Document, error) {
	return r.findOne(ctx, bson.M{
		"passwordResetToken":   tokenHash,
		"passwordResetExpires": bson.M{"$gt": now},
	})
}

func (r *repository) FindIdentitiesWithIds(ctx context.Context, identityIds []string) ([]Document, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": identityIds}})
	if err != nil {
		return nil, cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while find users",
			zap.Error(err),
		)
	}

	documents := []Document{}
	if err = cursor.All(ctx, &documents); err != nil {
		return nil, cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while decode users",
			zap.Error(err),
		)
	}

	return documents, nil
}

// SetRefreshToken overwrites the stored refresh token. The last writer wins.
func (r *repository) SetRefreshToken(
	ctx context.Context,
	identityId, refreshToken string,
	lastLogin *time.Time,
) error {
	set := bson.M{
		"refreshToken": refreshToken,
		"updatedAt":    time.Now().UTC(),
	}
	if lastLogin != nil {
		set["lastLogin"] = *lastLogin
	}

	return r.updateOne(ctx, identityId, bson.M{"$set": set})
}

func (r *repository) UnsetRefreshToken(ctx context.Context, identityId string) error {
	return r.updateOne(ctx, identityId, bson.M{
		"$unset": bson.M{"refreshToken": ""},
		"$set":   bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *repository) SetPasswordResetToken(
	ctx context.Context,
	identityId, tokenHash string,
	expiresAt time.Time,
) error {
	return r.updateOne(ctx, identityId, bson.M{
		"$set": bson.M{
			"passwordResetToken":   tokenHash,
			"passwordResetExpires": expiresAt,
			"updatedAt":            time.Now().UTC(),
		},
	})
}

// UpdatePassword stores a new hash and invalidates the reset token and the
// refresh token.
func (r *repository) UpdatePassword(ctx context.Context, identityId, hashedPassword string) error {
	return r.updateOne(ctx, identityId, bson.M{
		"$set": bson.M{
			"password":  hashedPassword,
			"updatedAt": time.Now().UTC(),
		},
		"$unset": bson.M{
			"passwordResetToken":   "",
			"passwordResetExpires": "",
			"refreshToken":         "",
		},
	})
}

func (r *repository) SetActive(ctx context.Context, identityId string, isActive bool) error {
	update := bson.M{
		"$set": bson.M{
			"isActive":  isActive,
			"updatedAt": time.Now().UTC(),
		},
	}
	if !isActive {
		update["$unset"] = bson.M{"refreshToken": ""}
	}

	return r.updateOne(ctx, identityId, update)
}

func (r *repository) findOne(ctx context.Context, filter bson.M) (*Document, error) {
	var document Document
	err := r.collection.FindOne(ctx, filter).Decode(&document)
	if err == mongo.ErrNoDocuments {
		return nil, cerror.NewError(
			fiber.StatusNotFound,
			MessageIdentityNotFound,
		).SetSeverity(zapcore.WarnLevel)
	}
	if err != nil {
		return nil, cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while find user",
			zap.Error(err),
		)
	}

	return &document, nil
}

func (r *repository) updateOne(ctx context.Context, identityId string, update bson.M) error {
	result, err := r.collection.UpdateByID(ctx, identityId, update)
	if err != nil {
		return cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while update user",
			zap.Error(err),
			zap.String("userId", identityId),
		)
	}

	if result.MatchedCount == 0 {
		return cerror.NewError(
			fiber.StatusNotFound,
			MessageIdentityNotFound,
			zap.String("userId", identityId),
		).SetSeverity(zapcore.WarnLevel)
	}

	return nil
}
