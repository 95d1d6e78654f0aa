package notification

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

const MessageNotificationNotFound = "notification not found"

type Repository interface {
	EnsureIndexes(ctx context.Context) error
	InsertNotifications(ctx context.Context, documents []Document) error
	FindNotifications(ctx context.Context, recipientId string, unreadOnly bool, limit int) ([]Document, error)
	CountUnread(ctx context.Context, recipientId string) (int64, error)
	MarkRead(ctx context.Context, recipientId, notificationId string, readAt time.Time) error
	MarkAllRead(ctx context.Context, recipientId string, readAt time.Time) (int64, error)
	DeleteNotification(ctx context.Context, recipientId, notificationId string) error
}

type repository struct {
	collection *mongo.Collection
}

func NewRepository(client *mongo.Client, mongodbConfig config.MongodbConfig) Repository {
	var collection *mongo.Collection
	if client != nil {
		collection = client.
			Database(mongodbConfig.Database).
			Collection(mongodbConfig.Collections[config.MongodbNotificationCollection])
	}

	return &repository{
		collection: collection,
	}
}

func (r *repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "recipientId", Value: 1}, {Key: "isRead", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("recipient_read_created_at"),
	})
	if err != nil {
		return cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while creating notification indexes",
			zap.Error(err),
		)
	}

	return nil
}

func (r *repository) InsertNotifications(ctx context.Context, documents []Document) error {
	if len(documents) == 0 {
		return nil
	}

	items := make([]interface{}, len(documents))
	for i := range documents {
		items[i] = documents[i]
	}

	_, err := r.collection.InsertMany(ctx, items)
	if err != nil {
		return cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while insert notifications",
			zap.Error(err),
		)
	}

	return nil
}

func (r *repository) FindNotifications(
	ctx context.Context,
	recipientId string,
	unreadOnly bool,
	limit int,
) ([]Document, error) {
	filter := bson.M{"recipientId": recipientId}
	if unreadOnly {
		filter["isRead"] = false
	}

	cursor, err := r.collection.Find(
		ctx,
		filter,
		options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while find notifications",
			zap.Error(err),
		)
	}

	documents := []Document{}
	if err = cursor.All(ctx, &documents); err != nil {
		return nil, cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while decode notifications",
			zap.Error(err),
		)
	}

	return documents, nil
}

func (r *repository) CountUnread(ctx context.Context, recipientId string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"recipientId": recipientId, "isRead": false})
	if err != nil {
		return 0, cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while count notifications",
			zap.Error(err),
		)
	}

	return count, nil
}

// MarkRead only touches notifications of recipientId, so another identity's
// notification reads as not found.
func (r *repository) MarkRead(ctx context.Context, recipientId, notificationId string, readAt time.Time) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": notificationId, "recipientId": recipientId},
		bson.M{"$set": bson.M{"isRead": true, "readAt": readAt}},
	)
	if err != nil {
		return cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while update notification",
			zap.Error(err),
		)
	}

	if result.MatchedCount == 0 {
		return cerror.NewError(
			fiber.StatusNotFound,
			MessageNotificationNotFound,
			zap.String("notificationId", notificationId),
		).SetSeverity(zapcore.WarnLevel)
	}

	return nil
}

func (r *repository) MarkAllRead(ctx context.Context, recipientId string, readAt time.Time) (int64, error) {
	result, err := r.collection.UpdateMany(
		ctx,
		bson.M{"recipientId": recipientId, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true, "readAt": readAt}},
	)
	if err != nil {
		return 0, cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while update notifications",
			zap.Error(err),
		)
	}

	return result.ModifiedCount, nil
}

func (r *repository) DeleteNotification(ctx context.Context, recipientId, notificationId string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": notificationId, "recipientId": recipientId})
	if err != nil {
		return cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while delete notification",
			zap.Error(err),
		)
	}

	if result.DeletedCount == 0 {
		return cerror.NewError(
			fiber.StatusNotFound,
			MessageNotificationNotFound,
			zap.String("notificationId", notificationId),
		).SetSeverity(zapcore.WarnLevel)
	}

	return nil
}
