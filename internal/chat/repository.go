package chat

import (
	"context"
	"errors"
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
	MessageConversationNotFound = "conversation not found"
	MessageMessageNotFound      = "message not found"
)

// ErrDirectConversationExists is returned by InsertConversation when another
// writer created the direct conversation for the same pair first.
var ErrDirectConversationExists = errors.New("direct conversation already exists")

type Repository interface {
	EnsureIndexes(ctx context.Context) error
	InsertConversation(ctx context.Context, conversation *Conversation) error
	FindConversationWithId(ctx context.Context, conversationId string) (*Conversation, error)
	FindDirectConversation(ctx context.Context, pairKey string) (*Conversation, error)
	FindConversationsOfParticipant(ctx context.Context, identityId string) ([]Conversation, error)
	UpdateLastMessage(ctx context.Context, conversationId, messageId string, sentAt time.Time) error
	InsertMessage(ctx context.Context, message *Message) error
	FindMessageWithId(ctx context.Context, messageId string) (*Message, error)
	FindMessages(ctx context.Context, conversationId string, page, limit int) ([]Message, int64, error)
	MarkRead(ctx context.Context, conversationId, readerId string, messageIds []string, readAt time.Time) error
	SoftDeleteMessage(ctx context.Context, messageId string, deletedAt time.Time) error
}

type repository struct {
	conversations *mongo.Collection
	messages      *mongo.Collection
}

func NewRepository(client *mongo.Client, mongodbConfig config.MongodbConfig) Repository {
	r := &repository{}
	if client != nil {
		database := client.Database(mongodbConfig.Database)
		r.conversations = database.Collection(mongodbConfig.Collections[config.MongodbConversationCollection])
		r.messages = database.Collection(mongodbConfig.Collections[config.MongodbMessageCollection])
	}

	return r
}

func (r *repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.conversations.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "pairKey", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("pair_key_unique").
				SetPartialFilterExpression(bson.M{"pairKey": bson.M{"$type": "string"}}),
		},
		{
			Keys:    bson.D{{Key: "participants", Value: 1}, {Key: "lastMessageAt", Value: -1}},
			Options: options.Index().SetName("participants_last_message"),
		},
	})
	if err != nil {
		return cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while creating conversation indexes",
			zap.Error(err),
		)
	}

	_, err = r.messages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "conversationId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("conversation_created_at"),
	})
	if err != nil {
		return cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while creating message indexes",
			zap.Error(err),
		)
	}

	return nil
}

func (r *repository) InsertConversation(ctx context.Context, conversation *Conversation) error {
	_, err := r.conversations.InsertOne(ctx, conversation)
	if mongo.IsDuplicateKeyError(err) && conversation.PairKey != "" {
		return ErrDirectConversationExists
	}
	if err != nil {
		return cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while insert conversation",
			zap.Error(err),
		)
	}

	return nil
}

func (r *repository) FindConversationWithId(ctx context.Context, conversationId string) (*Conversation, error) {
	return r.findConversation(ctx, bson.M{"_id": conversationId})
}

func (r *repository) FindDirectConversation(ctx context.Context, pairKey string) (*Conversation, error) {
	return r.findConversation(ctx, bson.M{"pairKey": pairKey})
}

func (r *repository) FindConversationsOfParticipant(
	ctx context.Context,
	identityId string,
) ([]Conversation, error) {
	cursor, err := r.conversations.Find(
		ctx,
		bson.M{"participants": identityId, "isActive": true},
		options.Find().SetSort(bson.D{{Key: "lastMessageAt", Value: -1}, {Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while find conversations",
			zap.Error(err),
		)
	}

	conversations := []Conversation{}
	if err = cursor.All(ctx, &conversations); err != nil {
		return nil, cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while decode conversations",
			zap.Error(err),
		)
	}

	return conversations, nil
}

func (r *repository) UpdateLastMessage(
	ctx context.Context,
	conversationId, messageId string,
	sentAt time.Time,
) error {
	result, err := r.conversations.UpdateByID(ctx, conversationId, bson.M{
		"$set": bson.M{
			"lastMessageId": messageId,
			"lastMessageAt": sentAt,
			"updatedAt":     sentAt,
		},
	})
	if err != nil {
		return cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while update conversation",
			zap.Error(err),
			zap.String("conversationId", conversationId),
		)
	}

	if result.MatchedCount == 0 {
		return cerror.NewError(
			fiber.StatusNotFound,
			MessageConversationNotFound,
			zap.String("conversationId", conversationId),
		).SetSeverity(zapcore.WarnLevel)
	}

	return nil
}

func (r *repository) InsertMessage(ctx context.Context, message *Message) error {
	_, err := r.messages.InsertOne(ctx, message)
	if err != nil {
		return cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while insert message",
			zap.Error(err),
		)
	}

	return nil
}

func (r *repository) FindMessageWithId(ctx context.Context, messageId string) (*Message, error) {
	var message Message
	err := r.messages.FindOne(ctx, bson.M{"_id": messageId, "deleted": false}).Decode(&message)
	if err == mongo.ErrNoDocuments {
		return nil, cerror.NewError(
			fiber.StatusNotFound,
			MessageMessageNotFound,
			zap.String("messageId", messageId),
		).SetSeverity(zapcore.WarnLevel)
	}
	if err != nil {
		return nil, cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while find message",
			zap.Error(err),
		)
	}

	return &message, nil
}

// FindMessages returns one page of a conversation's live messages, newest
// first, together with the total count of live messages.
func (r *repository) FindMessages(
	ctx context.Context,
	conversationId string,
	page, limit int,
) ([]Message, int64, error) {
	filter := bson.M{"conversationId": conversationId, "deleted": false}

	total, err := r.messages.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while count messages",
			zap.Error(err),
		)
	}

	cursor, err := r.messages.Find(
		ctx,
		filter,
		options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
			SetSkip(int64(page-1)*int64(limit)).
			SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, 0, cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while find messages",
			zap.Error(err),
		)
	}

	messages := []Message{}
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, 0, cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while decode messages",
			zap.Error(err),
		)
	}

	return messages, total, nil
}

// MarkRead appends a receipt for readerId to every listed message of the
// conversation that the reader neither sent nor already read.
func (r *repository) MarkRead(
	ctx context.Context,
	conversationId, readerId string,
	messageIds []string,
	readAt time.Time,
) error {
	_, err := r.messages.UpdateMany(
		ctx,
		bson.M{
			"_id":             bson.M{"$in": messageIds},
			"conversationId":  conversationId,
			"senderId":        bson.M{"$ne": readerId},
			"readBy.readerId": bson.M{"$ne": readerId},
		},
		bson.M{"$push": bson.M{"readBy": ReadReceipt{ReaderId: readerId, ReadAt: readAt}}},
	)
	if err != nil {
		return cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while mark messages read",
			zap.Error(err),
			zap.String("conversationId", conversationId),
		)
	}

	return nil
}

func (r *repository) SoftDeleteMessage(ctx context.Context, messageId string, deletedAt time.Time) error {
	result, err := r.messages.UpdateOne(
		ctx,
		bson.M{"_id": messageId, "deleted": false},
		bson.M{
			"$set":   bson.M{"deleted": true, "deletedAt": deletedAt},
			"$unset": bson.M{"attachment": ""},
		},
	)
	if err != nil {
		return cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while delete message",
			zap.Error(err),
			zap.String("messageId", messageId),
		)
	}

	if result.MatchedCount == 0 {
		return cerror.NewError(
			fiber.StatusNotFound,
			MessageMessageNotFound,
			zap.String("messageId", messageId),
		).SetSeverity(zapcore.WarnLevel)
	}

	return nil
}

func (r *repository) findConversation(ctx context.Context, filter bson.M) (*Conversation, error) {
	var conversation Conversation
	err := r.conversations.FindOne(ctx, filter).Decode(&conversation)
	if err == mongo.ErrNoDocuments {
		return nil, cerror.NewError(
			fiber.StatusNotFound,
			MessageConversationNotFound,
		).SetSeverity(zapcore.WarnLevel)
	}
	if err != nil {
		return nil, cerror.NewError(
			fiber.StatusInternalServerError,
			"error occurred while find conversation",
			zap.Error(err),
		)
	}

	return &conversation, nil
}
