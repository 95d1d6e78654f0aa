package config

import "time"

// #nosec
const (
	EnvironmentVariableNotDefined = "%s variable is not defined"
	EnvironmentVariableMalformed  = "%s variable is malformed: %w"

	IsAtRemote  = "IS_AT_REMOTE"
	ServerPort  = "SERVER_PORT"
	AppEnv      = "APP_ENV"
	CorsOrigin  = "CORS_ORIGIN"
	BodyLimitMb = "BODY_LIMIT_MB"

	MongodbUri                    = "MONGODB_URI"
	MongodbUsername               = "MONGODB_USERNAME"
	MongodbPassword               = "MONGODB_PASSWORD"
	MongodbDatabase               = "MONGODB_DATABASE"
	MongodbUserCollection         = "MONGODB_USER_COLLECTION"
	MongodbConversationCollection = "MONGODB_CONVERSATION_COLLECTION"
	MongodbMessageCollection      = "MONGODB_MESSAGE_COLLECTION"
	MongodbNotificationCollection = "MONGODB_NOTIFICATION_COLLECTION"

	JwtAccessSecret  = "JWT_SECRET"
	JwtRefreshSecret = "JWT_REFRESH_SECRET"
	JwtAccessExpire  = "JWT_EXPIRE"
	JwtRefreshExpire = "JWT_REFRESH_EXPIRE"

	RedisAddr         = "REDIS_ADDR"
	RedisPassword     = "REDIS_PASSWORD"
	RedisDb           = "REDIS_DB"
	AuthCacheTtl      = "AUTH_CACHE_TTL"
	RateLimitMax      = "RATE_LIMIT_MAX"
	RateLimitWindow   = "RATE_LIMIT_WINDOW"
	RabbitMqUrl       = "RABBITMQ_URL"
	RabbitMqChatQueue = "RABBITMQ_MESSAGE_QUEUE"

	UploadDirectory = "UPLOAD_DIR"
	PublicBaseUrl   = "PUBLIC_BASE_URL"
)

const (
	EnvironmentProduction  = "production"
	EnvironmentDevelopment = "development"
)

type MongodbConfig struct {
	Uri         string
	Username    string
	Password    string
	Database    string
	Collections map[string]string
}

type JwtConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTtl     time.Duration
	RefreshTtl    time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	Db       int
	CacheTtl time.Duration
}

// Enabled reports whether a redis address was configured at all.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

type RabbitMqConfig struct {
	Url              string
	ChatMessageQueue string
}

func (c RabbitMqConfig) Enabled() bool {
	return c.Url != ""
}

type StorageConfig struct {
	UploadDirectory string
	PublicBaseUrl   string
}
