package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kr/pretty"
)

const redacted = "<redacted>"

type Config struct {
	ServerPort  string
	Environment string
	CorsOrigin  string
	BodyLimit   int
	Mongodb     MongodbConfig
	Jwt         JwtConfig
	Redis       RedisConfig
	RateLimit   RateLimitConfig
	RabbitMq    RabbitMqConfig
	Storage     StorageConfig
}

func ReadConfig() (*Config, error) {
	serverPort := os.Getenv(ServerPort)
	if serverPort == "" {
		serverPort = "8080"
		fmt.Println("server port environment variable is empty its declared 8080 by default")
	}

	environment := strings.ToLower(os.Getenv(AppEnv))
	if environment == "" {
		environment = EnvironmentDevelopment
	}

	corsOrigin := os.Getenv(CorsOrigin)
	if corsOrigin == "" {
		corsOrigin = "*"
	}

	bodyLimitMb, err := intFromEnv(BodyLimitMb, 10)
	if err != nil {
		return nil, err
	}

	mongodbConfig, err := ReadMongoDbConfig()
	if err != nil {
		return nil, err
	}

	jwtConfig, err := ReadJwtConfig()
	if err != nil {
		return nil, err
	}

	redisConfig, err := ReadRedisConfig()
	if err != nil {
		return nil, err
	}

	rateLimitConfig, err := ReadRateLimitConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:  serverPort,
		Environment: environment,
		CorsOrigin:  corsOrigin,
		BodyLimit:   bodyLimitMb * 1024 * 1024,
		Mongodb:     mongodbConfig,
		Jwt:         jwtConfig,
		Redis:       redisConfig,
		RateLimit:   rateLimitConfig,
		RabbitMq:    ReadRabbitMqConfig(),
		Storage:     ReadStorageConfig(serverPort),
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvironmentProduction
}

// Print writes the config with every secret replaced.
func (c *Config) Print() {
	printable := *c
	printable.Mongodb.Password = redacted
	printable.Jwt.AccessSecret = []byte(redacted)
	printable.Jwt.RefreshSecret = []byte(redacted)
	if printable.Redis.Password != "" {
		printable.Redis.Password = redacted
	}
	if printable.RabbitMq.Url != "" {
		printable.RabbitMq.Url = redacted
	}
	_, _ = pretty.Println(printable)
}

func ReadMongoDbConfig() (MongodbConfig, error) {
	mongodbUri := os.Getenv(MongodbUri)
	if mongodbUri == "" {
		return MongodbConfig{}, fmt.Errorf(EnvironmentVariableNotDefined, MongodbUri)
	}

	mongodbDatabase := os.Getenv(MongodbDatabase)
	if mongodbDatabase == "" {
		return MongodbConfig{}, fmt.Errorf(EnvironmentVariableNotDefined, MongodbDatabase)
	}

	return MongodbConfig{
		Uri:      mongodbUri,
		Username: os.Getenv(MongodbUsername),
		Password: os.Getenv(MongodbPassword),
		Database: mongodbDatabase,
		Collections: map[string]string{
			MongodbUserCollection:         stringFromEnv(MongodbUserCollection, "users"),
			MongodbConversationCollection: stringFromEnv(MongodbConversationCollection, "conversations"),
			MongodbMessageCollection:      stringFromEnv(MongodbMessageCollection, "messages"),
			MongodbNotificationCollection: stringFromEnv(MongodbNotificationCollection, "notifications"),
		},
	}, nil
}

func ReadJwtConfig() (JwtConfig, error) {
	accessSecret := os.Getenv(JwtAccessSecret)
	if accessSecret == "" {
		return JwtConfig{}, fmt.Errorf(EnvironmentVariableNotDefined, JwtAccessSecret)
	}

	refreshSecret := os.Getenv(JwtRefreshSecret)
	if refreshSecret == "" {
		return JwtConfig{}, fmt.Errorf(EnvironmentVariableNotDefined, JwtRefreshSecret)
	}

	if accessSecret == refreshSecret {
		return JwtConfig{}, fmt.Errorf("%s and %s must differ", JwtAccessSecret, JwtRefreshSecret)
	}

	accessTtl, err := durationFromEnv(JwtAccessExpire, 15*time.Minute)
	if err != nil {
		return JwtConfig{}, err
	}

	refreshTtl, err := durationFromEnv(JwtRefreshExpire, 7*24*time.Hour)
	if err != nil {
		return JwtConfig{}, err
	}

	return JwtConfig{
		AccessSecret:  []byte(accessSecret),
		RefreshSecret: []byte(refreshSecret),
		AccessTtl:     accessTtl,
		RefreshTtl:    refreshTtl,
	}, nil
}

func ReadRedisConfig() (RedisConfig, error) {
	db, err := intFromEnv(RedisDb, 0)
	if err != nil {
		return RedisConfig{}, err
	}

	cacheTtl, err := durationFromEnv(AuthCacheTtl, 30*time.Second)
	if err != nil {
		return RedisConfig{}, err
	}

	return RedisConfig{
		Addr:     os.Getenv(RedisAddr),
		Password: os.Getenv(RedisPassword),
		Db:       db,
		CacheTtl: cacheTtl,
	}, nil
}

func ReadRateLimitConfig() (RateLimitConfig, error) {
	max, err := intFromEnv(RateLimitMax, 20)
	if err != nil {
		return RateLimitConfig{}, err
	}

	window, err := durationFromEnv(RateLimitWindow, time.Minute)
	if err != nil {
		return RateLimitConfig{}, err
	}

	return RateLimitConfig{
		Max:    max,
		Window: window,
	}, nil
}

func ReadRabbitMqConfig() RabbitMqConfig {
	return RabbitMqConfig{
		Url:              os.Getenv(RabbitMqUrl),
		ChatMessageQueue: stringFromEnv(RabbitMqChatQueue, "chat.message.created"),
	}
}

func ReadStorageConfig(serverPort string) StorageConfig {
	return StorageConfig{
		UploadDirectory: stringFromEnv(UploadDirectory, "uploads"),
		PublicBaseUrl:   strings.TrimRight(stringFromEnv(PublicBaseUrl, "http://localhost:"+serverPort), "/"),
	}
}

// ParseDuration accepts everything time.ParseDuration does plus a day suffix
// ("7d"), which is how token lifetimes are usually written.
func ParseDuration(value string) (time.Duration, error) {
	if strings.HasSuffix(value, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(value, "d"))
		if err != nil {
			return 0, err
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}

	return time.ParseDuration(value)
}

func stringFromEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func intFromEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf(EnvironmentVariableMalformed, key, err)
	}
	return parsed, nil
}

func durationFromEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf(EnvironmentVariableMalformed, key, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf(EnvironmentVariableMalformed, key, fmt.Errorf("duration must be positive"))
	}
	return parsed, nil
}
