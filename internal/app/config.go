package app

import (
	"strings"
	"time"

	"github.com/brandvault/brandvault-backend/internal/platform/logger"
	"github.com/brandvault/brandvault-backend/internal/utils"
)

type Config struct {
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	AllowedOrigins []string

	// "local" or "s3"
	StorageProvider string
	StorageRoot     string
	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string
	S3Bucket        string
	S3UseSSL        bool

	// Empty disables the cross-instance bus; broadcasts stay local.
	RedisAddr string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 604800, log)

	origins := strings.Split(utils.GetEnv("ALLOWED_ORIGINS", "http://localhost:3000", log), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return Config{
		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshTokenTTLSeconds) * time.Second,
		AllowedOrigins:  origins,
		StorageProvider: utils.GetEnv("STORAGE_PROVIDER", "local", log),
		StorageRoot:     utils.GetEnv("STORAGE_ROOT", "uploads", log),
		S3Endpoint:      utils.GetEnv("S3_ENDPOINT", "", log),
		S3AccessKey:     utils.GetEnv("S3_ACCESS_KEY", "", log),
		S3SecretKey:     utils.GetEnv("S3_SECRET_KEY", "", log),
		S3Bucket:        utils.GetEnv("S3_BUCKET", "brandvault-assets", log),
		S3UseSSL:        utils.GetEnv("S3_USE_SSL", "false", log) == "true",
		RedisAddr:       utils.GetEnv("REDIS_ADDR", "", log),
	}
}
