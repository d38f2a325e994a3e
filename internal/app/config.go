package app

import (
	"strings"
	"time"

	"github.com/veracomply/veracomply-backend/internal/logger"
	"github.com/veracomply/veracomply-backend/internal/utils"
)

type Config struct {
	ServiceName    string
	Environment    string
	JWTSecretKey   string
	AccessTokenTTL time.Duration
	AllowOrigins   []string
}

func LoadConfig(log *logger.Logger) Config {
	environment := utils.GetEnv("ENVIRONMENT", "development", log)
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "", log)
	if jwtSecretKey == "" {
		if environment != "development" {
			log.Fatal("JWT_SECRET_KEY must be set", "environment", environment)
		}
		log.Warn("JWT_SECRET_KEY unset; using development default")
		jwtSecretKey = "defaultsecret"
	}
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	origins := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log)

	cfg := Config{
		ServiceName:    utils.GetEnv("SERVICE_NAME", "veracomply-backend", log),
		Environment:    environment,
		JWTSecretKey:   jwtSecretKey,
		AccessTokenTTL: time.Duration(accessTokenTTLSeconds) * time.Second,
	}
	if origins != "" {
		cfg.AllowOrigins = strings.Split(origins, ",")
	}
	return cfg
}
