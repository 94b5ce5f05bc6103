package app

import (
	"time"

	"github.com/yungbote/moodjournal-backend/internal/pkg/logger"
	"github.com/yungbote/moodjournal-backend/internal/utils"
)

type Config struct {
	HTTPAddr     string
	LogMode      string
	JWTSecretKey string

	ClassifierURL     string
	ClassifierToken   string
	ClassifierTimeout time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	httpAddr := utils.GetEnv("HTTP_ADDR", ":8080", log)
	logMode := utils.GetEnv("LOG_MODE", "development", log)
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	classifierURL := utils.GetEnv(
		"SENTIMENT_API_URL",
		"https://api-inference.huggingface.co/models/distilbert-base-uncased-finetuned-sst-2-english",
		log,
	)
	classifierToken := utils.GetEnv("SENTIMENT_API_TOKEN", "", log)
	classifierTimeoutSeconds := utils.GetEnvAsInt("SENTIMENT_TIMEOUT_SECONDS", 10, log)
	return Config{
		HTTPAddr:          httpAddr,
		LogMode:           logMode,
		JWTSecretKey:      jwtSecretKey,
		ClassifierURL:     classifierURL,
		ClassifierToken:   classifierToken,
		ClassifierTimeout: time.Duration(classifierTimeoutSeconds) * time.Second,
	}
}
