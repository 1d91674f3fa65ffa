package config

import (
	"os"
	"strconv"
)

type Config struct {
	Server   ServerConfig
	Content  ContentConfig
	Store    StoreConfig
	RabbitMQ RabbitMQConfig
	Progress ProgressConfig
}

type ServerConfig struct {
	Port string
	Host string
}

type ContentConfig struct {
	// Dir is the content root holding courses/ and instructors/.
	Dir string
}

type StoreConfig struct {
	// Backend selects the KV store: memory, redis or mongo.
	Backend string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MongoURI      string
	MongoDatabase string
}

type RabbitMQConfig struct {
	URI      string
	Exchange string
}

type ProgressConfig struct {
	// MinSectionSeconds a section must have been active before the
	// auto-completion heuristic may mark it read.
	MinSectionSeconds int
	// ScrollCompletePercent is the scroll depth threshold of the same
	// heuristic.
	ScrollCompletePercent int
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "0.0.0.0"),
		},
		Content: ContentConfig{
			Dir: getEnv("CONTENT_DIR", "content"),
		},
		Store: StoreConfig{
			Backend:       getEnv("STORE_BACKEND", "memory"),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PWD", ""),
			RedisDB:       getEnvAsInt("REDIS_DB", 0),
			MongoURI:      getEnv("MONGO_URI", ""),
			MongoDatabase: getEnv("MONGO_DATABASE", "course_service"),
		},
		RabbitMQ: RabbitMQConfig{
			URI:      getEnv("RABBITMQ_URI", ""),
			Exchange: getEnv("RABBITMQ_EXCHANGE", ""),
		},
		Progress: ProgressConfig{
			MinSectionSeconds:     getEnvAsInt("MIN_SECTION_SECONDS", 30),
			ScrollCompletePercent: getEnvAsInt("SCROLL_COMPLETE_PERCENT", 90),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
