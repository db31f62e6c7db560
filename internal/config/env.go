package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadEnv pulls a local .env when present; deployments rely on real
// environment variables.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file, using system environment")
	}
}

func GetEnv(key string, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func GetEnvInt(key string, defaultVal int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return n
}
