package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var loaded bool

// Config returns the value of the given env key, loading .env on first use.
func Config(key string) string {
	if !loaded {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("no .env file found, using environment variables")
		}
		loaded = true
	}
	return os.Getenv(key)
}

func IsProduction() bool {
	return Config("APP_ENV") == "production"
}
