package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	RUN_ADDRESS   string
	BACKEND_URL   string
	DATABASE_URL  string
	STORAGE_PATH  string
	KAFKA_ADDRESS string
	LOG_LEVEL     string
}

const (
	defaultRunAddress  = ":8080"
	defaultStoragePath = "storefront.db"
)

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		RUN_ADDRESS:   os.Getenv("RUN_ADDRESS"),
		BACKEND_URL:   os.Getenv("BACKEND_URL"),
		DATABASE_URL:  os.Getenv("DATABASE_URL"),
		STORAGE_PATH:  os.Getenv("STORAGE_PATH"),
		KAFKA_ADDRESS: os.Getenv("KAFKA_ADDRESS"),
		LOG_LEVEL:     os.Getenv("LOG_LEVEL"),
	}

	if config.RUN_ADDRESS == "" {
		config.RUN_ADDRESS = defaultRunAddress
	}
	if config.STORAGE_PATH == "" {
		config.STORAGE_PATH = defaultStoragePath
	}
	if config.BACKEND_URL == "" {
		return nil, fmt.Errorf("BACKEND_URL must be provided")
	}

	return config, nil
}
