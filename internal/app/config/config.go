package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr        string
	CORSAllowOrigin string

	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBSSLRootCert string
}

func MustLoad() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	return Config{
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		CORSAllowOrigin: env("CORS_ALLOW_ORIGIN", "*"),

		DBHost:        env("DB_HOST", "127.0.0.1"),
		DBPort:        env("DB_PORT", "5432"),
		DBUser:        mustEnv("DB_USER"),
		DBPassword:    mustEnv("DB_PASSWORD"),
		DBName:        mustEnv("DB_NAME"),
		DBSSLMode:     env("DB_SSL_MODE", ""),
		DBSSLRootCert: env("DB_SSL_ROOT_CERT", ""),
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing env %s", k)
	}
	return v
}
