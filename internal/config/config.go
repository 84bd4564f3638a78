package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the process reads from the environment. It is
// loaded once in main and handed to the components that need it, so nothing
// outside this package calls os.Getenv.
type Config struct {
	Port string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	JWTSecret string

	StripeSecretKey    string
	CheckoutSuccessURL string
	CheckoutCancelURL  string

	RedisURL string

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSS3Bucket        string
	BaseURL            string
	UploadDir          string

	FirebaseCredentials string
}

// Load reads .env if present and builds the config from the environment.
func Load() *Config {
	// Missing .env is fine in deployed environments
	_ = godotenv.Load()

	return &Config{
		Port:                getEnv("PORT", "8080"),
		DBHost:              getEnv("DB_HOST", "localhost"),
		DBUser:              getEnv("DB_USER", "postgres"),
		DBPassword:          os.Getenv("DB_PASSWORD"),
		DBName:              getEnv("DB_NAME", "parceldrop"),
		DBPort:              getEnv("DB_PORT", "5432"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		CheckoutSuccessURL:  getEnv("CHECKOUT_SUCCESS_URL", "http://localhost:3000/payment/success"),
		CheckoutCancelURL:   getEnv("CHECKOUT_CANCEL_URL", "http://localhost:3000/payment/cancel"),
		RedisURL:            getEnv("REDIS_URL", "redis://redis:6379"),
		AWSRegion:           os.Getenv("AWS_REGION"),
		AWSAccessKeyID:      os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey:  os.Getenv("AWS_SECRET_ACCESS_KEY"),
		AWSS3Bucket:         os.Getenv("AWS_S3_BUCKET"),
		BaseURL:             getEnv("BASE_URL", "http://localhost:8080"),
		UploadDir:           getEnv("UPLOAD_DIR", "./uploads"),
		FirebaseCredentials: os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
