package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DBDSN        string
	MediaDir     string
	LogFile      string
	JWTSecret    string
	AdminPhone   string
	OTPTTLMin    int
	TokenTTLHour int
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{
		Port:         getenv("PORT", "8080"),
		DBDSN:        getenv("DB_DSN", "milkcart.db"),
		MediaDir:     getenv("MEDIA_DIR", "./media"),
		LogFile:      getenv("LOG_FILE", "./milkcart.log"),
		JWTSecret:    getenv("JWT_SECRET", "dev-secret-change-me"),
		AdminPhone:   getenv("ADMIN_PHONE", "8148530305"),
		OTPTTLMin:    getint("OTP_TTL_MIN", 10),
		TokenTTLHour: getint("TOKEN_TTL_HOURS", 24),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s OTP_TTL_MIN=%d TOKEN_TTL_HOURS=%d",
		cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.OTPTTLMin, cfg.TokenTTLHour)
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("[config] ignoring bad %s=%q", key, v)
		return def
	}
	return n
}
