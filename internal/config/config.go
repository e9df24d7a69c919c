package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL     string
	RedisURL        string
	MetricsPort     string
	OutputDir       string
	CacheDir        string
	UserAgent       string
	WorkerCount     int
	DownloadTimeout int // segundos
}

func Load() *Config {
	// Carrega .env da raiz do projeto
	_ = godotenv.Load("../../.env")
	// Se não encontrar, tenta no diretório atual
	_ = godotenv.Load()
	return &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		MetricsPort:     getEnv("METRICS_PORT", "9090"),
		OutputDir:       getEnv("OUTPUT_DIR", "output"),
		CacheDir:        getEnv("CACHE_DIR", "cache"),
		UserAgent:       getEnv("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"),
		WorkerCount:     getEnvInt("WORKER_COUNT", 5),
		DownloadTimeout: getEnvInt("DOWNLOAD_TIMEOUT", 60),
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getEnvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}
