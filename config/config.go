package config

import (
	"log"

	"github.com/joho/godotenv"
)

// LoadEnv 读取 .env（存在则生效，缺失时静默走真实环境变量）
func LoadEnv() {
	if err := godotenv.Load(); err == nil {
		log.Println(".env loaded")
	}
}
