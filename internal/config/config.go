package config

import (
	"os"
	"path/filepath"
)

// Config 应用配置
type Config struct {
	Env       string
	AppSecret string
	Port      string
	SiteName  string
	SiteUrl   string

	// 数据集
	DatasetURL  string
	DownloadDir string
	ExtractDir  string

	// Ollama
	OllamaHost  string
	OllamaModel string
}

// Load 加载配置
func Load() *Config {
	downloadDir := getEnv("DOWNLOAD_DIR", "downloads")

	return &Config{
		Env:       getEnv("APP_ENV", "development"),
		AppSecret: getEnv("APP_SECRET", "your-secret-key-change-in-production"),
		Port:      getEnv("PORT", "5007"),
		SiteName:  getEnv("SITE_NAME", "MovieDash"),
		SiteUrl:   getEnv("SITE_URL", "http://localhost:5007"),

		DatasetURL:  getEnv("DATASET_URL", "http://www.cs.cmu.edu/~ark/personas/data/MovieSummaries.tar.gz"),
		DownloadDir: downloadDir,
		// 解压目录由压缩包内部结构决定
		ExtractDir: getEnv("EXTRACT_DIR", filepath.Join(downloadDir, "MovieSummaries")),

		OllamaHost:  getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel: getEnv("OLLAMA_MODEL", "deepseek-r1:1.5b"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
