package config

import "os"

// Config holds the service configuration, read from the environment.
type Config struct {
	MongoURI  string
	MongoDB   string
	RedisAddr string
	Port      string
}

// Load reads configuration with local-dev defaults.
func Load() *Config {
	return &Config{
		MongoURI:  getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:   getEnv("MONGO_DB", "tswtrack"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		Port:      getEnv("PORT", "8080"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
