package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	HostIP          string // Host IP for the server
	RESTPort        int    // Port for the REST API
	GinMode         string // Mode for the Gin framework (e.g., release, debug, test)
	JWTSecret       string // Secret key for JWT signing
	JWTIssuer       string // Issuer claim for JWTs
	MetricsBackend  string // Aggregate store: file or mongo
	MetricsFile     string // Path of the aggregate file when MetricsBackend is file
	DBHost          string // Hostname or IP address for the database
	DBPort          int    // Port number for the database
	DBUser          string // Username for the database
	DBPassword      string // Password for the database
	DBName          string // Name of the database
	RedisAddr       string // Redis address for the leaderboard and locks, empty disables both
	RedisPassword   string // Password for Redis
	RedisDB         int    // Redis logical database
	BadgerDir       string // Directory of the Q-table snapshot store
	HyperparamsFile string // YAML file with learning hyperparameters
	RunTimeLimit    int    // Seconds a single navigation run may take

	NavigatorCacheSize int // Navigators the HTTP move route keeps ready
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig initializes and returns the application configuration.
// It loads environment variables from a .env file.
func initConfig() Config {
	// Load .env file if available
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	return Config{
		HostIP:          getEnvWithDefault("HOST_IP", "0.0.0.0"),
		RESTPort:        getEnvAsIntWithDefault("REST_PORT", 8080),
		GinMode:         getEnvWithDefault("GIN_MODE", "release"),
		JWTSecret:       getEnvWithDefault("JWT_SECRET", ""),
		JWTIssuer:       getEnvWithDefault("JWT_ISSUER", "vinom-nav"),
		MetricsBackend:  getEnvWithDefault("METRICS_BACKEND", "file"),
		MetricsFile:     getEnvWithDefault("METRICS_FILE", "algorithm_metrics.json"),
		DBHost:          getEnvWithDefault("DB_HOST", "localhost"),
		DBPort:          getEnvAsIntWithDefault("DB_PORT", 27017),
		DBUser:          getEnvWithDefault("DB_USER", ""),
		DBPassword:      getEnvWithDefault("DB_PASS", ""),
		DBName:          getEnvWithDefault("DB_NAME", "vinom_nav"),
		RedisAddr:       getEnvWithDefault("REDIS_ADDR", ""),
		RedisPassword:   getEnvWithDefault("REDIS_PASS", ""),
		RedisDB:         getEnvAsIntWithDefault("REDIS_DB", 0),
		BadgerDir:       getEnvWithDefault("BADGER_DIR", "qtables"),
		HyperparamsFile: getEnvWithDefault("HYPERPARAMS_FILE", "hyperparams.yaml"),
		RunTimeLimit:    getEnvAsIntWithDefault("RUN_TIME_LIMIT", 60),

		NavigatorCacheSize: getEnvAsIntWithDefault("NAVIGATOR_CACHE_SIZE", 32),
	}
}

// getEnvAsIntWithDefault retrieves an integer environment variable, falling back
// to defaultValue when it is unset and exiting when it cannot be parsed.
func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
