package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/beka-birhanu/vinom-nav/api"
	gameapi "github.com/beka-birhanu/vinom-nav/api/game"
	api_i "github.com/beka-birhanu/vinom-nav/api/i"
	"github.com/beka-birhanu/vinom-nav/api/identity"
	"github.com/beka-birhanu/vinom-nav/config"
	"github.com/beka-birhanu/vinom-nav/game"
	logger "github.com/beka-birhanu/vinom-nav/infrastruture/log"
	"github.com/beka-birhanu/vinom-nav/infrastruture/qstore"
	"github.com/beka-birhanu/vinom-nav/infrastruture/repo"
	"github.com/beka-birhanu/vinom-nav/infrastruture/sortedstorage"
	"github.com/beka-birhanu/vinom-nav/infrastruture/telemetry"
	"github.com/beka-birhanu/vinom-nav/infrastruture/token"
	"github.com/beka-birhanu/vinom-nav/metrics"
	"github.com/beka-birhanu/vinom-nav/service"
	"github.com/beka-birhanu/vinom-nav/service/i"
)

const (
	redisPrefix       = "vinom-nav"
	metricsCollection = "algorithm_metrics"
)

// Global variables for dependencies
var (
	mongoClient          *mongo.Client
	redisClient          *redis.Client
	qtables              *qstore.Store
	metricsStore         metrics.Store
	leaderboard          i.Leaderboard
	registry             *prometheus.Registry
	collector            *telemetry.Collector
	metricsManager       *metrics.Manager
	hyperparams          config.Hyperparams
	factory              *service.Factory
	runner               *service.Runner
	jwtTokenizer         i.Tokenizer
	navigationController api_i.Controller
	runsController       api_i.Controller
	router               *api.Router
	appLogger            *logger.Logger
	cleanups             []func()
)

func newLogger(prefix, color string) *logger.Logger {
	l, err := logger.New(prefix, color, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating %s logger: %v", prefix, err))
		os.Exit(1)
	}
	return l
}

func onExit(f func()) {
	cleanups = append(cleanups, f)
}

func cleanup() {
	for k := len(cleanups) - 1; k >= 0; k-- {
		cleanups[k]()
	}
	cleanups = nil
}

func initMongo(ctx context.Context) {
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%v", config.Envs.DBUser, config.Envs.DBPassword, config.Envs.DBHost, config.Envs.DBPort)

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	mongoClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Failed to connect to MongoDB: %v", err))
		os.Exit(1)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Error(fmt.Sprintf("MongoDB ping failed: %v", err))
		os.Exit(1)
	}
	onExit(func() { _ = mongoClient.Disconnect(context.Background()) })
	appLogger.Info("Connected to MongoDB")
}

func initRedis(ctx context.Context) {
	if config.Envs.RedisAddr == "" {
		appLogger.Info("Redis address not set, leaderboard and store locks disabled")
		return
	}

	redisClient = redis.NewClient(&redis.Options{
		Addr:     config.Envs.RedisAddr,
		Password: config.Envs.RedisPassword,
		DB:       config.Envs.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Error(fmt.Sprintf("Redis ping failed: %v", err))
		os.Exit(1)
	}
	onExit(func() { _ = redisClient.Close() })
	appLogger.Info("Connected to Redis")
}

func initMetricsStore(ctx context.Context) {
	switch config.Envs.MetricsBackend {
	case "file":
		metricsStore = repo.NewMetricsFile(config.Envs.MetricsFile)
	case "mongo":
		initMongo(ctx)
		metricsStore = repo.NewMetricsRepo(mongoClient, config.Envs.DBName, metricsCollection)
	default:
		appLogger.Error(fmt.Sprintf("Unknown metrics backend %q", config.Envs.MetricsBackend))
		os.Exit(1)
	}

	if redisClient != nil {
		metricsStore = sortedstorage.NewLockedStore(redisClient, redisPrefix, metricsStore)
	}
	appLogger.Info(fmt.Sprintf("Metrics store initialized (%s)", config.Envs.MetricsBackend))
}

func initLeaderboard() {
	if redisClient == nil {
		return
	}
	leaderboard = sortedstorage.NewRedisLeaderboard(redisClient, redisPrefix)
	appLogger.Info("Leaderboard initialized")
}

func initTelemetry() {
	registry = prometheus.NewRegistry()
	collector = telemetry.NewCollector(registry)
	appLogger.Info("Telemetry initialized")
}

func initMetricsManager(ctx context.Context) {
	var observers []metrics.Observer
	if collector != nil {
		observers = append(observers, collector)
	}

	metricsManager = metrics.NewManager(ctx, &metrics.Config{
		Store:     metricsStore,
		Logger:    newLogger("METRICS", config.ColorBlue),
		Observers: observers,
	})
	appLogger.Info("Metrics manager initialized")
}

func initHyperparams() {
	var err error
	hyperparams, err = config.LoadHyperparams(config.Envs.HyperparamsFile)
	if err != nil {
		appLogger.Warning(fmt.Sprintf("Using default hyperparameters: %v", err))
		return
	}
	appLogger.Info("Hyperparameters loaded")
}

func initQTables() {
	var err error
	qtables, err = qstore.Open(qstore.Config{
		Path:   config.Envs.BadgerDir,
		Logger: newLogger("QTABLES", config.ColorMagenta),
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Opening Q-table store: %v", err))
		os.Exit(1)
	}
	onExit(func() { _ = qtables.Close() })
	appLogger.Info("Q-table store initialized")
}

func initFactory(seed int64) {
	c := &service.FactoryConfig{
		Params: hyperparams.For,
		Logger: newLogger("AGENT", config.ColorPurple),
		Seed:   seed,
	}
	if qtables != nil {
		c.QTables = qtables
	}
	factory = service.NewFactory(c)
	appLogger.Info("Navigator factory initialized")
}

func initRunner(trainingEpisodes int) {
	var err error
	runner, err = service.NewRunner(&service.RunnerConfig{
		Recorder:         metricsManager,
		Logger:           newLogger("RUNNER", config.ColorCyan),
		TimeLimit:        time.Duration(config.Envs.RunTimeLimit) * time.Second,
		TrainingEpisodes: trainingEpisodes,
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating runner: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Runner initialized")
}

func initJWTTokenizer() {
	var err error
	jwtTokenizer, err = token.NewJwtService(config.Envs.JWTSecret, config.Envs.JWTIssuer)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating JWT tokenizer: %v", err))
		os.Exit(1)
	}
	appLogger.Info("JWT Tokenizer initialized")
}

func initControllers(trainingEpisodes int) {
	apiLogger := newLogger("API", config.ColorYellow)
	navigationController = gameapi.NewNavigationController(&gameapi.NavigationConfig{
		Factory:          factory,
		TrainingEpisodes: trainingEpisodes,
		CacheSize:        config.Envs.NavigatorCacheSize,
		Logger:           apiLogger,
	})
	runsController = gameapi.NewRunsController(metricsManager, leaderboard, apiLogger)
	appLogger.Info("Controllers initialized")
}

func initRouter(t i.Tokenizer) {
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{navigationController, runsController},
		AuthorizationMiddleware: identity.Authoriz(t),
		MetricsHandler:          telemetry.Handler(registry),
	})
	appLogger.Info("Router initialized")
}

// initStorage wires what every command that records runs needs.
func initStorage(ctx context.Context) {
	initRedis(ctx)
	initMetricsStore(ctx)
	initLeaderboard()
}

var _ game.Logger = (*logger.Logger)(nil)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	appLogger, _ = logger.New("APP", config.ColorGreen, os.Stdout)

	err := rootCmd.ExecuteContext(ctx)
	cleanup()
	if err != nil {
		appLogger.Error(err.Error())
		os.Exit(1)
	}
}
