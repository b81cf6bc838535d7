package main

import (
	"log"

	"opentalk/cmd"
	"opentalk/internal/data/repository"
	"opentalk/internal/wire"
	"opentalk/pkg/cache"
	"opentalk/pkg/database"
	"opentalk/pkg/notifier"
	"opentalk/pkg/token"
	"opentalk/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	rdb, err := cache.InitRedis(config.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	logger.Info("Redis connected successfully")

	repos := repository.NewRepository(db, logger)
	maker := token.NewMaker(config.JWT)
	sink := notifier.NewTelegramSink(config.Telegram, logger)

	app := wire.Wiring(repos, db, rdb, maker, sink, config, logger)

	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
