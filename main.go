package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"circle-backend/internal/database"
	"circle-backend/internal/files"
	"circle-backend/internal/handlers"
	"circle-backend/internal/keyValue"
	"circle-backend/internal/models"
	"circle-backend/internal/session"
	"circle-backend/internal/snowflake"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

func setupLogger(cfg *models.ConfigFile) (*zap.SugaredLogger, error) {
	config := zap.NewProductionConfig()

	config.OutputPaths = []string{"stdout"}
	if cfg.LogToFile {
		config.OutputPaths = append(config.OutputPaths, "app.log")
	}

	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	config.Level = level

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return logger.Sugar(), nil
}

func readConfigFile() (*models.ConfigFile, error) {
	var cfg models.ConfigFile

	configFile, err := os.Open("config.json")
	if err != nil {
		return nil, err
	}
	defer configFile.Close()

	bytes, err := io.ReadAll(configFile)
	if err != nil {
		return nil, err
	}

	err = json.Unmarshal(bytes, &cfg)
	if err != nil {
		return nil, err
	}

	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.FilesDir == "" {
		cfg.FilesDir = "files"
	}

	return &cfg, nil
}

func main() {
	fmt.Println("Reading config file...")
	cfg, err := readConfigFile()
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println("Setting up logger...")
	sugar, err := setupLogger(cfg)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer sugar.Sync()

	if err := os.MkdirAll(cfg.DataDir, os.ModePerm); err != nil {
		sugar.Fatal(err)
	}

	db, err := database.Setup(cfg)
	if err != nil {
		sugar.Fatal(err)
	}

	var redisClient *redis.Client
	if !cfg.SelfContained {
		fmt.Println("Connecting to redis...")
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
	}

	keyValue.Setup(sugar, redisClient, cfg.SelfContained)

	err = snowflake.Setup(cfg.SnowflakeWorkerID)
	if err != nil {
		sugar.Fatal(err)
	}

	storage, err := files.NewStorage(cfg.FilesDir)
	if err != nil {
		sugar.Fatal(err)
	}

	sessions := session.NewStore()

	router := handlers.Setup(cfg, sugar, db, sessions, storage)

	fmt.Printf("Server is running on %s:%s\n", cfg.Address, cfg.Port)

	err = handlers.Serve(router)
	if err != nil {
		sugar.Fatal(err)
	}
}
