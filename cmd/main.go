package main

import (
	"log"
	"time"

	"doc-attest/internal/app"
	"doc-attest/internal/config"
	"doc-attest/internal/keymanager"
	"doc-attest/internal/ports/http"
	"doc-attest/internal/repository"
	"doc-attest/internal/repository/memory"
	"doc-attest/internal/repository/mongodb"
	"doc-attest/internal/wallet"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	logger, err := getLogger()
	if err != nil {
		log.Fatalln("setting up the logger failed: ", err)
		return
	}
	defer logger.Sync()

	logger.Info("application started")

	store := getStore(logger)

	keys := keymanager.NewKeyManager(logger)
	localWallet := wallet.NewLocal(logger, keys)

	a := app.NewApp(logger, store)
	ser := http.NewServer(logger, a, localWallet, config.GetPort())
	if err := ser.Run(); err != nil {
		logger.Error("failed to run the server: " + err.Error())
	}

	logger.Info("application finished")
}

func getStore(logger *zap.Logger) repository.DocumentStore {
	db, err := mongodb.NewConnection(logger, config.GetDbConnectionURI(), config.GetDatabaseName())
	if err != nil {
		logger.Warn("db connection failed, falling back to the in-memory store: " + err.Error())
		return memory.NewStore()
	}

	return db
}

func getLogger() (*zap.Logger, error) {
	options := []zap.Option{
		zap.AddCaller(),
		zap.AddStacktrace(zap.FatalLevel),
	}

	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	config.Development = true
	config.Level.SetLevel(zap.DebugLevel)

	logger, err := config.Build()
	return logger.WithOptions(options...), err
}
