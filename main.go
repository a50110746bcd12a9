package main

import (
	"context"
	"log"
	"os"

	"github.com/Rakhulsr/afronectar/app/cmd"
	"github.com/Rakhulsr/afronectar/app/configs"
	"github.com/Rakhulsr/afronectar/app/utils/logger"
	"go.uber.org/zap"
)

func main() {
	env := configs.LoadENV

	zapLog, err := logger.InitLogger(&logger.LogConfig{
		Level:       env.LogLevel,
		Environment: env.APP_ENV,
		ServiceName: env.ServiceName,
	})
	if err != nil {
		log.Fatal("failed to initialize logger: ", err)
	}
	defer func() { _ = zapLog.Sync() }()

	if len(os.Args) > 1 {
		cmd.RunCli(env, zapLog)
		return
	}

	if err := cmd.Serve(context.Background(), env, zapLog); err != nil {
		zapLog.Fatal("Server stopped", zap.Error(err))
	}
}
