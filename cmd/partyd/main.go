package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/pixil98/go-party/cmd/partyd/command"
	"github.com/pixil98/go-service/service"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app, err := service.NewApp(&command.Config{}, command.BuildWorkers)
	if err != nil {
		slog.Error("creating application", "error", err)
		os.Exit(1)
	}

	err = app.Run(context.Background())
	if err != nil {
		slog.Error("running application", "error", err)
		os.Exit(1)
	}

	slog.Info("exiting")
}
