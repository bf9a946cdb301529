package main

import (
	"context"

	"github.com/phuslu/log"

	"github.com/caskdb/caskdb/cask"
	"github.com/caskdb/caskdb/internal/server"
	"github.com/caskdb/caskdb/internal/utils"
)

func main() {
	dir, maxLogSize, port := utils.HandleCLIInputs()

	logger := log.Logger{
		Level:  log.InfoLevel,
		Writer: &log.ConsoleWriter{ColorOutput: true},
	}

	db, err := cask.Open(*dir, cask.WithMaxLogSize(*maxLogSize))
	if err != nil {
		logger.Fatal().Err(err).Str("dir", *dir).Msg("failed to open database")
	}
	defer db.Close()

	handler := server.NewHandler(db, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := server.Start(ctx, *port, handler.HandleConn); err != nil {
			logger.Fatal().Err(err).Msg("server stopped abruptly")
		}
	}()

	logger.Info().Str("dir", *dir).Int("port", *port).Msg("caskdb started")

	utils.ListenForProcessInterruptOrKill()
}
