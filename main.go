package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"tetrisengine/client"
	"tetrisengine/config"

	"golang.org/x/term"
)

const (
	hideCursor = "\033[2J\033[?25l" // also clear screen
	showCursor = "\033[23;0H\n\r\033[?25h"
)

func main() {
	cfg := config.Load()
	flag.StringVar(&cfg.Address, "address", cfg.Address, "address of the tetris server for online games")
	flag.StringVar(&cfg.Name, "name", cfg.Name, "player name")
	flag.BoolVar(&cfg.NoGhost, "noghost", cfg.NoGhost, "hide the ghost piece")
	flag.StringVar(&cfg.Kicks, "kicks", cfg.Kicks, "wall kick table: simple or srs")
	flag.StringVar(&cfg.LogFile, "log", cfg.LogFile, "log file")
	flag.StringVar(&cfg.LogLevel, "loglevel", cfg.LogLevel, "log level: debug, info, warn or error")
	flag.Parse()

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		log.Fatal("tetris needs an interactive terminal")
	}
	level, err := cfg.Level()
	if err != nil {
		log.Fatal(err)
	}
	session, err := cfg.SessionOptions()
	if err != nil {
		log.Fatal(err)
	}

	// stdout is the game screen, logs go to a file.
	f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Fatalf("unable to open log file: %v", err)
	}
	defer f.Close()
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))

	c, err := client.New(logger, &client.Options{
		NoGhost: cfg.NoGhost,
		Address: cfg.Address,
		Name:    cfg.Name,
		Session: session,
	})
	if err != nil {
		logger.Error("unable to start client", slog.String("error", err.Error()))
		log.Fatal(err)
	}
	defer c.Close()

	fmt.Print(hideCursor)
	defer fmt.Print(showCursor)
	c.Start()
}
