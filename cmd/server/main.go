package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"tetrisengine/config"
	"tetrisengine/pb"
	"tetrisengine/server"

	"google.golang.org/grpc"
)

func main() {
	cfg := config.Load()
	flag.StringVar(&cfg.Listen, "listen", cfg.Listen, "address to listen on")
	flag.StringVar(&cfg.Kicks, "kicks", cfg.Kicks, "wall kick table: simple or srs")
	flag.StringVar(&cfg.LogLevel, "loglevel", cfg.LogLevel, "log level: debug, info, warn or error")
	flag.Parse()

	level, err := cfg.Level()
	if err != nil {
		log.Fatal(err)
	}
	session, err := cfg.SessionOptions()
	if err != nil {
		log.Fatal(err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	lis, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}
	defer lis.Close()

	srv := server.New(&server.Options{Logger: logger, Session: session})
	s := grpc.NewServer()
	pb.RegisterTetrisServiceServer(s, srv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		// ending the games closes their Watch streams.
		srv.Close()
		s.GracefulStop()
	}()

	logger.Info("starting server", slog.String("addr", lis.Addr().String()), slog.String("kicks", cfg.Kicks))
	if err := s.Serve(lis); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
