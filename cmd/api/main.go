package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ovaphlow/pitchfork/service-tasks-go/internal/auth"
	"github.com/ovaphlow/pitchfork/service-tasks-go/internal/docs"
	"github.com/ovaphlow/pitchfork/service-tasks-go/internal/router"
	"github.com/ovaphlow/pitchfork/service-tasks-go/internal/task"
	taskrepo "github.com/ovaphlow/pitchfork/service-tasks-go/internal/task/repo"
	"github.com/ovaphlow/pitchfork/service-tasks-go/internal/user"
	userrepo "github.com/ovaphlow/pitchfork/service-tasks-go/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-tasks-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-tasks-go/pkg/utilities"
)

func main() {
	// best effort: real environment wins when no .env exists
	_ = godotenv.Load()

	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting service-tasks")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, database.ConfigFromEnv())
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db.DB); err != nil {
		sugar.Fatalf("db migrate: %v", err)
	}

	authCfg, err := auth.ConfigFromEnv()
	if err != nil {
		sugar.Fatalf("auth config: %v", err)
	}
	codec, err := auth.NewTokenCodec(authCfg, nil)
	if err != nil {
		sugar.Fatalf("token codec: %v", err)
	}
	ids, err := utilities.NewIDGeneratorFromEnv()
	if err != nil {
		sugar.Fatalf("id generator: %v", err)
	}

	hasher := auth.BcryptHasher{Cost: 12}
	userSvc := user.NewUserService(userrepo.NewUserRepo(db), hasher, ids)
	taskSvc := task.NewService(taskrepo.NewRepo(db), ids)
	authn := auth.NewAuthenticator(userSvc, hasher, codec, authCfg.LookupTimeout, sugar)

	docsHandler, err := docs.NewHandler(sugar)
	if err != nil {
		sugar.Fatalf("api docs: %v", err)
	}

	handler := router.RegisterRoutes(router.Deps{
		Logger: sugar,
		Gate:   auth.NewGate(codec, userSvc, authCfg.LookupTimeout, sugar),
		Users:  user.NewHandler(userSvc, authn, sugar),
		Tasks:  task.NewHandler(taskSvc, sugar),
		Docs:   docsHandler,
	})

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()
	sugar.Infow("listening", "addr", addr)

	<-ctx.Done()

	sugar.Info("shutting down")

	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(doneCtx); err != nil {
		sugar.Warnf("db ping on shutdown failed: %v", err)
	}

	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}
