package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nhlong2701/takeAwayBill/internal/client"
	"github.com/nhlong2701/takeAwayBill/internal/config"
	"github.com/nhlong2701/takeAwayBill/internal/logger"
	"github.com/nhlong2701/takeAwayBill/internal/metrics"
	"github.com/nhlong2701/takeAwayBill/internal/network/router"
	"github.com/nhlong2701/takeAwayBill/internal/services"
	"github.com/nhlong2701/takeAwayBill/internal/token"
	"github.com/nhlong2701/takeAwayBill/internal/worker"
)

func Run(config config.Config) {

	metrics.Register()

	// учётные данные платформы живут только в памяти процесса
	store := token.NewStore(config.Takeaway.RefreshToken)
	httpClient := &http.Client{Timeout: config.Takeaway.RequestTimeout}
	refresher := token.NewRefresher(
		config.Takeaway.AuthURL,
		config.Takeaway.ClientID,
		config.Takeaway.ClientSecret,
		httpClient,
		store,
	)
	provider := token.NewProvider(store, refresher, config.Takeaway.TokenBuffer)

	api := client.NewClient(config.Takeaway, httpClient, provider)
	board := services.NewLiveBoard()

	router := router.NewRouter(config, api, provider, board)

	server := &http.Server{
		Addr:    config.Server.ListenAddr,
		Handler: router.HandleRouter(),
	}
	// Создание и запуск воркера
	worker := worker.NewLiveWorker(router.Orders, board, config.Takeaway.LivePollInterval)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.Start(ctx)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting server, listen:", config.Server.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("error listen server", err.Error())
		}
	}()

	<-stop
	logger.Info("Shutdown server")
	worker.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("error shutdown server", err.Error())
	}
	logger.Info("Server stopped")
}
