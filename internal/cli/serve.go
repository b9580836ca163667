package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/arifurrahman-io/malibagsomiti-backend/internal/api"
	"github.com/arifurrahman-io/malibagsomiti-backend/internal/app/engine"
	"github.com/arifurrahman-io/malibagsomiti-backend/internal/app/notify"
	"github.com/arifurrahman-io/malibagsomiti-backend/internal/infra/docstore"
	"github.com/arifurrahman-io/malibagsomiti-backend/internal/report"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	docs := docstore.New(cfg.Storage.DocumentsDir)
	if err := docs.Init(); err != nil {
		return err
	}

	var notifier *notify.Service
	if cfg.Notify.Enabled {
		notifier = notify.NewService(db, notify.LogDispatcher{})
	}

	eng := engine.New(db, docs, notifier)
	srv := api.NewServer(eng, report.New(db), db)
	srv.SetDocumentStore(docs)
	if cfg.Metrics.Enabled {
		srv.EnableMetrics()
	}

	httpSrv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: srv.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("somitid listening on %s (db %s)", cfg.Addr(), cfg.Storage.DatabasePath)
		errCh <- httpSrv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-stop:
		log.Printf("somitid shutting down (%s)", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(ctx)
	}
}
