package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"file-server/backend/api/handler"
	"file-server/backend/api/route"
	"file-server/backend/common"
	"file-server/backend/common/i18n"
	"file-server/backend/library/storage"
	"file-server/backend/model"
	"file-server/backend/service"

	"github.com/gin-gonic/gin"
)

func main() {
	flag.Parse()
	if *common.PrintVersion {
		println(common.Version)
		os.Exit(0)
	}
	if *common.PrintHelpFlag {
		common.PrintHelp()
		os.Exit(0)
	}
	if err := common.LoadConfig(); err != nil {
		common.FatalLog(err)
	}
	common.SetupGinLog()
	common.SysLog("File Server " + common.Version + " started")
	if *common.LocaleDirArg != "" {
		if err := i18n.Init(*common.LocaleDirArg); err != nil {
			common.FatalLog(err)
		}
		common.SysLog("Loaded messages from " + *common.LocaleDirArg)
	}
	if os.Getenv("GIN_MODE") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	layout, err := storage.NewLayout(common.UploadPath)
	if err != nil {
		common.FatalLog(err)
	}
	if err := layout.EnsureDirs(); err != nil {
		common.FatalLog(err)
	}
	common.SysLog("Upload directory: " + layout.Root)

	// The index is optional; without it listings fall back to disk only.
	var index service.Index
	if common.IndexEnabled {
		if err := common.InitRedisClient(); err != nil {
			common.SysError("Redis unavailable, continuing without cache: " + err.Error())
			common.RedisEnabled = false
		}
		if err := model.InitDB(); err != nil {
			common.FatalLog(err)
		}
		index = model.NewUploadIndex()
	}

	store := storage.NewStore(layout, storage.MaxFileSize)
	uploadService := service.NewUploadService(store, storage.NewValidator(), index)

	// Initialize HTTP server
	server := gin.Default()
	route.SetRouter(server, handler.NewFileHandler(uploadService), layout.Root)

	port := strconv.Itoa(*common.Port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}
	common.SysLog("Server listening on port: " + port)

	// Setup graceful shutdown
	done := setupGracefulShutdown(srv)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		common.FatalLog("failed to start server: " + err.Error())
	}
	<-done
}

// setupGracefulShutdown stops the server on SIGINT/SIGTERM and releases the
// index database. The returned channel closes once cleanup has finished.
func setupGracefulShutdown(srv *http.Server) <-chan struct{} {
	done := make(chan struct{})
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer close(done)
		<-c
		common.SysLog("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			common.SysError("Error shutting down server: " + err.Error())
		}

		if common.IndexEnabled {
			if err := model.CloseDB(); err != nil {
				common.SysError("Error closing database: " + err.Error())
			}
		}
		if common.RDB != nil {
			_ = common.RDB.Close()
		}
	}()
	return done
}
