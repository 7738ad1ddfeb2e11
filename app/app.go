package app

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/indexdata/catbridge/api"
	"github.com/indexdata/catbridge/common"
	"github.com/indexdata/catbridge/driver"
	"github.com/indexdata/catbridge/vcs"
	"github.com/indexdata/go-utils/utils"
)

var HTTP_PORT = utils.Must(utils.GetEnvInt("HTTP_PORT", 8081))
var ENABLE_JSON_LOG = utils.GetEnv("ENABLE_JSON_LOG", "false")
var LOG_LEVEL = utils.GetEnv("LOG_LEVEL", "INFO")
var DRIVER_ADAPTER = utils.GetEnv("DRIVER_ADAPTER", "mock")
var CATALOG_URL = utils.GetEnv("CATALOG_URL", "http://localhost:8080")
var CATALOG_USER = utils.GetEnv("CATALOG_USER", "catbridge")
var CATALOG_SECRET = utils.GetEnv("CATALOG_SECRET", "catbridge")
var CATALOG_LOCALE = utils.GetEnv("CATALOG_LOCALE", "en")
var CLIENT_TIMEOUT, _ = utils.GetEnvAny("CLIENT_TIMEOUT", 30*time.Second, func(val string) (time.Duration, error) {
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid CLIENT_TIMEOUT value: %s", val)
	}
	return d, nil
})
var MAX_RESPONSE_SIZE, _ = utils.GetEnvAny("MAX_RESPONSE_SIZE", int64(10*1024*1024), func(val string) (int64, error) {
	v, err := humanize.ParseBytes(val)
	if err == nil && v > uint64(math.MaxInt64) {
		return 0, fmt.Errorf("value %s is too large", val)
	}
	return int64(v), err
})
var SHUTDOWN_DELAY, _ = utils.GetEnvAny("SHUTDOWN_DELAY", time.Duration(15*float64(time.Second)), func(val string) (time.Duration, error) {
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid SHUTDOWN_DELAY value: %s", val)
	}
	return d, nil
})

var ServeMux *http.ServeMux
var appCtx = common.CreateExtCtxWithLogArgsAndHandler(context.Background(), nil, configLog())

type Context struct {
	Driver     driver.Driver
	ApiHandler api.ApiHandler
}

func configLog() slog.Handler {
	var level slog.Level
	switch strings.ToUpper(LOG_LEVEL) {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{
		Level: level,
	}
	if strings.EqualFold(ENABLE_JSON_LOG, "true") {
		jsonHandler := slog.NewJSONHandler(os.Stdout, opts)
		common.DefaultLogHandler = jsonHandler
		return jsonHandler
	} else {
		textHandler := slog.NewTextHandler(os.Stdout, opts)
		common.DefaultLogHandler = textHandler
		return textHandler
	}
}

func Init(ctx context.Context) (Context, error) {
	appCtx.Logger().Info("starting " + vcs.GetSignature())
	catalogDriver, err := driver.CreateDriver(map[string]string{
		driver.DriverAdapter: DRIVER_ADAPTER,
		driver.CatalogUrl:    CATALOG_URL,
		driver.CatalogUser:   CATALOG_USER,
		driver.CatalogSecret: CATALOG_SECRET,
		driver.CatalogLocale: CATALOG_LOCALE,
	}, CLIENT_TIMEOUT, MAX_RESPONSE_SIZE)
	if err != nil {
		return Context{}, err
	}
	return Context{
		Driver:     catalogDriver,
		ApiHandler: api.NewApiHandler(catalogDriver),
	}, nil
}

func Run(ctx context.Context) error {
	context, err := Init(ctx)
	if err != nil {
		return err
	}
	return StartServer(context)
}

func StartServer(ctx Context) error {
	ServeMux = http.NewServeMux()
	ServeMux.HandleFunc("GET /healthz", HandleHealthz)
	ServeMux.HandleFunc("POST /patron/login", ctx.ApiHandler.HandlePatronLogin)
	ServeMux.HandleFunc("GET /patron/holds", ctx.ApiHandler.HandleHolds)
	ServeMux.HandleFunc("POST /patron/holds", ctx.ApiHandler.HandlePlaceHold)
	ServeMux.HandleFunc("DELETE /patron/holds/{id}", ctx.ApiHandler.HandleCancelHold)
	ServeMux.HandleFunc("GET /patron/fines", ctx.ApiHandler.HandleFines)
	ServeMux.HandleFunc("POST /patron/renewals", ctx.ApiHandler.HandleRenewals)
	ServeMux.HandleFunc("GET /pickup-locations", ctx.ApiHandler.HandlePickupLocations)
	ServeMux.HandleFunc("GET /items/{bibId}/status", ctx.ApiHandler.HandleItemStatus)

	signatureHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", vcs.GetSignature())
		ServeMux.ServeHTTP(w, r)
	})
	server := &http.Server{
		Addr:              ":" + strconv.Itoa(HTTP_PORT),
		Handler:           signatureHandler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	// channel to listen for server errors
	serverErrors := make(chan error, 1)
	go func() {
		appCtx.Logger().Info("HTTP server started on port " + strconv.Itoa(HTTP_PORT))
		serverErrors <- server.ListenAndServe()
	}()
	// channel to listen for OS signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	// block until we receive a signal or server error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("HTTP server error: %w", err)
	case sig := <-shutdown:
		appCtx.Logger().Info("HTTP server shutdown initiated", "signal", sig)
		// give outstanding requests a timeout to complete
		ctx, cancel := context.WithTimeout(appCtx, SHUTDOWN_DELAY)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			return fmt.Errorf("HTTP server could not shutdown gracefully: %w", err)
		}
		appCtx.Logger().Info("HTTP server shutdown complete")
		return nil
	}
}

func HandleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}
