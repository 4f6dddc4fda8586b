package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"

	"github.com/broady/minimalapi"
	chiadapter "github.com/broady/minimalapi/adapters/chi"
	gorillaadapter "github.com/broady/minimalapi/adapters/gorilla"
	"github.com/broady/minimalapi/internal/example/endpoints"
	"github.com/broady/minimalapi/internal/mediator"
	"github.com/broady/minimalapi/middleware"
)

type ServeCmd struct {
	Addr            string        `help:"Address to listen on." default:":8080" env:"MINIMALAPI_ADDR"`
	Router          string        `help:"Router implementation." enum:"stdlib,chi,gorilla" default:"stdlib" env:"MINIMALAPI_ROUTER"`
	BasePath        string        `help:"Prefix for every route." env:"MINIMALAPI_BASE_PATH"`
	CORS            bool          `help:"Answer CORS preflight requests for any origin." name:"cors"`
	MaskErrors      bool          `help:"Hide internal error messages from clients." env:"MINIMALAPI_MASK_ERRORS"`
	ShutdownTimeout time.Duration `help:"Time allowed for in-flight requests on shutdown." default:"10s"`
}

func (c *ServeCmd) Run(logger *slog.Logger) error {
	handler, routes, err := newServer(serverConfig{
		router:     c.Router,
		basePath:   c.BasePath,
		maskErrors: c.MaskErrors,
	}, logger)
	if err != nil {
		return err
	}
	if c.CORS {
		handler = middleware.CORS(&middleware.CORSConfig{Routes: routes})(handler)
	}

	srv := &http.Server{
		Addr:              c.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", c.Addr), slog.String("router", c.Router))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type RoutesCmd struct {
	Format   string `help:"Output format." enum:"yaml,json,table" default:"table" short:"f"`
	BasePath string `help:"Prefix for every route."`
}

func (c *RoutesCmd) Run(ctx *kong.Context, logger *slog.Logger) error {
	_, routes, err := newServer(serverConfig{basePath: c.BasePath}, logger)
	if err != nil {
		return err
	}

	switch c.Format {
	case "yaml":
		return routes.WriteYAML(ctx.Stdout)
	case "json":
		enc := json.NewEncoder(ctx.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(routes.Export())
	default:
		tw := tabwriter.NewWriter(ctx.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "METHOD\tPATH\tBINDING\tHANDLER")
		for _, r := range routes.Export() {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Method, r.Path, r.Binding, r.Handler)
		}
		return tw.Flush()
	}
}

type serverConfig struct {
	router     string
	basePath   string
	maskErrors bool
}

// newServer wires the example endpoints into the chosen router.
func newServer(cfg serverConfig, logger *slog.Logger) (http.Handler, *minimalapi.Registry, error) {
	var (
		router  minimalapi.Router
		handler http.Handler
	)
	switch cfg.router {
	case "chi":
		r := chiadapter.NewRouter(nil)
		router, handler = r, r
	case "gorilla":
		r := gorillaadapter.NewRouter(nil)
		router, handler = r, r
	default:
		r := minimalapi.NewMux(nil)
		router, handler = r, r
	}

	m := mediator.New().WithLogger(logger).Use(mediator.Logging(logger))
	app := minimalapi.NewApp(router).
		WithDispatcher(m).
		WithLogger(logger).
		WithBasePath(cfg.basePath).
		WithMiddleware(middleware.AccessLog(logger))
	if cfg.maskErrors {
		app = app.WithMaskInternalErrors()
	}

	routes, err := app.Register(endpoints.Catalog(m))
	if err != nil {
		return nil, nil, err
	}
	return middleware.Recover(logger)(handler), routes, nil
}
