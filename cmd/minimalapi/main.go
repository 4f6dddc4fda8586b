package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
)

type CLI struct {
	LogLevel  string `help:"Log level." enum:"debug,info,warn,error" default:"info" env:"MINIMALAPI_LOG_LEVEL"`
	LogFormat string `help:"Log format." enum:"text,json" default:"text" env:"MINIMALAPI_LOG_FORMAT"`

	Serve   ServeCmd   `cmd:"" help:"Serve the example API."`
	Routes  RoutesCmd  `cmd:"" help:"Print the example route table."`
	Version VersionCmd `cmd:"" help:"Print version information."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run(ctx *kong.Context) error {
	fmt.Fprintln(ctx.Stdout, Version())
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "minimalapi: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("minimalapi"),
		kong.Description("Serve and inspect the minimalapi example endpoints."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		return err
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	logger := newLogger(cli.LogLevel, cli.LogFormat, stderr)
	return ctx.Run(logger)
}

func newLogger(level, format string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
