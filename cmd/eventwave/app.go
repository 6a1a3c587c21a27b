package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/uma-arai/sbcntr-eventwave/internal/api"
	"github.com/uma-arai/sbcntr-eventwave/internal/config"
	"github.com/uma-arai/sbcntr-eventwave/internal/gateway"
	"github.com/uma-arai/sbcntr-eventwave/internal/i18n"
	"github.com/uma-arai/sbcntr-eventwave/internal/service/view"
	"github.com/uma-arai/sbcntr-eventwave/internal/session"
)

const userAgent = "eventwave-cli/1.0"

var errUsage = errors.New("usage")

type app struct {
	services *api.Services
	flows    *view.FlowService
	session  *session.Session
	tr       *i18n.Translator
	stdout   io.Writer
	stderr   io.Writer
}

type command struct {
	usage    string
	fallback string
	run      func(ctx context.Context, a *app, args []string) (any, error)
}

func newApp(cfg *config.Config, stdout, stderr io.Writer) (*app, error) {
	sess := session.New(session.NewFileStore(cfg.TokenFile))
	gw, err := gateway.New(cfg.API.BaseURL, sess,
		gateway.WithBypassHeader(cfg.API.BypassHeader, cfg.API.BypassValue),
		gateway.WithUserAgent(firstNonEmpty(cfg.API.UserAgent, userAgent)),
	)
	if err != nil {
		return nil, err
	}

	services := api.NewServices(gw, sess)
	return &app{
		services: services,
		flows:    view.NewFlowService(services),
		session:  sess,
		tr:       i18n.NewTranslator(cfg.Locale),
		stdout:   stdout,
		stderr:   stderr,
	}, nil
}

// run はサブコマンドを1つ実行し、終了コードを返します
func (a *app) run(ctx context.Context, args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		a.usage()
		return 2
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(a.stderr, "unknown command %q\n\n", args[0])
		a.usage()
		return 2
	}

	var usageErr error
	page := view.Load(ctx, &view.Page[any]{}, a.tr, cmd.fallback, func(ctx context.Context) (any, error) {
		out, err := cmd.run(ctx, a, args[1:])
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			usageErr = err
		}
		return out, err
	})

	if usageErr != nil {
		if !errors.Is(usageErr, flag.ErrHelp) {
			fmt.Fprintf(a.stderr, "%v\n", usageErr)
		}
		fmt.Fprintf(a.stderr, "usage: eventwave %s %s\n", args[0], cmd.usage)
		return 2
	}
	if page.State == view.Error {
		fmt.Fprintln(a.stderr, firstNonEmpty(page.Message, page.Err.Error()))
		return 1
	}

	if err := a.print(page.Data); err != nil {
		fmt.Fprintf(a.stderr, "failed to write output: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) print(v any) error {
	switch out := v.(type) {
	case nil:
		return nil
	case string:
		if out == "" {
			return nil
		}
		_, err := fmt.Fprintln(a.stdout, out)
		return err
	default:
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
}

func (a *app) usage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(a.stderr, "usage: eventwave <command> [arguments]")
	fmt.Fprintln(a.stderr)
	fmt.Fprintln(a.stderr, "commands:")
	for _, name := range names {
		fmt.Fprintf(a.stderr, "  %-20s %s\n", name, commands[name].usage)
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parseFlags は -h 以外の解析エラーを errUsage として返します
func parseFlags(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", errUsage, err)
}

// parseID は位置引数からイベントIDを1つ取り出します
func parseID(args []string) (int64, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("%w: event id is required", errUsage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid event id %q", errUsage, args[0])
	}
	return id, nil
}

// joinArgs は空白を含む検索語を引用符なしで渡せるようにします
func joinArgs(args []string, what string) (string, error) {
	value := strings.TrimSpace(strings.Join(args, " "))
	if value == "" {
		return "", fmt.Errorf("%w: %s is required", errUsage, what)
	}
	return value, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
