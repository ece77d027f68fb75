// livebrowse - terminal client for a remote file-browsing server.
//
// Lists directories, follows live updates pushed by the server and opens
// files or a random media file in the system browser.
//
// Sub-commands:
//
//	livebrowse browse [flags] [path]   Interactive browser (default)
//	livebrowse ls [flags] [path]       Print one directory listing
//	livebrowse random [flags] [path]   Pick a random media file under path
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/pkg/browser"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/fruitsalade/livebrowse/internal/config"
	"github.com/fruitsalade/livebrowse/internal/format"
	"github.com/fruitsalade/livebrowse/internal/logging"
	"github.com/fruitsalade/livebrowse/internal/metrics"
	"github.com/fruitsalade/livebrowse/internal/nav"
	"github.com/fruitsalade/livebrowse/internal/render"
	"github.com/fruitsalade/livebrowse/internal/session"
	"github.com/fruitsalade/livebrowse/internal/view"
	"github.com/fruitsalade/livebrowse/pkg/client"
	"github.com/fruitsalade/livebrowse/pkg/models"
	"github.com/fruitsalade/livebrowse/pkg/retry"
)

func main() {
	args := os.Args[1:]
	cmd := "browse"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		switch args[0] {
		case "browse", "ls", "random":
			cmd, args = args[0], args[1:]
		case "help":
			usage()
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: configuration: %v\n", err)
		os.Exit(1)
	}

	var code int
	switch cmd {
	case "ls":
		code = cmdList(cfg, args)
	case "random":
		code = cmdRandom(cfg, args)
	default:
		code = cmdBrowse(cfg, args)
	}
	logging.Sync()
	os.Exit(code)
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
  livebrowse browse [flags] [path]   Interactive browser (default)
  livebrowse ls [flags] [path]       Print one directory listing
  livebrowse random [flags] [path]   Pick a random media file under path

Run a sub-command with -h to list its flags.
`)
}

// bindFlags registers the flags shared by all sub-commands. Defaults come
// from the environment, so flags override it.
func bindFlags(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (LIVEBROWSE_SERVER)")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "HTTP request timeout")
	fs.IntVar(&cfg.LoadAttempts, "attempts", cfg.LoadAttempts, "Attempts per listing request (1 = no retry)")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "Locale for dates, e.g. en-US")
	fs.StringVar(&cfg.Timezone, "tz", cfg.Timezone, "Time zone for dates")
	fs.BoolVar(&cfg.OpenBrowser, "open", cfg.OpenBrowser, "Open files and media in the system browser")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: console, json")
	fs.StringVar(&cfg.LogOutput, "log-output", cfg.LogOutput, "Log output path (default stderr)")
	fs.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "Serve Prometheus metrics on this address")
}

// app holds what every sub-command needs once flags are parsed.
type app struct {
	cfg      *config.Config
	api      *client.Client
	renderer *render.Renderer
}

func setup(cfg *config.Config) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := logging.Init(logging.Config{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		OutputPath: cfg.LogOutput,
	}); err != nil {
		return nil, fmt.Errorf("logging init: %w", err)
	}

	rc := retry.DefaultConfig()
	rc.MaxAttempts = cfg.LoadAttempts
	api, err := client.New(client.Config{
		BaseURL:     cfg.ServerURL,
		Timeout:     cfg.RequestTimeout,
		RetryConfig: rc,
	})
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	dates := format.NewDateFormatter(cfg.Locale, loc)
	logging.Debug("client configured",
		zap.String("server", cfg.ServerURL),
		zap.String("locale", cfg.Locale),
		zap.String("date_layout", dates.Layout()))

	if cfg.MetricsAddr != "" {
		startMetrics(cfg.MetricsAddr)
	}

	return &app{cfg: cfg, api: api, renderer: render.New(dates)}, nil
}

func startMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logging.Info("metrics server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logging.Error("metrics server error", zap.Error(err))
		}
	}()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func pathArg(fs *flag.FlagSet) string {
	if fs.NArg() == 0 {
		return ""
	}
	return nav.Clean(fs.Arg(0))
}

func parseSort(column, order string) (models.SortSpec, error) {
	s := models.SortSpec{Column: models.SortColumn(column), Order: models.SortOrder(order)}
	if !s.Column.Valid() {
		return s, fmt.Errorf("unknown sort column %q (name, size, date)", column)
	}
	if !s.Order.Valid() {
		return s, fmt.Errorf("unknown sort order %q (asc, desc)", order)
	}
	return s, nil
}

func cmdList(cfg *config.Config, args []string) int {
	fs := flag.NewFlagSet("ls", flag.ExitOnError)
	bindFlags(fs, cfg)
	sortBy := fs.String("sort", string(models.SortByName), "Sort column: name, size, date")
	order := fs.String("order", string(models.Ascending), "Sort order: asc, desc")
	fs.Parse(args)

	sort, err := parseSort(*sortBy, *order)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	a, err := setup(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, cancel := signalContext()
	defer cancel()

	path := pathArg(fs)
	snap, err := a.api.ListDirectory(ctx, path, sort)
	if err != nil {
		fmt.Fprintln(os.Stderr, view.FormatList(render.ErrorList(err.Error()), view.DefaultStyles()))
		return 1
	}
	fmt.Println(view.FormatView(a.renderer.Render(snap, sort), view.DefaultStyles()))
	return 0
}

func cmdRandom(cfg *config.Config, args []string) int {
	fs := flag.NewFlagSet("random", flag.ExitOnError)
	bindFlags(fs, cfg)
	fs.Parse(args)

	a, err := setup(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, cancel := signalContext()
	defer cancel()

	ref, err := a.api.RandomMedia(ctx, pathArg(fs))
	if err != nil {
		fmt.Fprintln(os.Stderr, client.AlertMessage(err))
		return 1
	}
	u, err := a.api.ResolveURL(ref)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if cfg.OpenBrowser {
		if err := browser.OpenURL(u); err != nil {
			logging.Warn("cannot open browser", zap.Error(err))
		}
	}
	fmt.Println(u)
	return 0
}

func cmdBrowse(cfg *config.Config, args []string) int {
	fs := flag.NewFlagSet("browse", flag.ExitOnError)
	bindFlags(fs, cfg)
	fs.BoolVar(&cfg.Watch, "watch", cfg.Watch, "Reload on server push updates")
	fs.DurationVar(&cfg.ReconnectDelay, "reconnect", cfg.ReconnectDelay, "Delay before reconnecting the push channel")
	fs.BoolVar(&cfg.DropStaleLoads, "drop-stale", cfg.DropStaleLoads, "Ignore listings that arrive after a newer request")
	fs.Parse(args)

	a, err := setup(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	history := nav.NewMemoryHistory(nav.LocationFor(pathArg(fs)))
	surface := view.NewTerminal(os.Stdout, cfg.OpenBrowser)
	sc := session.Config{
		API:            a.api,
		History:        history,
		Renderer:       a.renderer,
		Surface:        surface,
		DropStaleLoads: cfg.DropStaleLoads,
	}
	if cfg.Watch {
		pushURL, err := a.api.PushURL()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		sc.Live = &client.LiveConfig{URL: pushURL, Delay: cfg.ReconnectDelay}
	}
	s, err := session.New(sc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, cancel := signalContext()
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	sh := &shell{s: s, history: history, surface: surface, out: os.Stdout, prompt: interactive}
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	sh.printPrompt()
	for {
		select {
		case <-ctx.Done():
			<-done
			return 0
		case line, ok := <-lines:
			if !ok {
				cancel()
				<-done
				return 0
			}
			if quit := sh.exec(line); quit {
				cancel()
				<-done
				return 0
			}
			sh.printPrompt()
		}
	}
}

// shell maps typed commands onto session operations.
type shell struct {
	s       *session.Session
	history *nav.MemoryHistory
	surface *view.Terminal
	out     io.Writer
	prompt  bool
}

const shellHelp = `Commands:
  ls                  show the current listing
  cd <name|/path|..>  change directory
  open <n>            open row n (directories navigate)
  up, home            go to the parent or root directory
  back, forward       move through history
  sort <column>       click a column header: name, size, date
  order <asc|desc>    set the sort order
  reload              reload the current directory
  random              open a random media file under this directory
  status              show connection and sort state
  log <level>         set the log level: debug, info, warn, error
  quit                exit`

func (sh *shell) printPrompt() {
	if sh.prompt {
		fmt.Fprint(sh.out, "> ")
	}
}

func (sh *shell) current() (session.State, bool) {
	st, err := sh.s.State()
	if err != nil {
		if !errors.Is(err, session.ErrNotRunning) {
			fmt.Fprintf(sh.out, "error: %v\n", err)
		}
		return st, false
	}
	return st, true
}

// exec runs one command line and reports whether the shell should exit.
func (sh *shell) exec(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, rest := fields[0], strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))

	switch cmd {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		fmt.Fprintln(sh.out, shellHelp)
	case "ls":
		if st, ok := sh.current(); ok {
			fmt.Fprintln(sh.out, view.FormatView(st.View, view.DefaultStyles()))
		}
	case "cd":
		st, ok := sh.current()
		if !ok {
			return false
		}
		sh.s.Navigate(resolvePath(st.Path, rest))
	case "open":
		n, err := strconv.Atoi(rest)
		if err != nil {
			fmt.Fprintf(sh.out, "usage: open <n>\n")
			return false
		}
		sh.s.Activate(n)
	case "up":
		if st, ok := sh.current(); ok {
			sh.s.Navigate(nav.ParentPath(st.Path))
		}
	case "home":
		sh.s.Navigate("")
	case "back":
		if !sh.history.Back() {
			fmt.Fprintln(sh.out, "no previous entry")
		}
	case "forward":
		if !sh.history.Forward() {
			fmt.Fprintln(sh.out, "no next entry")
		}
	case "sort":
		col := models.SortColumn(rest)
		if !col.Valid() {
			fmt.Fprintln(sh.out, "usage: sort <name|size|date>")
			return false
		}
		sh.s.ToggleSort(col)
	case "order":
		order := models.SortOrder(rest)
		if !order.Valid() {
			fmt.Fprintln(sh.out, "usage: order <asc|desc>")
			return false
		}
		sh.s.SetSortOrder(order)
	case "reload":
		sh.s.Reload()
	case "random":
		sh.s.RandomMedia()
	case "status":
		if st, ok := sh.current(); ok {
			fmt.Fprintf(sh.out, "%s  /%s  sort=%s %s  [%s]\n",
				view.FormatStatus(st.Status, view.DefaultStyles()),
				st.Path, st.Sort.Column, st.Sort.Order, sh.surface.RandomLabel())
		}
	case "log":
		if rest == "" || logging.SetLevel(rest) != nil {
			fmt.Fprintln(sh.out, "usage: log <debug|info|warn|error>")
		}
	default:
		fmt.Fprintf(sh.out, "unknown command %q (try help)\n", cmd)
	}
	return false
}

// resolvePath interprets a cd argument relative to current. A leading "/"
// starts from the root; ".." segments climb.
func resolvePath(current, arg string) string {
	base := current
	if strings.HasPrefix(arg, "/") {
		base = ""
	}
	for _, seg := range strings.Split(arg, "/") {
		switch seg {
		case "", ".":
		case "..":
			base = nav.ParentPath(base)
		default:
			base = nav.ChildPath(base, seg)
		}
	}
	return base
}
