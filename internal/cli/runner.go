package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/idilsaglam/todoclient/internal/api"
	"github.com/idilsaglam/todoclient/internal/auth"
	"github.com/idilsaglam/todoclient/internal/config"
	"github.com/idilsaglam/todoclient/internal/model"
	"github.com/idilsaglam/todoclient/internal/router"
	"github.com/idilsaglam/todoclient/internal/tui"
	"github.com/idilsaglam/todoclient/internal/ui"
)

// Options tune output behavior from root flags.
type Options struct {
	Group  bool // list grouped by pending/done
	Color  bool // color even when stdout is not a terminal
	Theme  string
	Config config.Config
	Logger *log.Logger
	Stdout io.Writer
	Stderr io.Writer
}

type runner struct {
	opt    Options
	p      *ui.Printer
	client *api.Client
	store  *auth.Store
	logger *log.Logger
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	if opt.Stdout == nil {
		opt.Stdout = os.Stdout
	}
	if opt.Stderr == nil {
		opt.Stderr = os.Stderr
	}
	if opt.Logger == nil {
		opt.Logger = log.StandardLogger()
	}
	theme := opt.Theme
	if theme == "" {
		theme = opt.Config.Theme
	}
	r := &runner{
		opt:    opt,
		p:      ui.NewPrinter(opt.Stdout, opt.Stderr, ui.ThemeByName(theme)),
		store:  auth.NewStore(),
		logger: opt.Logger,
	}
	if opt.Color {
		r.p.ForceColor(true)
	}

	if len(args) == 0 {
		r.printHelp()
		return 2
	}
	cmd, a := args[0], args[1:]

	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		r.printHelp()
		return 0
	}

	client, err := newClient(opt.Config, opt.Logger)
	if err != nil {
		r.p.Fail("config: " + err.Error())
		return 1
	}
	r.client = client

	switch cmd {
	case "ui":
		return r.doUI(ctx)

	case "ls":
		return r.doList(ctx)

	case "whoami":
		return r.doWhoAmI(ctx)

	case "add":
		if len(a) == 0 {
			r.p.Fail("usage: todo add <task...>")
			return 2
		}
		return r.doAdd(ctx, strings.Join(a, " "))

	case "done":
		n, code := r.indexArg("done", a)
		if code != 0 {
			return code
		}
		return r.doToggle(ctx, n)

	case "show":
		n, code := r.indexArg("show", a)
		if code != 0 {
			return code
		}
		return r.doShow(ctx, n)

	case "rm":
		n, code := r.indexArg("rm", a)
		if code != 0 {
			return code
		}
		return r.doRemove(ctx, n)
	}

	r.p.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(opt.Stderr)
	r.printHelp()
	return 2
}

func newClient(cfg config.Config, logger *log.Logger) (*api.Client, error) {
	limit := rate.Inf
	if cfg.API.RateLimit > 0 {
		limit = rate.Limit(cfg.API.RateLimit)
	}
	return api.New(cfg.API.BaseURL,
		api.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		api.WithLogger(logger),
		api.WithRateLimit(limit, cfg.API.Burst),
	)
}

// PrintHelp writes usage to stdout.
func PrintHelp() {
	(&runner{p: ui.NewPrinter(os.Stdout, os.Stderr, ui.ThemeByName(""))}).printHelp()
}

func (r *runner) printHelp() {
	fmt.Fprint(r.p.Out, `todo - a client for a remote to-do service

Usage:
  todo [--group] [--color] [--theme classic|neon|mono] <subcommand> [args]

Subcommands:
  ui                 Interactive client (login, public and protected pages)
  ls                 List items
  add <task...>      Add a new item (task can be multiple words)
  show <index>       Show the item at 1-based index as the server has it now
  done <index>       Toggle done for item at 1-based index
  rm <index>         Remove item at 1-based index
  whoami             Show who the credentials belong to

Credentials (non-interactive commands):
  TADA_TOKEN                     bearer token
  TODO_USERNAME, TODO_PASSWORD   signed in once per run

Examples:
  todo ui
  todo add "Buy milk"
  todo ls
  todo done 2
`)
}

func (r *runner) indexArg(name string, a []string) (int, int) {
	if len(a) != 1 {
		r.p.Fail("usage: todo " + name + " <index>")
		return 0, 2
	}
	n, err := strconv.Atoi(a[0])
	if err != nil {
		r.p.Fail(name + ": not a number: " + a[0])
		return 0, 2
	}
	return n, 0
}

// -------------- session ----------------

// signIn fills the store from TADA_TOKEN, or logs in with the configured
// username and password. Returns an exit code, 0 when signed in.
func (r *runner) signIn(ctx context.Context) int {
	if tok := auth.TokenFromEnv(); tok != "" {
		claims, _ := auth.Inspect(tok)
		username := claims.Username
		if username == "" {
			username = "token"
		}
		r.store.SignIn(username, "", tok)
		return 0
	}
	cfg := r.opt.Config
	if cfg.Username == "" {
		r.p.Fail("not logged in. Set TADA_TOKEN or TODO_USERNAME and TODO_PASSWORD")
		return 2
	}
	res, err := r.client.Login(ctx, cfg.Username, cfg.Password)
	if err != nil {
		r.p.Fail(err.Error())
		return 1
	}
	r.store.SignIn(res.Username, res.Name, res.Access)
	r.logger.WithField("username", res.Username).Debug("cli.login")
	return 0
}

func (r *runner) fetch(ctx context.Context) ([]model.TodoItem, int) {
	if code := r.signIn(ctx); code != 0 {
		return nil, code
	}
	page, err := r.client.FetchTodos(ctx, r.store.Token())
	if err != nil {
		r.p.Fail(err.Error())
		return nil, 1
	}
	return page.Results, 0
}

// -------------- subcommand impls ----------------

func (r *runner) doUI(ctx context.Context) int {
	if tok := auth.TokenFromEnv(); tok != "" {
		r.signIn(ctx)
	}
	if err := tui.Run(ctx, r.client, r.store, router.PathProtected, tui.WithLogger(r.logger)); err != nil {
		r.p.Fail("tui: " + err.Error())
		return 1
	}
	return 0
}

func (r *runner) doWhoAmI(ctx context.Context) int {
	if code := r.signIn(ctx); code != 0 {
		return code
	}
	s := r.store.Session()
	r.p.Println("user:", s.DisplayName())
	if s.ExpiresAt != nil {
		r.p.Println("expires:", s.ExpiresAt.UTC().Format(time.RFC3339))
	} else {
		r.p.Println("expires: (unknown)")
	}
	r.p.Println("api:", r.client.BaseURL())
	return 0
}

func (r *runner) doList(ctx context.Context) int {
	items, code := r.fetch(ctx)
	if code != 0 {
		return code
	}
	t := r.p.Theme

	d, p := stats(items)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		r.p.C(t.Title, "Todos"),
		r.p.C(t.Success, t.SymDone), d,
		r.p.C(t.Pending, t.SymPending), p,
		r.p.C(t.Accent, "Total"), len(items),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, r.p.C(t.Muted, ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")
	if r.opt.Group {
		lines = append(lines, r.groupLines(items)...)
	} else {
		lines = append(lines, r.flatLines(items)...)
	}
	lines = append(lines, "")
	lines = append(lines, r.p.C(t.Muted, "Tip: add with `todo add \"Buy milk\"`"))
	r.p.Panel(lines)
	return 0
}

func (r *runner) doAdd(ctx context.Context, task string) int {
	task = strings.TrimSpace(task)
	if task == "" {
		r.p.Fail("add: empty task")
		return 2
	}
	if code := r.signIn(ctx); code != 0 {
		return code
	}
	if _, err := r.client.CreateTodo(ctx, task, r.store.Token()); err != nil {
		r.p.Fail(err.Error())
		return 1
	}
	r.p.OK("added")
	return 0
}

// pick resolves a 1-based index against the server's current listing.
func (r *runner) pick(ctx context.Context, userIndex int) (model.TodoItem, int) {
	items, code := r.fetch(ctx)
	if code != 0 {
		return model.TodoItem{}, code
	}
	if userIndex < 1 || userIndex > len(items) {
		r.p.Fail(fmt.Sprintf("index out of range: have %d, got %d", len(items), userIndex))
		r.p.Hint("Hint: run `todo ls` to see valid indexes")
		return model.TodoItem{}, 2
	}
	return items[userIndex-1], 0
}

func (r *runner) doToggle(ctx context.Context, userIndex int) int {
	it, code := r.pick(ctx, userIndex)
	if code != 0 {
		return code
	}
	if _, err := r.client.UpdateTodo(ctx, it.Toggled(), r.store.Token()); err != nil {
		r.p.Fail(err.Error())
		return 1
	}
	r.p.OK("toggled")
	return 0
}

func (r *runner) doShow(ctx context.Context, userIndex int) int {
	it, code := r.pick(ctx, userIndex)
	if code != 0 {
		return code
	}
	cur, err := r.client.FetchTodo(ctx, it.ID, r.store.Token())
	if err != nil {
		r.p.Fail(err.Error())
		return 1
	}
	t := r.p.Theme
	status, color := "pending", t.Pending
	if cur.Done {
		status, color = "done", t.Success
	}
	r.p.Panel([]string{
		r.p.C(t.Title, cur.Task),
		"",
		r.p.C(t.Muted, "id:    ") + cur.ID.String(),
		r.p.C(t.Muted, "state: ") + r.p.C(color, t.Marker(cur.Done)+" "+status),
	})
	return 0
}

func (r *runner) doRemove(ctx context.Context, userIndex int) int {
	it, code := r.pick(ctx, userIndex)
	if code != 0 {
		return code
	}
	if err := r.client.DeleteTodo(ctx, it.ID, r.store.Token()); err != nil {
		r.p.Fail(err.Error())
		return 1
	}
	r.p.OK("removed")
	return 0
}

// -------------- rendering helpers --------------

func stats(items []model.TodoItem) (done, pending int) {
	for _, it := range items {
		if it.Done {
			done++
		} else {
			pending++
		}
	}
	return
}

func (r *runner) flatLines(items []model.TodoItem) []string {
	t := r.p.Theme
	if len(items) == 0 {
		return []string{r.p.C(t.Muted, "no items")}
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		out = append(out, r.row(i+1, it))
	}
	return out
}

// row renders one item under the index `done` and `rm` accept for it.
func (r *runner) row(n int, it model.TodoItem) string {
	t := r.p.Theme
	color := t.Muted
	if it.Done {
		color = t.Success
	}
	idx := fmt.Sprintf("%2d.", n)
	return fmt.Sprintf("%s %s %s", r.p.C(t.Muted, idx), r.p.C(color, t.Marker(it.Done)), ansi.Truncate(it.Task, 80, "..."))
}

func (r *runner) groupLines(items []model.TodoItem) []string {
	t := r.p.Theme
	var pend, done []string
	for i, it := range items {
		if it.Done {
			done = append(done, r.row(i+1, it))
		} else {
			pend = append(pend, r.row(i+1, it))
		}
	}
	var lines []string
	lines = append(lines, r.p.C(t.Accent, "Pending"))
	if len(pend) == 0 {
		lines = append(lines, r.p.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, pend...)
	}
	lines = append(lines, "")
	lines = append(lines, r.p.C(t.Accent, "Done"))
	if len(done) == 0 {
		lines = append(lines, r.p.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, done...)
	}
	return lines
}
