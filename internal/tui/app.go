package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/idilsaglam/todoclient/internal/api"
	"github.com/idilsaglam/todoclient/internal/auth"
	"github.com/idilsaglam/todoclient/internal/model"
	"github.com/idilsaglam/todoclient/internal/router"
)

// maxRedirects bounds guard redirect chains.
const maxRedirects = 4

// App is the root Bubble Tea model. It owns navigation: every path change
// goes through the router, and the guard is re-applied after each message so
// a session that disappears while a protected screen is open sends the user
// to the login screen on the next render.
type App struct {
	ctx     context.Context
	client  Client
	store   *auth.Store
	router  *router.Router
	history *router.History
	logger  *log.Logger
	keys    keyMap
	help    help.Model

	view   router.View
	login  loginView
	todos  todoView
	notice string

	width, height int
	initCmd       tea.Cmd
}

type Option func(*App)

func WithLogger(l *log.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewApp builds the application positioned at start.
func NewApp(ctx context.Context, c Client, store *auth.Store, start string, opts ...Option) App {
	a := App{
		ctx:     ctx,
		client:  c,
		store:   store,
		router:  router.Default(),
		history: router.NewHistory(model.At(router.PathRoot)),
		logger:  log.StandardLogger(),
		keys:    defaultKeys(),
		help:    help.New(),
		todos:   newTodoView(),
	}
	for _, opt := range opts {
		opt(&a)
	}
	if start = router.Clean(start); start != router.PathRoot {
		a.history.Push(model.At(start))
	}
	a.initCmd = a.navigated()
	return a
}

// Location is the current history entry.
func (a App) Location() model.Location { return a.history.Current() }

// Screen is the view being rendered.
func (a App) Screen() router.View { return a.view }

// Todos is the to-do screen's current list.
func (a App) Todos() []model.TodoItem { return a.todos.items() }

func (a App) Init() tea.Cmd { return a.initCmd }

func (a *App) push(path string) tea.Cmd {
	a.history.Push(model.At(path))
	return a.navigated()
}

func (a *App) replace(loc model.Location) tea.Cmd {
	a.history.Replace(loc)
	return a.navigated()
}

// navigated mounts whatever the current location resolves to.
func (a *App) navigated() tea.Cmd { return a.resolve(true) }

// resolve applies the guard to the current location. With remount false the
// screen is only remounted when it changes or, for the to-do screen, when
// the access token changed under it.
func (a *App) resolve(remount bool) tea.Cmd {
	session := a.store.Session()
	for i := 0; i < maxRedirects; i++ {
		res := a.router.Resolve(a.history.Current(), session)
		if res.Redirect != nil {
			a.logger.WithFields(log.Fields{
				"from": a.history.Current().Pathname,
				"to":   res.Redirect.Pathname,
			}).Debug("tui.redirect")
			a.history.Replace(*res.Redirect)
			remount = true
			continue
		}
		next := res.View()
		if !remount && next == a.view {
			if next == router.ViewTodos && a.todos.token != session.AccessToken {
				return a.mount(next)
			}
			return nil
		}
		return a.mount(next)
	}
	a.logger.WithField("path", a.history.Current().Pathname).Warn("tui.redirect.loop")
	return nil
}

func (a *App) mount(v router.View) tea.Cmd {
	a.view = v
	switch v {
	case router.ViewLogin:
		a.login = newLoginView(a.history.Current().ReturnPath())
	case router.ViewTodos:
		var cmd tea.Cmd
		a.todos, cmd = a.todos.mount(a.ctx, a.client, a.store.Token())
		if a.width > 0 {
			a.todos.setSize(a.width-4, a.height-8)
		}
		return cmd
	}
	return nil
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := a.handle(msg)
	guard := a.resolve(false)
	return a, tea.Batch(cmd, guard)
}

func (a *App) handle(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.help.Width = msg.Width
		a.todos.setSize(msg.Width-4, msg.Height-8)
		return nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.Quit):
			return tea.Quit
		case key.Matches(msg, a.keys.Home):
			return a.push(router.PathRoot)
		case key.Matches(msg, a.keys.Public):
			return a.push(router.PathPublic)
		case key.Matches(msg, a.keys.Protected):
			return a.push(router.PathProtected)
		case key.Matches(msg, a.keys.Back):
			if a.history.Back() {
				return a.navigated()
			}
			return nil
		case key.Matches(msg, a.keys.SignOut):
			return a.signOut()
		}

	case loginResultMsg:
		return a.loginFinished(msg)
	}

	// Only a rejection of the token in use ends the session. Answers for an
	// older token fall through to the screen, which drops them.
	if token, err := todoResult(msg); api.IsUnauthorized(err) && a.store.Authenticated() && token == a.store.Token() {
		a.store.SignOut()
		a.notice = "Your session is no longer valid. Please log in again."
		a.logger.WithError(err).Info("tui.session.rejected")
		return nil
	}

	var cmd tea.Cmd
	switch a.view {
	case router.ViewLogin:
		if _, ok := msg.(tea.KeyMsg); ok {
			a.login, cmd = a.login.update(a.ctx, a.client, msg)
		}
	case router.ViewTodos:
		a.todos, cmd = a.todos.update(a.ctx, a.client, msg)
	}
	return cmd
}

// loginFinished signs in and then replaces the login entry with the page the
// user originally asked for. A failed login changes nothing but the form.
func (a *App) loginFinished(msg loginResultMsg) tea.Cmd {
	if msg.err != nil {
		a.logger.WithError(msg.err).Info("tui.login.failed")
		if a.view == router.ViewLogin {
			a.login = a.login.failed(msg.err)
		}
		return nil
	}
	var cmd tea.Cmd
	a.store.SignInWith(func() {
		a.notice = ""
		a.logger.WithField("username", msg.res.Username).Info("tui.login")
		// The user may have navigated away while the request was in flight.
		if a.view == router.ViewLogin {
			cmd = a.replace(model.At(msg.from))
		}
	}, msg.res.Username, msg.res.Name, msg.res.Access)
	return cmd
}

func (a *App) signOut() tea.Cmd {
	if !a.store.Authenticated() {
		return nil
	}
	username := a.store.Session().Username
	var cmd tea.Cmd
	a.store.SignOutWith(func() {
		a.logger.WithField("username", username).Info("tui.logout")
		cmd = a.push(router.PathRoot)
	})
	return cmd
}

func (a App) View() string {
	var b strings.Builder
	b.WriteString(headerView(a.store.Session(), time.Now()) + "\n")
	b.WriteString(a.help.View(a.keys) + "  " + mutedStyle.Render(a.history.Current().Pathname) + "\n\n")

	switch a.view {
	case router.ViewPublic:
		b.WriteString(titleStyle.Render("Public"))
	case router.ViewLogin:
		b.WriteString(a.login.view())
	case router.ViewTodos:
		b.WriteString(a.todos.view())
	}
	if a.notice != "" {
		b.WriteString("\n\n" + errorStyle.Render(a.notice))
	}
	return panelString(b.String())
}

// Run starts the interactive program and blocks until the user quits.
func Run(ctx context.Context, c Client, store *auth.Store, start string, opts ...Option) error {
	p := tea.NewProgram(NewApp(ctx, c, store, start, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
