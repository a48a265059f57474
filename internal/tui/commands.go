package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todoclient/internal/api"
	"github.com/idilsaglam/todoclient/internal/model"
)

// Client is the part of the API the screens use.
type Client interface {
	Login(ctx context.Context, username, password string) (*api.LoginResult, error)
	FetchTodos(ctx context.Context, token string) (*model.TodoPage, error)
	CreateTodo(ctx context.Context, task, token string) (*model.TodoItem, error)
	UpdateTodo(ctx context.Context, item model.TodoItem, token string) (*model.TodoItem, error)
	DeleteTodo(ctx context.Context, id model.ItemID, token string) error
}

type loginResultMsg struct {
	from string
	res  *api.LoginResult
	err  error
}

// The to-do results carry the token they were issued with so answers for a
// session that has since changed can be dropped.
type todosLoadedMsg struct {
	token string
	page  *model.TodoPage
	err   error
}

type todoCreatedMsg struct {
	token string
	item  *model.TodoItem
	err   error
}

type todoUpdatedMsg struct {
	token string
	item  *model.TodoItem
	err   error
}

type todoDeletedMsg struct {
	token string
	id    model.ItemID
	err   error
}

// todoResult returns the token and error of a to-do result message, if msg
// is one.
func todoResult(msg tea.Msg) (string, error) {
	switch m := msg.(type) {
	case todosLoadedMsg:
		return m.token, m.err
	case todoCreatedMsg:
		return m.token, m.err
	case todoUpdatedMsg:
		return m.token, m.err
	case todoDeletedMsg:
		return m.token, m.err
	}
	return "", nil
}

func loginCmd(ctx context.Context, c Client, username, password, from string) tea.Cmd {
	return func() tea.Msg {
		res, err := c.Login(ctx, username, password)
		return loginResultMsg{from: from, res: res, err: err}
	}
}

func fetchTodosCmd(ctx context.Context, c Client, token string) tea.Cmd {
	return func() tea.Msg {
		page, err := c.FetchTodos(ctx, token)
		return todosLoadedMsg{token: token, page: page, err: err}
	}
}

func createTodoCmd(ctx context.Context, c Client, task, token string) tea.Cmd {
	return func() tea.Msg {
		item, err := c.CreateTodo(ctx, task, token)
		return todoCreatedMsg{token: token, item: item, err: err}
	}
}

func updateTodoCmd(ctx context.Context, c Client, item model.TodoItem, token string) tea.Cmd {
	return func() tea.Msg {
		out, err := c.UpdateTodo(ctx, item, token)
		return todoUpdatedMsg{token: token, item: out, err: err}
	}
}

func deleteTodoCmd(ctx context.Context, c Client, id model.ItemID, token string) tea.Cmd {
	return func() tea.Msg {
		err := c.DeleteTodo(ctx, id, token)
		return todoDeletedMsg{token: token, id: id, err: err}
	}
}
