package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/idilsaglam/todoclient/internal/model"
)

const itemRoute = todoPath + "{id}/"

type newTodo struct {
	Task string `json:"task"`
}

func itemPath(id model.ItemID) string {
	return todoPath + url.PathEscape(id.String()) + "/"
}

func missingID(op string) error {
	return &Error{Op: op, Kind: KindInvalid, Message: "item has no id"}
}

// FetchTodos lists the signed-in user's items in server order.
func (c *Client) FetchTodos(ctx context.Context, token string) (*model.TodoPage, error) {
	var page model.TodoPage
	err := c.do(ctx, call{
		op:     "fetch_todos",
		method: http.MethodGet,
		route:  todoPath,
		path:   todoPath,
		token:  token,
		auth:   true,
		out:    &page,
	})
	if err != nil {
		return nil, err
	}
	if page.Results == nil {
		page.Results = []model.TodoItem{}
	}
	return &page, nil
}

func (c *Client) FetchTodo(ctx context.Context, id model.ItemID, token string) (*model.TodoItem, error) {
	if id.IsZero() {
		return nil, missingID("fetch_todo")
	}
	var out model.TodoItem
	err := c.do(ctx, call{
		op:     "fetch_todo",
		method: http.MethodGet,
		route:  itemRoute,
		path:   itemPath(id),
		token:  token,
		auth:   true,
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTodo posts a new task; the server assigns the id and done=false.
func (c *Client) CreateTodo(ctx context.Context, task, token string) (*model.TodoItem, error) {
	var out model.TodoItem
	err := c.do(ctx, call{
		op:     "create_todo",
		method: http.MethodPost,
		route:  todoPath,
		path:   todoPath,
		token:  token,
		auth:   true,
		body:   newTodo{Task: task},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTodo replaces the whole item and returns the server's copy.
func (c *Client) UpdateTodo(ctx context.Context, item model.TodoItem, token string) (*model.TodoItem, error) {
	if item.ID.IsZero() {
		return nil, missingID("update_todo")
	}
	var out model.TodoItem
	err := c.do(ctx, call{
		op:     "update_todo",
		method: http.MethodPut,
		route:  itemRoute,
		path:   itemPath(item.ID),
		token:  token,
		auth:   true,
		body:   item,
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTodo(ctx context.Context, id model.ItemID, token string) error {
	if id.IsZero() {
		return missingID("delete_todo")
	}
	return c.do(ctx, call{
		op:     "delete_todo",
		method: http.MethodDelete,
		route:  itemRoute,
		path:   itemPath(id),
		token:  token,
		auth:   true,
	})
}
