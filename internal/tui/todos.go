package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todoclient/internal/model"
)

// listItem adapts a TodoItem to bubbles/list.Item.
type listItem struct {
	model.TodoItem
}

func (i listItem) Title() string       { return marker(i.Done) + " " + i.Task }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.Task }

// Single-line rows: "[X] task" / "[ ] task".
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	fmt.Fprintln(w, renderRow(it.TodoItem, index == m.Index()))
}

func renderRow(it model.TodoItem, selected bool) string {
	box := mutedStyle.Render(marker(it.Done))
	text := it.Task
	if it.Done {
		box = successStyle.Render(marker(true))
		text = doneStyle.Render(text)
	}
	prefix := "  "
	if selected {
		prefix = selectedStyle.Render("> ")
	}
	return prefix + box + " " + text
}

// todoView is the protected screen: the signed-in user's list plus an add
// field. Items are kept in server order with new ones appended.
type todoView struct {
	list   list.Model
	input  textinput.Model
	adding bool
	token  string
	err    string
}

func newTodoView() todoView {
	l := list.New(nil, itemDelegate{}, 80, 16)
	l.Title = "Todo:"
	l.SetShowHelp(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")
	extra := func() []key.Binding { return []key.Binding{addKey, toggleKey, deleteKey, refreshKey} }
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	return todoView{
		list:  l,
		input: newInput("Add: ", "New task..."),
	}
}

// mount starts the screen over for token: the list empties and a fetch is
// issued.
func (v todoView) mount(ctx context.Context, c Client, token string) (todoView, tea.Cmd) {
	v.token = token
	v.err = ""
	v.list.ResetFilter()
	cmd := v.list.SetItems(nil)
	return v, tea.Batch(cmd, fetchTodosCmd(ctx, c, token))
}

func (v todoView) items() []model.TodoItem {
	out := make([]model.TodoItem, 0, len(v.list.Items()))
	for _, it := range v.list.Items() {
		if li, ok := it.(listItem); ok {
			out = append(out, li.TodoItem)
		}
	}
	return out
}

func (v todoView) indexOf(id model.ItemID) int {
	for i, it := range v.list.Items() {
		if li, ok := it.(listItem); ok && li.ID == id {
			return i
		}
	}
	return -1
}

func (v todoView) selected() (model.TodoItem, bool) {
	li, ok := v.list.SelectedItem().(listItem)
	return li.TodoItem, ok
}

func (v *todoView) setSize(w, h int) {
	if w < 20 {
		w = 20
	}
	if h < 6 {
		h = 6
	}
	v.list.SetSize(w, h)
}

func (v todoView) update(ctx context.Context, c Client, msg tea.Msg) (todoView, tea.Cmd) {
	switch msg := msg.(type) {
	case todosLoadedMsg:
		if msg.token != v.token {
			return v, nil
		}
		if msg.err != nil {
			v.err = msg.err.Error()
			return v, nil
		}
		li := make([]list.Item, 0, len(msg.page.Results))
		for _, it := range msg.page.Results {
			li = append(li, listItem{it})
		}
		return v, v.list.SetItems(li)

	case todoCreatedMsg:
		if msg.token != v.token {
			return v, nil
		}
		if msg.err != nil {
			v.err = msg.err.Error()
			return v, nil
		}
		v.err = ""
		v.input.SetValue("")
		return v, v.list.InsertItem(len(v.list.Items()), listItem{*msg.item})

	case todoUpdatedMsg:
		if msg.token != v.token {
			return v, nil
		}
		if msg.err != nil {
			v.err = msg.err.Error()
			return v, nil
		}
		v.err = ""
		if i := v.indexOf(msg.item.ID); i >= 0 {
			return v, v.list.SetItem(i, listItem{*msg.item})
		}
		return v, nil

	case todoDeletedMsg:
		if msg.token != v.token {
			return v, nil
		}
		if msg.err != nil {
			v.err = msg.err.Error()
			return v, nil
		}
		v.err = ""
		if i := v.indexOf(msg.id); i >= 0 {
			v.list.RemoveItem(i)
		}
		return v, nil

	case tea.KeyMsg:
		if v.adding {
			return v.updateAdding(ctx, c, msg)
		}
		if v.list.SettingFilter() {
			break
		}
		switch {
		case key.Matches(msg, addKey):
			v.adding = true
			v.input.Focus()
			return v, nil
		case key.Matches(msg, toggleKey):
			if it, ok := v.selected(); ok {
				return v, updateTodoCmd(ctx, c, it.Toggled(), v.token)
			}
			return v, nil
		case key.Matches(msg, deleteKey):
			if it, ok := v.selected(); ok {
				return v, deleteTodoCmd(ctx, c, it.ID, v.token)
			}
			return v, nil
		case key.Matches(msg, refreshKey):
			v.err = ""
			return v, fetchTodosCmd(ctx, c, v.token)
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v todoView) updateAdding(ctx context.Context, c Client, msg tea.KeyMsg) (todoView, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return v, createTodoCmd(ctx, c, v.input.Value(), v.token)
	case "esc":
		v.adding = false
		v.input.Blur()
		return v, nil
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v todoView) view() string {
	d, p := stats(v.items())
	v.list.Title = fmt.Sprintf("%s   %s %d  %s %d",
		titleStyle.Render("Todo:"),
		successStyle.Render("✔"), d,
		pendingStyle.Render("•"), p,
	)
	content := v.list.View()
	if v.adding {
		title := "Add new item"
		if v.err != "" {
			title += " " + errorStyle.Render("✖ "+v.err)
		}
		content += "\n" + inputBox(title, v.input.View())
	} else if v.err != "" {
		content += "\n" + errorStyle.Render("✖ "+v.err)
	}
	return content
}

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
