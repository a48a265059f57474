package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// loginView is the username/password form. It does no validation of its
// own: whatever was typed goes to the token endpoint.
type loginView struct {
	username textinput.Model
	password textinput.Model
	focus    int
	from     string
	pending  bool
	err      string
}

func newInput(prompt, placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = placeholder
	ti.CharLimit = 150
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

// newLoginView returns an empty form that will send the user to from.
func newLoginView(from string) loginView {
	v := loginView{
		username: newInput("Username: ", ""),
		password: newInput("Password: ", ""),
		from:     from,
	}
	v.password.EchoMode = textinput.EchoPassword
	v.password.EchoCharacter = '•'
	v.username.Focus()
	return v
}

func (v *loginView) setFocus(i int) {
	v.focus = (i + 2) % 2
	if v.focus == 0 {
		v.username.Focus()
		v.password.Blur()
	} else {
		v.password.Focus()
		v.username.Blur()
	}
}

func (v loginView) update(ctx context.Context, c Client, msg tea.Msg) (loginView, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "tab", "down":
			v.setFocus(v.focus + 1)
			return v, nil
		case "shift+tab", "up":
			v.setFocus(v.focus - 1)
			return v, nil
		case "enter":
			v.pending = true
			v.err = ""
			return v, loginCmd(ctx, c, v.username.Value(), v.password.Value(), v.from)
		}
	}
	var cmd tea.Cmd
	if v.focus == 0 {
		v.username, cmd = v.username.Update(msg)
	} else {
		v.password, cmd = v.password.Update(msg)
	}
	return v, cmd
}

// failed records a rejected login. The form keeps what was typed.
func (v loginView) failed(err error) loginView {
	v.pending = false
	v.err = err.Error()
	return v
}

func (v loginView) view() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You must log in to view the page at %s\n\n", accentStyle.Render(v.from))
	b.WriteString(v.username.View() + "\n")
	b.WriteString(v.password.View() + "\n\n")
	switch {
	case v.pending:
		b.WriteString(mutedStyle.Render("Logging in..."))
	case v.err != "":
		b.WriteString(errorStyle.Render("✖ " + v.err))
	default:
		b.WriteString(helpStyle.Render("tab switch field · enter log in"))
	}
	return b.String()
}
