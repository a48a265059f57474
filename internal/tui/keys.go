package tui

import "github.com/charmbracelet/bubbles/key"

// Navigation keys are all ctrl chords so they never collide with typing.
type keyMap struct {
	Home      key.Binding
	Public    key.Binding
	Protected key.Binding
	Back      key.Binding
	SignOut   key.Binding
	Quit      key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Home, k.Public, k.Protected, k.Back, k.SignOut, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

func defaultKeys() keyMap {
	return keyMap{
		Home:      key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "home")),
		Public:    key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "public")),
		Protected: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "protected")),
		Back:      key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "back")),
		SignOut:   key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "sign out")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

var (
	addKey     = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	toggleKey  = key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle"))
	deleteKey  = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	refreshKey = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh"))
)
