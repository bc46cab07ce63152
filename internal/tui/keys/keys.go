package keys

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Scope groups bindings by the screen they act on.
type Scope string

const (
	ScopeGlobal  Scope = "global"
	ScopeSearch  Scope = "search"
	ScopeProject Scope = "project"
	ScopeHistory Scope = "history"
	ScopeProfile Scope = "profile"
)

// Binding is a documented key.
type Binding struct {
	key         string
	label       string
	description string
}

// NewBinding creates a binding matching key. Label is what the help bar
// shows and defaults to key.
func NewBinding(key, description string) Binding {
	return Binding{key: key, label: key, description: description}
}

// WithLabel returns b displayed as label.
func (b Binding) WithLabel(label string) Binding {
	b.label = label
	return b
}

func (b Binding) Key() string         { return b.key }
func (b Binding) Label() string       { return b.label }
func (b Binding) Description() string { return b.description }

// Matches reports whether msg is b's key.
func (b Binding) Matches(msg tea.KeyMsg) bool {
	return Match(b.key, msg)
}

// Match reports whether msg is key. Keys use bubbletea names ("enter",
// "ctrl+c", "shift+tab") or the literal rune; runes are case sensitive.
func Match(key string, msg tea.KeyMsg) bool {
	switch key {
	case "esc", "escape":
		return msg.Type == tea.KeyEsc
	case "space":
		return msg.Type == tea.KeySpace
	}
	return msg.String() == key
}

// Digit returns the digit typed in msg.
func Digit(msg tea.KeyMsg) (int, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	if r < '0' || r > '9' {
		return 0, false
	}
	return int(r - '0'), true
}

// KeyMap holds bindings per scope, in registration order.
type KeyMap struct {
	bindings map[Scope][]Binding
}

// NewKeyMap creates an empty key map.
func NewKeyMap() *KeyMap {
	return &KeyMap{bindings: make(map[Scope][]Binding)}
}

// Register adds b to scope.
func (km *KeyMap) Register(scope Scope, b Binding) {
	km.bindings[scope] = append(km.bindings[scope], b)
}

// Bindings returns the bindings of scope.
func (km *KeyMap) Bindings(scope Scope) []Binding {
	return km.bindings[scope]
}

// Find returns the binding of scope that matches msg.
func (km *KeyMap) Find(scope Scope, msg tea.KeyMsg) (Binding, bool) {
	for _, b := range km.bindings[scope] {
		if b.Matches(msg) {
			return b, true
		}
	}
	return Binding{}, false
}

// DefaultKeyMap is the key map of the recommendation TUI.
func DefaultKeyMap() *KeyMap {
	km := NewKeyMap()

	km.Register(ScopeGlobal, NewBinding("tab", "next screen"))
	km.Register(ScopeGlobal, NewBinding("shift+tab", "previous screen"))
	km.Register(ScopeGlobal, NewBinding("L", "sign in / out"))
	km.Register(ScopeGlobal, NewBinding("U", "sign up"))
	km.Register(ScopeGlobal, NewBinding("?", "help"))
	km.Register(ScopeGlobal, NewBinding("q", "quit"))

	km.Register(ScopeSearch, NewBinding("/", "edit query"))
	km.Register(ScopeSearch, NewBinding("enter", "search / open"))
	km.Register(ScopeSearch, NewBinding("j", "down").WithLabel("j/k"))
	km.Register(ScopeSearch, NewBinding("d", "difficulty"))
	km.Register(ScopeSearch, NewBinding("o", "source"))
	km.Register(ScopeSearch, NewBinding("m", "semantic"))
	km.Register(ScopeSearch, NewBinding("r", "recent"))
	km.Register(ScopeSearch, NewBinding("y", "copy link"))

	km.Register(ScopeProject, NewBinding("v", "viewed"))
	km.Register(ScopeProject, NewBinding("b", "bookmark"))
	km.Register(ScopeProject, NewBinding("s", "started"))
	km.Register(ScopeProject, NewBinding("c", "completed"))
	km.Register(ScopeProject, NewBinding("1", "rate").WithLabel("1-5"))
	km.Register(ScopeProject, NewBinding("j", "scroll").WithLabel("j/k"))
	km.Register(ScopeProject, NewBinding("y", "copy repo"))
	km.Register(ScopeProject, NewBinding("esc", "back"))

	km.Register(ScopeHistory, NewBinding("j", "down").WithLabel("j/k"))
	km.Register(ScopeHistory, NewBinding("enter", "open"))
	km.Register(ScopeHistory, NewBinding("t", "type"))
	km.Register(ScopeHistory, NewBinding("x", "delete"))
	km.Register(ScopeHistory, NewBinding("r", "refresh"))

	km.Register(ScopeProfile, NewBinding("e", "edit profile"))
	km.Register(ScopeProfile, NewBinding("E", "edit details"))
	km.Register(ScopeProfile, NewBinding("r", "refresh"))

	return km
}
