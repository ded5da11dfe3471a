package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	quit         key.Binding
	reload       key.Binding
	toggleHelp   key.Binding
	left         key.Binding
	right        key.Binding
	up           key.Binding
	down         key.Binding
	start        key.Binding
	pause        key.Binding
	stop         key.Binding
	moveLeft     key.Binding
	moveRight    key.Binding
	deleteCard   key.Binding
	deleteColumn key.Binding
	cancel       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		reload:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		toggleHelp:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		left:         key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "column left")),
		right:        key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "column right")),
		up:           key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "project up")),
		down:         key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "project down")),
		start:        key.NewBinding(key.WithKeys("s", " "), key.WithHelp("s", "start timer")),
		pause:        key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause timer")),
		stop:         key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop timer")),
		moveLeft:     key.NewBinding(key.WithKeys("["), key.WithHelp("[", "move left")),
		moveRight:    key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "move right")),
		deleteCard:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete project")),
		deleteColumn: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete column")),
		cancel:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.start, k.pause, k.stop, k.moveLeft, k.moveRight, k.toggleHelp, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.left, k.right, k.up, k.down},
		{k.start, k.pause, k.stop},
		{k.moveLeft, k.moveRight, k.deleteCard, k.deleteColumn, k.cancel},
		{k.reload, k.toggleHelp, k.quit},
	}
}
