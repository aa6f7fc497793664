package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the editor keys for the help bar. The transport and edit
// keys themselves are handled by the keys dispatcher.
type keyMap struct {
	Play       key.Binding
	Step       key.Binding
	Jump       key.Binding
	Volume     key.Binding
	Rate       key.Binding
	Zoom       key.Binding
	Split      key.Binding
	Delete     key.Binding
	AddTrack   key.Binding
	AddClip    key.Binding
	NextClip   key.Binding
	Rename     key.Binding
	Content    key.Binding
	Lock       key.Binding
	Hide       key.Binding
	Reorder    key.Binding
	RemoveTrk  key.Binding
	RenameTrk  key.Binding
	TrackVol   key.Binding
	Mute       key.Binding
	Fullscreen key.Binding
	Snap       key.Binding
	Scroll     key.Binding
	Scenes     key.Binding
	Preview    key.Binding
	Copy       key.Binding
	Save       key.Binding
	Dismiss    key.Binding
	Help       key.Binding
	Quit       key.Binding
}

var editorKeys = keyMap{
	Play:       key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
	Step:       key.NewBinding(key.WithKeys("left", "right", "shift+left", "shift+right"), key.WithHelp("←/→", "step (shift ×10)")),
	Jump:       key.NewBinding(key.WithKeys("home", "end"), key.WithHelp("home/end", "start/end")),
	Volume:     key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "volume")),
	Rate:       key.NewBinding(key.WithKeys("[", "]"), key.WithHelp("[/]", "speed")),
	Zoom:       key.NewBinding(key.WithKeys("alt+-", "alt+=", "alt+0"), key.WithHelp("alt -/=/0", "zoom")),
	Split:      key.NewBinding(key.WithKeys("ctrl+s", "alt+s"), key.WithHelp("ctrl+s", "split")),
	Delete:     key.NewBinding(key.WithKeys("delete", "backspace"), key.WithHelp("del", "delete clip")),
	AddTrack:   key.NewBinding(key.WithKeys("v", "a", "t"), key.WithHelp("v/a/t", "add track")),
	AddClip:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "add clip")),
	NextClip:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next clip")),
	Rename:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
	Content:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit text")),
	Lock:       key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "lock track")),
	Hide:       key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hide track")),
	Reorder:    key.NewBinding(key.WithKeys("K", "J"), key.WithHelp("K/J", "move track")),
	RemoveTrk:  key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "remove track")),
	RenameTrk:  key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "rename track")),
	TrackVol:   key.NewBinding(key.WithKeys(",", "."), key.WithHelp(",/.", "track volume")),
	Mute:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
	Fullscreen: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fullscreen")),
	Snap:       key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "snap")),
	Scroll:     key.NewBinding(key.WithKeys("<", ">"), key.WithHelp("</>", "scroll")),
	Scenes:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "scenes")),
	Preview:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview")),
	Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy timecode")),
	Save:       key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("ctrl+w", "save")),
	Dismiss:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Step, k.Split, k.Delete, k.AddClip, k.Scenes, k.Save, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Play, k.Step, k.Jump, k.Volume, k.Rate, k.Mute, k.Fullscreen},
		{k.Zoom, k.Scroll, k.Snap, k.Split, k.Delete, k.AddClip, k.NextClip},
		{k.Rename, k.Content, k.AddTrack, k.Lock, k.Hide, k.Reorder, k.RenameTrk, k.RemoveTrk, k.TrackVol},
		{k.Scenes, k.Preview, k.Copy, k.Save, k.Dismiss, k.Help, k.Quit},
	}
}
