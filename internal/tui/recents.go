package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/panehost/internal/window"
)

// recentItem implements list.Item for the recents picker.
type recentItem struct {
	cfg  window.Config
	open bool
}

func (i recentItem) Title() string {
	prefix := "  "
	if i.open {
		prefix = "* "
	}
	if i.cfg.Title != "" {
		return prefix + i.cfg.Title
	}
	return prefix + i.cfg.ID
}

func (i recentItem) Description() string { return i.cfg.ContentURL }
func (i recentItem) FilterValue() string { return i.cfg.Title + " " + i.cfg.ContentURL }

// recentsOverlay lists recently opened windows; enter reopens one.
type recentsOverlay struct {
	list   list.Model
	active bool
}

func newRecentsOverlay() recentsOverlay {
	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Recently opened"
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return recentsOverlay{list: l}
}

// Show fills the list, marking entries whose content is already open.
func (o *recentsOverlay) Show(items []window.Config, open map[string]bool, width, height int) {
	listItems := make([]list.Item, len(items))
	for i, cfg := range items {
		listItems[i] = recentItem{cfg: cfg, open: open[cfg.ContentURL]}
	}
	o.list.SetItems(listItems)
	o.list.SetSize(width, height)
	o.list.Select(0)
	o.active = true
}

func (o *recentsOverlay) Hide() {
	o.active = false
}

func (o recentsOverlay) Active() bool {
	return o.active
}

// Update handles a key while the overlay is shown. It returns the config to
// reopen when the user picked one.
func (o recentsOverlay) Update(msg tea.Msg) (recentsOverlay, *window.Config, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc", "q", "r":
			o.active = false
			return o, nil, nil
		case "enter":
			o.active = false
			if item, ok := o.list.SelectedItem().(recentItem); ok {
				cfg := item.cfg.Clone()
				return o, &cfg, nil
			}
			return o, nil, nil
		}
	}
	var cmd tea.Cmd
	o.list, cmd = o.list.Update(msg)
	return o, nil, cmd
}

func (o recentsOverlay) View() string {
	if len(o.list.Items()) == 0 {
		return lipgloss.NewStyle().Padding(1, 2).Render("No recently opened windows.")
	}
	return o.list.View()
}
