// Package tui is an interactive terminal front end for the task tracker API.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Tomlord1122/task-tracker/internal/client"
)

// TaskAPI is the subset of the API client the TUI uses.
type TaskAPI interface {
	ListTasks(ctx context.Context) ([]client.Task, error)
	CreateTask(ctx context.Context, in client.CreateTaskInput) (*client.Task, error)
	UpdateTask(ctx context.Context, id int64, in client.UpdateTaskInput) (*client.Task, error)
	DeleteTask(ctx context.Context, id int64) (*client.Task, error)
}

const requestTimeout = 10 * time.Second

var errEmptyTitle = errors.New("title cannot be empty")

type mode int

const (
	modeBrowse mode = iota
	modeAddTitle
	modeAddDescription
	modeEditTitle
	modeEditDescription
)

// messages produced by commands
type (
	tasksLoadedMsg struct{ tasks []client.Task }
	mutatedMsg     struct{}
	errMsg         struct{ err error }
)

// taskItem adapts client.Task to list.Item.
type taskItem struct {
	task client.Task
}

func (i taskItem) Title() string { return i.task.Title }

func (i taskItem) Description() string {
	if i.task.Description == nil {
		return ""
	}
	return *i.task.Description
}

func (i taskItem) FilterValue() string { return i.task.Title }

type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(taskItem)
	if !ok {
		return
	}
	fmt.Fprintln(w, renderTask(it.task, index == m.Index()))
}

func renderTask(t client.Task, selected bool) string {
	badge := pendingStyle.Render("[" + badgePending + "]")
	text := t.Title
	if t.Description != nil && *t.Description != "" {
		text += ": " + *t.Description
	}
	if t.Done {
		badge = successStyle.Render("[" + badgeDone + "]")
		text = doneStyle.Render(text)
	}

	prefix := "  "
	if selected {
		prefix = selectedStyle.Render("> ")
	}
	return prefix + badge + " " + text
}

type keyMap struct {
	add, edit, toggle, delete, refresh key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

func (k keyMap) bindings() []key.Binding {
	return []key.Binding{k.add, k.edit, k.toggle, k.delete, k.refresh}
}

// Model is the bubbletea model for the task list.
type Model struct {
	api  TaskAPI
	list list.Model
	ti   textinput.Model
	keys keyMap

	mode    mode
	draft   client.Task // task being added or edited
	err     error
	loading bool
	width   int
	height  int
}

// New returns a Model backed by api.
func New(api TaskAPI) Model {
	keys := newKeyMap()

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")
	l.AdditionalShortHelpKeys = keys.bindings
	l.AdditionalFullHelpKeys = keys.bindings

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 500

	m := Model{api: api, list: l, ti: ti, keys: keys, loading: true, width: 80, height: 24}
	m.list.Title = header(nil)
	m.resize()
	return m
}

// Run starts the program on the alternate screen.
func Run(api TaskAPI) error {
	_, err := tea.NewProgram(New(api), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.loadTasks()
}

func (m Model) loadTasks() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		tasks, err := api.ListTasks(ctx)
		if err != nil {
			return errMsg{err}
		}
		return tasksLoadedMsg{tasks}
	}
}

// mutate runs fn and reports success as mutatedMsg so the list is reloaded.
func (m Model) mutate(fn func(ctx context.Context, api TaskAPI) error) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := fn(ctx, api); err != nil {
			return errMsg{err}
		}
		return mutatedMsg{}
	}
}

func (m Model) selected() (client.Task, bool) {
	it, ok := m.list.SelectedItem().(taskItem)
	return it.task, ok
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case tasksLoadedMsg:
		m.loading = false
		items := make([]list.Item, 0, len(msg.tasks))
		for _, t := range msg.tasks {
			items = append(items, taskItem{task: t})
		}
		m.list.Title = header(msg.tasks)
		return m, m.list.SetItems(items)
	case mutatedMsg:
		m.err = nil
		m.loading = true
		return m, m.loadTasks()
	case errMsg:
		m.loading = false
		m.err = msg.err
		return m, nil
	}

	if m.mode != modeBrowse {
		return m.updateInput(msg)
	}

	if k, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case k.String() == "q" || k.String() == "ctrl+c":
			return m, tea.Quit
		case key.Matches(k, m.keys.add):
			m.draft = client.Task{}
			return m.startInput(modeAddTitle, "", "Task title..."), textinput.Blink
		case key.Matches(k, m.keys.edit):
			t, ok := m.selected()
			if !ok {
				return m, nil
			}
			m.draft = t
			return m.startInput(modeEditTitle, t.Title, "Task title..."), textinput.Blink
		case key.Matches(k, m.keys.toggle):
			t, ok := m.selected()
			if !ok {
				return m, nil
			}
			return m, m.mutate(func(ctx context.Context, api TaskAPI) error {
				_, err := api.UpdateTask(ctx, t.ID, client.UpdateTaskInput{Done: client.Bool(!t.Done)})
				return err
			})
		case key.Matches(k, m.keys.delete):
			t, ok := m.selected()
			if !ok {
				return m, nil
			}
			return m, m.mutate(func(ctx context.Context, api TaskAPI) error {
				_, err := api.DeleteTask(ctx, t.ID)
				return err
			})
		case key.Matches(k, m.keys.refresh):
			m.loading = true
			return m, m.loadTasks()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) startInput(md mode, value, placeholder string) Model {
	m.mode = md
	m.err = nil
	m.ti.SetValue(value)
	m.ti.CursorEnd()
	m.ti.Placeholder = placeholder
	m.ti.Focus()
	m.resize()
	return m
}

func (m Model) stopInput() Model {
	m.mode = modeBrowse
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize()
	return m
}

// updateInput handles keys while the title or description input is active.
func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if ok {
		switch k.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			return m.stopInput(), nil
		case "enter":
			return m.submitInput()
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.ti.Value())

	switch m.mode {
	case modeAddTitle, modeEditTitle:
		if value == "" {
			m.err = errEmptyTitle
			return m, nil
		}
		m.draft.Title = value
		desc := ""
		if m.mode == modeEditTitle && m.draft.Description != nil {
			desc = *m.draft.Description
		}
		next := modeAddDescription
		if m.mode == modeEditTitle {
			next = modeEditDescription
		}
		return m.startInput(next, desc, "Description (optional)..."), nil

	case modeAddDescription:
		in := client.CreateTaskInput{Title: client.String(m.draft.Title)}
		if value != "" {
			in.Description = client.String(value)
		}
		m = m.stopInput()
		return m, m.mutate(func(ctx context.Context, api TaskAPI) error {
			_, err := api.CreateTask(ctx, in)
			return err
		})

	case modeEditDescription:
		id := m.draft.ID
		in := client.UpdateTaskInput{
			Title:       client.String(m.draft.Title),
			Description: client.String(value),
		}
		m = m.stopInput()
		return m, m.mutate(func(ctx context.Context, api TaskAPI) error {
			_, err := api.UpdateTask(ctx, id, in)
			return err
		})
	}
	return m, nil
}

func (m *Model) resize() {
	h := m.height - 4
	if m.mode != modeBrowse {
		h -= 4
	}
	if m.err != nil {
		h--
	}
	if h < 1 {
		h = 1
	}
	m.list.SetSize(m.width-4, h)
}

func (m Model) View() string {
	content := m.list.View()

	if m.mode != modeBrowse {
		label := map[mode]string{
			modeAddTitle:        "New task: title",
			modeAddDescription:  "New task: description",
			modeEditTitle:       "Edit task: title",
			modeEditDescription: "Edit task: description",
		}[m.mode]
		content += "\n" + panelStyle.Render(label+"\n"+m.ti.View())
	}
	if m.loading {
		content += "\n" + mutedStyle.Render("loading...")
	}
	if m.err != nil {
		content += "\n" + errorStyle.Render("✖ "+m.err.Error())
	}
	return panelStyle.Render(content)
}

// header renders the list title with live counts.
func header(tasks []client.Task) string {
	done, pending := stats(tasks)
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("Tasks"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), pending,
		accentStyle.Render("Total"), len(tasks),
	)
}

func stats(tasks []client.Task) (done, pending int) {
	for _, t := range tasks {
		if t.Done {
			done++
		} else {
			pending++
		}
	}
	return
}
