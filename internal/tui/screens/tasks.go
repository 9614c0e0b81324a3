package screens

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tasktrack-io/tasktrack/internal/models"
	"github.com/tasktrack-io/tasktrack/internal/repository"
)

type tasksMode int

const (
	tasksModeList tasksMode = iota
	tasksModeSearch
	tasksModeDetail
)

const tasksPageSize = 50

type Tasks struct {
	store  *repository.Store
	width  int
	height int

	tasks     []models.Task
	history   []models.TaskHistory
	total     int
	cursor    int
	mode      tasksMode
	search    textinput.Model
	keyword   string
	projectID *int64
	loading   bool
	err       error
}

func NewTasks(store *repository.Store) *Tasks {
	ti := textinput.New()
	ti.Placeholder = "Search title or description"
	ti.CharLimit = 100
	ti.Width = 40

	return &Tasks{
		store:  store,
		search: ti,
	}
}

func (t *Tasks) SetSize(width, height int) {
	t.width = width
	t.height = height
}

// SetProjectFilter narrows the list to one project; nil shows everything.
func (t *Tasks) SetProjectFilter(projectID *int64) {
	t.projectID = projectID
	t.cursor = 0
}

type tasksDataMsg struct {
	tasks []models.Task
	total int
	err   error
}

type taskHistoryMsg struct {
	history []models.TaskHistory
	err     error
}

func (t *Tasks) Init() tea.Cmd {
	t.loading = true
	t.mode = tasksModeList
	return t.loadData
}

func (t *Tasks) filters() repository.SearchFilters {
	f := repository.SearchFilters{Keyword: t.keyword}
	if t.projectID != nil {
		f.ProjectIDs = []int64{*t.projectID}
	}
	return f
}

func (t *Tasks) loadData() tea.Msg {
	tasks, err := t.store.Tasks.Search(t.filters(), 0, tasksPageSize)
	if err != nil {
		return tasksDataMsg{err: err}
	}
	total, err := t.store.Tasks.SearchCount(t.filters())
	if err != nil {
		return tasksDataMsg{err: err}
	}
	return tasksDataMsg{tasks: tasks, total: total}
}

func (t *Tasks) loadHistory() tea.Msg {
	if t.cursor >= len(t.tasks) {
		return taskHistoryMsg{}
	}
	history, err := t.store.History.GetByTaskID(t.tasks[t.cursor].ID, "", 0, 10)
	return taskHistoryMsg{history: history, err: err}
}

func (t *Tasks) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tasksDataMsg:
		t.loading = false
		t.err = msg.err
		t.tasks = msg.tasks
		t.total = msg.total
		if t.cursor >= len(t.tasks) {
			t.cursor = max(0, len(t.tasks)-1)
		}
		return nil

	case taskHistoryMsg:
		t.err = msg.err
		t.history = msg.history
		return nil

	case RefreshMsg:
		return t.Init()

	case tea.KeyMsg:
		return t.handleKey(msg)
	}

	if t.mode == tasksModeSearch {
		var cmd tea.Cmd
		t.search, cmd = t.search.Update(msg)
		return cmd
	}

	return nil
}

func (t *Tasks) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch t.mode {
	case tasksModeSearch:
		switch msg.String() {
		case "enter":
			t.keyword = strings.TrimSpace(t.search.Value())
			t.mode = tasksModeList
			t.search.Blur()
			return t.loadData
		case "esc":
			t.mode = tasksModeList
			t.search.Blur()
		default:
			var cmd tea.Cmd
			t.search, cmd = t.search.Update(msg)
			return cmd
		}
		return nil

	case tasksModeDetail:
		switch msg.String() {
		case "q", "esc", "enter":
			t.mode = tasksModeList
		}
		return nil
	}

	switch msg.String() {
	case "up", "k":
		if t.cursor > 0 {
			t.cursor--
		}
	case "down", "j":
		if t.cursor < len(t.tasks)-1 {
			t.cursor++
		}
	case "/":
		t.mode = tasksModeSearch
		t.search.SetValue(t.keyword)
		t.search.Focus()
	case "enter":
		if len(t.tasks) > 0 {
			t.mode = tasksModeDetail
			return t.loadHistory
		}
	case "q", "esc":
		return Navigate("dashboard")
	}
	return nil
}

func (t *Tasks) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("TASKS"))
	b.WriteString("\n\n")

	if t.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if t.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", t.err)))
		b.WriteString("\n\n")
		t.err = nil
	}

	if t.mode == tasksModeSearch {
		b.WriteString("Search tasks:\n")
		b.WriteString(t.search.View())
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render("[enter] Search  [esc] Cancel"))
		return b.String()
	}

	if t.mode == tasksModeDetail && t.cursor < len(t.tasks) {
		return t.detailView()
	}

	if len(t.tasks) == 0 {
		b.WriteString(DimStyle.Render("No tasks found."))
		b.WriteString("\n\n")
	} else {
		for i, task := range t.tasks {
			cursor := "  "
			style := NormalStyle
			if i == t.cursor {
				cursor = "> "
				style = SelectedStyle
			}

			line := fmt.Sprintf("%s%-14s %-10s %-8s %s",
				cursor, task.Code, task.StatusName, task.PriorityName, task.Title)
			b.WriteString(style.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(DimStyle.Render(fmt.Sprintf("Showing %d of %d", len(t.tasks), t.total)))
		b.WriteString("\n")
	}

	help := "[/] Search  [enter] Details  [q] Back"
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}

func (t *Tasks) detailView() string {
	task := t.tasks[t.cursor]

	var b strings.Builder
	b.WriteString(TitleStyle.Render(task.Code))
	b.WriteString("\n\n")

	var detail strings.Builder
	detail.WriteString(fmt.Sprintf("Title:    %s\n", task.Title))
	if task.Description != nil {
		detail.WriteString(fmt.Sprintf("Desc:     %s\n", *task.Description))
	}
	detail.WriteString(fmt.Sprintf("Project:  %s\n", task.ProjectName))
	detail.WriteString(fmt.Sprintf("Status:   %s\n", task.StatusName))
	detail.WriteString(fmt.Sprintf("Priority: %s\n", task.PriorityName))
	detail.WriteString(fmt.Sprintf("Type:     %s\n", task.TypeName))
	if task.AssigneeUserID != nil {
		detail.WriteString(fmt.Sprintf("Assignee: user %d\n", *task.AssigneeUserID))
	}
	detail.WriteString(fmt.Sprintf("Reporter: user %d\n", task.ReporterUserID))
	if task.StartDate != nil {
		detail.WriteString(fmt.Sprintf("Start:    %s\n", task.StartDate.Format("Jan 02, 2006")))
	}
	if task.DueDate != nil {
		detail.WriteString(fmt.Sprintf("Due:      %s\n", task.DueDate.Format("Jan 02, 2006")))
	}
	if task.Duration != nil {
		detail.WriteString(fmt.Sprintf("Duration: %.2f hours\n", *task.Duration))
	}
	b.WriteString(BoxStyle.Render(strings.TrimRight(detail.String(), "\n")))
	b.WriteString("\n\n")

	if len(t.history) > 0 {
		b.WriteString(SubtitleStyle.Render("Recent changes"))
		b.WriteString("\n")
		for _, h := range t.history {
			b.WriteString(fmt.Sprintf("  %s %s: %s -> %s (user %d)\n",
				DimStyle.Render(h.CreatedAt.Format(time.DateOnly)),
				h.FieldName,
				renderValue(h.OldValue),
				renderValue(h.NewValue),
				h.ActorUserID,
			))
		}
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render("[esc] Back to list"))
	return b.String()
}

func renderValue(v *string) string {
	if v == nil {
		return "(unset)"
	}
	return *v
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
