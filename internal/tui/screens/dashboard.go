package screens

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tasktrack-io/tasktrack/internal/models"
	"github.com/tasktrack-io/tasktrack/internal/repository"
)

type Dashboard struct {
	store     *repository.Store
	userID    int64
	actorName string
	width     int
	height    int

	totalTasks   int
	statusCounts []repository.StatusCount
	user         *repository.UserDashboard
	projects     []models.Project
	loading      bool
	err          error
}

func NewDashboard(store *repository.Store, userID int64, actorName string) *Dashboard {
	return &Dashboard{
		store:     store,
		userID:    userID,
		actorName: actorName,
		loading:   true,
	}
}

func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}

type dashboardDataMsg struct {
	totalTasks   int
	statusCounts []repository.StatusCount
	user         *repository.UserDashboard
	projects     []models.Project
	err          error
}

func (d *Dashboard) Init() tea.Cmd {
	d.loading = true
	return d.loadData
}

func (d *Dashboard) loadData() tea.Msg {
	total, err := d.store.Tasks.Count()
	if err != nil {
		return dashboardDataMsg{err: err}
	}

	statusCounts, err := d.store.Tasks.CountByStatus()
	if err != nil {
		return dashboardDataMsg{err: err}
	}

	user, err := d.store.Tasks.GetUserDashboard(d.userID, time.Now().UTC())
	if err != nil {
		return dashboardDataMsg{err: err}
	}

	projects, err := d.store.Projects.GetAllWithStats()
	if err != nil {
		return dashboardDataMsg{err: err}
	}

	return dashboardDataMsg{
		totalTasks:   total,
		statusCounts: statusCounts,
		user:         user,
		projects:     projects,
	}
}

func (d *Dashboard) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.loading = false
		d.err = msg.err
		d.totalTasks = msg.totalTasks
		d.statusCounts = msg.statusCounts
		d.user = msg.user
		d.projects = msg.projects
		return nil

	case RefreshMsg:
		return d.Init()

	case tea.KeyMsg:
		switch msg.String() {
		case "t":
			return Navigate("tasks")
		case "p":
			return Navigate("projects")
		}
	}

	return nil
}

func (d *Dashboard) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("TASKTRACK"))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("Project & Task Tracker"))
	b.WriteString("\n\n")

	if d.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if d.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", d.err)))
		b.WriteString("\n")
		return b.String()
	}

	// Status rollup box
	var stats strings.Builder
	stats.WriteString(fmt.Sprintf("Total tasks: %d\n", d.totalTasks))
	for _, c := range d.statusCounts {
		stats.WriteString(fmt.Sprintf("%-12s %d\n", c.StatusName, c.Count))
	}
	b.WriteString(BoxStyle.Render(strings.TrimRight(stats.String(), "\n")))
	b.WriteString("\n\n")

	// Personal rollup
	if d.user != nil {
		header := "Your work"
		if d.actorName != "" {
			header = fmt.Sprintf("Your work (%s)", d.actorName)
		}
		b.WriteString(SubtitleStyle.Render(header))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  Assigned: %d (%d to do, %d in progress, %d in review, %d done)\n",
			d.user.AssignedTotal, d.user.AssignedTodo, d.user.AssignedInProgress,
			d.user.AssignedInReview, d.user.AssignedDone))
		b.WriteString(fmt.Sprintf("  Overdue: %s\n", d.formatOverdue()))
		b.WriteString(fmt.Sprintf("  Reported: %d (%d pending, %d completed)\n",
			d.user.ReportedTotal, d.user.ReportedPending, d.user.ReportedCompleted))
		b.WriteString("\n")
	}

	// Projects summary
	if len(d.projects) > 0 {
		b.WriteString(SubtitleStyle.Render("Projects"))
		b.WriteString("\n")
		for _, p := range d.projects {
			b.WriteString(fmt.Sprintf("  %s %s - %d tasks\n",
				DimStyle.Render(p.Code),
				NormalStyle.Render(p.Name),
				p.TaskCount,
			))
		}
	} else {
		b.WriteString(DimStyle.Render("No projects yet. Use 'tasktrack seed' to create sample data."))
	}

	b.WriteString("\n")

	help := "[t] Tasks  [p] Projects  [q] Quit"
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}

func (d *Dashboard) formatOverdue() string {
	if d.user.AssignedOverdue == 0 {
		return SuccessStyle.Render("0")
	}
	return WarningStyle.Render(fmt.Sprintf("%d", d.user.AssignedOverdue))
}
