package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tasktrack-io/tasktrack/internal/config"
	"github.com/tasktrack-io/tasktrack/internal/repository"
	"github.com/tasktrack-io/tasktrack/internal/service"
	"github.com/tasktrack-io/tasktrack/internal/tui/screens"
)

type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenTasks
	ScreenProjects
)

type App struct {
	store         *repository.Store
	cfg           *config.Config
	actor         service.Actor
	currentScreen Screen
	width         int
	height        int

	// Screen models
	dashboard *screens.Dashboard
	tasks     *screens.Tasks
	projects  *screens.Projects

	// Navigation context
	selectedProjectID *int64
}

func NewApp(store *repository.Store, cfg *config.Config, actor service.Actor) *App {
	return &App{
		store:         store,
		cfg:           cfg,
		actor:         actor,
		currentScreen: ScreenDashboard,
	}
}

func (a *App) Init() tea.Cmd {
	projects := service.NewProjectService(a.store, a.cfg.MinRoleLevel)

	actorName := ""
	if user, ok := a.cfg.LookupUser(a.actor.UserID); ok {
		actorName = user.FullName
	}

	a.dashboard = screens.NewDashboard(a.store, a.actor.UserID, actorName)
	a.tasks = screens.NewTasks(a.store)
	a.projects = screens.NewProjects(a.store, projects, a.actor)

	return a.dashboard.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if a.currentScreen == ScreenDashboard {
				return a, tea.Quit
			}
			// Let individual screens handle 'q' for going back
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.dashboard.SetSize(msg.Width, msg.Height)
		a.tasks.SetSize(msg.Width, msg.Height)
		a.projects.SetSize(msg.Width, msg.Height)

	case screens.NavigateMsg:
		return a.handleNavigation(msg)
	}

	// Update current screen
	var cmd tea.Cmd
	switch a.currentScreen {
	case ScreenDashboard:
		cmd = a.dashboard.Update(msg)
	case ScreenTasks:
		cmd = a.tasks.Update(msg)
	case ScreenProjects:
		cmd = a.projects.Update(msg)
	}

	return a, cmd
}

func (a *App) handleNavigation(msg screens.NavigateMsg) (tea.Model, tea.Cmd) {
	switch msg.Screen {
	case "dashboard":
		a.currentScreen = ScreenDashboard
		a.selectedProjectID = nil
		return a, a.dashboard.Init()
	case "tasks":
		a.currentScreen = ScreenTasks
		a.selectedProjectID = msg.ProjectID
		a.tasks.SetProjectFilter(msg.ProjectID)
		return a, a.tasks.Init()
	case "projects":
		a.currentScreen = ScreenProjects
		return a, a.projects.Init()
	}
	return a, nil
}

func (a *App) View() string {
	var content string

	switch a.currentScreen {
	case ScreenDashboard:
		content = a.dashboard.View()
	case ScreenTasks:
		content = a.tasks.View()
	case ScreenProjects:
		content = a.projects.View()
	}

	return lipgloss.NewStyle().
		Width(a.width).
		Height(a.height).
		Render(content)
}

func Run(store *repository.Store, cfg *config.Config, actor service.Actor) error {
	app := NewApp(store, cfg, actor)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
