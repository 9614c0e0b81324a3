package screens

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tasktrack-io/tasktrack/internal/models"
	"github.com/tasktrack-io/tasktrack/internal/repository"
	"github.com/tasktrack-io/tasktrack/internal/service"
)

type projectsMode int

const (
	projectsModeList projectsMode = iota
	projectsModeAdd
	projectsModeEdit
	projectsModeDelete
)

type Projects struct {
	store  *repository.Store
	svc    *service.ProjectService
	actor  service.Actor
	width  int
	height int

	projects []models.Project
	cursor   int
	mode     projectsMode
	input    textinput.Model
	loading  bool
	err      error
	message  string
}

func NewProjects(store *repository.Store, svc *service.ProjectService, actor service.Actor) *Projects {
	ti := textinput.New()
	ti.Placeholder = "CODE Project name"
	ti.CharLimit = 100
	ti.Width = 40

	return &Projects{
		store: store,
		svc:   svc,
		actor: actor,
		input: ti,
	}
}

func (p *Projects) SetSize(width, height int) {
	p.width = width
	p.height = height
}

type projectsDataMsg struct {
	projects []models.Project
	err      error
}

func (p *Projects) Init() tea.Cmd {
	p.loading = true
	p.mode = projectsModeList
	p.message = ""
	return p.loadData
}

func (p *Projects) loadData() tea.Msg {
	projects, err := p.store.Projects.GetAllWithStats()
	return projectsDataMsg{projects: projects, err: err}
}

func (p *Projects) Update(msg tea.Msg) tea.Cmd {
	// In input mode, pass messages to text input first
	if p.mode == projectsModeAdd || p.mode == projectsModeEdit {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "enter":
				return p.handleInputKey()
			case "esc":
				p.mode = projectsModeList
				p.input.Blur()
				return nil
			}
		}
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return cmd
	}

	switch msg := msg.(type) {
	case projectsDataMsg:
		p.loading = false
		p.err = msg.err
		p.projects = msg.projects
		if p.cursor >= len(p.projects) {
			p.cursor = max(0, len(p.projects)-1)
		}
		return nil

	case RefreshMsg:
		return p.Init()

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	return nil
}

func (p *Projects) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch p.mode {
	case projectsModeList:
		return p.handleListKey(msg)
	case projectsModeDelete:
		return p.handleDeleteKey(msg)
	}
	return nil
}

func (p *Projects) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.projects)-1 {
			p.cursor++
		}
	case "a":
		p.mode = projectsModeAdd
		p.input.SetValue("")
		p.input.Focus()
	case "e":
		if len(p.projects) > 0 {
			p.mode = projectsModeEdit
			p.input.SetValue(p.projects[p.cursor].Name)
			p.input.Focus()
		}
	case "d":
		if len(p.projects) > 0 {
			p.mode = projectsModeDelete
		}
	case "enter":
		if len(p.projects) > 0 {
			return NavigateWithProject("tasks", p.projects[p.cursor].ID)
		}
	case "q", "esc":
		return Navigate("dashboard")
	}
	return nil
}

// Add mode expects "CODE Name"; edit mode takes the new name only, the
// code is immutable after creation.
func (p *Projects) handleInputKey() tea.Cmd {
	raw := strings.TrimSpace(p.input.Value())
	if raw == "" {
		p.mode = projectsModeList
		p.input.Blur()
		return nil
	}

	if p.mode == projectsModeAdd {
		code, name, ok := strings.Cut(raw, " ")
		if !ok || strings.TrimSpace(name) == "" {
			p.err = fmt.Errorf("expected CODE followed by a name")
			p.mode = projectsModeList
			p.input.Blur()
			return nil
		}
		name = strings.TrimSpace(name)
		_, err := p.svc.Create(service.ProjectCreate{
			Code: strings.ToUpper(code),
			Name: name,
		}, p.actor)
		if err != nil {
			p.err = err
		} else {
			p.message = fmt.Sprintf("Created project: %s", name)
		}
	} else {
		var patch service.ProjectUpdate
		patch.Name = service.Set(raw)
		if _, err := p.svc.Update(p.projects[p.cursor].ID, patch, p.actor); err != nil {
			p.err = err
		} else {
			p.message = fmt.Sprintf("Updated project: %s", raw)
		}
	}
	p.mode = projectsModeList
	p.input.Blur()
	return p.loadData
}

func (p *Projects) handleDeleteKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		name := p.projects[p.cursor].Name
		if err := p.svc.Delete(p.projects[p.cursor].ID, p.actor); err != nil {
			p.err = err
		} else {
			p.message = fmt.Sprintf("Deleted project: %s", name)
		}
		p.mode = projectsModeList
		return p.loadData

	case "n", "N", "esc":
		p.mode = projectsModeList
	}
	return nil
}

func (p *Projects) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("PROJECTS"))
	b.WriteString("\n\n")

	if p.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if p.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", p.err)))
		b.WriteString("\n\n")
		p.err = nil
	}

	if p.message != "" {
		b.WriteString(SuccessStyle.Render(p.message))
		b.WriteString("\n\n")
	}

	if p.mode == projectsModeAdd {
		b.WriteString("New project (CODE Name):\n")
		b.WriteString(p.input.View())
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render("[enter] Save  [esc] Cancel"))
		return b.String()
	}

	if p.mode == projectsModeEdit {
		b.WriteString("Edit project name:\n")
		b.WriteString(p.input.View())
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render("[enter] Save  [esc] Cancel"))
		return b.String()
	}

	if p.mode == projectsModeDelete && len(p.projects) > 0 {
		b.WriteString(WarningStyle.Render(fmt.Sprintf(
			"Delete project '%s'? Its tasks keep their codes but lose the project link. (y/n)",
			p.projects[p.cursor].Name,
		)))
		b.WriteString("\n")
		return b.String()
	}

	if len(p.projects) == 0 {
		b.WriteString(DimStyle.Render("No projects yet."))
		b.WriteString("\n\n")
	} else {
		for i, proj := range p.projects {
			cursor := "  "
			style := NormalStyle
			if i == p.cursor {
				cursor = "> "
				style = SelectedStyle
			}

			line := fmt.Sprintf("%s%s %s - %d tasks",
				cursor,
				DimStyle.Render(proj.Code),
				proj.Name,
				proj.TaskCount,
			)
			b.WriteString(style.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	help := "[a] Add  [e] Edit  [d] Delete  [enter] View tasks  [q] Back"
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}
