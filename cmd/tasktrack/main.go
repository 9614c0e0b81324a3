package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tasktrack-io/tasktrack/internal/config"
	"github.com/tasktrack-io/tasktrack/internal/db"
	"github.com/tasktrack-io/tasktrack/internal/models"
	"github.com/tasktrack-io/tasktrack/internal/repository"
	"github.com/tasktrack-io/tasktrack/internal/service"
	"github.com/tasktrack-io/tasktrack/internal/tui"
)

var (
	actorUserID int64
	actorRole   int
)

var rootCmd = &cobra.Command{
	Use:   "tasktrack",
	Short: "Project and task tracker",
	Long:  `Tasktrack manages projects, tasks and their change history from your terminal.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, store := mustOpen()

		if err := tui.Run(store, cfg, actorFromFlags()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run pending database migrations",
	Run: func(cmd *cobra.Command, args []string) {
		path, err := config.DatabasePath()
		if err != nil {
			fail(err)
		}
		if err := config.EnsureDirectories(); err != nil {
			fail(err)
		}

		database, err := db.Open(path)
		if err != nil {
			fail(err)
		}
		defer database.Close()

		status, err := db.GetMigrationStatus(database)
		if err != nil {
			fail(err)
		}
		if !status.Pending && status.CurrentVersion > 0 {
			fmt.Printf("Database is up to date (version %d).\n", status.CurrentVersion)
			return
		}

		if err := db.RunMigrations(database); err != nil {
			fail(err)
		}
		fmt.Println("Migrations applied.")
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a sample project with a few tasks",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, store := mustOpen()
		actor := actorFromFlags()

		projects := service.NewProjectService(store, cfg.MinRoleLevel)
		tasks := service.NewTaskService(store, cfg.MinRoleLevel)

		project, err := projects.Create(service.ProjectCreate{
			Code:        "DEMO",
			Name:        "Demo project",
			Description: "Sample data created by 'tasktrack seed'",
		}, actor)
		if err != nil {
			fail(err)
		}

		statuses, err := store.Statuses.GetAll()
		if err != nil || len(statuses) == 0 {
			fail(fmt.Errorf("no statuses seeded, run 'tasktrack migrate' first"))
		}
		priorities, err := store.Priorities.GetAll()
		if err != nil || len(priorities) == 0 {
			fail(fmt.Errorf("no priorities seeded, run 'tasktrack migrate' first"))
		}
		types, err := store.TaskTypes.GetAll()
		if err != nil || len(types) == 0 {
			fail(fmt.Errorf("no task types seeded, run 'tasktrack migrate' first"))
		}

		titles := []string{
			"Set up the project board",
			"Write the onboarding guide",
			"Review open pull requests",
		}
		for i, title := range titles {
			task, err := tasks.Create(service.TaskCreate{
				Title:          title,
				ProjectID:      &project.ID,
				StatusID:       statuses[0].ID,
				PriorityID:     priorities[i%len(priorities)].ID,
				TypeID:         types[i%len(types)].ID,
				ReporterUserID: actor.UserID,
			}, actor)
			if err != nil {
				fail(err)
			}
			fmt.Printf("Created %s: %s\n", task.Code, task.Title)
		}

		fmt.Printf("Seeded project %s with %d tasks.\n", project.Code, len(titles))
	},
}

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Send reminders for tasks starting on a given day",
	Long: `Scan for assigned tasks whose start date falls on the given day and
send each assignee a reminder. Without --date, today is used. Reminders
are printed to stdout; mail delivery is left to an external transport.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, store := mustOpen()

		day := time.Now()
		if dateArg, _ := cmd.Flags().GetString("date"); dateArg != "" {
			parsed, err := time.Parse("2006-01-02", dateArg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Invalid date: %s (expected YYYY-MM-DD)\n", dateArg)
				os.Exit(1)
			}
			day = parsed
		}

		reminders := service.NewReminderService(store, directoryFromConfig(cfg), stdoutSender{})
		summary, err := reminders.Run(day)
		if err != nil {
			fail(err)
		}

		fmt.Printf("Tasks starting %s: %d\n", day.Format("2006-01-02"), summary.TotalTasks)
		fmt.Printf("Sent: %d  Failed: %d  Success rate: %.2f%%\n",
			summary.EmailsSent, summary.EmailsFailed, summary.SuccessRate)
		if len(summary.FailedTasks) > 0 {
			fmt.Printf("Failed tasks: %s\n", strings.Join(summary.FailedTasks, ", "))
		}
	},
}

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks from the command line",
}

var taskCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a task in a project",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, store := mustOpen()
		actor := actorFromFlags()
		tasks := service.NewTaskService(store, cfg.MinRoleLevel)

		projectID, _ := cmd.Flags().GetInt64("project")
		statusID, _ := cmd.Flags().GetInt64("status")
		priorityID, _ := cmd.Flags().GetInt64("priority")
		typeID, _ := cmd.Flags().GetInt64("type")

		input := service.TaskCreate{
			Title:          args[0],
			ProjectID:      &projectID,
			StatusID:       statusID,
			PriorityID:     priorityID,
			TypeID:         typeID,
			ReporterUserID: actor.UserID,
		}
		if assignee, _ := cmd.Flags().GetInt64("assignee"); assignee != 0 {
			input.AssigneeUserID = &assignee
		}

		task, err := tasks.Create(input, actor)
		if err != nil {
			fail(err)
		}
		fmt.Printf("Created %s: %s\n", task.Code, task.Title)
	},
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields on a task",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, store := mustOpen()
		actor := actorFromFlags()
		tasks := service.NewTaskService(store, cfg.MinRoleLevel)

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid task id: %s\n", args[0])
			os.Exit(1)
		}

		var patch service.TaskPatch
		if cmd.Flags().Changed("title") {
			v, _ := cmd.Flags().GetString("title")
			patch.Title = service.Set(v)
		}
		if cmd.Flags().Changed("status") {
			v, _ := cmd.Flags().GetInt64("status")
			patch.StatusID = service.Set(v)
		}
		if cmd.Flags().Changed("priority") {
			v, _ := cmd.Flags().GetInt64("priority")
			patch.PriorityID = service.Set(v)
		}
		if cmd.Flags().Changed("assignee") {
			v, _ := cmd.Flags().GetInt64("assignee")
			if v == 0 {
				patch.AssigneeUserID = service.Null[int64]()
			} else {
				patch.AssigneeUserID = service.Set(v)
			}
		}
		if cmd.Flags().Changed("start") {
			patch.StartDate = dateField(cmd, "start")
		}
		if cmd.Flags().Changed("due") {
			patch.DueDate = dateField(cmd, "due")
		}

		task, err := tasks.Update(id, patch, actor)
		if err != nil {
			fail(err)
		}
		fmt.Printf("Updated %s\n", task.Code)
		if task.Duration != nil {
			fmt.Printf("Duration: %.2f hours\n", *task.Duration)
		}
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task and everything attached to it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, store := mustOpen()
		actor := actorFromFlags()
		tasks := service.NewTaskService(store, cfg.MinRoleLevel)

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid task id: %s\n", args[0])
			os.Exit(1)
		}

		if err := tasks.Delete(id, actor); err != nil {
			fail(err)
		}
		fmt.Printf("Deleted task %d\n", id)
	},
}

var taskBulkStatusCmd = &cobra.Command{
	Use:   "bulk-status <status-id> <task-id>...",
	Short: "Move several tasks to one status",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, store := mustOpen()
		actor := actorFromFlags()
		tasks := service.NewTaskService(store, cfg.MinRoleLevel)

		statusID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid status id: %s\n", args[0])
			os.Exit(1)
		}

		var ids []int64
		for _, arg := range args[1:] {
			id, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Invalid task id: %s\n", arg)
				os.Exit(1)
			}
			ids = append(ids, id)
		}

		result, err := tasks.BulkUpdateStatus(ids, statusID, actor)
		if err != nil {
			fail(err)
		}
		fmt.Printf("Updated %d of %d tasks.\n", result.UpdatedCount, len(result.TaskIDs))
	},
}

var taskHistoryCmd = &cobra.Command{
	Use:   "history <id>",
	Short: "Show the change history of a task",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, store := mustOpen()
		actor := actorFromFlags()
		history := service.NewHistoryService(store, cfg.MinRoleLevel)

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid task id: %s\n", args[0])
			os.Exit(1)
		}

		field, _ := cmd.Flags().GetString("field")
		entries, total, err := history.GetTaskHistory(id, field, 0, 100, actor)
		if err != nil {
			fail(err)
		}

		for _, h := range entries {
			fmt.Printf("%s  %-12s %s -> %s (user %d)\n",
				h.CreatedAt.Format("2006-01-02 15:04"),
				h.FieldName, display(h.OldValue), display(h.NewValue), h.ActorUserID)
		}
		fmt.Printf("%d entries.\n", total)
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage statuses, priorities and task types",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the catalog entries",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, store := mustOpen()
		actor := actorFromFlags()
		catalogs := service.NewCatalogService(store, cfg.MinRoleLevel)

		statuses, err := catalogs.ListStatuses(actor)
		if err != nil {
			fail(err)
		}
		priorities, err := catalogs.ListPriorities(actor)
		if err != nil {
			fail(err)
		}
		types, err := catalogs.ListTaskTypes(actor)
		if err != nil {
			fail(err)
		}

		fmt.Println("Statuses:")
		for _, s := range statuses {
			fmt.Printf("  %3d  %-12s %s\n", s.ID, s.Code, s.Name)
		}
		fmt.Println("Priorities:")
		for _, p := range priorities {
			fmt.Printf("  %3d  %-12s %s\n", p.ID, p.Code, p.Name)
		}
		fmt.Println("Task types:")
		for _, tt := range types {
			fmt.Printf("  %3d  %-12s %s\n", tt.ID, tt.Code, tt.Name)
		}
	},
}

var catalogAddCmd = &cobra.Command{
	Use:   "add <status|priority|type> <code> <name>",
	Short: "Add a catalog entry",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, store := mustOpen()
		actor := actorFromFlags()
		catalogs := service.NewCatalogService(store, cfg.MinRoleLevel)

		kind, code, name := args[0], strings.ToUpper(args[1]), args[2]
		order, _ := cmd.Flags().GetInt("order")
		color, _ := cmd.Flags().GetString("color")

		switch kind {
		case "status":
			created, err := catalogs.CreateStatus(&models.Status{Code: code, Name: name, Order: order}, actor)
			if err != nil {
				fail(err)
			}
			fmt.Printf("Created status %d: %s\n", created.ID, created.Name)
		case "priority":
			created, err := catalogs.CreatePriority(&models.Priority{Code: code, Name: name, Color: color, Order: order}, actor)
			if err != nil {
				fail(err)
			}
			fmt.Printf("Created priority %d: %s\n", created.ID, created.Name)
		case "type":
			created, err := catalogs.CreateTaskType(&models.TaskType{Code: code, Name: name}, actor)
			if err != nil {
				fail(err)
			}
			fmt.Printf("Created task type %d: %s\n", created.ID, created.Name)
		default:
			fmt.Fprintf(os.Stderr, "Unknown catalog kind: %s (expected status, priority or type)\n", kind)
			os.Exit(1)
		}
	},
}

var catalogDeleteCmd = &cobra.Command{
	Use:   "delete <status|priority|type> <id>",
	Short: "Delete a catalog entry",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, store := mustOpen()
		actor := actorFromFlags()
		catalogs := service.NewCatalogService(store, cfg.MinRoleLevel)

		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid id: %s\n", args[1])
			os.Exit(1)
		}

		switch args[0] {
		case "status":
			err = catalogs.DeleteStatus(id, actor)
		case "priority":
			err = catalogs.DeletePriority(id, actor)
		case "type":
			err = catalogs.DeleteTaskType(id, actor)
		default:
			fmt.Fprintf(os.Stderr, "Unknown catalog kind: %s (expected status, priority or type)\n", args[0])
			os.Exit(1)
		}
		if err != nil {
			fail(err)
		}
		fmt.Printf("Deleted %s %d\n", args[0], id)
	},
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&actorUserID, "user", 1, "Acting user id")
	rootCmd.PersistentFlags().IntVar(&actorRole, "role", 10, "Acting role level")

	remindCmd.Flags().String("date", "", "Day to scan (YYYY-MM-DD, default today)")

	taskCreateCmd.Flags().Int64("project", 0, "Project id (required)")
	taskCreateCmd.Flags().Int64("status", 1, "Status id")
	taskCreateCmd.Flags().Int64("priority", 2, "Priority id")
	taskCreateCmd.Flags().Int64("type", 1, "Task type id")
	taskCreateCmd.Flags().Int64("assignee", 0, "Assignee user id")
	taskCreateCmd.MarkFlagRequired("project")

	taskUpdateCmd.Flags().String("title", "", "New title")
	taskUpdateCmd.Flags().Int64("status", 0, "New status id")
	taskUpdateCmd.Flags().Int64("priority", 0, "New priority id")
	taskUpdateCmd.Flags().Int64("assignee", 0, "New assignee user id (0 clears)")
	taskUpdateCmd.Flags().String("start", "", "Start date (YYYY-MM-DD, empty clears)")
	taskUpdateCmd.Flags().String("due", "", "Due date (YYYY-MM-DD, empty clears)")

	taskHistoryCmd.Flags().String("field", "", "Filter by field name")

	catalogAddCmd.Flags().Int("order", 0, "Sort order (statuses and priorities)")
	catalogAddCmd.Flags().String("color", "", "Display color (priorities)")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogAddCmd)
	catalogCmd.AddCommand(catalogDeleteCmd)

	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskUpdateCmd)
	taskCmd.AddCommand(taskDeleteCmd)
	taskCmd.AddCommand(taskBulkStatusCmd)
	taskCmd.AddCommand(taskHistoryCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(catalogCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func mustOpen() (*config.Config, *repository.Store) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := config.EnsureDirectories(); err != nil {
		fail(err)
	}

	path, err := config.DatabasePath()
	if err != nil {
		fail(err)
	}

	database, err := db.OpenAndMigrate(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}

	return cfg, repository.NewStore(database)
}

func actorFromFlags() service.Actor {
	return service.Actor{UserID: actorUserID, RoleLevel: actorRole}
}

func directoryFromConfig(cfg *config.Config) service.StaticDirectory {
	users := make([]models.User, 0, len(cfg.Users))
	for _, u := range cfg.Users {
		users = append(users, models.User{ID: u.ID, FullName: u.FullName, Email: u.Email})
	}
	return service.StaticDirectory{Users: users}
}

// stdoutSender prints reminders instead of mailing them. The real SMTP
// transport is external; this keeps 'tasktrack remind' useful standalone.
type stdoutSender struct{}

func (stdoutSender) SendTaskReminder(email, name string, task models.Task) error {
	fmt.Printf("Reminder to %s <%s>: %s starts today (%s)\n", name, email, task.Code, task.Title)
	return nil
}

// dateField parses a YYYY-MM-DD flag into a patch field. An empty value
// means "clear the date".
func dateField(cmd *cobra.Command, name string) service.Field[time.Time] {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return service.Null[time.Time]()
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid --%s: %s (expected YYYY-MM-DD)\n", name, raw)
		os.Exit(1)
	}
	return service.Set(parsed)
}

func display(v *string) string {
	if v == nil {
		return "(unset)"
	}
	return *v
}

func fail(err error) {
	logError(err)
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func logError(err error) {
	logPath, pathErr := config.ErrorLogPath()
	if pathErr != nil {
		return
	}

	if dirErr := config.EnsureDirectories(); dirErr != nil {
		return
	}

	f, fileErr := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if fileErr != nil {
		return
	}
	defer f.Close()

	fmt.Fprintf(f, "[%s] %v\n", time.Now().Format(time.RFC3339), err)
}
