package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/taskchat/taskchat/cmd/server/internal/store"
	"github.com/taskchat/taskchat/pkg/metrics"
)

const helpMessage = `I can help you manage your tasks! Try:

• "Add a task to buy groceries"
• "Show me all my tasks"
• "Mark task 5 as complete"
• "Delete task 3"
• "Update task 2 to call mom tonight"

What would you like to do?`

const (
	listDateLayout      = "Jan 02, 2006 • 3:04 PM"
	completedDateLayout = "Jan 02, 2006"
)

// updateStopWords are stripped as whole words when sanitizing an update
// command's title.
var updateStopWords = []string{"update", "task", "to", "change", "edit", "modify"}

// Executor maps a resolved Command onto task store operations and renders
// the natural-language reply. Nothing propagates past Execute: validation
// problems and missing tasks come back as clarifying replies, and storage
// failures come back as an apology carrying the failure text.
type Executor struct {
	tasks *store.TaskStore
	log   *slog.Logger
}

// NewExecutor creates an executor over tasks.
func NewExecutor(tasks *store.TaskStore, log *slog.Logger) *Executor {
	return &Executor{tasks: tasks, log: log}
}

// Execute runs cmd for owner and returns the reply text together with the
// list of actions taken.
func (e *Executor) Execute(ctx context.Context, owner string, cmd Command) (string, []string) {
	switch cmd.Kind {
	case KindAdd:
		return e.executeAdd(ctx, owner, cmd), []string{string(KindAdd)}
	case KindList:
		return e.executeList(ctx, owner), []string{string(KindList)}
	case KindComplete:
		return e.executeComplete(ctx, owner, cmd), []string{string(KindComplete)}
	case KindDelete:
		return e.executeDelete(ctx, owner, cmd), []string{string(KindDelete)}
	case KindUpdate:
		return e.executeUpdate(ctx, owner, cmd), []string{string(KindUpdate)}
	default:
		return helpMessage, nil
	}
}

func (e *Executor) executeAdd(ctx context.Context, owner string, cmd Command) string {
	title := stripQuotes(strings.TrimSpace(cmd.Title))
	if title == "" {
		return "I need to know what task you want to add. Please specify a task title."
	}

	task, err := e.tasks.Create(ctx, owner, title, "")
	if err != nil {
		e.log.Error("add task failed", "owner", owner, "error", err)
		metrics.RecordTaskOperation("create", "error")
		return fmt.Sprintf("Sorry, I couldn't add the task. Error: %v", err)
	}

	metrics.RecordTaskOperation("create", "ok")
	return fmt.Sprintf("✅ Task added successfully!\n\nTask ID: %d\nTitle: %s", task.ID, task.Title)
}

func (e *Executor) executeList(ctx context.Context, owner string) string {
	tasks, err := e.tasks.List(ctx, owner, store.StatusAll)
	if err != nil {
		e.log.Error("list tasks failed", "owner", owner, "error", err)
		return fmt.Sprintf("Sorry, I couldn't retrieve your tasks. Error: %v", err)
	}

	if len(tasks) == 0 {
		return "You don't have any tasks yet. Try adding one by saying 'Add a task to...'"
	}

	var pending, completed []store.Task
	for _, t := range tasks {
		if t.Completed {
			completed = append(completed, t)
		} else {
			pending = append(pending, t)
		}
	}

	var b strings.Builder
	b.WriteString("📋 **YOUR TASKS**\n\n")

	if len(pending) > 0 {
		b.WriteString("🔵 **PENDING TASKS**\n")
		b.WriteString("━━━━━━━━━━━━━━━━━\n\n")
		for _, t := range pending {
			fmt.Fprintf(&b, "✨ **%s**\n", t.Title)
			if strings.TrimSpace(t.Description) != "" {
				fmt.Fprintf(&b, "   📝 %s\n", t.Description)
			}
			fmt.Fprintf(&b, "   🆔 **ID: %08d**  |  📅 **%s**\n\n", t.ID, t.CreatedAt.Format(listDateLayout))
		}
	}

	if len(completed) > 0 {
		b.WriteString("\n✅ **COMPLETED TASKS**\n")
		b.WriteString("━━━━━━━━━━━━━━━━━\n\n")
		for _, t := range completed {
			fmt.Fprintf(&b, "✓ ~~%s~~\n", t.Title)
			if strings.TrimSpace(t.Description) != "" {
				fmt.Fprintf(&b, "   📝 %s\n", t.Description)
			}
			done := "N/A"
			if t.CompletedAt != nil {
				done = t.CompletedAt.Format(completedDateLayout)
			}
			fmt.Fprintf(&b, "   🆔 **ID: %08d**  |  📅 **%s**  |  ✅ **Done: %s**\n\n",
				t.ID, t.CreatedAt.Format(completedDateLayout), done)
		}
	}

	fmt.Fprintf(&b, "\n━━━━━━━━━━━━━━━━━\n📊 **SUMMARY**: %d total • %d pending • %d completed",
		len(tasks), len(pending), len(completed))

	return b.String()
}

func (e *Executor) executeComplete(ctx context.Context, owner string, cmd Command) string {
	if cmd.TaskID == 0 {
		return "Please specify which task to mark as complete (e.g., 'mark task 3 as complete')"
	}

	task, err := e.tasks.Get(ctx, owner, cmd.TaskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.RecordTaskOperation("complete", "not_found")
			return fmt.Sprintf("Task %d not found or doesn't belong to you.", cmd.TaskID)
		}
		e.log.Error("complete task failed", "owner", owner, "task_id", cmd.TaskID, "error", err)
		metrics.RecordTaskOperation("complete", "error")
		return fmt.Sprintf("Sorry, I couldn't mark the task as complete. Error: %v", err)
	}

	// idempotent: a second completion is informational, not a mutation
	if task.Completed {
		return fmt.Sprintf("Task %d '%s' is already completed!", task.ID, task.Title)
	}

	updated, err := e.tasks.SetCompleted(ctx, owner, cmd.TaskID, true)
	if err != nil {
		e.log.Error("complete task failed", "owner", owner, "task_id", cmd.TaskID, "error", err)
		metrics.RecordTaskOperation("complete", "error")
		return fmt.Sprintf("Sorry, I couldn't mark the task as complete. Error: %v", err)
	}

	metrics.RecordTaskOperation("complete", "ok")
	return fmt.Sprintf("✅ Task %d marked as complete!\n\n'%s' is now done. Great job! 🎉", updated.ID, updated.Title)
}

func (e *Executor) executeDelete(ctx context.Context, owner string, cmd Command) string {
	if cmd.TaskID == 0 {
		return "Please specify which task to delete (e.g., 'delete task 3')"
	}

	// fetch first so the confirmation can name the deleted title
	task, err := e.tasks.Get(ctx, owner, cmd.TaskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.RecordTaskOperation("delete", "not_found")
			return fmt.Sprintf("Task %d not found or doesn't belong to you.", cmd.TaskID)
		}
		e.log.Error("delete task failed", "owner", owner, "task_id", cmd.TaskID, "error", err)
		metrics.RecordTaskOperation("delete", "error")
		return fmt.Sprintf("Sorry, I couldn't delete the task. Error: %v", err)
	}

	if err := e.tasks.Delete(ctx, owner, cmd.TaskID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.RecordTaskOperation("delete", "not_found")
			return fmt.Sprintf("Task %d not found or doesn't belong to you.", cmd.TaskID)
		}
		e.log.Error("delete task failed", "owner", owner, "task_id", cmd.TaskID, "error", err)
		metrics.RecordTaskOperation("delete", "error")
		return fmt.Sprintf("Sorry, I couldn't delete the task. Error: %v", err)
	}

	metrics.RecordTaskOperation("delete", "ok")
	return fmt.Sprintf("🗑️ Task %d '%s' has been deleted.", cmd.TaskID, task.Title)
}

func (e *Executor) executeUpdate(ctx context.Context, owner string, cmd Command) string {
	if cmd.TaskID == 0 {
		return "Please specify which task to update (e.g., 'update task 3 to call mom')"
	}
	if strings.TrimSpace(cmd.Title) == "" {
		return "Please specify what you want to update the task to."
	}

	task, err := e.tasks.Get(ctx, owner, cmd.TaskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.RecordTaskOperation("update", "not_found")
			return fmt.Sprintf("Task %d not found or doesn't belong to you.", cmd.TaskID)
		}
		e.log.Error("update task failed", "owner", owner, "task_id", cmd.TaskID, "error", err)
		metrics.RecordTaskOperation("update", "error")
		return fmt.Sprintf("Sorry, I couldn't update the task. Error: %v", err)
	}

	title := sanitizeUpdateTitle(cmd.Title, cmd.TaskID)
	if title == "" {
		// never write an empty title back
		return fmt.Sprintf("I couldn't work out the new title for task %d. Please phrase it like 'update task %d to <new title>'.", cmd.TaskID, cmd.TaskID)
	}

	oldTitle := task.Title
	updated, err := e.tasks.Update(ctx, owner, cmd.TaskID, store.TaskUpdate{Title: &title})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.RecordTaskOperation("update", "not_found")
			return fmt.Sprintf("Task %d not found or doesn't belong to you.", cmd.TaskID)
		}
		e.log.Error("update task failed", "owner", owner, "task_id", cmd.TaskID, "error", err)
		metrics.RecordTaskOperation("update", "error")
		return fmt.Sprintf("Sorry, I couldn't update the task. Error: %v", err)
	}

	metrics.RecordTaskOperation("update", "ok")
	return fmt.Sprintf("✏️ Task %d updated!\n\nOld: '%s'\nNew: '%s'", updated.ID, oldTitle, updated.Title)
}

// sanitizeUpdateTitle strips command words and the task id from a raw
// update title, so "update task 2 to call mom" collapses to "call mom".
func sanitizeUpdateTitle(raw string, id uint) string {
	title := raw
	words := append([]string{}, updateStopWords...)
	words = append(words, strconv.FormatUint(uint64(id), 10))
	for _, w := range words {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(w) + `\b`)
		title = re.ReplaceAllString(title, "")
	}
	return stripQuotes(strings.TrimSpace(title))
}
