package agent

// Kind identifies the operation a parsed command maps to.
type Kind string

const (
	KindAdd      Kind = "add_task"
	KindList     Kind = "list_tasks"
	KindComplete Kind = "complete_task"
	KindDelete   Kind = "delete_task"
	KindUpdate   Kind = "update_task"
	KindUnknown  Kind = "unknown"
)

// Command is the normalized result of intent resolution. It is produced
// fresh per message and never persisted. Both parser paths (model and
// keyword fallback) reduce to this same shape, so nothing downstream knows
// which path ran. TaskID zero means "no task id found".
type Command struct {
	Kind        Kind
	Title       string
	TaskID      uint
	Description string
	Completed   bool
}
