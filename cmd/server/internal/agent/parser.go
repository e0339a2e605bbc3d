package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taskchat/taskchat/pkg/metrics"
)

// promptTemplate is the fixed instruction sent to the model. The expected
// output grammar is one key-value line per field; everything else the model
// emits is ignored by parseModelResponse.
const promptTemplate = `You are a todo assistant. Analyze this message and extract the intent and parameters.

User message: "%s"

Respond in this exact format:
INTENT: [ADD/LIST/COMPLETE/DELETE/UPDATE]
TITLE: [task title if adding/updating]
TASK_ID: [task number/ID if completing/deleting/updating]
DESCRIPTION: [any additional details]
COMPLETED: [true/false if marking complete]

Examples:
- "add a task to buy groceries" -> INTENT: ADD, TITLE: buy groceries
- "show me my tasks" -> INTENT: LIST
- "mark task 5 as complete" -> INTENT: COMPLETE, TASK_ID: 5
- "delete task 3" -> INTENT: DELETE, TASK_ID: 3
- "update task 2 to call mom tonight" -> INTENT: UPDATE, TASK_ID: 2, TITLE: call mom tonight

Now analyze: "%s"
`

// intentTable maps INTENT keywords in the model response to command kinds.
// Scan order is declaration order; the first containment match wins.
var intentTable = []struct {
	keyword string
	kind    Kind
}{
	{"ADD", KindAdd},
	{"LIST", KindList},
	{"SHOW", KindList},
	{"GET", KindList},
	{"COMPLETE", KindComplete},
	{"MARK", KindComplete},
	{"DELETE", KindDelete},
	{"REMOVE", KindDelete},
	{"UPDATE", KindUpdate},
	{"EDIT", KindUpdate},
	{"MODIFY", KindUpdate},
}

// Parser resolves a free-text message into a Command. It is a two-stage
// pipeline: a bounded model call first, then the deterministic keyword
// cascade whenever the model is unconfigured or its call fails. Parse never
// fails outward.
type Parser struct {
	gen     Generator // nil = fallback-only mode
	timeout time.Duration
	log     *slog.Logger
}

// NewParser creates a parser. gen may be nil, which puts the parser in
// fallback-only mode; that is a normal operating configuration, not an
// error.
func NewParser(gen Generator, timeout time.Duration, log *slog.Logger) *Parser {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Parser{gen: gen, timeout: timeout, log: log}
}

// Parse resolves message into a Command, defaulting to KindUnknown when no
// interpretation is found.
func (p *Parser) Parse(ctx context.Context, message string) Command {
	start := time.Now()

	if p.gen == nil {
		cmd := fallbackParse(message)
		metrics.RecordParserFallback("unconfigured")
		metrics.RecordIntentParse("fallback", string(cmd.Kind))
		metrics.RecordIntentParseDuration("fallback", time.Since(start).Seconds())
		return cmd
	}

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	raw, err := p.gen.Generate(callCtx, fmt.Sprintf(promptTemplate, message, message))
	if err != nil {
		reason := "error"
		if errors.Is(err, context.DeadlineExceeded) || callCtx.Err() != nil {
			reason = "timeout"
		}
		p.log.Warn("model intent resolution failed, using keyword fallback",
			"reason", reason, "error", err)

		cmd := fallbackParse(message)
		metrics.RecordParserFallback(reason)
		metrics.RecordIntentParse("fallback", string(cmd.Kind))
		metrics.RecordIntentParseDuration("fallback", time.Since(start).Seconds())
		return cmd
	}

	cmd := parseModelResponse(raw)
	metrics.RecordIntentParse("gemini", string(cmd.Kind))
	metrics.RecordIntentParseDuration("gemini", time.Since(start).Seconds())
	return cmd
}

// parseModelResponse reads the model's key-value lines into a Command.
// Unrecognized or missing lines are ignored; a response without an INTENT
// line yields KindUnknown.
func parseModelResponse(raw string) Command {
	cmd := Command{Kind: KindUnknown}

	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "INTENT:"):
			value := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(line, "INTENT:")))
			for _, entry := range intentTable {
				if strings.Contains(value, entry.keyword) {
					cmd.Kind = entry.kind
					break
				}
			}

		case strings.HasPrefix(line, "TITLE:"):
			cmd.Title = stripQuotes(strings.TrimSpace(strings.TrimPrefix(line, "TITLE:")))

		case strings.HasPrefix(line, "TASK_ID:"):
			id, _ := firstDigitRun(strings.TrimPrefix(line, "TASK_ID:"))
			cmd.TaskID = id

		case strings.HasPrefix(line, "DESCRIPTION:"):
			cmd.Description = strings.TrimSpace(strings.TrimPrefix(line, "DESCRIPTION:"))

		case strings.HasPrefix(line, "COMPLETED:"):
			value := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(line, "COMPLETED:")))
			cmd.Completed = value == "true" || value == "yes" || value == "1"
		}
	}

	return cmd
}
