package postgres

import (
	"strconv"
	"strings"

	"github.com/phrazzld/tasker-api/internal/store"
)

const taskColumns = `id, user_id, title, description, completed, priority, due_date, created_at, updated_at`

// buildTaskListQuery renders the listing statement for one owner.
// The owner predicate is always $1. Optional predicates follow in a fixed
// order (completed, priority, due date) and every value is a bound
// parameter; nothing from the filter is spliced into the SQL text.
// The page must already be normalized.
func buildTaskListQuery(ownerID int64, filter store.TaskFilter, page store.Page) (string, []any) {
	var sb strings.Builder
	args := make([]any, 0, 6)

	bind := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	sb.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE user_id = `)
	sb.WriteString(bind(ownerID))

	if filter.Completed != nil {
		sb.WriteString(` AND completed = `)
		sb.WriteString(bind(*filter.Completed))
	}

	if filter.Priority != nil {
		sb.WriteString(` AND priority = `)
		sb.WriteString(bind(string(*filter.Priority)))
	}

	if filter.DueBefore != nil {
		sb.WriteString(` AND due_date IS NOT NULL AND due_date <= `)
		sb.WriteString(bind(filter.DueBefore.UTC()))
	}

	sb.WriteString(` ORDER BY created_at DESC, id DESC LIMIT `)
	sb.WriteString(bind(page.Limit))
	sb.WriteString(` OFFSET `)
	sb.WriteString(bind(page.Offset))

	return sb.String(), args
}
