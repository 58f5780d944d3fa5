package tasksrepobridge

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/companionhealth/companion/core/repositories/tasksrepo"
	"github.com/companionhealth/companion/core/scaffolding/fop"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
)

// PARAMS
type queryParams struct {
	Limit           string
	Cursor          string
	Order           string
	TaskType        string
	IsDone          string
	IncludeArchived string
	DueBefore       string
}

func parseQueryParams(r *http.Request) queryParams {
	q := r.URL.Query()
	return queryParams{
		Limit:           q.Get("limit"),
		Cursor:          q.Get("cursor"),
		Order:           q.Get("order"),
		TaskType:        q.Get("taskType"),
		IsDone:          q.Get("isDone"),
		IncludeArchived: q.Get("includeArchived"),
		DueBefore:       q.Get("dueBefore"),
	}
}

// FILTER
func parseFilter(qp queryParams) (tasksrepo.TaskFilter, error) {
	filter := tasksrepo.TaskFilter{}

	if qp.TaskType != "" {
		if !tasksrepo.ValidTaskType(qp.TaskType) {
			return filter, fmt.Errorf("unknown task type: %s", qp.TaskType)
		}
		filter.TaskType = &qp.TaskType
	}

	if qp.IsDone != "" {
		val, err := strconv.ParseBool(qp.IsDone)
		if err != nil {
			return filter, fmt.Errorf("invalid isDone: %s", qp.IsDone)
		}
		filter.IsDone = &val
	}

	if qp.IncludeArchived != "" {
		val, err := strconv.ParseBool(qp.IncludeArchived)
		if err != nil {
			return filter, fmt.Errorf("invalid includeArchived: %s", qp.IncludeArchived)
		}
		filter.IncludeArchived = val
	}

	if qp.DueBefore != "" {
		t, err := time.Parse(time.RFC3339, qp.DueBefore)
		if err != nil {
			return filter, fmt.Errorf("invalid dueBefore format: %s", qp.DueBefore)
		}
		filter.DueBefore = &t
	}

	return filter, nil
}

// PAGE
func parsePage(qp queryParams) (fop.PageStringCursor, error) {
	return fop.ParsePageStringCursor(qp.Limit, qp.Cursor)
}

// ORDER. Tasks are ordered by creation time; only the direction is
// selectable.
func parseDirection(order string) (string, error) {
	switch order {
	case "", "desc", postgresdb.DESC:
		return postgresdb.DESC, nil
	case "asc", postgresdb.ASC:
		return postgresdb.ASC, nil
	}
	return "", fmt.Errorf("invalid order: %s", order)
}
