package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"taskboard/internal/apperrors"
	"taskboard/internal/service"
)

// timeFormats accepted for deadline query parameters.
var timeFormats = []string{time.RFC3339, "2006-01-02"}

func parseTimeParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range timeFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, apperrors.Validation("invalid time parameter", map[string]string{
		name: "expected RFC3339 or YYYY-MM-DD, got " + raw,
	})
}

func parsePageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// parseOrdering accepts "created_at" and "-created_at" (the default).
func parseOrdering(r *http.Request) (orderAsc bool, err error) {
	switch r.URL.Query().Get("ordering") {
	case "", "-created_at":
		return false, nil
	case "created_at":
		return true, nil
	default:
		return false, apperrors.Validation("invalid ordering", map[string]string{
			"ordering": "supported values are created_at and -created_at",
		})
	}
}

func parseTaskListOptions(r *http.Request) (service.TaskListOptions, error) {
	opts := service.TaskListOptions{
		Status:  r.URL.Query().Get("status"),
		Search:  r.URL.Query().Get("search"),
		Weekday: r.URL.Query().Get("weekday"),
		Page:    parsePageParam(r),
	}

	var err error
	if opts.OrderAsc, err = parseOrdering(r); err != nil {
		return opts, err
	}
	if opts.DeadlineOn, err = parseTimeParam(r, "deadline"); err != nil {
		return opts, err
	}
	if opts.DeadlineBefore, err = parseTimeParam(r, "deadline_before"); err != nil {
		return opts, err
	}
	if opts.DeadlineAfter, err = parseTimeParam(r, "deadline_after"); err != nil {
		return opts, err
	}
	return opts, nil
}

func parseSubTaskListOptions(r *http.Request) (service.SubTaskListOptions, error) {
	opts := service.SubTaskListOptions{
		Status:         r.URL.Query().Get("status"),
		StatusContains: r.URL.Query().Get("subtask_status"),
		TaskTitle:      r.URL.Query().Get("task_title"),
		Search:         r.URL.Query().Get("search"),
		Page:           parsePageParam(r),
	}

	var err error
	if opts.OrderAsc, err = parseOrdering(r); err != nil {
		return opts, err
	}

	if raw := r.URL.Query().Get("task"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return opts, apperrors.Validation("invalid task parameter", map[string]string{
				"task": "expected a numeric task id",
			})
		}
		taskID := uint(id)
		opts.TaskID = &taskID
	}
	return opts, nil
}

// pathID extracts the numeric {id} route variable.
func pathID(r *http.Request) (uint, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.New(apperrors.CodeNotFound, "resource not found")
	}
	return uint(id), nil
}
