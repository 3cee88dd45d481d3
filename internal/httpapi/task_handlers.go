package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"taskboard/internal/apperrors"
	"taskboard/internal/model"
	"taskboard/internal/service"
)

// createTaskRequest deliberately has no owner field: the owner is always
// the requesting actor, and any owner key in the payload is dropped on
// decode.
type createTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Deadline    *time.Time `json:"deadline"`
	Categories  []uint     `json:"categories"`
}

type updateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Deadline    *time.Time `json:"deadline"`
	Categories  *[]uint    `json:"categories"`
}

func (a *API) handleTaskCreate(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("invalid request body", nil))
		return
	}

	task, err := a.tasks.Create(r.Context(), actorFrom(r), service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      model.Status(req.Status),
		Deadline:    req.Deadline,
		CategoryIDs: req.Categories,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskResponse(*task))
}

func (a *API) handleTaskList(w http.ResponseWriter, r *http.Request) {
	opts, err := parseTaskListOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}

	tasks, info, err := a.tasks.List(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageResponse(info, toTaskResponses(tasks)))
}

func (a *API) handleMyTaskList(w http.ResponseWriter, r *http.Request) {
	opts, err := parseTaskListOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}

	tasks, info, err := a.tasks.ListOwned(r.Context(), actorFrom(r), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageResponse(info, toTaskResponses(tasks)))
}

func (a *API) handleTaskDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	task, err := a.tasks.Get(r.Context(), actorFrom(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskDetailResponse(*task))
}

func (a *API) handleTaskUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("invalid request body", nil))
		return
	}

	input := service.TaskUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
	}
	if req.Status != nil {
		status := model.Status(*req.Status)
		input.Status = &status
	}
	if req.Categories != nil {
		input.CategoryIDs = *req.Categories
		input.SetCategories = true
	}

	task, err := a.tasks.Update(r.Context(), actorFrom(r), id, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskDetailResponse(*task))
}

func (a *API) handleTaskDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := a.tasks.Delete(r.Context(), actorFrom(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (a *API) handleTaskStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := a.tasks.Statistics(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	byStatus := make([]statusCountResponse, 0, len(stats.ByStatus))
	for _, bucket := range stats.ByStatus {
		byStatus = append(byStatus, statusCountResponse{Status: string(bucket.Status), Count: bucket.Count})
	}
	writeJSON(w, http.StatusOK, statisticsResponse{
		TotalTasks:    stats.TotalTasks,
		TasksByStatus: byStatus,
		OverdueTasks:  stats.OverdueTasks,
	})
}
