package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"taskboard/internal/apperrors"
	"taskboard/internal/model"
	"taskboard/internal/service"
)

type createSubTaskRequest struct {
	TaskID      uint       `json:"task"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Deadline    *time.Time `json:"deadline"`
}

type updateSubTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Deadline    *time.Time `json:"deadline"`
}

func (a *API) handleSubTaskCreate(w http.ResponseWriter, r *http.Request) {
	var req createSubTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("invalid request body", nil))
		return
	}

	sub, err := a.subtasks.Create(r.Context(), actorFrom(r), service.SubTaskInput{
		TaskID:      req.TaskID,
		Title:       req.Title,
		Description: req.Description,
		Status:      model.Status(req.Status),
		Deadline:    req.Deadline,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSubTaskResponse(*sub))
}

func (a *API) handleSubTaskList(w http.ResponseWriter, r *http.Request) {
	opts, err := parseSubTaskListOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}

	subs, info, err := a.subtasks.List(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageResponse(info, toSubTaskResponses(subs)))
}

func (a *API) handleMySubTaskList(w http.ResponseWriter, r *http.Request) {
	opts, err := parseSubTaskListOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}

	subs, info, err := a.subtasks.ListOwned(r.Context(), actorFrom(r), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageResponse(info, toSubTaskResponses(subs)))
}

func (a *API) handleSubTaskDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	sub, err := a.subtasks.Get(r.Context(), actorFrom(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSubTaskResponse(*sub))
}

func (a *API) handleSubTaskUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateSubTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("invalid request body", nil))
		return
	}

	input := service.SubTaskUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
	}
	if req.Status != nil {
		status := model.Status(*req.Status)
		input.Status = &status
	}

	sub, err := a.subtasks.Update(r.Context(), actorFrom(r), id, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSubTaskResponse(*sub))
}

func (a *API) handleSubTaskDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := a.subtasks.Delete(r.Context(), actorFrom(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
