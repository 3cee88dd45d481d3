package httpapi

import (
	"encoding/json"
	"net/http"

	"taskboard/internal/apperrors"
)

type categoryRequest struct {
	Name string `json:"name"`
}

func (a *API) handleCategoryCreate(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("invalid request body", nil))
		return
	}

	cat, err := a.categories.Create(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryResponse(*cat))
}

func (a *API) handleCategoryList(w http.ResponseWriter, r *http.Request) {
	includeDeleted := r.URL.Query().Get("include_deleted") == "true"

	cats, err := a.categories.List(r.Context(), includeDeleted)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponses(cats))
}

func (a *API) handleCategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("invalid request body", nil))
		return
	}

	cat, err := a.categories.Rename(r.Context(), id, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponse(*cat))
}

func (a *API) handleCategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := a.categories.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (a *API) handleCategoryTaskCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := a.categories.TaskCounts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]categoryCountResponse, 0, len(counts))
	for _, c := range counts {
		out = append(out, categoryCountResponse{ID: c.ID, Name: c.Name, TaskCount: c.TaskCount})
	}
	writeJSON(w, http.StatusOK, out)
}
