package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"taskboard/internal/apperrors"
	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/service"
	"taskboard/internal/utilities"
)

// Response schemas are explicit field lists per entity. What the API
// exposes is what is written here, nothing more.

type categoryResponse struct {
	ID        uint       `json:"id"`
	Name      string     `json:"name"`
	IsDeleted bool       `json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

type subTaskResponse struct {
	ID          uint       `json:"id"`
	TaskID      uint       `json:"task_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	OwnerID     uint       `json:"owner_id"`
	Status      string     `json:"status"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type taskResponse struct {
	ID          uint               `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	OwnerID     uint               `json:"owner_id"`
	Status      string             `json:"status"`
	Deadline    *time.Time         `json:"deadline,omitempty"`
	Categories  []categoryResponse `json:"categories"`
	CreatedAt   time.Time          `json:"created_at"`
}

type taskDetailResponse struct {
	taskResponse
	SubTasks []subTaskResponse `json:"subtasks"`
}

type userResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type tokenPairResponse struct {
	AccessToken      string    `json:"access"`
	RefreshToken     string    `json:"refresh"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

type pageResponse struct {
	Count    int64       `json:"count"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	HasNext  bool        `json:"has_next"`
	HasPrev  bool        `json:"has_prev"`
	Results  interface{} `json:"results"`
}

type statusCountResponse struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type statisticsResponse struct {
	TotalTasks    int64                 `json:"total_tasks"`
	TasksByStatus []statusCountResponse `json:"tasks_by_status"`
	OverdueTasks  int64                 `json:"overdue_tasks"`
}

type categoryCountResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	TaskCount int64  `json:"task_count"`
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func toCategoryResponse(c model.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, IsDeleted: c.IsDeleted, DeletedAt: c.DeletedAt}
}

func toCategoryResponses(cats []model.Category) []categoryResponse {
	out := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, toCategoryResponse(c))
	}
	return out
}

func toSubTaskResponse(s model.SubTask) subTaskResponse {
	return subTaskResponse{
		ID:          s.ID,
		TaskID:      s.TaskID,
		Title:       s.Title,
		Description: s.Description,
		OwnerID:     s.OwnerID,
		Status:      string(s.Status),
		Deadline:    s.Deadline,
		CreatedAt:   s.CreatedAt,
	}
}

func toSubTaskResponses(subs []model.SubTask) []subTaskResponse {
	out := make([]subTaskResponse, 0, len(subs))
	for _, s := range subs {
		out = append(out, toSubTaskResponse(s))
	}
	return out
}

func toTaskResponse(t model.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		OwnerID:     t.OwnerID,
		Status:      string(t.Status),
		Deadline:    t.Deadline,
		Categories:  toCategoryResponses(t.Categories),
		CreatedAt:   t.CreatedAt,
	}
}

func toTaskResponses(tasks []model.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out
}

func toTaskDetailResponse(t model.Task) taskDetailResponse {
	return taskDetailResponse{
		taskResponse: toTaskResponse(t),
		SubTasks:     toSubTaskResponses(t.SubTasks),
	}
}

func toUserResponse(u model.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}
}

func toTokenPairResponse(p service.TokenPair) tokenPairResponse {
	return tokenPairResponse{
		AccessToken:      p.AccessToken,
		RefreshToken:     p.RefreshToken,
		AccessExpiresAt:  p.AccessExpiresAt,
		RefreshExpiresAt: p.RefreshExpiresAt,
	}
}

func toPageResponse(info repository.PageInfo, results interface{}) pageResponse {
	return pageResponse{
		Count:    info.TotalCount,
		Page:     info.Page,
		PageSize: info.PageSize,
		HasNext:  info.HasNext,
		HasPrev:  info.HasPrev,
		Results:  results,
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		utilities.LogError(err, "encode response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		appErr = apperrors.Wrap(apperrors.CodeUnavailable, "temporarily unavailable", err)
	}
	if appErr.Code == apperrors.CodeUnavailable {
		utilities.LogError(err, "store failure")
	}
	writeJSON(w, appErr.Code.HTTPStatus(), errorResponse{Error: errorBody{
		Code:    string(appErr.Code),
		Message: appErr.Message,
		Fields:  appErr.Fields,
	}})
}
