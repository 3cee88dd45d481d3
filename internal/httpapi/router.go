// Package httpapi is the HTTP surface over the services: routing,
// authentication middleware and explicit request/response schemas.
package httpapi

import (
	"net/http"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"taskboard/internal/service"
)

// API bundles the services the handlers dispatch to.
type API struct {
	auth       *service.AuthService
	tasks      *service.TaskService
	subtasks   *service.SubTaskService
	categories *service.CategoryService
}

func New(auth *service.AuthService, tasks *service.TaskService, subtasks *service.SubTaskService, categories *service.CategoryService) *API {
	return &API{auth: auth, tasks: tasks, subtasks: subtasks, categories: categories}
}

// Router builds the full route table. Registration and login are the
// only routes reachable without credentials.
func (a *API) Router(allowedOrigins []string) http.Handler {
	r := mux.NewRouter()
	r.Use(loggingMiddleware)

	// --- Auth ---
	r.HandleFunc("/auth/register", a.handleRegister).Methods("POST")
	r.HandleFunc("/auth/login", a.handleLogin).Methods("POST")
	r.HandleFunc("/auth/refresh", a.handleRefresh).Methods("POST")
	r.HandleFunc("/auth/logout", a.requireAuth(a.handleLogout)).Methods("POST")

	// --- Tasks ---
	r.HandleFunc("/tasks", a.requireAuth(a.handleTaskCreate)).Methods("POST")
	r.HandleFunc("/tasks", a.requireAuth(a.handleTaskList)).Methods("GET")
	r.HandleFunc("/tasks/my", a.requireAuth(a.handleMyTaskList)).Methods("GET")
	r.HandleFunc("/tasks/statistics", a.requireAuth(a.handleTaskStatistics)).Methods("GET")
	r.HandleFunc("/tasks/{id:[0-9]+}", a.requireAuth(a.handleTaskDetail)).Methods("GET")
	r.HandleFunc("/tasks/{id:[0-9]+}", a.requireAuth(a.handleTaskUpdate)).Methods("PUT")
	r.HandleFunc("/tasks/{id:[0-9]+}", a.requireAuth(a.handleTaskDelete)).Methods("DELETE")

	// --- SubTasks ---
	r.HandleFunc("/subtasks", a.requireAuth(a.handleSubTaskCreate)).Methods("POST")
	r.HandleFunc("/subtasks", a.requireAuth(a.handleSubTaskList)).Methods("GET")
	r.HandleFunc("/subtasks/my", a.requireAuth(a.handleMySubTaskList)).Methods("GET")
	r.HandleFunc("/subtasks/{id:[0-9]+}", a.requireAuth(a.handleSubTaskDetail)).Methods("GET")
	r.HandleFunc("/subtasks/{id:[0-9]+}", a.requireAuth(a.handleSubTaskUpdate)).Methods("PUT")
	r.HandleFunc("/subtasks/{id:[0-9]+}", a.requireAuth(a.handleSubTaskDelete)).Methods("DELETE")

	// --- Categories ---
	r.HandleFunc("/categories", a.requireAuth(a.handleCategoryCreate)).Methods("POST")
	r.HandleFunc("/categories", a.requireAuth(a.handleCategoryList)).Methods("GET")
	r.HandleFunc("/categories/task-counts", a.requireAuth(a.handleCategoryTaskCounts)).Methods("GET")
	r.HandleFunc("/categories/{id:[0-9]+}", a.requireAuth(a.handleCategoryUpdate)).Methods("PUT")
	r.HandleFunc("/categories/{id:[0-9]+}", a.requireAuth(a.handleCategoryDelete)).Methods("DELETE")

	headers := gorillahandlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", "Authorization"})
	methods := gorillahandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	origins := gorillahandlers.AllowedOrigins(allowedOrigins)

	return gorillahandlers.CORS(headers, methods, origins)(r)
}
