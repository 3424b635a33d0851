package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/Tomlord1122/task-tracker/internal/apperr"
)

type taskEnvelope struct {
	Task any `json:"task"`
}

type tasksEnvelope struct {
	Tasks any `json:"tasks"`
}

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.accessLog)
	r.Use(s.recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cors.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.NotFound(s.notFoundHandler)
	r.MethodNotAllowed(s.notFoundHandler)

	r.Get("/healthz", s.healthHandler)

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", s.listTasksHandler)
		r.Post("/", s.createTaskHandler)
		r.Get("/{id}", s.getTaskHandler)
		r.Put("/{id}", s.updateTaskHandler)
		r.Delete("/{id}", s.deleteTaskHandler)
	})

	return r
}

func (s *Server) notFoundHandler(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, r, http.StatusNotFound, "Not Found")
}

func (s *Server) listTasksHandler(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.taskService.ListTasks(r.Context())
	if err != nil {
		s.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, tasksEnvelope{Tasks: tasks})
}

func (s *Server) getTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.respondWithAppError(w, r, err)
		return
	}

	task, err := s.taskService.GetTask(r.Context(), id)
	if err != nil {
		s.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, taskEnvelope{Task: task})
}

func (s *Server) createTaskHandler(w http.ResponseWriter, r *http.Request) {
	body, err := decodeTaskBody(w, r)
	if err != nil {
		s.respondWithAppError(w, r, err)
		return
	}

	task, err := s.taskService.CreateTask(r.Context(), body.createRequest())
	if err != nil {
		s.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, taskEnvelope{Task: task})
}

func (s *Server) updateTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.respondWithAppError(w, r, err)
		return
	}

	body, err := decodeTaskBody(w, r)
	if err != nil {
		s.respondWithAppError(w, r, err)
		return
	}

	task, err := s.taskService.UpdateTask(r.Context(), id, body.updateRequest())
	if err != nil {
		s.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, taskEnvelope{Task: task})
}

func (s *Server) deleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.respondWithAppError(w, r, err)
		return
	}

	task, err := s.taskService.DeleteTask(r.Context(), id)
	if err != nil {
		s.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, taskEnvelope{Task: task})
}

// parseID reads the {id} path parameter. Any base-10 int64 is accepted;
// ids with no row are reported as not found by the store.
func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, apperr.Validation("Invalid id")
	}
	return id, nil
}
