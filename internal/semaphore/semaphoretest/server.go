// Package semaphoretest provides an in-memory Semaphore UI server for
// tests. It implements the subset of the API the client exercises, with
// real status codes and auth checks, so service and deployer tests can run
// full create→get→update→delete cycles without a live instance.
package semaphoretest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/ebdruplab/semactl/internal/semaphore"
)

const (
	DefaultUsername = "admin"
	DefaultPassword = "changeme"
	DefaultToken    = "testtoken"
)

type projectState struct {
	project      semaphore.Project
	keys         map[int]semaphore.AccessKey
	repositories map[int]semaphore.Repository
	views        map[int]semaphore.View
	inventories  map[int]semaphore.Inventory
	environments map[int]semaphore.Environment
	templates    map[int]semaphore.Template
	schedules    map[int]semaphore.Schedule
	integrations map[int]semaphore.Integration
	userRoles    map[int]string
	tasks        map[int]semaphore.Task
	order        map[string][]int
}

func newProjectState(p semaphore.Project) *projectState {
	return &projectState{
		project:      p,
		keys:         map[int]semaphore.AccessKey{},
		repositories: map[int]semaphore.Repository{},
		views:        map[int]semaphore.View{},
		inventories:  map[int]semaphore.Inventory{},
		environments: map[int]semaphore.Environment{},
		templates:    map[int]semaphore.Template{},
		schedules:    map[int]semaphore.Schedule{},
		integrations: map[int]semaphore.Integration{},
		userRoles:    map[int]string{},
		tasks:        map[int]semaphore.Task{},
		order:        map[string][]int{},
	}
}

type Server struct {
	mu        sync.Mutex
	srv       *httptest.Server
	username  string
	password  string
	sessions  map[string]bool
	tokens    map[string]bool
	users     map[int]semaphore.User
	projects  map[int]*projectState
	projOrder []int
	nextID    int
}

func New() *Server {
	s := &Server{
		username: DefaultUsername,
		password: DefaultPassword,
		sessions: map[string]bool{},
		tokens:   map[string]bool{DefaultToken: true},
		users:    map[int]semaphore.User{},
		projects: map[int]*projectState{},
		nextID:   1,
	}
	adminID := s.allocID()
	s.users[adminID] = semaphore.User{
		ID: adminID, Name: "Admin", Username: DefaultUsername,
		Email: "admin@localhost", Admin: true,
	}
	s.srv = httptest.NewServer(s.routes())
	return s
}

func (s *Server) Close() {
	s.srv.Close()
}

// Config returns a client config pointing at this server.
func (s *Server) Config() semaphore.Config {
	u, _ := url.Parse(s.srv.URL)
	port, _ := strconv.Atoi(u.Port())
	return semaphore.Config{Host: u.Scheme + "://" + u.Hostname(), Port: port}
}

// Token returns credentials for the preissued API token.
func (s *Server) Token() semaphore.Credentials {
	return semaphore.TokenCredentials(DefaultToken)
}

func (s *Server) allocID() int {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/ping", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "pong")
	})
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", s.authed(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if cookie := r.Header.Get("Cookie"); cookie != "" {
			delete(s.sessions, cookie)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.HandleFunc("GET /api/info", s.authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, semaphore.ServerInfo{Version: "2.10.0-test"})
	}))

	mux.HandleFunc("GET /api/projects", s.authed(s.handleListProjects))
	mux.HandleFunc("POST /api/projects", s.authed(s.handleCreateProject))
	mux.HandleFunc("GET /api/project/{p}", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		writeJSON(w, http.StatusOK, ps.project)
	})))
	mux.HandleFunc("PUT /api/project/{p}", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		var req semaphore.ProjectRequest
		if !decode(w, r, &req) {
			return
		}
		ps.project.Name = req.Name
		ps.project.Alert = req.Alert
		ps.project.AlertChat = req.AlertChat
		ps.project.MaxParallelTasks = req.MaxParallelTasks
		ps.project.Type = req.Type
		w.WriteHeader(http.StatusNoContent)
	})))
	mux.HandleFunc("DELETE /api/project/{p}", s.authed(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		id, _ := strconv.Atoi(r.PathValue("p"))
		if _, ok := s.projects[id]; !ok {
			http.Error(w, "project not found", http.StatusNotFound)
			return
		}
		delete(s.projects, id)
		for i, pid := range s.projOrder {
			if pid == id {
				s.projOrder = append(s.projOrder[:i], s.projOrder[i+1:]...)
				break
			}
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	s.registerKeyRoutes(mux)
	s.registerRepositoryRoutes(mux)
	s.registerViewRoutes(mux)
	s.registerInventoryRoutes(mux)
	s.registerEnvironmentRoutes(mux)
	s.registerTemplateRoutes(mux)
	s.registerScheduleRoutes(mux)
	s.registerIntegrationRoutes(mux)
	s.registerUserRoutes(mux)
	s.registerTaskRoutes(mux)

	return mux
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Auth     string `json:"auth"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.Auth != s.username || req.Password != s.password {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	cookie := fmt.Sprintf("semaphore=session-%d", s.allocID())
	s.sessions[cookie] = true
	w.Header().Set("Set-Cookie", cookie+"; Path=/; HttpOnly")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		ok := false
		if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			ok = s.tokens[strings.TrimPrefix(auth, "Bearer ")]
		} else if cookie := r.Header.Get("Cookie"); cookie != "" {
			ok = s.sessions[cookie]
		}
		s.mu.Unlock()
		if !ok {
			http.Error(w, "not authenticated", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) withProject(next func(http.ResponseWriter, *http.Request, *projectState)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		id, _ := strconv.Atoi(r.PathValue("p"))
		ps, ok := s.projects[id]
		if !ok {
			http.Error(w, "project not found", http.StatusNotFound)
			return
		}
		next(w, r, ps)
	}
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]semaphore.Project, 0, len(s.projOrder))
	for _, id := range s.projOrder {
		out = append(out, s.projects[id].project)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req semaphore.ProjectRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := semaphore.Project{
		ID: s.allocID(), Name: req.Name, Alert: req.Alert,
		AlertChat: req.AlertChat, MaxParallelTasks: req.MaxParallelTasks,
		Type: req.Type,
	}
	s.projects[p.ID] = newProjectState(p)
	s.projOrder = append(s.projOrder, p.ID)
	writeJSON(w, http.StatusCreated, p)
}

func decode(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func pathInt(r *http.Request, key string) int {
	v, _ := strconv.Atoi(r.PathValue(key))
	return v
}
