package semaphoretest

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/ebdruplab/semactl/internal/semaphore"
)

func (s *Server) registerKeyRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/project/{p}/keys", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		var req semaphore.AccessKeyRequest
		if !decode(w, r, &req) {
			return
		}
		if req.Type == semaphore.KeyTypeSSH && req.SSH == nil {
			http.Error(w, "missing ssh data", http.StatusBadRequest)
			return
		}
		if req.Type == semaphore.KeyTypeLoginPassword && req.LoginPassword == nil {
			http.Error(w, "missing login_password data", http.StatusBadRequest)
			return
		}
		key := semaphore.AccessKey{ID: s.allocID(), Name: req.Name, Type: req.Type, ProjectID: ps.project.ID}
		ps.keys[key.ID] = key
		ps.order["keys"] = append(ps.order["keys"], key.ID)
		writeJSON(w, http.StatusCreated, key)
	})))
	mux.HandleFunc("GET /api/project/{p}/keys", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		out := make([]semaphore.AccessKey, 0, len(ps.keys))
		for _, id := range ps.order["keys"] {
			if k, ok := ps.keys[id]; ok {
				out = append(out, k)
			}
		}
		if r.URL.Query().Get("sort") == "name" {
			sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		}
		writeJSON(w, http.StatusOK, out)
	})))
	mux.HandleFunc("GET /api/project/{p}/keys/{id}", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		key, ok := ps.keys[pathInt(r, "id")]
		if !ok {
			http.Error(w, "key not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, key)
	})))
	mux.HandleFunc("PUT /api/project/{p}/keys/{id}", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		id := pathInt(r, "id")
		key, ok := ps.keys[id]
		if !ok {
			http.Error(w, "key not found", http.StatusNotFound)
			return
		}
		var req semaphore.AccessKeyRequest
		if !decode(w, r, &req) {
			return
		}
		key.Name = req.Name
		key.Type = req.Type
		ps.keys[id] = key
		w.WriteHeader(http.StatusNoContent)
	})))
	mux.HandleFunc("DELETE /api/project/{p}/keys/{id}", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		id := pathInt(r, "id")
		if _, ok := ps.keys[id]; !ok {
			http.Error(w, "key not found", http.StatusNotFound)
			return
		}
		delete(ps.keys, id)
		w.WriteHeader(http.StatusNoContent)
	})))
}

func (s *Server) registerRepositoryRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/project/{p}/repositories", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		var req semaphore.RepositoryRequest
		if !decode(w, r, &req) {
			return
		}
		repo := semaphore.Repository{
			ID: s.allocID(), Name: req.Name, ProjectID: ps.project.ID,
			GitURL: req.GitURL, GitBranch: req.GitBranch, SSHKeyID: req.SSHKeyID,
		}
		ps.repositories[repo.ID] = repo
		ps.order["repositories"] = append(ps.order["repositories"], repo.ID)
		writeJSON(w, http.StatusCreated, repo)
	})))
	mux.HandleFunc("GET /api/project/{p}/repositories", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		out := make([]semaphore.Repository, 0, len(ps.repositories))
		for _, id := range ps.order["repositories"] {
			if v, ok := ps.repositories[id]; ok {
				out = append(out, v)
			}
		}
		writeJSON(w, http.StatusOK, out)
	})))
	mux.HandleFunc("PUT /api/project/{p}/repositories/{id}", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		id := pathInt(r, "id")
		repo, ok := ps.repositories[id]
		if !ok {
			http.Error(w, "repository not found", http.StatusNotFound)
			return
		}
		var req semaphore.RepositoryRequest
		if !decode(w, r, &req) {
			return
		}
		repo.Name = req.Name
		repo.GitURL = req.GitURL
		repo.GitBranch = req.GitBranch
		repo.SSHKeyID = req.SSHKeyID
		ps.repositories[id] = repo
		w.WriteHeader(http.StatusNoContent)
	})))
	mux.HandleFunc("DELETE /api/project/{p}/repositories/{id}", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		id := pathInt(r, "id")
		if _, ok := ps.repositories[id]; !ok {
			http.Error(w, "repository not found", http.StatusNotFound)
			return
		}
		delete(ps.repositories, id)
		w.WriteHeader(http.StatusNoContent)
	})))
}

func (s *Server) registerViewRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/project/{p}/views", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		var req semaphore.ViewRequest
		if !decode(w, r, &req) {
			return
		}
		view := semaphore.View{ID: s.allocID(), ProjectID: ps.project.ID, Title: req.Title, Position: req.Position}
		ps.views[view.ID] = view
		ps.order["views"] = append(ps.order["views"], view.ID)
		writeJSON(w, http.StatusCreated, view)
	})))
	mux.HandleFunc("GET /api/project/{p}/views", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		out := make([]semaphore.View, 0, len(ps.views))
		for _, id := range ps.order["views"] {
			if v, ok := ps.views[id]; ok {
				out = append(out, v)
			}
		}
		writeJSON(w, http.StatusOK, out)
	})))
	mux.HandleFunc("GET /api/project/{p}/views/{id}", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		view, ok := ps.views[pathInt(r, "id")]
		if !ok {
			http.Error(w, "view not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, view)
	})))
	mux.HandleFunc("PUT /api/project/{p}/views/{id}", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		id := pathInt(r, "id")
		view, ok := ps.views[id]
		if !ok {
			http.Error(w, "view not found", http.StatusNotFound)
			return
		}
		var req semaphore.ViewRequest
		if !decode(w, r, &req) {
			return
		}
		view.Title = req.Title
		view.Position = req.Position
		ps.views[id] = view
		w.WriteHeader(http.StatusNoContent)
	})))
	mux.HandleFunc("DELETE /api/project/{p}/views/{id}", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		id := pathInt(r, "id")
		if _, ok := ps.views[id]; !ok {
			http.Error(w, "view not found", http.StatusNotFound)
			return
		}
		delete(ps.views, id)
		w.WriteHeader(http.StatusNoContent)
	})))
}

func (s *Server) registerInventoryRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/project/{p}/inventory", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		var req semaphore.InventoryRequest
		if !decode(w, r, &req) {
			return
		}
		inv := semaphore.Inventory{
			ID: s.allocID(), Name: req.Name, ProjectID: ps.project.ID,
			Type: req.Type, Inventory: req.Inventory, InventoryMode: req.InventoryMode,
			RepositoryID: req.RepositoryID, SSHKeyID: req.SSHKeyID, BecomeKeyID: req.BecomeKeyID,
		}
		ps.inventories[inv.ID] = inv
		ps.order["inventories"] = append(ps.order["inventories"], inv.ID)
		writeJSON(w, http.StatusCreated, inv)
	})))
	mux.HandleFunc("GET /api/project/{p}/inventory", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		out := make([]semaphore.Inventory, 0, len(ps.inventories))
		for _, id := range ps.order["inventories"] {
			if v, ok := ps.inventories[id]; ok {
				out = append(out, v)
			}
		}
		writeJSON(w, http.StatusOK, out)
	})))
	mux.HandleFunc("GET /api/project/{p}/inventory/{id}", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		inv, ok := ps.inventories[pathInt(r, "id")]
		if !ok {
			http.Error(w, "inventory not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, inv)
	})))
	mux.HandleFunc("PUT /api/project/{p}/inventory/{id}", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		id := pathInt(r, "id")
		inv, ok := ps.inventories[id]
		if !ok {
			http.Error(w, "inventory not found", http.StatusNotFound)
			return
		}
		var req semaphore.InventoryRequest
		if !decode(w, r, &req) {
			return
		}
		inv.Name = req.Name
		inv.Type = req.Type
		inv.Inventory = req.Inventory
		inv.InventoryMode = req.InventoryMode
		inv.RepositoryID = req.RepositoryID
		inv.SSHKeyID = req.SSHKeyID
		inv.BecomeKeyID = req.BecomeKeyID
		ps.inventories[id] = inv
		w.WriteHeader(http.StatusNoContent)
	})))
	mux.HandleFunc("DELETE /api/project/{p}/inventory/{id}", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		id := pathInt(r, "id")
		if _, ok := ps.inventories[id]; !ok {
			http.Error(w, "inventory not found", http.StatusNotFound)
			return
		}
		delete(ps.inventories, id)
		w.WriteHeader(http.StatusNoContent)
	})))
}

func (s *Server) registerEnvironmentRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/project/{p}/environment", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		var req semaphore.EnvironmentRequest
		if !decode(w, r, &req) {
			return
		}
		env := semaphore.Environment{
			ID: s.allocID(), Name: req.Name, ProjectID: ps.project.ID,
			Env: req.Env, JSON: req.JSON,
		}
		ps.environments[env.ID] = env
		ps.order["environments"] = append(ps.order["environments"], env.ID)
		writeJSON(w, http.StatusCreated, env)
	})))
	mux.HandleFunc("GET /api/project/{p}/environment", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		out := make([]semaphore.Environment, 0, len(ps.environments))
		for _, id := range ps.order["environments"] {
			if v, ok := ps.environments[id]; ok {
				out = append(out, v)
			}
		}
		writeJSON(w, http.StatusOK, out)
	})))
	mux.HandleFunc("GET /api/project/{p}/environment/{id}", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		env, ok := ps.environments[pathInt(r, "id")]
		if !ok {
			http.Error(w, "environment not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, env)
	})))
	mux.HandleFunc("PUT /api/project/{p}/environment/{id}", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		id := pathInt(r, "id")
		env, ok := ps.environments[id]
		if !ok {
			http.Error(w, "environment not found", http.StatusNotFound)
			return
		}
		var req semaphore.EnvironmentRequest
		if !decode(w, r, &req) {
			return
		}
		env.Name = req.Name
		env.Env = req.Env
		env.JSON = req.JSON
		ps.environments[id] = env
		w.WriteHeader(http.StatusNoContent)
	})))
	mux.HandleFunc("DELETE /api/project/{p}/environment/{id}", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		id := pathInt(r, "id")
		if _, ok := ps.environments[id]; !ok {
			http.Error(w, "environment not found", http.StatusNotFound)
			return
		}
		delete(ps.environments, id)
		w.WriteHeader(http.StatusNoContent)
	})))
}

func (s *Server) registerTemplateRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/project/{p}/templates", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		var req semaphore.TemplateRequest
		if !decode(w, r, &req) {
			return
		}
		if req.InventoryID == 0 || req.RepositoryID == 0 {
			http.Error(w, "inventory_id and repository_id are required", http.StatusBadRequest)
			return
		}
		tpl := templateFromRequest(req)
		tpl.ID = s.allocID()
		tpl.ProjectID = ps.project.ID
		ps.templates[tpl.ID] = tpl
		ps.order["templates"] = append(ps.order["templates"], tpl.ID)
		writeJSON(w, http.StatusCreated, tpl)
	})))
	mux.HandleFunc("GET /api/project/{p}/templates", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		out := make([]semaphore.Template, 0, len(ps.templates))
		for _, id := range ps.order["templates"] {
			if v, ok := ps.templates[id]; ok {
				out = append(out, v)
			}
		}
		writeJSON(w, http.StatusOK, out)
	})))
	mux.HandleFunc("GET /api/project/{p}/templates/{id}", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		tpl, ok := ps.templates[pathInt(r, "id")]
		if !ok {
			http.Error(w, "template not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, tpl)
	})))
	mux.HandleFunc("PUT /api/project/{p}/templates/{id}", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		id := pathInt(r, "id")
		old, ok := ps.templates[id]
		if !ok {
			http.Error(w, "template not found", http.StatusNotFound)
			return
		}
		var req semaphore.TemplateRequest
		if !decode(w, r, &req) {
			return
		}
		tpl := templateFromRequest(req)
		tpl.ID = old.ID
		tpl.ProjectID = old.ProjectID
		ps.templates[id] = tpl
		w.WriteHeader(http.StatusNoContent)
	})))
	mux.HandleFunc("DELETE /api/project/{p}/templates/{id}", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		id := pathInt(r, "id")
		if _, ok := ps.templates[id]; !ok {
			http.Error(w, "template not found", http.StatusNotFound)
			return
		}
		delete(ps.templates, id)
		w.WriteHeader(http.StatusNoContent)
	})))
}

func templateFromRequest(req semaphore.TemplateRequest) semaphore.Template {
	return semaphore.Template{
		Name: req.Name, App: req.App, Playbook: req.Playbook,
		InventoryID: req.InventoryID, RepositoryID: req.RepositoryID,
		EnvironmentID: req.EnvironmentID, ViewID: req.ViewID,
		Type: req.Type, BuildTemplateID: req.BuildTemplateID,
		StartVersion: req.StartVersion, Description: req.Description,
		GitBranch: req.GitBranch,
		Arguments: req.Arguments, Limit: req.Limit,
		Tags: req.Tags, SkipTags: req.SkipTags,
		VaultPassword: req.VaultPassword, SurveyVars: req.SurveyVars,
		Vaults: req.Vaults, TaskParams: req.TaskParams,
		Autorun: req.Autorun, AllowOverrideArgs: req.AllowOverrideArgs,
		AllowParallel: req.AllowParallel, SuppressSuccess: req.SuppressSuccess,
	}
}

func (s *Server) registerScheduleRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/project/{p}/schedules", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		var req semaphore.ScheduleRequest
		if !decode(w, r, &req) {
			return
		}
		if req.CronFormat == "" || req.TemplateID == 0 {
			http.Error(w, "cron_format and template_id are required", http.StatusBadRequest)
			return
		}
		schedule := semaphore.Schedule{
			ID: s.allocID(), ProjectID: ps.project.ID, TemplateID: req.TemplateID,
			Name: req.Name, CronFormat: req.CronFormat, Active: req.Active,
		}
		ps.schedules[schedule.ID] = schedule
		ps.order["schedules"] = append(ps.order["schedules"], schedule.ID)
		writeJSON(w, http.StatusCreated, schedule)
	})))
	mux.HandleFunc("GET /api/project/{p}/schedules", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		out := make([]semaphore.Schedule, 0, len(ps.schedules))
		for _, id := range ps.order["schedules"] {
			if v, ok := ps.schedules[id]; ok {
				out = append(out, v)
			}
		}
		writeJSON(w, http.StatusOK, out)
	})))
	mux.HandleFunc("GET /api/project/{p}/schedules/{id}", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		schedule, ok := ps.schedules[pathInt(r, "id")]
		if !ok {
			http.Error(w, "schedule not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, schedule)
	})))
	mux.HandleFunc("PUT /api/project/{p}/schedules/{id}", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		id := pathInt(r, "id")
		schedule, ok := ps.schedules[id]
		if !ok {
			http.Error(w, "schedule not found", http.StatusNotFound)
			return
		}
		var req semaphore.ScheduleRequest
		if !decode(w, r, &req) {
			return
		}
		schedule.Name = req.Name
		schedule.CronFormat = req.CronFormat
		schedule.TemplateID = req.TemplateID
		schedule.Active = req.Active
		ps.schedules[id] = schedule
		w.WriteHeader(http.StatusNoContent)
	})))
	mux.HandleFunc("DELETE /api/project/{p}/schedules/{id}", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		id := pathInt(r, "id")
		if _, ok := ps.schedules[id]; !ok {
			http.Error(w, "schedule not found", http.StatusNotFound)
			return
		}
		delete(ps.schedules, id)
		w.WriteHeader(http.StatusNoContent)
	})))
}

func (s *Server) registerIntegrationRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/project/{p}/integrations", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		var req semaphore.IntegrationRequest
		if !decode(w, r, &req) {
			return
		}
		integration := semaphore.Integration{
			ID: s.allocID(), Name: req.Name, ProjectID: ps.project.ID,
			TemplateID: req.TemplateID, AuthMethod: req.AuthMethod,
			AuthHeader: req.AuthHeader, AuthSecretID: req.AuthSecretID,
		}
		ps.integrations[integration.ID] = integration
		ps.order["integrations"] = append(ps.order["integrations"], integration.ID)
		writeJSON(w, http.StatusCreated, integration)
	})))
	mux.HandleFunc("GET /api/project/{p}/integrations", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		out := make([]semaphore.Integration, 0, len(ps.integrations))
		for _, id := range ps.order["integrations"] {
			if v, ok := ps.integrations[id]; ok {
				out = append(out, v)
			}
		}
		writeJSON(w, http.StatusOK, out)
	})))
	mux.HandleFunc("PUT /api/project/{p}/integrations/{id}", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		id := pathInt(r, "id")
		integration, ok := ps.integrations[id]
		if !ok {
			http.Error(w, "integration not found", http.StatusNotFound)
			return
		}
		var req semaphore.IntegrationRequest
		if !decode(w, r, &req) {
			return
		}
		integration.Name = req.Name
		integration.TemplateID = req.TemplateID
		integration.AuthMethod = req.AuthMethod
		integration.AuthHeader = req.AuthHeader
		integration.AuthSecretID = req.AuthSecretID
		ps.integrations[id] = integration
		w.WriteHeader(http.StatusNoContent)
	})))
	mux.HandleFunc("DELETE /api/project/{p}/integrations/{id}", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		id := pathInt(r, "id")
		if _, ok := ps.integrations[id]; !ok {
			http.Error(w, "integration not found", http.StatusNotFound)
			return
		}
		delete(ps.integrations, id)
		w.WriteHeader(http.StatusNoContent)
	})))
}

func (s *Server) registerUserRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/users", s.authed(func(w http.ResponseWriter, r *http.Request) {
		var req semaphore.UserRequest
		if !decode(w, r, &req) {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		user := semaphore.User{
			ID: s.allocID(), Name: req.Name, Username: req.Username,
			Email: req.Email, Alert: req.Alert, Admin: req.Admin, External: req.External,
		}
		s.users[user.ID] = user
		writeJSON(w, http.StatusCreated, user)
	}))
	mux.HandleFunc("GET /api/users", s.authed(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		ids := make([]int, 0, len(s.users))
		for id := range s.users {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		out := make([]semaphore.User, 0, len(ids))
		for _, id := range ids {
			out = append(out, s.users[id])
		}
		writeJSON(w, http.StatusOK, out)
	}))
	mux.HandleFunc("GET /api/users/{id}", s.authed(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		user, ok := s.users[pathInt(r, "id")]
		if !ok {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}))
	mux.HandleFunc("PUT /api/users/{id}", s.authed(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		id := pathInt(r, "id")
		user, ok := s.users[id]
		if !ok {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		var req semaphore.UserRequest
		if !decode(w, r, &req) {
			return
		}
		user.Name = req.Name
		user.Username = req.Username
		user.Email = req.Email
		user.Alert = req.Alert
		user.Admin = req.Admin
		s.users[id] = user
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.HandleFunc("POST /api/users/{id}/password", s.authed(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.users[pathInt(r, "id")]; !ok {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		var req struct {
			Password string `json:"password"`
		}
		if !decode(w, r, &req) {
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.HandleFunc("DELETE /api/users/{id}", s.authed(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		id := pathInt(r, "id")
		if _, ok := s.users[id]; !ok {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		delete(s.users, id)
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.HandleFunc("GET /api/user", s.authed(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, u := range s.users {
			if u.Username == s.username {
				writeJSON(w, http.StatusOK, u)
				return
			}
		}
		http.Error(w, "user not found", http.StatusNotFound)
	}))

	mux.HandleFunc("POST /api/user/tokens", s.authed(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		token := semaphore.APIToken{ID: fmt.Sprintf("tok-%d", s.allocID())}
		s.tokens[token.ID] = true
		writeJSON(w, http.StatusCreated, token)
	}))
	mux.HandleFunc("GET /api/user/tokens", s.authed(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		ids := make([]string, 0, len(s.tokens))
		for id := range s.tokens {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		out := make([]semaphore.APIToken, 0, len(ids))
		for _, id := range ids {
			out = append(out, semaphore.APIToken{ID: id, Expired: !s.tokens[id]})
		}
		writeJSON(w, http.StatusOK, out)
	}))
	mux.HandleFunc("DELETE /api/user/tokens/{id}", s.authed(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		id := r.PathValue("id")
		if _, ok := s.tokens[id]; !ok {
			http.Error(w, "token not found", http.StatusNotFound)
			return
		}
		s.tokens[id] = false
		w.WriteHeader(http.StatusNoContent)
	}))

	mux.HandleFunc("POST /api/project/{p}/users", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		var req semaphore.ProjectUserRequest
		if !decode(w, r, &req) {
			return
		}
		if _, ok := s.users[req.UserID]; !ok {
			http.Error(w, "user not found", http.StatusBadRequest)
			return
		}
		ps.userRoles[req.UserID] = req.Role
		w.WriteHeader(http.StatusNoContent)
	})))
	mux.HandleFunc("GET /api/project/{p}/users", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		ids := make([]int, 0, len(ps.userRoles))
		for id := range ps.userRoles {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		out := make([]semaphore.ProjectUser, 0, len(ids))
		for _, id := range ids {
			u := s.users[id]
			out = append(out, semaphore.ProjectUser{ID: id, Name: u.Name, Username: u.Username, Role: ps.userRoles[id]})
		}
		writeJSON(w, http.StatusOK, out)
	})))
	mux.HandleFunc("PUT /api/project/{p}/users/{id}", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		id := pathInt(r, "id")
		if _, ok := ps.userRoles[id]; !ok {
			http.Error(w, "project user not found", http.StatusNotFound)
			return
		}
		var req struct {
			Role string `json:"role"`
		}
		if !decode(w, r, &req) {
			return
		}
		ps.userRoles[id] = req.Role
		w.WriteHeader(http.StatusNoContent)
	})))
	mux.HandleFunc("DELETE /api/project/{p}/users/{id}", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		id := pathInt(r, "id")
		if _, ok := ps.userRoles[id]; !ok {
			http.Error(w, "project user not found", http.StatusNotFound)
			return
		}
		delete(ps.userRoles, id)
		w.WriteHeader(http.StatusNoContent)
	})))
}

func (s *Server) registerTaskRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/project/{p}/tasks", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		var req semaphore.TaskRequest
		if !decode(w, r, &req) {
			return
		}
		if _, ok := ps.templates[req.TemplateID]; !ok {
			http.Error(w, "template not found", http.StatusBadRequest)
			return
		}
		task := semaphore.Task{
			ID: s.allocID(), TemplateID: req.TemplateID, ProjectID: ps.project.ID,
			Status: "waiting", Message: req.Message, Limit: req.Limit,
		}
		ps.tasks[task.ID] = task
		ps.order["tasks"] = append(ps.order["tasks"], task.ID)
		writeJSON(w, http.StatusCreated, task)
	})))
	mux.HandleFunc("GET /api/project/{p}/tasks", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		out := make([]semaphore.Task, 0, len(ps.tasks))
		for _, id := range ps.order["tasks"] {
			if v, ok := ps.tasks[id]; ok {
				out = append(out, v)
			}
		}
		writeJSON(w, http.StatusOK, out)
	})))
	mux.HandleFunc("GET /api/project/{p}/tasks/{id}", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		task, ok := ps.tasks[pathInt(r, "id")]
		if !ok {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, task)
	})))
	mux.HandleFunc("POST /api/project/{p}/tasks/{id}/cancel", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		id := pathInt(r, "id")
		task, ok := ps.tasks[id]
		if !ok {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}
		task.Status = "stopped"
		ps.tasks[id] = task
		w.WriteHeader(http.StatusNoContent)
	})))
	mux.HandleFunc("DELETE /api/project/{p}/tasks/{id}", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		id := pathInt(r, "id")
		if _, ok := ps.tasks[id]; !ok {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}
		delete(ps.tasks, id)
		w.WriteHeader(http.StatusNoContent)
	})))
	mux.HandleFunc("GET /api/project/{p}/tasks/{id}/output", s.authed(s.withProject(func(w http.ResponseWriter, r *http.Request, ps *projectState) {
		id := pathInt(r, "id")
		task, ok := ps.tasks[id]
		if !ok {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, []semaphore.TaskOutput{
			{TaskID: task.ID, Task: "running playbook", Output: "ok"},
		})
	})))
}
