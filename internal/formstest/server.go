// Package formstest provides an in-memory HubSpot forms API for tests.
package formstest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/rflorenc/formpatch/internal/models"
)

// Token is the bearer token the server accepts unless overridden.
const Token = "pat-test-token"

// Failure forces a response for one form or for the listing.
type Failure struct {
	Status int
	Body   string
}

// Server serves /marketing/v3/forms/ from memory.
type Server struct {
	*httptest.Server

	// PageSize caps results per page regardless of the limit parameter.
	PageSize int
	// Token is the accepted bearer token; empty accepts any.
	Token string

	mu          sync.Mutex
	forms       []models.Form
	listFailure *Failure
	failures    map[string]Failure
	patches     []Patch
	listCalls   int
}

// Patch records one PATCH request.
type Patch struct {
	ID   string
	Body map[string]interface{}
}

// NewServer starts a server holding forms. Close it when done.
func NewServer(forms ...models.Form) *Server {
	s := &Server{
		Token:    Token,
		forms:    forms,
		failures: make(map[string]Failure),
	}
	r := chi.NewRouter()
	r.Use(s.authenticate)
	r.Get("/marketing/v3/forms/", s.list)
	r.Get("/marketing/v3/forms/{formID}", s.get)
	r.Patch("/marketing/v3/forms/{formID}", s.patch)
	s.Server = httptest.NewServer(r)
	return s
}

// Form builds a form fixture. A nil flag leaves the key out of
// configuration.
func Form(id, name string, flag *bool) models.Form {
	cfg := map[string]interface{}{"language": "en"}
	if flag != nil {
		cfg[models.FlagCreateNewContact] = *flag
	}
	return models.Form{"id": id, "name": name, "formType": "hubspot", "configuration": cfg}
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

// FailList makes the listing endpoint answer with status and body.
func (s *Server) FailList(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listFailure = &Failure{Status: status, Body: body}
}

// FailForm makes GET and PATCH for id answer with status and body.
func (s *Server) FailForm(id string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[id] = Failure{Status: status, Body: body}
}

// Patches returns the PATCH requests received so far, in order.
func (s *Server) Patches() []Patch {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Patch, len(s.patches))
	copy(out, s.patches)
	return out
}

// ListCalls returns how many listing pages were served.
func (s *Server) ListCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls
}

// Lookup returns the stored form with id.
func (s *Server) Lookup(id string) models.Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.forms {
		if f.ID() == id {
			return f
		}
	}
	return nil
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Token != "" && r.Header.Get("Authorization") != "Bearer "+s.Token {
			writeError(w, http.StatusUnauthorized, `{"status":"error","category":"INVALID_AUTHENTICATION","message":"Authentication credentials not found."}`)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.listFailure != nil {
		writeError(w, s.listFailure.Status, s.listFailure.Body)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if s.PageSize > 0 && (limit <= 0 || limit > s.PageSize) {
		limit = s.PageSize
	}
	if limit <= 0 {
		limit = len(s.forms)
	}
	after, _ := strconv.Atoi(r.URL.Query().Get("after"))
	if after > len(s.forms) {
		after = len(s.forms)
	}
	end := after + limit
	if end > len(s.forms) {
		end = len(s.forms)
	}

	resp := map[string]interface{}{"results": s.forms[after:end]}
	if end < len(s.forms) {
		q := r.URL.Query()
		q.Set("after", strconv.Itoa(end))
		resp["paging"] = map[string]interface{}{
			"next": map[string]interface{}{
				"after": strconv.Itoa(end),
				"link":  s.URL + r.URL.Path + "?" + q.Encode(),
			},
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "formID")
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.failures[id]; ok {
		writeError(w, f.Status, f.Body)
		return
	}
	for _, f := range s.forms {
		if f.ID() == id {
			writeJSON(w, http.StatusOK, f)
			return
		}
	}
	writeError(w, http.StatusNotFound, `{"status":"error","category":"OBJECT_NOT_FOUND","message":"Form not found"}`)
}

func (s *Server) patch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "formID")
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, `{"message":"unreadable body"}`)
		return
	}
	var body map[string]interface{}
	if err := json.Unmarshal(data, &body); err != nil {
		writeError(w, http.StatusBadRequest, `{"message":"invalid json"}`)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.patches = append(s.patches, Patch{ID: id, Body: body})
	if f, ok := s.failures[id]; ok {
		writeError(w, f.Status, f.Body)
		return
	}
	for _, f := range s.forms {
		if f.ID() != id {
			continue
		}
		merge(f, body)
		writeJSON(w, http.StatusOK, f)
		return
	}
	writeError(w, http.StatusNotFound, `{"status":"error","category":"OBJECT_NOT_FOUND","message":"Form not found"}`)
}

// merge applies a partial update the way the API does: nested objects are
// merged key by key.
func merge(dst, src map[string]interface{}) {
	for k, v := range src {
		sub, ok := v.(map[string]interface{})
		existing, exists := dst[k].(map[string]interface{})
		if ok && exists {
			merge(existing, sub)
			continue
		}
		dst[k] = v
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}
