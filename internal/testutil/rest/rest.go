package rest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path"
	"sync"

	"github.com/julienschmidt/httprouter"

	"github.com/dhis2/d2-data-apis/api"
	"github.com/dhis2/d2-data-apis/config"
	"github.com/dhis2/d2-data-apis/internal/testutil"
)

const Prefix = "/api"

// Request is a request received by the fake server.
type Request struct {
	Method   string
	Path     string
	Query    url.Values
	Body     string
	Username string
	Password string
}

// Server is an in-process fake of the REST API. Handlers are registered with
// paths relative to the api root, e.g. "/analytics.json".
type Server struct {
	*httptest.Server
	router *httprouter.Router

	mu       sync.Mutex
	requests []Request
}

func NewServer() *Server {
	s := &Server{router: httprouter.New()}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// Respond registers a canned response for method and path.
func (s *Server) Respond(method, routePath string, status int, contentType, body string) *Server {
	s.router.Handle(method, path.Join(Prefix, routePath), func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
	return s
}

// RespondJSON registers a canned JSON response for method and path.
func (s *Server) RespondJSON(method, routePath string, status int, body string) *Server {
	return s.Respond(method, routePath, status, "application/json; charset=UTF-8", body)
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	requests := make([]Request, len(s.requests))
	copy(requests, s.requests)
	return requests
}

// LastRequest returns the most recent request, panicking when there is none.
func (s *Server) LastRequest() Request {
	requests := s.Requests()
	if len(requests) == 0 {
		panic("no request received")
	}
	return requests[len(requests)-1]
}

// Client returns an API client configured against the fake server.
func (s *Server) Client() *api.HTTPClient {
	cfg := config.NewConfigWithLogger(testutil.TestLogger(), s.URL).
		WithUsername("admin").
		WithPassword("district")
	client, err := api.NewHTTPClient(cfg)
	testutil.PanicIfError(err)
	return client
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	username, password, _ := r.BasicAuth()

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method:   r.Method,
		Path:     r.URL.Path,
		Query:    r.URL.Query(),
		Body:     string(body),
		Username: username,
		Password: password,
	})
	s.mu.Unlock()

	s.router.ServeHTTP(w, r)
}
