package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
)

// loadSpec loads and validates the OpenAPI document.
func loadSpec(t *testing.T) (*openapi3.T, routers.Router) {
	t.Helper()

	path := filepath.Join("..", "..", "docs", "api", "openapi.yaml")

	loader := openapi3.NewLoader()
	spec, err := loader.LoadFromFile(path)
	if err != nil {
		t.Fatalf("failed to load OpenAPI spec from %s: %v", path, err)
	}

	if err := spec.Validate(context.Background()); err != nil {
		t.Fatalf("OpenAPI spec validation failed: %v", err)
	}

	router, err := gorillamux.NewRouter(spec)
	if err != nil {
		t.Fatalf("failed to create router from spec: %v", err)
	}

	return spec, router
}

// contractCase is one request whose response must match the document.
type contractCase struct {
	name   string
	method string
	// path may reference {user} and {todo}; they are filled in before sending.
	path   string
	body   string
	status int
	// validRequest marks requests that must also satisfy the request schema.
	validRequest bool
}

func TestContract_ResponsesMatchSpec(t *testing.T) {
	_, specRouter := loadSpec(t)
	api, _ := newTestRouter(t, nil)

	ids := map[string]string{}

	cases := []contractCase{
		{"service info", http.MethodGet, "/", "", http.StatusOK, true},
		{"liveness", http.MethodGet, "/healthz", "", http.StatusOK, true},
		{"readiness", http.MethodGet, "/readyz", "", http.StatusOK, true},
		{"create user", http.MethodPost, "/users", `{"email":"ada@example.com","name":"Ada"}`, http.StatusCreated, true},
		{"duplicate email", http.MethodPost, "/users", `{"email":"ada@example.com","name":"Other"}`, http.StatusBadRequest, true},
		{"invalid user", http.MethodPost, "/users", `{"email":"nope","name":""}`, http.StatusBadRequest, false},
		{"unknown user field", http.MethodPost, "/users", `{"email":"b@example.com","name":"B","admin":true}`, http.StatusBadRequest, false},
		{"list users", http.MethodGet, "/users?limit=10&offset=0", "", http.StatusOK, true},
		{"oversized limit", http.MethodGet, "/users?limit=5000", "", http.StatusOK, true},
		{"bad limit", http.MethodGet, "/users?limit=-1", "", http.StatusBadRequest, false},
		{"get user", http.MethodGet, "/users/{user}", "", http.StatusOK, true},
		{"malformed id", http.MethodGet, "/users/not-a-uuid", "", http.StatusBadRequest, false},
		{"missing user", http.MethodGet, "/users/00000000-0000-4000-8000-000000000000", "", http.StatusNotFound, true},
		{"create todo", http.MethodPost, "/todos", `{"owner_id":"{user}","title":"Write docs","priority":"high","due_date":"2030-01-01T09:00:00Z"}`, http.StatusCreated, true},
		{"date-only due date", http.MethodPost, "/todos", `{"owner_id":"{user}","title":"Plan","due_date":"2030-01-01"}`, http.StatusCreated, true},
		{"null priority", http.MethodPost, "/todos", `{"owner_id":"{user}","title":"Plan","priority":null}`, http.StatusBadRequest, false},
		{"unknown owner", http.MethodPost, "/todos", `{"owner_id":"00000000-0000-4000-8000-000000000000","title":"Orphan"}`, http.StatusBadRequest, true},
		{"list todos", http.MethodGet, "/todos?owner_id={user}", "", http.StatusOK, true},
		{"list user todos", http.MethodGet, "/users/{user}/todos", "", http.StatusOK, true},
		{"get todo", http.MethodGet, "/todos/{todo}", "", http.StatusOK, true},
		{"patch todo", http.MethodPatch, "/todos/{todo}", `{"completed":true}`, http.StatusOK, true},
		{"null patch", http.MethodPatch, "/todos/{todo}", `{"title":null}`, http.StatusBadRequest, false},
		{"delete todo", http.MethodDelete, "/todos/{todo}", "", http.StatusNoContent, true},
		{"missing todo", http.MethodDelete, "/todos/{todo}", "", http.StatusNotFound, true},
		{"delete user", http.MethodDelete, "/users/{user}", "", http.StatusNoContent, true},
		{"user todos after delete", http.MethodGet, "/users/{user}/todos", "", http.StatusNotFound, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := fillIDs(tc.path, ids)
			body := fillIDs(tc.body, ids)

			req := httptest.NewRequest(tc.method, path, strings.NewReader(body))
			if body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			rec := httptest.NewRecorder()
			api.ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.status, rec.Body.String())
			}

			// Re-create the request: the handler consumed the body.
			specReq := httptest.NewRequest(tc.method, path, strings.NewReader(body))
			if body != "" {
				specReq.Header.Set("Content-Type", "application/json")
			}

			route, pathParams, err := specRouter.FindRoute(specReq)
			if err != nil {
				t.Fatalf("could not find route in spec: %v", err)
			}

			requestInput := &openapi3filter.RequestValidationInput{
				Request:    specReq,
				PathParams: pathParams,
				Route:      route,
			}
			if tc.validRequest {
				if err := openapi3filter.ValidateRequest(context.Background(), requestInput); err != nil {
					t.Errorf("request does not match spec: %v", err)
				}
			}

			responseBody := rec.Body.Bytes()
			responseInput := &openapi3filter.ResponseValidationInput{
				RequestValidationInput: requestInput,
				Status:                 rec.Code,
				Header:                 rec.Header(),
				Body:                   io.NopCloser(bytes.NewReader(responseBody)),
				Options:                &openapi3filter.Options{IncludeResponseStatus: true},
			}
			if err := openapi3filter.ValidateResponse(context.Background(), responseInput); err != nil {
				t.Errorf("response does not match spec: %v\nbody: %s", err, responseBody)
			}

			captureIDs(tc.name, responseBody, ids)
		})
	}
}

func fillIDs(s string, ids map[string]string) string {
	for key, id := range ids {
		s = strings.ReplaceAll(s, "{"+key+"}", id)
	}
	return s
}

func captureIDs(name string, body []byte, ids map[string]string) {
	var created struct {
		ID string `json:"id"`
	}
	switch name {
	case "create user":
		if json.Unmarshal(body, &created) == nil {
			ids["user"] = created.ID
		}
	case "create todo":
		if json.Unmarshal(body, &created) == nil {
			ids["todo"] = created.ID
		}
	}
}

func TestContract_SpecCoversRoutes(t *testing.T) {
	spec, _ := loadSpec(t)

	expected := map[string][]string{
		"/":                 {http.MethodGet},
		"/healthz":          {http.MethodGet},
		"/readyz":           {http.MethodGet},
		"/metrics":          {http.MethodGet},
		"/users":            {http.MethodGet, http.MethodPost},
		"/users/{id}":       {http.MethodGet, http.MethodDelete},
		"/users/{id}/todos": {http.MethodGet},
		"/todos":            {http.MethodGet, http.MethodPost},
		"/todos/{id}":       {http.MethodGet, http.MethodPatch, http.MethodDelete},
	}

	for path, methods := range expected {
		item := spec.Paths.Find(path)
		if item == nil {
			t.Errorf("path %s not documented", path)
			continue
		}
		for _, method := range methods {
			if item.GetOperation(method) == nil {
				t.Errorf("%s %s not documented", method, path)
			}
		}
	}
}
