// Package testhelpers provides reusable testing utilities for HostelCare.
//
// This package contains:
// - HTTP test helpers (creating test requests, fluent assertions)
// - Data builders for the core models
package testhelpers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// ========================================
// HTTP Test Helpers
// ========================================

// HTTPTestContext holds components for HTTP handler testing
type HTTPTestContext struct {
	T        *testing.T
	Recorder *httptest.ResponseRecorder
	Request  *http.Request
}

// NewHTTPTestContext creates a new HTTP test context
func NewHTTPTestContext(t *testing.T, method, path string, body io.Reader) *HTTPTestContext {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	return &HTTPTestContext{
		T:        t,
		Recorder: httptest.NewRecorder(),
		Request:  req,
	}
}

// WithHeader adds a header to the request
func (ctx *HTTPTestContext) WithHeader(key, value string) *HTTPTestContext {
	ctx.Request.Header.Set(key, value)
	return ctx
}

// WithJSONBody sets JSON body on the request
func (ctx *HTTPTestContext) WithJSONBody(v interface{}) *HTTPTestContext {
	ctx.T.Helper()
	body, err := json.Marshal(v)
	if err != nil {
		ctx.T.Fatalf("failed to marshal JSON body: %v", err)
	}
	headers := ctx.Request.Header
	ctx.Request = httptest.NewRequest(ctx.Request.Method, ctx.Request.URL.String(), bytes.NewReader(body))
	ctx.Request.Header = headers
	ctx.Request.Header.Set("Content-Type", "application/json")
	return ctx
}

// WithBearerToken adds Authorization Bearer header
func (ctx *HTTPTestContext) WithBearerToken(token string) *HTTPTestContext {
	return ctx.WithHeader("Authorization", "Bearer "+token)
}

// Execute runs the handler and returns the response
func (ctx *HTTPTestContext) Execute(handler http.Handler) *HTTPTestContext {
	handler.ServeHTTP(ctx.Recorder, ctx.Request)
	return ctx
}

// ExecuteFunc runs the handler func and returns the response
func (ctx *HTTPTestContext) ExecuteFunc(handler http.HandlerFunc) *HTTPTestContext {
	handler(ctx.Recorder, ctx.Request)
	return ctx
}

// AssertStatus checks the response status code
func (ctx *HTTPTestContext) AssertStatus(expected int) *HTTPTestContext {
	ctx.T.Helper()
	if ctx.Recorder.Code != expected {
		ctx.T.Errorf("expected status %d, got %d. Body: %s", expected, ctx.Recorder.Code, ctx.Recorder.Body.String())
	}
	return ctx
}

// AssertBodyContains checks if response body contains substring
func (ctx *HTTPTestContext) AssertBodyContains(substr string) *HTTPTestContext {
	ctx.T.Helper()
	body := ctx.Recorder.Body.String()
	if !strings.Contains(body, substr) {
		ctx.T.Errorf("expected body to contain %q, got: %s", substr, body)
	}
	return ctx
}

// AssertHeader checks response header value
func (ctx *HTTPTestContext) AssertHeader(key, expected string) *HTTPTestContext {
	ctx.T.Helper()
	got := ctx.Recorder.Header().Get(key)
	if got != expected {
		ctx.T.Errorf("expected header %s=%q, got %q", key, expected, got)
	}
	return ctx
}

// DecodeJSON decodes response body as JSON
func (ctx *HTTPTestContext) DecodeJSON(v interface{}) *HTTPTestContext {
	ctx.T.Helper()
	if err := json.NewDecoder(ctx.Recorder.Body).Decode(v); err != nil {
		ctx.T.Fatalf("failed to decode JSON response: %v", err)
	}
	return ctx
}
