// Package testutil provides testing utilities for the Banner API client.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockBanner is a configurable mock of the Banner roster and person APIs.
type MockBanner struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount    int
	PathCounts      map[string]int
	APIKeysSeen     map[string]int
	MaxInFlight     int
	LastRequestPath string
	inFlight        int
}

// NewMockBanner creates a new mock Banner server.
func NewMockBanner() *MockBanner {
	mock := &MockBanner{
		handlers:    make(map[string]func(w http.ResponseWriter, r *http.Request)),
		PathCounts:  make(map[string]int),
		APIKeysSeen: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.PathCounts[r.URL.Path]++
		mock.APIKeysSeen[r.Header.Get("Ocp-Apim-Subscription-Key")]++
		mock.LastRequestPath = r.URL.Path
		mock.inFlight++
		if mock.inFlight > mock.MaxInFlight {
			mock.MaxInFlight = mock.inFlight
		}
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		defer func() {
			mock.mu.Lock()
			mock.inFlight--
			mock.mu.Unlock()
		}()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockBanner) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockBanner) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockBanner) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.PathCounts = make(map[string]int)
	m.APIKeysSeen = make(map[string]int)
	m.MaxInFlight = 0
	m.LastRequestPath = ""
}

// SetHandler sets a custom handler for a specific path.
func (m *MockBanner) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockBanner) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetRosterResponse configures the roster endpoint for a term and CRN.
func (m *MockBanner) SetRosterResponse(termCode, crn string, resp MockResponse) {
	m.SetResponse(fmt.Sprintf("/course/v2/roster/%s/%s", termCode, crn), resp)
}

// SetDuckID configures a successful person lookup for bannerID.
func (m *MockBanner) SetDuckID(bannerID, duckID string, delay time.Duration) {
	resp := NewJSONResponse(DuckIDBody(bannerID, duckID))
	resp.Delay = delay
	m.SetResponse(DuckIDPath(bannerID), resp)
}

// SetDuckIDResponse configures an arbitrary person lookup response for bannerID.
func (m *MockBanner) SetDuckIDResponse(bannerID string, resp MockResponse) {
	m.SetResponse(DuckIDPath(bannerID), resp)
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockBanner) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetPathCount returns the number of requests made to path.
func (m *MockBanner) GetPathCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PathCounts[path]
}

// GetDuckIDRequestCount returns the number of person lookups received.
func (m *MockBanner) GetDuckIDRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := 0
	for path, n := range m.PathCounts {
		if strings.HasPrefix(path, "/person/uo/duckid/") {
			total += n
		}
	}
	return total
}

// GetAPIKeyCount returns how many requests carried the given subscription key.
func (m *MockBanner) GetAPIKeyCount(key string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.APIKeysSeen[key]
}

// GetMaxInFlight returns the highest number of concurrent requests observed.
func (m *MockBanner) GetMaxInFlight() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.MaxInFlight
}

// defaultHandler answers unknown paths the way the gateway does.
func (m *MockBanner) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"statusCode": 404, "message": "Resource not found"}`))
}

// DuckIDPath returns the person lookup path for bannerID.
func DuckIDPath(bannerID string) string {
	return "/person/uo/duckid/" + bannerID
}

// DuckIDBody renders a person lookup response body.
func DuckIDBody(bannerID, duckID string) string {
	return fmt.Sprintf(`{"message": "OK", "statusCode": 200, "data": {"bannerID": %q, "duckID": %q}}`, bannerID, duckID)
}

// RosterBody renders a roster response body with the given IDs.
func RosterBody(termCode, crn string, instructors, students []string) string {
	return fmt.Sprintf(`{"termCode": %q, "crn": %q, "courseTitle": "Intro", "subjectCode": "CS", "courseNumber": "101", "instructors": [%s], "students": [%s]}`,
		termCode, crn, identities(instructors), identities(students))
}

func identities(ids []string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf(`{"bannerID": %q}`, id)
	}
	return strings.Join(parts, ", ")
}

// NewJSONResponse creates a standard 200 OK JSON response.
func NewJSONResponse(body string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewUnauthorizedResponse creates the gateway's 401 for a bad subscription key.
func NewUnauthorizedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusUnauthorized,
		Body:       `{"statusCode": 401, "message": "Access denied due to invalid subscription key."}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}
