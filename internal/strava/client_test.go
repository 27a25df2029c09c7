package strava

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

// newTestClient points a client at a test server with request spacing
// disabled
func newTestClient(srv *httptest.Server, perPage int) *Client {
	limiter := NewRateLimiter()
	limiter.minInterval = 0
	return &Client{
		httpClient: srv.Client(),
		baseURL:    srv.URL,
		perPage:    perPage,
		limiter:    limiter,
	}
}

// makeActivities generates n activities with sequential IDs from start
func makeActivities(n int, start int64) []Activity {
	acts := make([]Activity, n)
	for i := range acts {
		acts[i] = Activity{
			ID:        start + int64(i),
			Name:      fmt.Sprintf("Activity %d", start+int64(i)),
			SportType: "Run",
			StartDate: time.Date(2023, 6, 1, 8, 0, 0, 0, time.UTC),
			Distance:  5000,
		}
	}
	return acts
}

// pagedHandler serves fixed page sizes in order and counts requests
func pagedHandler(t *testing.T, pages [][]Activity, requests *int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t.Helper()
		*requests++

		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q, want Bearer test-token", got)
		}

		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 {
			t.Errorf("bad page parameter %q", r.URL.Query().Get("page"))
			page = 1
		}

		w.Header().Set("Content-Type", "application/json")
		if page > len(pages) {
			w.Write([]byte("[]"))
			return
		}
		json.NewEncoder(w).Encode(pages[page-1])
	}
}

func TestFetchAllPaginates(t *testing.T) {
	// 200, 200, 50: the short third page terminates the fetch
	pages := [][]Activity{
		makeActivities(200, 1),
		makeActivities(200, 201),
		makeActivities(50, 401),
	}

	var requests int
	srv := httptest.NewServer(pagedHandler(t, pages, &requests))
	defer srv.Close()

	c := newTestClient(srv, 200)
	got, err := c.FetchAll(t.Context(), "test-token", nil)
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}

	if len(got) != 450 {
		t.Errorf("len = %d, want 450", len(got))
	}
	if requests != 3 {
		t.Errorf("requests = %d, want 3", requests)
	}

	// Records arrive in request order
	for i, a := range got {
		if a.ID != int64(i+1) {
			t.Fatalf("record %d has ID %d, want %d", i, a.ID, i+1)
		}
	}
}

func TestFetchAllEmptyFirstPage(t *testing.T) {
	var requests int
	srv := httptest.NewServer(pagedHandler(t, nil, &requests))
	defer srv.Close()

	c := newTestClient(srv, 200)
	got, err := c.FetchAll(t.Context(), "test-token", nil)
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
	if requests != 1 {
		t.Errorf("requests = %d, want 1", requests)
	}
}

func TestFetchAllShortFirstPage(t *testing.T) {
	pages := [][]Activity{makeActivities(7, 1)}

	var requests int
	srv := httptest.NewServer(pagedHandler(t, pages, &requests))
	defer srv.Close()

	c := newTestClient(srv, 200)
	got, err := c.FetchAll(t.Context(), "test-token", nil)
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	if len(got) != 7 {
		t.Errorf("len = %d, want 7", len(got))
	}
	if requests != 1 {
		t.Errorf("requests = %d, want 1", requests)
	}
}

func TestFetchAllReportsProgress(t *testing.T) {
	pages := [][]Activity{
		makeActivities(3, 1),
		makeActivities(3, 4),
		makeActivities(1, 7),
	}

	var requests int
	srv := httptest.NewServer(pagedHandler(t, pages, &requests))
	defer srv.Close()

	type call struct{ page, fetched int }
	var calls []call

	c := newTestClient(srv, 3)
	_, err := c.FetchAll(t.Context(), "test-token", func(page, fetched int) {
		calls = append(calls, call{page, fetched})
	})
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}

	want := []call{{1, 3}, {2, 6}, {3, 7}}
	if len(calls) != len(want) {
		t.Fatalf("progress calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %v, want %v", i, calls[i], want[i])
		}
	}
}

func TestFetchAllStatusClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		check   func(t *testing.T, err error)
	}{
		{
			name:   "401 unauthorized",
			status: http.StatusUnauthorized,
			body:   `{"message":"Authorization Error","errors":[{"field":"access_token","code":"invalid"}]}`,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrUnauthorized) {
					t.Errorf("error = %v, want ErrUnauthorized", err)
				}
			},
		},
		{
			name:   "403 forbidden",
			status: http.StatusForbidden,
			body:   `{"message":"Forbidden"}`,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrForbidden) {
					t.Errorf("error = %v, want ErrForbidden", err)
				}
			},
		},
		{
			name:   "500 remote error with parsed message",
			status: http.StatusInternalServerError,
			body:   `{"message":"Internal Error"}`,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				if !errors.As(err, &apiErr) {
					t.Fatalf("error = %v, want *APIError", err)
				}
				if apiErr.StatusCode != http.StatusInternalServerError {
					t.Errorf("StatusCode = %d, want 500", apiErr.StatusCode)
				}
				if apiErr.Message != "Internal Error" {
					t.Errorf("Message = %q, want %q", apiErr.Message, "Internal Error")
				}
			},
		},
		{
			name:   "503 with unparseable body keeps raw text",
			status: http.StatusServiceUnavailable,
			body:   `service down`,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				if !errors.As(err, &apiErr) {
					t.Fatalf("error = %v, want *APIError", err)
				}
				if apiErr.Message != "service down" {
					t.Errorf("Message = %q, want raw body", apiErr.Message)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := newTestClient(srv, 200)
			got, err := c.FetchAll(t.Context(), "test-token", nil)
			if err == nil {
				t.Fatal("FetchAll() error = nil, want classified error")
			}
			if got != nil {
				t.Errorf("records = %d, want none on failure", len(got))
			}
			tt.check(t, err)
		})
	}
}

func TestFetchAllAbortsMidwayDiscardingPartials(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "1" {
			json.NewEncoder(w).Encode(makeActivities(3, 1))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"Internal Error"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv, 3)
	got, err := c.FetchAll(t.Context(), "test-token", nil)
	if err == nil {
		t.Fatal("FetchAll() error = nil, want error from page 2")
	}
	if got != nil {
		t.Errorf("records = %d, want partials discarded", len(got))
	}
	if requests != 2 {
		t.Errorf("requests = %d, want 2", requests)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Errorf("error = %v, want *APIError reflecting the failed page", err)
	}
}

func TestFetchAllMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"not":"an array"`))
	}))
	defer srv.Close()

	c := newTestClient(srv, 200)
	_, err := c.FetchAll(t.Context(), "test-token", nil)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("error = %v, want ErrMalformedResponse", err)
	}
}

func TestLastPage(t *testing.T) {
	tests := []struct {
		count, perPage int
		want           bool
	}{
		{200, 200, false},
		{199, 200, true},
		{0, 200, true},
		{1, 200, true},
		{3, 3, false},
	}

	for _, tt := range tests {
		if got := lastPage(tt.count, tt.perPage); got != tt.want {
			t.Errorf("lastPage(%d, %d) = %v, want %v", tt.count, tt.perPage, got, tt.want)
		}
	}
}
