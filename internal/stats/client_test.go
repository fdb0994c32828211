package stats

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/time/rate"
)

func newTestClient(srv *httptest.Server) *Client {
	c := NewClient()
	c.baseURL = srv.URL
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	return c
}

func TestLatest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		filters := r.URL.Query().Get("filters")
		if filters != "areaType=nation;areaName=England" {
			t.Errorf("filters: got %q", filters)
		}
		if s := r.URL.Query().Get("structure"); !strings.Contains(s, "newCasesBySpecimenDate") {
			t.Errorf("structure missing field selection: %q", s)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":[
			{"areaName":"England","date":"2025-11-12","cumDailyNsoDeathsByDeathDate":5000,"hospitalCases":null,"newCasesBySpecimenDate":120},
			{"areaName":"England","date":"2025-11-11","cumDailyNsoDeathsByDeathDate":4990,"hospitalCases":830,"newCasesBySpecimenDate":110}
		]}`)
	}))
	defer srv.Close()

	records, err := newTestClient(srv).Latest(context.Background(), "England", "nation")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].HospitalCases != nil {
		t.Error("null hospitalCases should decode as nil")
	}
	if records[1].HospitalCases == nil || *records[1].HospitalCases != 830 {
		t.Error("hospitalCases should decode on the second record")
	}
	if records[0].NewCases == nil || *records[0].NewCases != 120 {
		t.Error("newCasesBySpecimenDate should decode")
	}
}

func TestLatestEmptyPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[]}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Latest(context.Background(), "Atlantis", "ltla")
	if err == nil {
		t.Fatal("expected error for empty payload")
	}
	if !strings.Contains(err.Error(), "no data") {
		t.Errorf("error should report missing data: %v", err)
	}
}

func TestLatestNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Latest(context.Background(), "Atlantis", "ltla")
	if err == nil {
		t.Fatal("expected error for 204 response")
	}
}

func TestLatestErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Latest(context.Background(), "England", "nation")
	if err == nil {
		t.Fatal("expected error for 500 status")
	}
}
