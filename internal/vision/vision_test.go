package vision

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDescribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/describe" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization header = %q", got)
		}
		json.NewEncoder(w).Encode(Description{
			Description: "black nylon backpack",
			Category:    "bags",
			Confidence:  0.92,
		})
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, "test-key")
	desc, err := client.Describe(context.Background(), []byte("img"), "image/jpeg")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if desc.Description != "black nylon backpack" {
		t.Errorf("description = %q", desc.Description)
	}
	if desc.Category != "bags" {
		t.Errorf("category = %q", desc.Category)
	}
}

func TestDescribeUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, "")
	_, err := client.Describe(context.Background(), []byte("img"), "image/jpeg")

	var uerr *UpstreamError
	if !errors.As(err, &uerr) {
		t.Errorf("error = %v, want UpstreamError", err)
	}
}

func TestDescribeConnectionRefused(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "")
	_, err := client.Describe(context.Background(), []byte("img"), "image/jpeg")

	var uerr *UpstreamError
	if !errors.As(err, &uerr) {
		t.Errorf("error = %v, want UpstreamError", err)
	}
}
