package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRemoteUnwrapsDataEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/maintenance" || r.Method != http.MethodGet {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"1","title":"Leaking Faucet","status":"pending"}]}`))
	}))
	defer srv.Close()

	r := NewRemote(RemoteConfig{BaseURL: srv.URL})
	tickets, err := r.ListTickets(context.Background())
	if err != nil {
		t.Fatalf("ListTickets() error = %v", err)
	}
	if len(tickets) != 1 || tickets[0].ID != "1" || tickets[0].Title != "Leaking Faucet" {
		t.Errorf("ListTickets() = %+v, want the enveloped ticket", tickets)
	}
}

func TestRemoteSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	r := NewRemote(RemoteConfig{BaseURL: srv.URL, Token: "abc123"})
	if _, err := r.ListContacts(context.Background()); err != nil {
		t.Fatalf("ListContacts() error = %v", err)
	}
	if gotAuth != "Bearer abc123" {
		t.Errorf("Authorization header = %q, want Bearer abc123", gotAuth)
	}
}

func TestRemoteLoginStoresToken(t *testing.T) {
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Errorf("decode credentials: %v", err)
		}
		if creds.Email != "admin@example.com" {
			t.Errorf("login email = %q, want folded to lowercase", creds.Email)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"token":"srv-token","user":{"id":"admin-1"}}}`))
	})
	mux.HandleFunc("/maintenance", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	r := NewRemote(RemoteConfig{BaseURL: srv.URL})
	session, err := r.Login(context.Background(), Credentials{Email: "  ADMIN@example.com ", Password: "admin123"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if session.Token != "srv-token" {
		t.Errorf("session token = %q", session.Token)
	}

	if _, err := r.ListTickets(context.Background()); err != nil {
		t.Fatalf("ListTickets() error = %v", err)
	}
	if gotAuth != "Bearer srv-token" {
		t.Errorf("Authorization after login = %q, want Bearer srv-token", gotAuth)
	}
}

func TestRemoteStatusErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		contains string
	}{
		{"not found with error body", http.StatusNotFound, `{"error":"no such request"}`, ErrNotFound, "no such request"},
		{"not found bare", http.StatusNotFound, ``, ErrNotFound, ""},
		{"unauthorized", http.StatusUnauthorized, `{"error":"invalid token"}`, ErrUnauthorized, "invalid token"},
		{"forbidden", http.StatusForbidden, ``, ErrUnauthorized, ""},
		{"server error with message body", http.StatusInternalServerError, `{"message":"boom"}`, nil, "boom"},
		{"server error bare", http.StatusBadGateway, ``, nil, "502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			r := NewRemote(RemoteConfig{BaseURL: srv.URL})
			_, err := r.ListTickets(context.Background())
			if err == nil {
				t.Fatal("ListTickets() expected error")
			}
			if tt.sentinel != nil && !errors.Is(err, tt.sentinel) {
				t.Errorf("error = %v, want errors.Is %v", err, tt.sentinel)
			}
			if tt.contains != "" && !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q should contain %q", err, tt.contains)
			}
		})
	}
}

func TestRemoteDeleteIgnoresLegacyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"Maintenance request deleted"}`))
	}))
	defer srv.Close()

	r := NewRemote(RemoteConfig{BaseURL: srv.URL})
	if err := r.DeleteTicket(context.Background(), "1"); err != nil {
		t.Fatalf("DeleteTicket() error = %v", err)
	}
}
