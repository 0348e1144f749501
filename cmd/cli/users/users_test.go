package users

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestUpdateUser_ReplacesStoredToken(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "token")
	t.Setenv("STAYBOOK_TOKEN_FILE", tokenFile)
	if err := os.WriteFile(tokenFile, []byte("old-token"), 0600); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PUT" || r.URL.Path != "/api/v1/users/3" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer old-token" {
			t.Errorf("Authorization: got %q", r.Header.Get("Authorization"))
		}
		http.SetCookie(w, &http.Cookie{Name: "token", Value: "new-token"})
		_, _ = w.Write([]byte(`{"id":3,"name":"Alice B","email":"ab@example.com"}`))
	}))
	defer srv.Close()
	t.Setenv("STAYBOOK_API_URL", srv.URL)

	cmd := updateUserCmd()
	cmd.SetOut(&bytes.Buffer{})
	_ = cmd.Flags().Set("name", "Alice B")
	_ = cmd.Flags().Set("email", "ab@example.com")
	if err := cmd.RunE(cmd, []string{"3"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	data, _ := os.ReadFile(tokenFile)
	if string(data) != "new-token" {
		t.Errorf("stored token: got %q, want new-token", data)
	}
}

func TestUpdateUser_InvalidID(t *testing.T) {
	cmd := updateUserCmd()
	if err := cmd.RunE(cmd, []string{"abc"}); err == nil {
		t.Fatal("expected error for non-numeric id")
	}
}
