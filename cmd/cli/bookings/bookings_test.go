package bookings

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func loggedIn(t *testing.T) {
	t.Helper()
	tokenFile := filepath.Join(t.TempDir(), "token")
	t.Setenv("STAYBOOK_TOKEN_FILE", tokenFile)
	if err := os.WriteFile(tokenFile, []byte("tok"), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestCreateBooking_SendsDatesAndPrintsTotal(t *testing.T) {
	loggedIn(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["check_in"] != "2024-06-01" || in["place"] != float64(7) {
			t.Errorf("unexpected body: %v", in)
		}
		if _, ok := in["price"]; ok {
			t.Error("client must not send a price")
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":3,"place_id":7,"check_in":"2024-06-01T00:00:00Z","check_out":"2024-06-03T00:00:00Z","guests":2,"price":240}`))
	}))
	defer srv.Close()
	t.Setenv("STAYBOOK_API_URL", srv.URL)

	cmd := createBookingCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	_ = cmd.Flags().Set("place", "7")
	_ = cmd.Flags().Set("check-in", "2024-06-01")
	_ = cmd.Flags().Set("check-out", "2024-06-03")
	_ = cmd.Flags().Set("guests", "2")
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.Contains(out.String(), "2024-06-01 to 2024-06-03, total 240") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestCreateBooking_OverlapShowsMessage(t *testing.T) {
	loggedIn(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"place is already booked for these dates"}`))
	}))
	defer srv.Close()
	t.Setenv("STAYBOOK_API_URL", srv.URL)

	cmd := createBookingCmd()
	err := cmd.RunE(cmd, nil)
	if err == nil || !strings.Contains(err.Error(), "already booked") {
		t.Fatalf("expected overlap error, got %v", err)
	}
}
