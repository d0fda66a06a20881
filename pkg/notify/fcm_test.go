package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFormatLocation(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short label untouched", "Warehouse A", "Warehouse A"},
		{"empty", "", ""},
		{"24 chars untouched", "123456789012345678901234", "123456789012345678901234"},
		{"25 chars truncated", "1234567890123456789012345", "1234567890123456789012345..."},
		{"long label truncated", "Industrial Zone Sector 12, Gate 4, Dock B", "Industrial Zone Sector 12..."},
		{"multibyte label cut on rune boundary", "Zürich Hauptbahnhof Gleis 4", "Zürich Hauptbahnhof Gleis..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatLocation(tt.in); got != tt.want {
				t.Errorf("FormatLocation(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSendTripOffer(t *testing.T) {
	var got fcmMessage
	var authHeader string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := NewFCMSender("server-key", server.URL)
	err := sender.SendTripOffer(context.Background(), "device-token", TripOffer{
		TripID:           "trip-1",
		TripCostCustomer: 2500,
		TripCostDriver:   1900,
		From:             "A",
		To:               "B",
	})
	if err != nil {
		t.Fatalf("SendTripOffer: %v", err)
	}

	if authHeader != "key=server-key" {
		t.Errorf("auth header = %q", authHeader)
	}
	if got.To != "device-token" {
		t.Errorf("to = %q, want device-token", got.To)
	}
	if got.Data["trip_id"] != "trip-1" || got.Data["type"] != "request" {
		t.Errorf("data = %v", got.Data)
	}
	if got.Data["showButtons"] != "true" {
		t.Error("offer payload must ask the client to render accept/reject buttons")
	}
}

func TestSendReportsNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	sender := NewFCMSender("bad-key", server.URL)
	if err := sender.SendAlert(context.Background(), "tok", "title", "body"); err == nil {
		t.Error("expected error on non-200 response")
	}
}
