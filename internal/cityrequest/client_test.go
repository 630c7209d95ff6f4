package cityrequest

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSubmit(t *testing.T) {
	var captured map[string]string
	var gotKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		gotKey = r.Header.Get(APIKeyHeader)
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %s, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"name": "Leipzig", "federalState": "Sachsen"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret-key")

	resp, err := client.Submit(Request{PLZ: "04103", CityName: "Leipzig"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if gotKey != "secret-key" {
		t.Errorf("%s header = %q, want %q", APIKeyHeader, gotKey, "secret-key")
	}
	if captured["plz"] != "04103" {
		t.Errorf("payload plz = %q, want %q", captured["plz"], "04103")
	}
	if captured["cityName"] != "Leipzig" {
		t.Errorf("payload cityName = %q, want %q", captured["cityName"], "Leipzig")
	}
	if resp.Data.Name != "Leipzig" || resp.Data.FederalState != "Sachsen" {
		t.Errorf("response data = %+v, want Leipzig/Sachsen", resp.Data)
	}
}

// The automation sometimes acknowledges with plain text; that still counts
// as success, just without resolved city data.
func TestSubmitNonJSONSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("Accepted"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key")

	resp, err := client.Submit(Request{PLZ: "04103", CityName: "Leipzig"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if resp.Data.Name != "" {
		t.Errorf("Data.Name = %q, want empty", resp.Data.Name)
	}
}

func TestSubmitErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		wantMsg     string
	}{
		{
			name:        "json message field",
			contentType: "application/json",
			body:        `{"message": "PLZ nicht gefunden"}`,
			wantMsg:     "PLZ nicht gefunden",
		},
		{
			name:        "json error field",
			contentType: "application/json",
			body:        `{"error": "rate limited"}`,
			wantMsg:     "rate limited",
		},
		{
			name:        "message preferred over error",
			contentType: "application/json",
			body:        `{"error": "generic", "message": "specific"}`,
			wantMsg:     "specific",
		},
		{
			name:        "json without known fields",
			contentType: "application/json",
			body:        `{"detail":"boom"}`,
			wantMsg:     `{"detail":"boom"}`,
		},
		{
			name:        "plain text body",
			contentType: "text/plain",
			body:        "  service offline  ",
			wantMsg:     "service offline",
		},
		{
			name:        "empty body",
			contentType: "text/plain",
			body:        "",
			wantMsg:     "Unbekannter Fehler",
		},
		{
			name:        "empty json object",
			contentType: "application/json",
			body:        `{}`,
			wantMsg:     "Unbekannter Fehler",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, "key")

			_, err := client.Submit(Request{PLZ: "04103", CityName: "Leipzig"})
			if err == nil {
				t.Fatal("Submit() expected error for 400 response")
			}

			var reqErr *RequestError
			if !errors.As(err, &reqErr) {
				t.Fatalf("error is not *RequestError: %v", err)
			}
			if reqErr.StatusCode != http.StatusBadRequest {
				t.Errorf("StatusCode = %d, want 400", reqErr.StatusCode)
			}
			if reqErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", reqErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestSubmitNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, "key")

	_, err := client.Submit(Request{PLZ: "04103", CityName: "Leipzig"})
	if err == nil {
		t.Fatal("Submit() expected error for closed server")
	}

	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		t.Errorf("network failure should not be a *RequestError, got %v", err)
	}
}
