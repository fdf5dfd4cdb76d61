package preview

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/storykeep/storykeep/internal/entity"
	"github.com/storykeep/storykeep/internal/repo"
	"github.com/storykeep/storykeep/internal/store"
)

func newTestServer(t *testing.T) (*Server, *entity.Character) {
	t.Helper()
	ctx := context.Background()

	st := store.NewMemStore()
	r, err := repo.Open(ctx, st)
	if err != nil {
		t.Fatalf("repo.Open() error = %v", err)
	}

	frodo := entity.NewCharacter("Frodo Baggins")
	frodo.Role = "protagonist"
	if err := r.Add(ctx, frodo); err != nil {
		t.Fatalf("Add(frodo) error = %v", err)
	}
	shire := entity.NewLocation("The Shire")
	if err := r.Add(ctx, shire); err != nil {
		t.Fatalf("Add(shire) error = %v", err)
	}

	return NewServer(r, Options{Addr: ":0"}), frodo
}

func TestIndexListsKinds(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET / status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Characters", "Locations", "Plots", "World Elements"} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing section %q", want)
		}
	}
	if !strings.Contains(body, "/api/records?kind=characters") {
		t.Error("index should link to the records API")
	}
}

func TestListRecords(t *testing.T) {
	srv, frodo := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/records?kind=characters", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Kind       string            `json:"kind"`
		Generation string            `json:"generation"`
		Records    []json.RawMessage `json:"records"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if payload.Kind != "characters" || payload.Generation == "" {
		t.Errorf("payload = %+v, want kind=characters with a generation", payload)
	}
	if len(payload.Records) != 1 || !strings.Contains(string(payload.Records[0]), frodo.ID) {
		t.Errorf("records = %s, want the seeded character", payload.Records)
	}
}

func TestListRecordsRejectsBadKind(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		url  string
	}{
		{"missing kind", "/api/records"},
		{"unknown kind", "/api/records?kind=spaceships"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestGetRecord(t *testing.T) {
	srv, frodo := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/records/characters/"+frodo.ID, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	var got entity.Character
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding record: %v", err)
	}
	if got.ID != frodo.ID || got.Name != "Frodo Baggins" || got.Role != "protagonist" {
		t.Errorf("got %+v, want the seeded character", got)
	}
}

func TestGetRecordNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/records/characters/no-such-id", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestApiIsReadOnly(t *testing.T) {
	srv, frodo := newTestServer(t)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(method, "/api/records/characters/"+frodo.ID, nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s status = %d, want 405", method, rec.Code)
		}
	}
}

func TestFeedDeliversBroadcasts(t *testing.T) {
	srv, _ := newTestServer(t)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing feed: %v", err)
	}
	defer conn.Close()

	// Registration is asynchronous with the dial; wait for it.
	deadline := time.Now().Add(2 * time.Second)
	for srv.Hub().Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("feed client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	srv.Hub().Broadcast([]byte(`{"type":"library_changed","generation":"g2"}`))

	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading feed: %v", err)
	}
	var payload map[string]string
	if err := json.Unmarshal(msg, &payload); err != nil {
		t.Fatalf("decoding feed message: %v", err)
	}
	if payload["type"] != "library_changed" || payload["generation"] != "g2" {
		t.Errorf("payload = %v, want library_changed/g2", payload)
	}
}

func TestListenPort(t *testing.T) {
	tests := []struct {
		addr    string
		want    int
		wantErr bool
	}{
		{":7465", 7465, false},
		{"192.168.1.10:8080", 8080, false},
		{"7465", 0, true},
		{":notaport", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			got, err := listenPort(tt.addr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("listenPort(%q) error = %v, wantErr %v", tt.addr, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("listenPort(%q) = %d, want %d", tt.addr, got, tt.want)
			}
		})
	}
}
