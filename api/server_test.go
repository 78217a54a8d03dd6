package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"jawla/game/matchmaker"
	"jawla/game/service"
	"jawla/game/session"
	"jawla/transport/websocket"
)

func newTestServer(t *testing.T) (*Server, service.GameService) {
	t.Helper()

	hub := websocket.NewHub()
	registry := session.NewRegistry()
	queue := matchmaker.NewQueue(hub.IsConnected)
	scheduler := session.NewScheduler()
	t.Cleanup(scheduler.Stop)

	svc := service.NewGameService(registry, queue, scheduler, hub, service.DefaultConfig())
	return NewServer(svc, hub), svc
}

func getJSON(t *testing.T, srv *Server, path string) map[string]interface{} {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s returned %d", path, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Wrong content type %q", ct)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Bad JSON from %s: %v", path, err)
	}
	return body
}

func TestStatusEndpoint(t *testing.T) {
	srv, svc := newTestServer(t)
	svc.CreateRoom(context.Background(), "host", service.Profile{Name: "Host"})

	body := getJSON(t, srv, "/status")

	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body["status"])
	}
	if body["sessions"] != float64(1) {
		t.Errorf("Expected 1 session, got %v", body["sessions"])
	}
	if body["playing"] != float64(0) {
		t.Errorf("Expected 0 playing, got %v", body["playing"])
	}
	if body["connections"] != float64(0) {
		t.Errorf("Expected 0 connections, got %v", body["connections"])
	}
}

func TestRoomsEndpoint(t *testing.T) {
	srv, svc := newTestServer(t)

	t.Run("empty", func(t *testing.T) {
		body := getJSON(t, srv, "/rooms")
		if body["total"] != float64(0) {
			t.Errorf("Expected 0 rooms, got %v", body["total"])
		}
	})

	t.Run("one waiting room", func(t *testing.T) {
		view, err := svc.CreateRoom(context.Background(), "host", service.Profile{Name: "Host"})
		if err != nil {
			t.Fatalf("CreateRoom failed: %v", err)
		}

		body := getJSON(t, srv, "/rooms")
		if body["total"] != float64(1) {
			t.Fatalf("Expected 1 room, got %v", body["total"])
		}
		rooms := body["rooms"].([]interface{})
		room := rooms[0].(map[string]interface{})
		if room["code"] != view.Code || room["host"] != "Host" {
			t.Errorf("Bad room listing: %v", room)
		}
	})
}
