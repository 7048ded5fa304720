package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/connectly-app/connectly-tui/internal/session"
)

func testSession() *session.Session {
	return &session.Session{UserID: 1, FullName: "Me", AccessToken: "tok"}
}

func TestHistory_Array(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/api/chat/7/" {
			t.Errorf("path = %q, want /api/chat/7/", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": 10, "sender": 7, "receiver": 1, "content": "hey", "timestamp": "2024-05-01T10:00:00Z"},
			{"id": 11, "sender": 1, "receiver": 7, "content": "hi", "timestamp": "2024-05-01T10:01:00.123456Z"}
		]`))
	}))
	defer srv.Close()

	c := New(srv.URL, testSession(), zap.NewNop())
	msgs, err := c.History(context.Background(), 7)
	if err != nil {
		t.Fatalf("History() error: %v", err)
	}

	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("Authorization = %q, want Bearer tok", gotAuth)
	}
	if msgs[0].SenderID != 7 || msgs[0].Out {
		t.Errorf("first message sender = %d out = %v, want 7/false", msgs[0].SenderID, msgs[0].Out)
	}
	if !msgs[1].Out {
		t.Error("second message should be outgoing")
	}
	if msgs[0].PeerID != 7 || msgs[1].PeerID != 7 {
		t.Error("messages not keyed to peer 7")
	}
}

func TestHistory_PaginatedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"count": 1, "next": null, "previous": null, "results": [
			{"id": 5, "sender": 2, "receiver": 1, "content": "paged", "timestamp": "2024-05-01T09:00:00Z"}
		]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, testSession(), zap.NewNop())
	msgs, err := c.History(context.Background(), 2)
	if err != nil {
		t.Fatalf("History() error: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Content != "paged" {
		t.Fatalf("got %+v, want single 'paged' message", msgs)
	}
}

func TestHistory_NoToken(t *testing.T) {
	c := New("http://unused", &session.Session{}, zap.NewNop())
	if _, err := c.History(context.Background(), 1); !errors.Is(err, ErrNoToken) {
		t.Fatalf("History() error = %v, want ErrNoToken", err)
	}
}

func TestHistory_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"nope"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, testSession(), zap.NewNop())
	if _, err := c.History(context.Background(), 1); err == nil {
		t.Fatal("History() succeeded on 401, want error")
	}
}

func TestFindPeople(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users/find-people/" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": [{"id": 3, "full_name": "Bob", "email": "bob@x.com"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, testSession(), zap.NewNop())
	peers, err := c.FindPeople(context.Background())
	if err != nil {
		t.Fatalf("FindPeople() error: %v", err)
	}
	if len(peers) != 1 || peers[0].FullName != "Bob" {
		t.Fatalf("peers = %+v, want [Bob]", peers)
	}
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/users/login/":
			var creds map[string]string
			json.NewDecoder(r.Body).Decode(&creds)
			if creds["email"] != "a@b.c" || creds["password"] != "pw" {
				t.Errorf("credentials = %v", creds)
			}
			w.Write([]byte(`{"access": "acc", "refresh": "ref", "full_name": "Alice", "email": "a@b.c"}`))
		case "/api/users/profile/":
			if r.Header.Get("Authorization") != "Bearer acc" {
				t.Errorf("profile auth = %q", r.Header.Get("Authorization"))
			}
			w.Write([]byte(`{"id": 9, "full_name": "Alice", "email": "a@b.c"}`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, nil, zap.NewNop())
	sess, err := c.Login(context.Background(), "a@b.c", "pw")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if sess.UserID != 9 || sess.AccessToken != "acc" || sess.RefreshToken != "ref" {
		t.Errorf("session = %+v", sess)
	}
}

func TestDecodeList_Unrecognized(t *testing.T) {
	var out []int
	if err := decodeList([]byte(`{"count": 0}`), &out); err == nil {
		t.Fatal("decodeList accepted an envelope without results")
	}
}
