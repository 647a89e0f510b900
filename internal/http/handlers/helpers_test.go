package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Castafa/News-ans-Public-opinion/domain"
	"github.com/Castafa/News-ans-Public-opinion/internal/http/middleware"
	"github.com/Castafa/News-ans-Public-opinion/internal/mocks"
)

const (
	testCookie = "np_actor"
	testActor  = "actor-1"
)

// newTestEngine runs the actor and session middleware in front of the
// handlers; sessions maps actor IDs to their session
func newTestEngine(t *testing.T, sessions map[string]*domain.Session) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := mocks.NewMockSessionStore()
	store.CurrentFunc = func(ctx context.Context, actorID string) (*domain.Session, error) {
		return sessions[actorID], nil
	}
	actor := middleware.NewActorMW(mocks.NewMockActorTokenService(), testCookie, time.Hour, false, zerolog.Nop())

	r := gin.New()
	r.Use(actor.Identify(), middleware.Session(store, zerolog.Nop()))
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "actor:" + testActor})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func dataOf(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	data, ok := decode(t, w)["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no data object: %s", w.Body.String())
	}
	return data
}

func adminIdentity() *domain.Identity {
	return &domain.Identity{
		ID:             "admin-1",
		Name:           "Admin User",
		Email:          "admin@example.com",
		Role:           domain.RoleAdmin,
		Phone:          "1234567890",
		CredentialHash: "hash",
	}
}

func userIdentity() *domain.Identity {
	return &domain.Identity{
		ID:             "user-1",
		Name:           "Regular User",
		Email:          "user@example.com",
		Role:           domain.RoleUser,
		Phone:          "0987654321",
		CredentialHash: "hash",
	}
}

func clientIdentity() *domain.Identity {
	return &domain.Identity{ID: "client-1", Name: "Client User", Email: "client@example.com", Role: domain.RoleClient}
}

func sessionOf(identity *domain.Identity) *domain.Session {
	return &domain.Session{ActorID: testActor, Identity: identity, EstablishedAt: time.Now()}
}
