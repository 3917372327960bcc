package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/AllanSJoseph/AlgoHub/data/repository"
	"github.com/AllanSJoseph/AlgoHub/logging/logger"
	"github.com/AllanSJoseph/AlgoHub/middleware"
	"github.com/AllanSJoseph/AlgoHub/net/cookie"
	"github.com/AllanSJoseph/AlgoHub/security/jwt"
	"github.com/AllanSJoseph/AlgoHub/service"
	"github.com/AllanSJoseph/AlgoHub/structs"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memUserRepo struct {
	users map[string]*repository.User
}

func (r *memUserRepo) Create(_ context.Context, user *repository.User) (*repository.User, error) {
	for _, u := range r.users {
		if u.EmailID == user.EmailID {
			return nil, repository.ErrEmailTaken
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	r.users[user.ID.Hex()] = user
	return user, nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*repository.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*repository.User, error) {
	for _, u := range r.users {
		if u.EmailID == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) List(_ context.Context) ([]*repository.User, error) {
	out := make([]*repository.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type memBlacklist struct {
	blocked map[string]time.Time
}

func (b *memBlacklist) Block(_ context.Context, token string, expiresAt time.Time) error {
	if expiresAt.After(time.Now()) {
		b.blocked[token] = expiresAt
	}
	return nil
}

func (b *memBlacklist) IsBlocked(_ context.Context, token string) (bool, error) {
	_, ok := b.blocked[token]
	return ok, nil
}

// newTestRouter wires the handlers into the production routing table backed by
// in-memory stores.
func newTestRouter() *gin.Engine {
	log := logger.StdLogger()
	users := &memUserRepo{users: make(map[string]*repository.User)}
	blacklist := &memBlacklist{blocked: make(map[string]time.Time)}
	svc := service.NewService(users, blacklist, jwt.NewTokenManager("test-secret"), log)

	authHandler := NewAuthHandler(svc, log)
	adminHandler := NewAdminHandler(svc, log)

	r := gin.New()
	user := r.Group("/user")
	{
		user.POST("/register", authHandler.Register)
		user.POST("/login", authHandler.Login)
		user.POST("/logout", authHandler.Logout)
		user.POST("/admin/register", adminHandler.Register)

		authed := user.Group("", middleware.Auth(svc, log))
		{
			authed.GET("/check", authHandler.Check)
			authed.DELETE("/deleteProfile", authHandler.DeleteProfile)

			admin := authed.Group("/admin", middleware.RequireRole(structs.RoleAdmin))
			{
				admin.GET("/users", adminHandler.ListUsers)
				admin.DELETE("/users/:userId", adminHandler.DeleteUser)
			}
		}
	}
	return r
}

func postJSON(r *gin.Engine, path string, body map[string]any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doRequest(r *gin.Engine, method, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == cookie.TokenName {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

var registerBody = map[string]any{
	"firstName": "Alice",
	"emailId":   "alice@x.com",
	"password":  "password1",
}

// TestSessionLifecycle walks register, login, authenticated access, logout and
// rejected reuse through the full routing table.
func TestSessionLifecycle(t *testing.T) {
	r := newTestRouter()

	// Register: 201, no session cookie.
	w := postJSON(r, "/user/register", registerBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: status = %d, want %d (body %s)", w.Code, http.StatusCreated, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == cookie.TokenName {
			t.Error("register should not set a session cookie")
		}
	}

	// Login: 201, session cookie with the one-hour lifetime, profile in body.
	w = postJSON(r, "/user/login", map[string]any{"emailId": "alice@x.com", "password": "password1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("login: status = %d, want %d (body %s)", w.Code, http.StatusCreated, w.Body.String())
	}
	sess := sessionCookie(t, w)
	if sess.MaxAge != 3600 {
		t.Errorf("login cookie max-age = %d, want 3600", sess.MaxAge)
	}
	if !strings.Contains(w.Body.String(), "alice@x.com") {
		t.Errorf("login body = %q, want profile", w.Body.String())
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Errorf("login body leaks password field: %q", w.Body.String())
	}

	// Check: profile for the session holder.
	w = doRequest(r, http.MethodGet, "/user/check", sess)
	if w.Code != http.StatusOK {
		t.Fatalf("check: status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "Alice") {
		t.Errorf("check body = %q, want profile", w.Body.String())
	}

	// Logout: succeeds and expires the cookie.
	w = postJSON(r, "/user/logout", nil, sess)
	if w.Code != http.StatusOK {
		t.Fatalf("logout: status = %d, want %d", w.Code, http.StatusOK)
	}
	cleared := sessionCookie(t, w)
	if cleared.MaxAge >= 0 {
		t.Errorf("logout cookie max-age = %d, want negative", cleared.MaxAge)
	}

	// The revoked token no longer authenticates, though it has not expired.
	w = doRequest(r, http.MethodGet, "/user/check", sess)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("check after logout: status = %d, want %d", w.Code, http.StatusUnauthorized)
	}

	// Logout without a session is still a success.
	w = postJSON(r, "/user/logout", nil)
	if w.Code != http.StatusOK {
		t.Errorf("logout without session: status = %d, want %d", w.Code, http.StatusOK)
	}
}

// TestRegister_Validation verifies field errors and duplicate emails.
func TestRegister_Validation(t *testing.T) {
	r := newTestRouter()

	w := postJSON(r, "/user/register", map[string]any{
		"firstName": "A",
		"emailId":   "not-an-email",
		"password":  "short",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	var body struct {
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if len(body.Errors) == 0 {
		t.Error("expected per-field validation errors")
	}

	// A short-but-legal password is accepted.
	w = postJSON(r, "/user/register", map[string]any{
		"firstName": "Bob",
		"emailId":   "bob@x.com",
		"password":  "secret1",
	})
	if w.Code != http.StatusCreated {
		t.Errorf("seven-char password: status = %d, want %d", w.Code, http.StatusCreated)
	}

	w = postJSON(r, "/user/register", registerBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("first register: status = %d", w.Code)
	}
	w = postJSON(r, "/user/register", registerBody)
	if w.Code != http.StatusBadRequest {
		t.Errorf("duplicate register: status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if !strings.Contains(w.Body.String(), "already registered") {
		t.Errorf("duplicate register body = %q", w.Body.String())
	}
}

// TestLogin_GenericRejection verifies unknown email, wrong password and a
// malformed body all return the same 401.
func TestLogin_GenericRejection(t *testing.T) {
	r := newTestRouter()
	postJSON(r, "/user/register", registerBody)

	bodies := []map[string]any{
		{"emailId": "nobody@x.com", "password": "password1"},
		{"emailId": "alice@x.com", "password": "wrong"},
		{"emailId": "alice@x.com"},
		nil,
	}
	for _, body := range bodies {
		w := postJSON(r, "/user/login", body)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("login %v: status = %d, want %d", body, w.Code, http.StatusUnauthorized)
		}
		if !strings.Contains(w.Body.String(), "invalid credentials") {
			t.Errorf("login %v: body = %q, want generic message", body, w.Body.String())
		}
	}
}

// TestAdminFlow verifies admin registration, listing and deletion, and that a
// regular user cannot reach the admin surface.
func TestAdminFlow(t *testing.T) {
	r := newTestRouter()

	// Regular user.
	postJSON(r, "/user/register", registerBody)

	// Admin registration issues a session immediately.
	w := postJSON(r, "/user/admin/register", map[string]any{
		"firstName": "Root",
		"emailId":   "root@x.com",
		"password":  "password1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("admin register: status = %d (body %s)", w.Code, w.Body.String())
	}
	adminSess := sessionCookie(t, w)

	// Listing returns both users without password hashes.
	w = doRequest(r, http.MethodGet, "/user/admin/users", adminSess)
	if w.Code != http.StatusOK {
		t.Fatalf("list users: status = %d", w.Code)
	}
	var profiles []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &profiles); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("got %d users, want 2", len(profiles))
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Errorf("listing leaks password field: %q", w.Body.String())
	}

	// A regular user is forbidden.
	w = postJSON(r, "/user/login", map[string]any{"emailId": "alice@x.com", "password": "password1"})
	userSess := sessionCookie(t, w)
	w = doRequest(r, http.MethodGet, "/user/admin/users", userSess)
	if w.Code != http.StatusForbidden {
		t.Errorf("user on admin route: status = %d, want %d", w.Code, http.StatusForbidden)
	}

	// Delete the regular user, then deleting again is a 404.
	var aliceID string
	for _, p := range profiles {
		if p["emailId"] == "alice@x.com" {
			aliceID, _ = p["_id"].(string)
		}
	}
	if aliceID == "" {
		t.Fatal("alice not found in listing")
	}

	w = doRequest(r, http.MethodDelete, "/user/admin/users/"+aliceID, adminSess)
	if w.Code != http.StatusOK {
		t.Errorf("delete user: status = %d, want %d", w.Code, http.StatusOK)
	}
	w = doRequest(r, http.MethodDelete, "/user/admin/users/"+aliceID, adminSess)
	if w.Code != http.StatusNotFound {
		t.Errorf("delete missing user: status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// TestDeleteProfile verifies self-service deletion removes the account.
func TestDeleteProfile(t *testing.T) {
	r := newTestRouter()
	postJSON(r, "/user/register", registerBody)

	w := postJSON(r, "/user/login", map[string]any{"emailId": "alice@x.com", "password": "password1"})
	sess := sessionCookie(t, w)

	w = doRequest(r, http.MethodDelete, "/user/deleteProfile", sess)
	if w.Code != http.StatusOK {
		t.Fatalf("delete profile: status = %d, want %d", w.Code, http.StatusOK)
	}

	// The account is gone; a fresh login is rejected.
	w = postJSON(r, "/user/login", map[string]any{"emailId": "alice@x.com", "password": "password1"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("login after delete: status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}
