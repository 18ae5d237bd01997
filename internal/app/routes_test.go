package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"todolist/internal/config"
	"todolist/internal/metrics"
	"todolist/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() config.Config {
	return config.Config{
		App:  config.AppConfig{Env: "test", Version: "1.2.3"},
		Auth: config.AuthConfig{JWTSecret: "route-secret", SaltRounds: 4},
	}
}

func newTestRouter(t *testing.T, withRedis bool) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	d := Deps{
		Config:  testConfig(),
		DB:      db,
		Log:     zerolog.Nop(),
		Metrics: metrics.New(),
	}
	if withRedis {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = rdb.Close() })
		d.Redis = rdb
	}
	return NewRouter(d), db
}

type call struct {
	method, path, token string
	body                interface{}
}

func serve(t *testing.T, r *gin.Engine, c call) (int, map[string]interface{}, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if c.body != nil {
		if err := json.NewEncoder(&buf).Encode(c.body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(c.method, c.path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var obj map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &obj)
	return w.Code, obj, w.Body.Bytes()
}

func registerUser(t *testing.T, r *gin.Engine, email string) (token string, id float64) {
	t.Helper()
	code, body, raw := serve(t, r, call{method: http.MethodPost, path: "/api/v1/auth/register", body: gin.H{
		"firstname": "Grace", "lastname": "Hopper", "email": email,
		"password": "pw", "confirm_password": "pw",
	}})
	if code != http.StatusOK {
		t.Fatalf("register: %d %s", code, raw)
	}
	user := body["user"].(map[string]interface{})
	return body["token"].(string), user["id"].(float64)
}

func TestTodoLifecycle(t *testing.T) {
	for _, withRedis := range []bool{false, true} {
		t.Run("redis="+strconv.FormatBool(withRedis), func(t *testing.T) {
			r, _ := newTestRouter(t, withRedis)
			_, _ = registerUser(t, r, "grace@example.com")

			code, body, raw := serve(t, r, call{method: http.MethodPost, path: "/api/v1/auth/login",
				body: gin.H{"email": "grace@example.com", "password": "pw"}})
			if code != http.StatusOK {
				t.Fatalf("login: %d %s", code, raw)
			}
			token := body["token"].(string)

			code, body, raw = serve(t, r, call{method: http.MethodPost, path: "/api/v1/todos", token: token,
				body: gin.H{"title": "Ship it", "description": "v1", "dueDate": "2026-05-01"}})
			if code != http.StatusCreated {
				t.Fatalf("create: %d %s", code, raw)
			}
			id := strconv.FormatInt(int64(body["id"].(float64)), 10)
			path := "/api/v1/todos/" + id

			code, body, _ = serve(t, r, call{method: http.MethodGet, path: path, token: token})
			if code != http.StatusOK {
				t.Fatalf("get: %d", code)
			}
			owner, ok := body["user"].(map[string]interface{})
			if !ok || owner["email"] != "grace@example.com" {
				t.Fatalf("owner = %v", body["user"])
			}
			if _, leaked := owner["password"]; leaked {
				t.Fatal("password hash exposed in owner")
			}

			// warm the list cache, then make sure writes are visible
			code, _, raw = serve(t, r, call{method: http.MethodGet, path: "/api/v1/todos", token: token})
			if code != http.StatusOK || !strings.Contains(string(raw), `"status":"TODO"`) {
				t.Fatalf("list: %d %s", code, raw)
			}

			code, body, raw = serve(t, r, call{method: http.MethodPut, path: path, token: token,
				body: gin.H{"status": "DONE"}})
			if code != http.StatusOK || body["status"] != "DONE" || body["title"] != "Ship it" {
				t.Fatalf("update: %d %s", code, raw)
			}

			code, _, raw = serve(t, r, call{method: http.MethodGet, path: "/api/v1/todos?status=DONE", token: token})
			if code != http.StatusOK || !strings.Contains(string(raw), `"status":"DONE"`) {
				t.Fatalf("list after update: %d %s", code, raw)
			}

			code, body, _ = serve(t, r, call{method: http.MethodDelete, path: path, token: token})
			if code != http.StatusOK || body["message"] != "Todo list id "+id+" has been deleted." {
				t.Fatalf("delete: %d %v", code, body)
			}

			code, body, _ = serve(t, r, call{method: http.MethodGet, path: path, token: token})
			if code != http.StatusNotFound || body["message"] != "Not found." {
				t.Fatalf("get deleted: %d %v", code, body)
			}
			code, _, raw = serve(t, r, call{method: http.MethodGet, path: "/api/v1/todos", token: token})
			if code != http.StatusOK || strings.TrimSpace(string(raw)) != "[]" {
				t.Fatalf("list after delete: %d %s", code, raw)
			}

			code, body, raw = serve(t, r, call{method: http.MethodPost, path: path + "/restore", token: token})
			if code != http.StatusOK || body["isDeleted"] != false || body["status"] != "DONE" {
				t.Fatalf("restore: %d %s", code, raw)
			}

			code, _, _ = serve(t, r, call{method: http.MethodGet, path: path, token: token})
			if code != http.StatusOK {
				t.Fatalf("get restored: %d", code)
			}
		})
	}
}

func TestTodosAreScopedToOwner(t *testing.T) {
	r, _ := newTestRouter(t, false)
	alice, _ := registerUser(t, r, "alice@example.com")
	bob, _ := registerUser(t, r, "bob@example.com")

	_, body, _ := serve(t, r, call{method: http.MethodPost, path: "/api/v1/todos", token: alice,
		body: gin.H{"title": "private", "dueDate": "2026-05-01"}})
	path := "/api/v1/todos/" + strconv.FormatInt(int64(body["id"].(float64)), 10)

	for _, c := range []call{
		{method: http.MethodGet, path: path, token: bob},
		{method: http.MethodPut, path: path, token: bob, body: gin.H{"title": "mine now"}},
		{method: http.MethodDelete, path: path, token: bob},
	} {
		code, _, _ := serve(t, r, c)
		if code != http.StatusNotFound {
			t.Fatalf("%s %s as other user: %d, want 404", c.method, c.path, code)
		}
	}

	_, _, raw := serve(t, r, call{method: http.MethodGet, path: "/api/v1/todos", token: bob})
	if strings.TrimSpace(string(raw)) != "[]" {
		t.Fatalf("bob sees %s", raw)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _ := newTestRouter(t, false)

	tests := []struct {
		name, header, msg string
	}{
		{"missing", "", "No token provided."},
		{"no scheme", "abc", "Token malformatted."},
		{"bad token", "Bearer abc", "Token invalid."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/todos", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized || !strings.Contains(w.Body.String(), tt.msg) {
				t.Fatalf("got %d %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestServiceEndpoints(t *testing.T) {
	r, db := newTestRouter(t, false)

	code, body, _ := serve(t, r, call{method: http.MethodGet, path: "/"})
	if code != http.StatusOK || body["message"] != "TodoList API running." {
		t.Fatalf("root: %d %v", code, body)
	}

	code, body, _ = serve(t, r, call{method: http.MethodGet, path: "/version"})
	if code != http.StatusOK || body["version"] != "1.2.3" {
		t.Fatalf("version: %d %v", code, body)
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("health: %d", w.Code)
	}
	if got := w.Header().Get("X-Request-ID"); got != "req-42" {
		t.Fatalf("request id = %q", got)
	}

	code, _, raw := serve(t, r, call{method: http.MethodGet, path: "/metrics"})
	if code != http.StatusOK || !strings.Contains(string(raw), `todolist_http_requests_total{method="GET",path="/health",status="200"} 1`) {
		t.Fatalf("metrics: %d %s", code, raw)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	_ = sqlDB.Close()
	code, body, _ = serve(t, r, call{method: http.MethodGet, path: "/health"})
	if code != http.StatusServiceUnavailable || body["ok"] != false {
		t.Fatalf("health with closed db: %d %v", code, body)
	}
}
