package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/usthb-datascience/tic-projects/backend/internal/config"
)

// newTestApp boots the full application against a private in-memory database
// and returns a ready router.
func newTestApp(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.DefaultConfig()
	cfg.Server.Mode = "test"
	cfg.Database.DSN = fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	cfg.Upload.Dir = t.TempDir()
	cfg.Log.RetentionDays = 0

	svc := bootstrap(cfg)
	t.Cleanup(svc.shutdown)

	r := gin.New()
	registerRoutes(r, svc)
	return r
}

func request(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func TestPlatformLifecycle(t *testing.T) {
	router := newTestApp(t)

	var aliceToken, bobToken string
	var projectID float64

	t.Run("register alice", func(t *testing.T) {
		w := request(t, router, "POST", "/auth/register", "", gin.H{
			"username": "alice", "email": "alice@usthb.dz", "password": "secret123",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		body := decode(t, w)
		aliceToken, _ = body["token"].(string)
		if aliceToken == "" {
			t.Fatal("no token in register response")
		}
		user := body["user"].(map[string]interface{})
		if user["username"] != "alice" {
			t.Errorf("user = %v", user)
		}
	})

	t.Run("register bob", func(t *testing.T) {
		w := request(t, router, "POST", "/auth/register", "", gin.H{
			"username": "bob", "email": "bob@usthb.dz", "password": "secret123",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		bobToken, _ = decode(t, w)["token"].(string)
	})

	t.Run("login with wrong password", func(t *testing.T) {
		w := request(t, router, "POST", "/auth/login", "", gin.H{
			"email": "alice@usthb.dz", "password": "wrongpass",
		})
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, expected 401", w.Code)
		}
		if decode(t, w)["error"] != "Invalid email/username or password" {
			t.Errorf("body = %s", w.Body.String())
		}
	})

	t.Run("create project", func(t *testing.T) {
		w := request(t, router, "POST", "/projects", aliceToken, gin.H{
			"title":       "Vision Project",
			"description": "A computer vision project for the TIC module",
			"section":     "A",
			"drive_link":  "https://drive.google.com/drive/folders/abc123",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		body := decode(t, w)
		if body["message"] != "Project created successfully" {
			t.Errorf("message = %v", body["message"])
		}
		projectID = body["project"].(map[string]interface{})["id"].(float64)
	})

	t.Run("duplicate submission answers with the original", func(t *testing.T) {
		w := request(t, router, "POST", "/projects", aliceToken, gin.H{
			"title":       "Vision Project",
			"description": "A computer vision project for the TIC module",
			"section":     "A",
			"drive_link":  "https://drive.google.com/drive/folders/abc123",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		body := decode(t, w)
		if body["message"] != "Project already submitted" {
			t.Errorf("message = %v", body["message"])
		}
		if got := body["project"].(map[string]interface{})["id"].(float64); got != projectID {
			t.Errorf("duplicate returned project %v, expected %v", got, projectID)
		}
	})

	t.Run("anonymous listing", func(t *testing.T) {
		w := request(t, router, "GET", "/projects", "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		projects := decode(t, w)["projects"].([]interface{})
		if len(projects) != 1 {
			t.Errorf("projects = %d, expected 1 after the debounce", len(projects))
		}
	})

	t.Run("anonymous create rejected", func(t *testing.T) {
		w := request(t, router, "POST", "/projects", "", gin.H{"title": "X"})
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, expected 401", w.Code)
		}
		if decode(t, w)["code"] != "MISSING_TOKEN" {
			t.Errorf("body = %s", w.Body.String())
		}
	})

	path := func(suffix string) string {
		return fmt.Sprintf("/projects/%.0f%s", projectID, suffix)
	}

	t.Run("bob reviews then revises", func(t *testing.T) {
		w := request(t, router, "POST", path("/reviews"), bobToken, gin.H{"rating": 5, "comment": "great"})
		if w.Code != http.StatusCreated {
			t.Fatalf("first review status = %d, body = %s", w.Code, w.Body.String())
		}

		w = request(t, router, "POST", path("/reviews"), bobToken, gin.H{"rating": 3, "comment": "revised"})
		if w.Code != http.StatusOK {
			t.Fatalf("second review status = %d, body = %s", w.Code, w.Body.String())
		}
		if decode(t, w)["message"] != "Review updated successfully" {
			t.Errorf("body = %s", w.Body.String())
		}

		w = request(t, router, "GET", path(""), "", nil)
		project := decode(t, w)["project"].(map[string]interface{})
		if project["avg_rating"].(float64) != 3 {
			t.Errorf("avg_rating = %v, expected 3 after the overwrite", project["avg_rating"])
		}
		if project["review_count"].(float64) != 1 {
			t.Errorf("review_count = %v, expected 1", project["review_count"])
		}
	})

	t.Run("my-review reflects the latest values", func(t *testing.T) {
		w := request(t, router, "GET", path("/my-review"), bobToken, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		review := decode(t, w)["review"].(map[string]interface{})
		if review["rating"].(float64) != 3 {
			t.Errorf("rating = %v", review["rating"])
		}

		// Alice has not reviewed her own project.
		w = request(t, router, "GET", path("/my-review"), aliceToken, nil)
		if decode(t, w)["review"] != nil {
			t.Errorf("alice's review should be null, got %s", w.Body.String())
		}
	})

	t.Run("bob cannot delete alice's project", func(t *testing.T) {
		w := request(t, router, "DELETE", path(""), bobToken, nil)
		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, expected 403", w.Code)
		}
	})

	t.Run("alice deletes her project", func(t *testing.T) {
		w := request(t, router, "DELETE", path(""), aliceToken, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}

		w = request(t, router, "GET", path(""), "", nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("deleted project GET status = %d, expected 404", w.Code)
		}
	})

	t.Run("health", func(t *testing.T) {
		w := request(t, router, "GET", "/health", "", nil)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d", w.Code)
		}
	})
}
