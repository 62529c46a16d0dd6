package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"qatar-standard/internal/articles"
	"qatar-standard/internal/auth"

	"github.com/gin-gonic/gin"
)

type fakeChecker struct {
	reachable bool
}

func (f *fakeChecker) Reachable(ctx context.Context, imageURL string) bool {
	return f.reachable
}

func setupAdminRouter(svc *articles.Service, checker ImageChecker) (*gin.Engine, *auth.TokenManager) {
	gin.SetMode(gin.TestMode)
	tokens := auth.NewTokenManager("test-secret")
	handler := NewAdminHandler(svc, tokens, checker, "admin-pass")

	router := gin.New()
	router.POST("/api/admin/auth", handler.Login)
	admin := router.Group("/api/admin", handler.RequireAuth())
	{
		admin.GET("/articles", handler.ListArticles)
		admin.DELETE("/articles", handler.DeleteArticle)
		admin.PATCH("/articles/:slug/image", handler.UpdateImage)
		admin.GET("/articles/:slug/preview", handler.Preview)
	}
	return router, tokens
}

func adminToken(t *testing.T, tokens *auth.TokenManager) string {
	t.Helper()
	token, err := tokens.Issue()
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	return "Bearer " + token
}

func TestAdminLogin(t *testing.T) {
	router, _ := setupAdminRouter(setupArticlesService(t), &fakeChecker{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/admin/auth",
		strings.NewReader(`{"password":"admin-pass"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body["token"] == "" {
		t.Errorf("Expected a session token, got %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/admin/auth",
		strings.NewReader(`{"password":"wrong"}`)))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for a bad password, got %d", w.Code)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	router, _ := setupAdminRouter(setupArticlesService(t), &fakeChecker{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/admin/articles", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without a token, got %d", w.Code)
	}
}

func TestAdminListWithSearch(t *testing.T) {
	svc := setupArticlesService(t)
	seedArticle(t, svc, "Gulf Talks", "diplomacy")
	seedArticle(t, svc, "Oil Markets", "economy")
	router, tokens := setupAdminRouter(svc, &fakeChecker{})

	req := httptest.NewRequest("GET", "/api/admin/articles?q=Gulf", nil)
	req.Header.Set("Authorization", adminToken(t, tokens))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var body struct {
		Articles []map[string]interface{} `json:"articles"`
		Total    int64                    `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid response JSON: %v", err)
	}
	if body.Total != 1 || body.Articles[0]["title_en"] != "Gulf Talks" {
		t.Errorf("Unexpected search result: %+v", body)
	}
}

func TestAdminDeleteMissing(t *testing.T) {
	router, tokens := setupAdminRouter(setupArticlesService(t), &fakeChecker{})

	req := httptest.NewRequest("DELETE", "/api/admin/articles?slug=no-such", nil)
	req.Header.Set("Authorization", adminToken(t, tokens))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestAdminUpdateImageRejectsDeadURL(t *testing.T) {
	svc := setupArticlesService(t)
	stored := seedArticle(t, svc, "Pictured", "general")
	router, tokens := setupAdminRouter(svc, &fakeChecker{reachable: false})

	req := httptest.NewRequest("PATCH", "/api/admin/articles/"+stored.Slug+"/image",
		strings.NewReader(`{"image_url":"https://example.com/dead.jpg"}`))
	req.Header.Set("Authorization", adminToken(t, tokens))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for an unreachable image, got %d", w.Code)
	}
}

func TestAdminUpdateImage(t *testing.T) {
	svc := setupArticlesService(t)
	stored := seedArticle(t, svc, "Pictured", "general")
	router, tokens := setupAdminRouter(svc, &fakeChecker{reachable: true})

	req := httptest.NewRequest("PATCH", "/api/admin/articles/"+stored.Slug+"/image",
		strings.NewReader(`{"image_url":"https://cdn.example.com/live.jpg"}`))
	req.Header.Set("Authorization", adminToken(t, tokens))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	again, err := svc.GetBySlug(stored.Slug)
	if err != nil {
		t.Fatalf("GetBySlug failed: %v", err)
	}
	if again.ImageURL == nil || *again.ImageURL != "https://cdn.example.com/live.jpg" {
		t.Errorf("Expected persisted image URL, got %v", again.ImageURL)
	}
}

func TestAdminPreviewRendersHTML(t *testing.T) {
	svc := setupArticlesService(t)
	stored := seedArticle(t, svc, "Previewed", "general")
	router, tokens := setupAdminRouter(svc, &fakeChecker{})

	req := httptest.NewRequest("GET", "/api/admin/articles/"+stored.Slug+"/preview?lang=en", nil)
	req.Header.Set("Authorization", adminToken(t, tokens))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	html := w.Body.String()
	if !strings.Contains(html, "<h1>Previewed</h1>") || !strings.Contains(html, `dir="ltr"`) {
		t.Errorf("Unexpected preview HTML: %s", html)
	}
	if !strings.Contains(html, "<p>Body.</p>") {
		t.Errorf("Expected rendered body paragraph, got %s", html)
	}
}

func TestAdminPreviewEscapesTitle(t *testing.T) {
	svc := setupArticlesService(t)
	stored := seedArticle(t, svc, `<script>alert("x")</script> & Co`, "general")
	router, tokens := setupAdminRouter(svc, &fakeChecker{})

	req := httptest.NewRequest("GET", "/api/admin/articles/"+stored.Slug+"/preview?lang=en", nil)
	req.Header.Set("Authorization", adminToken(t, tokens))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	html := w.Body.String()
	if strings.Contains(html, "<script>") {
		t.Errorf("Expected the title escaped, got %s", html)
	}
	if !strings.Contains(html, "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt; &amp; Co") {
		t.Errorf("Expected escaped title text, got %s", html)
	}
}
