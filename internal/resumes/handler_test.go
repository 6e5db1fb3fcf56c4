package resumes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	public := r.Group("/api/resumes")
	protected := r.Group("/api/resumes", func(c *gin.Context) {
		userID := c.GetHeader("X-Test-User")
		if userID == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Request = c.Request.WithContext(middleware.WithUserID(c.Request.Context(), userID))
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(public, protected)
	return r
}

func doRequest(t *testing.T, router http.Handler, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

type resumeEnvelope struct {
	Message string `json:"message"`
	Resume  Resume `json:"resume"`
}

func decodeEnvelope(t *testing.T, resp *httptest.ResponseRecorder) resumeEnvelope {
	t.Helper()
	var out resumeEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestResumeLifecycle(t *testing.T) {
	router := newTestRouter(NewService(NewMemoryRepo()))

	resp := doRequest(t, router, http.MethodPost, "/api/resumes/create", "u1", map[string]string{"title": "Backend"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", resp.Code)
	}
	created := decodeEnvelope(t, resp)
	if created.Message != "Resume created successfully" {
		t.Fatalf("unexpected message %q", created.Message)
	}
	id := created.Resume.ID
	if id == "" || created.Resume.UserID != "u1" || created.Resume.Title != "Backend" {
		t.Fatalf("unexpected resume: %+v", created.Resume)
	}

	resp = doRequest(t, router, http.MethodGet, "/api/resumes/get/"+id, "u2", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("foreign get: expected 404, got %d", resp.Code)
	}
	if msg := decodeEnvelope(t, resp).Message; msg != "Resume not found" {
		t.Fatalf("unexpected message %q", msg)
	}

	resp = doRequest(t, router, http.MethodGet, "/api/resumes/public/"+id, "", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("private public get: expected 404, got %d", resp.Code)
	}

	resp = doRequest(t, router, http.MethodPut, "/api/resumes/update", "u1", map[string]any{
		"resumeId":   id,
		"resumeData": map[string]any{"public": true, "skills": []string{"Go"}},
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", resp.Code)
	}
	updated := decodeEnvelope(t, resp)
	if updated.Message != "Saved successfully" || !updated.Resume.Public {
		t.Fatalf("unexpected update response: %+v", updated)
	}

	resp = doRequest(t, router, http.MethodGet, "/api/resumes/public/"+id, "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("public get: expected 200, got %d", resp.Code)
	}
	if got := decodeEnvelope(t, resp).Resume.Skills; len(got) != 1 || got[0] != "Go" {
		t.Fatalf("unexpected skills %v", got)
	}

	resp = doRequest(t, router, http.MethodDelete, "/api/resumes/delete/"+id, "u1", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", resp.Code)
	}
	if msg := decodeEnvelope(t, resp).Message; msg != "Resume deleted successfully" {
		t.Fatalf("unexpected message %q", msg)
	}

	resp = doRequest(t, router, http.MethodGet, "/api/resumes/get/"+id, "u1", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", resp.Code)
	}
}

func TestCreateWithoutBodyUsesDefaultTitle(t *testing.T) {
	router := newTestRouter(NewService(NewMemoryRepo()))

	req := httptest.NewRequest(http.MethodPost, "/api/resumes/create", nil)
	req.Header.Set("X-Test-User", "u1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	if title := decodeEnvelope(t, resp).Resume.Title; title != DefaultTitle {
		t.Fatalf("expected default title, got %q", title)
	}
}

func TestUpdateRequiresResumeID(t *testing.T) {
	router := newTestRouter(NewService(NewMemoryRepo()))

	resp := doRequest(t, router, http.MethodPut, "/api/resumes/update", "u1", map[string]any{
		"resumeData": map[string]any{"title": "x"},
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if msg := decodeEnvelope(t, resp).Message; msg != "Missing required fields" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestUpdateAcceptsMultipartForm(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	router := newTestRouter(svc)

	resp := doRequest(t, router, http.MethodPost, "/api/resumes/create", "u1", map[string]string{"title": "Draft"})
	id := decodeEnvelope(t, resp).Resume.ID

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("resumeId", id); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := writer.WriteField("resumeData", `{"title":"Final"}`); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPut, "/api/resumes/update", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Test-User", "u1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if title := decodeEnvelope(t, rec).Resume.Title; title != "Final" {
		t.Fatalf("expected updated title, got %q", title)
	}
}
