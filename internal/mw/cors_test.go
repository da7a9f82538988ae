package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		env        string
		origins    []string
		origin     string
		method     string
		wantAllow  string
		wantStatus int
	}{
		{"no origin header", "prod", nil, "", http.MethodGet, "", http.StatusOK},
		{"dev allows any origin", "dev", nil, "http://evil.test", http.MethodGet, "http://evil.test", http.StatusOK},
		{"prod allowlisted origin", "prod", []string{"https://blog.test"}, "https://blog.test", http.MethodGet, "https://blog.test", http.StatusOK},
		{"prod foreign origin", "prod", []string{"https://blog.test"}, "https://evil.test", http.MethodGet, "", http.StatusOK},
		{"prod same host", "prod", nil, "http://example.com", http.MethodGet, "http://example.com", http.StatusOK},
		{"preflight", "dev", nil, "http://a.test", http.MethodOptions, "http://a.test", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(CORS(tt.env, tt.origins))
			r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
			r.OPTIONS("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(tt.method, "http://example.com/x", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantAllow)
			}
		})
	}
}
