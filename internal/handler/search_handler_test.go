package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestSearchMissingQuery(t *testing.T) {
	h := NewSearchHandler(nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/search",
		strings.NewReader(`{"limit": 5}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Search(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestSearchInvalidBody(t *testing.T) {
	h := NewSearchHandler(nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/search",
		strings.NewReader("not json"))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Search(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
