package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// 校验分支在进入服务层之前返回，handler 可以不带服务实例测试

func TestUploadDocumentWithoutFile(t *testing.T) {
	h := NewKnowledgeHandler(nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/knowledge-bases/kb1/documents", nil)

	h.UploadDocument(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCreateKnowledgeBaseInvalidJSON(t *testing.T) {
	h := NewKnowledgeHandler(nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/knowledge-bases",
		strings.NewReader("{not json"))
	c.Request.Header.Set("Content-Type", "application/json")

	h.CreateKnowledgeBase(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCreateKnowledgeBaseMissingName(t *testing.T) {
	h := NewKnowledgeHandler(nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/knowledge-bases",
		strings.NewReader(`{"description":"no name"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.CreateKnowledgeBase(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
