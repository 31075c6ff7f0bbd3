package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(t.TempDir(), "/files")
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	return s
}

// ========== Save / Get 测试 ==========

func TestSaveAndGet(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	content := "hello knowledge base"
	path, err := s.Save(ctx, &SaveRequest{
		FileName:        "doc.txt",
		ContentType:     "text/plain",
		Size:            int64(len(content)),
		Reader:          strings.NewReader(content),
		TenantID:        "t1",
		KnowledgeBaseID: "kb1",
	})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	rc, err := s.Get(ctx, path)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(b) != content {
		t.Errorf("content = %q, want %q", b, content)
	}
}

func TestSavePathShape(t *testing.T) {
	s := newTestStorage(t)

	path, err := s.Save(context.Background(), &SaveRequest{
		FileName:        "report.pdf",
		TenantID:        "tenant-a",
		KnowledgeBaseID: "kb-b",
		Reader:          strings.NewReader("x"),
	})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// 路径形如 {tenantID}/{kbID}/{uuid}{ext}
	parts := strings.Split(path, "/")
	if len(parts) != 3 {
		t.Fatalf("path %q has %d segments, want 3", path, len(parts))
	}
	if parts[0] != "tenant-a" || parts[1] != "kb-b" {
		t.Errorf("path %q not scoped by tenant and knowledge base", path)
	}
	if filepath.Ext(parts[2]) != ".pdf" {
		t.Errorf("path %q lost file extension", path)
	}
}

func TestSaveSameNameNoCollision(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	req := func() *SaveRequest {
		return &SaveRequest{
			FileName:        "same.txt",
			TenantID:        "t1",
			KnowledgeBaseID: "kb1",
			Reader:          strings.NewReader("x"),
		}
	}

	p1, err := s.Save(ctx, req())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	p2, err := s.Save(ctx, req())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if p1 == p2 {
		t.Errorf("same file name produced colliding paths: %q", p1)
	}
}

func TestSaveExtensionFromContentType(t *testing.T) {
	s := newTestStorage(t)

	path, err := s.Save(context.Background(), &SaveRequest{
		FileName:        "noext",
		ContentType:     "text/markdown",
		TenantID:        "t1",
		KnowledgeBaseID: "kb1",
		Reader:          strings.NewReader("# title"),
	})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if filepath.Ext(path) != ".md" {
		t.Errorf("path %q should carry .md extension from content type", path)
	}
}

// ========== Delete 测试 ==========

func TestDeleteIdempotent(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	path, err := s.Save(ctx, &SaveRequest{
		FileName:        "doc.txt",
		TenantID:        "t1",
		KnowledgeBaseID: "kb1",
		Reader:          strings.NewReader("x"),
	})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if err := s.Delete(ctx, path); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := s.Get(ctx, path); err == nil {
		t.Error("file still readable after delete")
	}

	// 重复删除不报错
	if err := s.Delete(ctx, path); err != nil {
		t.Fatalf("second delete failed: %v", err)
	}
	if err := s.Delete(ctx, "t1/kb1/never-existed.txt"); err != nil {
		t.Fatalf("delete of missing path failed: %v", err)
	}
}

// ========== GetURL 测试 ==========

func TestGetURL(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "/files/")
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	if got := s.GetURL("t1/kb1/x.txt"); got != "/files/t1/kb1/x.txt" {
		t.Errorf("GetURL = %q", got)
	}
}

func TestNewLocalStorageCreatesBasePath(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "dir")
	if _, err := NewLocalStorage(base, "/files"); err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	if _, err := os.Stat(base); err != nil {
		t.Errorf("base path not created: %v", err)
	}
}
