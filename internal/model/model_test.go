package model

import (
	"testing"
)

// ========== Vector 测试 ==========

func TestVectorScanValue(t *testing.T) {
	orig := Vector{0.1, -0.5, 2}

	val, err := orig.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}

	var got Vector
	if err := got.Scan(val); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if got.Dim() != orig.Dim() {
		t.Fatalf("Dim = %d, want %d", got.Dim(), orig.Dim())
	}
	for i := range orig {
		if got[i] != orig[i] {
			t.Errorf("element %d = %v, want %v", i, got[i], orig[i])
		}
	}
}

func TestVectorScanString(t *testing.T) {
	var v Vector
	if err := v.Scan("[1,2,3]"); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if v.Dim() != 3 {
		t.Errorf("Dim = %d, want 3", v.Dim())
	}
}

func TestVectorNil(t *testing.T) {
	var v Vector
	val, err := v.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if val != nil {
		t.Errorf("nil vector Value = %v, want nil", val)
	}

	var scanned Vector
	if err := scanned.Scan(nil); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if scanned != nil {
		t.Errorf("scanned nil = %v, want nil", scanned)
	}
}

func TestVectorScanUnsupportedType(t *testing.T) {
	var v Vector
	if err := v.Scan(42); err == nil {
		t.Fatal("expected error for unsupported column type")
	}
}

// ========== TierConfig 测试 ==========

func TestTierConfigValidate(t *testing.T) {
	valid := TierConfig{
		DocumentSizeLimit:    1024,
		ChunkSize:            512,
		ChunkOverlap:         50,
		MaxChunksPerDocument: 2000,
		MaxKnowledgeBases:    10,
	}

	tests := []struct {
		name    string
		mutate  func(*TierConfig)
		wantErr bool
	}{
		{"valid", func(c *TierConfig) {}, false},
		{"zero overlap ok", func(c *TierConfig) { c.ChunkOverlap = 0 }, false},
		{"zero size limit", func(c *TierConfig) { c.DocumentSizeLimit = 0 }, true},
		{"zero chunk size", func(c *TierConfig) { c.ChunkSize = 0 }, true},
		{"negative overlap", func(c *TierConfig) { c.ChunkOverlap = -1 }, true},
		{"overlap equals chunk size", func(c *TierConfig) { c.ChunkOverlap = c.ChunkSize }, true},
		{"zero max chunks", func(c *TierConfig) { c.MaxChunksPerDocument = 0 }, true},
		{"zero max knowledge bases", func(c *TierConfig) { c.MaxKnowledgeBases = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

// ========== FileTypeFromExt 测试 ==========

func TestFileTypeFromExt(t *testing.T) {
	tests := []struct {
		ext    string
		want   string
		wantOK bool
	}{
		{".pdf", FileTypePDF, true},
		{".docx", FileTypeDOCX, true},
		{".txt", FileTypeTXT, true},
		{".md", FileTypeMD, true},
		{".markdown", FileTypeMD, true},
		{".exe", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := FileTypeFromExt(tt.ext)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("FileTypeFromExt(%q) = (%q, %v), want (%q, %v)", tt.ext, got, ok, tt.want, tt.wantOK)
		}
	}
}
