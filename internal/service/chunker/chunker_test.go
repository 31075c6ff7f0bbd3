package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/voxe-ai/voxe-knowledge/internal/service/types"
)

// ========== Config 校验测试 ==========

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{ChunkSize: 200, Overlap: 20}, false},
		{"zero overlap", Config{ChunkSize: 100, Overlap: 0}, false},
		{"zero chunk size", Config{ChunkSize: 0, Overlap: 0}, true},
		{"negative chunk size", Config{ChunkSize: -1, Overlap: 0}, true},
		{"negative overlap", Config{ChunkSize: 100, Overlap: -1}, true},
		{"overlap equals chunk size", Config{ChunkSize: 100, Overlap: 100}, true},
		{"overlap exceeds chunk size", Config{ChunkSize: 100, Overlap: 150}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if types.KindOf(err) != types.KindChunkConfig {
					t.Fatalf("expected chunk_config kind, got %s", types.KindOf(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

// ========== Split 测试 ==========

func makeWords(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(words, " ")
}

func TestSplitCoversAllTokens(t *testing.T) {
	text := makeWords(25)
	cfg := Config{ChunkSize: 10, Overlap: 2}

	chunks, err := Split(text, cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// step = 8，起点 0, 8, 16, 24，共 4 块
	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(chunks))
	}

	// 首词和末词必须被覆盖
	if !strings.HasPrefix(chunks[0].Content, "w0 ") {
		t.Errorf("first chunk does not start at first token: %q", chunks[0].Content)
	}
	last := chunks[len(chunks)-1]
	if !strings.HasSuffix(last.Content, "w24") {
		t.Errorf("last chunk does not end at last token: %q", last.Content)
	}
}

func TestSplitChunkSizes(t *testing.T) {
	text := makeWords(25)
	chunks, err := Split(text, Config{ChunkSize: 10, Overlap: 2}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, ch := range chunks {
		if ch.Index != i {
			t.Errorf("chunk %d has index %d", i, ch.Index)
		}
		if i < len(chunks)-1 && ch.TokenCount != 10 {
			t.Errorf("chunk %d has %d tokens, want 10", i, ch.TokenCount)
		}
		if ch.TokenCount > 10 {
			t.Errorf("chunk %d exceeds chunk size: %d tokens", i, ch.TokenCount)
		}
	}

	// 末块：起点 24，剩 1 个 token
	if got := chunks[len(chunks)-1].TokenCount; got != 1 {
		t.Errorf("last chunk has %d tokens, want 1", got)
	}
}

func TestSplitOverlap(t *testing.T) {
	text := makeWords(20)
	chunks, err := Split(text, Config{ChunkSize: 10, Overlap: 3}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}

	// 后一块的前 3 个词等于前一块的后 3 个词
	prev := strings.Fields(chunks[0].Content)
	next := strings.Fields(chunks[1].Content)
	for i := 0; i < 3; i++ {
		if prev[len(prev)-3+i] != next[i] {
			t.Fatalf("overlap mismatch: %v vs %v", prev[len(prev)-3:], next[:3])
		}
	}
}

func TestSplitDeterministic(t *testing.T) {
	text := makeWords(100)
	cfg := Config{ChunkSize: 16, Overlap: 4}

	a, err := Split(text, cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Split(text, cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(a) != len(b) {
		t.Fatalf("chunk counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("chunk %d differs between runs", i)
		}
	}
}

func TestSplitEmptyInput(t *testing.T) {
	for _, text := range []string{"", "   \n\t  "} {
		chunks, err := Split(text, Config{ChunkSize: 10, Overlap: 2}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(chunks) != 0 {
			t.Fatalf("expected no chunks for %q, got %d", text, len(chunks))
		}
	}
}

func TestSplitInvalidConfig(t *testing.T) {
	_, err := Split("hello world", Config{ChunkSize: 5, Overlap: 5}, nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if types.KindOf(err) != types.KindChunkConfig {
		t.Fatalf("expected chunk_config kind, got %s", types.KindOf(err))
	}
}

func TestSplitSingleChunk(t *testing.T) {
	chunks, err := Split("one two three", Config{ChunkSize: 10, Overlap: 2}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Content != "one two three" {
		t.Errorf("unexpected content: %q", chunks[0].Content)
	}
	if chunks[0].TokenCount != 3 {
		t.Errorf("unexpected token count: %d", chunks[0].TokenCount)
	}
}

func TestSplitPreservesInnerWhitespace(t *testing.T) {
	text := "alpha  beta\ngamma"
	chunks, err := Split(text, Config{ChunkSize: 10, Overlap: 0}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chunks[0].Content != text {
		t.Errorf("inner whitespace not preserved: %q", chunks[0].Content)
	}
}

func TestSplitPageMapping(t *testing.T) {
	// 两页文本，第二页从字节偏移 12 开始
	text := "page one txt page two text"
	pageOffsets := []int{0, 13}

	chunks, err := Split(text, Config{ChunkSize: 3, Overlap: 0}, pageOffsets)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].PageNumber != 1 {
		t.Errorf("first chunk page = %d, want 1", chunks[0].PageNumber)
	}
	if chunks[1].PageNumber != 2 {
		t.Errorf("second chunk page = %d, want 2", chunks[1].PageNumber)
	}
}

func TestSplitNoPageInfo(t *testing.T) {
	chunks, err := Split("a b c", Config{ChunkSize: 2, Overlap: 0}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, ch := range chunks {
		if ch.PageNumber != 0 {
			t.Errorf("chunk %d has page %d, want 0", ch.Index, ch.PageNumber)
		}
	}
}

// ========== CountTokens 测试 ==========

func TestCountTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"hello", 1},
		{"hello world", 2},
		{"  a\tb\nc  ", 3},
		{"中文 分词 测试", 3},
	}

	for _, tt := range tests {
		if got := CountTokens(tt.text); got != tt.want {
			t.Errorf("CountTokens(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
