// Package chunker 把抽取出的文本切分为带重叠的 token 窗口
package chunker

import (
	"unicode"

	"github.com/voxe-ai/voxe-knowledge/internal/service/types"
)

// Config 分块配置
type Config struct {
	ChunkSize int // 每块 token 数
	Overlap   int // 相邻块重叠 token 数
}

// Validate 校验分块配置
// 在任何分块产生之前拒绝非法配置，overlap >= chunkSize 会导致死循环
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return types.NewError(types.KindChunkConfig, "chunk size must be positive")
	}
	if c.Overlap < 0 {
		return types.NewError(types.KindChunkConfig, "chunk overlap must not be negative")
	}
	if c.Overlap >= c.ChunkSize {
		return types.NewError(types.KindChunkConfig, "chunk overlap must be smaller than chunk size")
	}
	return nil
}

// Chunk 一个切分结果
type Chunk struct {
	Index      int    // 序号，从 0 连续递增
	Content    string // 原文切片，保留内部空白
	TokenCount int
	PageNumber int // 首 token 所在页，无页信息时为 0
}

// token 一个近似 token：按空白切出的词
type token struct {
	start int // 原文中的字节起点
	end   int // 字节终点（不含）
}

// Split 按固定 token 窗口切分文本
// 每前进 chunkSize-overlap 个 token 产出一块，每块覆盖 chunkSize 个 token，
// 末块可短于 chunkSize。相同输入与配置产出相同边界。
// pageOffsets 是每页起始字节偏移（可为 nil），用于回填块所在页。
func Split(text string, cfg Config, pageOffsets []int) ([]Chunk, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil, nil
	}

	step := cfg.ChunkSize - cfg.Overlap
	chunks := make([]Chunk, 0, (len(tokens)+step-1)/step)

	for start := 0; start < len(tokens); start += step {
		end := start + cfg.ChunkSize
		if end > len(tokens) {
			end = len(tokens)
		}

		first, last := tokens[start], tokens[end-1]
		chunks = append(chunks, Chunk{
			Index:      len(chunks),
			Content:    text[first.start:last.end],
			TokenCount: end - start,
			PageNumber: pageAt(pageOffsets, first.start),
		})
	}

	return chunks, nil
}

// CountTokens 统计文本的近似 token 数
// 必须与 Split 使用同一个计数方式，否则块大小与向量模型预期脱节
func CountTokens(text string) int {
	return len(tokenize(text))
}

// tokenize 按空白切词并记录字节偏移
func tokenize(text string) []token {
	var tokens []token
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = append(tokens, token{start: start, end: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, token{start: start, end: len(text)})
	}
	return tokens
}

// pageAt 返回字节偏移 off 所在的页号（1 起），无页信息时为 0
func pageAt(pageOffsets []int, off int) int {
	if len(pageOffsets) == 0 {
		return 0
	}
	page := 1
	for i := 1; i < len(pageOffsets); i++ {
		if off >= pageOffsets[i] {
			page = i + 1
		}
	}
	return page
}
