// Package types 定义共享的类型和错误
package types

import (
	"errors"
	"fmt"
)

// ErrKind 错误类别，决定对外的 HTTP 状态
type ErrKind string

const (
	// KindValidation 输入不合法，客户端可修复
	KindValidation ErrKind = "validation"
	// KindNotFound 资源不存在或无权访问
	KindNotFound ErrKind = "not_found"
	// KindTierLimit 超出套餐限制
	KindTierLimit ErrKind = "tier_limit"
	// KindExtraction 文档解析失败
	KindExtraction ErrKind = "extraction"
	// KindEmbedding 向量化服务失败
	KindEmbedding ErrKind = "embedding"
	// KindChunkConfig 分块配置不合法
	KindChunkConfig ErrKind = "chunk_config"
	// KindInternal 其余服务端错误
	KindInternal ErrKind = "internal"
)

// Error 带类别的业务错误
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error
}

// Error 实现 error 接口
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

// Unwrap 支持 errors.Is / errors.As
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError 创建业务错误
func NewError(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// WrapError 包装底层错误
func WrapError(kind ErrKind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf 提取错误类别，非业务错误归为 internal
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// SearchResult 检索结果
type SearchResult struct {
	ChunkID         string  `json:"chunk_id"`
	DocumentID      string  `json:"document_id"`
	KnowledgeBaseID string  `json:"knowledge_base_id"`
	ChunkIndex      int     `json:"chunk_index"`
	Content         string  `json:"content"`
	PageNumber      int     `json:"page_number,omitempty"`
	Section         string  `json:"section,omitempty"`
	Similarity      float64 `json:"similarity"`
}
