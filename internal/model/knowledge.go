package model

import "time"

// 文档处理状态
const (
	DocumentStatusPending    = "pending"
	DocumentStatusProcessing = "processing"
	DocumentStatusCompleted  = "completed"
	DocumentStatusFailed     = "failed"
)

// 支持的文件类型
const (
	FileTypePDF  = "pdf"
	FileTypeDOCX = "docx"
	FileTypeTXT  = "txt"
	FileTypeMD   = "md"
)

// KnowledgeBase 知识库
type KnowledgeBase struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	TenantID    string `gorm:"index;size:36" json:"tenant_id"`
	Name        string `gorm:"size:100" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	EmbedModel  string `gorm:"size:50" json:"embed_model"`
	Active      bool   `gorm:"default:true;index" json:"active"`

	// 聚合计数，只允许原子增减，不允许读改写
	TotalDocuments int64 `gorm:"default:0" json:"total_documents"`
	TotalChunks    int64 `gorm:"default:0" json:"total_chunks"`
	TotalTokens    int64 `gorm:"default:0" json:"total_tokens"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	Documents []Document `gorm:"foreignKey:KnowledgeBaseID" json:"documents,omitempty"`
}

// Document 文档
type Document struct {
	ID              string `gorm:"primaryKey;size:36" json:"id"`
	KnowledgeBaseID string `gorm:"index;size:36" json:"knowledge_base_id"`
	FileName        string `gorm:"size:255" json:"file_name"`
	FileType        string `gorm:"size:10" json:"file_type"`
	FileSize        int64  `gorm:"default:0" json:"file_size"`
	StoragePath     string `gorm:"size:500" json:"storage_path"`
	Status          string `gorm:"size:20;index;default:pending" json:"status"`
	ErrorMsg        string `gorm:"type:text" json:"error_msg,omitempty"`

	// 分块配置，上传时固化，重处理可覆盖
	ChunkSize    int `gorm:"default:512" json:"chunk_size"`
	ChunkOverlap int `gorm:"default:50" json:"chunk_overlap"`

	ChunkCount int `gorm:"default:0" json:"chunk_count"`
	TokenCount int `gorm:"default:0" json:"token_count"`
	PageCount  int `gorm:"default:0" json:"page_count"`

	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	Chunks    []DocumentChunk `gorm:"foreignKey:DocumentID" json:"chunks,omitempty"`
}

// DocumentChunk 文档分块
// 创建后不可变，重处理时整批删除重建
type DocumentChunk struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	DocumentID      string    `gorm:"index;size:36" json:"document_id"`
	KnowledgeBaseID string    `gorm:"index;size:36" json:"knowledge_base_id"`
	ChunkIndex      int       `gorm:"index" json:"chunk_index"`
	Content         string    `gorm:"type:text" json:"content"`
	TokenCount      int       `gorm:"default:0" json:"token_count"`
	Embedding       Vector    `gorm:"type:jsonb" json:"-"`
	PageNumber      int       `gorm:"default:0" json:"page_number,omitempty"`
	Section         string    `gorm:"size:255" json:"section,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (KnowledgeBase) TableName() string {
	return "knowledge_bases"
}

func (Document) TableName() string {
	return "documents"
}

func (DocumentChunk) TableName() string {
	return "document_chunks"
}

// FileTypeFromExt 根据扩展名识别文件类型
func FileTypeFromExt(ext string) (string, bool) {
	switch ext {
	case ".pdf":
		return FileTypePDF, true
	case ".docx":
		return FileTypeDOCX, true
	case ".txt":
		return FileTypeTXT, true
	case ".md", ".markdown":
		return FileTypeMD, true
	default:
		return "", false
	}
}
