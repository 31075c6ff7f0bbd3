package model

import "time"

// Workflow 下游工作流
// 工作流通过链接表关联若干知识库，检索时按 Priority 排序解析范围
type Workflow struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	TenantID    string    `gorm:"index;size:36" json:"tenant_id"`
	Name        string    `gorm:"size:100" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Active      bool      `gorm:"default:true" json:"active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	KnowledgeBases []WorkflowKnowledgeBase `gorm:"foreignKey:WorkflowID" json:"knowledge_bases,omitempty"`
}

// WorkflowKnowledgeBase 工作流与知识库的链接
type WorkflowKnowledgeBase struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	WorkflowID      string    `gorm:"index:idx_workflow_kb,unique;size:36" json:"workflow_id"`
	KnowledgeBaseID string    `gorm:"index:idx_workflow_kb,unique;size:36" json:"knowledge_base_id"`
	Priority        int       `gorm:"default:0" json:"priority"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Workflow) TableName() string {
	return "workflows"
}

func (WorkflowKnowledgeBase) TableName() string {
	return "workflow_knowledge_bases"
}
