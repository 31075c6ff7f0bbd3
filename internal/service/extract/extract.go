// Package extract 把已知类型的文件字节转换成纯文本
// 直接使用 eino-ext 解析器组件，避免冗余封装
package extract

import (
	"context"
	"io"
	"strings"

	"github.com/cloudwego/eino-ext/components/document/parser/docx"
	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoparser "github.com/cloudwego/eino/components/document/parser"
	"github.com/cloudwego/eino/schema"

	"github.com/voxe-ai/voxe-knowledge/internal/model"
	"github.com/voxe-ai/voxe-knowledge/internal/service/types"
)

// Result 抽取结果
type Result struct {
	Text        string
	PageOffsets []int // 每页起始字节偏移，仅 PDF 有
	PageCount   int
	WordCount   int // 按空白切分，仅用于日志诊断
	CharCount   int
}

// Extract 抽取文件文本
// 任何解析失败都是整体失败，不产出部分结果
func Extract(ctx context.Context, fileType string, reader io.Reader) (*Result, error) {
	p, err := newParser(ctx, fileType)
	if err != nil {
		return nil, err
	}

	docs, err := p.Parse(ctx, reader)
	if err != nil {
		return nil, types.WrapError(types.KindExtraction, "failed to parse document", err)
	}

	return assemble(docs, fileType), nil
}

// newParser 按文件类型创建解析器
func newParser(ctx context.Context, fileType string) (einoparser.Parser, error) {
	switch fileType {
	case model.FileTypePDF:
		p, err := pdf.NewPDFParser(ctx, &pdf.Config{ToPages: true})
		if err != nil {
			return nil, types.WrapError(types.KindExtraction, "failed to create pdf parser", err)
		}
		return p, nil
	case model.FileTypeDOCX:
		p, err := docx.NewDocxParser(ctx, &docx.Config{
			ToSections:      false,
			IncludeComments: false,
			IncludeHeaders:  true,
			IncludeFooters:  false,
			IncludeTables:   true,
		})
		if err != nil {
			return nil, types.WrapError(types.KindExtraction, "failed to create docx parser", err)
		}
		return p, nil
	case model.FileTypeTXT, model.FileTypeMD:
		return &textParser{}, nil
	default:
		return nil, types.NewError(types.KindValidation, "unsupported file type: "+fileType)
	}
}

// textParser 纯文本解析器
type textParser struct{}

func (p *textParser) Parse(_ context.Context, reader io.Reader, opts ...einoparser.Option) ([]*schema.Document, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	text := string(content)
	if text == "" {
		return []*schema.Document{}, nil
	}

	return []*schema.Document{
		{
			Content:  text,
			MetaData: make(map[string]any),
		},
	}, nil
}

// assemble 把按页返回的文档拼接成单个文本并记录页偏移
func assemble(docs []*schema.Document, fileType string) *Result {
	res := &Result{}

	var sb strings.Builder
	for i, d := range docs {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		if fileType == model.FileTypePDF {
			res.PageOffsets = append(res.PageOffsets, sb.Len())
		}
		sb.WriteString(d.Content)
	}

	res.Text = sb.String()
	res.PageCount = len(res.PageOffsets)
	res.WordCount = len(strings.Fields(res.Text))
	res.CharCount = len([]rune(res.Text))
	return res
}
