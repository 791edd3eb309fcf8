package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"

	"resume-screener-go/internal/logger"
	"resume-screener-go/internal/types"

	"context"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Normalize 从提取出的原始文本构建两个视图：
// 保留行结构的展示视图，以及折叠空白、小写化的匹配视图
func Normalize(raw string) types.NormalizedText {
	matching := strings.ToLower(strings.TrimSpace(whitespaceRe.ReplaceAllString(raw, " ")))
	return types.NormalizedText{
		Display:  raw,
		Matching: matching,
	}
}

// TextExtractor 将一份文档转换为归一化文本
// 未知类型或无法解析的内容产出空文本，从不让整个文档失败
type TextExtractor struct {
	pdfParser *pdf.PDFParser
}

// NewTextExtractor 初始化文本提取器
// PDF按页解析，保证页序拼接且单页失败不影响整篇
func NewTextExtractor(ctx context.Context) (*TextExtractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{
		ToPages: true, // 逐页返回，按页序拼接
	})
	if err != nil {
		return nil, fmt.Errorf("创建PDF解析器失败: %w", err)
	}
	return &TextExtractor{pdfParser: p}, nil
}

// Extract 提取文档文本并归一化
// 失败策略：任何提取失败都降级为空文本，让下游用低完整度信号表达，而不是报错
func (e *TextExtractor) Extract(ctx context.Context, doc types.Document) (types.NormalizedText, error) {
	if len(doc.Content) == 0 {
		return Normalize(""), nil
	}

	var raw string
	switch doc.Kind {
	case types.KindPDF:
		raw = e.extractPDF(ctx, doc.Content)
	case types.KindDOCX:
		raw = extractDOCX(doc.Content)
	case types.KindTXT:
		// 宽容解码：非法字节直接丢弃
		raw = strings.ToValidUTF8(string(doc.Content), "")
	default:
		logger.Warn().Str("kind", string(doc.Kind)).Msg("未知的文档类型，按空文本处理")
		raw = ""
	}

	return Normalize(raw), nil
}

// extractPDF 按页序拼接各页文本，解析失败的页贡献空串
func (e *TextExtractor) extractPDF(ctx context.Context, data []byte) string {
	docs, err := e.pdfParser.Parse(ctx, bytes.NewReader(data),
		einoParser.WithURI("resume.pdf"),
	)
	if err != nil {
		logger.Warn().Err(err).Msg("PDF解析失败，按空文本处理")
		return ""
	}

	var b strings.Builder
	for i, d := range docs {
		if d == nil {
			continue
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(d.Content)
	}
	return b.String()
}

// extractDOCX 解包docx容器，按文档顺序以换行拼接段落文本
func extractDOCX(data []byte) string {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		logger.Warn().Err(err).Msg("DOCX容器解包失败，按空文本处理")
		return ""
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		logger.Warn().Msg("DOCX缺少word/document.xml，按空文本处理")
		return ""
	}

	rc, err := docFile.Open()
	if err != nil {
		return ""
	}
	defer rc.Close()

	return decodeDOCXBody(rc)
}

// decodeDOCXBody 遍历document.xml的标记流
// w:t 内的字符归入当前段落，w:p 结束产生一个换行
func decodeDOCXBody(r io.Reader) string {
	decoder := xml.NewDecoder(r)
	var b strings.Builder
	inText := false

	for {
		tok, err := decoder.Token()
		if err != nil {
			// 读到EOF或遇到损坏标记都停在已解出的内容上
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
			if t.Name.Local == "p" {
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
