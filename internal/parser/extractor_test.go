package parser

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"resume-screener-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	n := Normalize("  Ravi Kumar\n\tSKILLS  ")
	assert.Equal(t, "  Ravi Kumar\n\tSKILLS  ", n.Display)
	assert.Equal(t, "ravi kumar skills", n.Matching)
}

func newTestExtractor(t *testing.T) *TextExtractor {
	t.Helper()
	e, err := NewTextExtractor(context.Background())
	require.NoError(t, err)
	return e
}

func TestExtractTXT(t *testing.T) {
	e := newTestExtractor(t)
	n, err := e.Extract(context.Background(), types.Document{
		Content: []byte("Hello World\nSKILLS\nPython"),
		Kind:    types.KindTXT,
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello World\nSKILLS\nPython", n.Display)
	assert.Equal(t, "hello world skills python", n.Matching)
}

func TestExtractEmptyContent(t *testing.T) {
	e := newTestExtractor(t)
	n, err := e.Extract(context.Background(), types.Document{Kind: types.KindPDF})
	require.NoError(t, err)
	assert.Equal(t, "", n.Display)
	assert.Equal(t, "", n.Matching)
}

func TestExtractUnknownKind(t *testing.T) {
	e := newTestExtractor(t)
	n, err := e.Extract(context.Background(), types.Document{
		Content: []byte("whatever"),
		Kind:    types.DocumentKind("rtf"),
	})
	require.NoError(t, err)
	assert.Equal(t, "", n.Display)
}

// buildDOCX 构造一个只含document.xml的最小docx容器
func buildDOCX(t *testing.T, paragraphs []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)

	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>`)
		body.WriteString(p)
		body.WriteString(`</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	_, err = w.Write(body.Bytes())
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractDOCX(t *testing.T) {
	e := newTestExtractor(t)
	content := buildDOCX(t, []string{"Ravi Kumar", "SKILLS", "Python, SQL"})

	n, err := e.Extract(context.Background(), types.Document{Content: content, Kind: types.KindDOCX})
	require.NoError(t, err)
	// 每个段落一行，按文档顺序
	assert.Equal(t, "Ravi Kumar\nSKILLS\nPython, SQL", n.Display)
}

func TestExtractDOCXMalformed(t *testing.T) {
	e := newTestExtractor(t)
	// 不是zip容器的内容降级为空文本而不是报错
	n, err := e.Extract(context.Background(), types.Document{
		Content: []byte("this is not a zip archive"),
		Kind:    types.KindDOCX,
	})
	require.NoError(t, err)
	assert.Equal(t, "", n.Display)
}

func TestExtractDOCXMissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<styles/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	e := newTestExtractor(t)
	n, err := e.Extract(context.Background(), types.Document{Content: buf.Bytes(), Kind: types.KindDOCX})
	require.NoError(t, err)
	assert.Equal(t, "", n.Display)
}
