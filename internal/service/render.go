package service

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var ugcPolicy = bluemonday.UGCPolicy()

// RenderMarkdown converts note content to sanitized HTML.
// RenderMarkdown 渲染 Markdown 并过滤 XSS
func RenderMarkdown(content string) []byte {
	// 解析器不可复用，每次新建
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(content))

	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.HrefTargetBlank,
	})

	return ugcPolicy.SanitizeBytes(markdown.Render(doc, renderer))
}
