package util

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLToText 把嘟文 HTML 转成纯文本预览，<br> 与段落转换为换行
func HTMLToText(html string, maxRunes int) string {
	if html == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return truncate(html, maxRunes)
	}

	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p").Each(func(i int, sel *goquery.Selection) {
		if i > 0 {
			sel.PrependHtml("\n\n")
		}
	})
	// 隐藏的链接前后缀
	doc.Find("span.invisible").Remove()

	text := strings.TrimSpace(doc.Text())
	return truncate(text, maxRunes)
}

func truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "…"
}
