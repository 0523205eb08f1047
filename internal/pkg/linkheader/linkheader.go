// Package linkheader 解析 Mastodon 分页使用的 Link 响应头
package linkheader

import (
	"net/url"

	"github.com/tomnomnom/linkheader"
)

const (
	RelNext = "next"
	RelPrev = "prev"
)

// FindByRelationType 返回第一个 rel 匹配的链接
func FindByRelationType(header, rel string) (linkheader.Link, bool) {
	if header == "" {
		return linkheader.Link{}, false
	}
	links := linkheader.Parse(header).FilterByRel(rel)
	if len(links) == 0 {
		return linkheader.Link{}, false
	}
	return links[0], true
}

// QueryParam 读取 rel 链接中的查询参数，头缺失或格式错误时返回空串
func QueryParam(header, rel, param string) string {
	link, ok := FindByRelationType(header, rel)
	if !ok {
		return ""
	}
	u, err := url.Parse(link.URL)
	if err != nil {
		return ""
	}
	return u.Query().Get(param)
}

// NextCursor 从 rel="next" 中取出 max_id
func NextCursor(header string) string {
	return QueryParam(header, RelNext, "max_id")
}
