// Package navigation 把卡片导航键转换为目标页面路径
package navigation

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gonewx/timeline/pkg/cards"
)

// ContentDir 详情页所在目录
const ContentDir = "contents"

// Navigator 页面跳转
type Navigator interface {
	// Navigate 跳转到 destination（如 "contents/moon-landing.html"）
	Navigate(destination string, card cards.Card)
}

// NavigatorFunc 函数适配器
type NavigatorFunc func(destination string, card cards.Card)

// Navigate 调用函数本身
func (f NavigatorFunc) Navigate(destination string, card cards.Card) {
	f(destination, card)
}

// Slug 把导航键转换为文件名
//
// 规则：
//   - 转小写
//   - 空格替换为 "-"
//   - 右单引号（’）删除，短破折号（–）替换为 "-"
//   - 删除其余不在 [A-Za-z0-9_-] 中的字符
func Slug(key string) string {
	// Caser 带内部状态，不能跨 goroutine 共享
	s := cases.Lower(language.Und).String(key)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "’", "")
	s = strings.ReplaceAll(s, "–", "-")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isWordOrHyphen(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// isWordOrHyphen 是否为 ASCII 单词字符或连字符
func isWordOrHyphen(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-':
		return true
	}
	return false
}

// Destination 返回导航键对应的相对路径 contents/<slug>.html
func Destination(key string) string {
	return ContentDir + "/" + Slug(key) + ".html"
}

// ShareURL 拼接分享地址；baseURL 为空时返回相对路径
func ShareURL(baseURL, destination string) string {
	if baseURL == "" {
		return destination
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + destination
}
