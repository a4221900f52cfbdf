// Package cards 提供时间轴卡片数据源
//
// 卡片来自 YAML 清单（标题、年份、导航键、可选图片），图片并发解码。
// 卡片加载后不可变；轮播中的每个槽位持有卡片的独立副本。
package cards

import (
	"fmt"
	"image"
	"strings"

	"gopkg.in/yaml.v3"
)

// Card 时间轴卡片
type Card struct {
	Title     string      // 显示标题
	Year      string      // 显示年份
	Key       string      // 导航键（为空时不可打开详情）
	ImagePath string      // 图片路径（可选）
	Image     image.Image // 已解码的图片，可为 nil
}

// Clone 返回卡片的结构化副本
// 图片数据只读，副本共享同一个 image.Image
func (c Card) Clone() Card {
	return Card{
		Title:     c.Title,
		Year:      c.Year,
		Key:       c.Key,
		ImagePath: c.ImagePath,
		Image:     c.Image,
	}
}

// IsPlaceholder 是否为占位卡片（没有导航键也没有图片）
func (c Card) IsPlaceholder() bool {
	return c.Key == "" && c.Image == nil && c.ImagePath == ""
}

// manifestEntry 清单中的单个卡片
type manifestEntry struct {
	Title string `yaml:"title"`
	Year  string `yaml:"year"`
	Key   string `yaml:"key"`
	Image string `yaml:"image"`
}

// Manifest 卡片清单文件结构
type Manifest struct {
	Cards []manifestEntry `yaml:"cards"`
}

// ParseManifest 解析 YAML 卡片清单
//
// 标题和年份去除首尾空白；未指定 key 时使用标题作为导航键。
func ParseManifest(data []byte) ([]Card, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse card manifest: %w", err)
	}

	result := make([]Card, 0, len(m.Cards))
	for _, e := range m.Cards {
		title := strings.TrimSpace(e.Title)
		key := strings.TrimSpace(e.Key)
		if key == "" {
			key = title
		}
		result = append(result, Card{
			Title:     title,
			Year:      strings.TrimSpace(e.Year),
			Key:       key,
			ImagePath: strings.TrimSpace(e.Image),
		})
	}
	return result, nil
}

// Placeholders 生成 n 张占位卡片，标题为 "Timeline i"（i 从 1 开始）
// 占位卡片没有导航键
func Placeholders(n int) []Card {
	result := make([]Card, 0, n)
	for i := 1; i <= n; i++ {
		result = append(result, Card{Title: fmt.Sprintf("Timeline %d", i)})
	}
	return result
}
