package carousel

import (
	"context"
	"fmt"
	"log"

	"github.com/gonewx/timeline/pkg/cards"
	"github.com/gonewx/timeline/pkg/config"
	"github.com/gonewx/timeline/pkg/embedded"
	"github.com/gonewx/timeline/pkg/session"
)

// 默认资源路径（嵌入资源）
const (
	DefaultConfigPath = "data/timeline.yaml"
	DefaultCardsPath  = "data/cards.yaml"
)

// LoadConfig 加载轮播配置
// path 为空时读取嵌入的默认配置；以 "data/" 开头时优先读取嵌入资源
func LoadConfig(path string) (*config.CarouselConfig, error) {
	if path == "" {
		path = DefaultConfigPath
	}
	data, err := embedded.ReadAny(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return config.ParseCarouselConfig(data)
}

// LoadCards 加载卡片清单并解码图片
// 清单不可读时返回 nil（引擎使用占位卡片）；清单格式错误时返回错误
func LoadCards(ctx context.Context, path string) ([]cards.Card, error) {
	if path == "" {
		path = DefaultCardsPath
	}
	data, err := embedded.ReadAny(path)
	if err != nil {
		log.Printf("[Carousel] Warning: card manifest %s unavailable, using placeholders: %v", path, err)
		return nil, nil
	}
	list, err := cards.ParseManifest(data)
	if err != nil {
		return nil, err
	}
	return cards.LoadImages(ctx, list, embedded.OpenFile)
}

// OpenStore 按配置创建滚动位置存储
// gdata 打开失败时降级为进程内存储
func OpenStore(cfg config.PersistenceConfig) session.PositionStore {
	if cfg.Backend != "gdata" {
		return session.SharedMemoryStore()
	}
	manager, err := session.OpenGdataManager(cfg.AppName)
	if err != nil {
		log.Printf("[Carousel] Warning: %v, scroll position kept in memory only", err)
		return session.SharedMemoryStore()
	}
	return session.NewGdataStore(manager, cfg.SessionTTL, cfg.Resume)
}
