package session

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/gonewx/timeline/pkg/utils"
)

// 存储路径常量
const (
	scrollObject   = "timeline"
	scrollProperty = "scroll"
)

// currentLaunch 标识本次进程，写入每条记录
var currentLaunch = fmt.Sprintf("%d-%d", os.Getpid(), time.Now().UnixNano())

// scrollRecord 持久化的滚动位置
type scrollRecord struct {
	Offset  float64   `yaml:"offset"`
	SavedAt time.Time `yaml:"savedAt"`
	Launch  string    `yaml:"launch"`
}

// GdataStore 基于 gdata 的跨平台滚动位置存储
//
// 默认只恢复本次进程写入的记录，上次启动留下的记录视为"全新访问"并丢弃。
// resume 为 true 时允许跨启动恢复，但超过 ttl 的记录仍然丢弃。
// gdataManager 为 nil 时降级为内存存储，不报错。
type GdataStore struct {
	gdataManager *gdata.Manager
	ttl          time.Duration
	resume       bool
	launch       string
	now          func() time.Time
	fallback     *MemoryStore
}

// OpenGdataManager 打开 gdata 存储
func OpenGdataManager(appName string) (*gdata.Manager, error) {
	if err := utils.EnsureStorageDir(); err != nil {
		return nil, fmt.Errorf("failed to prepare storage dir: %w", err)
	}
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("failed to open gdata storage %q: %w", appName, err)
	}
	if path := utils.GetStoragePath(); path != "" {
		log.Printf("[GdataStore] Storage path: %s", path)
	}
	return manager, nil
}

// NewGdataStore 创建 gdata 滚动位置存储
//
// 参数：
//   - gdataManager: gdata 存储管理器，可为 nil（降级模式，仅内存）
//   - ttl: 记录有效期，<=0 表示永不过期
//   - resume: 是否恢复上次启动保存的位置
func NewGdataStore(gdataManager *gdata.Manager, ttl time.Duration, resume bool) *GdataStore {
	return &GdataStore{
		gdataManager: gdataManager,
		ttl:          ttl,
		resume:       resume,
		launch:       currentLaunch,
		now:          time.Now,
		fallback:     NewMemoryStore(),
	}
}

// Save 写入滚动偏移
func (s *GdataStore) Save(offset float64) error {
	if s.gdataManager == nil {
		return s.fallback.Save(offset)
	}

	data, err := yaml.Marshal(&scrollRecord{Offset: offset, SavedAt: s.now(), Launch: s.launch})
	if err != nil {
		return fmt.Errorf("failed to marshal scroll position: %w", err)
	}
	if err := s.gdataManager.SaveObjectProp(scrollObject, scrollProperty, data); err != nil {
		return fmt.Errorf("failed to save scroll position: %w", err)
	}
	return nil
}

// Take 读取并清除滚动偏移
// 读取失败、记录损坏或已过期都按"没有值"处理
func (s *GdataStore) Take() (float64, bool) {
	if s.gdataManager == nil {
		return s.fallback.Take()
	}

	if !s.gdataManager.ObjectPropExists(scrollObject, scrollProperty) {
		return 0, false
	}

	data, err := s.gdataManager.LoadObjectProp(scrollObject, scrollProperty)
	// 无论读取结果如何都清除记录，保证一次性消费
	if delErr := s.gdataManager.DeleteObjectProp(scrollObject, scrollProperty); delErr != nil {
		log.Printf("[ScrollStore] Warning: failed to clear scroll position: %v", delErr)
	}
	if err != nil {
		log.Printf("[ScrollStore] Warning: failed to load scroll position: %v", err)
		return 0, false
	}

	var record scrollRecord
	if err := yaml.Unmarshal(data, &record); err != nil {
		log.Printf("[ScrollStore] Warning: corrupted scroll position: %v", err)
		return 0, false
	}

	if record.Launch != s.launch && !s.resume {
		log.Printf("[ScrollStore] Scroll position left by a previous launch, starting fresh")
		return 0, false
	}
	if s.ttl > 0 && s.now().Sub(record.SavedAt) > s.ttl {
		log.Printf("[ScrollStore] Scroll position expired (saved %v ago), starting fresh", s.now().Sub(record.SavedAt))
		return 0, false
	}
	return record.Offset, true
}
