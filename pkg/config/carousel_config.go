package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// 时间轴轮播默认参数
// 这些值与网页版时间轴保持一致，修改前请确认视觉效果
const (
	// DefaultVisibleCount 同时可见的卡片数量
	DefaultVisibleCount = 7

	// DefaultCardTotal 卡片总数（N），轨道上共有 3N 个槽位
	DefaultCardTotal = 14

	// DefaultGapPx 相邻槽位之间的间距（像素）
	DefaultGapPx = 24.0

	// DefaultMinimumWidthPx 计算槽位宽度时使用的最小视口宽度
	DefaultMinimumWidthPx = 200.0

	// DefaultSlotAspectRatio 槽位高宽比（高 = 宽 × 1.35）
	DefaultSlotAspectRatio = 1.35

	// DefaultDragThresholdPx 水平移动超过该距离才视为拖拽
	DefaultDragThresholdPx = 5.0

	// DefaultClickCenterRatio 点击位置距视口中心在 0.45 个槽宽以内时视为"打开"
	DefaultClickCenterRatio = 0.45

	// DefaultWheelSpeedFactor 滚轮增量到水平偏移的倍率
	DefaultWheelSpeedFactor = 5.0

	// DefaultWheelPixelsPerNotch 滚轮每格对应的像素增量（与浏览器 deltaY 对齐）
	DefaultWheelPixelsPerNotch = 100.0
)

// LayoutConfig 槽位布局参数
type LayoutConfig struct {
	VisibleCount   int     `yaml:"visible"`
	CardTotal      int     `yaml:"total"`
	GapPx          float64 `yaml:"gapPx"`
	MinimumWidthPx float64 `yaml:"minimumWidthPx"`
	AspectRatio    float64 `yaml:"aspectRatio"`
}

// TransformConfig 视觉变换参数
//
// 所有常量都是设计参数而非推导值：
//   - 居中卡片放大到 ScaleMax，距离 FalloffSlots 个槽位及以外缩小到 ScaleMin
//   - 透明度从 1 线性降到 OpacityMin
//   - 旋转角在 RotateRangeSlots 个槽位内达到 RotateMaxDeg
//   - 居中卡片上抬 LiftPx 像素
type TransformConfig struct {
	ScaleMax         float64 `yaml:"scaleMax"`
	ScaleMin         float64 `yaml:"scaleMin"`
	OpacityMin       float64 `yaml:"opacityMin"`
	RotateMaxDeg     float64 `yaml:"rotateMaxDeg"`
	RotateRangeSlots float64 `yaml:"rotateRangeSlots"`
	FalloffSlots     float64 `yaml:"falloffSlots"`
	LiftPx           float64 `yaml:"liftPx"`
	ActiveThreshold  float64 `yaml:"activeThreshold"`
	PerspectivePx    float64 `yaml:"perspectivePx"`
}

// InputConfig 指针与滚轮参数
type InputConfig struct {
	DragThresholdPx     float64 `yaml:"dragThresholdPx"`
	ClickCenterRatio    float64 `yaml:"clickCenterRatio"`
	WheelSpeedFactor    float64 `yaml:"wheelSpeedFactor"`
	WheelPixelsPerNotch float64 `yaml:"wheelPixelsPerNotch"`
}

// TimingConfig 各类防抖/延迟（秒）
type TimingConfig struct {
	DragSnapDelay     float64 `yaml:"dragSnapDelay"`     // 拖拽释放后吸附
	ScrollSnapDelay   float64 `yaml:"scrollSnapDelay"`   // 滚轮/程序滚动停止后吸附
	RecenterSnapDelay float64 `yaml:"recenterSnapDelay"` // 点击居中动画后吸附
	ResizeSettleDelay float64 `yaml:"resizeSettleDelay"` // 窗口尺寸变化后吸附
	LoopResetDelay    float64 `yaml:"loopResetDelay"`    // 吸附动画开始到循环复位检查
	InitDelay         float64 `yaml:"initDelay"`         // 首次布局到初始定位
	SpringFrequency   float64 `yaml:"springFrequency"`   // 平滑滚动弹簧角频率
	SpringDamping     float64 `yaml:"springDamping"`     // 平滑滚动弹簧阻尼比
}

// PersistenceConfig 滚动位置持久化
type PersistenceConfig struct {
	// Backend 可选 "memory"（仅进程内）或 "gdata"（写入存储目录）
	Backend    string        `yaml:"backend"`
	AppName    string        `yaml:"appName"`
	SessionTTL time.Duration `yaml:"sessionTTL"`
	// Resume 为 true 时 gdata 后端在下次启动恢复 SessionTTL 以内的位置；
	// 默认 false，每次启动都是全新访问
	Resume bool `yaml:"resume"`
}

// WindowConfig 窗口参数
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// CarouselConfig 时间轴轮播完整配置
type CarouselConfig struct {
	Layout       LayoutConfig      `yaml:"layout"`
	Transform    TransformConfig   `yaml:"transform"`
	Input        InputConfig       `yaml:"input"`
	Timing       TimingConfig      `yaml:"timing"`
	Persistence  PersistenceConfig `yaml:"persistence"`
	Window       WindowConfig      `yaml:"window"`
	ShareBaseURL string            `yaml:"shareBaseURL"`
}

// DefaultTransformConfig 返回默认视觉变换参数
func DefaultTransformConfig() TransformConfig {
	return TransformConfig{
		ScaleMax:         2.0,
		ScaleMin:         0.65,
		OpacityMin:       0.35,
		RotateMaxDeg:     16,
		RotateRangeSlots: 1.5,
		FalloffSlots:     2,
		LiftPx:           18,
		ActiveThreshold:  0.45,
		PerspectivePx:    1200,
	}
}

// DefaultCarouselConfig 返回默认配置
func DefaultCarouselConfig() *CarouselConfig {
	return &CarouselConfig{
		Layout: LayoutConfig{
			VisibleCount:   DefaultVisibleCount,
			CardTotal:      DefaultCardTotal,
			GapPx:          DefaultGapPx,
			MinimumWidthPx: DefaultMinimumWidthPx,
			AspectRatio:    DefaultSlotAspectRatio,
		},
		Transform: DefaultTransformConfig(),
		Input: InputConfig{
			DragThresholdPx:     DefaultDragThresholdPx,
			ClickCenterRatio:    DefaultClickCenterRatio,
			WheelSpeedFactor:    DefaultWheelSpeedFactor,
			WheelPixelsPerNotch: DefaultWheelPixelsPerNotch,
		},
		Timing: TimingConfig{
			DragSnapDelay:     0.12,
			ScrollSnapDelay:   0.20,
			RecenterSnapDelay: 0.42,
			ResizeSettleDelay: 0.04,
			LoopResetDelay:    0.40,
			InitDelay:         0.05,
			SpringFrequency:   12,
			SpringDamping:     1,
		},
		Persistence: PersistenceConfig{
			Backend:    "memory",
			AppName:    "gonewx_timeline",
			SessionTTL: 30 * time.Minute,
		},
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "Timeline",
		},
	}
}

// ParseCarouselConfig 从 YAML 数据解析配置
// 未出现在 YAML 中的字段保留默认值
func ParseCarouselConfig(data []byte) (*CarouselConfig, error) {
	cfg := DefaultCarouselConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse carousel config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadCarouselConfig 从磁盘文件加载配置
func LoadCarouselConfig(path string) (*CarouselConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read carousel config %s: %w", path, err)
	}
	return ParseCarouselConfig(data)
}

// Validate 检查配置是否可用
func (c *CarouselConfig) Validate() error {
	if c.Layout.VisibleCount <= 0 {
		return fmt.Errorf("layout.visible must be positive, got %d", c.Layout.VisibleCount)
	}
	if c.Layout.CardTotal <= 0 {
		return fmt.Errorf("layout.total must be positive, got %d", c.Layout.CardTotal)
	}
	if c.Layout.GapPx < 0 {
		return fmt.Errorf("layout.gapPx must not be negative, got %v", c.Layout.GapPx)
	}
	if c.Layout.AspectRatio <= 0 {
		return fmt.Errorf("layout.aspectRatio must be positive, got %v", c.Layout.AspectRatio)
	}
	if c.Transform.FalloffSlots <= 0 || c.Transform.RotateRangeSlots <= 0 {
		return fmt.Errorf("transform falloff/rotate ranges must be positive")
	}
	if c.Transform.PerspectivePx <= 0 {
		return fmt.Errorf("transform.perspectivePx must be positive, got %v", c.Transform.PerspectivePx)
	}
	if c.Input.ClickCenterRatio <= 0 {
		return fmt.Errorf("input.clickCenterRatio must be positive, got %v", c.Input.ClickCenterRatio)
	}
	switch c.Persistence.Backend {
	case "memory", "gdata":
	default:
		return fmt.Errorf("unknown persistence backend %q", c.Persistence.Backend)
	}
	return nil
}
