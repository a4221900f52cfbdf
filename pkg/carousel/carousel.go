// Package carousel 组装无限循环时间轴轮播引擎
//
// 引擎不依赖任何渲染技术：前端（ebiten 场景、终端）负责把尺寸、指针和滚轮
// 事件喂给引擎，再按 DrawOrder 读取每个槽位的几何和视觉变换进行绘制。
package carousel

import (
	"log"

	"github.com/gonewx/timeline/pkg/cards"
	"github.com/gonewx/timeline/pkg/config"
	"github.com/gonewx/timeline/pkg/ecs"
	"github.com/gonewx/timeline/pkg/navigation"
	"github.com/gonewx/timeline/pkg/session"
	"github.com/gonewx/timeline/pkg/systems"
	"github.com/gonewx/timeline/pkg/track"
)

// Options 引擎构建参数
type Options struct {
	Config    *config.CarouselConfig
	Cards     []cards.Card
	Store     session.PositionStore
	Navigator navigation.Navigator
	Measurer  systems.Measurer
	// TPS 每秒更新次数，默认 60
	TPS int
}

// Carousel 时间轴轮播引擎
type Carousel struct {
	config        *config.CarouselConfig
	entityManager *ecs.EntityManager
	track         *track.Track
	layout        *systems.LayoutSystem
	controller    *systems.ScrollController
	transforms    *systems.TransformSystem
	input         *systems.CarouselInputSystem
	store         session.PositionStore

	width, height float64
	laidOut       bool
}

// New 构建引擎：创建 3N 槽位、布局、滚动、视觉变换和输入系统
func New(opts Options) *Carousel {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultCarouselConfig()
	}
	tps := opts.TPS
	if tps <= 0 {
		tps = 60
	}

	em := ecs.NewEntityManager()
	tr := track.Build(em, opts.Cards, cfg.Layout.CardTotal)
	layout := systems.NewLayoutSystem(em, tr, cfg.Layout, opts.Measurer)
	viewport := systems.NewViewport(tps, cfg.Timing.SpringFrequency, cfg.Timing.SpringDamping)
	controller := systems.NewScrollController(tr, layout, viewport, cfg.Timing)
	transforms := systems.NewTransformSystem(em, tr, layout, cfg.Transform)
	input := systems.NewCarouselInputSystem(em, tr, layout, transforms, controller, cfg.Input, opts.Store, opts.Navigator)

	return &Carousel{
		config:        cfg,
		entityManager: em,
		track:         tr,
		layout:        layout,
		controller:    controller,
		transforms:    transforms,
		input:         input,
		store:         opts.Store,
	}
}

// Resize 报告视口尺寸；尺寸未变化时不做任何事
// 第一次调用完成首次布局并安排初始定位
func (c *Carousel) Resize(width, height float64) {
	if c.laidOut && width == c.width && height == c.height {
		return
	}
	c.width, c.height = width, height

	if !c.laidOut {
		c.laidOut = true
		m := c.layout.Apply(width, height)
		log.Printf("[Carousel] Initial layout: slot %.0fx%.0f, step %.0f", m.SlotWidth, m.SlotHeight, m.Step)
		c.controller.Start(c.store)
		c.controller.RequestFrame()
		return
	}

	m := c.controller.Resize(width, height)
	log.Printf("[Carousel] Relayout: slot %.0fx%.0f, step %.0f", m.SlotWidth, m.SlotHeight, m.Step)
}

// Update 推进一帧：计时器、平滑滚动，以及（如有请求）视觉变换重算
func (c *Carousel) Update(deltaTime float64) {
	c.controller.Update(deltaTime)
	if c.controller.TakeFrame() {
		c.transforms.Update(c.controller.Offset())
	}
}

// Unload 页面卸载：无条件保存当前偏移
func (c *Carousel) Unload() {
	c.controller.Persist(c.store)
}

// Input 返回输入控制器
func (c *Carousel) Input() *systems.CarouselInputSystem {
	return c.input
}

// Controller 返回滚动控制器
func (c *Carousel) Controller() *systems.ScrollController {
	return c.controller
}

// Transforms 返回视觉变换引擎
func (c *Carousel) Transforms() *systems.TransformSystem {
	return c.transforms
}

// Layout 返回布局引擎
func (c *Carousel) Layout() *systems.LayoutSystem {
	return c.layout
}

// Track 返回槽位轨道
func (c *Carousel) Track() *track.Track {
	return c.track
}

// EntityManager 返回槽位实体存储
func (c *Carousel) EntityManager() *ecs.EntityManager {
	return c.entityManager
}

// Config 返回配置
func (c *Carousel) Config() *config.CarouselConfig {
	return c.config
}

// Metrics 返回最近一次布局结果
func (c *Carousel) Metrics() systems.Metrics {
	return c.layout.Metrics()
}

// Offset 返回当前视口偏移
func (c *Carousel) Offset() float64 {
	return c.controller.Offset()
}

// CenteredLogicalIndex 返回当前居中卡片的逻辑序号
func (c *Carousel) CenteredLogicalIndex() int {
	return c.layout.CenteredLogicalIndex(c.controller.Offset())
}

// Settle 连续推进直到完全静止或达到 maxSeconds，返回实际推进的秒数
// 用于测试和验证工具
func (c *Carousel) Settle(deltaTime, maxSeconds float64) float64 {
	elapsed := 0.0
	for elapsed < maxSeconds {
		c.Update(deltaTime)
		elapsed += deltaTime
		if c.controller.Settled() && c.controller.Initialized() {
			break
		}
	}
	return elapsed
}
