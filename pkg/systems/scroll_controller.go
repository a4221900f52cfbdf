package systems

import (
	"log"
	"math"

	"github.com/gonewx/timeline/pkg/config"
	"github.com/gonewx/timeline/pkg/session"
	"github.com/gonewx/timeline/pkg/track"
)

// ScrollController 滚动/循环控制器
//
// 职责：
//   - 持有视口偏移（通过 Viewport）
//   - 滚动停止后吸附到最近的槽位边界
//   - 吸附完成后把漂移到克隆区的偏移改写为规范区的等价偏移（循环复位）
//   - 初始定位（恢复保存的位置或居中第一张卡片）
//   - 窗口尺寸变化后按新几何重新解释偏移
//
// 所有计时器和每帧标志都归控制器所有，取消与重新安排是单个操作。
type ScrollController struct {
	track    *track.Track
	layout   *LayoutSystem
	viewport *Viewport
	timing   config.TimingConfig

	snapTimer  DelayTimer
	resetTimer DelayTimer
	initTimer  DelayTimer
	frame      FrameRequest

	holding       bool // 指针按下期间不安排被动吸附
	scrolledWhile bool // 按下期间偏移是否变化过
	resetDeferred bool // 复位检查到期时仍有动画，等动画结束再执行
	started       bool
	initialized   bool
}

// NewScrollController 创建滚动控制器
func NewScrollController(tr *track.Track, layout *LayoutSystem, viewport *Viewport, timing config.TimingConfig) *ScrollController {
	c := &ScrollController{
		track:    tr,
		layout:   layout,
		viewport: viewport,
		timing:   timing,
	}
	viewport.SetOnScroll(c.onScrolled)
	return c
}

// Viewport 返回视口
func (c *ScrollController) Viewport() *Viewport {
	return c.viewport
}

// Offset 返回当前偏移
func (c *ScrollController) Offset() float64 {
	return c.viewport.Offset()
}

// Initialized 是否已完成初始定位
func (c *ScrollController) Initialized() bool {
	return c.initialized
}

// Start 完成首次布局后调用，安排初始定位
//
// 存在保存的位置时原样恢复并清除（一次性）；否则居中逻辑序号 1，
// 找不到该槽位时退化为轨道总宽度的三分之一。
func (c *ScrollController) Start(store session.PositionStore) {
	if c.started {
		return
	}
	c.started = true

	m := c.layout.Metrics()
	c.viewport.SetBounds(m.ViewportWidth, m.TrackWidth)

	c.initTimer.Schedule(c.timing.InitDelay, func() {
		c.initialPosition(store)
	})
}

// initialPosition 执行初始定位
func (c *ScrollController) initialPosition(store session.PositionStore) {
	restored := false
	if store != nil {
		if offset, ok := store.Take(); ok {
			c.viewport.SetOffset(offset)
			restored = true
			log.Printf("[ScrollController] Restored scroll position %.1f", offset)
		}
	}

	if !restored {
		if slot, ok := c.track.FindCanonical(1); ok {
			if target, ok := c.layout.CenterOffset(slot); ok {
				c.viewport.SetOffset(math.Round(target))
			}
		} else {
			c.viewport.SetOffset(math.Round(c.layout.Metrics().TrackWidth / 3))
		}
	}

	c.initialized = true
	c.frame.Request()
}

// onScrolled 偏移变化回调（相当于 scroll 事件）
func (c *ScrollController) onScrolled(offset float64) {
	c.frame.Request()
	if c.holding {
		c.scrolledWhile = true
		return
	}
	c.ScheduleSnap(c.timing.ScrollSnapDelay)
}

// ScheduleSnap 取消待执行的吸附，并在 delay 秒后重新安排
func (c *ScrollController) ScheduleSnap(delay float64) {
	c.snapTimer.Schedule(delay, c.Snap)
}

// SnapPending 是否有待执行的吸附
func (c *ScrollController) SnapPending() bool {
	return c.snapTimer.Pending()
}

// Snap 平滑滚动到最近的槽位边界，并在复位延迟后执行循环复位检查
func (c *ScrollController) Snap() {
	step := c.layout.Metrics().SafeStep()
	idx := math.Round(c.viewport.Offset() / step)
	c.viewport.ScrollTo(idx * step)

	c.resetDeferred = false
	c.resetTimer.Schedule(c.timing.LoopResetDelay, c.runLoopReset)
	c.frame.Request()
}

// runLoopReset 复位计时器到期
// 动画仍在进行或指针按下时推迟，保证复位不会与动画同时驱动偏移
func (c *ScrollController) runLoopReset() {
	if c.viewport.IsAnimating() || c.holding {
		c.resetDeferred = true
		return
	}
	c.CheckLoopReset()
	c.frame.Request()
}

// SlotIndex 返回 round(offset / step)
func (c *ScrollController) SlotIndex() int {
	step := c.layout.Metrics().SafeStep()
	return int(math.Round(c.viewport.Offset() / step))
}

// CheckLoopReset 偏移漂移到克隆区时平移 N 个步长回到规范区
// 返回是否发生了复位
func (c *ScrollController) CheckLoopReset() bool {
	n := c.track.Total()
	step := c.layout.Metrics().SafeStep()
	idx := c.SlotIndex()

	switch {
	case idx < n:
		c.viewport.ShiftBy(float64(n) * step)
	case idx >= 2*n:
		c.viewport.ShiftBy(-float64(n) * step)
	default:
		return false
	}
	log.Printf("[ScrollController] Loop reset: slot index %d -> %d", idx, c.SlotIndex())
	return true
}

// Resize 视口尺寸变化后重新布局
// 偏移按新旧步长比例换算，使原先居中的卡片保持居中，稍后再吸附
func (c *ScrollController) Resize(viewportWidth, viewportHeight float64) Metrics {
	old := c.layout.Metrics()
	offset := c.viewport.Offset()

	m := c.layout.Apply(viewportWidth, viewportHeight)
	c.viewport.SetBounds(m.ViewportWidth, m.TrackWidth)

	if !c.initialized {
		return m
	}

	if old.Ready() && old.Step != m.Step {
		c.viewport.SetOffset(offset / old.Step * m.Step)
	}
	c.snapTimer.Schedule(c.timing.ResizeSettleDelay, func() {
		c.Snap()
		c.frame.Request()
	})
	c.frame.Request()
	return m
}

// BeginGesture 指针按下：关闭平滑滚动（1:1 跟随），暂停被动吸附
func (c *ScrollController) BeginGesture() {
	c.holding = true
	c.scrolledWhile = false
	c.snapTimer.Cancel()
	c.viewport.SetSmooth(false)
}

// EndGesture 指针释放：恢复平滑滚动并安排吸附
func (c *ScrollController) EndGesture(dragged bool) {
	c.holding = false
	c.viewport.SetSmooth(true)

	switch {
	case dragged:
		c.ScheduleSnap(c.timing.DragSnapDelay)
	case c.scrolledWhile:
		c.ScheduleSnap(c.timing.ScrollSnapDelay)
	}
	c.scrolledWhile = false
}

// IsHolding 指针是否按下
func (c *ScrollController) IsHolding() bool {
	return c.holding
}

// DragTo 拖拽时直接设置偏移
func (c *ScrollController) DragTo(offset float64) {
	c.viewport.SetOffset(offset)
	c.frame.Request()
}

// ScrollBy 滚轮等相对滚动
func (c *ScrollController) ScrollBy(delta float64) {
	c.viewport.ScrollBy(delta)
	c.frame.Request()
}

// Recenter 平滑滚动使距中心 delta 像素的槽位居中，随后吸附
func (c *ScrollController) Recenter(delta float64) {
	target := math.Round(c.viewport.Offset() + delta)
	c.viewport.ScrollTo(target)
	c.snapTimer.Schedule(c.timing.RecenterSnapDelay, func() {
		c.Snap()
		c.frame.Request()
	})
}

// RequestFrame 请求下一帧刷新视觉变换
func (c *ScrollController) RequestFrame() {
	c.frame.Request()
}

// TakeFrame 取出刷新请求（每帧开始时调用）
func (c *ScrollController) TakeFrame() bool {
	return c.frame.Take()
}

// Update 推进所有计时器和平滑滚动
func (c *ScrollController) Update(deltaTime float64) {
	c.initTimer.Advance(deltaTime)
	c.viewport.Update(deltaTime)
	c.snapTimer.Advance(deltaTime)
	c.resetTimer.Advance(deltaTime)

	if c.resetDeferred && !c.viewport.IsAnimating() && !c.holding {
		c.resetDeferred = false
		c.CheckLoopReset()
		c.frame.Request()
	}
}

// Settled 是否已完全静止（无动画、无待执行的吸附/复位）
func (c *ScrollController) Settled() bool {
	return !c.viewport.IsAnimating() &&
		!c.snapTimer.Pending() &&
		!c.resetTimer.Pending() &&
		!c.initTimer.Pending() &&
		!c.resetDeferred
}

// Persist 把当前偏移写入存储（页面卸载时调用）
func (c *ScrollController) Persist(store session.PositionStore) {
	if store == nil {
		return
	}
	if err := store.Save(c.viewport.Offset()); err != nil {
		log.Printf("[ScrollController] Warning: failed to persist scroll position: %v", err)
	}
}
