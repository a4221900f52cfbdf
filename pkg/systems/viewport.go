package systems

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// 平滑滚动到达判定
const (
	viewportSettleDistance = 0.5 // 距目标小于该值（像素）
	viewportSettleVelocity = 5.0 // 且速度小于该值（像素/秒）时视为到达
)

// Viewport 可滚动的可见窗口
//
// 持有滚动偏移，偏移始终被限制在 [0, maxOffset]。
// 平滑滚动使用弹簧：新的 ScrollTo 只会改变弹簧目标，不会取消正在进行的运动。
// 偏移每次变化都会通知 onScroll（相当于浏览器的 scroll 事件）。
type Viewport struct {
	offset    float64
	width     float64
	maxOffset float64

	smooth    bool
	spring    harmonica.Spring
	target    float64
	velocity  float64
	animating bool

	onScroll func(offset float64)
}

// NewViewport 创建视口
//
// 参数：
//   - tps: 每秒更新次数，弹簧按固定步长推进
//   - frequency: 弹簧角频率，越大越快
//   - damping: 阻尼比，1 为临界阻尼（无回弹）
func NewViewport(tps int, frequency, damping float64) *Viewport {
	if tps <= 0 {
		tps = 60
	}
	return &Viewport{
		smooth: true,
		spring: harmonica.NewSpring(harmonica.FPS(tps), frequency, damping),
	}
}

// SetOnScroll 设置偏移变化回调
func (v *Viewport) SetOnScroll(fn func(offset float64)) {
	v.onScroll = fn
}

// SetBounds 设置视口宽度和轨道总宽度
// 当前偏移超出新范围时会被立即限制
func (v *Viewport) SetBounds(width, trackWidth float64) {
	v.width = width
	v.maxOffset = math.Max(0, trackWidth-width)
	if v.animating {
		v.target = v.clamp(v.target)
	}
	if clamped := v.clamp(v.offset); clamped != v.offset {
		v.setOffset(clamped)
	}
}

// Width 返回视口宽度
func (v *Viewport) Width() float64 {
	return v.width
}

// MaxOffset 返回最大偏移
func (v *Viewport) MaxOffset() float64 {
	return v.maxOffset
}

// Offset 返回当前偏移
func (v *Viewport) Offset() float64 {
	return v.offset
}

// SetSmooth 开启或关闭平滑滚动
// 关闭后 ScrollTo/ScrollBy 直接跳转（拖拽时 1:1 跟随）
func (v *Viewport) SetSmooth(smooth bool) {
	v.smooth = smooth
}

// IsSmooth 是否开启平滑滚动
func (v *Viewport) IsSmooth() bool {
	return v.smooth
}

// IsAnimating 是否有平滑滚动正在进行
func (v *Viewport) IsAnimating() bool {
	return v.animating
}

// Target 返回平滑滚动目标；没有动画时返回当前偏移
func (v *Viewport) Target() float64 {
	if v.animating {
		return v.target
	}
	return v.offset
}

// SetOffset 立即设置偏移，并停止正在进行的平滑滚动
func (v *Viewport) SetOffset(offset float64) {
	v.stop()
	v.setOffset(v.clamp(offset))
}

// ScrollTo 滚动到指定偏移
// 平滑模式下重新设置弹簧目标，否则立即跳转
func (v *Viewport) ScrollTo(offset float64) {
	if !v.smooth {
		v.SetOffset(offset)
		return
	}
	target := v.clamp(offset)
	if !v.animating && target == v.offset {
		return
	}
	v.target = target
	v.animating = true
}

// ScrollBy 相对滚动
// 以当前目标为基准累加，连续的增量不会因动画尚未完成而丢失
func (v *Viewport) ScrollBy(delta float64) {
	v.ScrollTo(v.Target() + delta)
}

// ShiftBy 同时平移偏移和动画目标
// 用于循环复位：视觉上没有任何变化
func (v *Viewport) ShiftBy(delta float64) {
	if v.animating {
		v.target = v.clamp(v.target + delta)
	}
	v.setOffset(v.clamp(v.offset + delta))
}

// Update 推进平滑滚动一个固定步长
func (v *Viewport) Update(deltaTime float64) {
	if !v.animating {
		return
	}

	pos, vel := v.spring.Update(v.offset, v.velocity, v.target)
	v.velocity = vel

	if math.Abs(v.target-pos) < viewportSettleDistance && math.Abs(vel) < viewportSettleVelocity {
		target := v.target
		v.stop()
		v.setOffset(target)
		return
	}
	v.setOffset(v.clamp(pos))
}

// stop 停止平滑滚动
func (v *Viewport) stop() {
	v.animating = false
	v.velocity = 0
}

// setOffset 写入偏移，变化时通知回调
func (v *Viewport) setOffset(offset float64) {
	if offset == v.offset {
		return
	}
	v.offset = offset
	if v.onScroll != nil {
		v.onScroll(offset)
	}
}

// clamp 把偏移限制在可滚动范围内
func (v *Viewport) clamp(offset float64) float64 {
	if offset < 0 {
		return 0
	}
	if offset > v.maxOffset {
		return v.maxOffset
	}
	return offset
}
