package scenes

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// PointerInput 指针与键盘输入源
// 场景通过该接口读取输入，测试时可以替换为 mock
type PointerInput interface {
	CursorPosition() (int, int)
	IsMouseButtonPressed(button ebiten.MouseButton) bool
	AppendTouchIDs(touches []ebiten.TouchID) []ebiten.TouchID
	TouchPosition(id ebiten.TouchID) (int, int)
	Wheel() (xoff, yoff float64)
	IsKeyJustPressed(key ebiten.Key) bool
}

// EbitenInput 读取 ebiten 的真实输入
type EbitenInput struct{}

func (EbitenInput) CursorPosition() (int, int) {
	return ebiten.CursorPosition()
}

func (EbitenInput) IsMouseButtonPressed(button ebiten.MouseButton) bool {
	return ebiten.IsMouseButtonPressed(button)
}

func (EbitenInput) AppendTouchIDs(touches []ebiten.TouchID) []ebiten.TouchID {
	return ebiten.AppendTouchIDs(touches)
}

func (EbitenInput) TouchPosition(id ebiten.TouchID) (int, int) {
	return ebiten.TouchPosition(id)
}

func (EbitenInput) Wheel() (float64, float64) {
	return ebiten.Wheel()
}

func (EbitenInput) IsKeyJustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}

// PointerEventKind 指针事件类型
type PointerEventKind int

const (
	// PointerPressed 按下（鼠标左键或第一个触摸点）
	PointerPressed PointerEventKind = iota
	// PointerMoved 按下状态下移动
	PointerMoved
	// PointerReleased 释放
	PointerReleased
	// PointerLeft 按下状态下鼠标移出窗口
	PointerLeft
)

// PointerEvent 一次指针事件（视口坐标）
type PointerEvent struct {
	Kind PointerEventKind
	X, Y float64
}

// PointerTracker 把逐帧轮询的输入状态转换为按下/移动/释放/离开事件
//
// 鼠标和触摸统一处理，触摸优先。鼠标按住拖出窗口时产生 PointerLeft，
// 之后直到松开前的输入都被忽略（相当于浏览器的 pointerleave）。
// 滚轮按每格 pixelsPerNotch 像素换算成浏览器约定的 deltaY（向下为正）。
type PointerTracker struct {
	input          PointerInput
	pixelsPerNotch float64

	pressed    bool
	touch      bool
	suppressed bool
	lastX      int
	lastY      int

	touchIDs []ebiten.TouchID
	events   []PointerEvent
}

// NewPointerTracker 创建指针跟踪器
func NewPointerTracker(input PointerInput, pixelsPerNotch float64) *PointerTracker {
	if input == nil {
		input = EbitenInput{}
	}
	return &PointerTracker{
		input:          input,
		pixelsPerNotch: pixelsPerNotch,
	}
}

// Input 返回底层输入源
func (p *PointerTracker) Input() PointerInput {
	return p.input
}

// IsPressed 是否有指针按下
func (p *PointerTracker) IsPressed() bool {
	return p.pressed
}

// Poll 读取本帧输入，返回指针事件和滚轮 deltaY
// 返回的切片在下一次 Poll 前有效
func (p *PointerTracker) Poll(width, height int) ([]PointerEvent, float64) {
	p.events = p.events[:0]
	down, x, y, touch := p.sample()

	switch {
	case p.suppressed:
		if !down {
			p.suppressed = false
		}

	case !p.pressed && down:
		p.pressed = true
		p.touch = touch
		p.lastX, p.lastY = x, y
		p.emit(PointerPressed, x, y)

	case p.pressed && !down:
		p.pressed = false
		if !p.touch {
			// 鼠标释放时光标仍然有效
			p.lastX, p.lastY = x, y
		}
		p.emit(PointerReleased, p.lastX, p.lastY)

	case p.pressed && down:
		if !touch && !inside(x, y, width, height) {
			p.pressed = false
			p.suppressed = true
			p.emit(PointerLeft, x, y)
			break
		}
		if x != p.lastX || y != p.lastY {
			p.lastX, p.lastY = x, y
			p.emit(PointerMoved, x, y)
		}
	}

	_, yoff := p.input.Wheel()
	return p.events, -yoff * p.pixelsPerNotch
}

// sample 读取当前指针状态，触摸优先
func (p *PointerTracker) sample() (down bool, x, y int, touch bool) {
	p.touchIDs = p.input.AppendTouchIDs(p.touchIDs[:0])
	if len(p.touchIDs) > 0 {
		x, y = p.input.TouchPosition(p.touchIDs[0])
		return true, x, y, true
	}
	x, y = p.input.CursorPosition()
	return p.input.IsMouseButtonPressed(ebiten.MouseButtonLeft), x, y, false
}

func (p *PointerTracker) emit(kind PointerEventKind, x, y int) {
	p.events = append(p.events, PointerEvent{Kind: kind, X: float64(x), Y: float64(y)})
}

// inside 坐标是否在窗口内
func inside(x, y, width, height int) bool {
	return x >= 0 && y >= 0 && x < width && y < height
}
