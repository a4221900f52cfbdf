package systems

import (
	"log"
	"math"

	"github.com/gonewx/timeline/pkg/components"
	"github.com/gonewx/timeline/pkg/config"
	"github.com/gonewx/timeline/pkg/ecs"
	"github.com/gonewx/timeline/pkg/navigation"
	"github.com/gonewx/timeline/pkg/session"
	"github.com/gonewx/timeline/pkg/track"
)

// InputState 单次指针手势的状态
type InputState int

const (
	// InputIdle 没有按下的指针
	InputIdle InputState = iota
	// InputPressed 已按下，尚未超过拖拽阈值（可能是点击）
	InputPressed
	// InputDragging 拖拽中
	InputDragging
)

// String 返回状态名称（用于日志）
func (s InputState) String() string {
	switch s {
	case InputIdle:
		return "idle"
	case InputPressed:
		return "pressed"
	case InputDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// ClickAction 点击的处理结果
type ClickAction int

const (
	// ClickNone 没有动作（拖拽结束、未命中槽位、占位卡片）
	ClickNone ClickAction = iota
	// ClickNavigate 打开居中卡片的详情页
	ClickNavigate
	// ClickRecenter 把被点击的卡片滚动到中心
	ClickRecenter
)

// ClickResult 指针释放的结果
type ClickResult struct {
	Action      ClickAction
	Slot        ecs.EntityID
	Destination string
}

// CarouselInputSystem 输入控制器
//
// 状态机：Idle → Pressed → {Dragging | Idle(点击)}
//   - 按下：记录起点和起始偏移，关闭平滑滚动
//   - 移动：水平位移超过阈值即视为拖拽；偏移始终 1:1 跟随 startOffset - dx
//   - 释放：拖拽则短延迟后吸附；点击则命中测试，居中卡片打开详情，其他卡片滚动居中
type CarouselInputSystem struct {
	entityManager *ecs.EntityManager
	track         *track.Track
	layout        *LayoutSystem
	transforms    *TransformSystem
	controller    *ScrollController
	config        config.InputConfig
	store         session.PositionStore
	navigator     navigation.Navigator

	state       InputState
	startX      float64
	startOffset float64
	dragged     bool
}

// NewCarouselInputSystem 创建输入控制器
func NewCarouselInputSystem(
	em *ecs.EntityManager,
	tr *track.Track,
	layout *LayoutSystem,
	transforms *TransformSystem,
	controller *ScrollController,
	cfg config.InputConfig,
	store session.PositionStore,
	navigator navigation.Navigator,
) *CarouselInputSystem {
	return &CarouselInputSystem{
		entityManager: em,
		track:         tr,
		layout:        layout,
		transforms:    transforms,
		controller:    controller,
		config:        cfg,
		store:         store,
		navigator:     navigator,
	}
}

// State 返回当前手势状态
func (s *CarouselInputSystem) State() InputState {
	return s.state
}

// PointerDown 指针按下（视口坐标）
func (s *CarouselInputSystem) PointerDown(x, y float64) {
	if s.state != InputIdle {
		return
	}
	s.state = InputPressed
	s.dragged = false
	s.startX = x
	s.startOffset = s.controller.Offset()
	s.controller.BeginGesture()
}

// PointerMove 指针移动
func (s *CarouselInputSystem) PointerMove(x, y float64) {
	if s.state == InputIdle {
		return
	}
	dx := x - s.startX
	if math.Abs(dx) > s.config.DragThresholdPx {
		s.dragged = true
		s.state = InputDragging
	}
	s.controller.DragTo(s.startOffset - dx)
}

// PointerUp 指针释放
func (s *CarouselInputSystem) PointerUp(x, y float64) ClickResult {
	if s.state == InputIdle {
		return ClickResult{}
	}
	dragged := s.dragged
	s.state = InputIdle
	s.dragged = false
	s.controller.EndGesture(dragged)

	if dragged {
		return ClickResult{}
	}
	return s.handleClick(x, y)
}

// PointerCancel 指针取消（与释放相同处理）
func (s *CarouselInputSystem) PointerCancel(x, y float64) ClickResult {
	return s.PointerUp(x, y)
}

// PointerLeave 指针离开视口（与释放相同处理）
func (s *CarouselInputSystem) PointerLeave(x, y float64) ClickResult {
	return s.PointerUp(x, y)
}

// Wheel 滚轮：垂直增量乘以速度系数后改变水平偏移
// deltaY 使用浏览器约定（向下滚动为正）
func (s *CarouselInputSystem) Wheel(deltaY float64) {
	if deltaY == 0 {
		return
	}
	s.controller.ScrollBy(-deltaY * s.config.WheelSpeedFactor)
}

// handleClick 解析点击：打开详情或重新居中
func (s *CarouselInputSystem) handleClick(x, y float64) ClickResult {
	offset := s.controller.Offset()
	s.transforms.Update(offset)

	id, ok := s.transforms.HitTest(x, y, offset)
	if !ok {
		return ClickResult{}
	}
	geo, ok := ecs.GetComponent[*components.GeometryComponent](s.entityManager, id)
	if !ok {
		return ClickResult{}
	}

	m := s.layout.Metrics()
	delta := (geo.CenterX() - offset) - m.ViewportWidth/2
	threshold := geo.Width * s.config.ClickCenterRatio

	if math.Abs(delta) <= threshold {
		card, ok := s.track.Card(id)
		if !ok || card.Key == "" {
			return ClickResult{Slot: id}
		}

		s.controller.Persist(s.store)
		destination := navigation.Destination(card.Key)
		log.Printf("[CarouselInput] Navigate to %s", destination)
		if s.navigator != nil {
			s.navigator.Navigate(destination, card)
		}
		return ClickResult{Action: ClickNavigate, Slot: id, Destination: destination}
	}

	s.controller.Recenter(delta)
	return ClickResult{Action: ClickRecenter, Slot: id}
}
