package systems

import (
	"math"
	"sort"

	"github.com/gonewx/timeline/pkg/components"
	"github.com/gonewx/timeline/pkg/config"
	"github.com/gonewx/timeline/pkg/ecs"
	"github.com/gonewx/timeline/pkg/track"
	"github.com/gonewx/timeline/pkg/utils"
)

// ComputeTransform 根据距中心的槽位距离计算视觉变换（纯函数）
//
// 参数：
//   - distanceInSlots: |视口中心 - 槽位中心| / 步长
//   - side: 槽位在中心左侧为 +1，否则为 -1
//   - cfg: 视觉参数
//
// 公式：
//
//	t          = min(d / falloff, 1)
//	scale      = lerp(scaleMax, scaleMin, t)
//	opacity    = lerp(1, opacityMin, t)
//	rotateY    = side * rotateMax * min(d / rotateRange, 1)
//	translateY = -lift * max(0, 1 - d / falloff)
//	active     = d < activeThreshold
func ComputeTransform(distanceInSlots, side float64, cfg config.TransformConfig) components.TransformComponent {
	d := math.Abs(distanceInSlots)
	t := math.Min(d/cfg.FalloffSlots, 1)

	return components.TransformComponent{
		Scale:           utils.Lerp(cfg.ScaleMax, cfg.ScaleMin, t),
		Opacity:         utils.Lerp(1, cfg.OpacityMin, t),
		RotateY:         side * cfg.RotateMaxDeg * math.Min(d/cfg.RotateRangeSlots, 1),
		TranslateY:      -cfg.LiftPx * math.Max(0, 1-d/cfg.FalloffSlots),
		DistanceInSlots: d,
		Side:            side,
		Active:          d < cfg.ActiveThreshold,
	}
}

// Point 二维点
type Point struct {
	X, Y float64
}

// Project 计算槽位四个角在屏幕上的位置（相对槽位中心）
//
// 变换顺序与 CSS 一致：perspective → translateY → rotateY → scale，
// 即先缩放，再绕Y轴旋转，再上抬，最后做透视投影。
// 返回顺序：左上、右上、右下、左下。
func Project(width, height float64, tr components.TransformComponent, perspective float64) [4]Point {
	hw, hh := width/2, height/2
	local := [4]Point{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}

	rad := tr.RotateY * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)

	var out [4]Point
	for i, p := range local {
		x := p.X * tr.Scale
		y := p.Y * tr.Scale

		// rotateY: x' = x*cos + z*sin, z' = -x*sin + z*cos（z=0）
		z := -x * sin
		x = x * cos

		y += tr.TranslateY

		w := 1.0
		if perspective > 0 {
			w = 1 - z/perspective
			if w < 0.05 {
				w = 0.05
			}
		}
		out[i] = Point{X: x / w, Y: y / w}
	}
	return out
}

// PointInQuad 判断点是否在凸四边形内（叉积同号法）
func PointInQuad(px, py float64, q [4]Point) bool {
	var positive, negative bool
	for i := 0; i < 4; i++ {
		a := q[i]
		b := q[(i+1)%4]
		cross := (b.X-a.X)*(py-a.Y) - (b.Y-a.Y)*(px-a.X)
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}

// TransformSystem 视觉变换引擎
//
// 每帧根据视口偏移重算所有槽位的 TransformComponent，
// 并维护绘制顺序（远处先画，居中卡片在最上层）。
type TransformSystem struct {
	entityManager *ecs.EntityManager
	layout        *LayoutSystem
	config        config.TransformConfig
	order         []ecs.EntityID
}

// NewTransformSystem 创建视觉变换引擎
func NewTransformSystem(em *ecs.EntityManager, tr *track.Track, layout *LayoutSystem, cfg config.TransformConfig) *TransformSystem {
	order := make([]ecs.EntityID, len(tr.Slots()))
	copy(order, tr.Slots())
	return &TransformSystem{
		entityManager: em,
		layout:        layout,
		config:        cfg,
		order:         order,
	}
}

// Config 返回视觉参数
func (s *TransformSystem) Config() config.TransformConfig {
	return s.config
}

// Update 按当前偏移重算所有槽位的视觉变换
func (s *TransformSystem) Update(offset float64) {
	m := s.layout.Metrics()
	step := m.SafeStep()
	centerX := m.ViewportWidth / 2

	for _, id := range ecs.GetEntitiesWith2[*components.GeometryComponent, *components.TransformComponent](s.entityManager) {
		geo, _ := ecs.GetComponent[*components.GeometryComponent](s.entityManager, id)
		tc, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)

		cardCenter := geo.CenterX() - offset
		side := -1.0
		if cardCenter < centerX {
			side = 1.0
		}
		*tc = ComputeTransform(math.Abs(centerX-cardCenter)/step, side, s.config)
	}

	sort.SliceStable(s.order, func(i, j int) bool {
		return s.distanceOf(s.order[i]) > s.distanceOf(s.order[j])
	})
}

// distanceOf 返回槽位当前的槽位距离
func (s *TransformSystem) distanceOf(id ecs.EntityID) float64 {
	tc, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
	if !ok {
		return math.MaxFloat64
	}
	return tc.DistanceInSlots
}

// DrawOrder 返回绘制顺序（远到近）
func (s *TransformSystem) DrawOrder() []ecs.EntityID {
	return s.order
}

// Transform 返回槽位当前的视觉变换
func (s *TransformSystem) Transform(id ecs.EntityID) (components.TransformComponent, bool) {
	tc, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
	if !ok {
		return components.TransformComponent{}, false
	}
	return *tc, true
}

// ActiveSlot 返回当前居中的槽位
func (s *TransformSystem) ActiveSlot() (ecs.EntityID, bool) {
	for i := len(s.order) - 1; i >= 0; i-- {
		id := s.order[i]
		if tc, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, id); ok && tc.Active {
			return id, true
		}
	}
	return 0, false
}

// ScreenQuad 返回槽位在视口坐标系中的投影四边形
func (s *TransformSystem) ScreenQuad(id ecs.EntityID, offset float64) ([4]Point, bool) {
	geo, ok := ecs.GetComponent[*components.GeometryComponent](s.entityManager, id)
	if !ok {
		return [4]Point{}, false
	}
	tc, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
	if !ok {
		return [4]Point{}, false
	}

	cx := geo.CenterX() - offset
	cy := geo.CenterY()
	quad := Project(geo.Width, geo.Height, *tc, s.config.PerspectivePx)
	for i := range quad {
		quad[i].X += cx
		quad[i].Y += cy
	}
	return quad, true
}

// HitTest 返回视口坐标 (x, y) 处最上层的槽位
// 没有命中任何槽位时返回 false
func (s *TransformSystem) HitTest(x, y, offset float64) (ecs.EntityID, bool) {
	for i := len(s.order) - 1; i >= 0; i-- {
		id := s.order[i]
		quad, ok := s.ScreenQuad(id, offset)
		if !ok {
			continue
		}
		if PointInQuad(x, y, quad) {
			return id, true
		}
	}
	return 0, false
}
