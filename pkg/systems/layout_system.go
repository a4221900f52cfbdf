package systems

import (
	"math"

	"github.com/gonewx/timeline/pkg/components"
	"github.com/gonewx/timeline/pkg/config"
	"github.com/gonewx/timeline/pkg/ecs"
	"github.com/gonewx/timeline/pkg/track"
)

// Measurer 测量槽位实际放置后的宽度
//
// 步长使用测量值而非算术值，用来吸收像素取整带来的漂移。
// 不同前端的取整方式不同（桌面按设备像素，终端按字符格）。
type Measurer interface {
	MeasurePlacedWidth(layoutWidth float64) float64
}

// PixelMeasurer 按设备像素对齐的测量器
type PixelMeasurer struct {
	// DeviceScale 设备缩放比（逻辑像素 -> 物理像素），<=0 时按 1 处理
	DeviceScale float64
}

// MeasurePlacedWidth 返回放置到设备像素网格后的宽度（逻辑像素，取整）
func (m PixelMeasurer) MeasurePlacedWidth(layoutWidth float64) float64 {
	scale := m.DeviceScale
	if scale <= 0 {
		scale = 1
	}
	physical := math.Round(layoutWidth * scale)
	return math.Round(physical / scale)
}

// Metrics 一次布局的结果
type Metrics struct {
	SlotWidth      float64 // 实测槽位宽度
	SlotHeight     float64
	Gap            float64
	Step           float64 // 槽位宽度 + 间距
	Inset          float64 // 轨道左侧留白（可为负），使步长整数倍的偏移恰好居中一张卡片
	ViewportWidth  float64
	ViewportHeight float64
	TrackWidth     float64
}

// Ready 是否已完成过有效布局
func (m Metrics) Ready() bool {
	return m.Step > 0
}

// SafeStep 返回可用作除数的步长，布局未就绪时返回 1
func (m Metrics) SafeStep() float64 {
	if m.Step > 0 {
		return m.Step
	}
	return 1
}

// MaxOffset 返回视口可滚动的最大偏移
func (m Metrics) MaxOffset() float64 {
	return math.Max(0, m.TrackWidth-m.ViewportWidth)
}

// ComputeSlotSize 根据视口宽度计算槽位尺寸
//
// 公式：
//
//	slotWidth  = floor((max(viewportWidth, minimumWidth) - (visible-1)*gap) / visible)
//	slotHeight = round(slotWidth * aspect)
func ComputeSlotSize(viewportWidth, gap float64, visible int, minimumWidth, aspect float64) (width, height float64) {
	if visible <= 0 {
		visible = 1
	}
	available := math.Max(viewportWidth, minimumWidth)
	width = math.Floor((available - float64(visible-1)*gap) / float64(visible))
	if width < 1 {
		width = 1
	}
	height = math.Round(width * aspect)
	return width, height
}

// LayoutSystem 槽位布局引擎
//
// 职责：
//   - 根据视口尺寸计算槽位宽高并写入每个槽位的 GeometryComponent
//   - 测量第一个槽位的放置宽度，得到步长
//   - 提供"立即居中"所需的偏移计算
//
// Apply 可以在任意时刻重复调用（幂等），窗口尺寸变化时必须重新调用。
type LayoutSystem struct {
	entityManager *ecs.EntityManager
	track         *track.Track
	config        config.LayoutConfig
	measurer      Measurer
	metrics       Metrics
}

// NewLayoutSystem 创建布局引擎
func NewLayoutSystem(em *ecs.EntityManager, tr *track.Track, cfg config.LayoutConfig, measurer Measurer) *LayoutSystem {
	if measurer == nil {
		measurer = PixelMeasurer{DeviceScale: 1}
	}
	return &LayoutSystem{
		entityManager: em,
		track:         tr,
		config:        cfg,
		measurer:      measurer,
	}
}

// Apply 按视口尺寸重新布局所有槽位
func (s *LayoutSystem) Apply(viewportWidth, viewportHeight float64) Metrics {
	gap := s.config.GapPx
	width, height := ComputeSlotSize(viewportWidth, gap, s.config.VisibleCount, s.config.MinimumWidthPx, s.config.AspectRatio)

	measured := width
	if first, ok := s.track.SlotAt(0); ok {
		// 先按算术宽度放置第一个槽位，再测量放置结果
		if geo, ok := ecs.GetComponent[*components.GeometryComponent](s.entityManager, first); ok {
			geo.Width = width
			measured = s.measurer.MeasurePlacedWidth(geo.Width)
		}
	}
	step := measured + gap

	visible := float64(s.config.VisibleCount)
	span := visible*measured + (visible-1)*gap
	// 视口窄于最小宽度时留白为负，步长整数倍的偏移仍然恰好居中一张卡片
	inset := (viewportWidth - span) / 2
	top := math.Max(0, (viewportHeight-height)/2)

	for i, id := range s.track.Slots() {
		geo, ok := ecs.GetComponent[*components.GeometryComponent](s.entityManager, id)
		if !ok {
			continue
		}
		geo.X = inset + float64(i)*step
		geo.Y = top
		geo.Width = measured
		geo.Height = height
	}

	trackWidth := 2 * inset
	if n := s.track.Len(); n > 0 {
		trackWidth += float64(n)*step - gap
	}

	s.metrics = Metrics{
		SlotWidth:      measured,
		SlotHeight:     height,
		Gap:            gap,
		Step:           step,
		Inset:          inset,
		ViewportWidth:  viewportWidth,
		ViewportHeight: viewportHeight,
		TrackWidth:     trackWidth,
	}
	return s.metrics
}

// Metrics 返回最近一次布局结果
func (s *LayoutSystem) Metrics() Metrics {
	return s.metrics
}

// CenterOffset 返回使槽位中心与视口中心对齐所需的视口偏移
// 槽位不存在时返回 false
func (s *LayoutSystem) CenterOffset(id ecs.EntityID) (float64, bool) {
	geo, ok := ecs.GetComponent[*components.GeometryComponent](s.entityManager, id)
	if !ok {
		return 0, false
	}
	return geo.X + geo.Width/2 - s.metrics.ViewportWidth/2, true
}

// CenteredPhysicalIndex 返回距视口中心最近的槽位物理下标
func (s *LayoutSystem) CenteredPhysicalIndex(offset float64) int {
	m := s.metrics
	center := offset + m.ViewportWidth/2
	idx := int(math.Round((center - m.Inset - m.SlotWidth/2) / m.SafeStep()))
	if idx < 0 {
		idx = 0
	}
	if n := s.track.Len(); idx >= n && n > 0 {
		idx = n - 1
	}
	return idx
}

// CenteredLogicalIndex 返回距视口中心最近的卡片逻辑序号
func (s *LayoutSystem) CenteredLogicalIndex(offset float64) int {
	id, ok := s.track.SlotAt(s.CenteredPhysicalIndex(offset))
	if !ok {
		return 0
	}
	logical, _ := s.track.LogicalIndexOf(id)
	return logical
}
