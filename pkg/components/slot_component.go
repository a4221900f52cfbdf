package components

import "github.com/gonewx/timeline/pkg/cards"

// SlotRegion 槽位所在的轨道区域
type SlotRegion int

const (
	// RegionLeft 左侧克隆区（吸收向左的越界滚动）
	RegionLeft SlotRegion = iota
	// RegionOriginal 中间规范区（唯一的真实内容）
	RegionOriginal
	// RegionRight 右侧克隆区（吸收向右的越界滚动）
	RegionRight
)

// String 返回区域名称（用于日志）
func (r SlotRegion) String() string {
	switch r {
	case RegionLeft:
		return "left"
	case RegionOriginal:
		return "original"
	case RegionRight:
		return "right"
	default:
		return "unknown"
	}
}

// SlotComponent 轨道槽位组件
// 同一张卡片的三个副本共享 LogicalIndex，只能通过 PhysicalIndex 区分
type SlotComponent struct {
	LogicalIndex  int        // 逻辑序号 1..N
	PhysicalIndex int        // 轨道物理位置 0..3N-1
	Region        SlotRegion // 所在区域
}

// IsClone 是否为克隆槽位
func (s *SlotComponent) IsClone() bool {
	return s.Region != RegionOriginal
}

// CardComponent 槽位渲染的卡片内容
// 每个槽位持有独立副本，修改一个副本不会影响其他副本
type CardComponent struct {
	Card cards.Card
}
