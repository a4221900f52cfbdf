// Package track 构建无限循环轮播的槽位轨道
//
// 轨道由 3N 个槽位组成：[左侧克隆 1..N] [原件 1..N] [右侧克隆 1..N]。
// 中间三分之一是唯一的规范区；两侧只用于吸收边界处的越界滚动。
// 逻辑序号到三个副本的映射显式保存，不依赖物理下标的偏移计算。
package track

import (
	"log"

	"github.com/gonewx/timeline/pkg/cards"
	"github.com/gonewx/timeline/pkg/components"
	"github.com/gonewx/timeline/pkg/ecs"
)

// Copies 同一逻辑卡片的三个槽位副本
type Copies struct {
	Left     ecs.EntityID
	Original ecs.EntityID
	Right    ecs.EntityID
}

// Track 槽位轨道
type Track struct {
	entityManager *ecs.EntityManager
	total         int
	slots         []ecs.EntityID       // 物理顺序
	byLogical     map[int]Copies       // 逻辑序号 -> 三个副本
	physical      map[ecs.EntityID]int // 实体 -> 物理下标
	placeholders  bool
}

// Build 根据卡片列表创建 3N 个槽位实体
//
// 参数：
//   - em: 槽位实体存储
//   - list: 卡片列表（顺序即逻辑序号）
//   - total: 期望的卡片总数 N
//
// 如果卡片数量与 total 不一致，改用 total 张占位卡片，逻辑序号仍为 1..N。
func Build(em *ecs.EntityManager, list []cards.Card, total int) *Track {
	placeholders := false
	if len(list) != total {
		log.Printf("[Track] Card count %d does not match expected %d, using placeholders", len(list), total)
		list = cards.Placeholders(total)
		placeholders = true
	}

	t := &Track{
		entityManager: em,
		total:         total,
		slots:         make([]ecs.EntityID, 0, 3*total),
		byLogical:     make(map[int]Copies, total),
		physical:      make(map[ecs.EntityID]int, 3*total),
		placeholders:  placeholders,
	}

	regions := []components.SlotRegion{
		components.RegionLeft,
		components.RegionOriginal,
		components.RegionRight,
	}
	for _, region := range regions {
		for i, card := range list {
			logical := i + 1
			id := t.createSlot(card, logical, region)

			copies := t.byLogical[logical]
			switch region {
			case components.RegionLeft:
				copies.Left = id
			case components.RegionOriginal:
				copies.Original = id
			case components.RegionRight:
				copies.Right = id
			}
			t.byLogical[logical] = copies
		}
	}

	log.Printf("[Track] Built %d slots for %d cards", len(t.slots), total)
	return t
}

// createSlot 创建单个槽位实体
// 卡片内容按值复制，每个槽位拥有独立的组件实例
func (t *Track) createSlot(card cards.Card, logical int, region components.SlotRegion) ecs.EntityID {
	id := t.entityManager.CreateEntity()
	physical := len(t.slots)

	ecs.AddComponent(t.entityManager, id, &components.SlotComponent{
		LogicalIndex:  logical,
		PhysicalIndex: physical,
		Region:        region,
	})
	ecs.AddComponent(t.entityManager, id, &components.CardComponent{Card: card.Clone()})
	ecs.AddComponent(t.entityManager, id, &components.GeometryComponent{})
	ecs.AddComponent(t.entityManager, id, &components.TransformComponent{Scale: 1, Opacity: 1})

	t.slots = append(t.slots, id)
	t.physical[id] = physical
	return id
}

// Total 返回逻辑卡片数量 N
func (t *Track) Total() int {
	return t.total
}

// Len 返回槽位总数（3N）
func (t *Track) Len() int {
	return len(t.slots)
}

// UsesPlaceholders 是否因卡片数量不符而使用了占位卡片
func (t *Track) UsesPlaceholders() bool {
	return t.placeholders
}

// Slots 返回按物理顺序排列的槽位
func (t *Track) Slots() []ecs.EntityID {
	return t.slots
}

// SlotAt 返回物理下标处的槽位
func (t *Track) SlotAt(physical int) (ecs.EntityID, bool) {
	if physical < 0 || physical >= len(t.slots) {
		return 0, false
	}
	return t.slots[physical], true
}

// PhysicalIndex 返回槽位的物理下标
func (t *Track) PhysicalIndex(id ecs.EntityID) (int, bool) {
	idx, ok := t.physical[id]
	return idx, ok
}

// Copies 返回逻辑序号对应的三个副本
func (t *Track) Copies(logical int) (Copies, bool) {
	c, ok := t.byLogical[logical]
	return c, ok
}

// FindCanonical 返回逻辑序号在规范区（中间三分之一）的槽位
// 序号不存在时返回 false
func (t *Track) FindCanonical(logical int) (ecs.EntityID, bool) {
	c, ok := t.byLogical[logical]
	if !ok {
		return 0, false
	}
	return c.Original, true
}

// CanonicalRange 返回规范区的物理下标范围 [start, end)
func (t *Track) CanonicalRange() (start, end int) {
	return t.total, 2 * t.total
}

// LogicalIndexOf 返回槽位的逻辑序号
func (t *Track) LogicalIndexOf(id ecs.EntityID) (int, bool) {
	slot, ok := ecs.GetComponent[*components.SlotComponent](t.entityManager, id)
	if !ok {
		return 0, false
	}
	return slot.LogicalIndex, true
}

// Card 返回槽位持有的卡片副本
func (t *Track) Card(id ecs.EntityID) (cards.Card, bool) {
	cc, ok := ecs.GetComponent[*components.CardComponent](t.entityManager, id)
	if !ok {
		return cards.Card{}, false
	}
	return cc.Card, true
}

// EntityManager 返回槽位实体存储
func (t *Track) EntityManager() *ecs.EntityManager {
	return t.entityManager
}
