package systems

import (
	"strconv"
	"testing"

	"github.com/gonewx/timeline/pkg/cards"
	"github.com/gonewx/timeline/pkg/config"
	"github.com/gonewx/timeline/pkg/ecs"
	"github.com/gonewx/timeline/pkg/session"
	"github.com/gonewx/timeline/pkg/track"
)

const (
	testViewportWidth  = 1280.0
	testViewportHeight = 720.0
	testFrame          = 1.0 / 60.0
)

// 1280 宽视口下的布局：槽宽 162，间距 24，步长 186，左侧留白 1
// 逻辑序号 1 的规范槽位（物理 14）居中时偏移为 11 × 186
const (
	testStep          = 186.0
	testInitialOffset = 11 * testStep
)

// recordingNavigator 记录导航请求
type recordingNavigator struct {
	destinations []string
	cards        []cards.Card
}

func (n *recordingNavigator) Navigate(destination string, card cards.Card) {
	n.destinations = append(n.destinations, destination)
	n.cards = append(n.cards, card)
}

// timelineFixture 组装好的引擎各部件
type timelineFixture struct {
	em         *ecs.EntityManager
	track      *track.Track
	layout     *LayoutSystem
	viewport   *Viewport
	controller *ScrollController
	transforms *TransformSystem
	input      *CarouselInputSystem
	store      *session.MemoryStore
	navigator  *recordingNavigator
	config     *config.CarouselConfig
}

// testCards 生成 n 张带标题的卡片
func testCards(n int) []cards.Card {
	list := make([]cards.Card, n)
	for i := range list {
		title := "Event " + strconv.Itoa(i+1)
		list[i] = cards.Card{Title: title, Year: strconv.Itoa(1900 + i), Key: title}
	}
	return list
}

// newTimelineFixture 创建 14 张卡片的引擎并完成首次布局（尚未初始定位）
func newTimelineFixture(t *testing.T) *timelineFixture {
	t.Helper()
	return newTimelineFixtureWith(t, nil)
}

// newTimelineFixtureWith 允许测试在组装前修改配置
func newTimelineFixtureWith(t *testing.T, tweak func(cfg *config.CarouselConfig)) *timelineFixture {
	t.Helper()

	cfg := config.DefaultCarouselConfig()
	if tweak != nil {
		tweak(cfg)
	}
	em := ecs.NewEntityManager()
	tr := track.Build(em, testCards(cfg.Layout.CardTotal), cfg.Layout.CardTotal)
	layout := NewLayoutSystem(em, tr, cfg.Layout, PixelMeasurer{DeviceScale: 1})
	viewport := NewViewport(60, cfg.Timing.SpringFrequency, cfg.Timing.SpringDamping)
	controller := NewScrollController(tr, layout, viewport, cfg.Timing)
	transforms := NewTransformSystem(em, tr, layout, cfg.Transform)
	store := session.NewMemoryStore()
	nav := &recordingNavigator{}
	input := NewCarouselInputSystem(em, tr, layout, transforms, controller, cfg.Input, store, nav)

	layout.Apply(testViewportWidth, testViewportHeight)

	return &timelineFixture{
		em:         em,
		track:      tr,
		layout:     layout,
		viewport:   viewport,
		controller: controller,
		transforms: transforms,
		input:      input,
		store:      store,
		navigator:  nav,
		config:     cfg,
	}
}

// start 安排初始定位并推进到完成
func (f *timelineFixture) start(t *testing.T) {
	t.Helper()
	f.controller.Start(f.store)
	for i := 0; i < 60 && !f.controller.Initialized(); i++ {
		f.tick()
	}
	if !f.controller.Initialized() {
		t.Fatal("controller did not initialize")
	}
}

// tick 推进一帧，并按需重算视觉变换
func (f *timelineFixture) tick() {
	f.controller.Update(testFrame)
	if f.controller.TakeFrame() {
		f.transforms.Update(f.controller.Offset())
	}
}

// settle 推进直到完全静止，超过 maxSeconds 视为失败
func (f *timelineFixture) settle(t *testing.T, maxSeconds float64) {
	t.Helper()
	for elapsed := 0.0; elapsed < maxSeconds; elapsed += testFrame {
		f.tick()
		if f.controller.Settled() {
			return
		}
	}
	t.Fatalf("controller did not settle within %.1fs (offset %.2f)", maxSeconds, f.controller.Offset())
}

// centered 返回当前居中卡片的逻辑序号
func (f *timelineFixture) centered() int {
	return f.layout.CenteredLogicalIndex(f.controller.Offset())
}

// assertStepMultiple 检查偏移是步长的整数倍
func assertStepMultiple(t *testing.T, offset, step float64) {
	t.Helper()
	if r := offset / step; r != float64(int(r+0.5)) {
		t.Errorf("offset %.3f is not a multiple of step %.1f", offset, step)
	}
}
