package scenes

import (
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/gonewx/timeline/pkg/cards"
	"github.com/gonewx/timeline/pkg/carousel"
	"github.com/gonewx/timeline/pkg/components"
	"github.com/gonewx/timeline/pkg/config"
	"github.com/gonewx/timeline/pkg/ecs"
	"github.com/gonewx/timeline/pkg/game"
	"github.com/gonewx/timeline/pkg/navigation"
	"github.com/gonewx/timeline/pkg/session"
	"github.com/gonewx/timeline/pkg/systems"
)

var timelineBackgroundColor = color.RGBA{R: 18, G: 20, B: 28, A: 255}

// TimelineOptions 时间轴场景参数
type TimelineOptions struct {
	Config   *config.CarouselConfig
	Cards    []cards.Card
	Store    session.PositionStore
	Measurer systems.Measurer
	// Input 为 nil 时读取 ebiten 的真实输入
	Input PointerInput
}

// TimelineScene 无限循环时间轴场景
//
// 场景只负责把 ebiten 的尺寸和指针输入喂给引擎，并按引擎给出的
// 绘制顺序、投影四边形和透明度绘制卡片。
type TimelineScene struct {
	sceneManager *game.SceneManager
	carousel     *carousel.Carousel
	pointer      *PointerTracker
	renderer     *cardRenderer

	width, height int
}

// NewTimelineScene 创建时间轴场景；每次创建都相当于一次页面加载
func NewTimelineScene(sm *game.SceneManager, opts TimelineOptions) *TimelineScene {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultCarouselConfig()
	}

	var navigator navigation.Navigator
	if sm != nil {
		navigator = sm
	}

	c := carousel.New(carousel.Options{
		Config:    cfg,
		Cards:     opts.Cards,
		Store:     opts.Store,
		Navigator: navigator,
		Measurer:  opts.Measurer,
		TPS:       ebiten.TPS(),
	})
	log.Printf("[TimelineScene] Created with %d slots (placeholders: %v)", c.Track().Len(), c.Track().UsesPlaceholders())

	return &TimelineScene{
		sceneManager: sm,
		carousel:     c,
		pointer:      NewPointerTracker(opts.Input, cfg.Input.WheelPixelsPerNotch),
		renderer:     newCardRenderer(),
	}
}

// Carousel 返回引擎
func (s *TimelineScene) Carousel() *carousel.Carousel {
	return s.carousel
}

// Resize 实现 game.Resizable
func (s *TimelineScene) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.width, s.height = width, height
	s.carousel.Resize(float64(width), float64(height))
}

// SaveOnExit 实现 game.Saveable：离开场景或关闭窗口时保存滚动位置
func (s *TimelineScene) SaveOnExit() bool {
	s.carousel.Unload()
	return true
}

// Update 处理指针事件并推进引擎
func (s *TimelineScene) Update(deltaTime float64) {
	if s.width == 0 || s.height == 0 {
		return
	}

	events, wheelDeltaY := s.pointer.Poll(s.width, s.height)
	input := s.carousel.Input()
	for _, ev := range events {
		switch ev.Kind {
		case PointerPressed:
			input.PointerDown(ev.X, ev.Y)
		case PointerMoved:
			input.PointerMove(ev.X, ev.Y)
		case PointerReleased:
			if result := input.PointerUp(ev.X, ev.Y); result.Action == systems.ClickNavigate {
				// 已切换到详情场景
				return
			}
		case PointerLeft:
			input.PointerLeave(ev.X, ev.Y)
		}
	}
	if wheelDeltaY != 0 {
		input.Wheel(wheelDeltaY)
	}

	s.carousel.Update(deltaTime)
}

// Draw 按远到近的顺序绘制所有槽位
func (s *TimelineScene) Draw(screen *ebiten.Image) {
	screen.Fill(timelineBackgroundColor)
	if !s.carousel.Controller().Initialized() {
		return
	}

	offset := s.carousel.Offset()
	transforms := s.carousel.Transforms()
	tr := s.carousel.Track()
	em := s.carousel.EntityManager()

	for _, id := range transforms.DrawOrder() {
		quad, ok := transforms.ScreenQuad(id, offset)
		if !ok {
			continue
		}
		transform, ok := transforms.Transform(id)
		if !ok || transform.Opacity <= 0 {
			continue
		}
		slot, ok := ecs.GetComponent[*components.SlotComponent](em, id)
		if !ok {
			continue
		}
		geo, ok := ecs.GetComponent[*components.GeometryComponent](em, id)
		if !ok {
			continue
		}
		card, _ := tr.Card(id)

		face := s.renderer.faceFor(slot.LogicalIndex, card, int(geo.Width), int(geo.Height))
		s.renderer.drawSlot(screen, face, quad, transform)
	}

	s.drawCaption(screen)
}

// drawCaption 在底部显示居中卡片的年份和标题
func (s *TimelineScene) drawCaption(screen *ebiten.Image) {
	id, ok := s.carousel.Transforms().ActiveSlot()
	if !ok {
		return
	}
	card, ok := s.carousel.Track().Card(id)
	if !ok {
		return
	}

	caption := fitLabel(card.Title, s.width/basicFontGlyphWidth)
	if card.Year != "" {
		caption = fitLabel(card.Year+"  "+card.Title, s.width/basicFontGlyphWidth)
	}
	w := text.Advance(caption, s.renderer.face)

	op := &text.DrawOptions{}
	op.GeoM.Translate((float64(s.width)-w)/2, float64(s.height-2*labelLineHeight))
	op.ColorScale.ScaleWithColor(labelTextColor)
	text.Draw(screen, caption, s.renderer.face, op)
}
