// Package tui 终端前端：把时间轴引擎渲染到 tcell 屏幕上
//
// 每个字符格对应 CellWidth×CellHeight 个逻辑像素，引擎仍按像素工作，
// 指针坐标取字符格中心。
package tui

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/gonewx/timeline/pkg/cards"
	"github.com/gonewx/timeline/pkg/carousel"
	"github.com/gonewx/timeline/pkg/config"
	"github.com/gonewx/timeline/pkg/navigation"
	"github.com/gonewx/timeline/pkg/session"
)

// 字符格默认尺寸（逻辑像素）
const (
	DefaultCellWidth  = 8.0
	DefaultCellHeight = 16.0
)

// frameInterval 约 60 FPS
const frameInterval = time.Second / 60

// CellMeasurer 按字符格对齐的测量器
type CellMeasurer struct {
	CellWidth float64
}

// MeasurePlacedWidth 返回占满整数个字符格后的宽度（至少一格）
func (m CellMeasurer) MeasurePlacedWidth(layoutWidth float64) float64 {
	cw := m.CellWidth
	if cw <= 0 {
		cw = 1
	}
	cells := math.Max(1, math.Round(layoutWidth/cw))
	return cells * cw
}

// Options 终端前端参数
type Options struct {
	Config *config.CarouselConfig
	Cards  []cards.Card
	Store  session.PositionStore
	// CellWidth/CellHeight 为 0 时使用默认值
	CellWidth  float64
	CellHeight float64
}

// detailView 详情覆盖层
type detailView struct {
	destination string
	shareURL    string
	card        cards.Card
}

// App 终端时间轴
type App struct {
	screen   tcell.Screen
	config   *config.CarouselConfig
	cards    []cards.Card
	store    session.PositionStore
	cellW    float64
	cellH    float64
	carousel *carousel.Carousel
	detail   *detailView

	cols, rows int
	pressed    bool
	loads      int
}

// New 创建终端前端并完成第一次"页面加载"
func New(screen tcell.Screen, opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultCarouselConfig()
	}
	a := &App{
		screen: screen,
		config: cfg,
		cards:  opts.Cards,
		store:  opts.Store,
		cellW:  opts.CellWidth,
		cellH:  opts.CellHeight,
	}
	if a.cellW <= 0 {
		a.cellW = DefaultCellWidth
	}
	if a.cellH <= 0 {
		a.cellH = DefaultCellHeight
	}
	a.load()
	return a
}

// load 创建新的引擎实例；有保存的位置时会被恢复
func (a *App) load() {
	a.loads++
	a.carousel = carousel.New(carousel.Options{
		Config:    a.config,
		Cards:     a.cards,
		Store:     a.store,
		Navigator: navigation.NavigatorFunc(a.openDetail),
		Measurer:  CellMeasurer{CellWidth: a.cellW},
		TPS:       int(time.Second / frameInterval),
	})
	if a.cols > 0 && a.rows > 0 {
		a.carousel.Resize(float64(a.cols)*a.cellW, float64(a.rows)*a.cellH)
	}
	log.Printf("[TUI] Timeline loaded (%d)", a.loads)
}

// Carousel 返回当前引擎实例
func (a *App) Carousel() *carousel.Carousel {
	return a.carousel
}

// DetailOpen 详情覆盖层是否打开
func (a *App) DetailOpen() bool {
	return a.detail != nil
}

// Destination 返回详情覆盖层的目标页面；未打开时为空
func (a *App) Destination() string {
	if a.detail == nil {
		return ""
	}
	return a.detail.destination
}

// openDetail 实现导航：保存位置后显示详情覆盖层
func (a *App) openDetail(destination string, card cards.Card) {
	a.carousel.Unload()
	a.detail = &detailView{
		destination: destination,
		shareURL:    navigation.ShareURL(a.config.ShareBaseURL, destination),
		card:        card,
	}
	log.Printf("[TUI] Open %s", destination)
}

// closeDetail 关闭详情覆盖层并重新加载时间轴
func (a *App) closeDetail() {
	a.detail = nil
	a.pressed = false
	a.load()
}

// Close 退出前保存滚动位置
func (a *App) Close() {
	if a.detail == nil {
		a.carousel.Unload()
	}
}

// toPixels 字符格坐标 -> 格中心的逻辑像素坐标
func (a *App) toPixels(x, y int) (float64, float64) {
	return (float64(x) + 0.5) * a.cellW, (float64(y) + 0.5) * a.cellH
}

// resize 终端尺寸变化
func (a *App) resize(cols, rows int) {
	if cols <= 0 || rows <= 0 {
		return
	}
	a.cols, a.rows = cols, rows
	a.carousel.Resize(float64(cols)*a.cellW, float64(rows)*a.cellH)
}

// HandleEvent 处理一个终端事件；返回 false 表示退出
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		a.resize(ev.Size())
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventMouse:
		a.handleMouse(ev)
	}
	return true
}

// handleKey 键盘：q/Ctrl-C 退出，Esc 关闭详情或退出，方向键逐张滚动，Enter 打开居中卡片
func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch {
	case ev.Key() == tcell.KeyCtrlC, ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
		a.Close()
		return false
	case ev.Key() == tcell.KeyEscape:
		if a.detail != nil {
			a.closeDetail()
			return true
		}
		a.Close()
		return false
	}

	if a.detail != nil {
		if ev.Key() == tcell.KeyEnter || ev.Key() == tcell.KeyBackspace || ev.Key() == tcell.KeyBackspace2 {
			a.closeDetail()
		}
		return true
	}

	step := a.carousel.Metrics().Step
	switch ev.Key() {
	case tcell.KeyLeft:
		a.carousel.Controller().Recenter(-step)
	case tcell.KeyRight:
		a.carousel.Controller().Recenter(step)
	case tcell.KeyEnter:
		m := a.carousel.Metrics()
		input := a.carousel.Input()
		input.PointerDown(m.ViewportWidth/2, m.ViewportHeight/2)
		input.PointerUp(m.ViewportWidth/2, m.ViewportHeight/2)
	}
	return true
}

// handleMouse 鼠标：左键按下/拖拽/释放，滚轮
func (a *App) handleMouse(ev *tcell.EventMouse) {
	buttons := ev.Buttons()
	down := buttons&tcell.Button1 != 0

	if a.detail != nil {
		switch {
		case down:
			a.pressed = true
		case a.pressed:
			a.closeDetail()
		}
		return
	}

	input := a.carousel.Input()
	notch := a.config.Input.WheelPixelsPerNotch
	if buttons&tcell.WheelUp != 0 {
		input.Wheel(-notch)
	}
	if buttons&tcell.WheelDown != 0 {
		input.Wheel(notch)
	}

	x, y := a.toPixels(ev.Position())
	switch {
	case down && !a.pressed:
		a.pressed = true
		input.PointerDown(x, y)
	case down:
		input.PointerMove(x, y)
	case a.pressed:
		a.pressed = false
		input.PointerUp(x, y)
	}
}

// Tick 推进引擎
func (a *App) Tick(deltaTime float64) {
	if a.detail == nil {
		a.carousel.Update(deltaTime)
	}
}

// Run 事件循环：事件协程 + 固定帧率的刷新
func (a *App) Run(ctx context.Context) error {
	a.screen.EnableMouse()
	a.resize(a.screen.Size())

	// 事件协程在 quit 关闭或终端停止时退出并关闭 events
	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	go a.screen.ChannelEvents(events, quit)
	defer func() {
		close(quit)
		for range events {
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	deltaTime := frameInterval.Seconds()
	for {
		select {
		case <-ctx.Done():
			a.Close()
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				a.Close()
				return nil
			}
			if !a.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			a.Tick(deltaTime)
			a.Draw()
		}
	}
}
