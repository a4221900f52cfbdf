package tui

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/gonewx/timeline/pkg/cards"
	"github.com/gonewx/timeline/pkg/session"
)

const (
	testCols  = 160
	testRows  = 45
	testStep  = 184.0 // 162 宽的槽位对齐到 20 个字符格
	testFrame = 1.0 / 60.0
)

func testCards(n int) []cards.Card {
	list := make([]cards.Card, n)
	for i := range list {
		title := fmt.Sprintf("Event %d", i+1)
		list[i] = cards.Card{Title: title, Year: fmt.Sprintf("%d", 1900+i), Key: title}
	}
	return list
}

// newTestApp 创建 160x45 的模拟终端（1280x720 逻辑像素）并等待初始定位完成
func newTestApp(t *testing.T) (*App, tcell.SimulationScreen, *session.MemoryStore) {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("初始化模拟终端失败: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(testCols, testRows)

	store := session.NewMemoryStore()
	app := New(screen, Options{Cards: testCards(14), Store: store})
	app.HandleEvent(tcell.NewEventResize(testCols, testRows))
	settle(t, app)
	return app, screen, store
}

// settle 推进直到引擎完全静止，然后绘制一帧
func settle(t *testing.T, app *App) {
	t.Helper()
	controller := app.Carousel().Controller()
	for i := 0; i < 600; i++ {
		app.Tick(testFrame)
		if controller.Initialized() && controller.Settled() {
			app.Draw()
			return
		}
	}
	t.Fatalf("引擎 10 秒内未静止，偏移 %.2f", app.Carousel().Offset())
}

// screenRow 读取模拟终端的一行文字
func screenRow(screen tcell.SimulationScreen, row int) string {
	cells, width, _ := screen.GetContents()
	var b strings.Builder
	for x := 0; x < width; x++ {
		cell := cells[row*width+x]
		if len(cell.Runes) == 0 {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(cell.Runes[0])
	}
	return b.String()
}

// screenText 读取整个屏幕
func screenText(screen tcell.SimulationScreen) string {
	_, _, height := screen.GetContents()
	rows := make([]string, height)
	for y := range rows {
		rows[y] = screenRow(screen, y)
	}
	return strings.Join(rows, "\n")
}

func mouse(x, y int, buttons tcell.ButtonMask) *tcell.EventMouse {
	return tcell.NewEventMouse(x, y, buttons, tcell.ModNone)
}

func TestCellMeasurer(t *testing.T) {
	tests := []struct {
		name      string
		cellWidth float64
		width     float64
		expected  float64
	}{
		{"向下取整到字符格", 8, 162, 160},
		{"向上取整到字符格", 8, 165, 168},
		{"至少一个字符格", 8, 3, 8},
		{"字符格宽度非法时按 1 处理", 0, 10.4, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := CellMeasurer{CellWidth: tt.cellWidth}
			if got := m.MeasurePlacedWidth(tt.width); got != tt.expected {
				t.Errorf("MeasurePlacedWidth(%v) = %v, 期望 %v", tt.width, got, tt.expected)
			}
		})
	}
}

func TestInitialLayout(t *testing.T) {
	app, screen, _ := newTestApp(t)

	c := app.Carousel()
	if got := c.Metrics().Step; got != testStep {
		t.Errorf("步长应为 %.0f，实际为 %.2f", testStep, got)
	}
	if got := c.CenteredLogicalIndex(); got != 1 {
		t.Errorf("初始应居中逻辑序号 1，实际为 %d", got)
	}
	if got := c.Offset(); got != 25*testStep {
		t.Errorf("首次吸附后偏移应为 %.0f，实际为 %.2f", 25*testStep, got)
	}

	caption := screenRow(screen, testRows-1)
	if !strings.Contains(caption, "1900  Event 1") {
		t.Errorf("底部应显示居中卡片，实际为 %q", strings.TrimSpace(caption))
	}
}

func TestMouseDragScrolls(t *testing.T) {
	app, _, _ := newTestApp(t)

	// 格中心 x = (col+0.5)*8；从 80 列拖到 34 列，正好两个步长
	app.HandleEvent(mouse(80, 22, tcell.Button1))
	app.HandleEvent(mouse(57, 22, tcell.Button1))
	app.HandleEvent(mouse(34, 22, tcell.Button1))
	app.HandleEvent(mouse(34, 22, tcell.ButtonNone))

	if app.DetailOpen() {
		t.Fatal("拖拽不应打开详情")
	}
	settle(t, app)
	if got := app.Carousel().CenteredLogicalIndex(); got != 3 {
		t.Errorf("应居中逻辑序号 3，实际为 %d", got)
	}
}

func TestClickOpensDetailAndReturns(t *testing.T) {
	app, screen, store := newTestApp(t)

	// 滚轮向下一格：-500 像素 -> 吸附到 22 个步长
	app.HandleEvent(mouse(80, 22, tcell.WheelDown))
	settle(t, app)
	if got := app.Carousel().CenteredLogicalIndex(); got != 12 {
		t.Fatalf("滚轮后应居中逻辑序号 12，实际为 %d", got)
	}

	app.HandleEvent(mouse(80, 22, tcell.Button1))
	app.HandleEvent(mouse(80, 22, tcell.ButtonNone))
	if !app.DetailOpen() {
		t.Fatal("点击居中卡片应打开详情")
	}
	if got := app.Destination(); got != "contents/event-12.html" {
		t.Errorf("目标页面错误: %q", got)
	}
	app.Draw()
	if text := screenText(screen); !strings.Contains(text, "contents/event-12.html") {
		t.Error("详情覆盖层应显示目标页面")
	}

	app.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	if app.DetailOpen() {
		t.Fatal("Esc 应关闭详情")
	}
	if app.loads != 2 {
		t.Errorf("返回时应重新加载时间轴，加载次数为 %d", app.loads)
	}
	settle(t, app)
	if got := app.Carousel().Offset(); got != 22*testStep {
		t.Errorf("返回后偏移应恢复为 %.0f，实际为 %.2f", 22*testStep, got)
	}
	if _, ok := store.Take(); ok {
		t.Error("恢复后保存的位置应被清除")
	}
}

func TestKeyboardNavigation(t *testing.T) {
	app, _, _ := newTestApp(t)

	tests := []struct {
		key      tcell.Key
		expected int
	}{
		{tcell.KeyRight, 2},
		{tcell.KeyLeft, 1},
		{tcell.KeyLeft, 14},
	}
	for _, tt := range tests {
		app.HandleEvent(tcell.NewEventKey(tt.key, 0, tcell.ModNone))
		settle(t, app)
		if got := app.Carousel().CenteredLogicalIndex(); got != tt.expected {
			t.Errorf("按键后应居中逻辑序号 %d，实际为 %d", tt.expected, got)
		}
	}

	app.HandleEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	if got := app.Destination(); got != "contents/event-14.html" {
		t.Errorf("Enter 应打开居中卡片，实际目标为 %q", got)
	}
}

func TestQuitSavesPosition(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
	}{
		{"q 退出", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)},
		{"Ctrl-C 退出", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)},
		{"Esc 退出", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _, store := newTestApp(t)
			if app.HandleEvent(tt.ev) {
				t.Fatal("应返回 false 表示退出")
			}
			offset, ok := store.Take()
			if !ok {
				t.Fatal("退出时应保存滚动位置")
			}
			if offset != 25*testStep {
				t.Errorf("保存的偏移应为 %.0f，实际为 %.2f", 25*testStep, offset)
			}
		})
	}
}

func TestResize(t *testing.T) {
	app, screen, _ := newTestApp(t)

	screen.SetSize(100, 30)
	app.HandleEvent(tcell.NewEventResize(100, 30))
	settle(t, app)

	// 800 宽：槽位 93 -> 对齐到 96，步长 120
	c := app.Carousel()
	if got := c.Metrics().Step; got != 120 {
		t.Errorf("步长应为 120，实际为 %.2f", got)
	}
	if got := c.CenteredLogicalIndex(); got != 1 {
		t.Errorf("尺寸变化后应仍居中逻辑序号 1，实际为 %d", got)
	}
}

func TestRunQuits(t *testing.T) {
	app, screen, _ := newTestApp(t)

	done := make(chan error, 1)
	go func() {
		done <- app.Run(context.Background())
	}()
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run 应正常返回，实际为 %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run 没有响应退出键")
	}
}

func TestRunContextCancel(t *testing.T) {
	app, _, _ := newTestApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- app.Run(ctx)
	}()
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("应返回 context.Canceled，实际为 %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run 没有响应取消")
	}
}

// TestRunStopsEventPump 取消后事件协程随 Run 一起退出，不再消费终端事件
func TestRunStopsEventPump(t *testing.T) {
	app, screen, _ := newTestApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- app.Run(ctx)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run 没有响应取消")
	}

	for i := 0; i < 3; i++ {
		screen.InjectKey(tcell.KeyRight, 0, tcell.ModNone)
	}
	if !screen.HasPendingEvent() {
		t.Error("Run 返回后事件应留在终端队列中，不应被后台协程取走")
	}
}
