package scenes

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// mockInput 用于测试的 mock 输入
type mockInput struct {
	mouseX, mouseY int
	mousePressed   bool
	touches        map[ebiten.TouchID][2]int
	wheelY         float64
	justPressed    map[ebiten.Key]bool
}

func newMockInput() *mockInput {
	return &mockInput{
		touches:     map[ebiten.TouchID][2]int{},
		justPressed: map[ebiten.Key]bool{},
	}
}

func (m *mockInput) CursorPosition() (int, int) {
	return m.mouseX, m.mouseY
}

func (m *mockInput) IsMouseButtonPressed(button ebiten.MouseButton) bool {
	return button == ebiten.MouseButtonLeft && m.mousePressed
}

func (m *mockInput) AppendTouchIDs(touches []ebiten.TouchID) []ebiten.TouchID {
	for id := range m.touches {
		touches = append(touches, id)
	}
	return touches
}

func (m *mockInput) TouchPosition(id ebiten.TouchID) (int, int) {
	p := m.touches[id]
	return p[0], p[1]
}

func (m *mockInput) Wheel() (float64, float64) {
	y := m.wheelY
	m.wheelY = 0
	return 0, y
}

func (m *mockInput) IsKeyJustPressed(key ebiten.Key) bool {
	pressed := m.justPressed[key]
	delete(m.justPressed, key)
	return pressed
}

func (m *mockInput) press(x, y int) {
	m.mouseX, m.mouseY = x, y
	m.mousePressed = true
}

func (m *mockInput) move(x, y int) {
	m.mouseX, m.mouseY = x, y
}

func (m *mockInput) release() {
	m.mousePressed = false
}

// pollKinds 轮询一帧并返回事件类型
func pollKinds(p *PointerTracker) []PointerEventKind {
	events, _ := p.Poll(800, 600)
	kinds := make([]PointerEventKind, len(events))
	for i, ev := range events {
		kinds[i] = ev.Kind
	}
	return kinds
}

func equalKinds(a, b []PointerEventKind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestPointerTracker_MouseGesture 测试鼠标按下、移动、释放
func TestPointerTracker_MouseGesture(t *testing.T) {
	input := newMockInput()
	p := NewPointerTracker(input, 100)

	steps := []struct {
		name   string
		action func()
		want   []PointerEventKind
	}{
		{"空闲", func() { input.move(10, 10) }, nil},
		{"按下", func() { input.press(100, 200) }, []PointerEventKind{PointerPressed}},
		{"原地不动", func() {}, nil},
		{"移动", func() { input.move(150, 200) }, []PointerEventKind{PointerMoved}},
		{"释放", func() { input.release() }, []PointerEventKind{PointerReleased}},
		{"释放后移动", func() { input.move(300, 300) }, nil},
	}

	for _, step := range steps {
		step.action()
		if got := pollKinds(p); !equalKinds(got, step.want) {
			t.Errorf("%s: got %v, want %v", step.name, got, step.want)
		}
	}
}

// TestPointerTracker_ReleasePosition 释放事件带有释放位置
func TestPointerTracker_ReleasePosition(t *testing.T) {
	input := newMockInput()
	p := NewPointerTracker(input, 100)

	input.press(100, 200)
	p.Poll(800, 600)
	input.move(120, 210)
	input.release()

	events, _ := p.Poll(800, 600)
	if len(events) != 1 || events[0].Kind != PointerReleased {
		t.Fatalf("expected one release, got %+v", events)
	}
	if events[0].X != 120 || events[0].Y != 210 {
		t.Errorf("expected release at (120, 210), got (%v, %v)", events[0].X, events[0].Y)
	}
}

// TestPointerTracker_LeaveWindow 按住拖出窗口产生 Leave，之后直到松开都被忽略
func TestPointerTracker_LeaveWindow(t *testing.T) {
	input := newMockInput()
	p := NewPointerTracker(input, 100)

	input.press(100, 100)
	pollKinds(p)

	input.move(-5, 100)
	if got := pollKinds(p); !equalKinds(got, []PointerEventKind{PointerLeft}) {
		t.Fatalf("expected leave, got %v", got)
	}
	if p.IsPressed() {
		t.Error("pointer should not be pressed after leaving")
	}

	input.move(100, 100)
	if got := pollKinds(p); len(got) != 0 {
		t.Errorf("events after leave should be ignored until release, got %v", got)
	}
	input.release()
	pollKinds(p)

	input.press(50, 50)
	if got := pollKinds(p); !equalKinds(got, []PointerEventKind{PointerPressed}) {
		t.Errorf("expected a new press after release, got %v", got)
	}
}

// TestPointerTracker_Touch 触摸释放时使用最后的触摸位置
func TestPointerTracker_Touch(t *testing.T) {
	input := newMockInput()
	p := NewPointerTracker(input, 100)

	input.touches[1] = [2]int{300, 300}
	if got := pollKinds(p); !equalKinds(got, []PointerEventKind{PointerPressed}) {
		t.Fatalf("expected press, got %v", got)
	}
	input.touches[1] = [2]int{250, 300}
	pollKinds(p)
	delete(input.touches, 1)

	events, _ := p.Poll(800, 600)
	if len(events) != 1 || events[0].Kind != PointerReleased {
		t.Fatalf("expected release, got %+v", events)
	}
	if events[0].X != 250 || events[0].Y != 300 {
		t.Errorf("expected release at last touch position, got (%v, %v)", events[0].X, events[0].Y)
	}
}

// TestPointerTracker_Wheel 滚轮向下一格换算为 deltaY = +100
func TestPointerTracker_Wheel(t *testing.T) {
	input := newMockInput()
	p := NewPointerTracker(input, 100)

	input.wheelY = -1
	if _, dy := p.Poll(800, 600); dy != 100 {
		t.Errorf("expected deltaY 100 for one notch down, got %v", dy)
	}
	input.wheelY = 0.5
	if _, dy := p.Poll(800, 600); dy != -50 {
		t.Errorf("expected deltaY -50 for half a notch up, got %v", dy)
	}
}
