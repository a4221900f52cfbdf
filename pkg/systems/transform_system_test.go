package systems

import (
	"math"
	"testing"

	"github.com/gonewx/timeline/pkg/config"
)

const transformEpsilon = 1e-9

// TestComputeTransform_Boundaries 测试距离 0 和 ≥2 时的取值
func TestComputeTransform_Boundaries(t *testing.T) {
	cfg := config.DefaultTransformConfig()

	center := ComputeTransform(0, 1, cfg)
	if center.Scale != 2.0 || center.Opacity != 1 || center.RotateY != 0 || center.TranslateY != -18 {
		t.Errorf("unexpected transform at distance 0: %+v", center)
	}
	if !center.Active {
		t.Error("centered slot should be active")
	}

	for _, d := range []float64{2, 2.5, 7, 40} {
		far := ComputeTransform(d, -1, cfg)
		if math.Abs(far.Scale-0.65) > transformEpsilon || math.Abs(far.Opacity-0.35) > transformEpsilon {
			t.Errorf("distance %v: expected scale 0.65 opacity 0.35, got %v %v", d, far.Scale, far.Opacity)
		}
		if far.TranslateY != 0 {
			t.Errorf("distance %v: expected no lift, got %v", d, far.TranslateY)
		}
		if far.RotateY != -16 {
			t.Errorf("distance %v: expected rotateY -16, got %v", d, far.RotateY)
		}
	}
}

// TestComputeTransform_Monotonic 距离增大时缩放和透明度不增，旋转幅度不减
func TestComputeTransform_Monotonic(t *testing.T) {
	cfg := config.DefaultTransformConfig()

	prev := ComputeTransform(0, 1, cfg)
	for i := 1; i <= 200; i++ {
		d := float64(i) * 0.01
		cur := ComputeTransform(d, 1, cfg)

		if cur.Scale > prev.Scale+transformEpsilon {
			t.Fatalf("scale increased at d=%v: %v -> %v", d, prev.Scale, cur.Scale)
		}
		if cur.Opacity > prev.Opacity+transformEpsilon {
			t.Fatalf("opacity increased at d=%v: %v -> %v", d, prev.Opacity, cur.Opacity)
		}
		if math.Abs(cur.RotateY) < math.Abs(prev.RotateY)-transformEpsilon {
			t.Fatalf("|rotateY| decreased at d=%v: %v -> %v", d, prev.RotateY, cur.RotateY)
		}
		if cur.TranslateY < prev.TranslateY-transformEpsilon {
			t.Fatalf("lift increased at d=%v: %v -> %v", d, prev.TranslateY, cur.TranslateY)
		}
		prev = cur
	}
}

// TestComputeTransform_ActiveBoundary 测试居中标志的边界
func TestComputeTransform_ActiveBoundary(t *testing.T) {
	cfg := config.DefaultTransformConfig()

	tests := []struct {
		name     string
		distance float64
		expected bool
	}{
		{"正中", 0, true},
		{"边界内", 0.44, true},
		{"恰好边界", 0.45, false},
		{"边界外", 0.46, false},
		{"相邻槽位", 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeTransform(tt.distance, 1, cfg).Active; got != tt.expected {
				t.Errorf("Active at %v = %v, 期望 %v", tt.distance, got, tt.expected)
			}
		})
	}
}

// TestComputeTransform_Side 左侧卡片向右转，右侧卡片向左转
func TestComputeTransform_Side(t *testing.T) {
	cfg := config.DefaultTransformConfig()

	left := ComputeTransform(0.75, 1, cfg)
	right := ComputeTransform(0.75, -1, cfg)
	if left.RotateY != 8 || right.RotateY != -8 {
		t.Errorf("expected ±8 degrees at 0.75 slots, got %v and %v", left.RotateY, right.RotateY)
	}
	if left.Scale != right.Scale || left.Opacity != right.Opacity {
		t.Error("scale and opacity should not depend on side")
	}
	// 负距离按绝对值处理
	if ComputeTransform(-0.75, 1, cfg) != left {
		t.Error("negative distance should behave like its absolute value")
	}
}

// TestProject 测试四角投影
func TestProject(t *testing.T) {
	cfg := config.DefaultTransformConfig()

	t.Run("无旋转时等比缩放并上抬", func(t *testing.T) {
		tr := ComputeTransform(0, 1, cfg)
		q := Project(100, 200, tr, cfg.PerspectivePx)
		want := [4]Point{{-100, -218}, {100, -218}, {100, 182}, {-100, 182}}
		for i := range q {
			if math.Abs(q[i].X-want[i].X) > 1e-6 || math.Abs(q[i].Y-want[i].Y) > 1e-6 {
				t.Errorf("corner %d: got %+v, want %+v", i, q[i], want[i])
			}
		}
	})

	t.Run("旋转后远边变小", func(t *testing.T) {
		// 左侧卡片（side=+1）绕 Y 轴正向旋转，靠近中心的右边缘远离观察者
		tr := ComputeTransform(1.5, 1, cfg)
		q := Project(100, 200, tr, cfg.PerspectivePx)
		leftEdge := q[3].Y - q[0].Y
		rightEdge := q[2].Y - q[1].Y
		if rightEdge >= leftEdge {
			t.Errorf("expected right edge shorter than left edge, got %v >= %v", rightEdge, leftEdge)
		}
		if q[1].X-q[0].X >= 100*tr.Scale {
			t.Error("rotated card should look narrower than its scaled width")
		}
	})
}

// TestPointInQuad 测试凸四边形命中
func TestPointInQuad(t *testing.T) {
	q := [4]Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}

	tests := []struct {
		name     string
		x, y     float64
		expected bool
	}{
		{"中心", 5, 5, true},
		{"边上", 10, 5, true},
		{"左侧外", -1, 5, false},
		{"下方外", 5, 11, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointInQuad(tt.x, tt.y, q); got != tt.expected {
				t.Errorf("PointInQuad(%v, %v) = %v, 期望 %v", tt.x, tt.y, got, tt.expected)
			}
		})
	}
}

// TestTransformSystem_Update 居中卡片激活且在绘制顺序最后
func TestTransformSystem_Update(t *testing.T) {
	f := newTimelineFixture(t)
	f.start(t)
	f.transforms.Update(f.controller.Offset())

	centerSlot, _ := f.track.FindCanonical(1)
	active, ok := f.transforms.ActiveSlot()
	if !ok || active != centerSlot {
		t.Fatalf("expected active slot %d, got %d (ok=%v)", centerSlot, active, ok)
	}

	order := f.transforms.DrawOrder()
	if len(order) != f.track.Len() {
		t.Fatalf("draw order should contain every slot, got %d", len(order))
	}
	if order[len(order)-1] != centerSlot {
		t.Errorf("centered slot should be drawn last")
	}

	tr, _ := f.transforms.Transform(centerSlot)
	if tr.Scale != 2.0 || tr.DistanceInSlots != 0 {
		t.Errorf("unexpected centered transform: %+v", tr)
	}

	// 相邻槽位：左侧 side=+1，右侧 side=-1
	leftSlot, _ := f.track.SlotAt(13)
	rightSlot, _ := f.track.SlotAt(15)
	left, _ := f.transforms.Transform(leftSlot)
	right, _ := f.transforms.Transform(rightSlot)
	if left.Side != 1 || right.Side != -1 {
		t.Errorf("expected sides +1/-1, got %v/%v", left.Side, right.Side)
	}
	if math.Abs(left.DistanceInSlots-1) > 1e-9 || math.Abs(right.DistanceInSlots-1) > 1e-9 {
		t.Errorf("neighbours should be one slot away, got %v and %v", left.DistanceInSlots, right.DistanceInSlots)
	}

	// 远处先画
	first, _ := f.transforms.Transform(order[0])
	if first.DistanceInSlots < left.DistanceInSlots {
		t.Error("draw order should start with the farthest slot")
	}
}

// TestTransformSystem_HitTest 测试视口坐标命中
func TestTransformSystem_HitTest(t *testing.T) {
	f := newTimelineFixture(t)
	f.start(t)
	offset := f.controller.Offset()
	f.transforms.Update(offset)

	centerSlot, _ := f.track.FindCanonical(1)
	rightSlot, _ := f.track.SlotAt(15)

	tests := []struct {
		name   string
		x, y   float64
		want   uint64
		wantOK bool
	}{
		{"视口中心", 640, 360, uint64(centerSlot), true},
		{"放大后的居中卡片覆盖相邻槽位", 640 + 150, 360, uint64(centerSlot), true},
		{"右侧相邻卡片", 640 + testStep + 40, 360, uint64(rightSlot), true},
		{"卡片上方空白", 640, 5, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := f.transforms.HitTest(tt.x, tt.y, offset)
			if ok != tt.wantOK {
				t.Fatalf("HitTest(%v, %v) ok = %v, 期望 %v", tt.x, tt.y, ok, tt.wantOK)
			}
			if ok && uint64(id) != tt.want {
				t.Errorf("HitTest(%v, %v) = %d, 期望 %d", tt.x, tt.y, id, tt.want)
			}
		})
	}
}
