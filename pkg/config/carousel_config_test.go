package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestDefaultCarouselConfig 默认配置必须与网页版时间轴的参数一致
func TestDefaultCarouselConfig(t *testing.T) {
	cfg := DefaultCarouselConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.Layout.VisibleCount != 7 || cfg.Layout.CardTotal != 14 {
		t.Errorf("expected 7 visible of 14 cards, got %d of %d", cfg.Layout.VisibleCount, cfg.Layout.CardTotal)
	}
	if cfg.Layout.AspectRatio != 1.35 {
		t.Errorf("expected aspect ratio 1.35, got %v", cfg.Layout.AspectRatio)
	}

	tr := cfg.Transform
	if tr.ScaleMax != 2.0 || tr.ScaleMin != 0.65 || tr.OpacityMin != 0.35 {
		t.Errorf("unexpected scale/opacity defaults: %+v", tr)
	}
	if tr.RotateMaxDeg != 16 || tr.LiftPx != 18 || tr.ActiveThreshold != 0.45 {
		t.Errorf("unexpected rotate/lift/active defaults: %+v", tr)
	}

	if cfg.Timing.DragSnapDelay != 0.12 || cfg.Timing.ScrollSnapDelay != 0.2 || cfg.Timing.LoopResetDelay != 0.4 {
		t.Errorf("unexpected timing defaults: %+v", cfg.Timing)
	}
	if cfg.Persistence.Backend != "memory" {
		t.Errorf("expected memory backend by default, got %q", cfg.Persistence.Backend)
	}
}

// TestParseCarouselConfig 测试 YAML 解析：缺省字段保留默认值
func TestParseCarouselConfig(t *testing.T) {
	data := []byte(`
layout:
  gapPx: 12
timing:
  dragSnapDelay: 0.3
persistence:
  backend: gdata
  sessionTTL: 10m
  resume: true
window:
  title: Test
`)

	cfg, err := ParseCarouselConfig(data)
	if err != nil {
		t.Fatalf("ParseCarouselConfig failed: %v", err)
	}

	if cfg.Layout.GapPx != 12 {
		t.Errorf("expected gap 12, got %v", cfg.Layout.GapPx)
	}
	if cfg.Layout.VisibleCount != DefaultVisibleCount {
		t.Errorf("visible count should keep its default, got %d", cfg.Layout.VisibleCount)
	}
	if cfg.Timing.DragSnapDelay != 0.3 {
		t.Errorf("expected drag snap delay 0.3, got %v", cfg.Timing.DragSnapDelay)
	}
	if cfg.Timing.ScrollSnapDelay != 0.2 {
		t.Errorf("scroll snap delay should keep its default, got %v", cfg.Timing.ScrollSnapDelay)
	}
	if !cfg.Persistence.Resume {
		t.Error("expected resume enabled")
	}
	if cfg.Persistence.SessionTTL != 10*time.Minute {
		t.Errorf("expected TTL 10m, got %v", cfg.Persistence.SessionTTL)
	}
	if cfg.Window.Title != "Test" {
		t.Errorf("expected title Test, got %q", cfg.Window.Title)
	}
}

// TestParseCarouselConfigErrors 测试非法配置
func TestParseCarouselConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"语法错误", "layout: [", "failed to parse"},
		{"可见数量为0", "layout:\n  visible: 0\n", "layout.visible"},
		{"卡片总数为负", "layout:\n  total: -1\n", "layout.total"},
		{"负间距", "layout:\n  gapPx: -4\n", "layout.gapPx"},
		{"衰减范围为0", "transform:\n  falloffSlots: 0\n", "transform"},
		{"未知存储后端", "persistence:\n  backend: redis\n", "unknown persistence backend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCarouselConfig([]byte(tt.yaml))
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestLoadCarouselConfigFromData 加载仓库自带的配置文件
func TestLoadCarouselConfigFromData(t *testing.T) {
	path := filepath.Join("..", "..", "data", "timeline.yaml")
	if _, err := os.Stat(path); err != nil {
		t.Skipf("config file not found: %v", err)
	}

	cfg, err := LoadCarouselConfig(path)
	if err != nil {
		t.Fatalf("LoadCarouselConfig failed: %v", err)
	}
	if cfg.Persistence.Backend != "memory" || cfg.Persistence.Resume {
		t.Errorf("shipped config must not restore across launches: %+v", cfg.Persistence)
	}
	if cfg.Persistence.SessionTTL != 30*time.Minute {
		t.Errorf("expected 30m TTL, got %v", cfg.Persistence.SessionTTL)
	}
	if cfg.Transform != DefaultTransformConfig() {
		t.Errorf("shipped transform config should match defaults: %+v", cfg.Transform)
	}
}

// TestLoadCarouselConfigMissingFile 文件不存在时返回包装后的错误
func TestLoadCarouselConfigMissingFile(t *testing.T) {
	_, err := LoadCarouselConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped not-exist error, got %v", err)
	}
}
