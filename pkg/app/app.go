// Package app 提供时间轴应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gonewx/timeline/pkg/cards"
	"github.com/gonewx/timeline/pkg/carousel"
	"github.com/gonewx/timeline/pkg/config"
	"github.com/gonewx/timeline/pkg/game"
	"github.com/gonewx/timeline/pkg/scenes"
	"github.com/gonewx/timeline/pkg/session"
	"github.com/gonewx/timeline/pkg/systems"
	"github.com/gonewx/timeline/pkg/utils"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 轮播配置文件，为空时使用嵌入的 data/timeline.yaml
	ConfigPath string
	// CardsPath 卡片清单，为空时使用嵌入的 data/cards.yaml
	CardsPath string
	// Fresh 丢弃上次保存的滚动位置（相当于全新访问）
	Fresh bool
}

// App 是时间轴应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager    *game.SceneManager
	settingsManager *game.SettingsManager
	config          *config.CarouselConfig
	verbose         bool
	closed          bool
}

// NewApp 创建并初始化应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	carouselConfig, err := carousel.LoadConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("配置加载失败: %w", err)
	}

	list, err := carousel.LoadCards(context.Background(), cfg.CardsPath)
	if err != nil {
		return nil, fmt.Errorf("卡片加载失败: %w", err)
	}
	log.Printf("[App] 加载 %d 张卡片", len(list))

	// 窗口偏好与滚动位置共用 gdata 应用目录，打开失败时只在内存中生效
	gdataManager, err := session.OpenGdataManager(carouselConfig.Persistence.AppName)
	if err != nil {
		log.Printf("[App] Warning: %v, window settings will not persist", err)
	}
	settingsManager := game.NewSettingsManager(gdataManager)

	store := carousel.OpenStore(carouselConfig.Persistence)
	if cfg.Fresh {
		if _, ok := store.Take(); ok {
			log.Printf("[App] Fresh start: discarded saved scroll position")
		}
	}

	measurer := systems.PixelMeasurer{DeviceScale: ebiten.Monitor().DeviceScaleFactor()}

	// 创建场景管理器
	sceneManager := game.NewSceneManager()
	sceneManager.SetTimelineFactory(func() game.Scene {
		return scenes.NewTimelineScene(sceneManager, scenes.TimelineOptions{
			Config:   carouselConfig,
			Cards:    list,
			Store:    store,
			Measurer: measurer,
		})
	})
	sceneManager.SetDetailFactory(func(destination string, card cards.Card) game.Scene {
		return scenes.NewDetailScene(sceneManager, destination, card, carouselConfig.ShareBaseURL, nil)
	})
	sceneManager.ShowTimeline()

	return &App{
		sceneManager:    sceneManager,
		settingsManager: settingsManager,
		config:          carouselConfig,
		verbose:         cfg.Verbose,
	}, nil
}

// Update 更新应用逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 关闭窗口相当于页面卸载：保存滚动位置后退出
	if ebiten.IsWindowBeingClosed() {
		a.Close()
		return ebiten.Termination
	}

	// F11 切换全屏，并记住选择
	if !utils.IsMobile() && inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		fullscreen := !ebiten.IsFullscreen()
		ebiten.SetFullscreen(fullscreen)
		a.settingsManager.SetFullscreen(fullscreen)
		if err := a.settingsManager.Save(); err != nil {
			log.Printf("[App] Warning: %v", err)
		}
	}

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.sceneManager.Update(deltaTime)
	return nil
}

// Close 保存当前场景状态（只执行一次）
func (a *App) Close() {
	if a.closed {
		return
	}
	a.closed = true
	if !a.sceneManager.SaveOnExit() {
		log.Printf("[App] Warning: failed to save state on exit")
	}

	if !ebiten.IsFullscreen() {
		a.settingsManager.SetWindowSize(ebiten.WindowSize())
	}
	if err := a.settingsManager.Save(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
}

// ApplyWindowSettings 设置窗口尺寸、标题和全屏状态
// 优先使用上次关闭时记录的尺寸
func (a *App) ApplyWindowSettings() {
	window := a.config.Window
	width, height := window.Width, window.Height
	settings := a.settingsManager.GetSettings()
	if settings.HasWindowSize() {
		width, height = settings.Width, settings.Height
	}

	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(settings.Fullscreen)
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 逻辑屏幕尺寸跟随窗口尺寸，轮播按新尺寸重新布局
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	a.sceneManager.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Config 返回轮播配置（用于设置窗口）
func (a *App) Config() *config.CarouselConfig {
	return a.config
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
