package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/timeline/pkg/cards"
)

// TimelineFactory 创建时间轴场景（每次返回时间轴都是一次新的"页面加载"）
type TimelineFactory func() Scene

// DetailFactory 创建卡片详情场景，避免循环依赖
type DetailFactory func(destination string, card cards.Card) Scene

// SceneManager manages the application's high-level state by controlling which scene is active.
// It ensures only one scene's Update and Draw methods are called at any given time.
//
// SceneManager 同时实现 navigation.Navigator：时间轴点击居中卡片时切换到详情场景。
type SceneManager struct {
	currentScene    Scene
	timelineFactory TimelineFactory
	detailFactory   DetailFactory

	width, height int
}

// NewSceneManager creates and returns a new SceneManager instance.
// The manager starts with no active scene; use SwitchTo to set the initial scene.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetTimelineFactory 设置时间轴场景工厂
func (sm *SceneManager) SetTimelineFactory(factory TimelineFactory) {
	sm.timelineFactory = factory
}

// SetDetailFactory 设置详情场景工厂
func (sm *SceneManager) SetDetailFactory(factory DetailFactory) {
	sm.detailFactory = factory
}

// SwitchTo changes the active scene to the provided scene.
// 旧场景如果实现了 Saveable，会先保存状态（页面卸载）。
func (sm *SceneManager) SwitchTo(scene Scene) {
	if sm.currentScene != nil && sm.currentScene != scene {
		if saveable, ok := sm.currentScene.(Saveable); ok {
			if !saveable.SaveOnExit() {
				log.Printf("[SceneManager] Warning: outgoing scene failed to save its state")
			}
		}
	}
	sm.currentScene = scene

	if resizable, ok := scene.(Resizable); ok && sm.width > 0 && sm.height > 0 {
		resizable.Resize(sm.width, sm.height)
	}
}

// GetCurrentScene 返回当前活动的场景
//
// 返回：
//   - Scene: 当前场景，如果没有活动场景则返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// Navigate 打开卡片详情页
func (sm *SceneManager) Navigate(destination string, card cards.Card) {
	log.Printf("[SceneManager] 打开详情页: %s", destination)

	if sm.detailFactory == nil {
		log.Printf("[SceneManager] 错误: DetailFactory 未设置")
		return
	}

	newScene := sm.detailFactory(destination, card)
	if newScene == nil {
		log.Printf("[SceneManager] 错误: 无法创建详情场景: %s", destination)
		return
	}
	sm.SwitchTo(newScene)
}

// ShowTimeline 返回时间轴（重新创建场景，恢复保存的滚动位置）
func (sm *SceneManager) ShowTimeline() {
	if sm.timelineFactory == nil {
		log.Printf("[SceneManager] 错误: TimelineFactory 未设置")
		return
	}

	newScene := sm.timelineFactory()
	if newScene == nil {
		log.Printf("[SceneManager] 错误: 无法创建时间轴场景")
		return
	}
	sm.SwitchTo(newScene)
	log.Printf("[SceneManager] 返回时间轴")
}

// SaveOnExit 保存当前场景的状态（窗口关闭时调用）
func (sm *SceneManager) SaveOnExit() bool {
	if saveable, ok := sm.currentScene.(Saveable); ok {
		return saveable.SaveOnExit()
	}
	return true
}

// Resize 记录逻辑屏幕尺寸并转发给当前场景
func (sm *SceneManager) Resize(width, height int) {
	sm.width, sm.height = width, height
	if resizable, ok := sm.currentScene.(Resizable); ok {
		resizable.Resize(width, height)
	}
}

// Update updates the currently active scene.
// If no scene is active, this method does nothing.
// deltaTime is the time elapsed since the last update in seconds.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the currently active scene to the provided screen.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
