package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents one "page" of the application (the timeline strip, a card detail page).
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	// screen is the target image where the scene should be drawn.
	Draw(screen *ebiten.Image)
}

// Saveable 是一个可选接口，用于支持场景在退出时保存状态
//
// 实现此接口的场景会在以下时机被调用 SaveOnExit()：
//   - 切换到其他场景（相当于页面卸载）
//   - 窗口关闭
//   - 用户通过 OS 命令关闭程序
type Saveable interface {
	// SaveOnExit 在场景退出时保存状态
	// 返回 true 表示保存成功或无需保存
	// 返回 false 表示保存失败（但程序仍会正常退出）
	SaveOnExit() bool
}

// Resizable 是一个可选接口，场景需要知道屏幕尺寸时实现
//
// 窗口尺寸可变，SceneManager 在每次 Layout 时把逻辑屏幕尺寸转发给当前场景。
type Resizable interface {
	Resize(width, height int)
}
