package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/timeline/pkg/app"
	"github.com/gonewx/timeline/pkg/embedded"
)

func main() {
	verbose := flag.Bool("verbose", false, "启用详细日志输出")
	configPath := flag.String("config", "", "轮播配置文件（默认使用内置 data/timeline.yaml）")
	cardsPath := flag.String("cards", "", "卡片清单（默认使用内置 data/cards.yaml）")
	fresh := flag.Bool("fresh", false, "忽略上次保存的滚动位置")
	flag.Parse()

	// 初始化嵌入资源（dataFS 在 embed.go 中声明）
	embedded.Init(dataFS)

	timelineApp, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		ConfigPath: *configPath,
		CardsPath:  *cardsPath,
		Fresh:      *fresh,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化失败: %v\n", err)
		os.Exit(1)
	}

	timelineApp.ApplyWindowSettings()
	// 关闭窗口时先保存滚动位置（App.Update 处理）
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(timelineApp); err != nil {
		log.Fatal(err)
	}
}
