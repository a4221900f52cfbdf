// Package main 终端版时间轴
//
// Usage:
//
//	go run ./cmd/timeline_tui [flags]
//
// Flags:
//
//	--config <path>   轮播配置文件（默认 data/timeline.yaml，缺失时使用内置默认值）
//	--cards <path>    卡片清单（默认 data/cards.yaml，缺失时使用占位卡片）
//	--fresh           忽略上次保存的滚动位置
//	--log <path>      详细日志输出文件（终端被占用，日志不能写到 stderr）
//
// Controls:
//
//	拖拽 / 滚轮 / ←→   滚动
//	单击 / Enter        打开居中卡片，单击侧边卡片使其居中
//	Esc                 关闭详情（时间轴上为退出）
//	q / Ctrl-C          退出
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/gonewx/timeline/pkg/carousel"
	"github.com/gonewx/timeline/pkg/config"
	"github.com/gonewx/timeline/pkg/embedded"
	"github.com/gonewx/timeline/pkg/tui"
)

var (
	configFlag = flag.String("config", "", "Carousel config file (default data/timeline.yaml)")
	cardsFlag  = flag.String("cards", "", "Card manifest (default data/cards.yaml)")
	freshFlag  = flag.Bool("fresh", false, "Discard the saved scroll position")
	logFlag    = flag.String("log", "", "Write verbose logs to this file")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "timeline_tui: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if *logFlag != "" {
		f, err := os.OpenFile(*logFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	// 从当前目录读取 data/
	embedded.Init(os.DirFS("."))

	cfg, err := carousel.LoadConfig(*configFlag)
	if err != nil {
		log.Printf("[TUI] Warning: %v, using defaults", err)
		cfg = config.DefaultCarouselConfig()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	list, err := carousel.LoadCards(ctx, *cardsFlag)
	if err != nil {
		return err
	}

	store := carousel.OpenStore(cfg.Persistence)
	if *freshFlag {
		store.Take()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()

	app := tui.New(screen, tui.Options{
		Config: cfg,
		Cards:  list,
		Store:  store,
	})
	if err := app.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
