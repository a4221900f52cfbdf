// Package main provides a headless verification tool for the timeline carousel.
//
// The tool lays the carousel out at the requested viewport size, lets it settle,
// optionally applies wheel/drag input, and prints the layout metrics together with
// the transform of every slot near the viewport.
//
// Usage:
//
//	go run ./cmd/verify_timeline [flags]
//
// Flags:
//
//	--width <px>      Viewport width (default 1280)
//	--height <px>     Viewport height (default 720)
//	--scale <f>       Device scale factor used by the measurer (default 1)
//	--wheel <deltaY>  Wheel deltaY to apply after settling (browser convention)
//	--drag <px>       Horizontal drag distance to apply after settling
//	--resize <WxH>    Resize to this size after the input, e.g. 1920x1080
//	--all             Print every slot instead of only the visible ones
//	--verbose         Enable verbose logging
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"text/tabwriter"

	"github.com/gonewx/timeline/pkg/carousel"
	"github.com/gonewx/timeline/pkg/components"
	"github.com/gonewx/timeline/pkg/ecs"
	"github.com/gonewx/timeline/pkg/embedded"
	"github.com/gonewx/timeline/pkg/session"
	"github.com/gonewx/timeline/pkg/systems"
)

const frame = 1.0 / 60.0

var (
	widthFlag   = flag.Float64("width", 1280, "Viewport width in pixels")
	heightFlag  = flag.Float64("height", 720, "Viewport height in pixels")
	scaleFlag   = flag.Float64("scale", 1, "Device scale factor")
	wheelFlag   = flag.Float64("wheel", 0, "Wheel deltaY to apply after settling")
	dragFlag    = flag.Float64("drag", 0, "Horizontal drag distance to apply after settling")
	resizeFlag  = flag.String("resize", "", "Resize after the input, e.g. 1920x1080")
	allFlag     = flag.Bool("all", false, "Print every slot")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()
	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	embedded.Init(os.DirFS("."))
	cfg, err := carousel.LoadConfig("")
	if err != nil {
		// carousel.New 对 nil 配置使用默认值
		log.Printf("Warning: %v, using defaults", err)
	}
	list, err := carousel.LoadCards(context.Background(), "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load cards: %v\n", err)
		os.Exit(1)
	}

	c := carousel.New(carousel.Options{
		Config:   cfg,
		Cards:    list,
		Store:    session.NewMemoryStore(),
		Measurer: systems.PixelMeasurer{DeviceScale: *scaleFlag},
	})
	c.Resize(*widthFlag, *heightFlag)
	elapsed := c.Settle(frame, 10)
	fmt.Printf("Initial settle: %.2fs\n", elapsed)
	printState(c)

	if *wheelFlag != 0 {
		c.Input().Wheel(*wheelFlag)
		elapsed = c.Settle(frame, 10)
		fmt.Printf("\nAfter wheel %.1f (%.2fs):\n", *wheelFlag, elapsed)
		printState(c)
	}

	if *dragFlag != 0 {
		m := c.Metrics()
		x, y := m.ViewportWidth/2, m.ViewportHeight/2
		input := c.Input()
		input.PointerDown(x, y)
		input.PointerMove(x-*dragFlag/2, y)
		input.PointerMove(x-*dragFlag, y)
		input.PointerUp(x-*dragFlag, y)
		elapsed = c.Settle(frame, 10)
		fmt.Printf("\nAfter drag %.1f (%.2fs):\n", *dragFlag, elapsed)
		printState(c)
	}

	if *resizeFlag != "" {
		var w, h float64
		if _, err := fmt.Sscanf(*resizeFlag, "%fx%f", &w, &h); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid --resize %q: %v\n", *resizeFlag, err)
			os.Exit(1)
		}
		c.Resize(w, h)
		elapsed = c.Settle(frame, 10)
		fmt.Printf("\nAfter resize %.0fx%.0f (%.2fs):\n", w, h, elapsed)
		printState(c)
	}
}

// printState 打印布局结果和槽位视觉变换
func printState(c *carousel.Carousel) {
	m := c.Metrics()
	offset := c.Offset()
	step := m.SafeStep()

	fmt.Printf("Viewport %.0fx%.0f  slot %.0fx%.0f  gap %.0f  step %.0f  inset %.1f  track %.0f\n",
		m.ViewportWidth, m.ViewportHeight, m.SlotWidth, m.SlotHeight, m.Gap, m.Step, m.Inset, m.TrackWidth)
	fmt.Printf("Offset %.2f (%.3f steps)  centered logical %d\n", offset, offset/step, c.CenteredLogicalIndex())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "phys\tlogical\tregion\tdist\tscale\topacity\trotY\tliftY\tactive\ttitle\t")

	em := c.EntityManager()
	for _, id := range c.Track().Slots() {
		slot, ok := ecs.GetComponent[*components.SlotComponent](em, id)
		if !ok {
			continue
		}
		tr, ok := c.Transforms().Transform(id)
		if !ok {
			continue
		}
		if !*allFlag && tr.DistanceInSlots > 4 {
			continue
		}
		card, _ := c.Track().Card(id)
		active := ""
		if tr.Active {
			active = "*"
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%.2f\t%.3f\t%.3f\t%.2f\t%.2f\t%s\t%s\t\n",
			slot.PhysicalIndex, slot.LogicalIndex, slot.Region, tr.DistanceInSlots,
			tr.Scale, tr.Opacity, tr.RotateY, math.Abs(tr.TranslateY), active, card.Title)
	}
	w.Flush()
}
