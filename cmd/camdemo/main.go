// Interactive showcase for the virtual camera subsystem: a dungeon map, a
// player, a patrolling ghost and two camera rigs to switch between
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/nlaroche/ascii-dungeon-sub002/camera"
	"github.com/nlaroche/ascii-dungeon-sub002/config"
	"github.com/nlaroche/ascii-dungeon-sub002/core"
	"github.com/nlaroche/ascii-dungeon-sub002/event"
)

var (
	rigsFlag = flag.String("rigs", "", "Path to a YAML rig profile (built-in rigs when empty)")
	fpsFlag  = flag.Int("fps", 60, "Simulation rate")
)

const (
	playerEntity core.Entity = 1
	ghostEntity  core.Entity = 2
	anchorEntity core.Entity = 3
)

var dungeon = []string{
	"########################################################################",
	"#......................#...............#..............................#",
	"#..####................#...####........#......######..................#",
	"#..#..#................#...#..#........#......#....#..................#",
	"#..#..#####............#...#..#####....#......#....########...........#",
	"#..#......#............#...#......#....#......#...........#...........#",
	"#..########............#...########....#......#############...........#",
	"#.......................................#.............................#",
	"#.......................................#.............................#",
	"#..........######################.......##########.....###############",
	"#..........#....................#................#.....#..............#",
	"#..........#....................#................#.....#..............#",
	"#...........#..................#.................#.....#..............#",
	"#...........####################.................#######...............#",
	"#......................................................................#",
	"#......................................................................#",
	"########################################################################",
}

type world struct {
	playerX, playerY float64
	ghostX, ghostY   float64
	ghostPhase       float64
}

func (w *world) resolve(e core.Entity) (float64, float64, bool) {
	switch e {
	case playerEntity:
		return w.playerX, w.playerY, true
	case ghostEntity:
		return w.ghostX, w.ghostY, true
	case anchorEntity:
		return float64(len(dungeon[0])) / 2, float64(len(dungeon)) / 2, true
	}
	return 0, 0, false
}

func (w *world) walkable(x, y float64) bool {
	row := int(math.Round(y))
	col := int(math.Round(x))
	if row < 0 || row >= len(dungeon) || col < 0 || col >= len(dungeon[row]) {
		return false
	}
	return dungeon[row][col] != '#'
}

func main() {
	// Panic recovery: restore the terminal before reporting
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\ncamdemo crashed: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	flag.Parse()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	w := &world{playerX: 4, playerY: 2, ghostX: 40, ghostY: 8}

	brain := camera.NewBrain()
	brain.SetResolver(w.resolve)
	sw, sh := screen.Size()
	brain.SetViewportSize(float64(sw), float64(sh-1)) // Bottom row is the status line
	brain.SetPanicHandler(func(owner core.Entity, behavior string, recovered any) {
		fmt.Fprintf(os.Stderr, "behavior %s (owner %d) panicked: %v\n", behavior, owner, recovered)
	})

	if err := loadRigs(brain, w); err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	var watcher *config.Watcher
	if *rigsFlag != "" {
		// Hot reload: re-apply the profile when the file changes
		wt, err := config.NewWatcher(filepath.Dir(*rigsFlag))
		if err == nil {
			watcher = wt
			defer watcher.Close()
		}
	}

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	frame := time.Second / time.Duration(*fpsFlag)
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	status := "hjkl move  1/2 switch cams  s shake  b letterbox  q quit"
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				sw, sh = screen.Size()
				brain.SetViewportSize(float64(sw), float64(sh-1))
				screen.Sync()
			case *tcell.EventKey:
				if !handleKey(ev, brain, w) {
					return
				}
			}
		case path := <-watcherEvents(watcher):
			if err := loadRigs(brain, w); err == nil {
				status = "reloaded " + path
			}
		case now := <-ticker.C:
			w.step(1.0 / float64(*fpsFlag))
			out := brain.Update(now)
			status = drainEvents(brain, status)
			draw(screen, brain, w, out, status)
		}
	}
}

// watcherEvents returns a nil channel (never ready) when hot reload is off
func watcherEvents(w *config.Watcher) <-chan string {
	if w == nil {
		return nil
	}
	return w.Events
}

func (w *world) step(dt float64) {
	// Ghost patrols a slow figure-eight around its spawn
	w.ghostPhase += dt * 0.8
	gx := 40 + 12*math.Sin(w.ghostPhase)
	gy := 8 + 3*math.Sin(2*w.ghostPhase)
	if w.walkable(gx, gy) {
		w.ghostX, w.ghostY = gx, gy
	}
}

func handleKey(ev *tcell.EventKey, brain *camera.Brain, w *world) bool {
	dx, dy := 0.0, 0.0
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		dx = -1
	case tcell.KeyRight:
		dx = 1
	case tcell.KeyUp:
		dy = -1
	case tcell.KeyDown:
		dy = 1
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'h':
			dx = -1
		case 'l':
			dx = 1
		case 'b':
			if lb, ok := brain.Letterbox(anchorEntity); ok {
				lb.Toggle()
			}
		case 'j':
			dy = 1
		case 'k':
			dy = -1
		case '1':
			brain.SwitchToCamera(playerEntity, false)
		case '2':
			brain.SwitchToCamera(anchorEntity, false)
		case 's':
			if sh, ok := brain.Shake(playerEntity); ok {
				sh.AddTrauma(0.6)
			}
		}
	}

	if dx != 0 || dy != 0 {
		nx, ny := w.playerX+dx, w.playerY+dy
		if w.walkable(nx, ny) {
			w.playerX, w.playerY = nx, ny
		}
	}
	return true
}

// loadRigs applies the profile from -rigs, or the built-in pair: a follow
// rig on the player and a fixed overview on the map anchor
func loadRigs(brain *camera.Brain, w *world) error {
	targets := func(name string) core.Entity {
		switch name {
		case "player":
			return playerEntity
		case "ghost":
			return ghostEntity
		case "anchor":
			return anchorEntity
		}
		return core.NoEntity
	}

	if *rigsFlag != "" {
		f, err := config.Load(*rigsFlag)
		if err != nil {
			return err
		}
		brain.Reset()
		brain.SetResolver(w.resolve)
		for i := range f.Rigs {
			owner := targets(f.Rigs[i].Name)
			if !owner.Valid() {
				owner = anchorEntity
			}
			f.Rigs[i].Apply(brain, owner, targets)
		}
		return nil
	}

	follow := camera.NewVirtualCamera()
	follow.BlendTime = 0.6
	follow.BlendCurve = camera.BlendEaseInOut
	brain.AddCamera(playerEntity, follow)
	follow.SetPriority(20)
	follow.Activate()

	tr := camera.NewTransposer(playerEntity)
	tr.DampingX = 0.5
	tr.DampingY = 0.5
	brain.AddTransposer(playerEntity, tr)

	cp := camera.NewComposer(playerEntity)
	cp.LookaheadTime = 0.2
	brain.AddComposer(playerEntity, cp)

	cf := camera.NewConfiner(0, 0, float64(len(dungeon[0])), float64(len(dungeon)))
	brain.AddConfiner(playerEntity, cf)

	brain.AddShake(playerEntity, camera.NewShake(17))

	overview := camera.NewVirtualCamera()
	overview.BlendTime = 0.8
	overview.BlendCurve = camera.BlendEaseOut
	brain.AddCamera(anchorEntity, overview)
	overview.SetPriority(5)
	overview.Activate()

	brain.AddLetterbox(anchorEntity, camera.NewLetterbox())
	return nil
}

func drainEvents(brain *camera.Brain, status string) string {
	for _, ev := range brain.Events().Consume() {
		switch ev.Type {
		case event.EventCameraActivated:
			if p, ok := ev.Payload.(*event.CameraLivePayload); ok {
				status = fmt.Sprintf("camera %d live", p.Owner)
			}
		case event.EventBlendComplete:
			status = "blend complete"
		case event.EventShakeEnded:
			status = "shake ended"
		case event.EventLetterboxShown:
			status = "letterbox shown"
		case event.EventLetterboxHidden:
			status = "letterbox hidden"
		}
	}
	return status
}

func draw(screen tcell.Screen, brain *camera.Brain, w *world, out camera.Output, status string) {
	screen.Clear()
	sw, sh := screen.Size()
	viewH := sh - 1

	wallStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	floorStyle := tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray)
	playerStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	ghostStyle := tcell.StyleDefault.Foreground(tcell.ColorAqua)

	// World cell at the camera center maps to the viewport center
	originX := out.X - float64(sw)/2
	originY := out.Y - float64(viewH)/2

	for sy := 0; sy < viewH; sy++ {
		for sx := 0; sx < sw; sx++ {
			wx := int(math.Round(originX)) + sx
			wy := int(math.Round(originY)) + sy
			if wy < 0 || wy >= len(dungeon) || wx < 0 || wx >= len(dungeon[wy]) {
				continue
			}
			ch := rune(dungeon[wy][wx])
			style := floorStyle
			if ch == '#' {
				style = wallStyle
			}
			screen.SetContent(sx, sy, ch, nil, style)
		}
	}

	drawEntity(screen, originX, originY, w.playerX, w.playerY, '@', playerStyle, sw, viewH)
	drawEntity(screen, originX, originY, w.ghostX, w.ghostY, 'G', ghostStyle, sw, viewH)

	// Letterbox bars overdraw the scene
	if lb, ok := brain.Letterbox(anchorEntity); ok {
		bar := int(math.Round(lb.BarHeight(float64(sw), float64(viewH))))
		barStyle := tcell.StyleDefault.Background(lb.BarColor)
		for y := 0; y < bar; y++ {
			for x := 0; x < sw; x++ {
				screen.SetContent(x, y, ' ', nil, barStyle)
				screen.SetContent(x, viewH-1-y, ' ', nil, barStyle)
			}
		}
	}

	line := fmt.Sprintf(" live=%d blend=%.2f  %s", brain.LiveCamera(), brain.BlendProgress(), status)
	statusStyle := tcell.StyleDefault.Reverse(true)
	for x := 0; x < sw; x++ {
		ch := ' '
		if x < len(line) {
			ch = rune(line[x])
		}
		screen.SetContent(x, sh-1, ch, nil, statusStyle)
	}

	screen.Show()
}

func drawEntity(screen tcell.Screen, originX, originY, wx, wy float64, ch rune, style tcell.Style, sw, viewH int) {
	sx := int(math.Round(wx - originX))
	sy := int(math.Round(wy - originY))
	if sx >= 0 && sx < sw && sy >= 0 && sy < viewH {
		screen.SetContent(sx, sy, ch, nil, style)
	}
}
