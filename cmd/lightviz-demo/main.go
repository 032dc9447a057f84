package main

import (
	"errors"
	"flag"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"runtime"

	"github.com/gekko3d/lightviz"
	"github.com/gekko3d/lightviz/assets"
	"github.com/gekko3d/lightviz/render/app"
	"github.com/gekko3d/lightviz/scene"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

func init() {
	runtime.LockOSThread()
}

var icons = []struct {
	icon  lightviz.Icon
	color color.RGBA
}{
	{lightviz.PointIcon, color.RGBA{255, 230, 140, 255}},
	{lightviz.DirectionalIcon, color.RGBA{255, 255, 255, 255}},
	{lightviz.SpotIcon, color.RGBA{140, 200, 255, 255}},
	{lightviz.ShadowBadgeIcon, color.RGBA{60, 60, 60, 255}},
	{lightviz.TargetBadgeIcon, color.RGBA{255, 80, 80, 255}},
}

// registerIcons fills in procedural icons for any icon file missing on disk.
func registerIcons(server *assets.Server, logger lightviz.Logger) {
	for _, ic := range icons {
		if _, err := os.Stat(filepath.Join(server.Root, ic.icon.Path)); err == nil {
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			logger.Warnf("stat %s: %v", ic.icon.Path, err)
		}
		server.Register(ic.icon.Path, server.CreateDisc(64, 0.55, 0.9, ic.color))
		logger.Debugf("using procedural icon for %s", ic.icon.Key)
	}
}

// overridesFor applies the override file on top of the demo's own choices.
func overridesFor(set *lightviz.OverrideSet, t lightviz.LightType, demo *lightviz.Overrides) *lightviz.Overrides {
	o := set.For(t)
	if o == nil {
		return demo
	}
	merged := *o
	if demo != nil && merged.TrackTarget == nil {
		merged.TrackTarget = demo.TrackTarget
	}
	return &merged
}

func optsFor(set *lightviz.OverrideSet, t lightviz.LightType, demo *lightviz.Overrides) lightviz.Option {
	return lightviz.WithOverrides(overridesFor(set, t, demo))
}

const spotMapCells = 8

var (
	spotMapLight = color.RGBA{255, 255, 255, 255}
	spotMapDark  = color.RGBA{40, 40, 60, 255}
)

type demoScene struct {
	scene     *scene.Scene
	server    *assets.Server
	overrides *lightviz.OverrideSet
	logger    *lightviz.DefaultLogger
	point     *scene.Light
	sun       *scene.Light
	rig       *scene.Object
	spot      *scene.Light
	mapShift  uint32
}

func buildScene(sc *scene.Scene, server *assets.Server, set *lightviz.OverrideSet, logger *lightviz.DefaultLogger) (*demoScene, error) {
	withLogger := lightviz.WithLogger(logger.Named("helper"))

	point := scene.NewPointLight([3]float32{1, 0.85, 0.5}, 1.5)
	point.Name = "point"
	point.CastShadow = true
	point.SetLocalPosition(mgl32.Vec3{2, 1.5, 0})
	if _, err := sc.AddLight(point, optsFor(set, lightviz.LightTypePoint, nil), withLogger); err != nil {
		return nil, err
	}

	sun := scene.NewDirectionalLight([3]float32{1, 1, 0.95}, 1)
	sun.Name = "sun"
	sun.SetLocalPosition(mgl32.Vec3{-3, 4, 2})
	rig := scene.NewGroup("rig")
	rig.Add(sun.TargetObject())
	sc.Add(rig)
	if _, err := sc.AddLight(sun,
		optsFor(set, lightviz.LightTypeDirectional, &lightviz.Overrides{TrackTarget: lightviz.Bool(true)}),
		withLogger); err != nil {
		return nil, err
	}

	spot := scene.NewSpotLight([3]float32{0.6, 0.8, 1}, 2, math.Pi/7, 6)
	spot.Name = "spot"
	spot.SetLocalPosition(mgl32.Vec3{0, 4, -2})
	spot.TargetObject().SetLocalPosition(mgl32.Vec3{0, 0, -2})
	spot.Map = server.CreateChecker(64, spotMapCells, spotMapLight, spotMapDark)
	if _, err := sc.AddLight(spot, optsFor(set, lightviz.LightTypeSpot, nil), withLogger); err != nil {
		return nil, err
	}

	return &demoScene{
		scene:     sc,
		server:    server,
		overrides: set,
		logger:    logger,
		point:     point,
		sun:       sun,
		rig:       rig,
		spot:      spot,
	}, nil
}

// animate moves the point light in a circle, pulses its intensity, swings
// the directional target around the rig and scrolls the spot map.
func (d *demoScene) animate(t float64) {
	d.point.SetLocalPosition(mgl32.Vec3{
		float32(2 * math.Cos(t*0.7)),
		1.5,
		float32(2 * math.Sin(t*0.7)),
	})
	d.point.Intensity = float32(1.5 + math.Sin(t*1.3))

	d.rig.SetLocalRotation(mgl32.QuatRotate(float32(t*0.4), mgl32.Vec3{0, 1, 0}))
	d.sun.TargetObject().SetLocalPosition(mgl32.Vec3{float32(1.5 * math.Sin(t*0.5)), 0, 1})

	if shift := uint32(t*2) % (2 * spotMapCells); shift != d.mapShift {
		d.mapShift = shift
		if err := d.server.UpdateChecker(d.spot.Map, spotMapCells, shift, spotMapLight, spotMapDark); err != nil {
			d.logger.Warnf("scroll spot map: %v", err)
		}
	}
}

// toggleSpotShadow flips the spot's shadow flag and rebuilds its helper,
// since badges are fixed when a helper is created.
func (d *demoScene) toggleSpotShadow() error {
	d.spot.CastShadow = !d.spot.CastShadow
	d.scene.RemoveLight(d.spot)
	_, err := d.scene.AddLight(d.spot,
		optsFor(d.overrides, lightviz.LightTypeSpot, nil),
		lightviz.WithLogger(d.logger.Named("helper")))
	return err
}

func main() {
	debug := flag.Bool("debug", false, "Enable debug logging")
	configPath := flag.String("config", "", "YAML file with per-kind helper overrides")
	assetRoot := flag.String("assets", "assets", "Directory icon paths are resolved against")
	flag.Parse()

	logger := lightviz.NewDefaultLogger("lightviz", *debug)

	var overrides *lightviz.OverrideSet
	if *configPath != "" {
		set, err := lightviz.LoadOverrideSet(*configPath)
		if err != nil {
			logger.Errorf("%v", err)
			os.Exit(1)
		}
		overrides = set
	}

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(1280, 720, "Light Helpers", nil, nil)
	if err != nil {
		panic(err)
	}
	defer window.Destroy()

	application := app.NewApp(window, logger.Named("render"))
	if err := application.Init(); err != nil {
		panic(err)
	}
	defer application.Release()

	server := assets.NewServer(*assetRoot)
	registerIcons(server, logger)
	sc := scene.New(scene.NewEngine(server, logger.Named("engine")), logger.Named("scene"))
	demo, err := buildScene(sc, server, overrides, logger)
	if err != nil {
		logger.Errorf("build scene: %v", err)
		os.Exit(1)
	}

	camera := scene.NewCamera()
	camera.Center = mgl32.Vec3{0, 1, 0}
	camera.Distance = 10

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		application.Resize(width, height)
	})

	var dragging bool
	var lastX, lastY float64
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		dragging = action == glfw.Press
		lastX, lastY = w.GetCursorPos()
	})
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		if !dragging {
			return
		}
		camera.Orbit(float32(xpos-lastX)*-0.005, float32(ypos-lastY)*0.005)
		lastX, lastY = xpos, ypos
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		camera.Zoom(float32(math.Pow(0.9, yoff)))
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		case glfw.KeyF1:
			logger.SetDebug(!logger.DebugEnabled())
		case glfw.KeyS:
			if err := demo.toggleSpotShadow(); err != nil {
				logger.Errorf("rebuild spot helper: %v", err)
			}
		}
	})

	var dl scene.DrawList
	for !window.ShouldClose() {
		glfw.PollEvents()
		demo.animate(glfw.GetTime())
		application.Profiler.Measure("helpers", sc.Update)
		application.Profiler.Measure("collect", func() {
			dl.Reset()
			sc.Collect(&dl)
		})
		application.Render(&dl, camera)
	}
}
