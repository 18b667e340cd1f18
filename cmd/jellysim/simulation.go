package main

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/akmonengine/jelly"
	"github.com/akmonengine/jelly/camera"
	"github.com/akmonengine/jelly/config"
	"github.com/akmonengine/jelly/grab"
	"github.com/akmonengine/jelly/logger"
	"github.com/akmonengine/jelly/meshgen"
	"github.com/akmonengine/jelly/scene"
	"github.com/akmonengine/jelly/softbody"
)

const (
	viewportWidth  = 1280
	viewportHeight = 720

	// frames spent dragging, and pixels moved per frame
	dragFrames = 30
	dragPixels = 6.0
)

type simulation struct {
	world  *jelly.World
	camera *camera.Camera
	log    *zap.Logger
}

func newSimulation(cfg *config.Config) (*simulation, error) {
	cam := camera.New(viewportWidth, viewportHeight, 60, 0.1, 100)
	cam.Position = mgl64.Vec3{-10, 12, 10}
	cam.LookAt(mgl64.Vec3{})

	world := jelly.NewWorld(cfg.Params(), cam)
	world.Workers = cfg.World.Workers

	material := cfg.SoftbodyMaterial()
	for i, body := range cfg.Scene.Bodies {
		if err := spawn(world, body, material); err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
	}

	sim := &simulation{
		world:  world,
		camera: cam,
		log:    logger.Named("jellysim"),
	}

	world.Grabber.Events.Subscribe(grab.GRAB, func(event grab.Event) {
		e := event.(grab.GrabEvent)
		sim.log.Info("grabbed", zap.Int("face", e.Face), zap.Any("point", e.Point))
	})
	world.Grabber.Events.Subscribe(grab.RELEASE, func(event grab.Event) {
		sim.log.Info("released")
	})
	world.Grabber.Events.Subscribe(grab.DELETE, func(event grab.Event) {
		sim.log.Info("deleted")
	})

	return sim, nil
}

// spawn places one configured body under the root.
func spawn(world *jelly.World, body config.BodyConfig, material softbody.Material) error {
	surface, err := meshgen.ByName(body.Shape)
	if err != nil {
		return err
	}

	h, err := world.Spawn(surface, body.Position, material)
	if err != nil {
		return err
	}

	transform := world.Graph.Transform(h)
	if body.Scale != (mgl64.Vec3{}) {
		transform.Scale = body.Scale
	}
	transform.RotateEuler(body.Rotation.X(), body.Rotation.Y(), body.Rotation.Z())
	world.Graph.UpdateTransforms()
	world.Graph.Object(h).SetStatic(body.Static)

	return nil
}

func (s *simulation) run(frames int, dt float64, interact bool) {
	dragStart := -1
	if interact {
		dragStart = frames / 2
	}

	var cursorX, cursorY float64
	for frame := 0; frame < frames; frame++ {
		switch {
		case frame == dragStart:
			cursorX, cursorY = s.grab()
		case s.world.Grabber.IsGrabbing() && frame < dragStart+dragFrames:
			cursorX += dragPixels
			s.drag(cursorX, cursorY)
		case s.world.Grabber.IsGrabbing():
			s.world.Release()
		}

		s.world.Step(dt)

		if frame%60 == 0 {
			s.report(frame)
		}
	}
	s.world.Release()
}

// grab aims the cursor at the first dynamic body and grabs it.
func (s *simulation) grab() (x, y float64) {
	h, ok := s.firstDynamic()
	if !ok {
		return 0, 0
	}

	x, y = s.camera.WorldToScreen(s.world.Graph.WorldAABB(h).Center())
	ray, err := s.camera.ScreenToRay(x, y)
	if err != nil {
		s.log.Warn("cannot build pick ray", zap.Error(err))
		return x, y
	}

	if !s.world.Grab(&ray) {
		s.log.Debug("nothing grabbed", zap.Float64("x", x), zap.Float64("y", y))
	}
	return x, y
}

func (s *simulation) drag(x, y float64) {
	dir, err := s.camera.ViewRayDirection(x, y)
	if err != nil {
		s.log.Warn("cannot build drag ray", zap.Error(err))
		return
	}
	s.world.Drag(dir)
}

func (s *simulation) firstDynamic() (scene.Handle, bool) {
	for _, h := range s.world.Bodies() {
		if !s.world.Graph.Object(h).IsStatic() {
			return h, true
		}
	}
	return scene.Handle{}, false
}

func (s *simulation) report(frame int) {
	for i, h := range s.world.Bodies() {
		object := s.world.Graph.Object(h)
		if object.IsStatic() {
			continue
		}

		var speed float64
		for _, p := range object.Mesh().Points {
			speed = math.Max(speed, p.Velocity.Len())
		}

		s.log.Debug("body",
			zap.Int("frame", frame),
			zap.Int("body", i),
			zap.Any("position", s.world.Graph.Transform(h).Position),
			zap.Float64("volume", object.Mesh().Volume()),
			zap.Float64("restVolume", object.Mesh().RestVolume),
			zap.Float64("maxSpeed", speed))
	}

	s.log.Info("step",
		zap.Int("frame", frame),
		zap.Int("bodies", len(s.world.Bodies())),
		zap.Bool("grabbing", s.world.Grabber.IsGrabbing()))
}
