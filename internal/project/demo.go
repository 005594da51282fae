package project

import (
	"math"

	"github.com/atlas-demo/atlas/internal/animation"
	"github.com/atlas-demo/atlas/internal/generator"
)

const demoFrames = 240

// DemoDocument is a short scene: a clear color fading from dusk to night, a
// camera swinging around the origin, a light and a grade.
func DemoDocument() (*Document, error) {
	sky := generator.ClearSolidSchema.Instantiate(0, 0, demoFrames)
	sky.PropertyGroups[0].Defaults[0].Value = animation.RgbaValue(animation.RgbaColor{R: 0.9, G: 0.5, B: 0.3, A: 1})

	camera := generator.PerspectiveCameraSchema.Instantiate(1, 0, demoFrames)
	if err := set(camera, "fov", animation.FloatValue(60)); err != nil {
		return nil, err
	}
	if err := set(camera, "z range", animation.Vec2Value(animation.Vec2{X: 0.1, Y: 500})); err != nil {
		return nil, err
	}

	light := generator.WorldLightSchema.Instantiate(2, 0, demoFrames)
	if err := set(light, "direction", animation.RotationValue(animation.Euler(0, -math.Pi/4, math.Pi/6))); err != nil {
		return nil, err
	}
	if err := set(light, "color", animation.RgbaValue(animation.RgbaColor{R: 1, G: 0.95, B: 0.9, A: 1})); err != nil {
		return nil, err
	}
	if err := set(light, "ambient", animation.FloatValue(0.15)); err != nil {
		return nil, err
	}

	grading := generator.GradingSchema.Instantiate(3, 0, demoFrames)
	if err := set(grading, "camera.exposure", animation.FloatValue(1)); err != nil {
		return nil, err
	}
	// the grade is locked; the sweep below only marks it
	grading.PropertyGroups[0].Defaults[0].IsOverride = true

	ease := animation.Bezier(animation.Vec2{X: 0.42}, animation.Vec2{X: 0.58, Y: 1})

	cameraPath, err := generator.PerspectiveCameraSchema.Resolve("gimbal dir")
	if err != nil {
		return nil, err
	}
	armPath, err := generator.PerspectiveCameraSchema.Resolve("arm length")
	if err != nil {
		return nil, err
	}
	cameraMove := animation.AnimationSchema.Instantiate(4, 0, demoFrames)
	cameraMove.Name = "Camera Move"
	cameraMove.Source = animation.AnimationSource(&animation.AnimationClip{
		Target: camera.Reference(),
		Properties: []animation.AnimatedProperty{
			{
				Group: cameraPath.Group, Property: cameraPath.Property,
				Target: animation.Joined(animation.AnimatedPropertyField{
					StartValue: animation.RotationValue(animation.IdentityRotation),
					Segments: []animation.CurveSegment{
						{DurationFrames: demoFrames / 2, EndValue: animation.RotationValue(animation.Euler(0, math.Pi/2, 0)), Interpolation: ease},
						{DurationFrames: demoFrames / 2, EndValue: animation.RotationValue(animation.Euler(0, math.Pi, 0)), Interpolation: ease},
					},
				}),
			},
			{
				Group: armPath.Group, Property: armPath.Property,
				Target: animation.Joined(linearField(animation.FloatValue(4), animation.FloatValue(10), demoFrames)),
			},
		},
	})

	colorPath, err := generator.ClearSolidSchema.Resolve("color")
	if err != nil {
		return nil, err
	}
	fade := animation.AnimationSchema.Instantiate(5, 0, demoFrames)
	fade.Name = "Sky Fade"
	fade.Source = animation.AnimationSource(&animation.AnimationClip{
		Target: sky.Reference(),
		Properties: []animation.AnimatedProperty{{
			Group: colorPath.Group, Property: colorPath.Property,
			Target: animation.Separate(
				linearField(animation.FloatValue(0.9), animation.FloatValue(0.05), demoFrames),
				linearField(animation.FloatValue(0.5), animation.FloatValue(0.05), demoFrames),
				linearField(animation.FloatValue(0.3), animation.FloatValue(0.15), demoFrames),
				linearField(animation.FloatValue(1), animation.FloatValue(1), demoFrames),
			),
		}},
	})

	exposurePath, err := generator.GradingSchema.Resolve("camera.exposure")
	if err != nil {
		return nil, err
	}
	sweep := animation.AnimationSchema.Instantiate(6, 0, demoFrames)
	sweep.Name = "Exposure Sweep"
	sweep.Source = animation.AnimationSource(&animation.AnimationClip{
		Target: grading.Reference(),
		Properties: []animation.AnimatedProperty{{
			Group: exposurePath.Group, Property: exposurePath.Property,
			Target: animation.Joined(linearField(animation.FloatValue(0.5), animation.FloatValue(2), demoFrames)),
		}},
	})

	tl := &animation.Timeline{Tracks: []*animation.Track{
		{Clips: []*animation.Clip{sky}},
		{Clips: []*animation.Clip{camera}},
		{Clips: []*animation.Clip{light}},
		{Clips: []*animation.Clip{grading}},
		{Clips: []*animation.Clip{cameraMove}},
		{Clips: []*animation.Clip{fade}},
		{Clips: []*animation.Clip{sweep}},
	}}
	if err := tl.Validate(); err != nil {
		return nil, err
	}
	return FromTimeline(tl)
}

func set(clip *animation.Clip, path string, v animation.PropertyValue) error {
	p, err := clip.Schema.Resolve(path)
	if err != nil {
		return err
	}
	clip.PropertyGroups[p.Group].Defaults[p.Property].Value = v
	return nil
}

func linearField(from, to animation.PropertyValue, frames uint32) animation.AnimatedPropertyField {
	return animation.AnimatedPropertyField{
		StartValue: from,
		Segments:   []animation.CurveSegment{{DurationFrames: frames, EndValue: to, Interpolation: animation.Linear()}},
	}
}
