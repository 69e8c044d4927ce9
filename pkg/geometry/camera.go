package geometry

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-trt/pkg/core"
)

// Camera is a pinhole camera. The image plane is the rectangle anchored at
// LowerLeft and spanned by Horizontal and Vertical.
type Camera struct {
	Origin     core.Vec3
	Horizontal core.Vec3
	Vertical   core.Vec3
	LowerLeft  core.Vec3
}

// DefaultCamera returns the standard 2:1 camera looking down -Z
func DefaultCamera() Camera {
	return Camera{
		Origin:     core.NewVec3(0, 0, 0),
		Horizontal: core.NewVec3(4, 0, 0),
		Vertical:   core.NewVec3(0, 2, 0),
		LowerLeft:  core.NewVec3(-2, -1, -1),
	}
}

// GetRay generates a ray for image-plane coordinates (u, v). Values outside
// [0,1] extrapolate the plane. The direction is not normalized.
func (c Camera) GetRay(u, v float64) core.Ray {
	direction := c.LowerLeft.
		Add(c.Horizontal.Multiply(u)).
		Add(c.Vertical.Multiply(v)).
		Subtract(c.Origin)

	return core.NewRay(c.Origin, direction)
}

// CameraConfig describes a camera by position and field of view
type CameraConfig struct {
	LookFrom    core.Vec3
	LookAt      core.Vec3
	Up          core.Vec3
	VFov        float64 // Vertical field of view in degrees
	AspectRatio float64 // Width / height
}

// DefaultCameraConfig matches DefaultCamera
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		LookFrom:    core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        90,
		AspectRatio: 2,
	}
}

// NewLookAtCamera builds a pinhole camera with a unit focal distance
func NewLookAtCamera(config CameraConfig) (Camera, error) {
	if config.VFov <= 0 || config.VFov >= 180 {
		return Camera{}, errors.New("vfov must be in (0, 180) degrees")
	}
	if config.AspectRatio <= 0 {
		return Camera{}, errors.New("aspect ratio must be positive")
	}

	from := toMgl(config.LookFrom)
	forward := from.Sub(toMgl(config.LookAt))
	if forward.Len() == 0 {
		return Camera{}, errors.New("look_from and look_at must differ")
	}
	right := toMgl(config.Up).Cross(forward)
	if right.Len() == 0 {
		return Camera{}, errors.New("up vector is parallel to the view direction")
	}

	// Camera basis: w points backwards, u to the right, v up
	w := forward.Normalize()
	u := right.Normalize()
	v := w.Cross(u)

	viewportHeight := 2 * math.Tan(mgl64.DegToRad(config.VFov)/2)
	viewportWidth := config.AspectRatio * viewportHeight

	horizontal := u.Mul(viewportWidth)
	vertical := v.Mul(viewportHeight)
	lowerLeft := from.Sub(horizontal.Mul(0.5)).Sub(vertical.Mul(0.5)).Sub(w)

	return Camera{
		Origin:     config.LookFrom,
		Horizontal: fromMgl(horizontal),
		Vertical:   fromMgl(vertical),
		LowerLeft:  fromMgl(lowerLeft),
	}, nil
}

func toMgl(v core.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl64.Vec3) core.Vec3 {
	return core.NewVec3(v.X(), v.Y(), v.Z())
}
