package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-trt/pkg/core"
	"github.com/df07/go-trt/pkg/geometry"
)

// fixedSampler returns the same 3D sample on every call
type fixedSampler struct {
	value core.Vec3
}

func (f fixedSampler) Get1D() float64  { return f.value.X }
func (f fixedSampler) Get2D() core.Vec2 { return core.NewVec2(f.value.X, f.value.Y) }
func (f fixedSampler) Get3D() core.Vec3 { return f.value }

func TestDiffuse_AttenuationEqualsAlbedo(t *testing.T) {
	albedo := core.NewVec3(0.8, 0.3, 0.3)
	diffuse := NewDiffuse(albedo)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	hit := geometry.HitRecord{
		T:      1,
		Point:  core.NewVec3(0, 0, 0),
		Normal: core.NewVec3(0, 0, 1),
	}

	incoming := []core.Ray{
		core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1)),
		core.NewRay(core.NewVec3(5, 5, 1), core.NewVec3(-5, -5, -1)),
		core.NewRay(core.NewVec3(0, 0, -1), core.NewVec3(0, 0, 1)),
		core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 0)),
	}

	for i, ray := range incoming {
		scatter := diffuse.Scatter(ray, hit, sampler)
		if !scatter.Attenuation.Equals(albedo) {
			t.Errorf("Ray %d: attenuation %v should equal albedo %v", i, scatter.Attenuation, albedo)
		}
		if !scatter.Scattered.Origin.Equals(hit.Point) {
			t.Errorf("Ray %d: scattered origin %v should be the hit point", i, scatter.Scattered.Origin)
		}
	}
}

func TestDiffuse_DirectionInUnitSphereAroundNormal(t *testing.T) {
	diffuse := NewDiffuse(core.NewVec3(0.5, 0.5, 0.5))
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	normal := core.NewVec3(0, 1, 0)
	hit := geometry.HitRecord{Point: core.NewVec3(1, 2, 3), Normal: normal}
	ray := core.NewRay(core.NewVec3(1, 5, 3), core.NewVec3(0, -1, 0))

	for i := 0; i < 1000; i++ {
		scatter := diffuse.Scatter(ray, hit, sampler)
		offset := scatter.Scattered.Direction.Subtract(normal)
		if offset.Length() >= 1 {
			t.Fatalf("Scattered direction %v is not within the unit sphere around the normal", scatter.Scattered.Direction)
		}
	}
}

func TestDiffuse_IgnoresIncomingDirection(t *testing.T) {
	diffuse := NewDiffuse(core.NewVec3(0.5, 0.5, 0.5))
	hit := geometry.HitRecord{Point: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 0, 1)}
	sampler := fixedSampler{value: core.NewVec3(0.75, 0.5, 0.5)}

	a := diffuse.Scatter(core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1)), hit, sampler)
	b := diffuse.Scatter(core.NewRay(core.NewVec3(3, 0, 1), core.NewVec3(-3, 0, -1)), hit, sampler)

	if !a.Scattered.Direction.Equals(b.Scattered.Direction) {
		t.Errorf("Scatter depends on incoming ray: %v vs %v", a.Scattered.Direction, b.Scattered.Direction)
	}

	// normal + (0.5, 0, 0)
	expected := core.NewVec3(0.5, 0, 1)
	if math.Abs(a.Scattered.Direction.Subtract(expected).Length()) > 1e-12 {
		t.Errorf("Expected direction %v, got %v", expected, a.Scattered.Direction)
	}
}
