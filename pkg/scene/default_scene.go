package scene

import (
	"github.com/df07/go-trt/pkg/core"
	"github.com/df07/go-trt/pkg/material"
)

// NewDefaultScene creates the classic four-sphere scene: a red diffuse sphere
// flanked by a gold and a silver mirror, resting on a large yellow ground sphere
func NewDefaultScene() *Scene {
	s := New("default")

	s.AddSphere(core.NewVec3(0, 0, -1), 0.5, material.NewDiffuse(core.NewVec3(0.8, 0.3, 0.3)))
	s.AddSphere(core.NewVec3(0, -100.5, -1), 100, material.NewDiffuse(core.NewVec3(0.8, 0.8, 0.0)))
	s.AddSphere(core.NewVec3(1, 0, -1), 0.5, material.NewMirror(core.NewVec3(0.8, 0.6, 0.2), 0.0))
	s.AddSphere(core.NewVec3(-1, 0, -1), 0.5, material.NewMirror(core.NewVec3(0.8, 0.8, 0.8), 0.0))

	return s
}
