package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-trt/pkg/core"
	"github.com/df07/go-trt/pkg/geometry"
	"github.com/df07/go-trt/pkg/integrator"
	"github.com/df07/go-trt/pkg/material"
	"github.com/df07/go-trt/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType,omitempty"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// InspectResult is the first object hit by an inspection ray
type InspectResult struct {
	Hit       bool
	HitRecord geometry.HitRecord
	Object    *scene.Object
}

// inspectPixel casts a ray through the center of pixel (x, y), with y
// counted from the top row, and returns the first object hit
func inspectPixel(sceneObj *scene.Scene, width, height, pixelX, pixelY int) InspectResult {
	j := height - 1 - pixelY
	u := (float64(pixelX) + 0.5) / float64(width)
	v := (float64(j) + 0.5) / float64(height)
	ray := sceneObj.Camera.GetRay(u, v)

	bounds := core.NewInterval(integrator.ShadowAcneEpsilon, math.Inf(1))
	hit, _, ok := sceneObj.NearestHit(ray, bounds)
	if !ok {
		return InspectResult{}
	}

	// NearestHit does not say which object was hit, so find the first one
	// reporting the same distance
	for i := range sceneObj.Objects {
		obj := &sceneObj.Objects[i]
		if objHit, objOk := obj.Shape.Hit(ray, bounds); objOk && objHit.T == hit.T {
			return InspectResult{Hit: true, HitRecord: hit, Object: obj}
		}
	}
	return InspectResult{Hit: true, HitRecord: hit}
}

func materialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Diffuse:
		properties["albedo"] = vecArray(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		return scene.MaterialDiffuse, properties

	case *material.Mirror:
		properties["albedo"] = vecArray(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		properties["fuzz"] = m.Fuzziness()
		return scene.MaterialMirror, properties

	default:
		return "unknown", properties
	}
}

func geometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = vecArray(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties

	default:
		return "unknown", properties
	}
}

// handleInspect reports what the camera sees through a single pixel
func (s *Server) handleInspect(c echo.Context) error {
	req, err := parseRenderRequest(c.QueryParams())
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid scene parameters: "+err.Error())
	}

	pixelX, err := strconv.Atoi(c.QueryParam("x"))
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid x coordinate")
	}
	pixelY, err := strconv.Atoi(c.QueryParam("y"))
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid y coordinate")
	}
	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		return jsonError(c, http.StatusBadRequest, "pixel coordinates out of bounds")
	}

	sceneObj, err := s.createScene(req.Scene, req.Seed)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}

	result := inspectPixel(sceneObj, req.Width, req.Height, pixelX, pixelY)
	if !result.Hit {
		return c.JSON(http.StatusOK, InspectResponse{Hit: false})
	}

	response := InspectResponse{
		Hit:      true,
		Point:    vecArray(result.HitRecord.Point),
		Normal:   vecArray(result.HitRecord.Normal),
		Distance: result.HitRecord.T,
	}
	if result.Object != nil {
		materialType, materialProps := materialInfo(result.Object.Material)
		geometryType, geometryProps := geometryInfo(result.Object.Shape)
		response.MaterialType = materialType
		response.GeometryType = geometryType
		response.Properties = map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		}
	}
	return c.JSON(http.StatusOK, response)
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Vec3) string {
	unit := core.NewInterval(0, 1)
	return fmt.Sprintf("#%02x%02x%02x",
		int(unit.Clamp(c.X)*255), int(unit.Clamp(c.Y)*255), int(unit.Clamp(c.Z)*255))
}
