// Package mesh turns a height field and its color image into a triangle mesh.
//
// The mesh is a regular grid: one vertex per (downsampled) pixel in
// row-major order, two triangles per 2x2 block unless the block straddles a
// depth discontinuity. Coordinates are normalized to [-1,1] on every axis
// with +Y up and +Z toward the viewer.
package mesh

import (
	"fmt"
	"io"

	"github.com/ungerik/go3d/float64/vec3"
	"github.com/unixpickle/model3d/model3d"

	"github.com/ironsheep/heightmesh/internal/classify"
	"github.com/ironsheep/heightmesh/internal/config"
)

// Dimensions are the source image size and the resolved vertex grid size.
type Dimensions struct {
	Width       int `json:"width"`
	Height      int `json:"height"`
	DepthWidth  int `json:"depth_width"`
	DepthHeight int `json:"depth_height"`
}

// Metadata describes how a mesh was produced.
type Metadata struct {
	Category        classify.Category `json:"category"`
	VerticesCount   int               `json:"vertices_count"`
	FacesCount      int               `json:"faces_count"`
	ImageDimensions Dimensions        `json:"image_dimensions"`
	SettingsUsed    config.Settings   `json:"settings_used"`
}

// Mesh is the mesh payload. Normals and Colors are parallel to Vertices;
// Faces index into Vertices.
type Mesh struct {
	Vertices []vec3.T     `json:"vertices"`
	Faces    [][3]int     `json:"faces"`
	Normals  []vec3.T     `json:"normals"`
	Colors   [][3]float64 `json:"colors"`
	Metadata Metadata     `json:"metadata"`
}

// Validate checks the structural invariants of m.
func (m *Mesh) Validate() error {
	n := len(m.Vertices)
	if len(m.Normals) != n || len(m.Colors) != n {
		return fmt.Errorf("mesh has %d vertices but %d normals and %d colors", n, len(m.Normals), len(m.Colors))
	}
	dims := m.Metadata.ImageDimensions
	if n != dims.DepthWidth*dims.DepthHeight {
		return fmt.Errorf("mesh has %d vertices for a %dx%d grid", n, dims.DepthWidth, dims.DepthHeight)
	}
	if m.Metadata.VerticesCount != n || m.Metadata.FacesCount != len(m.Faces) {
		return fmt.Errorf("metadata counts %d/%d do not match mesh %d/%d",
			m.Metadata.VerticesCount, m.Metadata.FacesCount, n, len(m.Faces))
	}
	for i, f := range m.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= n {
				return fmt.Errorf("face %d references vertex %d of %d", i, idx, n)
			}
		}
	}
	return nil
}

// WriteSTL writes the faces of m as a binary STL file.
func (m *Mesh) WriteSTL(w io.Writer) error {
	triangles := make([]*model3d.Triangle, 0, len(m.Faces))
	for _, f := range m.Faces {
		triangles = append(triangles, &model3d.Triangle{
			toCoord(m.Vertices[f[0]]),
			toCoord(m.Vertices[f[1]]),
			toCoord(m.Vertices[f[2]]),
		})
	}
	if err := model3d.WriteSTL(w, triangles); err != nil {
		return fmt.Errorf("failed to write STL: %w", err)
	}
	return nil
}

func toCoord(v vec3.T) model3d.Coord3D {
	return model3d.XYZ(v[0], v[1], v[2])
}
