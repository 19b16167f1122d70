package geom

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// Vec3 is a point or direction in world space.
type Vec3 struct {
	X, Y, Z float64
}

func V(x, y, z float64) Vec3 { return Vec3{x, y, z} }

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Length() float64      { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{v.Y*o.Z - v.Z*o.Y, v.Z*o.X - v.X*o.Z, v.X*o.Y - v.Y*o.X}
}

// Normalize returns the unit vector in the direction of v. The zero vector
// stays zero.
func (v Vec3) Normalize() Vec3 {
	if l := v.Length(); l != 0 {
		return v.Scale(1 / l)
	}
	return Vec3{}
}

// Lerp interpolates between v (t=0) and o (t=1).
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return v.Add(o.Sub(v).Scale(t))
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// UnmarshalYAML decodes a vector written as a sequence [x, y, z].
func (v *Vec3) UnmarshalYAML(node *yaml.Node) error {
	var xs []float64
	if err := node.Decode(&xs); err != nil {
		return fmt.Errorf("line %d: vector must be a sequence of numbers: %w", node.Line, err)
	}
	if len(xs) != 3 {
		return fmt.Errorf("line %d: vector needs 3 components, got %d", node.Line, len(xs))
	}
	v.X, v.Y, v.Z = xs[0], xs[1], xs[2]
	return nil
}

// MarshalYAML writes the vector as a flow sequence.
func (v Vec3) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, c := range []float64{v.X, v.Y, v.Z} {
		node.Content = append(node.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!float",
			Value: fmt.Sprintf("%g", c),
		})
	}
	return node, nil
}
