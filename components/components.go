// Package components holds the geometry primitive and the ECS components
// used by the playback scene.
package components

// Kind identifies what a scene entity represents.
type Kind uint8

const (
	KindAgent Kind = iota
	KindPillarTop
	KindPillarBottom
)

func (k Kind) String() string {
	switch k {
	case KindAgent:
		return "agent"
	case KindPillarTop:
		return "pillar_top"
	case KindPillarBottom:
		return "pillar_bottom"
	}
	return "unknown"
}

// RGBA is a backend-neutral colour.
type RGBA struct {
	R, G, B, A uint8
}

// Sprite is the render component attached to every scene entity.
type Sprite struct {
	Kind  Kind
	Color RGBA
	Layer int // Higher layers draw on top
}

// ObstacleRef links a pillar entity back to the obstacle that owns it.
type ObstacleRef struct {
	ID uint32
}
