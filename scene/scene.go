// Package scene mirrors a running simulation into an ECS world that the
// rendering backends draw from.
package scene

import (
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/flappy/components"
)

// Draw layers.
const (
	LayerPillar = 0
	LayerAgent  = 1
)

// Palette.
var (
	ColorAgent       = components.RGBA{R: 250, G: 210, B: 40, A: 255}
	ColorAgentRising = components.RGBA{R: 255, G: 140, B: 0, A: 255}
	ColorAgentDead   = components.RGBA{R: 220, G: 40, B: 40, A: 255}
	ColorPillar      = components.RGBA{R: 60, G: 180, B: 75, A: 255}
	ColorSky         = components.RGBA{R: 112, G: 197, B: 206, A: 255}
	ColorGround      = components.RGBA{R: 222, G: 216, B: 149, A: 255}
)

// risingVY is the upward speed above which the agent is drawn as rising.
const risingVY = -5

// AgentColor picks the display colour for an agent from its state.
func AgentColor(a components.Agent) components.RGBA {
	switch {
	case !a.Alive:
		return ColorAgentDead
	case a.VY < risingVY:
		return ColorAgentRising
	default:
		return ColorAgent
	}
}

// Drawable is one entity's render data, copied out of the world.
type Drawable struct {
	Rect   components.Rect
	Sprite components.Sprite
}

// Scene holds one entity for the agent and two per live obstacle.
type Scene struct {
	world *ecs.World

	agentMapper  *ecs.Map2[components.Rect, components.Sprite]
	pillarMapper *ecs.Map3[components.Rect, components.Sprite, components.ObstacleRef]
	rectMap      *ecs.Map1[components.Rect]
	spriteMap    *ecs.Map1[components.Sprite]
	drawFilter   *ecs.Filter2[components.Rect, components.Sprite]

	agent    ecs.Entity
	hasAgent bool
	pillars  map[uint32][2]ecs.Entity
}

// New creates an empty scene.
func New() *Scene {
	world := ecs.NewWorld()
	return &Scene{
		world:        world,
		agentMapper:  ecs.NewMap2[components.Rect, components.Sprite](world),
		pillarMapper: ecs.NewMap3[components.Rect, components.Sprite, components.ObstacleRef](world),
		rectMap:      ecs.NewMap1[components.Rect](world),
		spriteMap:    ecs.NewMap1[components.Sprite](world),
		drawFilter:   ecs.NewFilter2[components.Rect, components.Sprite](world),
		pillars:      make(map[uint32][2]ecs.Entity),
	}
}

// Sync brings the world in line with the agent and obstacle state. Pillar
// entities are keyed by obstacle ID; obstacles no longer present are removed.
func (s *Scene) Sync(agent components.Agent, obstacles []components.Obstacle) {
	if !s.hasAgent {
		rect := agent.Body
		sprite := components.Sprite{Kind: components.KindAgent, Color: AgentColor(agent), Layer: LayerAgent}
		s.agent = s.agentMapper.NewEntity(&rect, &sprite)
		s.hasAgent = true
	} else {
		*s.rectMap.Get(s.agent) = agent.Body
		s.spriteMap.Get(s.agent).Color = AgentColor(agent)
	}

	live := make(map[uint32]struct{}, len(obstacles))
	for i := range obstacles {
		o := &obstacles[i]
		live[o.ID] = struct{}{}

		if pair, ok := s.pillars[o.ID]; ok {
			*s.rectMap.Get(pair[0]) = o.Top
			*s.rectMap.Get(pair[1]) = o.Bottom
			continue
		}
		s.pillars[o.ID] = [2]ecs.Entity{
			s.newPillar(o.Top, components.KindPillarTop, o.ID),
			s.newPillar(o.Bottom, components.KindPillarBottom, o.ID),
		}
	}

	for id, pair := range s.pillars {
		if _, ok := live[id]; ok {
			continue
		}
		s.world.RemoveEntity(pair[0])
		s.world.RemoveEntity(pair[1])
		delete(s.pillars, id)
	}
}

func (s *Scene) newPillar(r components.Rect, kind components.Kind, id uint32) ecs.Entity {
	sprite := components.Sprite{Kind: kind, Color: ColorPillar, Layer: LayerPillar}
	ref := components.ObstacleRef{ID: id}
	return s.pillarMapper.NewEntity(&r, &sprite, &ref)
}

// Reset removes every entity, for a restarted life.
func (s *Scene) Reset() {
	if s.hasAgent {
		s.world.RemoveEntity(s.agent)
		s.hasAgent = false
	}
	for id, pair := range s.pillars {
		s.world.RemoveEntity(pair[0])
		s.world.RemoveEntity(pair[1])
		delete(s.pillars, id)
	}
}

// Drawables returns every entity's render data, lowest layer first.
func (s *Scene) Drawables() []Drawable {
	out := make([]Drawable, 0, 1+2*len(s.pillars))
	query := s.drawFilter.Query()
	for query.Next() {
		rect, sprite := query.Get()
		out = append(out, Drawable{Rect: *rect, Sprite: *sprite})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Sprite.Layer != out[j].Sprite.Layer {
			return out[i].Sprite.Layer < out[j].Sprite.Layer
		}
		return out[i].Rect.X < out[j].Rect.X
	})
	return out
}

// Len returns the number of entities in the world.
func (s *Scene) Len() int {
	n := 0
	query := s.drawFilter.Query()
	for query.Next() {
		n++
	}
	return n
}

// Obstacles returns the number of obstacles currently mirrored.
func (s *Scene) Obstacles() int { return len(s.pillars) }
