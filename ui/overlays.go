package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayInspector OverlayID = "inspector"
	OverlaySensors   OverlayID = "sensors"
	OverlayHitboxes  OverlayID = "hitboxes"
	OverlayControls  OverlayID = "controls"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID       OverlayID
	Name     string
	Key      int32 // raylib key code, 0 = no key
	KeyLabel string
}

// OverlayRegistry tracks which overlays are on.
type OverlayRegistry struct {
	byID    map[OverlayID]OverlayDescriptor
	enabled map[OverlayID]bool
	order   []OverlayID
}

// NewOverlayRegistry creates a registry with the default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.Register(OverlayDescriptor{ID: OverlayInspector, Name: "Inspector", Key: rl.KeyI, KeyLabel: "I"})
	reg.Register(OverlayDescriptor{ID: OverlaySensors, Name: "Sensor Line", Key: rl.KeyS, KeyLabel: "S"})
	reg.Register(OverlayDescriptor{ID: OverlayHitboxes, Name: "Hitboxes", Key: rl.KeyB, KeyLabel: "B"})
	reg.Register(OverlayDescriptor{ID: OverlayControls, Name: "Controls", Key: rl.KeyH, KeyLabel: "H"})
	reg.enabled[OverlayControls] = true
	return reg
}

// Register adds an overlay. Re-registering an ID replaces its descriptor.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	if _, exists := r.byID[desc.ID]; !exists {
		r.order = append(r.order, desc.ID)
	}
	r.byID[desc.ID] = desc
}

// Toggle flips an overlay and returns its new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	r.enabled[id] = !r.enabled[id]
	return r.enabled[id]
}

// IsEnabled reports whether an overlay is on.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns the descriptors in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	out := make([]OverlayDescriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// HandleKeys toggles any overlay whose key was pressed this frame.
func (r *OverlayRegistry) HandleKeys() {
	for _, id := range r.order {
		if k := r.byID[id].Key; k != 0 && rl.IsKeyPressed(k) {
			r.Toggle(id)
		}
	}
}
