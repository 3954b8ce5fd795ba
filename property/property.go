// Package property stores the keyframe curves of a node graph, keyed by node and property. It is the
// boundary through which builders receive their curves.
package property

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/google/uuid"
	"github.com/oomph-ac/coastersim/keyframe"
	"github.com/oomph-ac/coastersim/node"
	"github.com/zeebo/xxh3"
)

// NodeID identifies a node in the graph.
type NodeID = uuid.UUID

// ID identifies an animatable property of a node.
type ID uint8

const (
	RollSpeed ID = iota
	NormalForce
	LateralForce
	PitchSpeed
	YawSpeed
	DrivenVelocity
	HeartOffset
	Friction
	Resistance
)

var names = [...]string{
	RollSpeed:      "roll_speed",
	NormalForce:    "normal_force",
	LateralForce:   "lateral_force",
	PitchSpeed:     "pitch_speed",
	YawSpeed:       "yaw_speed",
	DrivenVelocity: "driven_velocity",
	HeartOffset:    "heart_offset",
	Friction:       "friction",
	Resistance:     "resistance",
}

// String ...
func (id ID) String() string {
	if int(id) < len(names) {
		return names[id]
	}
	return fmt.Sprintf("ID(%d)", uint8(id))
}

// Parse returns the property with the given name.
func Parse(name string) (ID, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for id, n := range names {
		if n == name {
			return ID(id), nil
		}
	}
	return 0, fmt.Errorf("unknown property %q", name)
}

// Store holds curves per node. Properties of a node keep the order they were first set in. A Store is
// safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	nodes map[NodeID]*orderedmap.OrderedMap[ID, keyframe.Curve]
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{nodes: make(map[NodeID]*orderedmap.OrderedMap[ID, keyframe.Curve])}
}

// Set stores the curve of a node property, replacing any existing one.
func (s *Store) Set(n NodeID, id ID, c keyframe.Curve) {
	s.mu.Lock()
	defer s.mu.Unlock()

	props, ok := s.nodes[n]
	if !ok {
		props = orderedmap.NewOrderedMap[ID, keyframe.Curve]()
		s.nodes[n] = props
	}
	props.Set(id, c)
}

// Curve returns the curve of a node property.
func (s *Store) Curve(n NodeID, id ID) (keyframe.Curve, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	props, ok := s.nodes[n]
	if !ok {
		return nil, false
	}
	return props.Get(id)
}

// Delete removes a node and all of its curves.
func (s *Store) Delete(n NodeID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.nodes, n)
}

// Properties returns the properties set on a node, in the order they were first set.
func (s *Store) Properties(n NodeID) []ID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	props, ok := s.nodes[n]
	if !ok {
		return nil
	}
	return props.Keys()
}

// Curves collects the curves of a node into the bundle builders consume.
func (s *Store) Curves(n NodeID) node.Curves {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c node.Curves
	props, ok := s.nodes[n]
	if !ok {
		return c
	}
	for el := props.Front(); el != nil; el = el.Next() {
		if dst := curveField(&c, el.Key); dst != nil {
			*dst = el.Value
		}
	}
	return c
}

func curveField(c *node.Curves, id ID) *keyframe.Curve {
	switch id {
	case RollSpeed:
		return &c.RollSpeed
	case NormalForce:
		return &c.NormalForce
	case LateralForce:
		return &c.LateralForce
	case PitchSpeed:
		return &c.PitchSpeed
	case YawSpeed:
		return &c.YawSpeed
	case DrivenVelocity:
		return &c.DrivenVelocity
	case HeartOffset:
		return &c.HeartOffset
	case Friction:
		return &c.Friction
	case Resistance:
		return &c.Resistance
	}
	return nil
}

// Hash fingerprints every curve of a node, so that callers can tell when a node needs rebuilding. Nodes
// holding equal curves set in the same order hash the same.
func (s *Store) Hash(n NodeID) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h := xxh3.New()
	props, ok := s.nodes[n]
	if !ok {
		return h.Sum64()
	}
	for el := props.Front(); el != nil; el = el.Next() {
		_, _ = h.Write([]byte{byte(el.Key)})
		WriteCurve(h, el.Value)
	}
	return h.Sum64()
}

// WriteCurve feeds the binary form of a curve into h.
func WriteCurve(h *xxh3.Hasher, c keyframe.Curve) {
	var buf [8]byte
	word := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = h.Write(buf[:])
	}
	word(float64(len(c)))
	for _, k := range c {
		word(k.Time)
		word(k.Value)
		_, _ = h.Write([]byte{byte(k.InInterp), byte(k.OutInterp)})
		word(k.InTangent)
		word(k.OutTangent)
		word(k.InWeight)
		word(k.OutWeight)
	}
}
