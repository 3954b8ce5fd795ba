package cache

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/coastersim/keyframe"
	"github.com/oomph-ac/coastersim/node"
	"github.com/oomph-ac/coastersim/physics"
)

type countingBuilder struct {
	builds *atomic.Int64
	node.Builder
}

func (b countingBuilder) Build(anchor physics.Point, out []physics.Point) []physics.Point {
	b.builds.Add(1)
	return b.Builder.Build(anchor, out)
}

func newBuilder(builds *atomic.Int64) countingBuilder {
	return countingBuilder{builds: builds, Builder: node.ForceNode{
		Iteration: physics.IterationConfig{Duration: 1},
		Curves:    node.Curves{NormalForce: keyframe.Constant(1)},
	}}
}

func TestCacheBuild(t *testing.T) {
	var builds atomic.Int64
	c := New()
	anchor := physics.NewAnchor(mgl64.Vec3{0, 5, 0}, physics.DefaultFrame(), 10, 1)
	key := KeyOf(anchor, "force", struct{ Duration float64 }{1}, 0)

	first := c.Build(key, newBuilder(&builds), anchor)
	second := c.Build(key, newBuilder(&builds), anchor)
	if builds.Load() != 1 {
		t.Fatalf("expected a single build, got %d", builds.Load())
	}
	if len(first) != 101 || len(second) != len(first) {
		t.Fatalf("unexpected point counts %d and %d", len(first), len(second))
	}
	first[0].Velocity = -1
	if second[0].Velocity == -1 {
		t.Fatalf("callers must receive their own copy of the points")
	}
	if hits, misses := c.Stats(); hits != 1 || misses != 1 {
		t.Fatalf("expected 1 hit and 1 miss, got %d and %d", hits, misses)
	}

	c.Release(key)
	if c.Sweep() != 0 {
		t.Fatalf("entry swept while still subscribed")
	}
	c.Release(key)
	if c.Sweep() != 1 || c.Len() != 0 {
		t.Fatalf("expected the released entry to be swept")
	}
}

func TestKeyOf(t *testing.T) {
	anchor := physics.NewAnchor(mgl64.Vec3{}, physics.DefaultFrame(), 10, 1)
	cfg := struct{ Duration float64 }{1}
	key := KeyOf(anchor, "force", cfg, 1)
	if KeyOf(anchor, "force", cfg, 1) != key {
		t.Fatalf("key is not stable")
	}
	if KeyOf(anchor, "geometric", cfg, 1) == key {
		t.Fatalf("kind must be part of the key")
	}
	if KeyOf(anchor, "force", struct{ Duration float64 }{2}, 1) == key {
		t.Fatalf("config must be part of the key")
	}
	if KeyOf(anchor, "force", cfg, 2) == key {
		t.Fatalf("curves must be part of the key")
	}
	if KeyOf(anchor.WithVelocity(11), "force", cfg, 1) == key {
		t.Fatalf("anchor must be part of the key")
	}
}

func TestCacheConcurrent(t *testing.T) {
	var builds atomic.Int64
	c := New()
	anchor := physics.NewAnchor(mgl64.Vec3{0, 5, 0}, physics.DefaultFrame(), 10, 1)
	key := KeyOf(anchor, "force", nil, 0)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if points := c.Build(key, newBuilder(&builds), anchor); len(points) != 101 {
				t.Errorf("unexpected point count %d", len(points))
			}
		}()
	}
	wg.Wait()
	if c.Len() != 1 {
		t.Fatalf("expected a single entry, got %d", c.Len())
	}
	for range 8 {
		c.Release(key)
	}
	if c.Sweep() != 1 {
		t.Fatalf("expected the entry to be swept after every release")
	}
}
