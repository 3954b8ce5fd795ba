package scene

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oomph-ac/coastersim/cache"
	"github.com/oomph-ac/coastersim/physics"
)

const demo = `
name = "demo"

[anchor]
position = [0.0, 20.0, 0.0]
velocity = 12.0
heart_offset = 1.1

[[section]]
name = "launch"
kind = "force"
duration = 1.0

  [[section.curve]]
  property = "normal_force"

    [[section.curve.key]]
    time = 0.0
    value = 1.0

[[section]]
name = "turn"
kind = "curved"
radius = 20.0
arc = 90.0
lead_in = 10.0
lead_out = 10.0

[[section]]
name = "again"
kind = "copy"
source = "launch"

[[section]]
name = "join"
kind = "bridge"
out_weight = 0.3
in_weight = 0.3

  [section.target]
  position = [60.0, 20.0, -60.0]
  yaw = -90.0
  heart_offset = 1.1
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(demo))
	if err != nil {
		t.Fatalf("unable to parse scene: %v", err)
	}
	if s.Name != "demo" || len(s.Sections) != 4 {
		t.Fatalf("unexpected scene %q with %d sections", s.Name, len(s.Sections))
	}
	if s.Sections[1].Radius != 20 || s.Sections[3].Target.Position[0] != 60 {
		t.Fatalf("section fields were not decoded: %+v", s.Sections)
	}
	if len(s.Sections[0].Curves) != 1 || len(s.Sections[0].Curves[0].Keys) != 1 {
		t.Fatalf("curves were not decoded: %+v", s.Sections[0].Curves)
	}
}

func TestBuild(t *testing.T) {
	s, err := Parse([]byte(demo))
	if err != nil {
		t.Fatalf("unable to parse scene: %v", err)
	}
	track, err := s.Build(Env{})
	if err != nil {
		t.Fatalf("unable to build scene: %v", err)
	}
	defer track.Close()

	total := 0
	for _, b := range track.Sections {
		if len(b.Points) < 2 {
			t.Fatalf("section %s built only %d points", b.Name, len(b.Points))
		}
		total += len(b.Points)
	}
	if want := total - len(track.Sections) + 1; len(track.Points) != want {
		t.Fatalf("expected %d points, got %d", want, len(track.Points))
	}
	if len(track.Sections[0].Points) != 101 {
		t.Fatalf("expected the launch to build 101 points, got %d", len(track.Sections[0].Points))
	}

	for i, p := range track.Points {
		if i > 0 {
			if gap := p.HeartPosition.Sub(track.Points[i-1].HeartPosition).Len(); gap > 0.2 {
				t.Fatalf("point %d jumps %v metres", i, gap)
			}
		}
		f := p.Frame
		if math.Abs(f.Direction.Len()-1) > 1e-4 || math.Abs(f.Direction.Dot(f.Normal)) > 1e-4 {
			t.Fatalf("point %d has a broken frame: %+v", i, f)
		}
	}

	sum := track.Summary()
	if sum.Points != len(track.Points) {
		t.Fatalf("summary counts %d points, want %d", sum.Points, len(track.Points))
	}
	if math.Abs(sum.MinVelocity-12) > 1e-3 || math.Abs(sum.MaxVelocity-12) > 1e-3 {
		t.Fatalf("expected the flat track to hold 12 m/s, got %v to %v", sum.MinVelocity, sum.MaxVelocity)
	}
	if sum.Length <= 0 || math.Abs(sum.Duration-float64(len(track.Points)-1)*physics.DT) > 1e-9 {
		t.Fatalf("unexpected summary %+v", sum)
	}
}

func TestBuildCached(t *testing.T) {
	s, err := Parse([]byte(demo))
	if err != nil {
		t.Fatalf("unable to parse scene: %v", err)
	}
	c := cache.New()
	first, err := s.Build(Env{Cache: c})
	if err != nil {
		t.Fatalf("unable to build scene: %v", err)
	}
	second, err := s.Build(Env{Cache: c})
	if err != nil {
		t.Fatalf("unable to rebuild scene: %v", err)
	}
	if hits, misses := c.Stats(); hits != 4 || misses != 4 {
		t.Fatalf("expected every section to be built once, got %d hits and %d misses", hits, misses)
	}
	if len(first.Points) != len(second.Points) {
		t.Fatalf("cached build differs: %d and %d points", len(first.Points), len(second.Points))
	}

	first.Close()
	second.Close()
	if n := c.Sweep(); n != 4 {
		t.Fatalf("expected 4 released sections to be swept, got %d", n)
	}
}

func TestBuildEmpty(t *testing.T) {
	s, err := Parse([]byte("[anchor]\nvelocity = 5.0\n"))
	if err != nil {
		t.Fatalf("unable to parse scene: %v", err)
	}
	track, err := s.Build(Env{})
	if err != nil {
		t.Fatalf("unable to build scene: %v", err)
	}
	if len(track.Points) != 1 || track.Points[0].Velocity != 5 {
		t.Fatalf("expected only the anchor, got %+v", track.Points)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := map[string]string{
		"unknown kind":   "[[section]]\nkind = \"loop\"\n",
		"unknown source": "[[section]]\nkind = \"copy\"\nsource = \"nothing\"\n",
		"later source":   "[[section]]\nkind = \"copy\"\nsource = \"b\"\n[[section]]\nname = \"b\"\nkind = \"curved\"\n",
		"position":       "[anchor]\nposition = [1.0, 2.0]\n",
		"duration type":  "[[section]]\nkind = \"force\"\nduration_type = \"laps\"\n",
		"property":       "[[section]]\nkind = \"force\"\n[[section.curve]]\nproperty = \"gravity\"\n",
		"interpolation":  "[[section]]\nkind = \"force\"\n[[section.curve]]\nproperty = \"roll_speed\"\n[[section.curve.key]]\nout = \"cubic\"\n",
		"key order":      "[[section]]\nkind = \"force\"\n[[section.curve]]\nproperty = \"roll_speed\"\n[[section.curve.key]]\ntime = 1.0\n[[section.curve.key]]\ntime = 0.5\n",
		"syntax":         "[anchor\n",
	}
	for name, data := range tests {
		if _, err := Parse([]byte(data)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loop.toml")
	data := strings.Replace(demo, `name = "demo"`, "", 1)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("unable to load scene: %v", err)
	}
	if s.Name != "loop" {
		t.Fatalf("expected the scene to be named after its file, got %q", s.Name)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected an error for a missing scene")
	}
}

func TestBuildCachedAcrossNames(t *testing.T) {
	scene := func(name string) *Scene {
		s, err := Parse([]byte("[anchor]\nvelocity = 10.0\n\n[[section]]\nname = \"" + name + "\"\nkind = \"curved\"\nradius = 15.0\narc = 45.0\n"))
		if err != nil {
			t.Fatalf("unable to parse scene: %v", err)
		}
		return s
	}
	c := cache.New()
	first, err := scene("left").Build(Env{Cache: c})
	if err != nil {
		t.Fatalf("unable to build scene: %v", err)
	}
	defer first.Close()
	second, err := scene("right").Build(Env{Cache: c})
	if err != nil {
		t.Fatalf("unable to build scene: %v", err)
	}
	defer second.Close()

	if hits, misses := c.Stats(); hits != 1 || misses != 1 {
		t.Fatalf("expected equal sections to share a build regardless of name, got %d hits and %d misses", hits, misses)
	}
	if first.Sections[0].Key != second.Sections[0].Key {
		t.Fatalf("expected equal cache keys")
	}
}
