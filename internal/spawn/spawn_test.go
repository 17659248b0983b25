package spawn

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/ThatOtherAndrew/Horologe/internal/models"
)

func newArena(seed uint64) *Arena {
	return New(rand.New(rand.NewPCG(seed, 1)))
}

func TestRegionsPartitionArena(t *testing.T) {
	if TotalParticles != 1184 {
		t.Fatalf("TotalParticles = %d, want 1184", TotalParticles)
	}
	regions := []Region{HubRegion, HourRegion, MinuteRegion}
	next := 0
	for _, r := range regions {
		if r.First != next {
			t.Fatalf("region %+v starts at %d, want %d", r, r.First, next)
		}
		next += r.Count
	}
	if next != TotalParticles {
		t.Errorf("regions cover %d particles, want %d", next, TotalParticles)
	}
}

func TestHubRing(t *testing.T) {
	a := newArena(3)
	a.SpawnHub()
	for i := range HubParticles {
		p := a.Particle(i)
		r := math.Hypot(float64(p.X), float64(p.Y))
		// Jitter on both axes can move a point at most sqrt(2)*jitter off the ring.
		if math.Abs(r-HubRadius) > ParticleJitter*math.Sqrt2+1e-6 {
			t.Fatalf("hub %d at radius %v", i, r)
		}
		if p.TimeBase < 0 || p.TimeBase >= 1 {
			t.Fatalf("hub %d timeBase %v outside [0,1)", i, p.TimeBase)
		}
		if p.Colour != 1 {
			t.Fatalf("hub %d colour %v, want 1", i, p.Colour)
		}
	}
}

func TestHandsStayInBounds(t *testing.T) {
	tests := []struct {
		name string
		time models.ClockTime
	}{
		{"midnight", models.ClockTime{}},
		{"quarter past three", models.ClockTime{Hour: 3, Minute: 15, Second: 30}},
		{"evening", models.ClockTime{Hour: 19, Minute: 47, Second: 59}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newArena(9)
			a.SpawnHub()
			a.SpawnHands(tt.time)

			check := func(r Region, reach float64) {
				for i := r.First; i < r.First+r.Count; i++ {
					p := a.Particle(i)
					d := math.Hypot(float64(p.X), float64(p.Y))
					if d < HubRadius-ParticleJitter*math.Sqrt2-1e-6 || d > HubRadius*reach+ParticleJitter*math.Sqrt2+1e-6 {
						t.Fatalf("particle %d at radius %v outside hand", i, d)
					}
					if p.TimeBase < 0 || p.TimeBase >= 1 || p.Colour != 1 {
						t.Fatalf("particle %d = %+v", i, p)
					}
				}
			}
			check(HourRegion, HourReach)
			check(MinuteRegion, MinuteReach)
		})
	}
}

func TestHandsFollowAngle(t *testing.T) {
	a := newArena(5)
	// 03:00:00 puts the hour hand on +x and the minute hand on +y.
	a.SpawnHands(models.ClockTime{Hour: 3})
	last := a.Particle(HourRegion.First + HourRegion.Count - 1)
	if last.X < 0.4 || math.Abs(float64(last.Y)) > 0.02 {
		t.Errorf("hour hand tip = (%v, %v), want near (+0.5, 0)", last.X, last.Y)
	}
	last = a.Particle(MinuteRegion.First + MinuteRegion.Count - 1)
	if last.Y < 0.7 || math.Abs(float64(last.X)) > 0.02 {
		t.Errorf("minute hand tip = (%v, %v), want near (0, +0.8)", last.X, last.Y)
	}
}

func TestHandsLeaveHubAlone(t *testing.T) {
	a := newArena(11)
	a.SpawnHub()
	hub := append([]float32(nil), a.Floats()[:HubParticles*models.ParticleFloats]...)
	a.SpawnHands(models.ClockTime{Hour: 10, Minute: 10})
	a.SpawnHands(models.ClockTime{Hour: 10, Minute: 11})
	for i, v := range a.Floats()[:HubParticles*models.ParticleFloats] {
		if v != hub[i] {
			t.Fatalf("hub float %d changed from %v to %v", i, hub[i], v)
		}
	}
	if len(a.Floats()) != TotalParticles*models.ParticleFloats {
		t.Errorf("arena length changed to %d", len(a.Floats()))
	}
}

func TestHandsRerandomise(t *testing.T) {
	a := newArena(13)
	ct := models.ClockTime{Hour: 4, Minute: 20}
	a.SpawnHands(ct)
	first := append([]float32(nil), a.Floats()...)
	a.SpawnHands(ct)
	same := 0
	for i := HourRegion.First; i < TotalParticles; i++ {
		if a.Particle(i).TimeBase == first[i*models.ParticleFloats+2] {
			same++
		}
	}
	if same > 4 {
		t.Errorf("%d hand particles kept their time base across a recompute", same)
	}
}

func TestHandAngles(t *testing.T) {
	tests := []struct {
		time         models.ClockTime
		hour, minute float64
	}{
		{models.ClockTime{}, 0, 0},
		{models.ClockTime{Hour: 3, Minute: 30}, 105, 180},
		{models.ClockTime{Hour: 11, Minute: 59, Second: 50}, 359.5, 359},
		{models.ClockTime{Hour: 13, Minute: 0, Second: 30}, 390, 3},
	}
	for _, tt := range tests {
		h, m := HandAngles(tt.time)
		if h != tt.hour || m != tt.minute {
			t.Errorf("HandAngles(%+v) = %v, %v; want %v, %v", tt.time, h, m, tt.hour, tt.minute)
		}
	}
}

func TestBezelRadius(t *testing.T) {
	tests := []struct {
		index  int
		square bool
		want   float64
	}{
		{0, true, 0.97},
		{1, true, 1.1},
		{3, true, 0.97}, // 450° is 90°
		{5, true, 1.1},
		{1, false, 0.97},
		{5, false, 0.97},
	}
	for _, tt := range tests {
		if got := BezelRadius(tt.index, tt.square); got != tt.want {
			t.Errorf("BezelRadius(%d, %v) = %v, want %v", tt.index, tt.square, got, tt.want)
		}
	}
}

func TestBezelPolygon(t *testing.T) {
	for _, square := range []bool{false, true} {
		verts := Bezel(square)
		if len(verts) != BezelVertices*2 {
			t.Fatalf("Bezel(%v) has %d floats", square, len(verts))
		}
		corners := 0
		for i := 0; i < len(verts); i += 2 {
			r := math.Hypot(float64(verts[i]), float64(verts[i+1]))
			if math.Abs(r-bezelCorner) < 1e-5 {
				corners++
			} else if math.Abs(r-bezelRound) > 1e-5 {
				t.Fatalf("vertex %d radius %v", i/2, r)
			}
		}
		want := 0
		if square {
			want = 8
		}
		if corners != want {
			t.Errorf("Bezel(%v) pushed %d vertices out, want %d", square, corners, want)
		}
	}
}

func TestSundialQuad(t *testing.T) {
	if len(SundialQuad) != 16 {
		t.Fatalf("quad has %d floats", len(SundialQuad))
	}
	// Texture coordinates cover the whole decal.
	var minS, maxS, minT, maxT float32 = 1, 0, 1, 0
	for i := 0; i < 16; i += 4 {
		minS = min(minS, SundialQuad[i+2])
		maxS = max(maxS, SundialQuad[i+2])
		minT = min(minT, SundialQuad[i+3])
		maxT = max(maxT, SundialQuad[i+3])
	}
	if minS != 0 || maxS != 1 || minT != 0 || maxT != 1 {
		t.Errorf("texture coordinates span s[%v,%v] t[%v,%v]", minS, maxS, minT, maxT)
	}
}

func TestHandAnglesAdvancePerMinute(t *testing.T) {
	h1, m1 := HandAngles(models.ClockTime{Hour: 3, Minute: 15})
	h2, m2 := HandAngles(models.ClockTime{Hour: 3, Minute: 16})
	if m2-m1 != 6 {
		t.Errorf("minute hand moved %v°, want 6°", m2-m1)
	}
	if h2-h1 != 0.5 {
		t.Errorf("hour hand moved %v°, want 0.5°", h2-h1)
	}
}

func TestHubTimeBaseUniform(t *testing.T) {
	const buckets = 10
	var counts [buckets]int
	total := 0
	for seed := uint64(0); seed < 50; seed++ {
		a := newArena(seed)
		a.SpawnHub()
		for i := range HubParticles {
			counts[int(a.Particle(i).TimeBase*buckets)]++
			total++
		}
	}
	want := float64(total) / buckets
	for b, c := range counts {
		if math.Abs(float64(c)-want) > want*0.1 {
			t.Errorf("bucket %d holds %d time bases, want about %.0f", b, c, want)
		}
	}
}
