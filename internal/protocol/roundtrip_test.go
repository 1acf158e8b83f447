package protocol

import (
	"bytes"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/danmuck/aeprobe/internal/testutil/testlog"
	"github.com/google/go-cmp/cmp"
)

var (
	genKeys   = []string{"name", "width", "frameRate", "enabled", "id", "comment", "x"}
	genValues = []string{
		"demo.aep", "true", "FALSE", "007", "24.0", "1e3", "-0", "1.5", "inf", "NaN",
		"a,b", "", "  padded  ", "9223372036854775808", "k=v",
	}
	genUnknown = []string{"GUIDES", "RENDER_QUEUE", "MARKERS", "MASK"}
)

// streamGen writes random well-formed analysis streams.
type streamGen struct {
	rng   *rand.Rand
	lines []string
	open  map[string]bool
}

func (g *streamGen) emit(s ...string) { g.lines = append(g.lines, s...) }

func (g *streamGen) upTo(n int) int { return g.rng.IntN(n + 1) }

func (g *streamGen) pick(xs []string) string { return xs[g.rng.IntN(len(xs))] }

func (g *streamGen) fields() {
	for range g.upTo(3) {
		if g.rng.IntN(8) == 0 {
			g.emit("stray " + g.pick(genKeys))
			continue
		}
		g.emit(g.pick(genKeys) + "=" + g.pick(genValues))
	}
}

func (g *streamGen) block(marker string, body func()) {
	g.open[marker] = true
	g.emit(marker + startSuffix)
	body()
	g.emit(marker + endSuffix)
	delete(g.open, marker)
}

func (g *streamGen) unknown(depth int) {
	if depth > 2 || g.rng.IntN(3) != 0 {
		return
	}
	m := g.pick(genUnknown)
	if g.open[m] {
		return
	}
	g.block(m, func() {
		g.fields()
		g.unknown(depth + 1)
	})
}

func (g *streamGen) container(marker, item string, body func()) {
	g.block(marker, func() {
		for range g.upTo(2) {
			if g.rng.IntN(6) == 0 {
				g.emit("between=" + g.pick(genValues))
			}
			g.block(item, body)
			g.unknown(1)
		}
	})
}

func (g *streamGen) effect() {
	switch g.rng.IntN(3) {
	case 0:
		g.emit("effect=ADBE Fill")
	case 1:
		g.emit("effect=ADBE Blur,Blur, soft")
	default:
		g.emit("effect=ADBE Glo2 , Glow ")
	}
}

func (g *streamGen) layer() {
	g.fields()
	if g.rng.IntN(2) == 0 {
		g.block("EFFECTS", func() {
			for range g.upTo(2) {
				g.effect()
			}
		})
	} else {
		for range g.upTo(1) {
			g.effect()
		}
	}
	g.unknown(0)
}

func (g *streamGen) project() []string {
	g.emit("name=demo.aep")
	g.fields()
	if g.rng.IntN(2) == 0 {
		g.block("PROJECT_INFO", g.fields)
	}
	g.container("COMPOSITIONS", "COMP", func() {
		g.fields()
		g.container("LAYERS", "LAYER", g.layer)
		g.unknown(0)
	})
	g.container("FOOTAGE", "FOOTAGE_ITEM", g.fields)
	g.container("FOLDERS", "FOLDER", func() {
		g.fields()
		g.unknown(0)
	})
	g.unknown(0)
	return g.lines
}

func TestEncodeRoundTripRandomStreams(t *testing.T) {
	testlog.Start(t)

	rng := rand.New(rand.NewPCG(0x5eed, 42))
	for i := range 2000 {
		g := &streamGen{rng: rng, open: map[string]bool{}}
		in := g.project()

		first, err := ParseLines(in)
		if err != nil {
			t.Fatalf("case %d parse: %v\n%s", i, err, strings.Join(in, "\n"))
		}
		var buf bytes.Buffer
		if err := Encode(&buf, first); err != nil {
			t.Fatalf("case %d encode: %v", i, err)
		}
		encoded := buf.String()
		second, err := Parse(&buf)
		if err != nil {
			t.Fatalf("case %d re-parse: %v\n%s", i, err, encoded)
		}
		if diff := cmp.Diff(first, second); diff != "" {
			t.Fatalf("case %d round trip mismatch (-first +second):\n%s\ninput:\n%s", i, diff, strings.Join(in, "\n"))
		}
	}
}
