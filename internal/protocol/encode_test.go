package protocol

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/danmuck/aeprobe/internal/testutil/testlog"
	"github.com/google/go-cmp/cmp"
)

const fullStream = `PROJECT_INFO_START
name=demo.aep
path=C:\work\demo.aep
version=24.0x12
frameRate=29.97
bitsPerChannel=16
PROJECT_INFO_END
COMPOSITIONS_START
COMP_START
name=Main
id=007
duration=10.01
width=1920
height=1080
bgColor=0,0,0
LAYERS_START
LAYER_START
name=Title
index=1
enabled=TRUE
stretch=100
EFFECTS_START
effect=ADBE Gaussian Blur 2,Blur, soft
effect=ADBE Fill,
EFFECTS_END
GUIDES_START
x=5
GUIDES_END
LAYER_END
LAYER_START
name=BG
parent=Title
LAYER_END
LAYERS_END
COMP_END
COMP_START
name=Empty
COMP_END
COMPOSITIONS_END
FOOTAGE_START
FOOTAGE_ITEM_START
name=clip.mov
hasVideo=true
nativeFps=23.976
FOOTAGE_ITEM_END
FOOTAGE_END
FOLDERS_START
FOLDER_START
name=Solids
FOLDER_END
FOLDERS_END
RENDER_QUEUE_START
items=2
RENDER_QUEUE_END
`

func TestEncodeRoundTripIsIdempotent(t *testing.T) {
	testlog.Start(t)

	first, err := Parse(strings.NewReader(fullStream))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, first); err != nil {
		t.Fatalf("encode: %v", err)
	}
	second, err := Parse(&buf)
	if err != nil {
		t.Fatalf("re-parse: %v\n%s", err, buf.String())
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("round trip mismatch (-first +second):\n%s", diff)
	}

	var again bytes.Buffer
	if err := Encode(&again, second); err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	var once bytes.Buffer
	_ = Encode(&once, first)
	if once.String() != again.String() {
		t.Fatalf("encoding is not stable:\n%s\n---\n%s", once.String(), again.String())
	}
}

func TestEncodeNormalizesStrayFields(t *testing.T) {
	testlog.Start(t)

	first, err := ParseLines([]string{
		"top=1",
		"COMPOSITIONS_START", "COMP_START", "LAYERS_START", "inLayers=x", "LAYERS_END", "COMP_END", "COMPOSITIONS_END",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, first); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "PROJECT_INFO_START\ntop=1\nPROJECT_INFO_END\n") {
		t.Fatalf("expected root fields in project info block:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "inLayers") {
		t.Fatalf("container field must not be re-emitted:\n%s", buf.String())
	}
	second, err := Parse(&buf)
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("round trip mismatch:\n%s", diff)
	}
}

func TestEncodeNilRecord(t *testing.T) {
	testlog.Start(t)

	if err := Encode(&bytes.Buffer{}, nil); !errors.Is(err, ErrNilRecord) {
		t.Fatalf("expected ErrNilRecord, got %v", err)
	}
}
