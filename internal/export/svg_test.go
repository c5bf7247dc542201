package export

import (
	"strings"
	"testing"

	"github.com/san-kum/rigidsim/internal/storage"
)

func TestTracksSVG(t *testing.T) {
	tracks := []storage.Track{
		{ID: 1, Samples: []storage.Sample{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 4}}},
		{ID: 2, Samples: []storage.Sample{{X: 5, Y: 5}}},
		{ID: 3},
	}

	svg := TracksSVG(tracks, 200, 100)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("not an svg document:\n%s", svg)
	}
	if !strings.Contains(svg, `<path id="body-1"`) {
		t.Error("missing path for body 1")
	}
	if !strings.Contains(svg, `<circle id="body-2"`) {
		t.Error("missing dot for single-sample body 2")
	}
	if strings.Contains(svg, `body-3`) {
		t.Error("empty track should not be drawn")
	}
	if got := strings.Count(svg, " L"); got != 2 {
		t.Errorf("expected 2 line segments, got %d", got)
	}
}

func TestTracksSVGEmpty(t *testing.T) {
	if svg := TracksSVG(nil, 100, 100); svg != "" {
		t.Errorf("expected empty output, got %q", svg)
	}
}
