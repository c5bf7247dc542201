package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/rigidsim/internal/storage"
)

var palette = []string{"#00ffff", "#ff00ff", "#00ff88", "#ffaa00", "#ff4444", "#8888ff"}

// TracksSVG draws every recorded body path into one SVG. World coordinates
// are y-down, like SVG, so no axis flip is applied. Tracks with fewer than
// two samples are drawn as a single dot.
func TracksSVG(tracks []storage.Track, width, height int) string {
	minX, maxX, minY, maxY, ok := bounds(tracks)
	if !ok {
		return ""
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	project := func(s storage.Sample) (float64, float64) {
		return (s.X - minX) / rangeX * float64(width), (s.Y - minY) / rangeY * float64(height)
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for i, tr := range tracks {
		if len(tr.Samples) == 0 {
			continue
		}
		color := palette[i%len(palette)]

		if len(tr.Samples) == 1 {
			x, y := project(tr.Samples[0])
			sb.WriteString(fmt.Sprintf(`<circle id="body-%d" cx="%.1f" cy="%.1f" r="3" fill="%s"/>
`, tr.ID, x, y, color))
			continue
		}

		sb.WriteString(fmt.Sprintf(`<path id="body-%d" fill="none" stroke="%s" stroke-width="1.5" d="M`, tr.ID, color))
		for j, s := range tr.Samples {
			x, y := project(s)
			if j == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func bounds(tracks []storage.Track) (minX, maxX, minY, maxY float64, ok bool) {
	for _, tr := range tracks {
		for _, s := range tr.Samples {
			if !ok {
				minX, maxX, minY, maxY = s.X, s.X, s.Y, s.Y
				ok = true
				continue
			}
			minX = min(minX, s.X)
			maxX = max(maxX, s.X)
			minY = min(minY, s.Y)
			maxY = max(maxY, s.Y)
		}
	}
	return
}
