package importer

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/piwi3910/platelayout/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

type point struct {
	X, Y float64
}

// segment represents a line segment between two 2D points, used for
// chaining disconnected LINE entities into closed outlines.
type segment struct {
	start point
	end   point
}

// ImportDXF imports piece requests from a DXF drawing. Each closed shape
// (LWPOLYLINE, CIRCLE, or chain of connected LINEs/ARCs) contributes its
// bounding box, rounded to whole millimetres. Shapes with identical boxes
// fold into one request. Requests are named after name and their size.
func ImportDXF(path, name string) (ImportResult, error) {
	var result ImportResult

	drawing, err := dxf.Open(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("cannot open DXF file: %w", err)
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		return ImportResult{}, invalidf("DXF file contains no entities")
	}

	var outlines [][]point
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			outline := lwPolylineToOutline(e)
			if len(outline) >= 3 {
				outlines = append(outlines, outline)
			} else {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Circle:
			r := e.Radius
			outlines = append(outlines, []point{
				{e.Center[0] - r, e.Center[1] - r},
				{e.Center[0] + r, e.Center[1] - r},
				{e.Center[0] + r, e.Center[1] + r},
			})

		case *entity.Arc:
			pts := arcToPoints(e, 32)
			if len(pts) >= 2 {
				segments = append(segments, pointsToSegments(pts)...)
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: point{e.Start[0], e.Start[1]},
				end:   point{e.End[0], e.End[1]},
			})
		}
	}

	outlines = append(outlines, chainSegments(segments, 0.01)...)
	if len(outlines) == 0 {
		return ImportResult{}, invalidf("no closed shapes found in DXF file")
	}

	prefix := strings.TrimSpace(name)
	if prefix == "" {
		prefix = "DXF"
	}

	var reqs []model.TemplateRequest
	for _, outline := range outlines {
		width, height := boundingSize(outline)
		if width < 1 || height < 1 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape (%d x %d mm)", width, height))
			continue
		}
		req := model.TemplateRequest{
			Name:     fmt.Sprintf("%s %dx%d", prefix, width, height),
			Width:    width,
			Height:   height,
			Quantity: 1,
		}
		if i := indexOfSize(reqs, width, height); i >= 0 {
			reqs[i].Quantity++
			continue
		}
		reqs = append(reqs, req)
	}

	if len(reqs) == 0 {
		return ImportResult{}, invalidf("no usable shapes found in DXF file")
	}
	result.Requests = reqs
	return result, nil
}

func indexOfSize(reqs []model.TemplateRequest, width, height int) int {
	for i, r := range reqs {
		if r.Width == width && r.Height == height {
			return i
		}
	}
	return -1
}

// boundingSize returns the rounded width and height of the outline's bounding box.
func boundingSize(o []point) (int, int) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range o {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return int(math.Round(maxX - minX)), int(math.Round(maxY - minY))
}

// lwPolylineToOutline converts a DXF LWPOLYLINE entity to a point list.
// Bulge values on vertices produce interpolated arc segments.
func lwPolylineToOutline(lw *entity.LwPolyline) []point {
	var outline []point

	for i := 0; i < len(lw.Vertices); i++ {
		v := lw.Vertices[i]
		current := point{v[0], v[1]}

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}

		if math.Abs(bulge) > 1e-9 {
			nextIdx := (i + 1) % len(lw.Vertices)
			next := point{lw.Vertices[nextIdx][0], lw.Vertices[nextIdx][1]}
			arcPts := bulgeArcPoints(current, next, bulge, 32)
			// next vertex is added by its own iteration
			outline = append(outline, arcPts[:len(arcPts)-1]...)
		} else {
			outline = append(outline, current)
		}
	}

	return outline
}

// bulgeArcPoints generates points along an arc defined by two endpoints and a
// DXF bulge factor. The bulge is the tangent of 1/4 the included angle.
func bulgeArcPoints(p1, p2 point, bulge float64, numSegments int) []point {
	mx := (p1.X + p2.X) / 2
	my := (p1.Y + p2.Y) / 2
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	chordLen := math.Sqrt(dx*dx + dy*dy)
	if chordLen < 1e-9 {
		return []point{p1, p2}
	}

	sagitta := math.Abs(bulge) * chordLen / 2
	radius := (chordLen*chordLen/(4*sagitta) + sagitta) / 2

	perpX := -dy / chordLen
	perpY := dx / chordLen
	dist := radius - sagitta
	if bulge > 0 {
		perpX, perpY = -perpX, -perpY
	}
	cx := mx + perpX*dist
	cy := my + perpY*dist

	startAngle := math.Atan2(p1.Y-cy, p1.X-cx)
	endAngle := math.Atan2(p2.Y-cy, p2.X-cx)
	if bulge < 0 {
		if endAngle > startAngle {
			endAngle -= 2 * math.Pi
		}
	} else if endAngle < startAngle {
		endAngle += 2 * math.Pi
	}

	pts := make([]point, 0, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startAngle + t*(endAngle-startAngle)
		pts = append(pts, point{cx + radius*math.Cos(angle), cy + radius*math.Sin(angle)})
	}
	return pts
}

// arcToPoints converts a DXF ARC entity to a series of line points.
func arcToPoints(a *entity.Arc, numSegments int) []point {
	cx, cy := a.Circle.Center[0], a.Circle.Center[1]
	r := a.Circle.Radius

	startRad := a.Angle[0] * math.Pi / 180
	endRad := a.Angle[1] * math.Pi / 180
	if endRad <= startRad {
		endRad += 2 * math.Pi
	}

	pts := make([]point, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startRad + t*(endRad-startRad)
		pts[i] = point{cx + r*math.Cos(angle), cy + r*math.Sin(angle)}
	}
	return pts
}

func pointsToSegments(pts []point) []segment {
	segs := make([]segment, 0, len(pts)-1)
	for i := 0; i < len(pts)-1; i++ {
		segs = append(segs, segment{start: pts[i], end: pts[i+1]})
	}
	return segs
}

// chainSegments connects individual segments into closed outlines.
// tolerance is the maximum distance between endpoints to consider them connected.
// Chains that do not close are dropped.
func chainSegments(segs []segment, tolerance float64) [][]point {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var outlines [][]point

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []point{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			outlines = append(outlines, chain[:len(chain)-1])
		}
	}

	// largest first, for a stable request order
	sort.SliceStable(outlines, func(i, j int) bool {
		return outlineArea(outlines[i]) > outlineArea(outlines[j])
	})

	return outlines
}

func pointsClose(a, b point, tolerance float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= tolerance
}

// outlineArea computes the absolute area of a polygon using the shoelace formula.
func outlineArea(o []point) float64 {
	n := len(o)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += o[i].X * o[j].Y
		area -= o[j].X * o[i].Y
	}
	return math.Abs(area) / 2
}
