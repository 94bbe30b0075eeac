package pathdata

import (
	"log/slog"
	"math"
)

// PointType distinguishes on-curve endpoints from bezier control points.
type PointType string

const (
	PointEndpoint PointType = "endpoint"
	PointControl  PointType = "control"
)

// Point is a draggable position extracted from a path, in the path's own
// (absolute) user space. CmdIndex/ArgIndex locate the x argument that owns it.
type Point struct {
	X        float64
	Y        float64
	CmdIndex int
	ArgIndex int
	Type     PointType
}

type pen struct{ x, y float64 }

// walk visits each command with the pen position at its start, and returns
// the extracted points.
func walk(cmds []Command, visit func(i int, start pen)) []Point {
	var pts []Point
	var cur, sub pen
	for i, c := range cmds {
		if visit != nil {
			visit(i, cur)
		}
		ox, oy := 0.0, 0.0
		if c.Relative() {
			ox, oy = cur.x, cur.y
		}
		a := c.Args
		emit := func(argIdx int, t PointType) pen {
			p := pen{a[argIdx] + ox, a[argIdx+1] + oy}
			pts = append(pts, Point{X: p.x, Y: p.y, CmdIndex: i, ArgIndex: argIdx, Type: t})
			return p
		}
		before := len(pts)
		upper := c.Upper()
		need := argCounts[upper]
		if len(a) < need {
			slog.Debug("path command has too few arguments", "command", string(c.Cmd), "index", i)
			continue
		}
		switch upper {
		case 'M':
			cur = emit(0, PointEndpoint)
			sub = cur
		case 'L', 'T':
			cur = emit(0, PointEndpoint)
		case 'H':
			cur.x = a[0] + ox
			pts = append(pts, Point{X: cur.x, Y: cur.y, CmdIndex: i, ArgIndex: 0, Type: PointEndpoint})
		case 'V':
			cur.y = a[0] + oy
			pts = append(pts, Point{X: cur.x, Y: cur.y, CmdIndex: i, ArgIndex: 0, Type: PointEndpoint})
		case 'C':
			emit(0, PointControl)
			emit(2, PointControl)
			cur = emit(4, PointEndpoint)
		case 'S', 'Q':
			emit(0, PointControl)
			cur = emit(2, PointEndpoint)
		case 'A':
			cur = emit(5, PointEndpoint)
		case 'Z':
			cur = sub
		}
		if len(pts) == before && upper != 'Z' {
			slog.Debug("path command produced no editable points", "command", string(c.Cmd), "index", i)
		}
	}
	return pts
}

// Points extracts every endpoint and control point, in command order.
func Points(cmds []Command) []Point {
	return walk(cmds, nil)
}

// MovePoint returns a copy of cmds with point p moved to the absolute position
// (x, y). Only the owning command's arguments change. Relative commands are
// rewritten against the pen position computed from cmds, which must be the
// pre-drag commands so repeated moves during one gesture never compound.
func MovePoint(cmds []Command, p Point, x, y float64) []Command {
	out := Clone(cmds)
	if p.CmdIndex < 0 || p.CmdIndex >= len(out) {
		return out
	}
	var start pen
	walk(cmds, func(i int, s pen) {
		if i == p.CmdIndex {
			start = s
		}
	})
	c := &out[p.CmdIndex]
	ox, oy := 0.0, 0.0
	if c.Relative() {
		ox, oy = start.x, start.y
	}
	switch c.Upper() {
	case 'H':
		if len(c.Args) > 0 {
			c.Args[0] = x - ox
		}
	case 'V':
		if len(c.Args) > 0 {
			c.Args[0] = y - oy
		}
	default:
		if p.ArgIndex+1 < len(c.Args) {
			c.Args[p.ArgIndex] = x - ox
			c.Args[p.ArgIndex+1] = y - oy
		}
	}
	return out
}

// Bounds returns the box spanned by all extracted points. ok is false when
// the path has no points.
func Bounds(cmds []Command) (minX, minY, maxX, maxY float64, ok bool) {
	pts := Points(cmds)
	if len(pts) == 0 {
		return 0, 0, 0, 0, false
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return minX, minY, maxX, maxY, true
}

// Anchor returns the endpoint a control point is attached to, for drawing
// guide lines: the pen position before the command for a cubic's first
// control point, otherwise the command's own endpoint.
func Anchor(cmds []Command, p Point) (x, y float64, ok bool) {
	if p.Type != PointControl {
		return 0, 0, false
	}
	var start pen
	walk(cmds, func(i int, s pen) {
		if i == p.CmdIndex {
			start = s
		}
	})
	if p.CmdIndex < 0 || p.CmdIndex >= len(cmds) {
		return 0, 0, false
	}
	c := cmds[p.CmdIndex]
	if c.Upper() == 'C' && p.ArgIndex == 0 {
		return start.x, start.y, true
	}
	for _, q := range Points(cmds) {
		if q.CmdIndex == p.CmdIndex && q.Type == PointEndpoint {
			return q.X, q.Y, true
		}
	}
	return 0, 0, false
}
