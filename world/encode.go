package world

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pthm-cable/impulse/components"
	"github.com/pthm-cable/impulse/material"
	"github.com/pthm-cable/impulse/shape"
)

// The persisted form of a world is (latestBodyId, ordered body records),
// written as a nested list literal of numbers: braces group, commas
// separate, no strings and no nulls. A body record is
// {id, type, px, py, vx, vy, theta, omega, materialId, shapeTag, shapeData}
// where shapeData is 0 for no shape, the radius for circles, {w, h} for
// rectangles, and {{x, y}, ...} for polygons.

// Encode serializes the world state into its canonical text form.
func Encode(id ID) (string, error) {
	w, err := Get(id)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteByte('{')
	sb.WriteString(strconv.FormatInt(int64(w.latestBodyID), 10))
	sb.WriteString(",{")

	for i, bodyID := range w.order {
		if i > 0 {
			sb.WriteByte(',')
		}
		b := w.refsOf(w.entities[bodyID])
		encodeBody(&sb, b)
	}

	sb.WriteString("}}")
	return sb.String(), nil
}

func encodeBody(sb *strings.Builder, b refs) {
	sb.WriteByte('{')
	sb.WriteString(strconv.FormatInt(int64(b.def.ID), 10))
	sb.WriteByte(',')
	sb.WriteString(strconv.Itoa(int(b.def.Type)))
	for _, v := range []float64{b.pos.X, b.pos.Y, b.vel.X, b.vel.Y, b.rot.Theta, b.rot.Omega} {
		sb.WriteByte(',')
		sb.WriteString(formatNumber(v))
	}
	sb.WriteByte(',')
	sb.WriteString(strconv.Itoa(int(b.def.Material)))
	sb.WriteByte(',')
	sb.WriteString(strconv.Itoa(int(b.geom.Shape.Kind)))
	sb.WriteByte(',')
	encodeShapeData(sb, b.geom.Shape)
	sb.WriteByte('}')
}

func encodeShapeData(sb *strings.Builder, s shape.Shape) {
	switch s.Kind {
	case shape.CircleKind:
		sb.WriteString(formatNumber(s.Radius))
	case shape.RectangleKind:
		sb.WriteByte('{')
		sb.WriteString(formatNumber(s.Width))
		sb.WriteByte(',')
		sb.WriteString(formatNumber(s.Height))
		sb.WriteByte('}')
	case shape.PolygonKind:
		sb.WriteByte('{')
		for i, v := range s.Verts {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteByte('{')
			sb.WriteString(formatNumber(v.X))
			sb.WriteByte(',')
			sb.WriteString(formatNumber(v.Y))
			sb.WriteByte('}')
		}
		sb.WriteByte('}')
	default:
		sb.WriteByte('0')
	}
}

// formatNumber emits the shortest representation that parses back to the
// identical float, which keeps encode-decode-encode byte stable.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Decode parses a canonical world encoding into a freshly created world
// and returns its handle.
func Decode(text string) (ID, error) {
	value, rest, err := parseValue(strings.TrimSpace(text))
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(rest) != "" {
		return 0, fmt.Errorf("bad argument to #1 'data': trailing input")
	}

	top, ok := value.([]any)
	if !ok || len(top) != 2 {
		return 0, fmt.Errorf("bad argument to #1 'data': world record expected")
	}
	latest, ok := top[0].(float64)
	if !ok {
		return 0, fmt.Errorf("bad argument to #1 'data': latest body id expected")
	}
	records, ok := top[1].([]any)
	if !ok {
		return 0, fmt.Errorf("bad argument to #1 'data': body list expected")
	}

	id := Create()
	w := worlds[id]

	for _, raw := range records {
		if err := decodeBody(w, raw); err != nil {
			Destroy(id)
			return 0, err
		}
	}
	if BodyID(latest) > w.latestBodyID {
		w.latestBodyID = BodyID(latest)
	}
	return id, nil
}

func decodeBody(w *World, raw any) error {
	rec, ok := raw.([]any)
	if !ok || len(rec) != 11 {
		return fmt.Errorf("bad argument to #1 'data': body record expected")
	}

	nums := make([]float64, 0, 10)
	for _, field := range rec[:10] {
		n, ok := field.(float64)
		if !ok {
			return fmt.Errorf("bad argument to #1 'data': number expected in body record")
		}
		nums = append(nums, n)
	}

	typ := components.BodyType(nums[1])
	if typ < components.Static || typ > components.Dynamic {
		return fmt.Errorf("bad argument to #1 'data': unknown body type %v", nums[1])
	}

	s, err := decodeShapeData(shape.Kind(nums[9]), rec[10])
	if err != nil {
		return err
	}

	if err := w.restoreBody(BodyID(nums[0]), typ); err != nil {
		return err
	}
	b, err := w.body(BodyID(nums[0]))
	if err != nil {
		return err
	}
	b.pos.X, b.pos.Y = nums[2], nums[3]
	b.vel.X, b.vel.Y = nums[4], nums[5]
	b.rot.Theta, b.rot.Omega = nums[6], nums[7]
	b.def.Material = material.ID(nums[8])
	b.geom.Shape = s
	return nil
}

func decodeShapeData(kind shape.Kind, raw any) (shape.Shape, error) {
	switch kind {
	case shape.None:
		return shape.Shape{}, nil

	case shape.CircleKind:
		r, ok := raw.(float64)
		if !ok {
			return shape.Shape{}, fmt.Errorf("bad argument to #1 'data': circle radius expected")
		}
		return shape.Circle(r)

	case shape.RectangleKind:
		dims, ok := raw.([]any)
		if !ok || len(dims) != 2 {
			return shape.Shape{}, fmt.Errorf("bad argument to #1 'data': rectangle size expected")
		}
		wv, wok := dims[0].(float64)
		hv, hok := dims[1].(float64)
		if !wok || !hok {
			return shape.Shape{}, fmt.Errorf("bad argument to #1 'data': rectangle size expected")
		}
		return shape.Rectangle(wv, hv)

	case shape.PolygonKind:
		list, ok := raw.([]any)
		if !ok {
			return shape.Shape{}, fmt.Errorf("bad argument to #1 'data': vertex list expected")
		}
		verts := make([]shape.Vertex, 0, len(list))
		for _, rawVert := range list {
			pair, ok := rawVert.([]any)
			if !ok || len(pair) != 2 {
				return shape.Shape{}, fmt.Errorf("bad argument to #1 'data': vertex pair expected")
			}
			x, xok := pair[0].(float64)
			y, yok := pair[1].(float64)
			if !xok || !yok {
				return shape.Shape{}, fmt.Errorf("bad argument to #1 'data': vertex pair expected")
			}
			verts = append(verts, shape.Vertex{X: x, Y: y})
		}
		return shape.Polygon(verts)

	default:
		return shape.Shape{}, fmt.Errorf("bad argument to #1 'data': unknown shape tag %d", kind)
	}
}

// parseValue reads one number or brace list from the front of s.
func parseValue(s string) (any, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, "", fmt.Errorf("bad argument to #1 'data': unexpected end of input")
	}

	if s[0] == '{' {
		return parseList(s)
	}

	end := 0
	for end < len(s) && s[end] != ',' && s[end] != '}' {
		end++
	}
	token := strings.TrimSpace(s[:end])
	n, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return nil, "", fmt.Errorf("bad argument to #1 'data': number expected, got %q", token)
	}
	return n, s[end:], nil
}

func parseList(s string) (any, string, error) {
	// Caller guarantees s starts with '{'.
	s = s[1:]
	out := []any{}

	s = strings.TrimSpace(s)
	if s != "" && s[0] == '}' {
		return out, s[1:], nil
	}

	for {
		value, rest, err := parseValue(s)
		if err != nil {
			return nil, "", err
		}
		out = append(out, value)

		rest = strings.TrimSpace(rest)
		if rest == "" {
			return nil, "", fmt.Errorf("bad argument to #1 'data': unterminated list")
		}
		switch rest[0] {
		case ',':
			s = rest[1:]
		case '}':
			return out, rest[1:], nil
		default:
			return nil, "", fmt.Errorf("bad argument to #1 'data': unexpected %q", rest[0])
		}
	}
}
