package geo

import (
	"fmt"
	"strconv"
	"strings"
)

// LatLon is a decimal-degree coordinate pair.
type LatLon struct {
	Lat float64
	Lon float64
}

// Polygon is a closed ring of (lat, lon) vertices. The first and last
// vertex are not required to be equal; Contains treats the ring as closed.
type Polygon []LatLon

// ParsePolygonWKT parses the single outer ring of a WKT "POLYGON((...))"
// literal into a Polygon. Inner rings (holes), if present, are ignored:
// isochrone areas in this router are always simple coverage regions. There
// is no WKT parsing library anywhere in the retrieved corpus, so this is a
// small hand-rolled reader restricted to the POLYGON subset ferrobus needs.
func ParsePolygonWKT(wkt string) (Polygon, error) {
	s := strings.TrimSpace(wkt)
	upper := strings.ToUpper(s)
	if !strings.HasPrefix(upper, "POLYGON") {
		return nil, fmt.Errorf("unsupported WKT geometry, expected POLYGON: %q", wkt)
	}

	open := strings.Index(s, "(")
	close := strings.LastIndex(s, ")")
	if open < 0 || close < 0 || close < open {
		return nil, fmt.Errorf("malformed WKT polygon: %q", wkt)
	}
	body := s[open+1 : close]

	// Take only the outer ring: the text up to the first top-level ")".
	ringEnd := strings.Index(body, ")")
	ring := body
	if ringEnd >= 0 {
		ring = body[:ringEnd]
	}
	ring = strings.TrimPrefix(strings.TrimSpace(ring), "(")

	parts := strings.Split(ring, ",")
	if len(parts) < 3 {
		return nil, fmt.Errorf("polygon ring needs at least 3 vertices, got %d", len(parts))
	}

	poly := make(Polygon, 0, len(parts))
	for _, p := range parts {
		fields := strings.Fields(strings.TrimSpace(p))
		if len(fields) != 2 {
			return nil, fmt.Errorf("malformed WKT coordinate pair: %q", p)
		}
		lon, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude %q: %w", fields[0], err)
		}
		lat, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude %q: %w", fields[1], err)
		}
		poly = append(poly, LatLon{Lat: lat, Lon: lon})
	}
	return poly, nil
}

// Contains reports whether (lat, lon) lies inside the polygon using the
// standard ray-casting algorithm.
func (p Polygon) Contains(lat, lon float64) bool {
	inside := false
	n := len(p)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		yi, xi := p[i].Lat, p[i].Lon
		yj, xj := p[j].Lat, p[j].Lon

		intersects := (yi > lat) != (yj > lat) &&
			lon < (xj-xi)*(lat-yi)/(yj-yi)+xi
		if intersects {
			inside = !inside
		}
	}
	return inside
}

// Bounds returns the axis-aligned bounding box of the polygon.
func (p Polygon) Bounds() CoordinateBounds {
	if len(p) == 0 {
		return CoordinateBounds{}
	}
	b := CoordinateBounds{MinLat: p[0].Lat, MaxLat: p[0].Lat, MinLon: p[0].Lon, MaxLon: p[0].Lon}
	for _, v := range p[1:] {
		if v.Lat < b.MinLat {
			b.MinLat = v.Lat
		}
		if v.Lat > b.MaxLat {
			b.MaxLat = v.Lat
		}
		if v.Lon < b.MinLon {
			b.MinLon = v.Lon
		}
		if v.Lon > b.MaxLon {
			b.MaxLon = v.Lon
		}
	}
	return b
}

// Centroid returns the unweighted average of the ring's vertices, adequate
// for seeding a hex-cell coverage search (not a true area centroid).
func (p Polygon) Centroid() LatLon {
	if len(p) == 0 {
		return LatLon{}
	}
	var sumLat, sumLon float64
	for _, v := range p {
		sumLat += v.Lat
		sumLon += v.Lon
	}
	n := float64(len(p))
	return LatLon{Lat: sumLat / n, Lon: sumLon / n}
}
