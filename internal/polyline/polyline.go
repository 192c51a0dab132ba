// Package polyline implements the encoded polyline text format used by the
// directions service for route and step geometry.
//
// Each coordinate is scaled by 1e5, delta-encoded against the previous point,
// zig-zag mapped to an unsigned value and written as 5-bit groups offset by 63,
// least significant group first, with 0x20 marking that another group follows.
package polyline

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	precision = 1e5

	charOffset   = 63
	chunkBits    = 5
	chunkMask    = 0x1f
	continuation = 0x20

	// maxShift bounds a single value to 64 bits of accumulated groups.
	maxShift = 60
)

// ErrMalformedPolyline is returned when the input ends inside a value, ends
// between a latitude and its longitude, or contains a byte outside the
// encoding alphabet.
var ErrMalformedPolyline = errors.New("malformed polyline")

// Point is a decoded coordinate in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Decode converts an encoded polyline into its ordered points.
// An empty input yields an empty, non-nil slice.
func Decode(encoded string) ([]Point, error) {
	points := make([]Point, 0, len(encoded)/4)

	var lat, lng int64
	index := 0
	for index < len(encoded) {
		dlat, next, err := decodeValue(encoded, index)
		if err != nil {
			return nil, err
		}
		if next >= len(encoded) {
			return nil, fmt.Errorf("%w: missing longitude after offset %d", ErrMalformedPolyline, index)
		}
		dlng, next, err := decodeValue(encoded, next)
		if err != nil {
			return nil, err
		}

		lat += dlat
		lng += dlng
		points = append(points, Point{
			Lat: float64(lat) / precision,
			Lng: float64(lng) / precision,
		})
		index = next
	}

	return points, nil
}

// decodeValue reads one zig-zag encoded delta starting at offset i and returns
// it together with the offset of the next unread byte.
func decodeValue(encoded string, i int) (int64, int, error) {
	var result int64
	var shift uint
	for {
		if i >= len(encoded) {
			return 0, i, fmt.Errorf("%w: input ends inside a value at offset %d", ErrMalformedPolyline, i)
		}
		b := int64(encoded[i]) - charOffset
		if b < 0 || b > 2*continuation-1 {
			return 0, i, fmt.Errorf("%w: invalid character %q at offset %d", ErrMalformedPolyline, encoded[i], i)
		}
		i++

		result |= (b & chunkMask) << shift
		shift += chunkBits
		if b < continuation {
			break
		}
		if shift > maxShift {
			return 0, i, fmt.Errorf("%w: value too long at offset %d", ErrMalformedPolyline, i)
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), i, nil
	}
	return result >> 1, i, nil
}

// Encode converts points into the polyline text format, rounding each
// coordinate to five decimal places.
func Encode(points []Point) string {
	var b strings.Builder
	b.Grow(len(points) * 8)

	var prevLat, prevLng int64
	for _, p := range points {
		lat := int64(math.Round(p.Lat * precision))
		lng := int64(math.Round(p.Lng * precision))
		encodeValue(&b, lat-prevLat)
		encodeValue(&b, lng-prevLng)
		prevLat, prevLng = lat, lng
	}

	return b.String()
}

func encodeValue(b *strings.Builder, v int64) {
	u := v << 1
	if v < 0 {
		u = ^u
	}
	for u >= continuation {
		b.WriteByte(byte((continuation | (u & chunkMask)) + charOffset))
		u >>= chunkBits
	}
	b.WriteByte(byte(u + charOffset))
}
