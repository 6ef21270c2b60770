// Package geodata extracts GPS coordinates from photo EXIF metadata and
// turns them into a human-readable location via reverse geocoding.
//
// Everything in this package fails open: a missing tag, corrupt EXIF block,
// or geocoding outage yields nil rather than an error, so caption
// generation proceeds without location context.
package geodata

import (
	"os"

	"github.com/rwcarlsen/goexif/exif"
)

// GPSData holds coordinates read from an image's EXIF block.
type GPSData struct {
	Latitude    float64
	Longitude   float64
	Altitude    float64 // Meters above sea level; valid only when HasAltitude.
	HasAltitude bool
}

// ExtractGPS reads embedded GPS metadata from the image at path. It returns
// nil when the file is unreadable, carries no EXIF block, or has no GPS
// coordinates.
func ExtractGPS(path string) *GPSData {
	f, err := os.Open(path) //nolint:gosec // path is caller-provided input to a local tool
	if err != nil {
		return nil
	}
	defer func() { _ = f.Close() }()

	x, err := exif.Decode(f)
	if err != nil {
		return nil
	}

	lat, lon, err := x.LatLong()
	if err != nil {
		return nil
	}

	data := &GPSData{Latitude: lat, Longitude: lon}

	if tag, err := x.Get(exif.GPSAltitude); err == nil {
		if num, den, err := tag.Rat2(0); err == nil && den != 0 {
			data.Altitude = float64(num) / float64(den)
			data.HasAltitude = true
		}
	}

	return data
}
