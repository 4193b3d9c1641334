// Package image defines schedule entries: an image location paired with the
// time of day at which it becomes the desktop background.
package image

import (
	"net/url"
	"slices"

	"github.com/muaviaUsmani/gpaper/internal/daytime"
)

// Location is a resolved, absolute path to an existing image file.
// Obtain one through a Resolver.
type Location struct {
	path string
}

// Path returns the absolute filesystem path
func (l Location) Path() string {
	return l.path
}

// URI returns the file:// URI understood by the desktop settings daemon
func (l Location) URI() string {
	return (&url.URL{Scheme: "file", Path: l.path}).String()
}

// String implements fmt.Stringer
func (l Location) String() string {
	return l.path
}

// Image is a single schedule entry. It is immutable once created.
type Image struct {
	start    daytime.TimeOfDay
	location Location
}

// New pairs a start time with a resolved location
func New(start daytime.TimeOfDay, location Location) Image {
	return Image{start: start, location: location}
}

// Start returns the time of day at which the image becomes active
func (i Image) Start() daytime.TimeOfDay {
	return i.start
}

// Location returns where the image content lives
func (i Image) Location() Location {
	return i.location
}

// Compare orders images solely by start time
func Compare(a, b Image) int {
	return a.start.Compare(b.start)
}

// SortByStart sorts images ascending by start time. The sort is stable, so
// images sharing a start time keep their insertion order.
func SortByStart(images []Image) {
	slices.SortStableFunc(images, Compare)
}

// IsSorted reports whether images are ascending by start time
func IsSorted(images []Image) bool {
	return slices.IsSortedFunc(images, Compare)
}
