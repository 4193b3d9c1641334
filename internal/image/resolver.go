package image

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/muaviaUsmani/gpaper/internal/daytime"
	apperrors "github.com/muaviaUsmani/gpaper/internal/errors"
	"github.com/spf13/afero"
)

// Descriptor is the textual form of an image as written in the config file
type Descriptor struct {
	// Start is a 24-hour HH:MM time
	Start string `yaml:"start"`
	// Location is a file path, optionally prefixed with ~/
	Location string `yaml:"location"`
}

// Resolver turns descriptors into images, checking that every location exists
type Resolver struct {
	fs   afero.Fs
	home func() (string, bool)
}

// NewResolver creates a resolver backed by the OS filesystem and $HOME
func NewResolver() *Resolver {
	return NewResolverWithFs(afero.NewOsFs(), func() (string, bool) {
		return os.LookupEnv("HOME")
	})
}

// NewResolverWithFs creates a resolver over fs with a custom home lookup
func NewResolverWithFs(fs afero.Fs, home func() (string, bool)) *Resolver {
	return &Resolver{fs: fs, home: home}
}

// ResolveLocation expands ~/ against the home directory and checks that the
// result names an existing regular file
func (r *Resolver) ResolveLocation(raw string) (Location, error) {
	path := raw
	if rest, ok := strings.CutPrefix(raw, "~/"); ok {
		home, set := r.home()
		if !set || home == "" {
			return Location{}, apperrors.ErrNoHomeVar
		}
		path = filepath.Join(home, rest)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return Location{}, &apperrors.LocationError{Path: raw, Err: err}
	}

	info, err := r.fs.Stat(abs)
	if err != nil {
		return Location{}, &apperrors.LocationError{Path: raw, Err: err}
	}
	if info.IsDir() {
		return Location{}, &apperrors.LocationError{Path: raw, Err: fmt.Errorf("is a directory")}
	}

	return Location{path: abs}, nil
}

// Resolve parses the start time and resolves the location of d
func (r *Resolver) Resolve(d Descriptor) (Image, error) {
	start, err := daytime.Parse(strings.TrimSpace(d.Start))
	if err != nil {
		return Image{}, err
	}

	location, err := r.ResolveLocation(strings.TrimSpace(d.Location))
	if err != nil {
		return Image{}, err
	}

	return New(start, location), nil
}

// ResolveAll resolves every descriptor, stopping at the first failure.
// The order of the returned images matches the input.
func (r *Resolver) ResolveAll(descriptors []Descriptor) ([]Image, error) {
	images := make([]Image, 0, len(descriptors))
	for i, d := range descriptors {
		img, err := r.Resolve(d)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		images = append(images, img)
	}
	return images, nil
}
