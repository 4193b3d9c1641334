package image

import (
	"errors"
	"testing"

	"github.com/muaviaUsmani/gpaper/internal/daytime"
	apperrors "github.com/muaviaUsmani/gpaper/internal/errors"
	"github.com/spf13/afero"
)

func setupResolver(t *testing.T, files ...string) *Resolver {
	t.Helper()

	fs := afero.NewMemMapFs()
	for _, f := range files {
		if err := afero.WriteFile(fs, f, []byte("png"), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", f, err)
		}
	}

	return NewResolverWithFs(fs, func() (string, bool) {
		return "/home/user", true
	})
}

func TestResolveLocation_Absolute(t *testing.T) {
	r := setupResolver(t, "/images/day.png")

	loc, err := r.ResolveLocation("/images/day.png")
	if err != nil {
		t.Fatalf("ResolveLocation error = %v", err)
	}
	if loc.Path() != "/images/day.png" {
		t.Errorf("Path() = %s, want /images/day.png", loc.Path())
	}
	if loc.URI() != "file:///images/day.png" {
		t.Errorf("URI() = %s, want file:///images/day.png", loc.URI())
	}
}

func TestResolveLocation_HomeExpansion(t *testing.T) {
	r := setupResolver(t, "/home/user/Pictures/night.jpg")

	loc, err := r.ResolveLocation("~/Pictures/night.jpg")
	if err != nil {
		t.Fatalf("ResolveLocation error = %v", err)
	}
	if loc.Path() != "/home/user/Pictures/night.jpg" {
		t.Errorf("Path() = %s, want /home/user/Pictures/night.jpg", loc.Path())
	}
}

func TestResolveLocation_CleansPath(t *testing.T) {
	r := setupResolver(t, "/images/day.png")

	loc, err := r.ResolveLocation("/images/../images/./day.png")
	if err != nil {
		t.Fatalf("ResolveLocation error = %v", err)
	}
	if loc.Path() != "/images/day.png" {
		t.Errorf("Path() = %s, want /images/day.png", loc.Path())
	}
}

func TestResolveLocation_NoHome(t *testing.T) {
	fs := afero.NewMemMapFs()
	r := NewResolverWithFs(fs, func() (string, bool) { return "", false })

	_, err := r.ResolveLocation("~/Pictures/night.jpg")
	if !errors.Is(err, apperrors.ErrNoHomeVar) {
		t.Errorf("expected ErrNoHomeVar, got %v", err)
	}
}

func TestResolveLocation_Invalid(t *testing.T) {
	r := setupResolver(t, "/images/day.png")
	if err := r.fs.MkdirAll("/images/dir", 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	tests := []struct {
		name string
		raw  string
	}{
		{"missing file", "/images/missing.png"},
		{"missing home file", "~/missing.png"},
		{"directory", "/images/dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.ResolveLocation(tt.raw)
			if !errors.Is(err, apperrors.ErrInvalidLocation) {
				t.Fatalf("expected ErrInvalidLocation, got %v", err)
			}

			var locErr *apperrors.LocationError
			if !errors.As(err, &locErr) {
				t.Fatalf("expected LocationError, got %T", err)
			}
			if locErr.Path != tt.raw {
				t.Errorf("LocationError.Path = %s, want %s", locErr.Path, tt.raw)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	r := setupResolver(t, "/images/day.png")

	img, err := r.Resolve(Descriptor{Start: " 08:00 ", Location: "/images/day.png"})
	if err != nil {
		t.Fatalf("Resolve error = %v", err)
	}
	if img.Start() != daytime.MustNew(8, 0) {
		t.Errorf("Start() = %s, want 08:00", img.Start())
	}

	_, err = r.Resolve(Descriptor{Start: "8 o'clock", Location: "/images/day.png"})
	if !errors.Is(err, apperrors.ErrTimeParse) {
		t.Errorf("expected ErrTimeParse, got %v", err)
	}
}

func TestResolveAll_StopsAtFirstFailure(t *testing.T) {
	r := setupResolver(t, "/images/a.png", "/images/b.png")

	images, err := r.ResolveAll([]Descriptor{
		{Start: "20:00", Location: "/images/a.png"},
		{Start: "08:00", Location: "/images/b.png"},
	})
	if err != nil {
		t.Fatalf("ResolveAll error = %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(images))
	}
	if images[0].Location().Path() != "/images/a.png" {
		t.Errorf("expected input order to be preserved, got %s first", images[0].Location())
	}

	_, err = r.ResolveAll([]Descriptor{
		{Start: "20:00", Location: "/images/a.png"},
		{Start: "08:00", Location: "/images/missing.png"},
	})
	if !errors.Is(err, apperrors.ErrInvalidLocation) {
		t.Errorf("expected ErrInvalidLocation, got %v", err)
	}
}

func TestSortByStart_Stable(t *testing.T) {
	r := setupResolver(t, "/a.png", "/b.png", "/c.png", "/d.png")

	mk := func(start, path string) Image {
		img, err := r.Resolve(Descriptor{Start: start, Location: path})
		if err != nil {
			t.Fatalf("Resolve(%s, %s): %v", start, path, err)
		}
		return img
	}

	images := []Image{
		mk("20:00", "/a.png"),
		mk("08:00", "/b.png"),
		mk("20:00", "/c.png"),
		mk("06:30", "/d.png"),
	}

	if IsSorted(images) {
		t.Fatal("expected input to be unsorted")
	}

	SortByStart(images)

	want := []string{"/d.png", "/b.png", "/a.png", "/c.png"}
	for i, img := range images {
		if img.Location().Path() != want[i] {
			t.Errorf("images[%d] = %s, want %s", i, img.Location(), want[i])
		}
	}
	if !IsSorted(images) {
		t.Error("expected images to be sorted")
	}
}
