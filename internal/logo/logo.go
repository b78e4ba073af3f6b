// Package logo manages the team logo images stored next to the save
// database. The game reads them from a logos/ directory as <teamID>.png;
// the editor accepts common input formats and normalizes everything it
// writes to a square PNG.
package logo

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"

	"cfsedit/internal/logging"
	"cfsedit/internal/store"
)

// DefaultSize is the square edge the game expects.
const DefaultSize = 256

// ErrUnsupportedFormat means the source file did not decode as PNG, JPEG,
// GIF or BMP.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Path returns the logo file for a team, relative to the save directory.
func Path(dir string, teamID int64) string {
	return filepath.Join(dir, "logos", fmt.Sprintf("%d.png", teamID))
}

// Exists reports whether a team currently has a logo on disk.
func Exists(dir string, teamID int64) bool {
	_, err := os.Stat(Path(dir, teamID))
	return err == nil
}

// Load reads a team's logo off disk. Teams without a logo return
// os.ErrNotExist.
func Load(dir string, teamID int64) (image.Image, error) {
	f, err := os.Open(Path(dir, teamID))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode logo: %w", err)
	}
	return img, nil
}

// Replace installs srcPath as the team's logo: decode, scale to size x size,
// write atomically. The team must exist in the save; a source that fails to
// decode leaves any existing logo untouched.
func Replace(ctx context.Context, st *store.Store, teamID int64, srcPath string, size int) error {
	timer := logging.StartTimer(logging.CategoryImage, "Replace")
	defer timer.Stop()

	if _, err := st.GetTeam(ctx, teamID); err != nil {
		return err
	}
	if size <= 0 {
		size = DefaultSize
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open logo source: %w", err)
	}
	defer src.Close()

	img, format, err := image.Decode(src)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	scaled := scale(img, size)

	dst := Path(st.Dir(), teamID)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("create logos directory: %w", err)
	}

	// Write to a temp file in the same directory so the rename is atomic
	// and a crash mid-write never corrupts the existing logo.
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".logo-*.png")
	if err != nil {
		return fmt.Errorf("create temp logo: %w", err)
	}
	tmpPath := tmp.Name()
	if err := png.Encode(tmp, scaled); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("encode logo png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp logo: %w", err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("install logo: %w", err)
	}

	logging.Image("Replaced logo for team %d from %s (%s, %dx%d)",
		teamID, filepath.Base(srcPath), format, size, size)
	return nil
}

// Remove deletes a team's logo. Removing a logo that does not exist is not
// an error.
func Remove(ctx context.Context, st *store.Store, teamID int64) error {
	if _, err := st.GetTeam(ctx, teamID); err != nil {
		return err
	}
	err := os.Remove(Path(st.Dir(), teamID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove logo: %w", err)
	}
	if err == nil {
		logging.Image("Removed logo for team %d", teamID)
	}
	return nil
}

// scale resamples the image to a size x size square with Catmull-Rom
// interpolation. Aspect ratio is not preserved; the game renders logos as
// squares.
func scale(img image.Image, size int) image.Image {
	if b := img.Bounds(); b.Dx() == size && b.Dy() == size {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	return dst
}
