package fsbridge

import (
	"image"
	"os"

	"github.com/pkg/errors"

	// Raster decoders for frame ingestion.
	_ "image/png"

	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"
)

// Disk implements Bridge on the local file system.
type Disk struct{}

// CreateDirectory implements Bridge.
func (Disk) CreateDirectory(path string) error {
	return errors.Wrapf(os.MkdirAll(path, 0755), "creating directory %s", path)
}

// SaveFile implements Bridge.
func (Disk) SaveFile(path string, data []byte) error {
	return errors.Wrapf(os.WriteFile(path, data, 0644), "writing %s", path)
}

// ReadDirectory implements Bridge. Directories are skipped; only file
// names are returned, in the order the host lists them.
func (Disk) ReadDirectory(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading directory %s", path)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// ReadImageFile implements Bridge. The decoder is picked from the
// registered formats (png, bmp, tga).
func (Disk) ReadImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return img, nil
}
