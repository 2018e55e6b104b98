// Package fsbridge is the host file-system port. The export and editor
// paths only ever touch the disk through it, which keeps the core
// storage-agnostic and testable.
package fsbridge

import (
	"image"

	"github.com/pkg/errors"
)

// ErrNoSelection reports that the user cancelled a directory pick.
var ErrNoSelection = errors.New("fsbridge: no directory selected")

// Bridge is the file-system surface consumed by the core.
type Bridge interface {
	// CreateDirectory creates the directory and any missing parents.
	CreateDirectory(path string) error
	// SaveFile writes data to path, replacing any existing file.
	SaveFile(path string, data []byte) error
	// ReadDirectory lists the file names in a directory, in host order.
	ReadDirectory(path string) ([]string, error)
	// ReadImageFile loads and decodes one raster file.
	ReadImageFile(path string) (image.Image, error)
}

// DirectoryPicker selects an output root interactively.
type DirectoryPicker interface {
	// SelectDirectory returns the chosen path, or ErrNoSelection when
	// the user cancelled.
	SelectDirectory() (string, error)
}
