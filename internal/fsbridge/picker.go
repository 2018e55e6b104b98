package fsbridge

import (
	"github.com/sqweek/dialog"
)

// DialogPicker implements DirectoryPicker with the native OS chooser.
type DialogPicker struct {
	Title string
}

// SelectDirectory implements DirectoryPicker.
func (p DialogPicker) SelectDirectory() (string, error) {
	title := p.Title
	if title == "" {
		title = "Select output directory"
	}

	path, err := dialog.Directory().Title(title).Browse()
	if err == dialog.ErrCancelled {
		return "", ErrNoSelection
	}
	if err != nil {
		return "", err
	}
	return path, nil
}
