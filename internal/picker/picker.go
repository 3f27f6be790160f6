// Package picker asks the user for an input mesh when none was given on
// the command line.
package picker

import (
	"errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

// ErrCancelled is returned when the dialog is closed without a choice
var ErrCancelled = errors.New("no file selected")

// Extensions lists the file types offered by the dialog
var Extensions = []string{".stl", ".obj", ".STL", ".OBJ"}

// PickFile shows a file open dialog and blocks until the user picks a
// file or cancels. It must be called from the main goroutine.
func PickFile(title string) (string, error) {
	a := app.New()
	w := a.NewWindow(title)
	w.Resize(fyne.NewSize(900, 600))

	var (
		path   string
		result = ErrCancelled
	)
	open := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		defer a.Quit()
		if err != nil {
			result = err
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		path = reader.URI().Path()
		result = nil
	}, w)
	open.SetFilter(Filter())
	open.Resize(fyne.NewSize(880, 580))

	w.SetOnClosed(a.Quit)
	w.Show()
	open.Show()
	a.Run()

	if result != nil {
		return "", result
	}
	return path, nil
}

// Filter matches the supported mesh files
func Filter() storage.FileFilter {
	return storage.NewExtensionFileFilter(Extensions)
}
