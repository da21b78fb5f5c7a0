package datadir

import (
	"errors"

	"github.com/sqweek/dialog"
)

// NativePrompter uses the operating system's folder picker.
type NativePrompter struct{}

// ChooseDirectory opens the native folder dialog.
func (NativePrompter) ChooseDirectory(title string) (string, error) {
	dir, err := dialog.Directory().Title(title).Browse()
	if errors.Is(err, dialog.ErrCancelled) {
		return "", ErrDeclined
	}
	return dir, err
}

// Confirm shows a native yes/no box.
func (NativePrompter) Confirm(title, message string) (bool, error) {
	return dialog.Message("%s", message).Title(title).YesNo(), nil
}
