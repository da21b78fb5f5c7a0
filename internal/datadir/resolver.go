// Package datadir locates the directory holding the original game data and
// caches its listing.
package datadir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

var (
	// ErrNotFound means no candidate directory contained valid game data.
	ErrNotFound = errors.New("datadir: game data not found")
	// ErrDeclined means the user cancelled the folder selection.
	ErrDeclined = errors.New("datadir: folder selection declined")
)

// DefaultAttempts bounds how many folders the user may pick before giving up.
const DefaultAttempts = 5

// Validator reports whether dir holds usable game data.
type Validator func(dir string) error

// Messenger shows a modal message to the user.
type Messenger interface {
	ShowMessage(title, message string) error
}

// PrefStore remembers the last directory picked by the user.
type PrefStore interface {
	DataDir() (string, error)
	SaveDataDir(dir string) error
}

// Prompter asks the user for a folder.
type Prompter interface {
	// ChooseDirectory returns ErrDeclined when the user cancels.
	ChooseDirectory(title string) (string, error)
	// Confirm asks an OK/Cancel question.
	Confirm(title, message string) (bool, error)
}

// Resolver runs the discovery sequence: explicit directory, working
// directory, executable directory, stored preference, then the prompter.
type Resolver struct {
	Validate Validator
	Messages Messenger
	// Prefs and Prompter are optional.
	Prefs    PrefStore
	Prompter Prompter
	// BasePath is the executable directory reported by the platform.
	BasePath string
	WorkDir  func() (string, error)
	Attempts int
	Logger   *log.Logger
}

const (
	requiresTitle   = "Praetor requires the original game files to run."
	missingDirText  = "Please enter the proper directory or copy the files to the selected directory."
	noPromptText    = "Move the praetor executable to the directory containing the game files, or run:\npraetor path-to-game-directory"
	wrongFolderText = "Praetor requires the original game files to run.\n\n" +
		"The selected folder does not contain them.\n\n" +
		"Press OK to select another folder or Cancel to exit."
)

// Resolve returns the first directory the validator accepts.
func (r *Resolver) Resolve(custom string) (string, error) {
	logger := r.logger()

	if custom != "" {
		logger.Info("loading game", "dir", custom)
		if err := r.check(custom); err != nil {
			logger.Error("directory not usable", "dir", custom, "error", err)
			r.message("Error", requiresTitle+"\n\n"+missingDirText)
			return "", fmt.Errorf("%w: %s", ErrNotFound, custom)
		}
		return custom, nil
	}

	getwd := r.WorkDir
	if getwd == nil {
		getwd = os.Getwd
	}
	if wd, err := getwd(); err == nil {
		logger.Info("loading game from working directory", "dir", wd)
		if r.check(wd) == nil {
			return wd, nil
		}
	}

	if r.BasePath != "" {
		logger.Info("loading game from base path", "dir", r.BasePath)
		if r.check(r.BasePath) == nil {
			return r.BasePath, nil
		}
	}

	if r.Prefs != nil {
		dir, err := r.Prefs.DataDir()
		if err != nil {
			logger.Warn("cannot read stored data directory", "error", err)
		} else if dir != "" {
			logger.Info("loading game from user pref", "dir", dir)
			if r.check(dir) == nil {
				return dir, nil
			}
		}
	}

	if r.Prompter == nil {
		r.message(requiresTitle, noPromptText)
		return "", ErrNotFound
	}
	return r.ask()
}

func (r *Resolver) ask() (string, error) {
	logger := r.logger()
	attempts := r.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	for i := 0; i < attempts; i++ {
		if i > 0 {
			ok, err := r.Prompter.Confirm("Wrong folder selected", wrongFolderText)
			if err != nil {
				return "", fmt.Errorf("datadir: confirm: %w", err)
			}
			if !ok {
				return "", ErrDeclined
			}
		}

		dir, err := r.Prompter.ChooseDirectory("Please select your game folder")
		if errors.Is(err, ErrDeclined) {
			return "", ErrDeclined
		}
		if err != nil {
			return "", fmt.Errorf("datadir: choose directory: %w", err)
		}
		if dir == "" {
			return "", ErrDeclined
		}

		logger.Info("loading game from user-selected dir", "dir", dir)
		if r.check(dir) != nil {
			continue
		}
		if r.Prefs != nil {
			if err := r.Prefs.SaveDataDir(dir); err != nil {
				logger.Warn("cannot remember data directory", "error", err)
			}
		}
		return dir, nil
	}

	return "", fmt.Errorf("%w after %d attempts", ErrNotFound, attempts)
}

func (r *Resolver) check(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	if r.Validate == nil {
		return nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	return r.Validate(abs)
}

func (r *Resolver) message(title, text string) {
	if r.Messages == nil {
		return
	}
	if err := r.Messages.ShowMessage(title, text); err != nil {
		r.logger().Warn("cannot show message box", "error", err)
	}
}

func (r *Resolver) logger() *log.Logger {
	if r.Logger == nil {
		return log.Default()
	}
	return r.Logger
}
