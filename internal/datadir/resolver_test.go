package datadir

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

// gameDir creates a directory holding the marker file the validator wants.
func gameDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "c3.eng"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func hasMarker(dir string) error {
	if _, err := os.Stat(filepath.Join(dir, "c3.eng")); err != nil {
		return errors.New("missing c3.eng")
	}
	return nil
}

type fakeMessages struct{ titles []string }

func (f *fakeMessages) ShowMessage(title, _ string) error {
	f.titles = append(f.titles, title)
	return nil
}

type fakePrefs struct {
	dir   string
	saved []string
}

func (f *fakePrefs) DataDir() (string, error) { return f.dir, nil }
func (f *fakePrefs) SaveDataDir(dir string) error {
	f.saved = append(f.saved, dir)
	return nil
}

type fakePrompter struct {
	picks    []string
	confirms []bool
	asked    int
}

func (f *fakePrompter) ChooseDirectory(string) (string, error) {
	if f.asked >= len(f.picks) {
		return "", ErrDeclined
	}
	dir := f.picks[f.asked]
	f.asked++
	return dir, nil
}

func (f *fakePrompter) Confirm(string, string) (bool, error) {
	if len(f.confirms) == 0 {
		return false, nil
	}
	ok := f.confirms[0]
	f.confirms = f.confirms[1:]
	return ok, nil
}

func quietLogger() *log.Logger { return log.New(io.Discard) }

func TestResolveCustomDir(t *testing.T) {
	good := gameDir(t)
	msgs := &fakeMessages{}
	r := &Resolver{Validate: hasMarker, Messages: msgs, Logger: quietLogger()}

	dir, err := r.Resolve(good)
	if err != nil || dir != good {
		t.Fatalf("Resolve(good) = %q, %v", dir, err)
	}

	_, err = r.Resolve(t.TempDir())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve(empty dir) error = %v, expected ErrNotFound", err)
	}
	if len(msgs.titles) != 1 {
		t.Errorf("message boxes shown = %d, expected 1", len(msgs.titles))
	}
}

func TestResolveOrder(t *testing.T) {
	good := gameDir(t)
	empty := t.TempDir()

	tests := []struct {
		name     string
		workDir  string
		basePath string
		pref     string
		expected string
	}{
		{"working directory first", good, empty, empty, good},
		{"then base path", empty, good, empty, good},
		{"then stored preference", empty, empty, good, good},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			prefs := &fakePrefs{dir: tc.pref}
			r := &Resolver{
				Validate: hasMarker,
				Prefs:    prefs,
				BasePath: tc.basePath,
				WorkDir:  func() (string, error) { return tc.workDir, nil },
				Logger:   quietLogger(),
			}
			dir, err := r.Resolve("")
			if err != nil {
				t.Fatalf("Resolve() failed: %v", err)
			}
			if dir != tc.expected {
				t.Errorf("Resolve() = %q, expected %q", dir, tc.expected)
			}
			if len(prefs.saved) != 0 {
				t.Errorf("preference saved without prompting: %v", prefs.saved)
			}
		})
	}
}

func TestResolvePrompt(t *testing.T) {
	good := gameDir(t)
	empty := t.TempDir()
	nowhere := func() (string, error) { return empty, nil }

	tests := []struct {
		name      string
		picks     []string
		confirms  []bool
		attempts  int
		wantDir   string
		wantErr   error
		wantSaved bool
	}{
		{"first pick valid", []string{good}, nil, 0, good, nil, true},
		{"retry after wrong folder", []string{empty, good}, []bool{true}, 0, good, nil, true},
		{"declined retry", []string{empty, good}, []bool{false}, 0, "", ErrDeclined, false},
		{"cancelled picker", nil, nil, 0, "", ErrDeclined, false},
		{"attempts exhausted", []string{empty, empty}, []bool{true, true}, 2, "", ErrNotFound, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			prefs := &fakePrefs{}
			r := &Resolver{
				Validate: hasMarker,
				Prefs:    prefs,
				Prompter: &fakePrompter{picks: tc.picks, confirms: tc.confirms},
				WorkDir:  nowhere,
				Attempts: tc.attempts,
				Logger:   quietLogger(),
			}
			dir, err := r.Resolve("")
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Resolve() error = %v, expected %v", err, tc.wantErr)
				}
			} else if err != nil {
				t.Fatalf("Resolve() failed: %v", err)
			}
			if dir != tc.wantDir {
				t.Errorf("Resolve() = %q, expected %q", dir, tc.wantDir)
			}
			if saved := len(prefs.saved) == 1; saved != tc.wantSaved {
				t.Errorf("saved = %v, expected %v", prefs.saved, tc.wantSaved)
			}
		})
	}
}

func TestResolveWithoutPrompter(t *testing.T) {
	msgs := &fakeMessages{}
	empty := t.TempDir()
	r := &Resolver{
		Validate: hasMarker,
		Messages: msgs,
		WorkDir:  func() (string, error) { return empty, nil },
		Logger:   quietLogger(),
	}
	if _, err := r.Resolve(""); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve() error = %v, expected ErrNotFound", err)
	}
	if len(msgs.titles) != 1 {
		t.Errorf("message boxes shown = %d, expected 1", len(msgs.titles))
	}
}
