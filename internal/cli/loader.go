package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/roach88/livepose/internal/document"
	"github.com/roach88/livepose/internal/rig"
	"github.com/roach88/livepose/internal/store"
)

// LoadError is an input that could not be loaded. Exit selects the process
// exit code: ExitCommandError for unreadable inputs, ExitFailure for
// rejected content.
type LoadError struct {
	Code    string
	Message string
	Exit    int
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// fail reports e through f and returns the matching ExitError.
func (e *LoadError) fail(f *OutputFormatter) error {
	return f.Fail(e.Exit, e.Code, e.Message, nil)
}

// loadDocument reads and decodes a pose file of any variant.
func loadDocument(path string) (document.Document, *LoadError) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("pose file not found: %s", path), Exit: ExitCommandError}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("reading pose file: %v", err), Exit: ExitCommandError}
	}

	doc, err := document.Decode(data)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeDecode, Message: err.Error(), Exit: ExitFailure}
	}
	return doc, nil
}

// loadNative loads a pose file and resolves it to an importable native pose.
func loadNative(path string) (*document.Pose, *LoadError) {
	doc, lerr := loadDocument(path)
	if lerr != nil {
		return nil, lerr
	}
	return resolveNative(doc)
}

// resolveNative upgrades legacy documents and rejects scenes and empty poses.
func resolveNative(doc document.Document) (*document.Pose, *LoadError) {
	p, err := document.Native(doc)
	switch {
	case errors.Is(err, document.ErrUnsupportedScene):
		return nil, &LoadError{Code: ErrCodeUnsupported, Message: err.Error(), Exit: ExitFailure}
	case err != nil:
		return nil, &LoadError{Code: ErrCodeDecode, Message: err.Error(), Exit: ExitFailure}
	case p.Empty():
		return nil, &LoadError{Code: ErrCodeEmptyPose, Message: document.ErrEmptyPose.Error(), Exit: ExitFailure}
	}
	return p, nil
}

// loadRig compiles a rig definition. The rig package's own error code is
// kept in the message.
func loadRig(path string) (*rig.Definition, *LoadError) {
	def, err := rig.LoadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeRig, Message: err.Error(), Exit: ExitCommandError}
	}
	return def, nil
}

// openLibrary opens the pose library at path.
func openLibrary(path string) (*store.Store, *LoadError) {
	if path == "" {
		return nil, &LoadError{Code: ErrCodeStore, Message: "no library path: set --db or store.path", Exit: ExitCommandError}
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeStore, Message: err.Error(), Exit: ExitCommandError}
	}
	return st, nil
}

// writeOutput writes data to path, or to the formatter's writer when path
// is empty.
func writeOutput(f *OutputFormatter, path string, data []byte) *LoadError {
	if path == "" {
		if _, err := f.Writer.Write(append(data, '\n')); err != nil {
			return &LoadError{Code: ErrCodeWriteFailed, Message: err.Error(), Exit: ExitCommandError}
		}
		return nil
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &LoadError{Code: ErrCodeWriteFailed, Message: fmt.Sprintf("writing %s: %v", path, err), Exit: ExitCommandError}
	}
	return nil
}
