package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// LoadBundle reads the bundle at path. It is called on every render; the
// text is not cached.
func LoadBundle(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &Error{
				Tag:     TagBundleNotFound,
				Message: fmt.Sprintf("SSR bundle not found at %s. Make sure to run: cd frontend && bun run build", path),
				State:   StateIdle,
				Err:     err,
			}
		}
		return "", translate(TagBundleRead, StateIdle, err)
	}
	return string(data), nil
}
