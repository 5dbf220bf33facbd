package service

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// extractBufSize is the copy buffer size used when materialising spec files.
const extractBufSize = 8 * 1024

// Bundle is a source of embedded spec resources, keyed by file name.
type Bundle interface {
	// Open opens the named resource for reading.  A missing resource reports
	// an error satisfying errors.Is(err, fs.ErrNotExist).
	Open(name string) (io.ReadCloser, error)
}

// FSBundle adapts a file system (typically an embed.FS) into a Bundle.
type FSBundle struct {
	FS fs.FS
}

func (b FSBundle) Open(name string) (io.ReadCloser, error) {
	return b.FS.Open(name)
}

// ExtractSpec materialises the service's spec files from the given bundle
// into the spec's directory and returns the updated spec record.
//
// If the spec's directory is already set, the spec is returned unchanged.
// Otherwise the directory is set to "." and each listed file not already
// present there is copied out of the bundle; files already on disk are left
// untouched, which makes extraction idempotent per (directory, file) pair.
// Errors from the bundle or the file system are surfaced unchanged.
func ExtractSpec(svc *Service, bundle Bundle) (ServiceSpec, error) {
	if svc.Spec.Directory != "" {
		return svc.Spec, nil
	}

	dir := "."

	files := append([]string{svc.Spec.MainSpecFile}, svc.Spec.ReferencedSpecFiles...)
	for _, file := range files {
		if file == "" {
			continue
		}

		dst := filepath.Join(dir, file)
		if _, err := os.Stat(dst); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return svc.Spec, err
		}

		if err := extractFile(bundle, file, dst); err != nil {
			return svc.Spec, err
		}
	}

	svc.Spec.Directory = dir
	return svc.Spec, nil
}

// extractFile copies a single resource out of the bundle to dst.
func extractFile(bundle Bundle, name, dst string) error {
	src, err := bundle.Open(name)
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	// The plain Writer/Reader wrappers hide ReaderFrom and WriterTo so that
	// io.CopyBuffer really copies through buf.
	buf := make([]byte, extractBufSize)
	if _, err := io.CopyBuffer(struct{ io.Writer }{out}, struct{ io.Reader }{src}, buf); err != nil {
		return err
	}

	return out.Close()
}
