// Package blob stores uploaded file content on a flat disk directory, keyed
// by generated names.
package blob

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Eordinary01/View-Assignment/core/assignment"
)

// accepted upload content types, as detected from the file's first bytes
var allowedTypes = map[string]struct{}{
	"application/pdf": {},
	"image/jpeg":      {},
	"image/png":       {},
}

const sniffLen = 512

type Store struct {
	dir      string
	maxBytes int64
	nowFunc  func() time.Time // mockable
}

var _ assignment.BlobStore = (*Store)(nil)

func NewStore(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating upload dir %s", dir)
	}
	return &Store{
		dir:      dir,
		maxBytes: maxBytes,
		nowFunc:  time.Now,
	}, nil
}

// Save validates src's content type and size and persists it under a
// generated name (upload timestamp + random suffix + original extension).
// Rejected uploads leave no file behind.
func (st *Store) Save(originalName string, src io.Reader) (string, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", errors.Wrap(err, "reading upload")
	}
	head = head[:n]

	ctype := strings.SplitN(http.DetectContentType(head), ";", 2)[0]
	if _, ok := allowedTypes[ctype]; !ok {
		return "", assignment.ErrInvalidFileType
	}
	if int64(n) > st.maxBytes {
		return "", assignment.ErrFileTooLarge
	}

	name := st.generateName(originalName)
	path := filepath.Join(st.dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", errors.Wrapf(err, "creating blob %s", name)
	}

	written, err := io.Copy(f, io.MultiReader(bytes.NewReader(head), io.LimitReader(src, st.maxBytes-int64(n)+1)))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", errors.Wrapf(err, "writing blob %s", name)
	}
	if written > st.maxBytes {
		_ = os.Remove(path)
		return "", assignment.ErrFileTooLarge
	}
	return name, nil
}

// Open returns a reader over the stored file and its MIME type, resolved by
// extension with a content-sniffing fallback.
func (st *Store) Open(name string) (io.ReadCloser, string, error) {
	path := filepath.Join(st.dir, filepath.Base(name))
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", assignment.ErrFileNotFound
		}
		return nil, "", errors.Wrapf(err, "opening blob %s", name)
	}

	ctype := mime.TypeByExtension(filepath.Ext(path))
	if ctype == "" {
		head := make([]byte, sniffLen)
		n, _ := io.ReadFull(f, head)
		ctype = http.DetectContentType(head[:n])
		if _, err = f.Seek(0, io.SeekStart); err != nil {
			_ = f.Close()
			return nil, "", errors.Wrapf(err, "rewinding blob %s", name)
		}
	}
	return f, ctype, nil
}

func (st *Store) Delete(name string) error {
	err := os.Remove(filepath.Join(st.dir, filepath.Base(name)))
	if os.IsNotExist(err) {
		return assignment.ErrFileNotFound
	}
	return err
}

func (st *Store) generateName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	suffix := strings.SplitN(uuid.New().String(), "-", 2)[0]
	return fmt.Sprintf("%d-%s%s", st.nowFunc().UnixNano()/int64(time.Millisecond), suffix, ext)
}
