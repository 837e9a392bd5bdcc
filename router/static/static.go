package static

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/indigo-web/minicat/http"
	"github.com/indigo-web/minicat/http/method"
	"github.com/indigo-web/minicat/http/mime"
	"github.com/indigo-web/minicat/http/status"
)

const (
	notFoundStatus status.Status = "File Not Found"
	notFoundBody                 = "<h1>File Not Found</h1>"
)

// Handler serves files beneath the document root. The request URI is expected to be
// normalized already, nevertheless the resolved path is checked to stay beneath the root,
// symbolic links included.
type Handler struct {
	root       string
	bufferSize int
}

// New returns a Handler serving the root. The root is made absolute and its links are
// resolved right away, so later changes of the working directory don't affect it.
func New(root string, bufferSize int) (*Handler, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	return &Handler{
		root:       abs,
		bufferSize: bufferSize,
	}, nil
}

func (h *Handler) OnRequest(request *http.Request, response *http.Response) error {
	path, ok := h.resolve(request.URI())
	if !ok {
		return NotFound(request, response)
	}

	target, err := filepath.EvalSymlinks(path)
	switch {
	case err != nil && isNotFound(err):
		return NotFound(request, response)
	case err != nil:
		return ioFailure(request.URI(), err)
	case !within(h.root, target):
		return NotFound(request, response)
	}

	file, err := os.Open(target)
	if err != nil {
		if isNotFound(err) {
			return NotFound(request, response)
		}

		return ioFailure(request.URI(), err)
	}

	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return ioFailure(request.URI(), err)
	}

	if stat.IsDir() {
		return NotFound(request, response)
	}

	if err = response.ContentType(mime.ByFilename(path)); err != nil {
		return err
	}

	if err = response.ContentLength(stat.Size()); err != nil {
		return err
	}

	if method.Parse(request.Method()) == method.HEAD {
		return nil
	}

	buff := make([]byte, h.bufferSize)

	for {
		n, err := file.Read(buff)
		if n > 0 {
			if _, werr := response.Write(buff[:n]); werr != nil {
				return werr
			}
		}

		switch {
		case err == io.EOF:
			return nil
		case err != nil:
			return ioFailure(request.URI(), err)
		}
	}
}

// resolve joins the URI to the root and reports whether the result is still beneath it.
func (h *Handler) resolve(uri string) (string, bool) {
	path := filepath.Join(h.root, filepath.FromSlash(uri))
	if !within(h.root, path) {
		return "", false
	}

	return path, true
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// NotFound writes the 404 response with a fixed HTML body.
func NotFound(request *http.Request, response *http.Response) error {
	if err := response.Status(status.NotFound, notFoundStatus); err != nil {
		return err
	}

	if err := response.ContentType(mime.HTML); err != nil {
		return err
	}

	if method.Parse(request.Method()) == method.HEAD {
		return response.ContentLength(int64(len(notFoundBody)))
	}

	return response.String(notFoundBody)
}

func isNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

// ioFailure hides the filesystem path, leaving only the URI and the cause.
func ioFailure(uri string, err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		err = pathErr.Err
	}

	return fmt.Errorf("serve %s: %v: %w", uri, err, status.ErrInternalServerError)
}
