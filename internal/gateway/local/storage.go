package local

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pocketlist/pocketlist/internal/gateway"
)

// StorageDir is the storage root inside the data directory.
const StorageDir = "storage"

func validKey(key string) error {
	if key == "" || key == "." || strings.Contains(key, "..") || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("%w: %q", gateway.ErrInvalidKey, key)
	}
	return nil
}

// objectPath maps a key to its file. Public objects are shared; protected
// and private objects live under the owner's directory.
func (b *Backend) objectPath(key string, level gateway.AccessLevel) (string, error) {
	if level == "" {
		level = gateway.Private
	}
	if _, err := gateway.ParseAccessLevel(string(level)); err != nil {
		return "", err
	}
	if err := validKey(key); err != nil {
		return "", err
	}

	dir := filepath.Join(b.dataDir, StorageDir, string(level))
	if level != gateway.Public {
		dir = filepath.Join(dir, url.PathEscape(b.owner))
	}
	return filepath.Join(dir, key), nil
}

// StorageRead returns a file:// URI for key with an expires query parameter.
// The file itself is not access-controlled; the expiry is advisory.
func (b *Backend) StorageRead(ctx context.Context, key string, opts gateway.ReadOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := b.objectPath(key, opts.AccessLevel)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", gateway.ErrNotFound, key)
		}
		return "", err
	}

	expires := opts.Expires
	if expires <= 0 {
		expires = DefaultExpiry
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	u := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(abs),
		RawQuery: "expires=" + strconv.FormatInt(b.now().Add(expires).Unix(), 10),
	}
	return u.String(), nil
}

// StorageWrite stores body under key, replacing any existing object.
func (b *Backend) StorageWrite(ctx context.Context, key string, body io.Reader, opts gateway.WriteOptions) error {
	path, err := b.objectPath(key, opts.AccessLevel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, readerWithContext(ctx, body)); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	b.logger.Debug("stored object", "key", key, "level", opts.AccessLevel, "content_type", opts.ContentType)
	return nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return ctxReader{ctx: ctx, r: r}
}
