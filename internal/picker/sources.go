package picker

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"

	"github.com/pocketlist/pocketlist/internal/richtext"
)

// PathSource selects a fixed path, as given by --photo.
type PathSource struct {
	Path string
}

// Select validates the path against cfg. An empty path means no photo.
func (s PathSource) Select(ctx context.Context, cfg Config) (*Selection, error) {
	if s.Path == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return selectPath(s.Path, cfg)
}

func selectPath(path string, cfg Config) (*Selection, error) {
	if !cfg.Allows(path) {
		return nil, fmt.Errorf("%s: unsupported photo type (allowed: %v)", filepath.Base(path), cfg.AllowedTypes)
	}
	if err := richtext.ValidatePhoto(path); err != nil {
		return nil, err
	}

	sel := &Selection{URI: FileURI(path)}
	if cfg.IncludeBase64 {
		data, err := os.ReadFile(path) //nolint:gosec // G304: path chosen by the user
		if err != nil {
			return nil, err
		}
		sel.Base64 = base64.StdEncoding.EncodeToString(data)
	}
	return sel, nil
}

// FormSource runs a huh file picker in the terminal.
type FormSource struct {
	// Dir is where browsing starts; defaults to the working directory.
	Dir string
}

// Select shows the picker. Leaving it empty or aborting cancels.
func (s FormSource) Select(ctx context.Context, cfg Config) (*Selection, error) {
	dir := s.Dir
	if dir == "" {
		dir, _ = os.Getwd()
	}

	var path string
	err := huh.NewForm(huh.NewGroup(
		huh.NewFilePicker().
			Title("Photo").
			Description("Pick a photo to attach (esc to skip)").
			CurrentDirectory(dir).
			AllowedTypes(cfg.AllowedTypes).
			Picking(true).
			Value(&path),
	)).RunWithContext(ctx)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, nil
		}
		return nil, err
	}
	if path == "" {
		return nil, nil
	}
	return selectPath(path, cfg)
}
