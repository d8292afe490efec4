package client

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pelletier/go-toml/v2"
)

const (
	chefIdAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	chefIdLength   = 8
)

func NewChefId() (string, error) {
	return gonanoid.Generate(chefIdAlphabet, chefIdLength)
}

type identity struct {
	ChefId string `toml:"chef_id"`
}

// IdentityFile keeps the chef identifier of this device. The identifier is
// generated once and reused for every later session.
type IdentityFile struct {
	path string
}

func NewIdentityFile(path string) *IdentityFile {
	return &IdentityFile{
		path,
	}
}

func (f *IdentityFile) Path() string {
	return f.path
}

// Load returns fs.ErrNotExist when no identity has been created yet.
func (f *IdentityFile) Load() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", err
	}

	var id identity
	err = toml.Unmarshal(data, &id)
	if err != nil {
		return "", fmt.Errorf("decode identity file %s: %w", f.path, err)
	}

	chefId := strings.TrimSpace(id.ChefId)
	if chefId == "" {
		return "", fmt.Errorf("identity file %s has no chef_id", f.path)
	}

	return chefId, nil
}

func (f *IdentityFile) LoadOrCreate() (string, error) {
	chefId, err := f.Load()
	if err == nil {
		return chefId, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	chefId, err = NewChefId()
	if err != nil {
		return "", fmt.Errorf("generate chef id: %w", err)
	}

	err = f.write(identity{ChefId: chefId})
	if err != nil {
		return "", err
	}

	return chefId, nil
}

func (f *IdentityFile) write(id identity) error {
	data, err := toml.Marshal(id)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}

	dir := filepath.Dir(f.path)
	err = os.MkdirAll(dir, 0o700)
	if err != nil {
		return fmt.Errorf("create identity dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".identity-*.toml")
	if err != nil {
		return fmt.Errorf("create temp identity file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Chmod(0o600)
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write temp identity file: %w", err)
	}

	err = os.Rename(tmpPath, f.path)
	if err != nil {
		return fmt.Errorf("replace identity file: %w", err)
	}

	return nil
}
