package options

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/stacklayout/pkg/errors"
)

//go:embed builtin.toml
var builtinCatalog []byte

type catalogFile struct {
	Option []Option `toml:"option"`
}

// Load decodes a TOML catalog from rd and registers every option in it.
func (r *Registry) Load(rd io.Reader) error {
	var cat catalogFile
	md, err := toml.NewDecoder(rd).Decode(&cat)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode option catalog")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidFormat, "unknown catalog field %q", undecoded[0].String())
	}
	for _, o := range cat.Option {
		if err := r.Register(o); err != nil {
			return err
		}
	}
	return nil
}

// LoadCatalog decodes a TOML catalog into a new registry.
func LoadCatalog(rd io.Reader) (*Registry, error) {
	r := NewRegistry()
	if err := r.Load(rd); err != nil {
		return nil, err
	}
	return r, nil
}

// LoadCatalogFile reads a TOML catalog from path into a new registry.
func LoadCatalogFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "catalog %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return LoadCatalog(f)
}

var (
	builtinOnce sync.Once
	builtin     *Registry
)

// Builtin returns the registry of options used by this module. The returned
// registry is shared; callers that want to add options should create their
// own registry and Load the builtin catalog via [BuiltinCatalog].
func Builtin() *Registry {
	builtinOnce.Do(func() {
		r, err := LoadCatalog(bytes.NewReader(builtinCatalog))
		if err != nil {
			panic(fmt.Sprintf("builtin option catalog: %v", err))
		}
		builtin = r
	})
	return builtin
}

// BuiltinCatalog returns a reader over the embedded TOML catalog.
func BuiltinCatalog() io.Reader {
	return bytes.NewReader(builtinCatalog)
}
