package configurator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/model"
	"github.com/matzehuels/stacklayout/pkg/property"
)

// Format is the encoding of a configurator file.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Filter names accepted in the filters list of a configurator file.
const (
	FilterNoOverwrite = "noOverwrite"
	FilterTargets     = "targets"
)

// File is the decoded form of a configurator file:
//
//	clearLayout = false
//	filters = ["targets"]
//
//	[tags.node]
//	"spacing.nodeNode" = 30.0
//
//	[[elements]]
//	name = "n1"
//	options = { priority = 5 }
type File struct {
	ClearLayout bool                      `toml:"clearLayout" yaml:"clearLayout" json:"clearLayout,omitempty"`
	Filters     []string                  `toml:"filters" yaml:"filters" json:"filters,omitempty"`
	Tags        map[string]map[string]any `toml:"tags" yaml:"tags" json:"tags,omitempty"`
	Elements    []ElementOptions          `toml:"elements" yaml:"elements" json:"elements,omitempty"`
}

// ElementOptions holds the options of one element, addressed by name.
type ElementOptions struct {
	Name    string         `toml:"name" yaml:"name" json:"name"`
	Options map[string]any `toml:"options" yaml:"options" json:"options"`
}

// Resolver maps an element name from a configurator file to a graph element.
type Resolver func(name string) (model.Element, bool)

// FormatFromPath infers the file format from the extension of path.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported configurator format %q", filepath.Ext(path))
}

// Decode reads a configurator file in the given format.
func Decode(r io.Reader, format Format) (*File, error) {
	var f File
	switch format {
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&f)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode configurator")
		}
		// Keys below tags.* and options are free-form and count as decoded.
		for _, k := range md.Undecoded() {
			if len(k) == 1 {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown configurator field %q", k.String())
			}
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode configurator")
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.UseNumber()
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode configurator")
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported configurator format %q", format)
	}
	return &f, nil
}

// DecodeFile reads the configurator file at path. The format is inferred
// from the extension.
func DecodeFile(path string) (*File, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "configurator %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Decode(bytes.NewReader(data), format)
}

// Build turns f into a configurator. Element names are resolved with
// resolve; reg backs the targets filter and may be nil if f does not use it.
func (f *File) Build(resolve Resolver, reg OptionLookup) (*Configurator, error) {
	c := New().SetClearLayout(f.ClearLayout)

	for _, name := range f.Filters {
		switch name {
		case FilterNoOverwrite:
			c.AddFilter(NoOverwrite)
		case FilterTargets:
			if reg == nil {
				return nil, errors.New(errors.ErrCodeInvalidInput, "filter %q needs an option registry", name)
			}
			c.AddFilter(TargetFilter(reg))
		default:
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown filter %q", name)
		}
	}

	for _, tagName := range slices.Sorted(maps.Keys(f.Tags)) {
		tag, err := model.ParseTag(tagName)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "tag %q", tagName)
		}
		if err := fill(c.ConfigureTag(tag), f.Tags[tagName]); err != nil {
			return nil, err
		}
	}

	for _, eo := range f.Elements {
		if len(eo.Options) == 0 {
			continue
		}
		if resolve == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "element options given but no graph to resolve them")
		}
		e, ok := resolve(eo.Name)
		if !ok {
			return nil, errors.New(errors.ErrCodeNotFound, "element %q not found", eo.Name)
		}
		if err := fill(c.Configure(e), eo.Options); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Load decodes a configurator file from r and builds it.
func Load(r io.Reader, format Format, resolve Resolver, reg OptionLookup) (*Configurator, error) {
	f, err := Decode(r, format)
	if err != nil {
		return nil, err
	}
	return f.Build(resolve, reg)
}

// LoadFile decodes the configurator file at path and builds it.
func LoadFile(path string, resolve Resolver, reg OptionLookup) (*Configurator, error) {
	f, err := DecodeFile(path)
	if err != nil {
		return nil, err
	}
	return f.Build(resolve, reg)
}

func fill(c *property.Container, values map[string]any) error {
	for _, id := range slices.Sorted(maps.Keys(values)) {
		if err := errors.ValidateOptionID(id); err != nil {
			return err
		}
		c.SetValue(property.ID(id), normalize(values[id]))
	}
	return nil
}

// normalize maps decoder number types onto the types option keys use.
func normalize(v any) any {
	switch x := v.(type) {
	case int64:
		return int(x)
	case uint64:
		return int(x)
	case float32:
		return float64(x)
	case json.Number:
		if !strings.ContainsAny(x.String(), ".eE") {
			if i, err := x.Int64(); err == nil {
				return int(i)
			}
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
	}
	return v
}
