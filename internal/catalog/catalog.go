package catalog

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// TagMeta describes a tag defined by a package
type TagMeta struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Category    string `json:"category" yaml:"category"`
}

// TagDef is a tag key plus its metadata, in document order
type TagDef struct {
	Key string `json:"key"`
	TagMeta
}

// ImageEntry is a single image within a package
type ImageEntry struct {
	Filename string   `json:"filename" yaml:"filename"`
	Label    string   `json:"label" yaml:"label"`
	Tags     []string `json:"tags" yaml:"tags"`
}

// PackageEntry is a named group of images with its tag definitions
type PackageEntry struct {
	Name        string       `json:"name"`
	DisplayName string       `json:"display_name"`
	Images      []ImageEntry `json:"images"`
	Tags        []TagDef     `json:"tags"`
}

// Catalog is the immutable configuration document describing every
// package available to the board. Packages and tags keep the order
// they appear in the source document.
type Catalog struct {
	Packages []PackageEntry `json:"packages"`
}

// rawPackage matches the document shape of a single package body.
// Tags are kept as a raw node so mapping order survives decoding.
type rawPackage struct {
	DisplayName string       `yaml:"displayName"`
	Images      []ImageEntry `yaml:"images"`
	Tags        yaml.Node    `yaml:"tags"`
}

// UnmarshalYAML decodes the catalog document while preserving the
// order of the packages mapping and each package's tags mapping.
// Go maps would shuffle both, and derivation order depends on them.
func (c *Catalog) UnmarshalYAML(value *yaml.Node) error {
	var doc struct {
		Packages yaml.Node `yaml:"packages"`
	}
	if err := value.Decode(&doc); err != nil {
		return fmt.Errorf("failed to decode catalog document: %w", err)
	}

	if doc.Packages.Kind == 0 {
		return nil
	}
	if doc.Packages.Kind != yaml.MappingNode {
		return fmt.Errorf("packages must be a mapping, got yaml kind %d", doc.Packages.Kind)
	}

	for i := 0; i+1 < len(doc.Packages.Content); i += 2 {
		keyNode := doc.Packages.Content[i]
		valNode := doc.Packages.Content[i+1]

		var raw rawPackage
		if err := valNode.Decode(&raw); err != nil {
			return fmt.Errorf("failed to decode package %q: %w", keyNode.Value, err)
		}

		pkg := PackageEntry{
			Name:        keyNode.Value,
			DisplayName: raw.DisplayName,
			Images:      raw.Images,
		}

		if raw.Tags.Kind == yaml.MappingNode {
			for j := 0; j+1 < len(raw.Tags.Content); j += 2 {
				tagKey := raw.Tags.Content[j]
				tagVal := raw.Tags.Content[j+1]

				var meta TagMeta
				if err := tagVal.Decode(&meta); err != nil {
					return fmt.Errorf("failed to decode tag %q in package %q: %w", tagKey.Value, keyNode.Value, err)
				}
				pkg.Tags = append(pkg.Tags, TagDef{Key: tagKey.Value, TagMeta: meta})
			}
		}

		c.Packages = append(c.Packages, pkg)
	}

	return nil
}

// Package returns the package with the given name
func (c *Catalog) Package(name string) (*PackageEntry, bool) {
	for i := range c.Packages {
		if c.Packages[i].Name == name {
			return &c.Packages[i], true
		}
	}
	return nil, false
}

// Image returns the first image with the given filename. Duplicate
// filenames within a package resolve to the first occurrence.
func (p *PackageEntry) Image(filename string) (*ImageEntry, bool) {
	for i := range p.Images {
		if p.Images[i].Filename == filename {
			return &p.Images[i], true
		}
	}
	return nil, false
}

// Tag returns the metadata for the given tag key
func (p *PackageEntry) Tag(key string) (TagMeta, bool) {
	for _, def := range p.Tags {
		if def.Key == key {
			return def.TagMeta, true
		}
	}
	return TagMeta{}, false
}

// HasTag reports whether the image carries the given tag key
func (e *ImageEntry) HasTag(key string) bool {
	for _, tag := range e.Tags {
		if tag == key {
			return true
		}
	}
	return false
}
