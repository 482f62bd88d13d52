package itemset

import "github.com/tierlab/tierboard/internal/catalog"

// AllTag is the reserved tag name for the unconditional per-package
// set containing every image.
const AllTag = "all"

// AllTitle is the display title given to every "all" set.
const AllTitle = "All"

// ItemSet is a derived, selectable group of images: either every
// image in a package or the images carrying one of its tags. Item
// sets are plain values; they are recomputed from the catalog, never
// mutated.
type ItemSet struct {
	PackageName        string   `json:"package_name" yaml:"package_name"`
	PackageDisplayName string   `json:"package_display_name" yaml:"package_display_name"`
	TagName            string   `json:"tag_name" yaml:"tag_name"`
	TagTitle           string   `json:"tag_title" yaml:"tag_title"`
	Images             []string `json:"images" yaml:"images"`
}

// Derive expands a catalog into the full ordered sequence of item
// sets. Packages appear in catalog order. Each package contributes
// its "all" set first, then one set per tag that matches at least
// one image, in tag definition order. Tags matching nothing are
// suppressed rather than emitted empty; the "all" set is emitted
// even for a package with no images.
//
// Derive is deterministic and side-effect free, so the result can be
// cached for the lifetime of a loaded catalog.
func Derive(cat *catalog.Catalog) []ItemSet {
	var sets []ItemSet

	for _, pkg := range cat.Packages {
		all := ItemSet{
			PackageName:        pkg.Name,
			PackageDisplayName: pkg.DisplayName,
			TagName:            AllTag,
			TagTitle:           AllTitle,
			Images:             make([]string, 0, len(pkg.Images)),
		}
		for _, img := range pkg.Images {
			all.Images = append(all.Images, img.Filename)
		}
		sets = append(sets, all)

		for _, def := range pkg.Tags {
			var matched []string
			for _, img := range pkg.Images {
				if img.HasTag(def.Key) {
					matched = append(matched, img.Filename)
				}
			}
			if len(matched) == 0 {
				continue
			}
			sets = append(sets, ItemSet{
				PackageName:        pkg.Name,
				PackageDisplayName: pkg.DisplayName,
				TagName:            def.Key,
				TagTitle:           def.Title,
				Images:             matched,
			})
		}
	}

	return sets
}
