package itemset

import (
	"fmt"
	"strings"

	"github.com/tierlab/tierboard/internal/catalog"
	"github.com/tierlab/tierboard/internal/models"
)

// Materialize converts a selection of filenames from an item set into
// board items. Ids follow the "<package>-<tag>-item-<index>" scheme,
// with index taken from the position in the selection.
//
// Materialization is total: an unknown package or a filename with no
// catalog entry still yields an item, falling back to the filename
// stem as content and an empty tag set. Item creation is never
// blocked on missing metadata.
func Materialize(cat *catalog.Catalog, packageName, tagName string, selected []string) []models.Item {
	var pkg *catalog.PackageEntry
	if cat != nil {
		pkg, _ = cat.Package(packageName)
	}

	items := make([]models.Item, 0, len(selected))
	for index, filename := range selected {
		item := models.Item{
			ID:       fmt.Sprintf("%s-%s-item-%d", packageName, tagName, index),
			Content:  stem(filename),
			ImageURL: "/images/" + packageName + "/" + filename,
			Tags:     []string{},
		}

		if pkg != nil {
			if img, ok := pkg.Image(filename); ok {
				if img.Label != "" {
					item.Content = img.Label
				}
				if len(img.Tags) > 0 {
					item.Tags = append([]string{}, img.Tags...)
				}
			}
		}

		items = append(items, item)
	}

	return items
}

// stem strips everything from the first dot onward
func stem(filename string) string {
	if i := strings.Index(filename, "."); i >= 0 {
		return filename[:i]
	}
	return filename
}
