package catalog

import "fmt"

// Finding is a configuration-quality issue detected in a catalog.
// Findings never block loading or item creation; the runtime paths
// recover from all of them with deterministic fallbacks.
type Finding struct {
	Package string `json:"package"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%s/%s: %s", f.Package, f.Subject, f.Message)
}

// Lint reports tag references with no definition, images with no
// label, duplicate filenames, and tags no image carries.
func (c *Catalog) Lint() []Finding {
	var findings []Finding

	for _, pkg := range c.Packages {
		seen := make(map[string]bool, len(pkg.Images))
		used := make(map[string]bool)

		for _, img := range pkg.Images {
			if seen[img.Filename] {
				findings = append(findings, Finding{
					Package: pkg.Name,
					Subject: img.Filename,
					Message: "duplicate filename, first occurrence wins",
				})
			}
			seen[img.Filename] = true

			if img.Label == "" {
				findings = append(findings, Finding{
					Package: pkg.Name,
					Subject: img.Filename,
					Message: "missing label, filename stem will be displayed",
				})
			}

			for _, tag := range img.Tags {
				used[tag] = true
				if _, ok := pkg.Tag(tag); !ok {
					findings = append(findings, Finding{
						Package: pkg.Name,
						Subject: img.Filename,
						Message: fmt.Sprintf("references undefined tag %q", tag),
					})
				}
			}
		}

		for _, def := range pkg.Tags {
			if !used[def.Key] {
				findings = append(findings, Finding{
					Package: pkg.Name,
					Subject: def.Key,
					Message: "tag matches no image, no item set will be offered",
				})
			}
		}
	}

	return findings
}
