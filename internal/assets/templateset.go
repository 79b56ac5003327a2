package assets

// TemplateSet holds the three chrome blocks injected at document boundaries.
type TemplateSet struct {
	Name  string // Identifier (name or directory path)
	Head  string // head.html: inserted after the opening head tag
	Upper string // upper.html: inserted after the opening body tag
	Lower string // lower.html: inserted before the closing body tag
}

// DefaultTemplateSetName is the name of the built-in template set.
const DefaultTemplateSetName = "default"

// templateFiles lists the files every set must provide, in injection order.
var templateFiles = []string{"head.html", "upper.html", "lower.html"}

// newTemplateSet assembles a set from file contents keyed by templateFiles.
func newTemplateSet(name string, files map[string]string) *TemplateSet {
	return &TemplateSet{
		Name:  name,
		Head:  files["head.html"],
		Upper: files["upper.html"],
		Lower: files["lower.html"],
	}
}
