package fileloader

import "github.com/alnah/go-fileloader/internal/fileutil"

// Recognized resource extensions.
const (
	extScript = "js"
	extStyle  = "css"
)

// ElementSpec describes the element to inject for one resource.
// It carries no host state; hosts turn it into a real element.
type ElementSpec struct {
	Category Category
	Tag      string // "script" or "link"
	Type     string // MIME type attribute
	Rel      string // "stylesheet" for styles, empty for scripts
	RefAttr  string // "src" for scripts, "href" for styles
	Ref      string // the resource path, unchanged
	Async    bool
}

// Attr is a single element attribute.
type Attr struct {
	Name  string
	Value string
}

// Attributes returns the attributes a host should set, in a stable order.
// The async flag is not included; hosts apply it as a property.
func (s ElementSpec) Attributes() []Attr {
	attrs := make([]Attr, 0, 3)
	if s.Type != "" {
		attrs = append(attrs, Attr{Name: "type", Value: s.Type})
	}
	if s.Rel != "" {
		attrs = append(attrs, Attr{Name: "rel", Value: s.Rel})
	}
	if s.RefAttr != "" {
		attrs = append(attrs, Attr{Name: s.RefAttr, Value: s.Ref})
	}
	return attrs
}

// Classify returns the category of a resource path from its extension.
func Classify(file string) Category {
	switch fileutil.Extension(file) {
	case extScript:
		return CategoryScript
	case extStyle:
		return CategoryStyle
	default:
		return CategoryUnsupported
	}
}

// NewElementSpec maps a resource path to the element that loads it.
// Returns false for unsupported resources.
func NewElementSpec(file string) (ElementSpec, bool) {
	switch Classify(file) {
	case CategoryScript:
		return ElementSpec{
			Category: CategoryScript,
			Tag:      "script",
			Type:     "text/javascript",
			RefAttr:  "src",
			Ref:      file,
			Async:    true,
		}, true
	case CategoryStyle:
		return ElementSpec{
			Category: CategoryStyle,
			Tag:      "link",
			Type:     "text/css",
			Rel:      "stylesheet",
			RefAttr:  "href",
			Ref:      file,
			Async:    true,
		}, true
	default:
		return ElementSpec{Category: CategoryUnsupported, Ref: file}, false
	}
}
