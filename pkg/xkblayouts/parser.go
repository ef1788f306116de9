package xkblayouts

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

func ParseLayouts(path string) (*XkbConfigRegistry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

func Parse(r io.Reader) (*XkbConfigRegistry, error) {
	registry := &XkbConfigRegistry{}
	if err := xml.NewDecoder(r).Decode(registry); err != nil {
		return nil, fmt.Errorf("decode xml: %w", err)
	}

	return registry, nil
}

func (r *XkbConfigRegistry) GetLayoutPrettyName(layout, variant string) string {
	for _, l := range r.LayoutList.Layout {
		if l.ConfigItem.Name == layout {
			if variant == "" {
				return l.ConfigItem.Description
			}

			for _, v := range l.VariantList.Variant {
				if v.ConfigItem.Name == variant {
					return v.ConfigItem.Description
				}
			}
		}
	}

	return ""
}

func (r *XkbConfigRegistry) GetLayoutAndVariantFromPrettyName(prettyName string) (string, string) {
	for _, l := range r.LayoutList.Layout {
		if l.ConfigItem.Description == prettyName {
			return l.ConfigItem.Name, ""
		}

		for _, v := range l.VariantList.Variant {
			if v.ConfigItem.Description == prettyName {
				return l.ConfigItem.Name, v.ConfigItem.Name
			}
		}
	}

	return "", ""
}

// GetLayoutShortName returns the short label of a layout, such as "en" or
// "fr". Variants inherit the label of their layout unless they set one.
func (r *XkbConfigRegistry) GetLayoutShortName(layout, variant string) string {
	for _, l := range r.LayoutList.Layout {
		if l.ConfigItem.Name != layout {
			continue
		}

		for _, v := range l.VariantList.Variant {
			if variant != "" && v.ConfigItem.Name == variant && v.ConfigItem.ShortDescription != "" {
				return v.ConfigItem.ShortDescription
			}
		}
		return l.ConfigItem.ShortDescription
	}

	return ""
}

// LayoutID formats a layout the way xkb does: "us" or "us(dvorak)".
func LayoutID(layout, variant string) string {
	if variant == "" {
		return layout
	}
	return fmt.Sprintf("%s(%s)", layout, variant)
}

func SplitLayoutID(id string) (string, string) {
	layout, rest, found := strings.Cut(id, "(")
	if !found {
		return id, ""
	}
	return layout, strings.TrimSuffix(rest, ")")
}
