package widget

import (
	"github.com/loupe-ui/loupe/internal/element"
	"github.com/loupe-ui/loupe/internal/registry"
)

// RegisterAll is the single authoritative registration list for the
// widget catalog. New components are added here, nowhere else.
func RegisterAll(r *registry.Registry) error {
	entries := []registry.Entry{
		{
			Metadata: registry.Metadata{
				Name:        "list_item",
				Scope:       "widget",
				Description: "One row of a list: slots, indentation, disclosure, click handlers.",
			},
			New: func() any {
				return NewListItem("preview").
					Selected(true).
					Toggle(true).
					Child(element.Label("List item"))
			},
		},
		{
			Metadata: registry.Metadata{
				Name:        "disclosure",
				Scope:       "widget",
				Description: "Expand/collapse chevron for trees and section headers.",
			},
			New: func() any {
				return NewDisclosure("preview").Expanded(false)
			},
		},
	}

	for _, e := range entries {
		if err := r.Register(e); err != nil {
			return err
		}
	}
	return nil
}
