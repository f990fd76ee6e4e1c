package core

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the structural invariants of an assembled document before
// it is persisted.
func Validate(doc *Document) error {
	if err := validate.Struct(doc); err != nil {
		return fmt.Errorf("invalid menu document: %w", err)
	}

	for lang, t := range doc.Translations {
		if !doc.Aligned(t) {
			return fmt.Errorf("invalid menu document: translation %q is not aligned", lang)
		}
	}

	for _, p := range doc.Pairings {
		if _, ok := doc.Item(p.SectionIndex, p.ItemIndex); !ok {
			return fmt.Errorf(
				"invalid menu document: pairing (%d,%d) out of range",
				p.SectionIndex, p.ItemIndex,
			)
		}
	}

	return nil
}
