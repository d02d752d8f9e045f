package account

import "fmt"

type (
	NotFound struct {
		Identifier string
	}

	UnknownLegacySchema struct {
		Table string
	}
)

func (n NotFound) Error() string {
	return fmt.Sprintf("account %v not found", n.Identifier)
}

func (u UnknownLegacySchema) Error() string {
	return fmt.Sprintf("legacy table %v has no recognizable identifier column", u.Table)
}
