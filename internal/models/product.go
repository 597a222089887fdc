// internal/models/product.go
package models

type Product struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
	Benefits    []string `json:"benefits"`
	Usage       string   `json:"usage"`
	SkinType    []string `json:"skin_type"`
	Price       string   `json:"price"`
	SideEffects []string `json:"side_effects"`
}

type Competitor struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
	Price       string   `json:"price"`
}

// ParsedInput is the validated input record. Competitors is never nil.
type ParsedInput struct {
	Product     Product      `json:"product"`
	Competitors []Competitor `json:"competitors"`
}

// FirstCompetitor returns the first competitor, if any.
func (p ParsedInput) FirstCompetitor() (Competitor, bool) {
	if len(p.Competitors) == 0 {
		return Competitor{}, false
	}
	return p.Competitors[0], true
}
