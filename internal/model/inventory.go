package model

// Inventory operations never modify the slice they are given; each returns a
// fresh slice so callers can keep the previous version.

// AddOrMerge adds req to templates. If a matching template exists its
// quantity grows by req.Quantity, otherwise a new template is appended.
func AddOrMerge(templates []PieceTemplate, req TemplateRequest) []PieceTemplate {
	result := copyTemplates(templates)
	for i := range result {
		if result[i].Matches(req) {
			result[i].Quantity += req.Quantity
			return result
		}
	}
	return append(result, NewPieceTemplate(req.Name, req.Width, req.Height, req.Quantity))
}

// BulkAddOrMerge applies AddOrMerge for each request in order, so later
// requests can merge into templates created earlier in the same batch.
func BulkAddOrMerge(templates []PieceTemplate, reqs []TemplateRequest) []PieceTemplate {
	result := copyTemplates(templates)
	for _, req := range reqs {
		result = AddOrMerge(result, req)
	}
	return result
}

// AdjustQuantity changes the quantity of the template with the given ID by
// delta, flooring at zero. Unknown IDs leave the inventory unchanged.
func AdjustQuantity(templates []PieceTemplate, id string, delta int) []PieceTemplate {
	result := copyTemplates(templates)
	for i := range result {
		if result[i].ID == id {
			result[i].Quantity = max(result[i].Quantity+delta, 0)
			break
		}
	}
	return result
}

// FindTemplate returns the template with the given ID.
func FindTemplate(templates []PieceTemplate, id string) (PieceTemplate, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return PieceTemplate{}, false
}

// RemainingStock returns the number of unplaced instances across all templates.
func RemainingStock(templates []PieceTemplate) int {
	var total int
	for _, t := range templates {
		total += t.Quantity
	}
	return total
}

// copyTemplates creates a copy of a templates slice.
func copyTemplates(templates []PieceTemplate) []PieceTemplate {
	cp := make([]PieceTemplate, len(templates))
	copy(cp, templates)
	return cp
}
