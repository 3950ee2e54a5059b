package journey

// Column is one fixed-capacity display column of the journey timeline.
type Column struct {
	Pages []AnnotatedPage `json:"pages"`
	Slots int             `json:"slots"`
}

// PlanColumns packs annotated pages into display columns left to right. A
// plain page costs one slot; an exposure-annotated page costs two (it is
// rendered as the exposure card linked to the page card) and is never split
// across a column boundary. A page that would fill the current column to
// capacity or beyond starts a fresh column instead, even if that leaves the
// previous column partially filled.
func PlanColumns(pages []AnnotatedPage, capacity int) []Column {
	if capacity <= 0 {
		capacity = DefaultColumnSlots
	}
	if len(pages) == 0 {
		return nil
	}

	var columns []Column
	current := Column{}
	for _, page := range pages {
		cost := page.SlotCost()
		if len(current.Pages) > 0 && current.Slots+cost >= capacity {
			columns = append(columns, current)
			current = Column{}
		}
		current.Pages = append(current.Pages, page)
		current.Slots += cost
	}
	return append(columns, current)
}
