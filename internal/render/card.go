package render

// Card is a collapsible section. Its expanded state is local to the card and
// only sets the initial state of the rendered <details> element.
type Card struct {
	ID       string
	Title    string
	Icon     string
	Expanded bool
}

func NewCard(id, title, icon string) *Card {
	return &Card{ID: id, Title: title, Icon: icon, Expanded: true}
}

// Toggle flips the server-side state, e.g. to render a card collapsed. In
// the browser the <details> element toggles itself without a round trip.
func (c *Card) Toggle() {
	c.Expanded = !c.Expanded
}
