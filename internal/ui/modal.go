package ui

// Modal is the open flag of a page's form overlay. Controllers flip it
// through Show and Hide; views read it to decide what to render and
// where keys go.
type Modal struct {
	open bool
}

// NewModal returns a closed modal.
func NewModal() *Modal { return &Modal{} }

func (m *Modal) Show()      { m.open = true }
func (m *Modal) Hide()      { m.open = false }
func (m *Modal) Open() bool { return m.open }

// BackMsg asks the root model to leave the current page.
type BackMsg struct{}

// FormWidth clamps a form width to something readable.
func FormWidth(width int) int {
	w := width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

// FormHeight clamps a form height to the content area.
func FormHeight(height int) int {
	h := height - 6
	if h < 10 {
		h = 10
	}
	return h
}
