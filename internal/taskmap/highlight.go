package taskmap

import "github.com/pixil98/go-colony/internal/game"

// Highlight is how a cell with tasks is shown to the player.
type Highlight int

const (
	HighlightNone Highlight = iota
	HighlightTask
	HighlightMarked
	HighlightPriority
)

func (h Highlight) String() string {
	switch h {
	case HighlightTask:
		return "task"
	case HighlightMarked:
		return "marked"
	case HighlightPriority:
		return "priority"
	default:
		return "none"
	}
}

// SetHighlightType overrides the highlight of pos. Setting HighlightNone
// clears the override.
func (m *TaskMap) SetHighlightType(pos game.Position, h Highlight) {
	if h == HighlightNone {
		delete(m.highlights, pos)
		return
	}
	m.highlights[pos] = h
}

// GetHighlightType returns the highlight of pos. Priority tasks always show
// as priority.
func (m *TaskMap) GetHighlightType(pos game.Position) Highlight {
	if m.HasPriorityTasks(pos) {
		return HighlightPriority
	}
	if h, ok := m.highlights[pos]; ok {
		return h
	}
	if m.HasTask(pos) {
		return HighlightTask
	}
	return HighlightNone
}
