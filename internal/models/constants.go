package models

// Priority indicates how urgent a card is.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// CardType categorizes the kind of work a card represents.
type CardType string

const (
	TypeTask          CardType = "TASK"
	TypeBug           CardType = "BUG"
	TypeEnhancement   CardType = "ENHANCEMENT"
	TypeFeature       CardType = "FEATURE"
	TypeDocumentation CardType = "DOCUMENTATION"
	TypeResearch      CardType = "RESEARCH"
)

// Valid reports whether t is one of the known card types.
func (t CardType) Valid() bool {
	switch t {
	case TypeTask, TypeBug, TypeEnhancement, TypeFeature, TypeDocumentation, TypeResearch:
		return true
	}
	return false
}

// DefaultPriority and DefaultType are applied when a create request leaves
// the field empty.
const (
	DefaultPriority = PriorityMedium
	DefaultType     = TypeTask
)
