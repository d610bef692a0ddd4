package posing

// EntityGroup is a Group over a set of capabilities: undo and redo apply to
// every member's own history.
type EntityGroup struct {
	members []*Capability
}

// NewEntityGroup creates a group of the given members.
func NewEntityGroup(members ...*Capability) *EntityGroup {
	return &EntityGroup{members: members}
}

// Set replaces the members, typically when the selection changes.
func (g *EntityGroup) Set(members ...*Capability) {
	g.members = members
}

func (g *EntityGroup) Len() int {
	return len(g.members)
}

func (g *EntityGroup) CanUndo() bool {
	for _, m := range g.members {
		if m.history.CanUndo() {
			return true
		}
	}
	return false
}

func (g *EntityGroup) CanRedo() bool {
	for _, m := range g.members {
		if m.history.CanRedo() {
			return true
		}
	}
	return false
}

func (g *EntityGroup) Undo() {
	for _, m := range g.members {
		m.undoLocal()
		m.tagPose()
	}
}

func (g *EntityGroup) Redo() {
	for _, m := range g.members {
		m.redoLocal()
		m.tagPose()
	}
}
