package rail

import "wsoverview/internal/compositor"

// IconGroup summarizes one workspace's windows as a row of icons. It holds a
// non-owning handle to its workspace; the owning WorkspaceView (and through it
// the WorkspaceRail) controls its lifetime.
type IconGroup struct {
	workspace compositor.Workspace
	clone     compositor.Clone
}

func newIconGroup(ws compositor.Workspace, clone compositor.Clone) *IconGroup {
	return &IconGroup{workspace: ws, clone: clone}
}

// Workspace returns the workspace this group summarizes.
func (g *IconGroup) Workspace() compositor.Workspace { return g.workspace }

// Icons returns the current icon names, one per window.
func (g *IconGroup) Icons() []string {
	if g.clone == nil {
		return nil
	}
	return g.clone.Icons()
}
