// Package ui is the Bubble Tea front end of the overview simulator.
//
// It renders the simulated compositor and the overview on top of it, and
// turns terminal input into compositor events:
//   - AppModel: root model; owns the event loop side of the program
//   - OverviewView: workspace rail, icon rail, monitor overlays, layers
//   - TraceView: recent overview sessions as span trees
//   - KeybindRegistry / KeyHandler: single keys plus SPC-prefixed commands
//   - FocusManager: rotates key focus between panels; leaving the overview
//     is delivered as focus loss
package ui
