// Package modalstack manages a stack of named dialogs for bubbletea programs.
//
// Parts of an application ask for a dialog by name; the package keeps the
// ordered stack of live instances, draws the topmost one over the
// application and keeps the ones below it mounted but hidden, so a half
// filled form survives a nested confirmation.
//
// # Quick Start
//
//	reg := modalstack.NewRegistry()
//	_ = reg.Register(modalstack.Definition{
//	    Name:   "confirm",
//	    Render: modalstack.RenderFunc(newConfirm),
//	})
//
//	store := modalstack.NewStore()
//	mgr := modalstack.NewManager(reg, store)
//	coord := modalstack.NewCoordinator(store)
//	p := tea.NewProgram(modalstack.NewProvider(app, mgr, coord))
//
//	// anywhere in the app:
//	closeFn, err := mgr.Open("confirm", modalstack.Props{
//	    Values: map[string]any{"title": "Delete?"},
//	}, modalstack.WithAction(modalstack.ActionDelete))
//
// # Lifecycle
//
// An instance starts NEW, becomes MOUNTED the first time the Coordinator
// observes it and ends CLOSED. Closed instances are removed on a later
// update through a RemoveMsg, never during the pass that noticed them.
// Hosts without a tea.Program call Coordinator.Commit instead.
//
// # Closing
//
//   - the CloseFunc returned by Open (also Props.Close) closes the oldest
//     open instance with that name
//   - Manager.CloseInstance closes one exact instance
//   - Manager.CloseTop and the dismiss key (esc) close the top instance
//   - Manager.CloseAll and CloseAllExcept call each instance's OnClose
//     notifier and leave the actual closing to it
//
// None of the close paths fail for instances that are already closed or gone.
package modalstack
