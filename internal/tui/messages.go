package tui

// Messages for the tea program

// listRefreshedMsg is sent when a controller finished a fetch; the
// model re-snapshots on render, so the message carries no data.
type listRefreshedMsg struct {
	tab Tab
}

// actionDoneMsg is sent when a row action (archive, publish) and its
// follow-up refresh finished.
type actionDoneMsg struct{}

// submitDoneMsg is sent when the form submit flow finished, success or
// not; the form snapshot tells which.
type submitDoneMsg struct{}

// exportDoneMsg reports where an export landed, or why it did not.
type exportDoneMsg struct {
	path string
	err  error
}

// loginDoneMsg reports the outcome of a login attempt.
type loginDoneMsg struct {
	err error
}

// toastClearMsg dismisses the transient status line.
type toastClearMsg struct{}
