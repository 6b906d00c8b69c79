package session

// Intent is a user action forwarded by the presentation layer.
type Intent interface{ intent() }

type (
	// Initialize reloads the collection from durable storage.
	Initialize struct{}
	// Create appends a blank document and makes it active.
	Create struct{}
	// Select makes the document at Index active, discarding unsaved edits.
	Select struct{ Index int }
	// Edit replaces the buffer.
	Edit struct{ Text string }
	// Save commits the buffer to the active document.
	Save struct{}
	// Rename renames the active document immediately.
	Rename struct{ Name string }
	// Delete removes the active document.
	Delete struct{}
)

func (Initialize) intent() {}
func (Create) intent()     {}
func (Select) intent()     {}
func (Edit) intent()       {}
func (Save) intent()       {}
func (Rename) intent()     {}
func (Delete) intent()     {}
