package dashboard

import "github.com/toshiba-abbus/acprocessor/internal/acmodel"

// frameMsg logs one raw AB-bus frame in the packet pane.
type frameMsg struct {
	direction string
	data      []byte
}

// statusMsg replaces the status pane's model snapshot.
type statusMsg struct {
	model acmodel.Model
}

// stateMsg appends a state-change line to the packet pane.
type stateMsg struct {
	name string
}
