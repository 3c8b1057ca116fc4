package engine

// terminalKind discriminates how a request's Respond stage ended. The node
// set is closed: a request either produced a normal answer or degraded to a
// fallback message. There is no third case and no unhandled fault path.
type terminalKind int

const (
	terminalNormal terminalKind = iota
	terminalDegraded
)

// terminal is the tagged outcome of the Respond stage. Both kinds carry a
// valid user-facing text; degraded terminals also carry their cause for
// logging and for the degraded flag on the recorded turn.
type terminal struct {
	kind  terminalKind
	text  string
	cause error
}

func normalTerminal(text string) terminal {
	return terminal{kind: terminalNormal, text: text}
}

func degradedTerminal(text string, cause error) terminal {
	return terminal{kind: terminalDegraded, text: text, cause: cause}
}

func (t terminal) degraded() bool {
	return t.kind == terminalDegraded
}
