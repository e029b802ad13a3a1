// Package engine implements the typing-test core.
//
// A Machine owns exactly one live session. Keystrokes arrive through
// HandleInput, countdown ticks through the Timer it owns, and configuration
// changes through Reset, which consults Resolve to decide whether the current
// text is reused, a custom text is installed, or a fresh text is fetched from
// a TextProvider. Every mutation happens under the Machine lock, so a tick and
// a keystroke can never both finish the same session.
//
// Text fetches and timer callbacks carry a generation number. A reset bumps
// both generations, so a fetch or tick that belongs to an older session is
// dropped when it finally arrives.
package engine
