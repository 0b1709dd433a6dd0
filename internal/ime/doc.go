// Package ime implements the locale/input-mode switching state machine.
//
// The decision core is platform-agnostic and talks to the operating system
// through the Platform interface: a Resolver classifies the focused input
// context as native, alphanumeric, or unknown; a Switcher drives the IME
// toward a requested mode through a fixed strategy cascade; and the
// Orchestrator branches each trigger event into a same-locale mode toggle
// or a cross-locale layout switch followed by forcing native mode.
//
// Platform backends live in platform_*.go. The Windows backend speaks
// user32/imm32; the Linux backend maps locales onto IBus global engines.
package ime
