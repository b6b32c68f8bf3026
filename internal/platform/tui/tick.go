// Package tui provides the Bubble Tea integration for MoonWalk.
// It handles the terminal UI loop, input mapping, and game orchestration.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tiltSampleInterval matches the accelerometer update rate of a phone
// controller, five samples a second.
const tiltSampleInterval = 200 * time.Millisecond

// TickMsg is sent to trigger a game simulation tick.
type TickMsg time.Time

// JumpMsg requests one jump from outside the key handler, e.g. a phone
// controller delivering taps through tea.Program.Send.
type JumpMsg struct{}

// tiltSampleMsg triggers one keyboard tilt sample.
type tiltSampleMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func tiltSampleCmd() tea.Cmd {
	return tea.Tick(tiltSampleInterval, func(t time.Time) tea.Msg {
		return tiltSampleMsg(t)
	})
}
