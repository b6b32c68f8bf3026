package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/moonwalk/internal/games/moonwalk"
)

type cue struct {
	id   moonwalk.SoundID
	wait bool
}

// cueQueue is the game's AudioPlayer inside the Bubble Tea loop. It only
// records cues; the model replays them as commands so a blocking cue never
// stalls the update loop.
type cueQueue struct {
	pending []cue
}

func (q *cueQueue) Play(id moonwalk.SoundID, wait bool) {
	q.pending = append(q.pending, cue{id: id, wait: wait})
}

// drain turns the recorded cues into commands for out.
func (q *cueQueue) drain(out moonwalk.AudioPlayer) []tea.Cmd {
	if len(q.pending) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(q.pending))
	for _, c := range q.pending {
		c := c
		cmds = append(cmds, func() tea.Msg {
			out.Play(c.id, c.wait)
			return nil
		})
	}
	q.pending = q.pending[:0]
	return cmds
}
