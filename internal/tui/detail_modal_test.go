package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/dailyflow/pkg/tuitest"
)

func TestDetailModal_FitsScreen(t *testing.T) {
	tsk := seedTasks()[0]
	tsk.Description = strings.Repeat("A long paragraph about the report.\n\n", 20)

	sizes := []struct {
		name          string
		width, height int
	}{
		{"80x24", 80, 24},
		{"100x40", 100, 40},
		{"120x60", 120, 60},
	}

	for _, tt := range sizes {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetailModal(tsk, testNow, tt.width, tt.height)
			out := tuitest.StripANSI(d.Overlay(""))

			assert.Contains(t, out, "Write report")
			assert.Contains(t, out, "[esc] close")
			assert.LessOrEqual(t, len(strings.Split(out, "\n")), tt.height)
		})
	}
}
