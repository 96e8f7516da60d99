package progress

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *Tracker) []Step {
	var steps []Step
	for {
		step, ok := t.Tick()
		if !ok {
			return steps
		}
		steps = append(steps, step)
	}
}

func TestTrackerStepCount(t *testing.T) {
	testCases := []struct {
		name  string
		size  int64
		steps int
	}{
		{"Empty file", 0, 0},
		{"One byte", 1, 1},
		{"Exactly one increment", 1024, 1},
		{"One byte over", 1025, 2},
		{"Two increments", 2048, 2},
		{"Uneven size", 10000, 10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tr := NewTracker(tc.size, DefaultIncrement)
			steps := run(tr)

			assert.Len(t, steps, tc.steps)
			assert.True(t, tr.Done())
			// One extra firing is needed to observe completion and stop.
			assert.Equal(t, tc.steps+1, tr.Ticks())
			if tc.steps > 0 {
				assert.GreaterOrEqual(t, steps[len(steps)-1].Percent, 100.0)
			}
		})
	}
}

func TestTrackerTwoKilobytes(t *testing.T) {
	tr := NewTracker(2048, DefaultIncrement)

	step, ok := tr.Tick()
	require.True(t, ok)
	assert.Equal(t, int64(1024), step.Uploaded)
	assert.Equal(t, 50.0, step.Percent)

	step, ok = tr.Tick()
	require.True(t, ok)
	assert.Equal(t, 100.0, step.Percent)

	_, ok = tr.Tick()
	assert.False(t, ok)
	_, ok = tr.Tick()
	assert.False(t, ok)
	assert.Equal(t, 3, tr.Ticks())
}

func TestTrackerMonotonic(t *testing.T) {
	tr := NewTracker(5000, 1000)
	var last int64
	for _, step := range run(tr) {
		assert.Greater(t, step.Uploaded, last)
		last = step.Uploaded
	}
	assert.Equal(t, int64(5000), tr.Uploaded())
}

func TestStepWidthOvershoot(t *testing.T) {
	tr := NewTracker(1500, DefaultIncrement)
	steps := run(tr)
	require.Len(t, steps, 2)

	final := steps[1]
	assert.InDelta(t, 136.53, final.Percent, 0.01)
	assert.Equal(t, 100.0, final.Width(true))
	assert.Equal(t, final.Percent, final.Width(false))
	assert.InDelta(t, 68.27, steps[0].Width(true), 0.01)
}

func TestNewTrackerDefaults(t *testing.T) {
	tr := NewTracker(-10, 0)
	assert.Equal(t, int64(0), tr.Total())
	_, ok := tr.Tick()
	assert.False(t, ok)
	assert.Equal(t, 0.0, tr.Percent())

	tr = NewTracker(4096, -1)
	step, ok := tr.Tick()
	require.True(t, ok)
	assert.Equal(t, DefaultIncrement, step.Uploaded)
}

func TestFileLabel(t *testing.T) {
	assert.Equal(t, "a.txt (2 KB)", File{Name: "a.txt", Size: 2048}.Label())
	assert.Equal(t, "empty (0 Bytes)", File{Name: "empty"}.Label())
}

func TestDescribe(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), make([]byte, 2048), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "y.bin"), make([]byte, 3), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "x.bin"), nil, 0o644))

	files, err := Describe(filepath.Join(dir, "a.txt"), sub)
	require.NoError(t, err)
	assert.Equal(t, []File{
		{Name: "a.txt", Size: 2048},
		{Name: "x.bin", Size: 0},
		{Name: "y.bin", Size: 3},
	}, files)

	_, err = Describe(filepath.Join(dir, "nope"))
	assert.Error(t, err)

	files, err = Describe()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestStateText(t *testing.T) {
	data, err := json.Marshal(Status{ID: "x", State: StateSuperseded})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"state":"superseded"`)

	var s Status
	require.NoError(t, json.Unmarshal(data, &s))
	assert.Equal(t, StateSuperseded, s.State)

	var st State
	assert.Error(t, st.UnmarshalText([]byte("bogus")))
	assert.Equal(t, "unknown", State(42).String())
	assert.True(t, StateDone.Finished())
	assert.False(t, StateTicking.Finished())
}
