package journal

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/alarm-watchdog/internal/domain/alarm"
)

// TestFileJournal_LoadMissing returns ErrNotFound before anything is written.
func TestFileJournal_LoadMissing(t *testing.T) {
	t.Parallel()

	j := NewFileJournal(filepath.Join(t.TempDir(), "journal.jsonl"))

	_, err := j.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

// TestFileJournal_AppendAndLoad writes two firings and reads them back in order.
func TestFileJournal_AppendAndLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j := NewFileJournal(filepath.Join(t.TempDir(), "journal.jsonl"))

	deadline := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	first := &alarm.Firing{
		ID:       "a1",
		Name:     "slow-operation",
		Message:  "\n****\nVery slow operation?\n****",
		Level:    zapcore.ErrorLevel.String(),
		Deadline: deadline,
		FiredAt:  deadline.Add(3 * time.Millisecond),
		Actor: &alarm.Actor{
			Hostname:   "build-01",
			Username:   "ci",
			PID:        4242,
			Executable: "alarm-watchdog",
		},
	}
	second := &alarm.Firing{
		ID:       "a2",
		Message:  "op X slow",
		Level:    zapcore.ErrorLevel.String(),
		Deadline: deadline.Add(time.Second),
		FiredAt:  deadline.Add(time.Second),
	}

	require.NoError(t, j.Append(ctx, first))
	require.NoError(t, j.Append(ctx, second))

	loaded, err := j.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	require.Equal(t, first, loaded[0])
	require.Equal(t, second, loaded[1])
}

// TestFileJournal_LoadCorrupted reports the offending line.
func TestFileJournal_LoadCorrupted(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "journal.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"id\":\"ok\"}\n\nnot json\n"), 0o600))

	_, err := NewFileJournal(path).Load(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 3")
}

// memoryRepository is a minimal in-memory Repository implementation for tests.
type memoryRepository struct {
	// appended stores every firing passed to Append.
	appended []*alarm.Firing
	// appendErr is returned from Append when set.
	appendErr error
}

// Append stores f in memory.
func (m *memoryRepository) Append(_ context.Context, f *alarm.Firing) error {
	if m.appendErr != nil {
		return m.appendErr
	}

	m.appended = append(m.appended, f)

	return nil
}

// Load returns everything appended so far.
func (m *memoryRepository) Load(context.Context) ([]*alarm.Firing, error) {
	return m.appended, nil
}

// TestReporter_StampsActor checks the reporter fills in the actor and copies the record.
func TestReporter_StampsActor(t *testing.T) {
	t.Parallel()

	repo := new(memoryRepository)
	actor := &alarm.Actor{Hostname: "build-01", PID: 7}

	r := NewReporter(context.Background(), repo, actor)

	f := &alarm.Firing{ID: "a1", Message: "slow"}
	r.ReportFiring(f)
	r.Report(zapcore.ErrorLevel, "plain text")

	require.Len(t, repo.appended, 2)
	require.Equal(t, actor, repo.appended[0].Actor)
	require.NotSame(t, actor, repo.appended[0].Actor)
	require.Nil(t, f.Actor)
	require.Equal(t, "plain text", repo.appended[1].Message)
	require.Equal(t, "error", repo.appended[1].Level)
}

// TestReporter_SwallowsWriteErrors keeps going when the repository fails.
func TestReporter_SwallowsWriteErrors(t *testing.T) {
	t.Parallel()

	repo := &memoryRepository{appendErr: os.ErrPermission}
	r := NewReporter(context.Background(), repo, nil)

	require.NotPanics(t, func() {
		r.Report(zapcore.ErrorLevel, "lost")
	})
	require.Empty(t, repo.appended)
}

// TestToStruct_TextOnlyFiringHasNoLateness omits lateness when there is no deadline.
func TestToStruct_TextOnlyFiringHasNoLateness(t *testing.T) {
	t.Parallel()

	textOnly, err := ToStruct(&alarm.Firing{Message: "op X slow", FiredAt: time.Now()})
	require.NoError(t, err)
	require.NotContains(t, textOnly.GetFields(), "late_ms")
	require.Empty(t, textOnly.GetFields()["deadline"].GetStringValue())

	deadline := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	timed, err := ToStruct(&alarm.Firing{Deadline: deadline, FiredAt: deadline.Add(250 * time.Millisecond)})
	require.NoError(t, err)
	require.InDelta(t, 250, timed.GetFields()["late_ms"].GetNumberValue(), 0.001)
}

// TestFileJournal_Path returns the configured location.
func TestFileJournal_Path(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "journal.jsonl")
	require.Equal(t, path, NewFileJournal(path).Path())
}
