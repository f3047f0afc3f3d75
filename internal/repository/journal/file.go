package journal

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/alarm-watchdog/internal/config"
	"github.com/oshokin/alarm-watchdog/internal/domain/alarm"
)

// Repository defines persistence operations for firings.
type Repository interface {
	Append(ctx context.Context, f *alarm.Firing) error
	Load(ctx context.Context) ([]*alarm.Firing, error)
}

// FileJournal appends firings to a file, one JSON object per line.
// JSON is produced and consumed via protojson on structpb values so the
// records match what the introspection API serves.
type FileJournal struct {
	// path is the filesystem location of the journal.
	path string
	// mu serializes writers within the process.
	mu sync.Mutex
}

// ErrNotFound is returned when the journal file does not exist yet.
var ErrNotFound = errors.New("journal not found")

// maxRecordSize bounds a single journal line; slow-operation banners are small.
const maxRecordSize = 1 << 20

// NewFileJournal creates a journal at the provided path.
func NewFileJournal(path string) *FileJournal {
	return &FileJournal{
		path: filepath.Clean(path),
	}
}

// Path returns the journal location.
func (j *FileJournal) Path() string {
	return j.path
}

// Append writes f as one line at the end of the journal.
func (j *FileJournal) Append(_ context.Context, f *alarm.Firing) error {
	record, err := ToStruct(f)
	if err != nil {
		return fmt.Errorf("convert firing: %w", err)
	}

	data, err := protojson.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode firing: %w", err)
	}

	// protojson never emits raw newlines without Multiline, but be strict about it.
	data = append(bytes.ReplaceAll(data, []byte("\n"), nil), '\n')

	j.mu.Lock()
	defer j.mu.Unlock()

	file, err := os.OpenFile(j.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, config.DefaultFilePermissions)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}

	if _, err = file.Write(data); err != nil {
		_ = file.Close()

		return fmt.Errorf("write journal: %w", err)
	}

	if err = file.Close(); err != nil {
		return fmt.Errorf("close journal: %w", err)
	}

	return nil
}

// Load reads every firing recorded so far, oldest first.
func (j *FileJournal) Load(_ context.Context) ([]*alarm.Firing, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	file, err := os.Open(j.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("open journal: %w", err)
	}

	defer func() {
		_ = file.Close()
	}()

	var (
		firings []*alarm.Firing
		scanner = bufio.NewScanner(file)
		line    int
	)

	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordSize)

	for scanner.Scan() {
		line++

		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var record structpb.Struct
		if err = protojson.Unmarshal(raw, &record); err != nil {
			return nil, fmt.Errorf("decode journal line %d: %w", line, err)
		}

		firings = append(firings, FromStruct(&record))
	}

	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}

	return firings, nil
}

// ToStruct converts a firing into its structpb representation.
func ToStruct(f *alarm.Firing) (*structpb.Struct, error) {
	fields := map[string]any{
		"id":       f.ID,
		"message":  f.Message,
		"level":    f.Level,
		"deadline": formatTime(f.Deadline),
		"fired_at": formatTime(f.FiredAt),
	}

	// Text-only reports carry no deadline to be late against.
	if !f.Deadline.IsZero() {
		fields["late_ms"] = float64(f.Late()) / float64(time.Millisecond)
	}

	if f.Name != "" {
		fields["name"] = f.Name
	}

	if f.Actor != nil {
		fields["actor"] = map[string]any{
			"hostname":   f.Actor.Hostname,
			"username":   f.Actor.Username,
			"pid":        f.Actor.PID,
			"executable": f.Actor.Executable,
		}
	}

	return structpb.NewStruct(fields)
}

// FromStruct converts the structpb representation back into a firing.
// Unknown or malformed fields are left at their zero values.
func FromStruct(s *structpb.Struct) *alarm.Firing {
	fields := s.GetFields()

	f := &alarm.Firing{
		ID:       fields["id"].GetStringValue(),
		Name:     fields["name"].GetStringValue(),
		Message:  fields["message"].GetStringValue(),
		Level:    fields["level"].GetStringValue(),
		Deadline: parseTime(fields["deadline"].GetStringValue()),
		FiredAt:  parseTime(fields["fired_at"].GetStringValue()),
	}

	if actor := fields["actor"].GetStructValue(); actor != nil {
		af := actor.GetFields()
		f.Actor = &alarm.Actor{
			Hostname:   af["hostname"].GetStringValue(),
			Username:   af["username"].GetStringValue(),
			PID:        int(af["pid"].GetNumberValue()),
			Executable: af["executable"].GetStringValue(),
		}
	}

	return f
}

// formatTime renders t in UTC, or the empty string for the zero time.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime is the inverse of formatTime.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}

	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}

	return t
}
