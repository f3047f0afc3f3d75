package watchdog

import (
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/alarm-watchdog/internal/domain/alarm"
)

// AlarmsToStruct encodes infos as {"alarms": [...]}; remaining_ms and
// overdue are relative to now.
func AlarmsToStruct(infos []alarm.Info, now time.Time) (*structpb.Struct, error) {
	list := make([]any, 0, len(infos))

	for _, info := range infos {
		list = append(list, map[string]any{
			"id":           info.ID,
			"name":         info.Name,
			"deadline":     info.Deadline.UTC().Format(time.RFC3339Nano),
			"remaining_ms": float64(info.Deadline.Sub(now)) / float64(time.Millisecond),
			"throttled":    info.Throttled,
			"overdue":      info.Overdue(now),
		})
	}

	return structpb.NewStruct(map[string]any{
		"alarms": list,
	})
}

// StructToAlarms decodes the output of AlarmsToStruct.
func StructToAlarms(s *structpb.Struct) []alarm.Info {
	values := s.GetFields()["alarms"].GetListValue().GetValues()
	infos := make([]alarm.Info, 0, len(values))

	for _, v := range values {
		fields := v.GetStructValue().GetFields()

		deadline, err := time.Parse(time.RFC3339Nano, fields["deadline"].GetStringValue())
		if err != nil {
			deadline = time.Time{}
		}

		infos = append(infos, alarm.Info{
			ID:        fields["id"].GetStringValue(),
			Name:      fields["name"].GetStringValue(),
			Deadline:  deadline,
			Throttled: fields["throttled"].GetBoolValue(),
		})
	}

	return infos
}

// StatsToStruct encodes stats together with the serving version.
func StatsToStruct(stats alarm.Stats, serverVersion string) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"live":        stats.Live,
		"armed":       stats.Armed,
		"fired":       stats.Fired,
		"suppressed":  stats.Suppressed,
		"cancelled":   stats.Cancelled,
		"panics":      stats.Panics,
		"running":     stats.Running,
		"start_error": stats.StartError,
		"version":     serverVersion,
	})
}

// StructToStats decodes the output of StatsToStruct.
func StructToStats(s *structpb.Struct) (alarm.Stats, string) {
	fields := s.GetFields()

	return alarm.Stats{
		Live:       int(fields["live"].GetNumberValue()),
		Armed:      uint64(fields["armed"].GetNumberValue()),
		Fired:      uint64(fields["fired"].GetNumberValue()),
		Suppressed: uint64(fields["suppressed"].GetNumberValue()),
		Cancelled:  uint64(fields["cancelled"].GetNumberValue()),
		Panics:     uint64(fields["panics"].GetNumberValue()),
		Running:    fields["running"].GetBoolValue(),
		StartError: fields["start_error"].GetStringValue(),
	}, fields["version"].GetStringValue()
}
