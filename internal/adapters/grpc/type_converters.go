package grpc

import (
	"fmt"
	"sort"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/colony-go/internal/adapters/metrics"
)

// StatusReport is the daemon's live view of every room at one tick
type StatusReport struct {
	Tick  int64
	Rooms []RoomStatus
}

// RoomStatus is one room's facility and logistics progress
type RoomStatus struct {
	Name       string
	Stock      map[string]int
	QueueDepth int

	Facility *FacilityStatus
	Task     *TaskStatus
}

// FacilityStatus is a facility's state and progress on its current batch
type FacilityStatus struct {
	ID       string
	State    string
	Target   string
	Batch    int
	Produced int
}

// TaskStatus is the progress of a room's active logistics task
type TaskStatus struct {
	ID        string
	SourceID  string
	TargetID  string
	Resource  string
	Amount    int
	Completed int
}

// Remaining is how much the task still has to move
func (t TaskStatus) Remaining() int {
	if t.Completed >= t.Amount {
		return 0
	}
	return t.Amount - t.Completed
}

// RoomStatusFromInfo converts the scheduler's polled room view
func RoomStatusFromInfo(info metrics.RoomInfo) RoomStatus {
	rs := RoomStatus{
		Name:       info.Name,
		Stock:      make(map[string]int, len(info.Stock)),
		QueueDepth: info.QueueDepth,
	}
	for c, n := range info.Stock {
		rs.Stock[c] = n
	}
	if info.FacilityID != "" {
		rs.Facility = &FacilityStatus{
			ID:       info.FacilityID,
			State:    info.FacilityState,
			Target:   info.FacilityTarget,
			Batch:    info.FacilityBatch,
			Produced: info.FacilityProduced,
		}
	}
	if info.HasTask {
		rs.Task = &TaskStatus{
			ID:        info.TaskID,
			SourceID:  info.TaskSourceID,
			TargetID:  info.TaskTargetID,
			Resource:  info.TaskResource,
			Amount:    info.TaskAmount,
			Completed: info.TaskCompleted,
		}
	}
	return rs
}

// ToProtobufStatus encodes a report as a protobuf Struct
func ToProtobufStatus(report StatusReport) (*structpb.Struct, error) {
	rooms := make([]interface{}, 0, len(report.Rooms))
	for _, r := range report.Rooms {
		stock := make(map[string]interface{}, len(r.Stock))
		for c, n := range r.Stock {
			stock[c] = n
		}
		room := map[string]interface{}{
			"name":        r.Name,
			"stock":       stock,
			"queue_depth": r.QueueDepth,
		}
		if f := r.Facility; f != nil {
			room["facility"] = map[string]interface{}{
				"id":       f.ID,
				"state":    f.State,
				"target":   f.Target,
				"batch":    f.Batch,
				"produced": f.Produced,
			}
		}
		if t := r.Task; t != nil {
			room["task"] = map[string]interface{}{
				"id":        t.ID,
				"source_id": t.SourceID,
				"target_id": t.TargetID,
				"resource":  t.Resource,
				"amount":    t.Amount,
				"completed": t.Completed,
			}
		}
		rooms = append(rooms, room)
	}

	s, err := structpb.NewStruct(map[string]interface{}{
		"tick":  report.Tick,
		"rooms": rooms,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode status: %w", err)
	}
	return s, nil
}

// FromProtobufStatus decodes a report produced by ToProtobufStatus
func FromProtobufStatus(s *structpb.Struct) (StatusReport, error) {
	fields := s.GetFields()
	report := StatusReport{Tick: int64(fields["tick"].GetNumberValue())}

	for i, v := range fields["rooms"].GetListValue().GetValues() {
		room := v.GetStructValue()
		if room == nil {
			return StatusReport{}, fmt.Errorf("room %d is not a struct", i)
		}
		rf := room.GetFields()
		rs := RoomStatus{
			Name:       rf["name"].GetStringValue(),
			Stock:      make(map[string]int),
			QueueDepth: intField(rf, "queue_depth"),
		}
		for c, n := range rf["stock"].GetStructValue().GetFields() {
			rs.Stock[c] = int(n.GetNumberValue())
		}
		if f := rf["facility"].GetStructValue(); f != nil {
			ff := f.GetFields()
			rs.Facility = &FacilityStatus{
				ID:       ff["id"].GetStringValue(),
				State:    ff["state"].GetStringValue(),
				Target:   ff["target"].GetStringValue(),
				Batch:    intField(ff, "batch"),
				Produced: intField(ff, "produced"),
			}
		}
		if t := rf["task"].GetStructValue(); t != nil {
			tf := t.GetFields()
			rs.Task = &TaskStatus{
				ID:        tf["id"].GetStringValue(),
				SourceID:  tf["source_id"].GetStringValue(),
				TargetID:  tf["target_id"].GetStringValue(),
				Resource:  tf["resource"].GetStringValue(),
				Amount:    intField(tf, "amount"),
				Completed: intField(tf, "completed"),
			}
		}
		report.Rooms = append(report.Rooms, rs)
	}

	sort.Slice(report.Rooms, func(i, j int) bool { return report.Rooms[i].Name < report.Rooms[j].Name })
	return report, nil
}

func intField(fields map[string]*structpb.Value, key string) int {
	return int(fields[key].GetNumberValue())
}
