package domain

import (
	"strconv"
	"strings"
	"time"
)

type Task struct {
	ID          int64
	Name        string
	Description string
	ChannelID   string
	Points      int64
	CreatedAt   time.Time
}

// ChannelURL returns a t.me link for public @username channels, empty otherwise.
func (t *Task) ChannelURL() string {
	return ChannelURL(t.ChannelID)
}

func ChannelURL(channelID string) string {
	if !strings.HasPrefix(channelID, "@") {
		return ""
	}
	return "https://t.me/" + strings.TrimPrefix(channelID, "@")
}

type TaskField string

const (
	TaskFieldName        TaskField = "name"
	TaskFieldDescription TaskField = "description"
	TaskFieldChannel     TaskField = "channel"
	TaskFieldPoints      TaskField = "points"
)

// TaskFields lists the editable task fields in form order.
var TaskFields = []FieldSpec{
	{Name: string(TaskFieldName), Label: "Name", Kind: KindText},
	{Name: string(TaskFieldDescription), Label: "Description", Kind: KindText},
	{Name: string(TaskFieldChannel), Label: "Channel", Kind: KindChannel},
	{Name: string(TaskFieldPoints), Label: "Points", Kind: KindInteger},
}

func (t *Task) Field(name TaskField) string {
	switch name {
	case TaskFieldName:
		return t.Name
	case TaskFieldDescription:
		return t.Description
	case TaskFieldChannel:
		return t.ChannelID
	case TaskFieldPoints:
		return itoa(t.Points)
	}
	return ""
}

// Set assigns a normalized value to a field.
func (t *Task) Set(name TaskField, value string) error {
	switch name {
	case TaskFieldName:
		t.Name = value
	case TaskFieldDescription:
		t.Description = value
	case TaskFieldChannel:
		t.ChannelID = value
	case TaskFieldPoints:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n < 0 {
			return ErrInvalidInput
		}
		t.Points = n
	default:
		return ErrUnknownField
	}
	return nil
}
