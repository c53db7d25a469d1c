package service

import (
	"testing"
	"time"
)

func TestTaskCreationTime(t *testing.T) {
	tests := []struct {
		name string
		task Task
		want time.Time
	}{
		{
			name: "createdAt",
			task: Task{CreatedAt: "2024-03-01T09:30:00Z"},
			want: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		},
		{
			name: "legacy date field",
			task: Task{Date: "2023-11-15T08:00:00Z"},
			want: time.Date(2023, 11, 15, 8, 0, 0, 0, time.UTC),
		},
		{
			name: "createdAt wins over date",
			task: Task{CreatedAt: "2024-03-01T09:30:00Z", Date: "2023-11-15T08:00:00Z"},
			want: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		},
		{
			name: "unparsable createdAt falls back to date",
			task: Task{CreatedAt: "yesterday", Date: "2023-11-15T08:00:00Z"},
			want: time.Date(2023, 11, 15, 8, 0, 0, 0, time.UTC),
		},
		{
			name: "both missing",
			task: Task{},
			want: time.Time{},
		},
		{
			name: "both unparsable",
			task: Task{CreatedAt: "not-a-time", Date: "also-not"},
			want: time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.task.CreationTime()
			if !got.Equal(tt.want) {
				t.Errorf("CreationTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserProfileDisplayName(t *testing.T) {
	p := UserProfile{Name: "Alice", Username: "alice"}
	if got := p.DisplayName(); got != "Alice" {
		t.Errorf("DisplayName() = %q, want %q", got, "Alice")
	}

	p.Name = ""
	if got := p.DisplayName(); got != "alice" {
		t.Errorf("DisplayName() = %q, want %q", got, "alice")
	}
}

func TestAPIErrorMessage(t *testing.T) {
	withMsg := &APIError{StatusCode: 401, Message: "Not authorized"}
	if got := withMsg.Error(); got != "api error 401: Not authorized" {
		t.Errorf("Error() = %q", got)
	}

	bare := &APIError{StatusCode: 500}
	if got := bare.Error(); got != "api error 500" {
		t.Errorf("Error() = %q", got)
	}
}
