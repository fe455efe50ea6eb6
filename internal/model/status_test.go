package model

import "testing"

func TestTaskStatus_IsActive(t *testing.T) {
	tests := []struct {
		status   TaskStatus
		expected bool
	}{
		{TaskStatusStarting, true},
		{TaskStatusDownloading, true},
		{TaskStatusRetrying, true},
		{TaskStatusError, true},
		{TaskStatusPaused, false},
		{TaskStatusAborted, false},
		{TaskStatusFinished, false},
	}

	for _, test := range tests {
		result := test.status.IsActive()
		if result != test.expected {
			t.Errorf("TaskStatus(%s).IsActive() = %v, expected %v", test.status, result, test.expected)
		}
	}
}

func TestTaskStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   TaskStatus
		expected bool
	}{
		{TaskStatusStarting, false},
		{TaskStatusDownloading, false},
		{TaskStatusRetrying, false},
		{TaskStatusPaused, false},
		{TaskStatusError, false},
		{TaskStatusAborted, true},
		{TaskStatusFinished, true},
	}

	for _, test := range tests {
		result := test.status.IsTerminal()
		if result != test.expected {
			t.Errorf("TaskStatus(%s).IsTerminal() = %v, expected %v", test.status, result, test.expected)
		}
	}
}

func TestTaskStatus_String(t *testing.T) {
	status := TaskStatusRetrying
	expected := "Retrying"
	result := status.String()

	if result != expected {
		t.Errorf("TaskStatus.String() = %s, expected %s", result, expected)
	}
}

func TestResumeSupport_String(t *testing.T) {
	tests := map[ResumeSupport]string{
		ResumeUnknown: "Unknown",
		ResumeYes:     "Yes",
		ResumeNo:      "No",
	}
	for value, expected := range tests {
		if value.String() != expected {
			t.Errorf("ResumeSupport(%d).String() = %s, expected %s", value, value.String(), expected)
		}
	}
}
