package service_test

import (
	"encoding/json"
	"testing"
	"time"

	"taskflow/internal/service"
)

func TestTask_MarshalJSONRepeatsID(t *testing.T) {
	task := service.Task{
		ID:       "task-1",
		Owner:    "p1",
		Title:    "Buy milk",
		Priority: service.PriorityMedium,
		Category: service.DefaultCategory,
		Date:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fields["id"] != "task-1" {
		t.Errorf("expected id task-1, got %v", fields["id"])
	}
	if fields["_id"] != "task-1" {
		t.Errorf("expected _id task-1, got %v", fields["_id"])
	}
	if fields["title"] != "Buy milk" {
		t.Errorf("expected title Buy milk, got %v", fields["title"])
	}

	var back service.Task
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.ID != "task-1" || back.Title != "Buy milk" {
		t.Errorf("expected decoded task to keep id and title, got %+v", back)
	}
}

func TestTask_MarshalJSONInSlice(t *testing.T) {
	data, err := json.Marshal([]service.Task{{ID: "a"}, {ID: "b"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var items []map[string]any
	if err := json.Unmarshal(data, &items); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 || items[0]["_id"] != "a" || items[1]["_id"] != "b" {
		t.Errorf("expected _id on every element, got %s", data)
	}
}
