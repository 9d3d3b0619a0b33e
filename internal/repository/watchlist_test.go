package repository_test

import (
	"testing"

	"github.com/user/reelog/internal/model"
	"github.com/user/reelog/internal/repository"
)

func TestApplyPrioritiesReorders(t *testing.T) {
	// 条目 A、B、C 依次分配优先级 2、0、1，读回顺序应为 B、C、A
	items := []model.WatchlistItem{
		{ID: 1, Priority: 0, Notes: "A"},
		{ID: 2, Priority: 1, Notes: "B"},
		{ID: 3, Priority: 2, Notes: "C"},
	}
	assignments := []model.PriorityAssignment{
		{ItemID: 1, Priority: 2},
		{ItemID: 2, Priority: 0},
		{ItemID: 3, Priority: 1},
	}

	got := repository.ApplyPriorities(items, assignments)

	want := []string{"B", "C", "A"}
	for i, name := range want {
		if got[i].Notes != name {
			t.Fatalf("位置 %d 期望 %s，实际 %s", i, name, got[i].Notes)
		}
	}

	// 原切片不能被改动
	if items[0].Priority != 0 || items[0].Notes != "A" {
		t.Fatalf("重排不应原地修改输入: %+v", items[0])
	}
}

func TestApplyPrioritiesKeepsUnassignedItems(t *testing.T) {
	items := []model.WatchlistItem{
		{ID: 1, Priority: 0, Notes: "A"},
		{ID: 2, Priority: 1, Notes: "B"},
		{ID: 3, Priority: 2, Notes: "C"},
	}
	// 只调整 C 到最前
	assignments := []model.PriorityAssignment{
		{ItemID: 3, Priority: -1},
	}

	got := repository.ApplyPriorities(items, assignments)

	want := []string{"C", "A", "B"}
	for i, name := range want {
		if got[i].Notes != name {
			t.Fatalf("位置 %d 期望 %s，实际 %s", i, name, got[i].Notes)
		}
	}
}

func TestApplyPrioritiesStableOnTies(t *testing.T) {
	items := []model.WatchlistItem{
		{ID: 1, Priority: 0, Notes: "A"},
		{ID: 2, Priority: 0, Notes: "B"},
	}

	got := repository.ApplyPriorities(items, nil)
	if got[0].Notes != "A" || got[1].Notes != "B" {
		t.Fatalf("同优先级应保持原有顺序: %+v", got)
	}
}
