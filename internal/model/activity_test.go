package model_test

import (
	"testing"

	"github.com/user/reelog/internal/model"
)

func TestActivityKindForStatus(t *testing.T) {
	cases := []struct {
		status string
		want   string
	}{
		{model.StatusWatching, model.ActivityStartedWatching},
		{model.StatusWatched, model.ActivityFinishedWatching},
		{model.StatusWantToWatch, model.ActivityAddedToWatchlist},
		{model.StatusDropped, model.ActivityAddedToWatchlist},
	}

	for _, tc := range cases {
		if got := model.ActivityKindForStatus(tc.status); got != tc.want {
			t.Fatalf("状态 %s 期望动态类型 %s，实际 %s", tc.status, tc.want, got)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{
		model.StatusWantToWatch, model.StatusWatching, model.StatusWatched, model.StatusDropped,
	} {
		if !model.ValidStatus(s) {
			t.Fatalf("状态 %s 应当合法", s)
		}
	}

	for _, s := range []string{"", "paused", "WATCHED", "wish"} {
		if model.ValidStatus(s) {
			t.Fatalf("状态 %s 不应合法", s)
		}
	}
}
