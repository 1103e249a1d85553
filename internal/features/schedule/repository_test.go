package schedule

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func TestDueFilterReclaimsStaleClaims(t *testing.T) {
	now := time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC)
	filter := dueFilter(now)

	if filter["is_active"] != true {
		t.Error("filter does not require an active schedule")
	}
	nextRun, ok := filter["next_run"].(bson.M)
	if !ok || nextRun["$lte"] != now {
		t.Errorf("next_run clause = %#v, want $lte %v", filter["next_run"], now)
	}

	or, ok := filter["$or"].([]bson.M)
	if !ok || len(or) != 2 {
		t.Fatalf("$or = %#v, want an idle branch and a stale branch", filter["$or"])
	}
	if or[0]["running"] != false {
		t.Errorf("idle branch = %#v", or[0])
	}
	if or[1]["running"] != true {
		t.Errorf("stale branch = %#v", or[1])
	}
	cutoff, ok := or[1]["updated_at"].(bson.M)
	if !ok {
		t.Fatalf("stale branch has no updated_at clause: %#v", or[1])
	}
	if got, want := cutoff["$lt"], now.Add(-staleClaim); got != want {
		t.Errorf("stale cutoff = %v, want %v", got, want)
	}
}
