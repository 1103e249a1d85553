package report

import (
	"fmt"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// editHistory simulates a created report followed by k updates, the way
// the repository applies them, and returns the live definition plus the
// accumulated version history.
func editHistory(k int) (ReportDefinition, []ReportVersion) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	def := ReportDefinition{
		ID:        primitive.NewObjectID(),
		Name:      "Accessions Register",
		Source:    "accession",
		Columns:   []string{"identifier", "title"},
		Version:   1,
		CreatedBy: "alice",
		UpdatedBy: "alice",
		CreatedAt: now,
		UpdatedAt: now,
	}
	history := []ReportVersion{snapshotOf(&def, def.CreatedBy, "initial version")}

	current := def
	for i := 1; i <= k; i++ {
		next := current
		next.Name = fmt.Sprintf("Accessions Register rev %d", i)
		next.Columns = append([]string{}, current.Columns...)
		next.UpdatedBy = "alice"
		advance(&current, &next, now.Add(time.Duration(i)*time.Hour))
		history = append(history, snapshotOf(&next, next.UpdatedBy, ""))
		current = next
	}
	return current, history
}

func TestVersionHistoryStaysContiguous(t *testing.T) {
	current, history := editHistory(4)

	if len(history) != 5 {
		t.Fatalf("history has %d entries after 4 updates, want 5", len(history))
	}
	for i, v := range history {
		if v.Version != i+1 {
			t.Errorf("history[%d].Version = %d, want %d", i, v.Version, i+1)
		}
		if v.Snapshot.Version != v.Version {
			t.Errorf("history[%d] snapshot carries version %d, want %d", i, v.Snapshot.Version, v.Version)
		}
	}
	if current.Version != 5 {
		t.Errorf("live definition at version %d, want 5", current.Version)
	}
	if history[0].Note != "initial version" {
		t.Errorf("first entry note = %q, want initial version", history[0].Note)
	}
}

func TestRestoreAppendsTargetContent(t *testing.T) {
	current, history := editHistory(4)
	target := history[1] // version 2

	now := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)
	restored := restoredFrom(&current, &target, "bob", now)
	history = append(history, snapshotOf(&restored, "bob",
		fmt.Sprintf("restored from version %d", target.Version)))

	if restored.Version != 6 {
		t.Errorf("restored definition at version %d, want 6", restored.Version)
	}
	if restored.Name != target.Snapshot.Name {
		t.Errorf("restored name = %q, want the target snapshot's %q", restored.Name, target.Snapshot.Name)
	}
	if restored.CreatedBy != "alice" || restored.UpdatedBy != "bob" {
		t.Errorf("restored ownership = %s/%s, want alice/bob", restored.CreatedBy, restored.UpdatedBy)
	}
	if restored.ID != current.ID {
		t.Error("restore changed the report id")
	}

	// the restore appended; nothing before it moved
	if len(history) != 6 {
		t.Fatalf("history has %d entries, want 6", len(history))
	}
	for i, v := range history {
		if v.Version != i+1 {
			t.Errorf("history[%d].Version = %d, want %d", i, v.Version, i+1)
		}
	}
	last := history[5]
	if last.Note != "restored from version 2" {
		t.Errorf("restore entry note = %q", last.Note)
	}
	if last.Snapshot.Name != target.Snapshot.Name {
		t.Errorf("restore snapshot name = %q, want %q", last.Snapshot.Name, target.Snapshot.Name)
	}
	if history[1].Snapshot.Name != target.Snapshot.Name {
		t.Error("restore mutated the target history entry")
	}
}
