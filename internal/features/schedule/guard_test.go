package schedule

import (
	"testing"

	"go-archive/internal/features/events"
)

func TestEvalGuard(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		evt     events.Event
		want    bool
		wantErr bool
	}{
		{
			name:   "empty script always fires",
			script: "",
			evt:    events.Event{Name: "records_ingested"},
			want:   true,
		},
		{
			name:   "script can inspect the payload",
			script: `fire = event.rows > 100`,
			evt: events.Event{
				Name:    "records_ingested",
				Payload: map[string]any{"rows": 500},
			},
			want: true,
		},
		{
			name:   "script can decline",
			script: `fire = event.rows > 100`,
			evt: events.Event{
				Name:    "records_ingested",
				Payload: map[string]any{"rows": 3},
			},
			want: false,
		},
		{
			name:   "script sees the event name",
			script: `fire = event_name == "records_ingested"`,
			evt:    events.Event{Name: "records_ingested"},
			want:   true,
		},
		{
			name:    "broken script reports an error",
			script:  `fire = )(`,
			evt:     events.Event{Name: "records_ingested"},
			wantErr: true,
		},
		{
			name:   "script that never sets fire stays quiet",
			script: `x := 1`,
			evt:    events.Event{Name: "records_ingested"},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evalGuard(tt.script, tt.evt)
			if (err != nil) != tt.wantErr {
				t.Fatalf("evalGuard() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("evalGuard() = %v, want %v", got, tt.want)
			}
		})
	}
}
