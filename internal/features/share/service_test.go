package share

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-archive/internal/common/apperr"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestNewToken(t *testing.T) {
	a, err := newToken()
	if err != nil {
		t.Fatalf("newToken() error = %v", err)
	}
	if len(a) != 64 {
		t.Errorf("token length = %d, want 64", len(a))
	}
	for _, r := range a {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			t.Fatalf("token contains non-hex character %q", r)
		}
	}

	b, err := newToken()
	if err != nil {
		t.Fatalf("newToken() error = %v", err)
	}
	if a == b {
		t.Error("two tokens should never collide")
	}
}

func TestShareExpiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(30 * time.Minute)
	past := now.Add(-time.Second)

	tests := []struct {
		name      string
		expiresAt *time.Time
		ttlHours  int
		want      time.Time
		wantErr   bool
	}{
		{name: "absolute timestamp", expiresAt: &future, want: future},
		{name: "absolute wins over ttl", expiresAt: &future, ttlHours: 5, want: future},
		{name: "past timestamp makes a born-expired link", expiresAt: &past, want: past},
		{name: "ttl sugar", ttlHours: 2, want: now.Add(2 * time.Hour)},
		{name: "no expiry", want: time.Time{}},
		{name: "negative ttl", ttlHours: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := shareExpiry(tt.expiresAt, tt.ttlHours, now)
			if tt.wantErr {
				var validation *apperr.ValidationError
				if !errors.As(err, &validation) {
					t.Fatalf("shareExpiry() error = %v, want ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("shareExpiry() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("shareExpiry() = %v, want %v", got, tt.want)
			}
		})
	}
}

type fakeShareRepo struct {
	links map[string]*ShareLink
}

func (f *fakeShareRepo) Create(ctx context.Context, link *ShareLink) error { return nil }

func (f *fakeShareRepo) GetByToken(ctx context.Context, token string) (*ShareLink, error) {
	if link, ok := f.links[token]; ok {
		return link, nil
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeShareRepo) List(ctx context.Context, reportID primitive.ObjectID) ([]ShareLink, error) {
	return nil, nil
}

func (f *fakeShareRepo) Revoke(ctx context.Context, id primitive.ObjectID) error { return nil }

func (f *fakeShareRepo) RecordAccess(ctx context.Context, id primitive.ObjectID) error { return nil }

func TestResolveRejectsUnavailableLinks(t *testing.T) {
	repo := &fakeShareRepo{links: map[string]*ShareLink{
		"revoked": {
			ID:       primitive.NewObjectID(),
			ReportID: primitive.NewObjectID(),
			Token:    "revoked",
			IsActive: false,
		},
		"expired": {
			ID:        primitive.NewObjectID(),
			ReportID:  primitive.NewObjectID(),
			Token:     "expired",
			IsActive:  true,
			ExpiresAt: time.Now().UTC().Add(-time.Hour),
		},
	}}
	svc := &shareService{repo: repo, logger: zap.NewNop()}

	tests := []struct {
		name       string
		token      string
		wantReason apperr.UnavailableReason
	}{
		{"unknown token", "no-such-token", apperr.UnavailableInactive},
		{"revoked link", "revoked", apperr.UnavailableInactive},
		{"expired link", "expired", apperr.UnavailableExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Resolve(context.Background(), tt.token)
			var unavailable *apperr.UnavailableError
			if !errors.As(err, &unavailable) {
				t.Fatalf("Resolve() error = %v, want UnavailableError", err)
			}
			if unavailable.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", unavailable.Reason, tt.wantReason)
			}
		})
	}
}

// An unknown token must be indistinguishable from a revoked one so the
// public endpoint cannot be used to enumerate which tokens exist.
func TestResolveDoesNotLeakTokenExistence(t *testing.T) {
	repo := &fakeShareRepo{links: map[string]*ShareLink{
		"revoked": {ID: primitive.NewObjectID(), Token: "revoked", IsActive: false},
	}}
	svc := &shareService{repo: repo, logger: zap.NewNop()}

	_, errUnknown := svc.Resolve(context.Background(), "unknown")
	_, errRevoked := svc.Resolve(context.Background(), "revoked")

	var a, b *apperr.UnavailableError
	if !errors.As(errUnknown, &a) || !errors.As(errRevoked, &b) {
		t.Fatalf("expected UnavailableError for both, got %v and %v", errUnknown, errRevoked)
	}
	if a.Reason != b.Reason {
		t.Errorf("unknown (%q) and revoked (%q) tokens are distinguishable", a.Reason, b.Reason)
	}
}
