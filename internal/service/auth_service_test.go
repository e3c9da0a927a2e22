package service

import (
	"errors"
	"testing"

	"fridgehero-server/internal/domain"

	"github.com/supabase-community/supabase-go"
)

type mockSupabaseClient struct {
	user *domain.SupabaseUser
	err  error
}

func (m *mockSupabaseClient) Initialize() error      { return nil }
func (m *mockSupabaseClient) DB() *supabase.Client   { return nil }
func (m *mockSupabaseClient) ValidateToken(token string) (*domain.SupabaseUser, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func TestAuthService_ValidateToken(t *testing.T) {
	client := &mockSupabaseClient{user: &domain.SupabaseUser{ID: "user-1", Email: "a@b.com"}}
	svc := NewAuthService(client, NewMockLogger())

	user, err := svc.ValidateToken("token")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.ID != "user-1" {
		t.Fatalf("expected user-1, got %s", user.ID)
	}
}

func TestAuthService_ValidateToken_Invalid(t *testing.T) {
	client := &mockSupabaseClient{err: errors.New("expired")}
	svc := NewAuthService(client, NewMockLogger())

	if _, err := svc.ValidateToken("bad"); err == nil {
		t.Fatalf("expected an error for an invalid token")
	}
}
