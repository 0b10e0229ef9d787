package auth

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestRegisterAndValidate(t *testing.T) {
	mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "user@example.com", "user", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	svc := NewService("secret", mock)
	user, tokens, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "user@example.com",
		Username: "user",
		Password: "pass",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatalf("expected tokens")
	}
	if tokens.TokenType != "Bearer" {
		t.Fatalf("unexpected token type %q", tokens.TokenType)
	}

	userID, err := svc.ValidateAccessToken(tokens.AccessToken)
	if err != nil || userID != user.ID {
		t.Fatalf("validate access: %v %v", userID, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	svc := NewService("secret", nil)
	if _, _, err := svc.Register(context.Background(), RegisterRequest{Email: "a"}); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	mock := newMock(t)

	svc := NewService("secret", mock)
	hashUser, _, _ := registerUser(t, svc, mock)

	mock.ExpectQuery(`SELECT id, email, username, password_hash, created_at, updated_at`).
		WithArgs("user@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "username", "password_hash", "created_at", "updated_at"}).
			AddRow(hashUser.ID, hashUser.Email, hashUser.Username, hashUser.PasswordHash, hashUser.CreatedAt, hashUser.UpdatedAt))

	if _, _, err := svc.Login(context.Background(), LoginRequest{Email: "user@example.com", Password: "wrong"}); err == nil {
		t.Fatalf("expected invalid credentials")
	}
}

func TestLoginSuccess(t *testing.T) {
	mock := newMock(t)

	svc := NewService("secret", mock)
	user, _, _ := registerUser(t, svc, mock)

	mock.ExpectQuery(`SELECT id, email, username, password_hash, created_at, updated_at`).
		WithArgs("user@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "username", "password_hash", "created_at", "updated_at"}).
			AddRow(user.ID, user.Email, user.Username, user.PasswordHash, user.CreatedAt, user.UpdatedAt))
	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	_, tokens, err := svc.Login(context.Background(), LoginRequest{Email: "user@example.com", Password: "pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tokens.AccessToken == "" {
		t.Fatalf("expected access token")
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	mock := newMock(t)
	svc := NewService("secret", mock)
	user, tokens, _ := registerUser(t, svc, mock)

	mock.ExpectQuery(`SELECT user_id, expires_at`).
		WithArgs(tokens.RefreshToken).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "expires_at"}).
			AddRow(user.ID, time.Now().Add(time.Hour)))

	userID, err := svc.ValidateRefreshToken(context.Background(), tokens.RefreshToken)
	if err != nil || userID != user.ID {
		t.Fatalf("validate refresh: %v %v", userID, err)
	}
}

func TestRefreshTokenExpired(t *testing.T) {
	mock := newMock(t)
	svc := NewService("secret", mock)
	user, tokens, _ := registerUser(t, svc, mock)

	mock.ExpectQuery(`SELECT user_id, expires_at`).
		WithArgs(tokens.RefreshToken).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "expires_at"}).
			AddRow(user.ID, time.Now().Add(-time.Hour)))

	if _, err := svc.ValidateRefreshToken(context.Background(), tokens.RefreshToken); err == nil {
		t.Fatalf("expected expired refresh token")
	}
}

func TestValidateAccessTokenGarbage(t *testing.T) {
	svc := NewService("secret", nil)
	if _, err := svc.ValidateAccessToken("not-a-token"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestValidateAccessTokenWrongSecret(t *testing.T) {
	mock := newMock(t)
	svc := NewService("secret", mock)
	_, tokens, _ := registerUser(t, svc, mock)

	other := NewService("different", nil)
	if _, err := other.ValidateAccessToken(tokens.AccessToken); err == nil {
		t.Fatalf("expected signature mismatch")
	}
}

func TestRevoke(t *testing.T) {
	mock := newMock(t)
	svc := NewService("secret", mock)

	mock.ExpectExec(`UPDATE refresh_tokens SET revoked_at`).
		WithArgs("tok").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := svc.Revoke(context.Background(), "tok"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
}

func registerUser(t *testing.T, svc *Service, mock pgxmock.PgxPoolIface) (User, TokenResponse, error) {
	t.Helper()
	now := time.Now()
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "user@example.com", "user", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	user, tokens, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "user@example.com",
		Username: "user",
		Password: "pass",
	})
	if err != nil {
		t.Fatalf("register fixture: %v", err)
	}
	return user, tokens, err
}
