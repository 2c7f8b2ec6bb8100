package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/campusboard/timetable-backend/internal/apperr"
	"github.com/campusboard/timetable-backend/internal/repos"
	"github.com/campusboard/timetable-backend/internal/repos/testutil"
	"github.com/campusboard/timetable-backend/internal/requestdata"
)

func newAuthService(t *testing.T, db *gorm.DB, signupCode string) AuthService {
	t.Helper()
	log := testutil.Logger(t)
	return NewAuthService(db, log,
		repos.NewUserRepo(db, log),
		repos.NewUserTokenRepo(db, log),
		"test-secret", signupCode,
		time.Hour, 24*time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	db := testutil.DB(t)
	svc := newAuthService(t, db, "letmein")
	ctx := context.Background()

	in := RegisterInput{
		Email:      "Mod@Example.com",
		Password:   "supersecret",
		FirstName:  "Olga",
		LastName:   "Ivanova",
		SignupCode: "letmein",
	}
	user, err := svc.Register(ctx, in)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "mod@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.Password == "supersecret" {
		t.Fatal("password stored in plaintext")
	}

	if _, err := svc.Register(ctx, in); !apperr.IsConflict(err) {
		t.Fatalf("duplicate email: expected Conflict, got %v", err)
	}

	if _, err := svc.Login(ctx, "mod@example.com", "wrong"); !apperr.IsUnauthorized(err) {
		t.Fatalf("wrong password: expected Unauthorized, got %v", err)
	}

	pair, err := svc.Login(ctx, "MOD@example.com", "supersecret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("empty token pair")
	}

	authed, err := svc.SetContextFromToken(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := requestdata.GetRequestData(authed)
	if rd == nil || rd.UserID != user.ID {
		t.Fatalf("context principal = %+v, want user %s", rd, user.ID)
	}
}

func TestRegisterRejectsBadSignupCode(t *testing.T) {
	db := testutil.DB(t)
	svc := newAuthService(t, db, "letmein")

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:      "mod@example.com",
		Password:   "supersecret",
		FirstName:  "Olga",
		SignupCode: "guess",
	})
	if !apperr.IsForbidden(err) {
		t.Fatalf("expected Forbidden, got %v", err)
	}
}

func TestRefreshRotatesTokens(t *testing.T) {
	db := testutil.DB(t)
	svc := newAuthService(t, db, "")
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		Email:     "mod@example.com",
		Password:  "supersecret",
		FirstName: "Olga",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	pair, err := svc.Login(ctx, "mod@example.com", "supersecret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	next, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if next.RefreshToken == pair.RefreshToken {
		t.Fatal("refresh token not rotated")
	}

	// the old refresh token is dead after rotation
	if _, err := svc.Refresh(ctx, pair.RefreshToken); !apperr.IsUnauthorized(err) {
		t.Fatalf("stale refresh: expected Unauthorized, got %v", err)
	}
}

func TestSetContextFromTokenRejectsGarbage(t *testing.T) {
	db := testutil.DB(t)
	svc := newAuthService(t, db, "")

	if _, err := svc.SetContextFromToken(context.Background(), "not-a-jwt"); !apperr.IsUnauthorized(err) {
		t.Fatalf("expected Unauthorized, got %v", err)
	}
}
