package services

import (
	"testing"

	"github.com/hostelcare/hostelcare/internal/database"
)

func TestSignup_CreatesStudentByDefault(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, nil)

	user, err := svc.Signup(SignupInput{
		Name:     "Asha Verma",
		Email:    "asha@example.com",
		Password: "s3cret-pass",
		Hostel:   "North Wing",
		Block:    "B",
		Room:     "204",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != database.UserRoleStudent {
		t.Errorf("expected student role by default, got %s", user.Role)
	}
	if user.PasswordHash == "s3cret-pass" || user.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
}

func TestSignup_RejectsDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, nil)

	input := SignupInput{Name: "Asha Verma", Email: "asha@example.com", Password: "s3cret-pass"}
	if _, err := svc.Signup(input); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}

	_, err := svc.Signup(input)
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthenticate_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, nil)

	created, err := svc.Signup(SignupInput{Name: "Asha Verma", Email: "asha@example.com", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	user, err := svc.Authenticate("asha@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.UUID != created.UUID {
		t.Errorf("expected user %s, got %s", created.UUID, user.UUID)
	}

	if _, err := svc.Authenticate("asha@example.com", "wrong-pass"); !IsValidation(err) {
		t.Fatalf("expected validation error for wrong password, got %v", err)
	}
	if _, err := svc.Authenticate("nobody@example.com", "s3cret-pass"); !IsValidation(err) {
		t.Fatalf("expected validation error for unknown email, got %v", err)
	}
}

func TestUpdateProfile_AppliesOnlyProvidedFields(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, nil)

	created, err := svc.Signup(SignupInput{
		Name:     "Asha Verma",
		Email:    "asha@example.com",
		Password: "s3cret-pass",
		Hostel:   "North Wing",
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	phone := "+91-9999999999"
	actor := ActorFromUser(created)
	updated, err := svc.UpdateProfile(actor, UpdateProfileInput{Phone: &phone})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Phone != phone {
		t.Errorf("expected phone updated, got %s", updated.Phone)
	}
	if updated.Name != "Asha Verma" || updated.Hostel != "North Wing" {
		t.Error("unset fields must be left untouched")
	}
}
