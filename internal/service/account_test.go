package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"memotheque/internal/domain"
)

func registerInput() RegisterInput {
	return RegisterInput{
		LastName:  "Diop",
		FirstName: "Awa",
		Email:     "awa.diop@exemple.com",
		Phone:     "771234567",
		Password:  "S3cret!",
		Confirm:   "S3cret!",
	}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	acc := newTestAccounts(t, db)
	ctx := context.Background()

	if err := acc.Register(ctx, registerInput()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	u, err := acc.Authenticate(ctx, "awa.diop@exemple.com", "S3cret!")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if u.Name != "Awa Diop" {
		t.Errorf("Name = %q, want %q", u.Name, "Awa Diop")
	}
	if u.Role != domain.RoleVisitor {
		t.Errorf("Role = %q, want visitor", u.Role)
	}

	// 口令以散列落库
	var raw domain.User
	if err := db.First(&raw, u.ID).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if raw.PasswordHash == "S3cret!" || raw.PasswordHash == "" {
		t.Error("password stored in clear or empty")
	}
}

func TestRegisterValidation(t *testing.T) {
	db := newTestDB(t)
	acc := newTestAccounts(t, db)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"missing last name", func(in *RegisterInput) { in.LastName = "" }},
		{"missing first name", func(in *RegisterInput) { in.FirstName = " " }},
		{"missing email", func(in *RegisterInput) { in.Email = "" }},
		{"missing phone", func(in *RegisterInput) { in.Phone = "" }},
		{"missing password", func(in *RegisterInput) { in.Password = "" }},
		{"missing confirmation", func(in *RegisterInput) { in.Confirm = "" }},
		{"password mismatch", func(in *RegisterInput) { in.Confirm = "autre" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := registerInput()
			tc.mutate(&in)
			if err := acc.Register(ctx, in); !errors.Is(err, ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	acc := newTestAccounts(t, db)
	ctx := context.Background()

	if err := acc.Register(ctx, registerInput()); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	in := registerInput()
	in.LastName = "Autre"
	if err := acc.Register(ctx, in); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second Register: err = %v, want ErrDuplicate", err)
	}
}

func TestAuthenticateFailures(t *testing.T) {
	db := newTestDB(t)
	acc := newTestAccounts(t, db)
	ctx := context.Background()

	if err := acc.Register(ctx, registerInput()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := acc.Authenticate(ctx, "awa.diop@exemple.com", "mauvais"); !errors.Is(err, ErrAuth) {
		t.Fatalf("wrong password: err = %v, want ErrAuth", err)
	}
	if _, err := acc.Authenticate(ctx, "inconnu@exemple.com", "S3cret!"); !errors.Is(err, ErrAuth) {
		t.Fatalf("unknown email: err = %v, want ErrAuth", err)
	}

	// 失败尝试记录邮箱且不挂用户
	e := lastLog(t, db)
	if !strings.Contains(e.Action, "Tentative de connexion échouée") {
		t.Errorf("last log = %q, want failed-login entry", e.Action)
	}
	if e.UserID != nil {
		t.Error("failed login should not reference a user")
	}
}

func TestUpdatePassword(t *testing.T) {
	db := newTestDB(t)
	acc := newTestAccounts(t, db)
	ctx := context.Background()

	if err := acc.Register(ctx, registerInput()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := acc.UpdatePassword(ctx, "awa.diop@exemple.com", "Nouv3au!"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	if _, err := acc.Authenticate(ctx, "awa.diop@exemple.com", "S3cret!"); !errors.Is(err, ErrAuth) {
		t.Error("old password still accepted")
	}
	if _, err := acc.Authenticate(ctx, "awa.diop@exemple.com", "Nouv3au!"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}

	if err := acc.UpdatePassword(ctx, "inconnu@exemple.com", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown email: err = %v, want ErrNotFound", err)
	}
}

func TestEmailExists(t *testing.T) {
	db := newTestDB(t)
	acc := newTestAccounts(t, db)
	ctx := context.Background()

	if err := acc.Register(ctx, registerInput()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	ok, err := acc.EmailExists(ctx, "awa.diop@exemple.com")
	if err != nil || !ok {
		t.Fatalf("EmailExists = (%v, %v), want (true, nil)", ok, err)
	}
	ok, err = acc.EmailExists(ctx, "inconnu@exemple.com")
	if err != nil || ok {
		t.Fatalf("EmailExists = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestSeedAdmin(t *testing.T) {
	db := newTestDB(t)
	acc := newTestAccounts(t, db)
	ctx := context.Background()

	if err := acc.SeedAdmin(ctx, "admin@universite.com", "Admin@0128"); err != nil {
		t.Fatalf("SeedAdmin: %v", err)
	}
	u, err := acc.Authenticate(ctx, "admin@universite.com", "Admin@0128")
	if err != nil {
		t.Fatalf("Authenticate seeded admin: %v", err)
	}
	if u.Role != domain.RoleAdmin {
		t.Errorf("Role = %q, want admin", u.Role)
	}

	// 已有管理员时幂等
	if err := acc.SeedAdmin(ctx, "autre@universite.com", "x"); err != nil {
		t.Fatalf("second SeedAdmin: %v", err)
	}
	var n int64
	db.Model(&domain.User{}).Where("role = ?", domain.RoleAdmin).Count(&n)
	if n != 1 {
		t.Fatalf("admin count = %d, want 1", n)
	}
}
