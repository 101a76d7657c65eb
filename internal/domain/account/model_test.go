package account_test

import (
	"testing"
	"time"

	"churchsite/internal/domain/account"
)

// TestAccount_Validate tests validation of Account.
func TestAccount_Validate(t *testing.T) {
	tests := []struct {
		name    string
		account account.Account
		wantErr error
	}{
		{"valid admin", account.Account{Username: "admin", Role: account.RoleAdmin}, nil},
		{"valid editor with email", account.Account{Username: "jo.smith", Email: "jo@church.org", Role: account.RoleEditor}, nil},
		{"empty username", account.Account{Role: account.RoleAdmin}, account.ErrEmptyUsername},
		{"uppercase username", account.Account{Username: "Admin", Role: account.RoleAdmin}, account.ErrInvalidUsername},
		{"spaces in username", account.Account{Username: "jo smith", Role: account.RoleAdmin}, account.ErrInvalidUsername},
		{"bad email", account.Account{Username: "jo", Email: "jo.church.org", Role: account.RoleEditor}, account.ErrInvalidEmail},
		{"unknown role", account.Account{Username: "jo", Role: "member"}, account.ErrInvalidRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.account.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestAccount_SetPassword tests password hashing.
func TestAccount_SetPassword(t *testing.T) {
	a := account.Account{}
	if err := a.SetPassword(""); err != account.ErrEmptyPassword {
		t.Errorf("empty password: got %v", err)
	}
	if err := a.SetPassword("short"); err != account.ErrPasswordTooShort {
		t.Errorf("short password: got %v", err)
	}
	if err := a.SetPassword("correct horse battery"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if a.PasswordHash == "" || a.PasswordHash == "correct horse battery" {
		t.Error("password must be stored hashed")
	}
	if err := a.CheckPassword("correct horse battery"); err != nil {
		t.Errorf("CheckPassword(correct) = %v", err)
	}
	if err := a.CheckPassword("wrong horse battery"); err != account.ErrWrongPassword {
		t.Errorf("CheckPassword(wrong) = %v", err)
	}
}

// TestAccount_CheckPassword_NoHash verifies an account without a hash never authenticates.
func TestAccount_CheckPassword_NoHash(t *testing.T) {
	a := account.Account{}
	if err := a.CheckPassword(""); err != account.ErrWrongPassword {
		t.Errorf("CheckPassword = %v, want ErrWrongPassword", err)
	}
}

// TestAccount_Lockout tests the failed-login lockout window.
func TestAccount_Lockout(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	a := account.Account{}
	for i := 0; i < account.MaxFailedLogins-1; i++ {
		a.RecordFailedLogin(now)
	}
	if a.IsLocked(now) {
		t.Fatal("should not lock before the fifth failure")
	}
	a.RecordFailedLogin(now)
	if !a.IsLocked(now) {
		t.Fatal("should lock on the fifth failure")
	}
	if a.IsLocked(now.Add(account.LockoutDuration)) {
		t.Error("lock should expire after the lockout duration")
	}
	a.ResetFailedLogins()
	if a.FailedLogins != 0 || a.IsLocked(now) {
		t.Error("reset should clear counter and lock")
	}
}

// TestAccount_RoleChecks tests role helpers.
func TestAccount_RoleChecks(t *testing.T) {
	admin := account.Account{Role: account.RoleAdmin}
	editor := account.Account{Role: account.RoleEditor}
	if !admin.IsAdmin() || !admin.CanEdit() {
		t.Error("admin should be admin and editor")
	}
	if editor.IsAdmin() || !editor.CanEdit() {
		t.Error("editor should edit but not administer")
	}
	if (&account.Account{Role: "viewer"}).CanEdit() {
		t.Error("unknown role must not edit")
	}
	u := editor.Public()
	if u.Role != account.RoleEditor {
		t.Errorf("Public().Role = %q", u.Role)
	}
}
