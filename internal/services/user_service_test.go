package services_test

import (
	"testing"

	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/services"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	t.Run("hashes the password and lowercases the email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := services.NewUserService(db)
		user, err := svc.CreateUser("Maria@Example.com", "secreto123", "María", "López")
		testutil.AssertNoError(t, err)

		if user.Email != "maria@example.com" {
			t.Errorf("email = %s, want maria@example.com", user.Email)
		}
		if user.Password == "secreto123" {
			t.Error("password must be stored hashed")
		}
		if !svc.VerifyPassword(user, "secreto123") {
			t.Error("stored hash must verify against the original password")
		}
		if svc.VerifyPassword(user, "otra") {
			t.Error("wrong password must not verify")
		}
	})

	t.Run("rejects duplicate emails", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := services.NewUserService(db)
		_, err := svc.CreateUser("dup@example.com", "secreto123", "", "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("DUP@example.com", "secreto123", "", "")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		svc := services.NewUserService(db)
		_, err := svc.CreateUser("", "secreto123", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
		_, err = svc.CreateUser("a@b.com", "", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestRefreshTokenHash(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)

	svc := services.NewUserService(db)
	testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, "abc123"))

	hash, err := svc.GetRefreshTokenHash(user.ID)
	testutil.AssertNoError(t, err)
	if hash != "abc123" {
		t.Errorf("hash = %s, want abc123", hash)
	}

	// Rotation replaces the stored hash.
	testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, "def456"))
	hash, err = svc.GetRefreshTokenHash(user.ID)
	testutil.AssertNoError(t, err)
	if hash != "def456" {
		t.Errorf("hash after rotation = %s, want def456", hash)
	}
}

func TestGetUserByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)

	svc := services.NewUserService(db)
	got, err := svc.GetUserByEmail(user.Email)
	testutil.AssertNoError(t, err)
	if got.ID != user.ID {
		t.Errorf("got user %s, want %s", got.ID, user.ID)
	}

	_, err = svc.GetUserByEmail("nadie@example.com")
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}
