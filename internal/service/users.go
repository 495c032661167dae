// Package service implements the HTTP handlers for the Smartsplit API.
// Each service is a struct over storage.Store; handlers validate input,
// call the store and calculator, and map failures to HTTP status codes.
// All split/amount validation happens here, at admission: once an expense
// is stored the calculator never rejects it.
package service

import (
	"context"
	"log/slog"

	"github.com/smartsplit/smartsplit/internal/auth"
	"github.com/smartsplit/smartsplit/internal/models"
	"github.com/smartsplit/smartsplit/internal/storage"
)

// findOrCreateUser resolves an email/mobile identifier to a user, creating
// an account on first use. The caller must have validated the identifier.
func findOrCreateUser(ctx context.Context, store storage.Store, identifier string) (*models.User, error) {
	var user *models.User
	var err error
	if auth.IsEmail(identifier) {
		user, err = store.GetUserByEmail(ctx, identifier)
	} else {
		user, err = store.GetUserByMobile(ctx, identifier)
	}
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user = &models.User{Name: auth.DefaultName(identifier)}
	if auth.IsEmail(identifier) {
		user.Email = identifier
	} else {
		user.Mobile = identifier
	}
	if err := store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("User auto-created", "user_id", user.ID)
	return user, nil
}

// isParticipant checks if the user is in the participants list.
func isParticipant(userID string, participants []string) bool {
	for _, p := range participants {
		if p == userID {
			return true
		}
	}
	return false
}

// displayName resolves a user ID to its best label, "Unknown" when the user
// is absent from the map.
func displayName(users map[string]*models.User, userID string) string {
	return users[userID].DisplayName()
}
