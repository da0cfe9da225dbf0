package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/vinlylog/internal/models"
	"github.com/desertthunder/vinlylog/internal/shared"
)

// AuthStatus reports how a sign-in concluded.
type AuthStatus int

const (
	// StatusSignedIn means the username existed and the pin matched.
	StatusSignedIn AuthStatus = iota
	// StatusCreated means the username was new and has been registered.
	StatusCreated
)

func (s AuthStatus) String() string {
	switch s {
	case StatusSignedIn:
		return "signed_in"
	case StatusCreated:
		return "created"
	default:
		return ""
	}
}

// SignIn authenticates username against the shared document, registering
// the user when the name is unclaimed. A wrong pin fails with
// [shared.ErrPinMismatch] and writes nothing. Input is validated before
// any network call.
func (e *ShelfEngine) SignIn(ctx context.Context, username, pin string) (models.Session, AuthStatus, error) {
	username = models.CleanUsername(username)
	if username == "" {
		return models.Session{}, 0, fmt.Errorf("%w: username is required", shared.ErrInvalidInput)
	}
	if !models.ValidPin(pin) {
		return models.Session{}, 0, fmt.Errorf("%w: pin must be exactly 4 digits", shared.ErrInvalidPin)
	}

	doc, err := e.store.Fetch(ctx)
	if err != nil {
		return models.Session{}, 0, err
	}

	if user := models.FindUser(doc, username); user != nil {
		if user.Pin != pin {
			return models.Session{}, 0, shared.ErrPinMismatch
		}
		return models.Session{Username: user.Username, Pin: pin}, StatusSignedIn, nil
	}

	// Registration goes through a merge cycle: another client may have
	// claimed the name since the fetch above, so the mutator re-checks.
	status := StatusCreated
	canonical := username

	_, err = e.merge.Apply(ctx, func(doc *models.Document) error {
		if user := models.FindUser(doc, username); user != nil {
			if user.Pin != pin {
				return shared.ErrPinMismatch
			}
			status = StatusSignedIn
			canonical = user.Username
			return errUnchanged
		}

		doc.Users = append(doc.Users, models.User{
			Username:  username,
			Pin:       pin,
			Playlists: []models.LinkEntry{},
		})
		return nil
	})
	if err != nil {
		return models.Session{}, 0, err
	}

	return models.Session{Username: canonical, Pin: pin}, status, nil
}
