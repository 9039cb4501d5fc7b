// Package usecases - session.go keeps the widget's login flag and theme.
package usecases

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/0xcro3dile/faqbot-go/internal/domain/entities"
	"github.com/0xcro3dile/faqbot-go/internal/domain/ports"
)

// Preference keys, one set per widget client.
const (
	KeyLoggedIn    = "isLoggedIn"
	KeyCurrentUser = "currentUser"
	KeyTheme       = "theme"
)

// Login and logout messages shown by the widget.
const (
	MsgLoggedIn  = "Welcome back! You are now logged in."
	MsgLoggedOut = "You have been logged out."
)

// Credentials is the single literal demo account. Not a security boundary.
type Credentials struct {
	Username string
	Password string
}

// SessionUseCase stores per-client session flags and theme preference.
type SessionUseCase struct {
	prefs ports.Preferences
	creds Credentials
}

// NewSessionUseCase creates a SessionUseCase. Empty credentials fall back
// to admin/admin123.
func NewSessionUseCase(prefs ports.Preferences, creds Credentials) *SessionUseCase {
	if creds.Username == "" {
		creds.Username = "admin"
	}
	if creds.Password == "" {
		creds.Password = "admin123"
	}
	return &SessionUseCase{prefs: prefs, creds: creds}
}

// Login checks the literal pair and marks client as logged in.
// On mismatch the returned message tells the user which pair to use.
func (uc *SessionUseCase) Login(ctx context.Context, client, username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(uc.creds.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(uc.creds.Password)) == 1
	if !userOK || !passOK {
		return uc.InvalidCredentialsMessage(), entities.ErrInvalidCredentials
	}

	if err := uc.prefs.Set(ctx, client, KeyLoggedIn, "true"); err != nil {
		return "", fmt.Errorf("saving login: %w", err)
	}
	if err := uc.prefs.Set(ctx, client, KeyCurrentUser, username); err != nil {
		return "", fmt.Errorf("saving login: %w", err)
	}
	return MsgLoggedIn, nil
}

// InvalidCredentialsMessage names the configured demo pair.
func (uc *SessionUseCase) InvalidCredentialsMessage() string {
	return fmt.Sprintf("Invalid credentials. Use %s/%s", uc.creds.Username, uc.creds.Password)
}

// Logout clears the login flags for client.
func (uc *SessionUseCase) Logout(ctx context.Context, client string) (string, error) {
	for _, key := range []string{KeyLoggedIn, KeyCurrentUser} {
		if err := uc.prefs.Remove(ctx, client, key); err != nil {
			return "", fmt.Errorf("clearing login: %w", err)
		}
	}
	return MsgLoggedOut, nil
}

// Status reports whether client is logged in and as whom.
func (uc *SessionUseCase) Status(ctx context.Context, client string) (entities.SessionState, error) {
	flag, _, err := uc.prefs.Get(ctx, client, KeyLoggedIn)
	if err != nil {
		return entities.SessionState{}, err
	}
	user, _, err := uc.prefs.Get(ctx, client, KeyCurrentUser)
	if err != nil {
		return entities.SessionState{}, err
	}
	if flag != "true" || user == "" {
		return entities.SessionState{}, nil
	}
	return entities.SessionState{LoggedIn: true, User: user}, nil
}

// Clients returns how many widget clients hold saved preferences.
func (uc *SessionUseCase) Clients(ctx context.Context) (int, error) {
	return uc.prefs.ClientCount(ctx)
}

// Theme returns the saved theme, else dark when the client prefers it.
func (uc *SessionUseCase) Theme(ctx context.Context, client string, prefersDark bool) (entities.Theme, error) {
	saved, ok, err := uc.prefs.Get(ctx, client, KeyTheme)
	if err != nil {
		return "", err
	}
	if ok {
		switch entities.Theme(saved) {
		case entities.ThemeDark:
			return entities.ThemeDark, nil
		case entities.ThemeLight:
			return entities.ThemeLight, nil
		}
	}
	if prefersDark {
		return entities.ThemeDark, nil
	}
	return entities.ThemeLight, nil
}

// ToggleTheme flips the effective theme and saves the result.
func (uc *SessionUseCase) ToggleTheme(ctx context.Context, client string, prefersDark bool) (entities.Theme, error) {
	current, err := uc.Theme(ctx, client, prefersDark)
	if err != nil {
		return "", err
	}

	next := entities.ThemeDark
	if current == entities.ThemeDark {
		next = entities.ThemeLight
	}
	if err := uc.prefs.Set(ctx, client, KeyTheme, string(next)); err != nil {
		return "", fmt.Errorf("saving theme: %w", err)
	}
	return next, nil
}
