package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/dmitrijs2005/jobtracker/internal/client/client"
	"github.com/dmitrijs2005/jobtracker/internal/common"
)

// getSimpleText, getTextWithDefault, getPassword and confirm are indirections
// used to facilitate testing. They point to interactive input helpers and can
// be swapped in tests.
var (
	getSimpleText      = GetSimpleText
	getTextWithDefault = GetTextWithDefault
	getPassword        = GetPassword
	confirm            = Confirm
)

// Register prompts for a name, an email and a password, creates the account
// and signs in as it.
//
// The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name (optional)", a.out)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.tracker.Register(ctx, name, email, password)
	if err != nil {
		a.reportAuthError("Registration", err)
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", u.Name)
	a.waitAndPrintList()
	return nil
}

// Login prompts for credentials and signs in. On success the list and the
// stats for the user are loaded.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.tracker.Login(ctx, email, password)
	if err != nil {
		a.reportAuthError("Login", err)
		return err
	}

	log.Printf("Login successful")
	fmt.Fprintf(a.out, "Signed in as %s\n", u.Email)
	a.waitAndPrintList()
	return nil
}

func (a *App) reportAuthError(what string, err error) {
	switch {
	case errors.Is(err, client.ErrUnavailable):
		a.setMode(ModeOffline)
		fmt.Fprintf(a.out, "%s failed: server unavailable\n", what)
	case errors.Is(err, client.ErrUnauthorized):
		fmt.Fprintf(a.out, "%s failed: invalid email or password\n", what)
	default:
		fmt.Fprintf(a.out, "%s failed: %s\n", what, err)
	}
}

// Logout clears the session, the view and the stats.
func (a *App) Logout(ctx context.Context) error {
	if err := a.tracker.Logout(ctx); err != nil {
		fmt.Fprintf(a.out, "Logout: %s\n", err)
		return err
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}
