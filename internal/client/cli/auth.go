package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophgallery/internal/client/session"
	"github.com/dmitrijs2005/gophgallery/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register asks for a user name and the password twice, then creates the
// account and signs in. A mismatching confirmation never reaches the server.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter user name", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword("Repeat password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	sess, err := a.auth.Register(ctx, userName, password, confirm)
	if err != nil {
		return report(err)
	}

	printlnFn("Registered and signed in as " + sess.UserName)
	return a.Refresh(ctx)
}

// Login prompts for credentials and loads the gallery on success.
// The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter user name", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.auth.Login(ctx, userName, password)
	if err != nil {
		return report(err)
	}

	printlnFn("Signed in as " + sess.UserName)
	return a.Refresh(ctx)
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return report(err)
	}
	printlnFn("Logged out.")
	return nil
}

// WhoAmI shows the signed-in user and, for JWTs, when the token expires.
func (a *App) WhoAmI(ctx context.Context) error {
	sess, ok, err := a.auth.Current(ctx)
	if err != nil {
		return report(err)
	}
	if !ok {
		printlnFn("Not logged in.")
		return nil
	}

	line := "Signed in as " + sess.UserName
	if exp, ok := session.TokenExpiry(sess.Token); ok {
		line += fmt.Sprintf(", token expires %s", exp.Local().Format(dateLayout))
	}
	printlnFn(line)
	return nil
}
