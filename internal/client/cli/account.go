package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
)

// List prints all registered accounts.
func (a *App) List(ctx context.Context) error {
	list, err := a.api.List(ctx)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	if len(list) == 0 {
		fmt.Println("No users")
		return nil
	}

	for _, u := range list {
		fmt.Printf("%s  %s  %s  %s\n", u.ID, u.Login, u.Email, u.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

// Update changes the e-mail of an account and replaces the session token
// when the updated account is the current one.
func (a *App) Update(ctx context.Context) error {

	login, err := GetSimpleText(a.reader, "Enter login", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	email, err := GetSimpleText(a.reader, "Enter new e-mail", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	token, err := a.api.Update(ctx, login, email)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	if login == a.userName {
		a.token = token
	}
	fmt.Println("Updated")
	return nil
}

// Delete removes an account by id.
func (a *App) Delete(ctx context.Context) error {

	id, err := GetSimpleText(a.reader, "Enter user id", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	if err := a.api.Delete(ctx, id); err != nil {
		fmt.Println(err.Error())
		return err
	}

	fmt.Println("Deleted")
	return nil
}

// Whoami decodes the current session token and prints its claims.
func (a *App) Whoami(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Println("Not logged in")
		return nil
	}

	claims, err := a.api.Claims(ctx, a.token)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	names := make([]string, 0, len(claims))
	for name := range claims {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s: %s\n", name, claims[name])
	}
	return nil
}

// Expired reports whether the current session token is past its validity day.
func (a *App) Expired(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Println("Not logged in")
		return nil
	}

	expired, err := a.api.HasExpired(ctx, a.token)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	if expired {
		fmt.Println("Token has expired")
	} else {
		fmt.Println("Token is still valid")
	}
	return nil
}
