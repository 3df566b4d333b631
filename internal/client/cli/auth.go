package cli

import (
	"context"
	"fmt"
	"os"
)

// Register creates a new account and starts a session with the returned token.
func (a *App) Register(ctx context.Context) error {

	login, err := GetSimpleText(a.reader, "Enter login", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	email, err := GetSimpleText(a.reader, "Enter e-mail", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	token, err := a.api.Register(ctx, login, password, email)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	a.token = token
	a.userName = login
	fmt.Println("Success!")
	return nil
}

// Login authenticates and stores the session token for later commands.
func (a *App) Login(ctx context.Context) error {

	login, err := GetSimpleText(a.reader, "Enter login", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	token, err := a.api.Login(ctx, login, password)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	a.token = token
	a.userName = login
	fmt.Println("Success!")
	return nil
}

// Refresh rotates the refresh token and replaces the session token.
func (a *App) Refresh(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Println("Not logged in")
		return nil
	}

	token, err := a.api.Refresh(ctx, a.token)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	a.token = token
	fmt.Println("Session refreshed")
	return nil
}

// Logout drops the local session state. The server keeps the refresh token
// until it expires or is rotated by the next login.
func (a *App) Logout(ctx context.Context) error {
	a.token = ""
	a.userName = ""
	fmt.Println("Logged out")
	return nil
}
