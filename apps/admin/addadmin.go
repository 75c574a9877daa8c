package main

import (
	"context"
	"time"

	"github.com/Eordinary01/View-Assignment/core"
	"github.com/Eordinary01/View-Assignment/core/user"
)

// addAdmin updates or creates a user.User with the admin role.
func (cli *commandLine) addAdmin(name, email, college, pwd string) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* upper */)
	now := time.Now().UTC()

	usr, err := cli.usrRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Name:      core.CleanString(name, true /* upper */),
			Email:     email,
			College:   core.CleanString(college, true /* upper */),
			CreatedAt: now,
		}
	}
	usr.Role = user.RoleAdmin
	usr.UpdatedAt = now
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}

	if usr.ID == "" {
		_, err = cli.usrRepo.CreateUser(ctx, usr)
	} else {
		_, err = cli.usrRepo.UpdateUser(ctx, usr)
	}
	return err
}
