package main

import (
	"context"
	"fmt"

	"github.com/trezcool/rekodi/core/user"
)

// addUser creates an active user; admins get all roles.
func (cli *commandLine) addUser(nu user.NewUser, isAdmin bool) error {
	if isAdmin {
		nu.Roles = user.AllRoles
	}
	if err := nu.Validate(cli.validate, cli.usrSvc); err != nil {
		return err
	}
	usr, err := cli.usrSvc.Create(context.Background(), nu)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cli.out, "user #%d created\n", usr.ID)
	return err
}
