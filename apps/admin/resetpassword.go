package main

import (
	"context"

	"github.com/trezcool/rekodi/core/user"
)

func (cli *commandLine) resetPassword(uname, pwd string) error {
	ctx := context.Background()
	usr, err := cli.usrSvc.GetByUsernameOrEmail(ctx, uname)
	if err != nil {
		return err
	}
	rp := user.ResetPassword{Password: pwd, PasswordConfirm: pwd}
	if err := rp.Validate(usr, cli.validate); err != nil {
		return err
	}
	_, err = cli.usrSvc.ResetPassword(ctx, usr, pwd)
	return err
}
