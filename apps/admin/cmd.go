package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/trezcool/rekodi/core/report"
	"github.com/trezcool/rekodi/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp       = errors.New("help provided")
	errNoDatabase = errors.New("no SQL database: migrations need the postgres engine")
)

type commandLine struct {
	db         *sql.DB // nil with the memory engine
	usrSvc     *user.Service
	reportSvc  *report.Service
	validate   *validator.Validate
	translator ut.Translator
	out        io.Writer
}

func (cli *commandLine) printUsage() {
	_, _ = fmt.Fprintln(cli.out, "Usage:")
	_, _ = fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command (up, down, status, ...) on the database")
	_, _ = fmt.Fprintln(cli.out, "  adduser -name NAME -username USERNAME -email EMAIL [-admin] - create a user")
	_, _ = fmt.Fprintln(cli.out, "  resetpassword -username USERNAME|EMAIL - reset user's password")
	_, _ = fmt.Fprintln(cli.out, "  summary [-term ID] [-year YEAR] [-sem SEM] [-category CAT,...] [-email ADDR,...] - course summary CSV")
}

func (cli *commandLine) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

// readPassword prompts for a password; empty passwords are a usage error.
func (cli *commandLine) readPassword(prompt string, fs *flag.FlagSet) (string, error) {
	_, _ = fmt.Fprint(cli.out, prompt)
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	_, _ = fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		fs.Usage()
		return "", errHelp
	}
	return string(pwd), nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "adduser":
		cmd := cli.flagSet("adduser")
		name := cmd.String("name", "", "The user's name.")
		uname := cmd.String("username", "", "The user's username; one of username or email is required.")
		email := cmd.String("email", "", "The user's email.")
		isAdmin := cmd.Bool("admin", false, "Give the user all roles.")
		if err := cmd.Parse(args[2:]); err != nil {
			return err
		}
		if *name == "" || (*uname == "" && *email == "") {
			cmd.Usage()
			return errHelp
		}
		pwd, err := cli.readPassword("Enter password:", cmd)
		if err != nil {
			return err
		}
		pwdConfirm, err := cli.readPassword("Confirm password:", cmd)
		if err != nil {
			return err
		}
		return cli.addUser(user.NewUser{
			Name:            *name,
			Username:        *uname,
			Email:           *email,
			Password:        pwd,
			PasswordConfirm: pwdConfirm,
		}, *isAdmin)

	case "resetpassword":
		cmd := cli.flagSet("resetpassword")
		uname := cmd.String("username", "", "The user's username or email. The password will be prompted next.")
		if err := cmd.Parse(args[2:]); err != nil {
			return err
		}
		if *uname == "" {
			cmd.Usage()
			return errHelp
		}
		pwd, err := cli.readPassword("Enter password:", cmd)
		if err != nil {
			return err
		}
		return cli.resetPassword(*uname, pwd)

	case "summary":
		cmd := cli.flagSet("summary")
		term := cmd.String("term", "", "Only count the enrollments of this school term ID.")
		year := cmd.String("year", "", "Only summarize the courses of this year level.")
		sem := cmd.String("sem", "", "Only summarize the courses of this semester.")
		cats := cmd.String("category", "", "Comma separated outcome categories; the configured ones by default.")
		emails := cmd.String("email", "", "Comma separated recipients; the CSV is printed if empty.")
		if err := cmd.Parse(args[2:]); err != nil {
			return err
		}
		filter := report.SummaryFilter{SchoolTermID: *term, Year: *year, Sem: *sem}
		if *cats != "" {
			filter.Categories = []string{*cats}
		}
		return cli.summary(filter, *emails)

	default:
		cli.printUsage()
		return errHelp
	}
}
