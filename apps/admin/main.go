package main

import (
	"log"
	"os"

	"github.com/trezcool/rekodi/core"
	"github.com/trezcool/rekodi/core/enrollment"
	"github.com/trezcool/rekodi/core/report"
	"github.com/trezcool/rekodi/core/user"
	emailsvc "github.com/trezcool/rekodi/services/email"
	logsvc "github.com/trezcool/rekodi/services/logger"
	"github.com/trezcool/rekodi/storage"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	// set up DB; migrations are left to the "migrate" command
	repos, err := storage.Open(conf, false)
	if err != nil {
		logger.Fatal("setting up database", err)
	}

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	validate, translator := core.NewValidator()
	user.RegisterValidators(validate, translator, conf.WorkDir)
	enrollment.RegisterValidators(validate, translator)

	// start CLI
	cli := commandLine{
		db:         repos.DB,
		usrSvc:     user.NewService(repos.User),
		reportSvc:  report.NewService(repos.Course, repos.Enrollment, mailSvc, conf),
		validate:   validate,
		translator: translator,
		out:        os.Stdout,
	}
	err = cli.run(os.Args)

	_ = repos.Close()
	logger.Close()
	if err != nil {
		if err != errHelp {
			logger.Error("command failed", err)
		}
		os.Exit(1)
	}
}
