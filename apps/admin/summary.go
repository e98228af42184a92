package main

import (
	"context"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/trezcool/rekodi/core/report"
)

// summary emails the course summary to the comma separated emails, or prints it as CSV.
func (cli *commandLine) summary(filter report.SummaryFilter, emails string) error {
	ctx := context.Background()
	if emails == "" {
		sum, err := cli.reportSvc.Summary(ctx, filter)
		if err != nil {
			return err
		}
		return report.WriteCSV(cli.out, sum)
	}

	to, err := mail.ParseAddressList(emails)
	if err != nil {
		return errors.Wrap(err, "parsing emails")
	}
	addrs := make([]mail.Address, 0, len(to))
	for _, addr := range to {
		addrs = append(addrs, *addr)
	}
	return cli.reportSvc.EmailSummary(ctx, filter, addrs...)
}
