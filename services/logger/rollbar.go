// Package logsvc provides the core.Logger of the processes.
package logsvc

import (
	"context"
	"log"
	"strconv"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/rekodi/core"
	"github.com/trezcool/rekodi/core/user"
)

// RollbarLogger prints every entry to std and reports it to Rollbar.
// It is safe for concurrent use: the acting user travels with each item
// instead of being set on the shared Rollbar client.
type RollbarLogger struct {
	std  *log.Logger
	send map[string]func(...interface{})
}

var _ core.Logger = (*RollbarLogger)(nil)

// NewRollbarLogger configures the Rollbar client once per process.
// Reporting is off without a token and in test mode.
func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetEnabled(conf.RollbarToken != "" && !conf.TestMode)
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{
		std: std,
		send: map[string]func(...interface{}){
			rollbar.DEBUG: rollbar.Debug,
			rollbar.INFO:  rollbar.Info,
			rollbar.WARN:  rollbar.Warning,
			rollbar.ERR:   rollbar.Error,
			rollbar.CRIT:  rollbar.Critical,
		},
	}
}

// Close waits for the queued Rollbar items to be sent.
func (l *RollbarLogger) Close() {
	rollbar.Wait()
}

// items turns args (error, map[string]interface{} extras, user.User) into rollbar items.
// The first user.User becomes the person of the item.
func items(msg string, args []interface{}) []interface{} {
	out := make([]interface{}, 0, len(args)+1)
	out = append(out, msg)
	var person *rollbar.Person
	for _, arg := range args {
		usr, ok := arg.(user.User)
		if !ok {
			out = append(out, arg)
			continue
		}
		if person == nil {
			person = &rollbar.Person{Id: strconv.Itoa(usr.ID), Username: usr.Username, Email: usr.Email}
		}
	}
	if person != nil {
		out = append(out, rollbar.NewPersonContext(context.Background(), person))
	}
	return out
}

func (l *RollbarLogger) log(level, msg string, args []interface{}) {
	l.send[level](items(msg, args)...)
	l.std.Printf("[%s] %s", level, msg)
	for _, arg := range args {
		l.std.Printf("  %+v", arg)
	}
}

func (l *RollbarLogger) Debug(msg string, args ...interface{}) { l.log(rollbar.DEBUG, msg, args) }

func (l *RollbarLogger) Info(msg string, args ...interface{}) { l.log(rollbar.INFO, msg, args) }

func (l *RollbarLogger) Warn(msg string, args ...interface{}) { l.log(rollbar.WARN, msg, args) }

func (l *RollbarLogger) Error(msg string, args ...interface{}) { l.log(rollbar.ERR, msg, args) }

func (l *RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.log(rollbar.CRIT, msg, args)
	rollbar.Wait()
	l.std.Fatal(msg)
}
