package logsvc

import (
	"log"
	"os"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/hackadmin/core"
	"github.com/trezcool/hackadmin/core/auth"
)

// RollbarLogger prints to std and reports to Rollbar once enabled.
type RollbarLogger struct {
	std   *log.Logger
	debug bool
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	host, _ := os.Hostname()
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std, debug: conf.Debug}
}

// Enable turns Rollbar reporting on or off. It is never enabled without a token.
func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled && rollbar.Token() != "")
}

// expected fmt: msg | error, map[string]interface{}, auth.Admin
func (l RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	var admSet bool
	newArgs := make([]interface{}, 0, len(args)+1)
	newArgs = append(newArgs, msg)
	for _, arg := range args {
		// set logged in Admin
		if adm, ok := arg.(auth.Admin); ok {
			if !admSet { // only set one Admin
				rollbar.SetPerson(adm.ID, adm.Nom, adm.Email)
				admSet = true
			}
		} else if arg != nil {
			newArgs = append(newArgs, arg)
		}
	}
	if !admSet {
		rollbar.ClearPerson()
	}
	return newArgs
}

// print writes prepared args: the message, then one line per remaining arg.
// The Admin is not among them, it only goes to Rollbar as the person.
func (l RollbarLogger) print(prepared []interface{}) {
	l.std.Println(prepared[0])
	for _, arg := range prepared[1:] {
		l.std.Printf("%+v\n", arg)
	}
}

// Debug is only printed in debug mode.
func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	if !l.debug {
		return
	}
	prepared := l.prepare(msg, args)
	rollbar.Debug(prepared...)
	l.print(prepared)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	prepared := l.prepare(msg, args)
	rollbar.Info(prepared...)
	l.print(prepared)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	prepared := l.prepare(msg, args)
	rollbar.Warning(prepared...)
	l.print(prepared)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	prepared := l.prepare(msg, args)
	rollbar.Error(prepared...)
	l.print(prepared)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	prepared := l.prepare(msg, args)
	rollbar.Critical(prepared...)
	rollbar.Wait()
	l.print(prepared)
	l.std.Fatal(msg)
}
