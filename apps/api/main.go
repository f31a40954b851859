// Command api serves an in-memory hackathon platform the admin console can be pointed at.
package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	echoapi "github.com/trezcool/hackadmin/apps/api/echo"
	"github.com/trezcool/hackadmin/apps/shared"
	"github.com/trezcool/hackadmin/core"
	logsvc "github.com/trezcool/hackadmin/services/logger"
	inmemdb "github.com/trezcool/hackadmin/storage/inmem"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "SANDBOX : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	db := inmemdb.NewDB()
	err = inmemdb.Seed(db, inmemdb.SeedOptions{
		AdminEmail:        conf.Sandbox.AdminEmail,
		AdminPassword:     conf.Sandbox.AdminPassword,
		ExposeDomainCodes: conf.Sandbox.ExposeDomainCodes,
	})
	if err != nil {
		logger.Fatal(fmt.Sprintf("seeding sandbox: %v", err), err)
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Sandbox initializing : version %q", conf.Build))
	defer logger.Info("Sandbox stopped")

	validate, translator := shared.NewValidator(conf)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	if conf.Sandbox.DebugAddr != "" {
		go func() {
			if err := http.ListenAndServe(conf.Sandbox.DebugAddr, http.DefaultServeMux); err != nil {
				logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
			}
		}()
	}

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		DB:         db,
		Validate:   validate,
		Translator: translator,
	})

	go func() {
		logger.Info(fmt.Sprintf("Sandbox listening on %s (admin: %s)", conf.Sandbox.Addr, conf.Sandbox.AdminEmail))
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Sandbox.ShutdownTimeout)
		defer cancel()

		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
