// Command admin is the administration console of the hackathon platform.
package main

import (
	"log"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/trezcool/hackadmin/core"
	logsvc "github.com/trezcool/hackadmin/services/logger"
)

func main() {
	conf, err := core.NewConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	cli := newCommandLine(conf, logger, prometheus.NewRegistry(), os.Stdout)
	if err = cli.run(os.Args); err != nil {
		printError(os.Stderr, err, cli.translator)
		os.Exit(1)
	}
}
