package main

import (
	"io/ioutil"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/trezcool/rekodi/core"
	logsvc "github.com/trezcool/rekodi/services/logger"
)

func TestRun_shutdown(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	conf := core.NewTestConfig()
	conf.Server.Address = "localhost:0"
	conf.Server.ShutdownTimeout = time.Second
	logger := logsvc.NewRollbarLogger(log.New(ioutil.Discard, "", 0), conf)

	shutdown := make(chan os.Signal, 1)
	done := make(chan error, 1)
	go func() { done <- run(conf, logger, shutdown) }()

	shutdown <- os.Interrupt
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run() did not return after shutdown")
	}
}

func TestRun_unknownEngine(t *testing.T) {
	conf := core.NewTestConfig()
	conf.Database.Engine = "lol"
	logger := logsvc.NewRollbarLogger(log.New(ioutil.Discard, "", 0), conf)

	err := run(conf, logger, make(chan os.Signal, 1))
	assert.Error(t, err)
}
