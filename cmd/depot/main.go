package main

import (
	"os"

	"github.com/datatrails/go-datatrails-common/logger"

	"github.com/0xRadioAc7iv/go-depot/core"
	"github.com/0xRadioAc7iv/go-depot/internal/utils"
)

func main() {
	flags := utils.HandleCLIInputs()

	logger.New(flags.LogLevel)
	defer logger.OnExit()
	log := logger.Sugar.WithServiceName("depot")

	srv := core.Server{
		DataFilePath: flags.DataFilePath,
		Capacity:     flags.Capacity,
		Alignment:    flags.Alignment,
		StrictKeys:   flags.StrictKeys,
		ListenerPort: flags.Port,
		SyncInterval: flags.SyncInterval,
	}

	if err := srv.Start(); err != nil {
		log.Infof("error while starting: %v", err)
		logger.OnExit()
		os.Exit(1)
	}
	defer srv.Stop()

	utils.ListenForProcessInterruptOrKill(log)
}
