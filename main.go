/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package main

import (
	"os"
	"strings"

	"github.com/josephgoksu/planwing/cmd"
	"github.com/josephgoksu/planwing/internal/config"
	"github.com/josephgoksu/planwing/internal/logger"
)

func main() {
	dir, err := config.GetGlobalConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	defer logger.CrashHandler{
		Dir:     dir,
		Version: cmd.GetVersion(),
		Command: strings.Join(os.Args[1:], " "),
	}.Handle()

	if err := cmd.Execute(); err != nil {
		cmd.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
