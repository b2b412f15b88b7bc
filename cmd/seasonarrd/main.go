package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/vmunix/seasonarr/internal/config"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "Path to config file (default: discovered)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	initConfig := flag.Bool("init-config", false, "Write the example config to -config (default: XDG path) and exit")
	printConfig := flag.Bool("print-config", false, "Print the effective config and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("seasonarrd %s\n", version)
		os.Exit(0)
	}

	var err error
	switch {
	case *initConfig:
		err = writeExampleConfig(*configPath)
	case *printConfig:
		var cfg *config.Config
		if cfg, _, err = loadConfig(*configPath); err == nil {
			err = cfg.Encode(os.Stdout)
		}
	default:
		err = runServer(*configPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func writeExampleConfig(path string) error {
	if path == "" {
		path = config.DefaultPath()
	}
	err := config.WriteDefault(path)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%s already exists", path)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
