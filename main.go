package main

import (
	"fmt"
	"log"
	"os"

	"github.com/glossd/slotlab/client"
	"github.com/glossd/slotlab/common"
	"github.com/glossd/slotlab/server"
)

func main() {
	args := os.Args
	cmd := "run"
	if len(args) > 1 {
		cmd = args[1]
	}

	switch cmd {
	case "run":
		conf := readConfig()
		err := server.Run(conf)
		if err != nil {
			log.Fatalf("Failed to start server: %s\n", err)
		}
	case "health":
		// exits with 1 when the server is down or unhealthy, suitable for HEALTHCHECK
		conf := readConfig()
		err := client.Health(os.Stdout, client.BaseURL(conf.Port))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	case "info":
		conf := readConfig()
		if !client.IsServerRunning(conf.Port) {
			fmt.Printf("Server isn't running on port %d\n", conf.Port)
			os.Exit(1)
		}
		err := client.Info(os.Stdout, client.BaseURL(conf.Port))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	case "help":
		printHelp()
	default:
		fmt.Printf("%s is not a valid command\n", cmd)
		printHelp()
	}
}

func readConfig() common.Config {
	conf, err := common.ReadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %s\n", err)
	}
	return conf
}

func printHelp() {
	fmt.Printf(`The commands are:
	run       start the server in the foreground, the default
	health    check the /health endpoint of the running server
	info      print the /api/info of the running server
	help      print the list of the commands
Environment:
	PORT                     port to listen on, defaults to 3000
	SLOT_NAME                deployment slot label, defaults to "unknown"
	FEATURE_TOGGLE_NEW_UI    "true" turns on the v2 UI, any other value keeps v1
	SLOTLAB_CONFIG           optional yaml config file
	SLOTLAB_ENV_FILE         optional dotenv file, defaults to .env if it exists
`)
}
