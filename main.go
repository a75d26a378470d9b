package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ankurkotwal/autosize/autosize"
)

func main() {
	debugMode, configFile := parseCliArgs()
	router, port, err := autosize.GetServer(debugMode, configFile)
	if err != nil {
		log.Fatal(err)
	}
	err = router.Run(port)
	if err != nil {
		log.Fatal(err)
	}
}

func parseCliArgs() (bool, string) {
	flag.Usage = func() {
		fmt.Printf("Usage: %s [flags]\n\n", filepath.Base(os.Args[0]))
		fmt.Printf("Serves font size fitting strategies and previews.\n")
		flag.PrintDefaults()
	}
	var debugMode bool
	flag.BoolVar(&debugMode, "d", false, "Enable debug mode & deploy test and pprof handlers.")
	var configFile string
	flag.StringVar(&configFile, "c", "config/config.yaml", "Configuration file.")
	flag.Parse()
	return debugMode, configFile
}
