package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mintbase/weave"
	"github.com/mintbase/weave/cmd/mintd/app"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	flagHome   = "home"
	flagConfig = "config"
	varHome    *string
	varConfig  *string
)

func init() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".mintd")
	varHome = flag.String(flagHome, defaultHome, "directory to store files under")
	varConfig = flag.String(flagConfig, "", "configuration file (default \"<home>/config.yaml\")")

	flag.CommandLine.Usage = helpMessage
}

func helpMessage() {
	fmt.Println("mintd")
	fmt.Println("        Mint token registry")
	fmt.Println("")
	fmt.Println("help    Print this message")
	fmt.Println("init    Write the genesis file of a new mint")
	fmt.Println("exec    Execute calls read from stdin, one JSON transaction per line")
	fmt.Println("check   Check calls read from stdin without executing them")
	fmt.Println("query   Query the committed state: query <path> [hex data]")
	fmt.Println("version Print the app version")
	fmt.Println(`
  -home string
        directory to store files under (default "$HOME/.mintd")
  -config string
        configuration file (default "<home>/config.yaml")`)
}

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	cmd := flag.Arg(0)
	rest := flag.Args()[1:]

	var err error
	switch cmd {
	case "help":
		helpMessage()
	case "version":
		fmt.Println(weave.Version())
	default:
		err = run(cmd, rest)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		helpMessage()
		os.Exit(1)
	}
}

func run(cmd string, args []string) error {
	if err := os.MkdirAll(*varHome, 0700); err != nil {
		return err
	}
	conf, err := app.LoadConfig(*varHome, *varConfig)
	if err != nil {
		return err
	}
	logger, err := app.Logger(*conf, os.Stderr)
	if err != nil {
		return err
	}

	switch cmd {
	case "init":
		return app.InitCmd(*conf, logger, args)
	case "exec":
		return execCmd(*conf, logger)
	case "check":
		return checkCmd(*conf, logger)
	case "query":
		return queryCmd(*conf, args)
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func execCmd(conf app.Config, logger log.Logger) error {
	base, closer, err := app.GenerateApp(conf, logger)
	if err != nil {
		return err
	}
	defer closer()
	if err := app.Ensure(base, conf.Genesis); err != nil {
		return err
	}
	return app.Execute(base, os.Stdin, os.Stdout, conf.BlockSize)
}

func checkCmd(conf app.Config, logger log.Logger) error {
	base, closer, err := app.GenerateApp(conf, logger)
	if err != nil {
		return err
	}
	defer closer()
	if err := app.Ensure(base, conf.Genesis); err != nil {
		return err
	}
	return app.Check(base, os.Stdin, os.Stdout)
}

func queryCmd(conf app.Config, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return fmt.Errorf("usage: query <path> [hex data]")
	}
	var data []byte
	if len(args) == 2 {
		var err error
		if data, err = hex.DecodeString(args[1]); err != nil {
			return fmt.Errorf("invalid query data: %s", err)
		}
	}

	// queries never publish listings
	conf.NATS.URL = ""
	base, closer, err := app.GenerateApp(conf, log.NewNopLogger())
	if err != nil {
		return err
	}
	defer closer()

	res, err := app.Query(base, args[0], data)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
