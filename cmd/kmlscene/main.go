package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/OCAP2/kmlscene/internal/worker"
	"github.com/spf13/pflag"
)

const AppName = "kmlscene"

const usage = `usage: kmlscene [--config DIR] <command> [args]

commands:
  load FILE...        build and store KML files
  search MINX MINY MAXX MAXY
                      load --with files, then list nodes in a lon/lat box
  nearest LON LAT [K] load --with files, then list the K nodes closest to a point
  list                list stored documents
  nodes ID            print the stored nodes of a document as JSON
  migrate             create the database schema
  backups             list SQLite dumps in the dump directory
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet(AppName, pflag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	configDir := fs.StringP("config", "c", ".", "directory holding "+AppName+".cfg.json")
	with := fs.StringSlice("with", nil, "KML files to load before a search or nearest query")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return errors.New("no command given")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := newApp(ctx, *configDir)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	cmd, cmdArgs := strings.ToLower(rest[0]), rest[1:]
	switch cmd {
	case "load":
		if len(cmdArgs) == 0 {
			return errors.New("no KML files provided")
		}
		return a.load(ctx, cmdArgs)
	case "search":
		return a.query(ctx, *with, worker.CmdSearch, cmdArgs)
	case "nearest":
		return a.query(ctx, *with, worker.CmdNearest, cmdArgs)
	case "list":
		return a.listDocuments()
	case "nodes":
		if len(cmdArgs) != 1 {
			return errors.New("nodes needs one document ID")
		}
		return a.printNodes(cmdArgs[0])
	case "migrate":
		return a.migrate()
	case "backups":
		return a.listBackups()
	default:
		fs.Usage()
		return fmt.Errorf("unknown command: %s", cmd)
	}
}
