// Command depot-dump exports a depot file to a CBOR snapshot, imports one
// back, or prints the file header.
//
//	depot-dump -file data.depot -export data.cbor
//	depot-dump -file new.depot -capacity 65521 -import data.cbor
//	depot-dump -file data.depot -header
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/datatrails/go-datatrails-common/logger"

	"github.com/0xRadioAc7iv/go-depot/core"
	"github.com/0xRadioAc7iv/go-depot/internal/snapshot"
	"github.com/0xRadioAc7iv/go-depot/internal/utils"
)

func main() {
	file := flag.String("file", utils.DefaultDataFilePath, "Depot file")
	exportPath := flag.String("export", "", "Write a snapshot of the depot to this path")
	importPath := flag.String("import", "", "Put every entry of this snapshot into the depot")
	capacity := flag.Int64("capacity", core.DefaultBucketCount, "Requested bucket count when the depot is created")
	align := flag.Int("align", 0, "Padding policy for records written by -import")
	header := flag.Bool("header", false, "Print the file header")
	logLevel := flag.String("log", "NOOP", "Log level")
	flag.Parse()

	logger.New(*logLevel)
	defer logger.OnExit()
	log := logger.Sugar.WithServiceName("depot-dump")

	if *exportPath == "" && *importPath == "" && !*header {
		flag.Usage()
		os.Exit(2)
	}

	if *exportPath != "" && !utils.PathExists(*file) {
		fmt.Fprintf(os.Stderr, "%s does not exist\n", *file)
		os.Exit(1)
	}

	if err := run(*file, *exportPath, *importPath, *header, *capacity, *align, log); err != nil {
		fmt.Fprintln(os.Stderr, err)
		logger.OnExit()
		os.Exit(1)
	}
}

func run(file, exportPath, importPath string, header bool, capacity int64, align int, log logger.Logger) error {
	d, err := core.OpenFile(file, core.WithCapacity(capacity), core.WithAlignment(align), core.WithLogger(log))
	if err != nil {
		return err
	}
	defer d.Close()

	if importPath != "" {
		f, err := os.Open(importPath)
		if err != nil {
			return err
		}
		defer f.Close()

		n, err := snapshot.Import(d.Depot, f)
		if err != nil {
			return err
		}
		log.Infof("imported %d entries from %s", n, importPath)
	}

	if exportPath != "" {
		f, err := os.Create(exportPath)
		if err != nil {
			return err
		}
		defer f.Close()

		n, err := snapshot.Export(d.Depot, f)
		if err != nil {
			return err
		}
		log.Infof("exported %d entries to %s", n, exportPath)
	}

	if header {
		fmt.Println(core.DescribeHeader(d.Header(), d.UsedBucketCount(), d.Alignment()))
	}

	return nil
}
