package utils

import (
	"flag"

	"github.com/0xRadioAc7iv/go-depot/core"
)

const DefaultDataFilePath = "./data.depot"
const DefaultPort = 6969
const DefaultSyncIntervalSeconds = 1
const DefaultLogLevel = "INFO"

// ServerFlags are the command line settings of the depot server.
type ServerFlags struct {
	DataFilePath string
	Capacity     int64
	Alignment    int
	StrictKeys   bool
	Port         int
	SyncInterval uint
	LogLevel     string
}

func HandleCLIInputs() ServerFlags {
	return ParseServerFlags(flag.CommandLine, nil)
}

// ParseServerFlags registers the server flags on fs and parses args. A nil
// args parses os.Args through flag.Parse.
func ParseServerFlags(fs *flag.FlagSet, args []string) ServerFlags {
	var f ServerFlags

	fs.StringVar(&f.DataFilePath, "file", DefaultDataFilePath, "Depot file to serve, created if missing")
	fs.Int64Var(&f.Capacity, "capacity", core.DefaultBucketCount, "Requested bucket count for a new depot file")
	fs.IntVar(&f.Alignment, "align", 0, "Padding policy for appended records (0 none, >0 align to n bytes, <0 reserve for growth)")
	fs.BoolVar(&f.StrictKeys, "strict", false, "Refuse writes whose key collides with a different stored key")
	fs.IntVar(&f.Port, "port", DefaultPort, "Port to use for the TCP Server")
	fs.UintVar(&f.SyncInterval, "sync", DefaultSyncIntervalSeconds, "Seconds between background syncs (0 disables)")
	fs.StringVar(&f.LogLevel, "log", DefaultLogLevel, "Log level")

	if args == nil {
		flag.Parse()
	} else {
		_ = fs.Parse(args)
	}

	return f
}
