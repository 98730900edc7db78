package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/0xRadioAc7iv/go-depot/core"
	"github.com/0xRadioAc7iv/go-depot/depot"
	"github.com/0xRadioAc7iv/go-depot/internal"
	"github.com/0xRadioAc7iv/go-depot/internal/utils"
)

func main() {
	host := flag.String("host", internal.DEFAULT_HOST, "Depot server host")
	port := flag.Int("port", internal.DEFAULT_PORT, "Depot server port")
	flag.Parse()

	client, err := depot.Connect(depot.WithHost(*host), depot.WithPort(*port))
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	fmt.Printf("Connected to %v:%d\n", *host, *port)
	fmt.Println("Type commands. 'help' for information or 'exit' to quit.")

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")

		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("input error:", err)
			return
		}

		line = strings.TrimSpace(line)

		if line == "" {
			continue
		}

		if line == "exit" {
			return
		}

		cmd, keyArg, valueArg, err := utils.SplitStringIntoCommandAndArguments(line)
		if err != nil {
			fmt.Println("parse error:", err)
			continue
		}

		key, err := depot.ParseArg(keyArg)
		if err != nil {
			fmt.Println("parse error:", err)
			continue
		}
		value, err := depot.ParseArg(valueArg)
		if err != nil {
			fmt.Println("parse error:", err)
			continue
		}

		reply, err := client.Execute(cmd, key, value)
		var serverErr *depot.ServerError
		switch {
		case errors.As(err, &serverErr):
			fmt.Println("(error)", serverErr.Msg)
		case err != nil:
			log.Fatal(err)
		case reply.Nil:
			fmt.Println("nil")
		case strings.EqualFold(cmd, "get"):
			fmt.Println(core.FormatKey(reply.Body))
		default:
			fmt.Println(string(reply.Body))
		}
	}
}
