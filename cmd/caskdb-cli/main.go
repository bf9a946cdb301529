package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/caskdb/caskdb/client"
	"github.com/caskdb/caskdb/internal"
	"github.com/caskdb/caskdb/internal/utils"
)

func main() {
	host := flag.String("host", internal.DefaultHost, "caskdb server host")
	port := flag.Int("port", internal.DefaultPort, "caskdb server port")
	flag.Parse()

	c, err := client.Connect(client.WithHost(*host), client.WithPort(*port))
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

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

		cmd, key, value, err := utils.SplitCommandLine(line)
		if err != nil {
			fmt.Println("parse error:", err)
			continue
		}

		resp, err := c.Execute(cmd, key, value)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Println(resp)
	}
}
