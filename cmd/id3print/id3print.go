package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mvmn/audiotag/id3v2"
)

var verbose = flag.Bool("v", false, "log parser diagnostics and print read statistics")

func printFile(name string) {
	fmt.Println(name)
	f, err := os.Open(name)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	r := bufio.NewReader(f)

	ok, err := id3v2.Check(r)
	if err != nil {
		fmt.Println(err)
		return
	}
	if !ok {
		log.Println("no ID3 tag")
		return
	}

	tag, err := id3v2.Decode(r, id3v2.DefaultOptions())
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(tag.Version)
	byID := map[string][]string{}
	var order []string
	for _, frame := range tag.AllFrames() {
		id := frame.ID()
		if b, ok := frame.Body.(*id3v2.UserTextBody); ok {
			id = id + ":" + b.Description
		}
		if _, seen := byID[id]; !seen {
			order = append(order, id)
		}
		byID[id] = append(byID[id], frame.Body.Value())
	}
	for _, id := range order {
		fmt.Printf("%s: %s\n", id, strings.Join(byID[id], ", "))
	}

	if *verbose {
		fmt.Printf("padding: %d bytes\n", tag.PaddingSize)
		if tag.InvalidFrames > 0 {
			fmt.Printf("invalid frames: %d\n", tag.InvalidFrames)
		}
		if tag.EmptyFrameBytes > 0 {
			fmt.Printf("empty frame bytes: %d\n", tag.EmptyFrameBytes)
		}
		if len(tag.DuplicateIDs) > 0 {
			fmt.Printf("duplicate frames: %s (%d bytes)\n",
				strings.Join(tag.DuplicateIDs, ", "), tag.DuplicateBytes)
		}
	}
}

func main() {
	flag.Parse()
	id3v2.Logging = id3v2.LogFlag(*verbose)
	for _, name := range flag.Args() {
		printFile(name)
		fmt.Println()
	}
}
