// Command chunkq provides a CLI tool for inspecting and managing chunkq
// queues.
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/vnykmshr/chunkq"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "stats":
		handleStats(os.Args[2:])
	case "peek":
		handlePeek(os.Args[2:])
	case "drain":
		handleDrain(os.Args[2:])
	case "clear":
		handleClear(os.Args[2:])
	case "version":
		fmt.Printf("chunkq version %s\n", chunkq.Version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("chunkq CLI Tool - Queue Inspection and Management")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  chunkq <command> [options] <queue-path>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  stats <queue-path>             Show queue statistics")
	fmt.Println("  peek <queue-path>              Print the head entry without consuming it")
	fmt.Println("  drain <queue-path>             Print and remove every entry, oldest first")
	fmt.Println("  clear <queue-path>             Discard every entry")
	fmt.Println("  version                        Show version information")
	fmt.Println("  help                           Show this help message")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -chunk-size <bytes>            Chunk file size (default 1048576)")
	fmt.Println("  -verbose                       Enable debug logging")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  chunkq stats /var/spool/outbound")
	fmt.Println("  chunkq drain -chunk-size 65536 /var/spool/outbound")
}

// openQueue parses the common flags and opens the queue named by the one
// positional argument.
func openQueue(command string, args []string) *chunkq.Queue {
	fs := flag.NewFlagSet(command, flag.ExitOnError)
	chunkSize := fs.Int64("chunk-size", chunkq.DefaultChunkSize, "chunk file size in bytes")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: queue path required\n")
		fmt.Fprintf(os.Stderr, "Usage: chunkq %s [options] <queue-path>\n", command)
		os.Exit(1)
	}

	opts := &chunkq.Options{ChunkSize: *chunkSize}
	if *verbose {
		ll := logrus.New()
		ll.SetLevel(logrus.DebugLevel)
		opts.Logger = chunkq.NewLogrusLogger(ll)
	}

	q, err := chunkq.OpenWithOptions(fs.Arg(0), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening queue: %v\n", err)
		os.Exit(1)
	}
	return q
}

func handleStats(args []string) {
	q := openQueue("stats", args)
	defer func() { _ = q.Close() }()

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintf(w, "Path:\t%s\n", q.Path())
	fmt.Fprintf(w, "Empty:\t%v\n", q.IsEmpty())
	fmt.Fprintf(w, "Chunks:\t%d\n", q.CountChunks())
	fmt.Fprintf(w, "Chunk size:\t%d bytes\n", q.ChunkSize())
	fmt.Fprintf(w, "Max element size:\t%d bytes\n", q.MaxElementSize())
	_ = w.Flush()
}

func handlePeek(args []string) {
	q := openQueue("peek", args)
	defer func() { _ = q.Close() }()

	payload, err := q.Peek()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error peeking: %v\n", err)
		os.Exit(1)
	}
	if payload == nil {
		fmt.Println("(queue is empty)")
		return
	}
	printEntry(payload)
}

func handleDrain(args []string) {
	q := openQueue("drain", args)
	defer func() { _ = q.Close() }()

	count := 0
	for {
		payload, err := q.Peek()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading entry: %v\n", err)
			os.Exit(1)
		}
		if payload == nil {
			break
		}
		printEntry(payload)
		if _, err := q.Dequeue(); err != nil {
			fmt.Fprintf(os.Stderr, "Error removing entry: %v\n", err)
			os.Exit(1)
		}
		count++
	}
	fmt.Printf("Drained %d entries\n", count)
}

func handleClear(args []string) {
	q := openQueue("clear", args)
	defer func() { _ = q.Close() }()

	cleared, err := q.Clear()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error clearing queue: %v\n", err)
		os.Exit(1)
	}
	if cleared {
		fmt.Println("Queue cleared")
	} else {
		fmt.Println("Queue was already empty")
	}
}

// printEntry prints text payloads as-is and anything else as hex.
func printEntry(payload []byte) {
	if utf8.Valid(payload) {
		fmt.Printf("%s\n", payload)
		return
	}
	fmt.Printf("%x\n", payload)
}
