// Command xmlrpc-call invokes methods on an XML-RPC server.
//
// In one-shot mode the method name and parameters come from the command
// line; in interactive mode a readline shell offers call, introspection,
// and multicall commands.
//
// Usage:
//
//	xmlrpc-call [flags] [method [param ...]]
//
// Flags:
//
//	-url string       Server endpoint (default "http://localhost:8080/")
//	-user string      Basic-Auth username
//	-pass string      Basic-Auth password
//	-timeout duration Request timeout (default 30s)
//	-interactive      Start the interactive shell
//
// Parameters are typed by shape: integers become <int>, decimal numbers
// <double>, true/false <boolean>, everything else <string>. Prefix a
// parameter with str: to force a string.
//
// Examples:
//
//	xmlrpc-call math.add 2 40
//	xmlrpc-call -url http://rpc.example.net/ sample.uppercase "hello"
//	xmlrpc-call -interactive
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/service"
	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/transport"
	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/value"
)

func main() {
	var (
		url         = flag.String("url", "http://localhost:8080/", "Server endpoint")
		user        = flag.String("user", "", "Basic-Auth username")
		pass        = flag.String("pass", "", "Basic-Auth password")
		timeout     = flag.Duration("timeout", 30*time.Second, "Request timeout")
		interactive = flag.Bool("interactive", false, "Start the interactive shell")
	)
	flag.Parse()

	tr, err := transport.NewHTTPTransport(transport.HTTPConfig{
		URL:      *url,
		Username: *user,
		Password: *pass,
		Timeout:  *timeout,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg := service.DefaultConfig()
	cfg.Capabilities.AllowNil = true
	cfg.Capabilities.AllowBigInt = true
	client, err := service.NewClient(tr, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		shell, err := newShell(client)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		shell.run(context.Background())
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: xmlrpc-call [flags] method [param ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := client.Call(ctx, args[0], parseParams(args[1:])...)
	if err != nil {
		if f, ok := service.FaultError(err); ok {
			fmt.Fprintf(os.Stderr, "fault %d: %s\n", f.Code, f.String)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
	fmt.Println(formatValue(result, 0))
}

// parseParams types command-line arguments by shape.
func parseParams(args []string) []value.Value {
	params := make([]value.Value, len(args))
	for i, arg := range args {
		params[i] = parseParam(arg)
	}
	return params
}

func parseParam(arg string) value.Value {
	if s, ok := strings.CutPrefix(arg, "str:"); ok {
		return value.String(s)
	}
	switch arg {
	case "true":
		return value.Bool(true)
	case "false":
		return value.Bool(false)
	case "nil":
		return value.Nil{}
	}
	if n, err := strconv.ParseInt(arg, 10, 32); err == nil {
		return value.Int(n)
	}
	if f, err := strconv.ParseFloat(arg, 64); err == nil {
		return value.Double(f)
	}
	return value.String(arg)
}

// formatValue renders a result for the terminal, indenting nested
// aggregates.
func formatValue(v value.Value, depth int) string {
	indent := strings.Repeat("  ", depth)
	switch x := v.(type) {
	case value.Nil:
		return indent + "nil"
	case value.Bool:
		return indent + strconv.FormatBool(bool(x))
	case value.Int:
		return indent + strconv.FormatInt(int64(x), 10)
	case value.BigInt:
		return indent + x.Num().String()
	case value.Double:
		return indent + strconv.FormatFloat(float64(x), 'g', -1, 64)
	case value.String:
		return indent + string(x)
	case value.DateTime:
		return indent + x.Time().Format(time.RFC3339)
	case value.Base64:
		return indent + fmt.Sprintf("(%d bytes)", len(x))
	case value.Array:
		var b strings.Builder
		b.WriteString(indent + "[\n")
		for _, item := range x {
			b.WriteString(formatValue(item, depth+1) + "\n")
		}
		b.WriteString(indent + "]")
		return b.String()
	case *value.Struct:
		var b strings.Builder
		b.WriteString(indent + "{\n")
		for _, m := range x.Members() {
			b.WriteString(indent + "  " + m.Name + ": " +
				strings.TrimLeft(formatValue(m.Value, depth+1), " ") + "\n")
		}
		b.WriteString(indent + "}")
		return b.String()
	default:
		return indent + fmt.Sprintf("%v", v)
	}
}

// printCallResult renders a call outcome, distinguishing faults from
// transport and parse errors.
func printCallResult(w *strings.Builder, result value.Value, err error) {
	switch {
	case err == nil:
		w.WriteString(formatValue(result, 0))
	default:
		if f, ok := service.FaultError(err); ok {
			fmt.Fprintf(w, "fault %d: %s", f.Code, f.String)
		} else {
			fmt.Fprintf(w, "error: %v", err)
		}
	}
}
