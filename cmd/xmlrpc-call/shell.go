package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/service"
	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/value"
)

// shell is the interactive command loop.
type shell struct {
	client *service.Client
	rl     *readline.Instance

	// multicall batch built up with the add command.
	batch []service.SubCall
}

func newShell(client *service.Client) (*shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "rpc> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &shell{client: client, rl: rl}, nil
}

// run starts the interactive command loop.
func (s *shell) run(ctx context.Context) {
	defer s.rl.Close()

	s.printHelp()

	for {
		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "call", "c":
			s.cmdCall(ctx, args)

		case "list", "ls":
			s.cmdList(ctx)

		case "sig", "signature":
			s.cmdSignature(ctx, args)

		case "doc":
			s.cmdDoc(ctx, args)

		case "add":
			s.cmdAdd(args)

		case "multicall", "mc":
			s.cmdMulticall(ctx)

		case "quit", "exit", "q":
			return

		default:
			fmt.Fprintf(s.rl.Stdout(), "Unknown command: %s (try 'help')\n", cmd)
		}
	}
}

func (s *shell) printHelp() {
	fmt.Fprint(s.rl.Stdout(), `Commands:
  call <method> [param ...]  - Invoke a method
  list                       - List server methods (system.listMethods)
  sig <method>               - Show a method's signature
  doc <method>               - Show a method's help text
  add <method> [param ...]   - Queue a call for the next multicall
  multicall                  - Send the queued batch as one round trip
  help                       - Show this help
  quit                       - Exit
`)
}

func (s *shell) cmdCall(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "usage: call <method> [param ...]")
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	result, err := s.client.Call(ctx, args[0], parseParams(args[1:])...)
	var b strings.Builder
	printCallResult(&b, result, err)
	fmt.Fprintln(s.rl.Stdout(), b.String())
}

func (s *shell) cmdList(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	result, err := s.client.Call(ctx, "system.listMethods")
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "error: %v\n", err)
		return
	}
	names, ok := result.(value.Array)
	if !ok {
		fmt.Fprintln(s.rl.Stdout(), "unexpected listMethods result")
		return
	}
	for _, n := range names {
		fmt.Fprintf(s.rl.Stdout(), "  %v\n", formatValue(n, 0))
	}
}

func (s *shell) cmdSignature(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.rl.Stdout(), "usage: sig <method>")
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	result, err := s.client.Call(ctx, "system.methodSignature", value.String(args[0]))
	var b strings.Builder
	printCallResult(&b, result, err)
	fmt.Fprintln(s.rl.Stdout(), b.String())
}

func (s *shell) cmdDoc(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.rl.Stdout(), "usage: doc <method>")
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	result, err := s.client.Call(ctx, "system.methodHelp", value.String(args[0]))
	var b strings.Builder
	printCallResult(&b, result, err)
	fmt.Fprintln(s.rl.Stdout(), b.String())
}

func (s *shell) cmdAdd(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "usage: add <method> [param ...]")
		return
	}
	s.batch = append(s.batch, service.SubCall{
		Method: args[0],
		Params: parseParams(args[1:]),
	})
	fmt.Fprintf(s.rl.Stdout(), "queued %s (%d in batch)\n", args[0], len(s.batch))
}

func (s *shell) cmdMulticall(ctx context.Context) {
	if len(s.batch) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "batch is empty; queue calls with 'add' first")
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	results, err := s.client.MultiCall(ctx, s.batch...)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "error: %v\n", err)
		return
	}
	for i, res := range results {
		if res.Ok() {
			fmt.Fprintf(s.rl.Stdout(), "[%d] %s: %s\n", i+1, s.batch[i].Method,
				strings.TrimLeft(formatValue(res.Value, 0), " "))
		} else {
			fmt.Fprintf(s.rl.Stdout(), "[%d] %s: fault %d: %s\n", i+1, s.batch[i].Method,
				res.Fault.Code, res.Fault.String)
		}
	}
	s.batch = nil
}
