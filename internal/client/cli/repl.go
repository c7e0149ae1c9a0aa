package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	List(ctx context.Context) error
	Refresh(ctx context.Context) error
	Select(ctx context.Context, args []string) error
	ClearFile(ctx context.Context) error
	Upload(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: register, login, exit"
	helpLoggedIn  = "Available commands: (l)ist, refresh, select <path>, clear, upload [path], " +
		"download <file> [original|thumbnail], delete [-y] <file>, whoami, logout, exit"
)

// runREPL starts a read–eval–print loop for the gallery CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on a. The loop exits on EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
//	Not logged in:
//	  - help             show available commands
//	  - register         create an account (password asked twice)
//	  - login            authenticate
//	  - exit | quit      leave the program
//
//	Logged in:
//	  - l | list         show the gallery
//	  - refresh          fetch the gallery now
//	  - select <path>    stage a local image for upload
//	  - clear            drop the staged image
//	  - upload [path]    upload the staged (or given) image
//	  - download <file> [original|thumbnail]
//	  - delete [-y] <file>   asks for confirmation unless -y
//	  - whoami           current user and token expiry
//	  - logout
//
// Errors returned by command handlers have already been shown to the user.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("gallery %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "select":
			_ = a.Select(ctx, args)

		case "clear":
			_ = a.ClearFile(ctx)

		case "upload":
			_ = a.Upload(ctx, args)

		case "download":
			_ = a.Download(ctx, args)

		case "delete", "rm":
			_ = a.Delete(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
