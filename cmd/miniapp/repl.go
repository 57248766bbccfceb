package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmanalytics/miniapp/internal/metrics"
	"github.com/dmanalytics/miniapp/internal/model"
	"github.com/dmanalytics/miniapp/internal/screen"
)

const helpText = `commands:
  show                      print the screen
  tab user|admin            switch tab
  toggle registration|team|analytics
  add | rm N                add or remove a link form
  url N VALUE | acc N NAME  edit link form N
  submit                    send the link report
  id V | nick V | name V    edit the registration draft
  account add | account rm I
  account name I V | account net I Instagram|Tiktok|YouTube|VK
  register                  register the drafted user
  roster | logs | sync      refresh roster, fetch logs, start sync
  metrics                   print client counters
  quit
`

// repl maps console commands onto screen operations.
type repl struct {
	scr     *screen.Screen
	out     io.Writer
	metrics metrics.Snapshotter
}

// run reads commands until EOF, "quit" or ctx cancellation.
func (r *repl) run(ctx context.Context, in io.Reader) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		fmt.Fprint(r.out, "> ")
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok || r.exec(ctx, line) {
				return
			}
		}
	}
}

// exec runs one command line and reports whether the user asked to quit.
func (r *repl) exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := fields[0], fields[1:]
	rest := func(from int) string {
		if len(args) <= from {
			return ""
		}
		return strings.Join(args[from:], " ")
	}

	switch cmd {
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprint(r.out, helpText)
		return false
	case "show":
	case "tab":
		r.scr.SelectTab(screen.Tab(rest(0)))
	case "toggle":
		r.scr.ToggleSection(ctx, screen.Section(rest(0)))
	case "add":
		r.scr.AddEntry()
	case "rm":
		if id, ok := r.entryID(args); ok {
			r.scr.RemoveEntry(id)
		}
	case "url":
		if id, ok := r.entryID(args); ok {
			r.scr.EditURL(id, rest(1))
		}
	case "acc":
		if id, ok := r.entryID(args); ok {
			r.scr.EditCategory(id, rest(1))
		}
	case "submit":
		if err := r.scr.SubmitLinks(ctx); err != nil {
			fmt.Fprintf(r.out, "not sent: %v\n", err)
		}
	case "id":
		r.scr.SetTelegramID(rest(0))
	case "nick":
		r.scr.SetUsername(rest(0))
	case "name":
		r.scr.SetFullName(rest(0))
	case "account":
		r.account(args)
	case "register":
		if err := r.scr.RegisterUser(ctx); err != nil {
			fmt.Fprintf(r.out, "not registered: %v\n", err)
		}
	case "roster":
		r.scr.FetchRoster(ctx)
	case "logs":
		r.scr.FetchLogs(ctx)
	case "sync":
		if !r.scr.StartSync(ctx) {
			fmt.Fprintln(r.out, "sync already running")
		}
	case "metrics":
		if err := metrics.WriteText(r.out, r.metrics.Snapshot()); err != nil {
			fmt.Fprintf(r.out, "metrics: %v\n", err)
		}
		return false
	default:
		fmt.Fprintf(r.out, "unknown command %q, try help\n", cmd)
		return false
	}

	render(r.out, r.scr.Snapshot())
	return false
}

func (r *repl) account(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(r.out, "usage: account add|rm|name|net")
		return
	}
	if args[0] == "add" {
		r.scr.AddAccount()
		return
	}

	if len(args) < 2 {
		fmt.Fprintln(r.out, "account index required")
		return
	}
	i, err := strconv.Atoi(args[1])
	if err != nil || i < 1 {
		fmt.Fprintf(r.out, "bad account index %q\n", args[1])
		return
	}
	index := i - 1
	value := strings.Join(args[2:], " ")

	switch args[0] {
	case "rm":
		r.scr.RemoveAccount(index)
	case "name":
		r.scr.SetAccountName(index, value)
	case "net":
		network, err := model.ParseSocialNetwork(value)
		if err != nil {
			fmt.Fprintln(r.out, err)
			return
		}
		r.scr.SetAccountNetwork(index, network)
	default:
		fmt.Fprintf(r.out, "unknown account command %q\n", args[0])
	}
}

// entryID resolves a 1-based link form number to its entry id.
func (r *repl) entryID(args []string) (string, bool) {
	if len(args) == 0 {
		fmt.Fprintln(r.out, "form number required")
		return "", false
	}
	n, err := strconv.Atoi(args[0])
	entries := r.scr.Snapshot().Entries
	if err != nil || n < 1 || n > len(entries) {
		fmt.Fprintf(r.out, "no form %q\n", args[0])
		return "", false
	}
	return entries[n-1].ID, true
}
