package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/edp1096/netdeck/internal/consts"
	"github.com/edp1096/netdeck/pkg/deck"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet(consts.ProgramName, flag.ExitOnError)
	input := fs.String("i", "", "input netlist file")
	output := fs.String("o", "", "output file (default: overwrite input)")
	encFallback := fs.String("enc", "", "fallback encoding when detection fails")
	debug := fs.Bool("debug", false, "debug logging")
	fs.Usage = usage(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *input == "" || fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("missing input file or command")
	}

	doc, err := deck.Load(*input, &deck.LoadOptions{Encoding: *encFallback})
	if err != nil {
		return err
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	changed := false

	switch cmd {
	case "get":
		if len(rest) != 1 {
			return fmt.Errorf("usage: get PATH")
		}
		v, err := doc.Value(rest[0])
		if err != nil {
			return err
		}
		fmt.Println(v)

	case "set":
		if len(rest) != 2 {
			return fmt.Errorf("usage: set PATH VALUE")
		}
		if err := doc.SetValue(rest[0], rest[1]); err != nil {
			return err
		}
		changed = true

	case "model":
		switch len(rest) {
		case 1:
			m, err := doc.Model(rest[0])
			if err != nil {
				return err
			}
			fmt.Println(m)
		case 2:
			if err := doc.SetModel(rest[0], rest[1]); err != nil {
				return err
			}
			changed = true
		default:
			return fmt.Errorf("usage: model PATH [NAME]")
		}

	case "param":
		switch len(rest) {
		case 2:
			v, err := doc.Parameter(rest[0], rest[1])
			if err != nil {
				return err
			}
			fmt.Println(v)
		case 3:
			if err := doc.SetParameter(rest[0], rest[1], rest[2]); err != nil {
				return err
			}
			changed = true
		default:
			return fmt.Errorf("usage: param PATH KEY [VALUE]")
		}

	case "docparam":
		switch len(rest) {
		case 1:
			v, err := doc.DocParameter(rest[0])
			if err != nil {
				return err
			}
			fmt.Println(v)
		case 2:
			if err := doc.SetDocParameter(rest[0], rest[1]); err != nil {
				return err
			}
			changed = true
		default:
			return fmt.Errorf("usage: docparam NAME [VALUE]")
		}

	case "add":
		if len(rest) != 1 {
			return fmt.Errorf("usage: add INSTRUCTION")
		}
		if err := doc.AddInstruction(rest[0]); err != nil {
			return err
		}
		changed = true

	case "remove":
		if len(rest) != 1 {
			return fmt.Errorf("usage: remove INSTRUCTION")
		}
		if err := doc.RemoveInstruction(rest[0]); err != nil {
			return err
		}
		changed = true

	case "journal":
		for _, e := range doc.Journal().Entries() {
			fmt.Printf("%-18s %-24s %s\n", e.Kind, e.Name, e.Value)
		}

	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}

	if changed {
		out := *output
		if out == "" {
			out = *input
		}
		if err := doc.Save(out); err != nil {
			return err
		}
		slog.Debug("saved", "path", out, "edits", doc.Journal().Len())
	}
	return nil
}

func usage(fs *flag.FlagSet) func() {
	return func() {
		fmt.Fprintf(os.Stderr, "%s %s - SPICE netlist editor\n\n", consts.ProgramName, consts.Version)
		fmt.Fprintf(os.Stderr, "usage: %s -i deck.cir [-o out.cir] COMMAND\n\n", consts.ProgramName)
		fmt.Fprintln(os.Stderr, "commands:")
		fmt.Fprintln(os.Stderr, "  get PATH              print a component value")
		fmt.Fprintln(os.Stderr, "  set PATH VALUE        change a component value")
		fmt.Fprintln(os.Stderr, "  model PATH [NAME]     print or change a model")
		fmt.Fprintln(os.Stderr, "  param PATH KEY [VAL]  print or change a parameter")
		fmt.Fprintln(os.Stderr, "  docparam NAME [VAL]   print or change a .param value")
		fmt.Fprintln(os.Stderr, "  add INSTRUCTION       add a directive line")
		fmt.Fprintln(os.Stderr, "  remove INSTRUCTION    remove a directive line")
		fmt.Fprintln(os.Stderr, "  journal               print the update journal")
		fmt.Fprintln(os.Stderr, "\nflags:")
		fs.PrintDefaults()
	}
}
