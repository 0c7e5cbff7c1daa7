package main

import (
	"flag"
	"fmt"
	"os"

	"exprc/exprc"
)

// Allows us to dump the compiler's intermediate state to stdout alongside
// the generated Verilog, in the order: instructions, depends-on, used-by,
// schedule, Verilog.
var debugDump = flag.Bool("d", false, "print intermediate compiler state and generated Verilog to stdout")

// init is called when the package is first loaded (before main)
func init() {
	flag.Parse()
}

func main() {
	args := os.Args[len(os.Args)-flag.NArg():]
	if len(args) != 1 {
		fmt.Println("Usage: exprc [-d] <file>")
		os.Exit(1)
	}

	if err := run(args[0]); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}

func run(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	result, err := exprc.Compile(f)
	if err != nil {
		return err
	}

	if *debugDump {
		dumpDebug(result)
	}

	return exprc.NewDumper(result.Path, result.Schedule.LastStep()).Dump(os.Stdout)
}

func dumpDebug(r *exprc.Result) {
	fmt.Println("-- instructions --")
	for _, instr := range r.Program.Sequence {
		fmt.Println(instr)
	}

	fmt.Println("-- depends-on --")
	for _, instr := range r.Program.Sequence {
		for _, src := range instr.Src {
			fmt.Printf("%s depends on %s\n", instr, r.DFG.DefinedBy(src))
		}
	}

	fmt.Println("-- used-by --")
	for _, instr := range r.Program.Sequence {
		if instr.Dst == nil {
			continue
		}
		for _, user := range r.DFG.UsedBy(*instr.Dst) {
			fmt.Printf("%s used by %s\n", instr, user)
		}
	}

	fmt.Println("-- schedule --")
	for _, step := range r.Schedule.Steps() {
		fmt.Printf("step %d:\n", step)
		for _, instr := range r.Schedule.At(step) {
			fmt.Println(" ", instr)
		}
	}

	fmt.Println("-- verilog --")
}
