package stdlib

import (
	"fmt"
	"io"
	"strings"

	"jabroni/internal/errs"
	"jabroni/internal/interp"
	"jabroni/internal/value"
)

// Install registers the host-provided natives as constants on the
// interpreter. Hosts call this once, before running any script. Output from
// console.log goes to out.
func Install(ip *interp.Interp, out io.Writer) error {
	if err := ip.DefineConstant("console", ConsoleObject(out)); err != nil {
		return err
	}
	if err := ip.DefineConstant("typeof", fnTypeof()); err != nil {
		return err
	}
	if err := ip.DefineConstant("str", fnStr()); err != nil {
		return err
	}
	if err := ip.DefineConstant("fail", fnFail()); err != nil {
		return err
	}
	if err := ip.DefineConstant("db", DbObject()); err != nil {
		return err
	}
	return nil
}

// ConsoleObject builds the console record. Its log field is the canonical
// variadic logging subroutine: arguments are rendered, joined by spaces and
// written as one line.
func ConsoleObject(out io.Writer) *value.Object {
	fields := value.NewScope()
	fields.Set("log", value.Constant(value.NewVariadicSubroutine(
		func(_ *value.Scope, args []value.Value) (value.Value, error) {
			parts := make([]string, 0, len(args))
			for _, arg := range args {
				parts = append(parts, arg.Inspect())
			}
			if _, err := fmt.Fprintln(out, strings.Join(parts, " ")); err != nil {
				return nil, errs.Exception("console.log: %v", err)
			}
			return value.NULL, nil
		})))
	return &value.Object{Fields: fields}
}

func fnTypeof() *value.Subroutine {
	return value.NewSubroutine(1, func(_ *value.Scope, args []value.Value) (value.Value, error) {
		return &value.String{Value: string(args[0].Type())}, nil
	})
}

func fnStr() *value.Subroutine {
	return value.NewSubroutine(1, func(_ *value.Scope, args []value.Value) (value.Value, error) {
		return &value.String{Value: args[0].Inspect()}, nil
	})
}

// fnFail raises an uncaught exception carrying the rendered argument.
func fnFail() *value.Subroutine {
	return value.NewSubroutine(1, func(_ *value.Scope, args []value.Value) (value.Value, error) {
		return nil, errs.Exception("%s", args[0].Inspect())
	})
}
