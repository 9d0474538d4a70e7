package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/dskit/sys"
)

func init() {
	rootCmd.AddCommand(newFsCmd())
}

func newFsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fs <op> <path>",
		Short: "Run a filesystem wrapper operation",
		Long: `The fs command calls one filesystem wrapper operation on a path.

Operations:
  exists   report whether anything is at the path
  type     report none, dir, regular, symlink or other
  mkdir    create a directory (existing directory is success)
  mkdirs   create a directory and its parents
  rmdir    remove an empty directory
  mkfile   create an empty file, never truncating
  rmfile   remove a file

Example:
  dsctl fs mkdirs /tmp/a/b/c
  dsctl fs type /tmp/a --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFs(args[0], args[1])
		},
	}
	return cmd
}

// FsResult is the outcome of one fs operation.
type FsResult struct {
	Op     string `json:"op"`
	Path   string `json:"path"`
	Result string `json:"result"`
}

func runFs(op, path string) error {
	var (
		result string
		err    error
	)
	switch op {
	case "exists":
		result = fmt.Sprint(sys.Exists(path))
	case "type":
		result = sys.TypeOf(path).String()
	case "mkdir":
		err = sys.Mkdir(path)
	case "mkdirs":
		err = sys.Mkdirs(path)
	case "rmdir":
		err = sys.Rmdir(path)
	case "mkfile":
		err = sys.Mkfile(path)
	case "rmfile":
		err = sys.Rmfile(path)
	default:
		return fmt.Errorf("unknown fs operation %q", op)
	}
	if err != nil {
		return err
	}
	if result == "" {
		result = "ok"
	}

	if jsonOut {
		return printJSON(FsResult{Op: op, Path: path, Result: result})
	}
	printInfo("%s\n", result)
	return nil
}
