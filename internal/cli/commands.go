package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yarkm13/fsobj"
)

var (
	lsLong      bool
	existsDir   bool
	rmRecursive bool
	rmYes       bool
	mvDir       bool
)

var lsCmd = &cobra.Command{
	Use:   "ls DIR",
	Short: "List a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProvider(func(p fsobj.Provider) error {
			dir, err := fsobj.NewDirectory(args[0], lsLong, p)
			if err != nil {
				return err
			}
			dir.Sort()
			out := cmd.OutOrStdout()
			for _, e := range dir.All() {
				if !lsLong {
					fmt.Fprintln(out, e.Name)
					continue
				}
				kind := "f"
				if e.Object.IsDir() {
					kind = "d"
				}
				fmt.Fprintf(out, "%s %s\n", kind, e.Object.Path())
			}
			return nil
		})
	},
}

var existsCmd = &cobra.Command{
	Use:   "exists PATH",
	Short: "Report whether a file (or with --dir a directory) exists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProvider(func(p fsobj.Provider) error {
			obj, err := newObject(args[0], existsDir, p)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), obj.Exists())
			return nil
		})
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm PATH",
	Short: "Delete a file, or with -r a directory and everything below it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProvider(func(p fsobj.Provider) error {
			obj, err := newObject(args[0], rmRecursive, p)
			if err != nil {
				return err
			}
			if rmRecursive && !rmYes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), obj.Path()) {
				return nil
			}
			if !obj.Delete() {
				return fmt.Errorf("failed to delete %s", obj.Path())
			}
			return nil
		})
	},
}

var mvCmd = &cobra.Command{
	Use:   "mv PATH NEWNAME",
	Short: "Rename a file (or with --dir a directory) inside its parent",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProvider(func(p fsobj.Provider) error {
			obj, err := newObject(args[0], mvDir, p)
			if err != nil {
				return err
			}
			if !obj.Rename(args[1]) {
				return fmt.Errorf("failed to rename %s to %s", obj.Path(), args[1])
			}
			return nil
		})
	},
}

var mkdirCmd = &cobra.Command{
	Use:   "mkdir DIR",
	Short: "Create a directory and any missing parents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProvider(func(p fsobj.Provider) error {
			dir, err := fsobj.NewDirectory(args[0], false, p)
			if err != nil {
				return err
			}
			if !dir.Create() {
				return fmt.Errorf("failed to create %s", dir.Path())
			}
			return nil
		})
	},
}

func init() {
	lsCmd.Flags().BoolVarP(&lsLong, "long", "l", false, "Show the kind and full path of every entry")
	existsCmd.Flags().BoolVar(&existsDir, "dir", false, "PATH is a directory")
	rmCmd.Flags().BoolVarP(&rmRecursive, "recursive", "r", false, "PATH is a directory, delete it recursively")
	rmCmd.Flags().BoolVarP(&rmYes, "yes", "y", false, "Do not ask for confirmation")
	mvCmd.Flags().BoolVar(&mvDir, "dir", false, "PATH is a directory")
}

func withProvider(fn func(fsobj.Provider) error) error {
	p, closer, err := openProvider()
	if err != nil {
		return err
	}
	defer closer.Close()
	return fn(p)
}

func newObject(path string, dir bool, p fsobj.Provider) (fsobj.Object, error) {
	if dir {
		return fsobj.NewDirectory(path, false, p)
	}
	return fsobj.NewFile(path, p)
}

func confirm(in io.Reader, out io.Writer, path string) bool {
	fmt.Fprintf(out, "%s and everything below it will be deleted\n", path)
	fmt.Fprint(out, "Do you want to continue? (y/n): ")

	response, _ := bufio.NewReader(in).ReadString('\n')
	response = strings.ToLower(strings.TrimSpace(response))

	return response == "y" || response == "yes"
}
