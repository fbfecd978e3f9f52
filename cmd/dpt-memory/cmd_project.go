package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/droidpartment/dpt-memory/internal/project"
	memserver "github.com/droidpartment/dpt-memory/internal/server"
)

var initForce bool

// initCmd indexes a project and persists its memory.
var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Index a project and set up its memory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		abs, err := argPath(args)
		if err != nil {
			return err
		}
		deps := memserver.NewDeps()
		defer deps.Log.Sync()

		if initForce {
			if _, err := deps.Projects.Index(abs, true); err != nil {
				return fmt.Errorf("indexing %s: %w", abs, err)
			}
		}
		res, err := deps.Projects.Initialize(abs)
		if err != nil {
			return fmt.Errorf("initializing %s: %w", abs, err)
		}
		for _, line := range res.Feedback {
			fmt.Println(line)
		}
		return nil
	},
}

// summaryCmd prints the compact project summary.
var summaryCmd = &cobra.Command{
	Use:   "summary [path]",
	Short: "Show the indexed summary of a project",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := memserver.NewDeps()
		defer deps.Log.Sync()

		p := ""
		if len(args) > 0 {
			abs, err := argPath(args)
			if err != nil {
				return err
			}
			p = abs
		}
		fmt.Println(deps.Projects.Summary(p))
		return nil
	},
}

// structureCmd prints the markdown structure snapshot.
var structureCmd = &cobra.Command{
	Use:   "structure [path]",
	Short: "Show the markdown structure snapshot of a project",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		abs, err := argPath(args)
		if err != nil {
			return err
		}
		deps := memserver.NewDeps()
		defer deps.Log.Sync()

		idx := deps.Projects.Load(abs)
		if idx == nil {
			return fmt.Errorf("project %s is not indexed; run 'dpt-memory init' first", abs)
		}
		fmt.Print(project.StructureDocument(idx))
		return nil
	},
}

var (
	filesPattern   string
	filesExtension string
	filesName      string
	filesDir       string
)

// filesCmd queries the stored index for files.
var filesCmd = &cobra.Command{
	Use:   "files [path]",
	Short: "Find files from the stored index without rescanning disk",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		abs, err := argPath(args)
		if err != nil {
			return err
		}
		deps := memserver.NewDeps()
		defer deps.Log.Sync()

		if deps.Projects.Load(abs) == nil {
			return fmt.Errorf("project %s is not indexed; run 'dpt-memory init' first", abs)
		}

		switch {
		case filesPattern != "":
			for _, f := range deps.Projects.FilesByPattern(abs, filesPattern) {
				fmt.Println(f)
			}
		case filesExtension != "":
			for _, f := range deps.Projects.FilesByExtension(abs, filesExtension) {
				fmt.Println(f)
			}
		case filesName != "":
			full := deps.Projects.FindFile(abs, filesName)
			if full == "" {
				return fmt.Errorf("no file named %q in the index", filesName)
			}
			fmt.Println(full)
		case filesDir != "":
			contents := deps.Projects.DirectoryContents(abs, filesDir)
			for _, d := range contents.Dirs {
				fmt.Println(d + "/")
			}
			for _, f := range contents.Files {
				fmt.Println(f)
			}
		default:
			return fmt.Errorf("one of --pattern, --extension, --name or --dir is required")
		}
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "rebuild the index even if it is fresh")

	filesCmd.Flags().StringVarP(&filesPattern, "pattern", "p", "", "glob pattern or substring to match")
	filesCmd.Flags().StringVarP(&filesExtension, "extension", "e", "", "file extension, with or without the dot")
	filesCmd.Flags().StringVarP(&filesName, "name", "n", "", "exact base name to locate")
	filesCmd.Flags().StringVarP(&filesDir, "dir", "d", "", "relative directory to list")

	rootCmd.AddCommand(initCmd, summaryCmd, structureCmd, filesCmd)
}
