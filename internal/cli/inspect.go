package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gembridge/pkg/convert"
	"github.com/matzehuels/gembridge/pkg/gems"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.gem>",
		Short: "Show the specification and files of a .gem",
		Long:  `Read a .gem archive, verify its checksums, and print its specification and contents.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, err := gems.OpenPackage(args[0], gems.YAMLCodec{})
			if err != nil {
				return err
			}
			c.Logger.Debug("opened gem", "file", args[0], "files", len(pkg.Files))
			printPackage(pkg)
			return nil
		},
	}
}

func printPackage(pkg *gems.Package) {
	s := pkg.Spec
	fmt.Println(StyleTitle.Render(s.FullName()))
	printKeyValue("summary", s.Summary)
	if s.Homepage != "" {
		printKeyValue("homepage", StyleLink.Render(s.Homepage))
	}
	if len(s.Authors) > 0 {
		printKeyValue("authors", strings.Join(s.Authors, ", "))
	}
	if len(s.Licenses) > 0 {
		printKeyValue("licenses", strings.Join(s.Licenses, ", "))
	}
	if v := s.Metadata[convert.MetaCoordinates]; v != "" {
		printKeyValue("coordinates", v)
	}
	if v := s.Metadata[convert.MetaPackaging]; v != "" {
		printKeyValue("packaging", v)
	}

	if len(s.Dependencies) > 0 {
		printNewline()
		fmt.Println(StyleTitle.Render("Dependencies"))
		for _, d := range s.Dependencies {
			printDetail("%s %s (%s)", d.Name, d.Requirement, strings.TrimPrefix(d.Type, ":"))
		}
	}

	printNewline()
	fmt.Println(StyleTitle.Render("Files"))
	for _, name := range pkg.FileNames() {
		printFile(fmt.Sprintf("%s (%d bytes)", name, len(pkg.Files[name])))
	}
}
