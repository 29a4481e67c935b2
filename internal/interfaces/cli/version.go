package cli

import (
	"runtime"

	"github.com/spf13/cobra"
)

type versionInfo struct {
	BuildInfo
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func (v versionInfo) Text() string {
	return "covergap " + v.BuildInfo.String() + " " + v.GoVersion + " " + v.Platform + "\n"
}

func newVersionCmd(build BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			return cc.Render(cmd, versionInfo{
				BuildInfo: build,
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			})
		},
	}
}

//Personal.AI order the ending
