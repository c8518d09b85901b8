package cmd

import (
	"fmt"

	"github.com/haierkeys/microdoc-service/internal/app"
	pkgapp "github.com/haierkeys/microdoc-service/pkg/app"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
)

var versionJSON bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print out version info and exit. // 打印版本信息并退出。",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !versionJSON {
			fmt.Printf("%s v%s ( Git:%s ) BuildTime:%s\n", app.Name, app.Version, app.GitTag, app.BuildTime)
			return nil
		}

		out, err := sonic.ConfigStd.MarshalIndent(pkgapp.VersionInfo{
			Name:      app.Name,
			Version:   app.Version,
			GitTag:    app.GitTag,
			BuildTime: app.BuildTime,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "print as json")
	rootCmd.AddCommand(versionCmd)
}
