package main

import (
	"fmt"
	"os"
	"path"

	"github.com/spf13/cobra"

	"github.com/timemore/publicstore/app"
	"github.com/timemore/publicstore/errors"
	"github.com/timemore/publicstore/media"
	"github.com/timemore/publicstore/store"
	_ "github.com/timemore/publicstore/store/gcs"
	_ "github.com/timemore/publicstore/store/local"
	_ "github.com/timemore/publicstore/store/minio"
	_ "github.com/timemore/publicstore/store/s3"
)

// envFileKey names both the environment variable that may carry a
// dotenv document and the <key>.env file looked up in --env-dir.
const envFileKey = "PUBLICSTORE"

type rootOptions struct {
	envDir    string
	envPrefix string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "publicstore",
		Short:         "Upload public files to and delete objects from a storage bucket",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.LoadEnvFiles([]string{envFileKey}, opts.envDir)
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.envDir, "env-dir", ".",
		"directory searched for "+envFileKey+".env")
	rootCmd.PersistentFlags().StringVar(&opts.envPrefix, "env-prefix", store.EnvPrefixDefault,
		"prefix of the storage configuration variables")

	rootCmd.AddCommand(
		newUploadCmd(opts),
		newDeleteCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

func newUploadCmd(opts *rootOptions) *cobra.Command {
	var contentType string

	cmd := &cobra.Command{
		Use:   "upload FILE [KEY]",
		Short: "Upload FILE with public-read access and print its URL",
		Long: "Upload FILE with public-read access and print its URL.\n" +
			"When KEY is omitted, a name is derived from the file content.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.ParseConfigFromEnv(opts.envPrefix)
			if err != nil {
				return errors.Wrap("config", err)
			}

			localFile := args[0]
			var remoteKey string
			if len(args) > 1 {
				remoteKey = args[1]
			} else {
				remoteKey, err = generateKey(cfg, localFile)
				if err != nil {
					return err
				}
			}

			client, err := store.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			publicURL, ok := client.Upload(cmd.Context(), localFile, remoteKey, contentType)
			if !ok {
				return errors.Msg("upload of " + localFile + " did not complete")
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), publicURL)
			return nil
		},
	}
	cmd.Flags().StringVar(&contentType, "content-type", "", "MIME type stored with the object")
	return cmd
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete KEY",
		Short: "Delete the object stored at KEY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.ParseConfigFromEnv(opts.envPrefix)
			if err != nil {
				return errors.Wrap("config", err)
			}
			client, err := store.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			deleted, err := client.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !deleted {
				return errors.Msg(args[0] + " not deleted")
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "deleted", args[0])
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			info := app.GetBuildInfo()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "publicstore %s (%s)\n", info.RevisionID, info.Timestamp)
		},
	}
}

// generateKey names the object after its content, keeping the
// extension that matches the detected type.
func generateKey(cfg store.Config, localFile string) (string, error) {
	file, err := os.Open(localFile)
	if err != nil {
		return "", errors.Wrap("open "+localFile, err)
	}
	defer func() {
		_ = file.Close()
	}()

	name, err := cfg.GenerateName(file)
	if err != nil {
		return "", errors.Wrap("name generation", err)
	}

	ext := path.Ext(localFile)
	if mt, err := media.DetectFile(localFile); err == nil && mt.Extension() != "" {
		ext = mt.Extension()
	}
	return name + ext, nil
}
