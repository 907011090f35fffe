package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/eringen/pubcollection"
	"github.com/eringen/pubcollection/logging"
)

const envPrefix = "PUBCOLLECTION"

// cli carries the state shared by all subcommands.
type cli struct {
	cfgFile string
	v       *viper.Viper
	cfg     pubcollection.SiteConfig
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:   "pubcollection",
		Short: "Validate and serve a Markdown blog collection",
		Long: `pubcollection reads Markdown and MDX posts from a content directory,
checks their frontmatter, and serves the valid ones as a blog with RSS,
a sitemap, and an admin view of rejected documents.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initializeConfig(cmd)
		},
	}
	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default is ./pubcollection.yaml)")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().String("log-format", "console", "log format: json, console")
	root.PersistentFlags().String("content-dir", "content/blog", "directory holding the Markdown and MDX posts")

	root.AddCommand(
		c.newServeCmd(),
		c.newValidateCmd(),
		newCoverCmd(),
		newPlaceholdersCmd(),
		newVersionCmd(),
	)
	return root
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"log-level":   "log_level",
	"log-format":  "log_format",
	"content-dir": "content_dir",
	"addr":        "addr",
	"watch":       "watch",
	"metrics":     "metrics",
}

// bindFlags binds every known flag present in flags to its config key.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// initializeConfig merges defaults, the config file, PUBCOLLECTION_* env
// vars and flags into c.cfg, then sets up logging.
func (c *cli) initializeConfig(cmd *cobra.Command) error {
	v := c.v
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	v.SetDefault("name", "Blog")
	v.SetDefault("url", "http://localhost:3000")
	v.SetDefault("description", "")
	v.SetDefault("author", "")
	v.SetDefault("addr", ":3000")
	v.SetDefault("database_path", "data/blog.db")
	v.SetDefault("static_dir", "public")
	v.SetDefault("admin_password", "")
	v.SetDefault("session_secret", "")
	v.SetDefault("cookie_secure", false)
	v.SetDefault("post_cache_ttl", "5m")
	v.SetDefault("watch", false)
	v.SetDefault("metrics", false)

	if c.cfgFile != "" {
		v.SetConfigFile(c.cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("pubcollection")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	configUsed := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config file: %w", err)
		}
		if c.cfgFile != "" {
			return fmt.Errorf("config file %s not found: %w", c.cfgFile, err)
		}
	} else {
		configUsed = v.ConfigFileUsed()
	}

	if err := v.Unmarshal(&c.cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	logging.Init(logging.Config{
		Level:  c.cfg.LogLevel,
		Format: c.cfg.LogFormat,
		Output: cmd.ErrOrStderr(),
	})
	if configUsed != "" {
		logger := logging.WithComponent("cli")
		logger.Debug().Str("file", configUsed).Msg("using config file")
	}
	return nil
}
