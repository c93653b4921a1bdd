package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jobreach/jobreach/internal/gateway"
	"github.com/jobreach/jobreach/internal/logger"
	"github.com/jobreach/jobreach/internal/session"
)

const (
	app            = "jobreach"
	defaultBaseURL = "http://localhost:8000"
)

type Config struct {
	BaseURL    string `mapstructure:"base-url"`
	UserID     string `mapstructure:"user-id"`
	UserIDFile string `mapstructure:"user-id-file"`
	UserAgent  string `mapstructure:"user-agent"`
	History    *struct {
		PageSize int `mapstructure:"page-size"`
	} `mapstructure:"history"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobreach matches your resumes against job postings and finds people to reach out to",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("user-id-file", "JOBREACH_USER_ID_FILE"); err != nil {
		log.Fatalf("binding JOBREACH_USER_ID_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("base-url", "JOBREACH_BASE_URL"); err != nil {
		log.Fatalf("binding JOBREACH_BASE_URL environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobreach.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// The version command works without any configuration.
	if versionCmd.CalledAs() != "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config == nil {
		config = &Config{}
	}

	return config, nil
}

// env bundles everything a command needs to talk to the backend.
type env struct {
	logger *zap.Logger
	client *gateway.Client
	config *Config
	userID string
}

func setup() (*env, error) {
	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return nil, err
	}

	config, err := getConfig()
	if err != nil {
		return nil, err
	}

	userIDFile := config.UserIDFile
	if userIDFile == "" {
		userIDFile = viper.GetString("user-id-file")
	}

	userID, err := session.Load(session.Source{
		Name:  "user id",
		Value: config.UserID,
		File:  userIDFile,
	})
	if err != nil {
		zlog.Fatal(
			"resolving the session identity",
			zap.Error(err),
			zap.String("hint", "set user-id in the configuration file or JOBREACH_USER_ID_FILE"),
		)
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = viper.GetString("base-url")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	client := gateway.New(zlog, baseURL)
	if config.UserAgent != "" {
		client.UserAgent = config.UserAgent
	}

	return &env{
		logger: zlog,
		client: client,
		config: config,
		userID: userID,
	}, nil
}

func (e *env) historyPageSize() int {
	if e.config.History != nil {
		return e.config.History.PageSize
	}

	return 0
}
