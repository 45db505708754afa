package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"reflect"
	"strings"
	"syscall"
	"time"

	"handwriting/config"
	"handwriting/internal/command"
	"handwriting/internal/log"
	"handwriting/utils/path"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	_ "handwriting/cmd/docs"
)

var (
	rootPath = path.RootPath()
	Version  string
	envPath  string
	yamlPath string
	conf     *config.Configuration
)

// @title        handwriting API
// @version      1.0
// @description  手寫筆跡分析後端 API 文件
// @host         localhost:3000
// @basePath     /
func main() {
	rootCmd := &cobra.Command{
		Use:           "app",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := log.NewLogger(conf)
			if err != nil {
				return fmt.Errorf("init logger failed: %w", err)
			}
			defer logger.Sync()

			app, cleanup, err := wireApp(conf, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			logger.Info("start app ...")
			if err := app.Run(); err != nil {
				return err
			}

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			select {
			case <-quit:
			case err := <-app.Done():
				if err != nil {
					logger.Error("http server stopped unexpectedly", zap.Error(err))
				}
			}

			logger.Info("shutdown app ...")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return app.Stop(ctx)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&envPath, "env", "e", "", "Environment file, e.g. --env .env")
	rootCmd.PersistentFlags().StringVarP(&yamlPath, "config", "c", "", "YAML config file, e.g. --config config.yaml")

	cobra.OnInitialize(func() {
		if envPath != "" && yamlPath != "" {
			fmt.Println("同時指定 --env 與 --config，將以 --env 優先")
		}
		initConfig()
	})

	command.Register(rootCmd, func() (*command.Command, func(), error) {
		logger, err := log.NewLogger(conf)
		if err != nil {
			return nil, nil, fmt.Errorf("init logger failed: %w", err)
		}
		cmd, cleanup, err := wireCommand(conf, logger)
		if err != nil {
			return nil, nil, err
		}
		return cmd, func() {
			cleanup()
			_ = logger.Sync()
		}, nil
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initConfig() {
	v := viper.NewWithOptions(viper.KeyDelimiter("__"))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()

	useFile := false

	if envPath != "" {
		useFile = true
		envPath = path.Resolve(rootPath, envPath)
		fmt.Println("load .env config:", envPath)
		v.SetConfigFile(envPath)
		v.SetConfigType("env")
	} else if yamlPath != "" {
		useFile = true
		yamlPath = path.Resolve(filepath.Join(rootPath, "conf"), yamlPath)
		fmt.Println("load yaml config:", yamlPath)
		v.SetConfigFile(yamlPath)
		v.SetConfigType("yaml")
	}

	if useFile {
		if err := v.ReadInConfig(); err != nil {
			panic(fmt.Errorf("read config failed: %w", err))
		}
		v.WatchConfig()
		v.OnConfigChange(func(in fsnotify.Event) {
			fmt.Println("config file changed:", in.Name)
			if err := v.Unmarshal(&conf); err != nil {
				fmt.Println("unmarshal on change failed:", err)
				return
			}
			config.ApplyDefaults(conf)
		})
	}

	bindEnvs(v, reflect.TypeOf(config.Configuration{}))

	if err := v.Unmarshal(&conf); err != nil {
		fmt.Println("unmarshal config failed:", err)
	}
	conf = config.ApplyDefaults(conf)
	if conf.App.Version == "" && Version != "" {
		conf.App.Version = Version
	}
}

func bindEnvs(v *viper.Viper, t reflect.Type, path ...string) {
	// 若遇到指標，取其 Elem
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			tag = field.Name
		}
		newPath := append(append([]string{}, path...), tag)
		if field.Type.Kind() == reflect.Struct || (field.Type.Kind() == reflect.Ptr && field.Type.Elem().Kind() == reflect.Struct) {
			bindEnvs(v, field.Type, newPath...)
		} else {
			_ = v.BindEnv(strings.Join(newPath, "__"))
		}
	}
}
