package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/whisper-darkly/sticky-dvr/internal/config"
	"github.com/whisper-darkly/sticky-dvr/internal/configure"
	"github.com/whisper-darkly/sticky-dvr/internal/logging"
)

func main() {
	app := kingpin.New("sticky-configure", "Render sticky-dvr deployment configuration from layered YAML and managed secrets")
	outDir := app.Flag("out", "Output directory for rendered artifacts").String()
	localConfig := app.Flag("local", "Local config merged over config.yaml (default: config.local.yaml if present)").String()
	noLocal := app.Flag("no-local", "Skip the default local override layer").Bool()
	templatesDir := app.Flag("templates", "Directory holding the *.j2 templates").String()
	baseConfig := app.Flag("config", "Tracked defaults layer").String()
	secretsFile := app.Flag("secrets", "Secret store file").String()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := config.Load(collectOverrides(outDir, localConfig, templatesDir, baseConfig, secretsFile, noLocal))
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	result, err := configure.New(cfg, logger).Run()
	if err != nil {
		logger.Fatal("configuration failed", zap.Error(err))
	}

	logger.Info("configuration complete",
		zap.Int("artifacts", len(result.Artifacts)),
		zap.Strings("generated", result.Generated))
}

// collectOverrides translates parsed flag values into config overrides,
// leaving unset flags nil so lower-precedence sources apply.
func collectOverrides(outDir, localConfig, templatesDir, baseConfig, secretsFile *string, noLocal *bool) *config.CLIOverrides {
	overrides := &config.CLIOverrides{}

	if *outDir != "" {
		overrides.OutDir = outDir
	}
	if *localConfig != "" {
		overrides.LocalConfig = localConfig
	}
	if *templatesDir != "" {
		overrides.TemplatesDir = templatesDir
	}
	if *baseConfig != "" {
		overrides.BaseConfig = baseConfig
	}
	if *secretsFile != "" {
		overrides.SecretsFile = secretsFile
	}
	if *noLocal {
		overrides.SkipLocal = noLocal
	}

	return overrides
}


