package main

import (
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"chabeau/internal/app"
	"chabeau/internal/config"
	"chabeau/internal/logging"
	"chabeau/internal/provider"
	"chabeau/internal/signal"
	"chabeau/internal/streamclient"
)

var (
	flagProvider  string
	flagModel     string
	flagLog       string
	flagEnv       bool
	flagPersona   string
	flagPreset    string
	flagCharacter string
)

const (
	connectTimeout = 10 * time.Second
	idleTimeout    = 60 * time.Second
)

var rootCmd = &cobra.Command{
	Use:   "chabeau",
	Short: "A full-screen terminal chat client for OpenAI-compatible APIs",
	Long: `Chabeau brings streaming responses, Markdown rendering, retry,
edit-history, themes, and provider/model pickers to a TTY.`,
	RunE: runChat,
}

func init() {
	rootCmd.Flags().StringVarP(&flagProvider, "provider", "p", "", "Provider ID to use for this session")
	rootCmd.Flags().StringVar(&flagModel, "model", "", "Model ID to use for this session")
	rootCmd.Flags().StringVar(&flagLog, "log", "", "Write the conversation transcript to PATH")
	rootCmd.Flags().BoolVar(&flagEnv, "env", false, "Use OPENAI_API_KEY/OPENAI_BASE_URL only, skipping keyring/config lookup")
	rootCmd.Flags().StringVar(&flagPersona, "persona", "", "Persona ID applied to the composed system prompt")
	rootCmd.Flags().StringVar(&flagPreset, "preset", "", "Preset ID applied to the composed system prompt")
	rootCmd.Flags().StringVarP(&flagCharacter, "character", "c", "", "Character card ID applied to the composed system prompt")
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext()
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyOverrides(flagProvider, flagModel)

	providerID := flagProvider
	if providerID == "" {
		providerID = cfg.DefaultProvider
	}
	if providerID == "" {
		return fmt.Errorf("no provider configured: pass --provider or set default_provider in config.yaml")
	}

	modelID := flagModel
	if modelID == "" {
		modelID = cfg.GetProviderConfig(providerID).Model
	}

	personaID := flagPersona
	if personaID == "" {
		personaID = cfg.DefaultPersona
	}
	presetID := flagPreset
	if presetID == "" {
		presetID = cfg.DefaultPreset
	}

	var log *logging.Log
	if flagLog != "" {
		path := flagLog
		if cfg.LogDir != "" && path == filepath.Base(path) {
			path = filepath.Join(cfg.LogDir, path)
		}
		log, err = logging.NewLog(path)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
	}

	deps := app.Deps{
		Ctx:         ctx,
		Client:      streamclient.New(connectTimeout, idleTimeout),
		Registry:    provider.NewRegistry(),
		Config:      cfg,
		Log:         log,
		ProviderID:  providerID,
		ModelID:     modelID,
		CharacterID: flagCharacter,
		PersonaID:   personaID,
		PresetID:    presetID,
		EnvOnly:     flagEnv,
	}

	p := tea.NewProgram(app.New(deps), tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err = p.Run()
	return err
}
