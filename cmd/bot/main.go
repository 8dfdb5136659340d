// Package main is the entry point for the PancyModerator Go application.
// It initializes all systems and starts the Discord bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PancyStudios/PancyModeratorGo/internal/commands"
	"github.com/PancyStudios/PancyModeratorGo/internal/events"
	"github.com/PancyStudios/PancyModeratorGo/pkg/config"
	"github.com/PancyStudios/PancyModeratorGo/pkg/database"
	"github.com/PancyStudios/PancyModeratorGo/pkg/discord"
	"github.com/PancyStudios/PancyModeratorGo/pkg/errors"
	"github.com/PancyStudios/PancyModeratorGo/pkg/logger"
	"github.com/PancyStudios/PancyModeratorGo/pkg/moderator"
	"github.com/PancyStudios/PancyModeratorGo/pkg/mqtt"
	"github.com/PancyStudios/PancyModeratorGo/pkg/store"
	"github.com/PancyStudios/PancyModeratorGo/pkg/web"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System("Iniciando PancyModerator Go...", "Main")
	logger.Info(fmt.Sprintf("Directorio de trabajo: %s", getCurrentDir()), "Main")

	// Initialize error handler
	var discordClient *discord.ExtendedClient
	var mod *moderator.Moderator
	errors.Init(cfg.ErrorWebhook, func() {
		if mod != nil {
			mod.Stop()
		}
		if discordClient != nil {
			if err := discordClient.Stop(); err != nil {
				return
			}
		}
	})

	// Open the moderation store
	st, err := openStore(cfg)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error abriendo el almacenamiento %s: %v", cfg.StoreBackend, err), "Main")
		os.Exit(1)
	}
	defer func() {
		if db := database.Get(); db != nil {
			if err := db.Disconnect(); err != nil {
				logger.Error(fmt.Sprintf("Error desconectando la base de datos: %v", err), "Main")
			}
		}
	}()
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error(fmt.Sprintf("Error cerrando el almacenamiento: %v", err), "Main")
		}
	}()
	logger.Success(fmt.Sprintf("Almacenamiento listo: %s", cfg.StoreBackend), "Main")

	// Load moderation options
	opts, err := config.LoadModeratorOptions(cfg.ModeratorConfig)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error cargando opciones de moderación: %v", err), "Main")
		os.Exit(1)
	}

	// Initialize Discord client
	discordClient, err = discord.Init(cfg.BotToken)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "Main")
		os.Exit(1)
	}

	// Build the moderation managers on top of the Discord session
	mod, err = moderator.New(discordClient.Host(), st, nil, opts)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creando el moderador: %v", err), "Main")
		os.Exit(1)
	}
	discordClient.Moderator = mod
	defer mod.Stop()

	// Register commands and events
	commands.RegisterAll(discordClient)
	events.RegisterAll(discordClient)

	// Initialize MQTT and publish moderation events
	mqttClientID := "pancymoderator"
	if !cfg.IsProd() {
		mqttClientID = "pancymoderator_canary"
	}

	mqttClient := mqtt.Init(
		cfg.MQTTHost,
		cfg.MQTTPort,
		cfg.MQTTUser,
		cfg.MQTTPassword,
		mqttClientID,
	)
	defer mqttClient.Destroy()

	bridge := mqtt.NewBridge(mqttClient, mod)
	bridge.Start()
	defer bridge.Stop()

	// Initialize web server
	webServer := web.Init(cfg.LogsWebServerHook)
	webServer.SetModerator(mod, string(cfg.StoreBackend))
	web.SetupAPIRoutes(webServer)
	webServer.StartAsync(cfg.Port)

	// Start the bot; the mute sweep starts on Ready
	if err := discordClient.Start(); err != nil {
		logger.Critical(fmt.Sprintf("Error starting Discord client: %v", err), "Main")
		os.Exit(1)
	}
	defer func() {
		if err := discordClient.Stop(); err != nil {
			logger.Error(fmt.Sprintf("Error deteniendo el cliente de Discord: %v", err), "Main")
		}
	}()

	logger.Success("PancyModerator Go iniciado correctamente!", "Main")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.System("Apagando PancyModerator Go...", "Main")
}

// openStore opens the backend selected by STORE_BACKEND
func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		logger.Warn("Usando almacenamiento en memoria: los registros se pierden al reiniciar", "Main")
		return store.NewMemory(), nil
	case config.StoreMongo:
		db, err := database.Init(cfg.MongoDBURL, cfg.DBName)
		if err != nil {
			// The database keeps reconnecting in the background
			logger.Error(fmt.Sprintf("Error connecting to database: %v", err), "Main")
		}
		return database.NewStore(db), nil
	case config.StoreRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return store.NewRedis(ctx, cfg.RedisURL, cfg.DBName)
	default:
		return store.OpenSQLite(cfg.SQLitePath)
	}
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}
