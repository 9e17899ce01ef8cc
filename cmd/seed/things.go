package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"ngcrud-backend-go/internal/api"
	"ngcrud-backend-go/internal/config"
	"ngcrud-backend-go/internal/core"
	"ngcrud-backend-go/internal/db"
	"ngcrud-backend-go/internal/logger"
	"ngcrud-backend-go/internal/models"
)

const seedConcurrency = 4

// seedFile is the YAML layout accepted by --file.
type seedFile struct {
	Things []models.ThingInput `yaml:"things"`
}

func newThingsCmd() *cobra.Command {
	var (
		file    string
		uid     string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "things",
		Short: "Create sample things owned by a user",
		Long:  "Reads things from a YAML file, links the given Firebase user and creates every thing as that user.",
		RunE: func(cmd *cobra.Command, args []string) error {
			uid = strings.TrimSpace(uid)
			if uid == "" {
				return errors.New("--uid is required")
			}
			if file == "" {
				return errors.New("--file is required")
			}

			inputs, err := loadSeedFile(file)
			if err != nil {
				return err
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			zapLogger, err := logger.New(cfg.GinMode)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer zapLogger.Sync()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			clients, err := db.InitFirebase(ctx, cfg, zapLogger)
			if err != nil {
				return fmt.Errorf("init firebase: %w", err)
			}
			store, err := db.NewDocumentStore(cfg, clients)
			if err != nil {
				return fmt.Errorf("init document store: %w", err)
			}
			defer store.Close()

			record, err := clients.Auth.GetUser(ctx, uid)
			if err != nil {
				return fmt.Errorf("look up user %s: %w", uid, err)
			}
			identity := &models.Identity{
				UID:         record.UID,
				DisplayName: record.DisplayName,
				Email:       record.Email,
				PhotoURL:    record.PhotoURL,
			}

			ids, err := seedThings(ctx, zapLogger, store, identity, inputs)
			if err != nil {
				return err
			}
			fmt.Printf("Created %d things for %s:\n", len(ids), identity.UID)
			for _, id := range ids {
				fmt.Printf("  %s\n", id)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML file with a top-level 'things' list")
	cmd.Flags().StringVar(&uid, "uid", "", "Firebase UID that will own the seeded things")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "Overall timeout")
	return cmd
}

// loadSeedFile parses and validates the seed file with the same rules as the HTTP form.
func loadSeedFile(path string) ([]models.ThingInput, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var parsed seedFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if len(parsed.Things) == 0 {
		return nil, errors.New("seed file contains no things")
	}

	if err := api.RegisterValidators(); err != nil {
		return nil, err
	}
	for i := range parsed.Things {
		if err := binding.Validator.ValidateStruct(&parsed.Things[i]); err != nil {
			return nil, fmt.Errorf("thing #%d (%q) is invalid: %w", i+1, parsed.Things[i].Name, err)
		}
	}
	return parsed.Things, nil
}

// seedThings signs identity in through the identity feed, waits for the profile link and then
// creates every input as that user. IDs are returned in input order.
func seedThings(ctx context.Context, zapLogger *zap.Logger, store db.DocumentStore, identity *models.Identity, inputs []models.ThingInput) ([]string, error) {
	userRepo := db.NewUserRepository(store)
	thingRepo := db.NewThingRepository(store, nil)
	identityService := core.NewIdentityService(userRepo, nil, zapLogger, nil)

	feed := core.NewIdentityFeed(identityService, zapLogger)
	authStates := make(chan *models.Identity, 1)
	if err := feed.Start(ctx, authStates); err != nil {
		return nil, err
	}
	defer feed.Stop()

	authStates <- identity
	close(authStates)

	linked, err := feed.WaitForIdentity(ctx)
	if err != nil {
		return nil, fmt.Errorf("link identity %s: %w", identity.UID, err)
	}

	ids := make([]string, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(seedConcurrency)
	for i, input := range inputs {
		g.Go(func() error {
			id, err := thingRepo.Save(gctx, nil, input, linked.UID)
			if err != nil {
				return fmt.Errorf("create %q: %w", input.Name, err)
			}
			zapLogger.Info("Seeded thing", zap.String("thingID", id), zap.String("name", input.Name))
			ids[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ids, nil
}
