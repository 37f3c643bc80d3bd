package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/PabloGalante/careerai/internal/adapters/events"
	"github.com/PabloGalante/careerai/internal/adapters/llm"
	"github.com/PabloGalante/careerai/internal/adapters/objects"
	"github.com/PabloGalante/careerai/internal/adapters/payments"
	firestorestore "github.com/PabloGalante/careerai/internal/adapters/storage/firestore"
	memstore "github.com/PabloGalante/careerai/internal/adapters/storage/memory"
	"github.com/PabloGalante/careerai/internal/app/flows"
	"github.com/PabloGalante/careerai/internal/config"
	"github.com/PabloGalante/careerai/internal/domain"
	"github.com/PabloGalante/careerai/internal/observability"
)

// deps are the adapters selected by configuration.
type deps struct {
	generator  domain.Generator
	registry   *flows.Registry
	interviews domain.InterviewStore
	profiles   domain.ProfileStore
	events     domain.EventPublisher
	objects    domain.ObjectStore  // nil = uploads are not kept
	gateway    domain.OrderGateway // nil = payments disabled

	closers []func() error
}

func (d *deps) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = append(errs, d.closers[i]())
	}
	return errors.Join(errs...)
}

func buildDeps(ctx context.Context, cfg *config.Config) (*deps, error) {
	log := observability.Logger()
	d := &deps{}

	// LLM: mock or Gemini
	if cfg.UseMockLLM {
		log.Info("using mock LLM client")
		d.generator = llm.NewMockLLM()
	} else {
		log.Info("using Gemini LLM client", "model", cfg.ModelName, "vertex", cfg.GeminiAPIKey == "")
		client, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
			APIKey:    cfg.GeminiAPIKey,
			ProjectID: cfg.GCPProjectID,
			Location:  cfg.GCPLocation,
			Model:     cfg.ModelName,
		})
		if err != nil {
			return nil, fmt.Errorf("error initializing Gemini client: %w", err)
		}
		d.generator = client
	}

	// Storage: Firestore or Memory
	switch cfg.StorageBackend {
	case "firestore":
		log.Info("using Firestore storage", "project", cfg.GCPProjectID)
		fsStore, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			return nil, fmt.Errorf("error initializing Firestore store: %w", err)
		}
		// 1 store, implements 2 interfaces
		d.interviews = fsStore
		d.profiles = fsStore
		d.closers = append(d.closers, fsStore.Close)
	default:
		log.Info("using in-memory storage")
		d.interviews = memstore.NewInterviewStore()
		d.profiles = memstore.NewProfileStore()
	}

	registry, err := flows.NewRegistry(d.generator, flows.WithProfiles(d.profiles))
	if err != nil {
		d.Close()
		return nil, err
	}
	d.registry = registry

	if cfg.AMQPURL != "" {
		pub, err := events.Dial(cfg.AMQPURL)
		if err != nil {
			d.Close()
			return nil, err
		}
		log.Info("publishing events to RabbitMQ", "exchange", events.Exchange)
		d.events = pub
		d.closers = append(d.closers, pub.Close)
	} else {
		log.Info("logging events in memory")
		d.events = memstore.NewEventLog()
	}

	if cfg.S3.Enabled() {
		store, err := objects.NewStore(ctx, objects.Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
		if err != nil {
			d.Close()
			return nil, err
		}
		log.Info("storing résumés in object storage", "bucket", cfg.S3.Bucket)
		d.objects = store
	}

	if cfg.PaymentsEnabled() {
		gw, err := payments.NewGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.gateway = gw
	}

	return d, nil
}
