package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/REHANAMD/InternGenie/internal/config"
	"github.com/REHANAMD/InternGenie/internal/logging"
	"github.com/REHANAMD/InternGenie/internal/storage"
	"github.com/REHANAMD/InternGenie/pkg/models"
)

// seedPosting mirrors the catalog file layout; optional fields may be absent
type seedPosting struct {
	Title               string `json:"title"`
	Company             string `json:"company"`
	Location            string `json:"location"`
	Description         string `json:"description"`
	RequiredSkills      string `json:"required_skills"`
	PreferredSkills     string `json:"preferred_skills"`
	Duration            string `json:"duration"`
	Stipend             string `json:"stipend"`
	MinEducation        string `json:"min_education"`
	ExperienceRequired  int    `json:"experience_required"`
	ApplicationDeadline string `json:"application_deadline"`
}

func main() {
	var (
		configPath  = flag.String("config", "configs/config.yaml", "path to the configuration file")
		catalogPath = flag.String("catalog", "data/internships.json", "path to the internship catalog file")
	)
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if _, err := logging.InitFromConfig(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	logger := logging.GetGlobalLogger()

	store, err := storage.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	count, err := store.CountInternships(ctx)
	if err != nil {
		log.Fatalf("Failed to inspect catalog: %v", err)
	}
	if count > 0 {
		logger.Info("Catalog already seeded, nothing to do", map[string]interface{}{
			"internships": count,
		})
		return
	}

	postings, err := loadCatalog(*catalogPath)
	if err != nil {
		logger.Warn("Catalog file unavailable, using built-in sample set", map[string]interface{}{
			"path":  *catalogPath,
			"error": err.Error(),
		})
		inserted, err := store.SeedSampleData(ctx)
		if err != nil {
			log.Fatalf("Failed to seed sample catalog: %v", err)
		}
		report(logger, cfg, inserted)
		return
	}

	inserted := 0
	for i := range postings {
		p := postings[i]
		in := &models.Internship{
			Title:               p.Title,
			Company:             p.Company,
			Location:            p.Location,
			Description:         p.Description,
			RequiredSkills:      p.RequiredSkills,
			PreferredSkills:     p.PreferredSkills,
			Duration:            p.Duration,
			Stipend:             p.Stipend,
			MinEducation:        p.MinEducation,
			ExperienceRequired:  p.ExperienceRequired,
			ApplicationDeadline: p.ApplicationDeadline,
			IsActive:            true,
		}
		if in.Title == "" || in.Company == "" {
			logger.Warn("Skipping malformed catalog entry", map[string]interface{}{"index": i})
			continue
		}
		if _, err := store.CreateInternship(ctx, in); err != nil {
			log.Fatalf("Failed to insert %q: %v", in.Title, err)
		}
		inserted++
	}
	report(logger, cfg, inserted)
}

func report(logger logging.Logger, cfg *config.Config, inserted int) {
	logger.Info("Catalog seeded", map[string]interface{}{"internships": inserted})
	fmt.Printf("Seeded %d internships into %s\n", inserted, cfg.Database.Path)
}

func loadCatalog(path string) ([]seedPosting, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var postings []seedPosting
	if err := json.Unmarshal(raw, &postings); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(postings) == 0 {
		return nil, fmt.Errorf("catalog file %s is empty", path)
	}
	return postings, nil
}
