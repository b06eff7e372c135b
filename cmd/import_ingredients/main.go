package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/service"
)

func main() {
	path := flag.String("file", "data/ingredients.csv", "CSV file with name,measurement_unit rows")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	f, err := os.Open(*path)
	if err != nil {
		logging.Fatal().Err(err).Str("file", *path).Msg("failed to open ingredients file")
	}
	defer f.Close()

	ingredients, err := readIngredients(f)
	if err != nil {
		logging.Fatal().Err(err).Str("file", *path).Msg("failed to parse ingredients file")
	}

	db, err := database.New(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	catalog := service.NewCatalogService(repository.NewIngredientRepository(db.DB), repository.NewTagRepository(db.DB))
	inserted, err := catalog.ImportIngredients(context.Background(), ingredients)
	if err != nil {
		logging.Fatal().Err(err).Msg("import failed")
	}

	logging.Info().
		Int("read", len(ingredients)).
		Int64("inserted", inserted).
		Msg("Ingredient import finished")
}

// readIngredients parses name,measurement_unit rows. An optional header row
// and blank lines are skipped.
func readIngredients(r io.Reader) ([]models.Ingredient, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var out []models.Ingredient
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		line, _ := reader.FieldPos(0)
		if len(record) != 2 {
			return nil, fmt.Errorf("line %d: expected 2 fields, got %d", line, len(record))
		}

		name, unit := strings.TrimSpace(record[0]), strings.TrimSpace(record[1])
		if line == 1 && name == "name" && unit == "measurement_unit" {
			continue
		}
		if name == "" || unit == "" {
			return nil, fmt.Errorf("line %d: name and measurement unit are required", line)
		}
		out = append(out, models.Ingredient{Name: name, MeasurementUnit: unit})
	}
}
