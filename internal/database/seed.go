package database

import (
	"context"
	"fmt"

	"meddata/internal/repositories"

	"github.com/sirupsen/logrus"
)

// ReferenceSeed is one default chronic disease.
type ReferenceSeed struct {
	Name      string
	ICD10Code string
}

// DefaultAllergies are offered on the registration form out of the box.
var DefaultAllergies = []string{
	"Penicillin",
	"Aspirin",
	"Plant pollen",
	"Animal dander",
	"Nuts",
}

// DefaultChronicDiseases are offered on the registration form out of the box.
var DefaultChronicDiseases = []ReferenceSeed{
	{Name: "Type 2 diabetes mellitus", ICD10Code: "E11"},
	{Name: "Essential hypertension", ICD10Code: "I10"},
	{Name: "Asthma", ICD10Code: "J45"},
	{Name: "Chronic kidney disease", ICD10Code: "N18"},
}

// Seed inserts the default reference data. Running it again is harmless.
func Seed(ctx context.Context, repo repositories.ReferenceRepository, log *logrus.Logger) error {
	for _, name := range DefaultAllergies {
		_, created, err := repo.FindOrCreateAllergy(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to seed allergy %q: %w", name, err)
		}
		if created {
			log.Infof("Seeded allergy: %s", name)
		}
	}
	for _, seed := range DefaultChronicDiseases {
		disease, created, err := repo.FindOrCreateChronicDisease(ctx, seed.Name)
		if err != nil {
			return fmt.Errorf("failed to seed chronic disease %q: %w", seed.Name, err)
		}
		if err := repo.SetICD10Code(ctx, disease.ID, seed.ICD10Code); err != nil {
			return fmt.Errorf("failed to seed chronic disease %q: %w", seed.Name, err)
		}
		if created {
			log.Infof("Seeded chronic disease: %s (%s)", seed.Name, seed.ICD10Code)
		}
	}
	return nil
}
