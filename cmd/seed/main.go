package main

import (
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/clinic-scheduler/internal/db"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// Popula a base de desenvolvimento com médicos, consultórios e
// pacientes plausíveis. Nunca rodar em produção.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	gofakeit.Seed(time.Now().UnixNano())

	if err := seedDoctors(db, 20); err != nil {
		log.Fatalf("seed doctors: %v", err)
	}
	if err := seedPatients(db, 500); err != nil {
		log.Fatalf("seed patients: %v", err)
	}

	log.Println("seed complete")
}

var specializations = []string{
	"Dermatologia",
	"Cardiologia",
	"Clínica Geral",
	"Ortopedia",
	"Endocrinologia",
	"Neurologia",
	"Pediatria",
	"Psiquiatria",
	"Oftalmologia",
	"Otorrinolaringologia",
}

func seedDoctors(db *gorm.DB, count int) error {
	log.Printf("seeding %d doctors", count)

	hashed, err := bcrypt.GenerateFromPassword([]byte("dev123456"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for i := 0; i < count; i++ {
			doctor := models.Doctor{
				Name:           "Dr. " + gofakeit.Name(),
				Email:          gofakeit.Email(),
				PasswordHash:   string(hashed),
				Phone:          gofakeit.Phone(),
				Specialization: specializations[gofakeit.Number(0, len(specializations)-1)],
				LicenseNumber:  gofakeit.DigitN(6),
			}

			if err := tx.Create(&doctor).Error; err != nil {
				return err
			}

			// um consultório e um hospital por médico
			workplaces := []models.Workplace{
				{
					DoctorID:     doctor.ID,
					Name:         gofakeit.Company() + " Clínica",
					Type:         "clinic",
					Address:      gofakeit.Street(),
					Timezone:     "America/Sao_Paulo",
					MorningStart: "09:00",
					MorningEnd:   "12:00",
					EveningStart: "14:00",
					EveningEnd:   "18:00",
				},
				{
					DoctorID:        doctor.ID,
					Name:            "Hospital " + gofakeit.LastName(),
					Type:            "hospital",
					Address:         gofakeit.Street(),
					Timezone:        "America/Sao_Paulo",
					MorningStart:    "08:00",
					MorningEnd:      "11:00",
					SlotDurationMin: 15,
				},
			}

			if err := tx.Create(&workplaces).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func seedPatients(db *gorm.DB, count int) error {
	log.Printf("seeding %d patients", count)

	const batchSize = 100

	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			for i := offset; i < end; i++ {
				patient := models.Patient{
					Name:  gofakeit.Name(),
					Phone: gofakeit.Phone(),
					Email: gofakeit.Email(),
				}

				if err := tx.Create(&patient).Error; err != nil {
					return err
				}

				// ~1 em 4 titulares tem um dependente
				if gofakeit.Number(0, 3) == 0 {
					member := models.FamilyMember{
						PatientID: patient.ID,
						Name:      gofakeit.Name(),
						Relation:  gofakeit.RandomString([]string{"filho", "filha", "cônjuge", "mãe", "pai"}),
					}
					if err := tx.Create(&member).Error; err != nil {
						return err
					}
				}
			}
			return nil
		})
		if err != nil {
			return err
		}

		log.Printf("patients seeded: %d/%d", end, count)
	}

	return nil
}
