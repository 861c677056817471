package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tswtrack/internal/config"
	"tswtrack/internal/model"
)

// Seeds 90 days of synthetic history for the default owner account, with
// deliberate patterns baked in so the insight endpoints have something to
// find: stress days spike same-day, dairy spikes the day after, and
// moisturizer days run below baseline.
func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	coll := client.Database(cfg.MongoDB).Collection("checkins")

	userID := "usr_admin"
	rng := rand.New(rand.NewSource(42))
	now := time.Now()

	var docs []interface{}
	dairyYesterday := false
	for day := 90; day >= 1; day-- {
		ts := now.AddDate(0, 0, -day)

		intensity := 1 + rng.Intn(2) // background: 1-2
		var triggers []string
		var treatments []string

		stressDay := day%5 == 0
		if stressDay {
			triggers = append(triggers, "stress")
			intensity = 3 + rng.Intn(2)
		}
		if dairyYesterday {
			intensity = 3 + rng.Intn(2)
		}
		dairyYesterday = day%7 == 0
		if dairyYesterday {
			triggers = append(triggers, "food:dairy")
		}
		if day%3 == 0 {
			treatments = append(treatments, "moisturizer")
			if intensity > 0 && !stressDay {
				intensity--
			}
		}

		pain := intensity * 2
		sleep := 5 - intensity
		if sleep < 1 {
			sleep = 1
		}

		checkin := model.CheckIn{
			UserID:        userID,
			Timestamp:     ts,
			SkinIntensity: &intensity,
			PainScore:     &pain,
			SleepScore:    &sleep,
			Triggers:      triggers,
			Treatments:    treatments,
			CreatedAt:     ts,
			UpdatedAt:     ts,
		}
		if intensity >= 3 {
			checkin.Symptoms = []model.SymptomEntry{
				{Symptom: "itching", Severity: intensity},
				{Symptom: "redness", Severity: intensity - 1},
			}
		}
		checkin.Normalize()
		docs = append(docs, checkin)
	}

	result, err := coll.InsertMany(ctx, docs)
	if err != nil {
		log.Fatalf("Failed to insert check-ins: %v", err)
	}

	fmt.Printf("Seeded %d check-ins for user '%s'\n", len(result.InsertedIDs), userID)
}
